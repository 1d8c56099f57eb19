// Package chime reads CHIME electrophysiology recordings.
//
// A CHIME recording is an HDF5 container holding a (channels x frames)
// sample matrix "sig" and a per-channel "mapping" table whose fields 2 and
// 3 give the electrode position. Reader exposes it through the Extractor
// contract: channel ids, locations, frame count, sampling frequency and
// trace windows.
//
// Basic usage:
//
//	rec, err := chime.Open("recording.h5", chime.WithSamplingRate(20000))
//	if err != nil {
//	    return err
//	}
//	defer rec.Close()
//
//	traces, err := rec.Traces(chime.WithChannels(2, 0), chime.WithFrames(10, 20))
package chime

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/scigolib/chime/internal/h5store"
)

// Extractor metadata.
const (
	ExtractorName       = "CHIMERecording"
	HasDefaultLocations = true
	IsWritable          = true
	Mode                = "file"
)

// InstallationMessage explains how to get a working storage backend.
const InstallationMessage = "To use the CHIME recording extractor, build with the HDF5 storage backend:\n\n" +
	"  go get github.com/scigolib/hdf5\n"

// store is the storage layer a Reader reads from.
type store interface {
	Shape() h5store.Shape
	ReadFrames(start, end uint64) ([]float64, error)
	Positions(xField, yField string) ([]h5store.Position, error)
	Close() error
}

// openStore opens the storage backend. Nil means no backend is available.
var openStore = func(path string) (store, error) {
	s, err := h5store.Open(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Installed reports whether an HDF5 storage backend is available.
func Installed() bool {
	return openStore != nil
}

// Params are the arguments needed to open the same recording again.
type Params struct {
	FilePath     string  `yaml:"file_path"`
	SamplingRate float64 `yaml:"sampling_rate"`
	Verbose      bool    `yaml:"verbose"`
}

// Reader is an open CHIME recording. It is not safe for concurrent use.
type Reader struct {
	path string
	cfg  Config

	st        store
	numChans  int
	numFrames int
	locations []Location // indexed by row of sig
	filtered  bool

	// channelIDs is the single authoritative list of exposed channels.
	// Each id is a row index of sig.
	channelIDs []int
}

// Open opens the CHIME recording at path read-only.
func Open(path string, opts ...Option) (*Reader, error) {
	if !Installed() {
		return nil, fmt.Errorf("%w: %s", ErrDependencyMissing, InstallationMessage)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if !(cfg.SamplingRate > 0) {
		return nil, fmt.Errorf("%w: sampling rate must be positive, got %v", ErrInvalidConfig, cfg.SamplingRate)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	st, err := openStore(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileOpen, path, err)
	}

	r, err := newReader(path, *cfg, st)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	if cfg.Verbose {
		cfg.Logger.Info("CHIME recording",
			"file", path,
			"channels", r.numChans,
			"duration_s", float64(r.numFrames)/cfg.SamplingRate,
		)
	}

	if cfg.Curator != nil {
		if err := r.UpdateChannels(); err != nil {
			_ = r.Close()
			return nil, err
		}
	}
	return r, nil
}

func newReader(path string, cfg Config, st store) (*Reader, error) {
	shape := st.Shape()

	positions, err := st.Positions(cfg.XField, cfg.YField)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileOpen, path, err)
	}
	if uint64(len(positions)) != shape.Channels {
		return nil, fmt.Errorf("%w: %s: mapping has %d records for %d channels",
			ErrFileOpen, path, len(positions), shape.Channels)
	}

	r := &Reader{
		path:      path,
		cfg:       cfg,
		st:        st,
		numChans:  int(shape.Channels),
		numFrames: int(shape.Frames),
		locations: make([]Location, len(positions)),
		filtered:  filteredFlag(path, cfg),
	}
	for i, p := range positions {
		r.locations[i] = Location{X: p[0], Y: p[1]}
	}
	r.channelIDs = make([]int, r.numChans)
	for i := range r.channelIDs {
		r.channelIDs[i] = i
	}
	return r, nil
}

func filteredFlag(path string, cfg Config) bool {
	if cfg.Filtered != nil {
		return *cfg.Filtered
	}
	if cfg.UnfilteredMarker != "" && strings.Contains(path, cfg.UnfilteredMarker) {
		return false
	}
	return true
}

// Path returns the path the recording was opened with.
func (r *Reader) Path() string {
	return r.path
}

// Params returns the arguments needed to open this recording again, with
// the file path made absolute.
func (r *Reader) Params() Params {
	p := r.path
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return Params{
		FilePath:     p,
		SamplingRate: r.cfg.SamplingRate,
		Verbose:      r.cfg.Verbose,
	}
}

// IsFiltered reports whether the recording is considered band-pass filtered.
// The value comes from configuration, never from the samples.
func (r *Reader) IsFiltered() bool {
	return r.filtered
}

// IsClosed reports whether Close has been called.
func (r *Reader) IsClosed() bool {
	return r.st == nil
}

// ChannelIDs returns the exposed channel ids in order. Without curation
// this is 0..channels-1.
func (r *Reader) ChannelIDs() ([]int, error) {
	if r.IsClosed() {
		return nil, ErrClosed
	}
	return slices.Clone(r.channelIDs), nil
}

// NumChannels returns the number of exposed channels.
func (r *Reader) NumChannels() (int, error) {
	if r.IsClosed() {
		return 0, ErrClosed
	}
	return len(r.channelIDs), nil
}

// NumFrames returns the number of frames in the signal matrix.
func (r *Reader) NumFrames() (int, error) {
	if r.IsClosed() {
		return 0, ErrClosed
	}
	return r.numFrames, nil
}

// SamplingFrequency returns the configured sampling rate in Hz.
func (r *Reader) SamplingFrequency() (float64, error) {
	if r.IsClosed() {
		return 0, ErrClosed
	}
	return r.cfg.SamplingRate, nil
}

// ChannelLocations returns the electrode position of each exposed channel,
// in ChannelIDs order.
func (r *Reader) ChannelLocations() ([]Location, error) {
	if r.IsClosed() {
		return nil, ErrClosed
	}
	out := make([]Location, len(r.channelIDs))
	for i, id := range r.channelIDs {
		out[i] = r.locations[id]
	}
	return out, nil
}

// Traces reads a window of samples. See ResolveTraces for defaults and
// validation. Every call reads from the file.
func (r *Reader) Traces(opts ...TraceOption) ([][]float64, error) {
	w, err := ResolveTraces(r, opts...)
	if err != nil {
		return nil, err
	}

	n := w.NumFrames()
	out := make([][]float64, len(w.ChannelIDs))
	if n == 0 || len(w.ChannelIDs) == 0 {
		for i := range out {
			out[i] = []float64{}
		}
		return out, nil
	}

	//nolint:gosec // G115: window bounds were validated as non-negative
	data, err := r.st.ReadFrames(uint64(w.StartFrame), uint64(w.EndFrame))
	if err != nil {
		return nil, fmt.Errorf("read frames [%d, %d) of %s: %w", w.StartFrame, w.EndFrame, r.path, err)
	}
	if len(data) != r.numChans*n {
		return nil, fmt.Errorf("read frames [%d, %d) of %s: got %d samples, want %d",
			w.StartFrame, w.EndFrame, r.path, len(data), r.numChans*n)
	}
	for i, id := range w.ChannelIDs {
		out[i] = slices.Clone(data[id*n : (id+1)*n])
	}
	return out, nil
}

// UpdateChannels runs the configured curator and replaces the exposed
// channel ids with its result. Without a curator it does nothing.
func (r *Reader) UpdateChannels() error {
	if r.IsClosed() {
		return ErrClosed
	}
	if r.cfg.Curator == nil {
		return nil
	}

	locs, err := r.ChannelLocations()
	if err != nil {
		return err
	}
	curated, err := r.cfg.Curator.Curate(slices.Clone(r.channelIDs), locs)
	if err != nil {
		return fmt.Errorf("curate channels of %s: %w", r.path, err)
	}
	if err := validateCurated(r.channelIDs, curated); err != nil {
		return err
	}
	r.channelIDs = slices.Clone(curated)
	return nil
}

// Close releases the file. It is safe to call Close multiple times; every
// query after Close returns ErrClosed.
func (r *Reader) Close() error {
	if r.st == nil {
		return nil
	}
	err := r.st.Close()
	r.st = nil
	return err
}
