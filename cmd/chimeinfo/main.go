// Command chimeinfo prints the layout of a CHIME recording and, optionally,
// a window of its traces.
//
// Usage:
//
//	chimeinfo [flags] <file.h5>
//
// Examples:
//
//	chimeinfo recording.h5
//	chimeinfo -format yaml -rate 30000 recording.h5
//	chimeinfo -channels 2,0 -start 10 -end 20 recording.h5
//
// Environment variables:
//
//	CHIME_SAMPLING_RATE      - Sampling rate in Hz (default: 20000)
//	CHIME_UNFILTERED_MARKER  - Path substring marking unfiltered recordings
//	CHIME_LOG_LEVEL          - Logging level: debug, info, warn, error (default: info)
//	CHIME_LOG_FORMAT         - Logging format: text, json (default: text)
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scigolib/chime"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "chimeinfo: %v\n", err)
		}
		os.Exit(1)
	}
}

// window is a dumped slice of traces.
type window struct {
	Channels []int       `yaml:"channels"`
	Start    int         `yaml:"start_frame"`
	End      int         `yaml:"end_frame"`
	Traces   [][]float64 `yaml:"traces"`
}

// summary is what chimeinfo reports about a recording.
type summary struct {
	Extractor    string           `yaml:"extractor"`
	Params       chime.Params     `yaml:"params"`
	NumChannels  int              `yaml:"num_channels"`
	NumFrames    int              `yaml:"num_frames"`
	SamplingRate float64          `yaml:"sampling_rate"`
	Duration     float64          `yaml:"duration_s"`
	Filtered     bool             `yaml:"filtered"`
	ChannelIDs   []int            `yaml:"channel_ids"`
	Locations    []chime.Location `yaml:"locations"`
	Window       *window          `yaml:"window,omitempty"`
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, stderr)

	opts := []chime.Option{
		chime.WithSamplingRate(cfg.SamplingRate),
		chime.WithVerbose(cfg.Verbose),
		chime.WithLogger(logger),
	}
	if cfg.UnfilteredMarker != "" {
		opts = append(opts, chime.WithUnfilteredMarker(cfg.UnfilteredMarker))
	}

	rec, err := chime.Open(cfg.Path, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rec.Close(); cerr != nil {
			logger.Warn("close failed", "file", cfg.Path, "error", cerr)
		}
	}()

	s, err := summarize(rec)
	if err != nil {
		return err
	}

	if cfg.End > cfg.Start || cfg.Channels != nil {
		w, err := dump(rec, cfg)
		if err != nil {
			return err
		}
		s.Window = w
	}

	if cfg.Format == "yaml" {
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return printText(stdout, s)
}

func summarize(rec *chime.Reader) (*summary, error) {
	ids, err := rec.ChannelIDs()
	if err != nil {
		return nil, err
	}
	frames, err := rec.NumFrames()
	if err != nil {
		return nil, err
	}
	rate, err := rec.SamplingFrequency()
	if err != nil {
		return nil, err
	}
	locs, err := rec.ChannelLocations()
	if err != nil {
		return nil, err
	}

	return &summary{
		Extractor:    chime.ExtractorName,
		Params:       rec.Params(),
		NumChannels:  len(ids),
		NumFrames:    frames,
		SamplingRate: rate,
		Duration:     float64(frames) / rate,
		Filtered:     rec.IsFiltered(),
		ChannelIDs:   ids,
		Locations:    locs,
	}, nil
}

func dump(rec *chime.Reader, cfg *config) (*window, error) {
	var opts []chime.TraceOption
	if cfg.Channels != nil {
		opts = append(opts, chime.WithChannels(cfg.Channels...))
	}
	opts = append(opts, chime.WithStartFrame(cfg.Start))
	if cfg.End > 0 {
		opts = append(opts, chime.WithEndFrame(cfg.End))
	}

	w, err := chime.ResolveTraces(rec, opts...)
	if err != nil {
		return nil, err
	}
	traces, err := rec.Traces(opts...)
	if err != nil {
		return nil, err
	}
	return &window{
		Channels: w.ChannelIDs,
		Start:    w.StartFrame,
		End:      w.EndFrame,
		Traces:   traces,
	}, nil
}

func printText(out io.Writer, s *summary) error {
	var err error
	p := func(format string, a ...any) {
		if err == nil {
			_, err = fmt.Fprintf(out, format, a...)
		}
	}

	p("# %s: %s\n", s.Extractor, s.Params.FilePath)
	p("# number of channels: %d\n", s.NumChannels)
	p("# number of frames: %d\n", s.NumFrames)
	p("# sampling rate: %g Hz\n", s.SamplingRate)
	p("# length of recording: %g s\n", s.Duration)
	p("# filtered: %t\n", s.Filtered)
	for i, id := range s.ChannelIDs {
		p("channel %d: x=%g y=%g\n", id, s.Locations[i].X, s.Locations[i].Y)
	}

	if s.Window != nil {
		p("traces [%d, %d):\n", s.Window.Start, s.Window.End)
		for i, id := range s.Window.Channels {
			p("%d: %v\n", id, s.Window.Traces[i])
		}
	}
	return err
}
