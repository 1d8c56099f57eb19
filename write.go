package chime

import (
	"fmt"

	"github.com/scigolib/chime/internal/h5store"
)

// WriteRecording stores rec as a CHIME container at path, replacing any
// existing file. Channels are written in rec.ChannelIDs order and renumbered
// 0..n-1; each mapping record is (new channel, source channel id, x, y).
// The sampling rate is not stored; pass it to Open when reading back.
func WriteRecording(path string, rec Extractor) error {
	if !Installed() {
		return fmt.Errorf("%w: %s", ErrDependencyMissing, InstallationMessage)
	}

	ids, err := rec.ChannelIDs()
	if err != nil {
		return err
	}
	frames, err := rec.NumFrames()
	if err != nil {
		return err
	}
	if len(ids) == 0 || frames == 0 {
		return fmt.Errorf("%w: cannot write %d channels x %d frames", ErrInvalidRange, len(ids), frames)
	}

	locs, err := rec.ChannelLocations()
	if err != nil {
		return err
	}
	if len(locs) != len(ids) {
		return fmt.Errorf("%w: %d locations for %d channels", ErrInvalidConfig, len(locs), len(ids))
	}

	traces, err := rec.Traces()
	if err != nil {
		return err
	}

	sig := make([]float64, 0, len(ids)*frames)
	for _, row := range traces {
		sig = append(sig, row...)
	}
	mapping := make([]float64, 0, len(ids)*h5store.MappingColumns)
	for i, id := range ids {
		mapping = append(mapping, float64(i), float64(id), locs[i].X, locs[i].Y)
	}

	shape := h5store.Shape{Channels: uint64(len(ids)), Frames: uint64(frames)}
	if err := h5store.Create(path, shape, sig, mapping); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
