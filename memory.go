package chime

import (
	"fmt"
	"slices"
)

// MemoryRecording is an Extractor over samples held in memory. Channel ids
// are 0..channels-1. It is useful for tests and as a source for
// WriteRecording.
type MemoryRecording struct {
	traces       [][]float64
	samplingRate float64
	locations    []Location
	numFrames    int
}

// NewMemoryRecording copies traces (one row per channel, equal lengths) into
// a new recording. locations may be nil, which places every channel at the
// origin; otherwise it needs one entry per channel.
func NewMemoryRecording(traces [][]float64, samplingRate float64, locations []Location) (*MemoryRecording, error) {
	if !(samplingRate > 0) {
		return nil, fmt.Errorf("%w: sampling rate must be positive, got %v", ErrInvalidConfig, samplingRate)
	}
	if locations != nil && len(locations) != len(traces) {
		return nil, fmt.Errorf("%w: %d locations for %d channels", ErrInvalidConfig, len(locations), len(traces))
	}

	m := &MemoryRecording{
		traces:       make([][]float64, len(traces)),
		samplingRate: samplingRate,
		locations:    make([]Location, len(traces)),
	}
	for i, row := range traces {
		if i == 0 {
			m.numFrames = len(row)
		} else if len(row) != m.numFrames {
			return nil, fmt.Errorf("%w: channel %d has %d frames, channel 0 has %d",
				ErrInvalidConfig, i, len(row), m.numFrames)
		}
		m.traces[i] = slices.Clone(row)
	}
	copy(m.locations, locations)
	return m, nil
}

// ChannelIDs returns 0..channels-1.
func (m *MemoryRecording) ChannelIDs() ([]int, error) {
	ids := make([]int, len(m.traces))
	for i := range ids {
		ids[i] = i
	}
	return ids, nil
}

// NumFrames returns the number of frames per channel.
func (m *MemoryRecording) NumFrames() (int, error) {
	return m.numFrames, nil
}

// SamplingFrequency returns the sampling rate in Hz.
func (m *MemoryRecording) SamplingFrequency() (float64, error) {
	return m.samplingRate, nil
}

// ChannelLocations returns one location per channel.
func (m *MemoryRecording) ChannelLocations() ([]Location, error) {
	return slices.Clone(m.locations), nil
}

// Traces returns a copy of the requested window.
func (m *MemoryRecording) Traces(opts ...TraceOption) ([][]float64, error) {
	w, err := ResolveTraces(m, opts...)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(w.ChannelIDs))
	for i, id := range w.ChannelIDs {
		out[i] = slices.Clone(m.traces[id][w.StartFrame:w.EndFrame])
	}
	return out, nil
}
