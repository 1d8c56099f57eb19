package chime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemory(t *testing.T, channels, frames int) *MemoryRecording {
	t.Helper()

	traces := make([][]float64, channels)
	for c := range traces {
		traces[c] = make([]float64, frames)
		for f := range traces[c] {
			traces[c][f] = sample(c, f)
		}
	}
	m, err := NewMemoryRecording(traces, 1000, nil)
	require.NoError(t, err)
	return m
}

func TestResolveTraces(t *testing.T) {
	rec := newMemory(t, 3, 100)

	tests := []struct {
		name    string
		opts    []TraceOption
		want    TraceWindow
		wantErr string
	}{
		{
			name: "defaults",
			want: TraceWindow{ChannelIDs: []int{0, 1, 2}, StartFrame: 0, EndFrame: 100},
		},
		{
			name: "start only",
			opts: []TraceOption{WithStartFrame(40)},
			want: TraceWindow{ChannelIDs: []int{0, 1, 2}, StartFrame: 40, EndFrame: 100},
		},
		{
			name: "end only",
			opts: []TraceOption{WithEndFrame(10)},
			want: TraceWindow{ChannelIDs: []int{0, 1, 2}, StartFrame: 0, EndFrame: 10},
		},
		{
			name: "channels keep request order",
			opts: []TraceOption{WithChannels(2, 0, 2)},
			want: TraceWindow{ChannelIDs: []int{2, 0, 2}, StartFrame: 0, EndFrame: 100},
		},
		{
			name: "explicit empty channel list",
			opts: []TraceOption{WithChannels()},
			want: TraceWindow{ChannelIDs: []int{}, StartFrame: 0, EndFrame: 100},
		},
		{
			name: "later option wins",
			opts: []TraceOption{WithFrames(1, 2), WithEndFrame(50)},
			want: TraceWindow{ChannelIDs: []int{0, 1, 2}, StartFrame: 1, EndFrame: 50},
		},
		{
			name: "full window bounds",
			opts: []TraceOption{WithFrames(100, 100)},
			want: TraceWindow{ChannelIDs: []int{0, 1, 2}, StartFrame: 100, EndFrame: 100},
		},
		{name: "negative start", opts: []TraceOption{WithStartFrame(-1)}, wantErr: "start_frame"},
		{name: "negative end", opts: []TraceOption{WithEndFrame(-1)}, wantErr: "end_frame"},
		{name: "end too large", opts: []TraceOption{WithEndFrame(101)}, wantErr: "end_frame"},
		{name: "start after end", opts: []TraceOption{WithFrames(50, 49)}, wantErr: "start_frame"},
		{name: "start past default end", opts: []TraceOption{WithStartFrame(101)}, wantErr: "start_frame"},
		{name: "unknown channel", opts: []TraceOption{WithChannels(0, 3)}, wantErr: "channel_id"},
		{name: "negative channel", opts: []TraceOption{WithChannels(-1)}, wantErr: "channel_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTraces(rec, tt.opts...)
			if tt.wantErr != "" {
				require.ErrorIs(t, err, ErrInvalidRange)
				var re *RangeError
				require.ErrorAs(t, err, &re)
				assert.Equal(t, tt.wantErr, re.Param)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.EndFrame-tt.want.StartFrame, got.NumFrames())
		})
	}
}

func TestWithChannels_CopiesInput(t *testing.T) {
	rec := newMemory(t, 3, 10)

	ids := []int{1, 2}
	opt := WithChannels(ids...)
	ids[0] = 99

	w, err := ResolveTraces(rec, opt)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, w.ChannelIDs)
}

func TestWithChannels_CallerMutationAfterBuild(t *testing.T) {
	rec, err := NewMemoryRecording([][]float64{{1, 2}, {3, 4}, {5, 6}}, 10, nil)
	require.NoError(t, err)

	ids := []int{2, 0}
	opt := WithChannels(ids...)
	ids[0] = 1

	got, err := rec.Traces(opt)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{5, 6}, {1, 2}}, got)

	// Applying the same option twice yields the same selection.
	got, err = rec.Traces(opt)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{5, 6}, {1, 2}}, got)
}

func TestRangeError_Message(t *testing.T) {
	err := &RangeError{Param: "end_frame", Value: 12, Limit: 10, Reason: "past the last frame"}
	assert.Equal(t, "chime: invalid end_frame 12: past the last frame (limit 10)", err.Error())
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.NotErrorIs(t, err, ErrClosed)
}
