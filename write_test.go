package chime

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRecording_RoundTrip(t *testing.T) {
	traces := [][]float64{
		{0.5, -1.25, 3, 4, 5},
		{10, 20, 30, 40, 50},
		{-7, -8, -9, -10, -11},
	}
	locs := []Location{{X: 0, Y: 17.5}, {X: 16, Y: 17.5}, {X: 32, Y: 35}}
	mem, err := NewMemoryRecording(traces, 20000, locs)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "roundtrip.h5")
	require.NoError(t, WriteRecording(path, mem))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.Traces()
	require.NoError(t, err)
	assert.Equal(t, traces, got)

	gotLocs, err := r.ChannelLocations()
	require.NoError(t, err)
	assert.Equal(t, locs, gotLocs)
}

func TestWriteRecording_FromCuratedReader(t *testing.T) {
	keepOdd := CuratorFunc(func(ids []int, _ []Location) ([]int, error) {
		var out []int
		for _, id := range ids {
			if id%2 == 1 {
				out = append(out, id)
			}
		}
		return out, nil
	})
	src := openFixture(t, 4, 6, WithCurator(keepOdd))

	path := filepath.Join(t.TempDir(), "subset.h5")
	require.NoError(t, WriteRecording(path, src))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	ids, err := r.ChannelIDs()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, ids, "written channels are renumbered")

	got, err := r.Traces(WithFrames(0, 2))
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{sample(1, 0), sample(1, 1)}, {sample(3, 0), sample(3, 1)}}, got)

	locs, err := r.ChannelLocations()
	require.NoError(t, err)
	assert.Equal(t, []Location{{X: 10, Y: -1}, {X: 30, Y: -3}}, locs)
}

func TestWriteRecording_Empty(t *testing.T) {
	dir := t.TempDir()

	noFrames, err := NewMemoryRecording([][]float64{{}, {}}, 100, nil)
	require.NoError(t, err)
	require.ErrorIs(t, WriteRecording(filepath.Join(dir, "a.h5"), noFrames), ErrInvalidRange)

	noChannels, err := NewMemoryRecording(nil, 100, nil)
	require.NoError(t, err)
	require.ErrorIs(t, WriteRecording(filepath.Join(dir, "b.h5"), noChannels), ErrInvalidRange)
}

func TestWriteRecording_ClosedSource(t *testing.T) {
	src := openFixture(t, 2, 4)
	require.NoError(t, src.Close())

	err := WriteRecording(filepath.Join(t.TempDir(), "c.h5"), src)
	require.ErrorIs(t, err, ErrClosed)
}
