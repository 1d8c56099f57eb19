package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/scigolib/chime"
)

func writeRecording(t *testing.T, name string) string {
	t.Helper()

	rec, err := chime.NewMemoryRecording([][]float64{
		{0, 1, 2, 3, 4, 5, 6, 7},
		{10, 11, 12, 13, 14, 15, 16, 17},
		{20, 21, 22, 23, 24, 25, 26, 27},
	}, chime.DefaultSamplingRate, []chime.Location{{X: 0, Y: 0}, {X: 16, Y: 0}, {X: 32, Y: 16}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, chime.WriteRecording(path, rec))
	return path
}

func TestRun_Text(t *testing.T) {
	path := writeRecording(t, "session.h5")
	var stdout, stderr bytes.Buffer

	require.NoError(t, run([]string{"-rate", "4", path}, &stdout, &stderr))

	out := stdout.String()
	assert.Contains(t, out, "# CHIMERecording: ")
	assert.Contains(t, out, "# number of channels: 3\n")
	assert.Contains(t, out, "# number of frames: 8\n")
	assert.Contains(t, out, "# length of recording: 2 s\n")
	assert.Contains(t, out, "# filtered: true\n")
	assert.Contains(t, out, "channel 2: x=32 y=16\n")
	assert.NotContains(t, out, "traces")
}

func TestRun_TextWindow(t *testing.T) {
	path := writeRecording(t, "session.h5")
	var stdout, stderr bytes.Buffer

	require.NoError(t, run([]string{"-channels", "2,0", "-start", "1", "-end", "4", path}, &stdout, &stderr))

	out := stdout.String()
	assert.Contains(t, out, "traces [1, 4):\n")
	assert.Contains(t, out, "2: [21 22 23]\n")
	assert.Contains(t, out, "0: [1 2 3]\n")
}

func TestRun_YAML(t *testing.T) {
	path := writeRecording(t, "session_raw.h5")
	var stdout, stderr bytes.Buffer

	require.NoError(t, run([]string{
		"-format", "yaml", "-unfiltered-marker", "_raw", "-channels", "1", "-end", "2", path,
	}, &stdout, &stderr))

	var got summary
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, chime.ExtractorName, got.Extractor)
	assert.Equal(t, 3, got.NumChannels)
	assert.Equal(t, 8, got.NumFrames)
	assert.False(t, got.Filtered)
	assert.Equal(t, []int{0, 1, 2}, got.ChannelIDs)
	assert.Equal(t, []chime.Location{{X: 0, Y: 0}, {X: 16, Y: 0}, {X: 32, Y: 16}}, got.Locations)
	assert.True(t, filepath.IsAbs(got.Params.FilePath))

	require.NotNil(t, got.Window)
	assert.Equal(t, []int{1}, got.Window.Channels)
	assert.Equal(t, 0, got.Window.Start)
	assert.Equal(t, 2, got.Window.End)
	assert.Equal(t, [][]float64{{10, 11}}, got.Window.Traces)
}

func TestRun_Verbose(t *testing.T) {
	path := writeRecording(t, "session.h5")
	var stdout, stderr bytes.Buffer

	require.NoError(t, run([]string{"-verbose", "-log-format", "json", path}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), `"msg":"CHIME recording"`)
	assert.Contains(t, stderr.String(), `"channels":3`)
}

func TestRun_Errors(t *testing.T) {
	path := writeRecording(t, "session.h5")

	tests := []struct {
		name string
		args []string
	}{
		{"no file", nil},
		{"two files", []string{path, path}},
		{"bad format", []string{"-format", "xml", path}},
		{"bad channel list", []string{"-channels", "1,x", path}},
		{"missing file", []string{filepath.Join(t.TempDir(), "none.h5")}},
		{"window out of range", []string{"-end", "9", path}},
		{"unknown channel", []string{"-channels", "5", path}},
		{"bad rate", []string{"-rate", "0", path}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			require.Error(t, run(tt.args, &stdout, &stderr))
		})
	}
}

func TestParseChannels(t *testing.T) {
	ids, err := parseChannels("")
	require.NoError(t, err)
	assert.Nil(t, ids)

	ids, err = parseChannels(" 3, 1 ,3")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 3}, ids)
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("CHIME_TEST_RATE", "30000")
	assert.Equal(t, 30000.0, getEnvFloat("CHIME_TEST_RATE", 1))

	t.Setenv("CHIME_TEST_RATE", "fast")
	assert.Equal(t, 1.0, getEnvFloat("CHIME_TEST_RATE", 1))
}
