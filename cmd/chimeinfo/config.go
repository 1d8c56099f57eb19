package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/scigolib/chime"
)

// config holds the parsed command line. Flags take precedence over
// environment variables, which take precedence over defaults.
type config struct {
	Path             string
	SamplingRate     float64
	Format           string
	Channels         []int
	Start            int
	End              int
	Verbose          bool
	UnfilteredMarker string
	LogLevel         string
	LogFormat        string
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	var channels string

	fs := flag.NewFlagSet("chimeinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: chimeinfo [flags] <file.h5>")
		fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}

	fs.Float64Var(&cfg.SamplingRate, "rate", getEnvFloat("CHIME_SAMPLING_RATE", chime.DefaultSamplingRate), "Sampling rate in Hz")
	fs.StringVar(&cfg.Format, "format", "text", "Output format: text or yaml")
	fs.StringVar(&channels, "channels", "", "Comma-separated channel ids to dump (default: all)")
	fs.IntVar(&cfg.Start, "start", 0, "First frame to dump")
	fs.IntVar(&cfg.End, "end", 0, "Frame after the last one to dump (0 disables the dump)")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Log a summary when the recording is opened")
	fs.StringVar(&cfg.UnfilteredMarker, "unfiltered-marker", getEnv("CHIME_UNFILTERED_MARKER", ""), "Path substring marking unfiltered recordings")
	fs.StringVar(&cfg.LogLevel, "log-level", getEnv("CHIME_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", getEnv("CHIME_LOG_FORMAT", "text"), "Log format: text or json")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, fmt.Errorf("expected exactly one file, got %d", fs.NArg())
	}
	cfg.Path = fs.Arg(0)

	if cfg.Format != "text" && cfg.Format != "yaml" {
		return nil, fmt.Errorf("unknown format %q", cfg.Format)
	}
	ids, err := parseChannels(channels)
	if err != nil {
		return nil, err
	}
	cfg.Channels = ids
	return cfg, nil
}

func parseChannels(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad channel id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func newLogger(cfg *config, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.ToLower(cfg.LogFormat) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
