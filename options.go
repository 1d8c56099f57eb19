package chime

import "log/slog"

// DefaultSamplingRate is used when WithSamplingRate is not given. CHIME files
// do not store their sampling rate.
const DefaultSamplingRate = 20000.0

// Default compound member names holding the electrode position in mapping records.
const (
	DefaultXField = "x"
	DefaultYField = "y"
)

// Option configures Open.
type Option func(*Config)

// Config holds the construction parameters of a Reader. It is fixed once
// Open returns.
type Config struct {
	SamplingRate float64
	Verbose      bool
	Logger       *slog.Logger

	// Filtered overrides the filtered flag when non-nil.
	Filtered *bool
	// UnfilteredMarker marks unfiltered recordings by file path: a path
	// containing it is reported as not filtered. Empty disables the check.
	UnfilteredMarker string

	XField string
	YField string

	Curator Curator
}

func defaultConfig() *Config {
	return &Config{
		SamplingRate: DefaultSamplingRate,
		XField:       DefaultXField,
		YField:       DefaultYField,
	}
}

// WithSamplingRate sets the sampling rate in Hz. It must be positive.
func WithSamplingRate(hz float64) Option {
	return func(c *Config) {
		c.SamplingRate = hz
	}
}

// WithVerbose logs a summary of the recording when it is opened.
func WithVerbose(verbose bool) Option {
	return func(c *Config) {
		c.Verbose = verbose
	}
}

// WithLogger sets the logger used by verbose output (default slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithFiltered states whether the recording is already band-pass filtered.
// It takes precedence over WithUnfilteredMarker.
func WithFiltered(filtered bool) Option {
	return func(c *Config) {
		c.Filtered = &filtered
	}
}

// WithUnfilteredMarker reports recordings whose path contains marker as not
// filtered. The signal itself is never inspected.
func WithUnfilteredMarker(marker string) Option {
	return func(c *Config) {
		c.UnfilteredMarker = marker
	}
}

// WithLocationFields names the compound members holding x and y in the
// mapping records. Numeric mapping tables always use columns 2 and 3.
func WithLocationFields(x, y string) Option {
	return func(c *Config) {
		c.XField = x
		c.YField = y
	}
}

// WithCurator installs a channel curation provider. It runs once at the end
// of Open and again on every UpdateChannels call.
func WithCurator(curator Curator) Option {
	return func(c *Config) {
		c.Curator = curator
	}
}
