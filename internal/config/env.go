package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// isFlagSet reports whether any of names was set on the command line.
func isFlagSet(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

// envOverride maps one NQDM_* variable to the flags it stands in for.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

func intOverride(dst func(*AppConfig) *int) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst(c) = parsed
		}
	}
}

func durationOverride(dst func(*AppConfig) *time.Duration) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst(c) = parsed
		}
	}
}

func boolOverride(dst func(*AppConfig) *bool) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		p := dst(c)
		*p = parseBoolEnv(v, *p)
	}
}

func stringOverride(dst func(*AppConfig) *string) func(*AppConfig, string) {
	return func(c *AppConfig, v string) { *dst(c) = v }
}

var envOverrides = []envOverride{
	{"N", []string{"n"}, intOverride(func(c *AppConfig) *int { return &c.N })},
	{"LENGTH", []string{"length"}, intOverride(func(c *AppConfig) *int { return &c.Length })},

	{"DELAY", []string{"delay"}, durationOverride(func(c *AppConfig) *time.Duration { return &c.Delay })},
	{"TIMEOUT", []string{"timeout"}, durationOverride(func(c *AppConfig) *time.Duration { return &c.Timeout })},

	{"MODE", []string{"mode"}, stringOverride(func(c *AppConfig) *string { return &c.Mode })},
	{"DEST", []string{"dest"}, stringOverride(func(c *AppConfig) *string { return &c.Dest })},
	{"METRICS_ADDR", []string{"metrics-addr"}, stringOverride(func(c *AppConfig) *string { return &c.MetricsAddr })},
	{"FILL", []string{"fill"}, stringOverride(func(c *AppConfig) *string { return &c.Fill })},
	{"HEAD", []string{"head"}, stringOverride(func(c *AppConfig) *string { return &c.Head })},

	{"SILENT", []string{"silent", "q"}, boolOverride(func(c *AppConfig) *bool { return &c.Silent })},
	{"SPINNER", []string{"spinner"}, boolOverride(func(c *AppConfig) *bool { return &c.Spinner })},
	{"VERBOSE", []string{"v", "verbose"}, boolOverride(func(c *AppConfig) *bool { return &c.Verbose })},
	{"NO_COLOR", []string{"no-color"}, boolOverride(func(c *AppConfig) *bool { return &c.NoColor })},
}

// parseBoolEnv accepts true/1/yes and false/0/no, case-insensitively, and
// returns defaultVal for anything else.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides fills config from NQDM_* variables for every flag not
// set explicitly. Unparsable values are ignored.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSet(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
