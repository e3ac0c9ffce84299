// This file contains environment variable and .env file handling.

package config

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	apperrors "github.com/agbru/omnisum/internal/errors"
)

// DefaultEnvFile is loaded from the working directory when present.
const DefaultEnvFile = ".env"

// EnvFileVar names the variable pointing at an alternative .env file.
const EnvFileVar = EnvPrefix + "ENV_FILE"

// LoadEnvFile loads KEY=VALUE pairs from the .env file into the process
// environment. Variables already set are left untouched, so the real
// environment wins over the file. A missing ./.env is not an error; a missing
// file named by OMNISUM_ENV_FILE is.
func LoadEnvFile() error {
	path := os.Getenv(EnvFileVar)
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return apperrors.NewConfigError("loading env file %s: %v", path, err)
	}
	return nil
}

// isFlagSet checks if a flag was explicitly set on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// Aliased flags may be given in either form.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override: the env key
// (without the OMNISUM_ prefix), the flag name(s) it shadows, and how the
// value is applied.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	{"TASK", []string{"task", "t"}, func(c *AppConfig, v string) { c.Task = v }},
	{"BASE_URL", []string{"base-url"}, func(c *AppConfig, v string) { c.BaseURL = v }},
	{"MODELS", []string{"models"}, func(c *AppConfig, v string) { c.Models = v }},
	{"ENDPOINTS", []string{"endpoints"}, func(c *AppConfig, v string) { c.EndpointsFile = v }},
	{"FILE", []string{"file", "f"}, func(c *AppConfig, v string) {
		if c.File == "" {
			c.File = v
		}
	}},
	{"SUMMARY_TYPE", []string{"summary-type"}, func(c *AppConfig, v string) { c.SummaryType = v }},
	{"OUTPUT", []string{"output", "o"}, func(c *AppConfig, v string) { c.OutputFile = v }},
	{"WATCH", []string{"watch"}, func(c *AppConfig, v string) { c.WatchDir = v }},
	{"METRICS_ADDR", []string{"metrics-addr"}, func(c *AppConfig, v string) { c.MetricsAddr = v }},
	{"LOG_LEVEL", []string{"log-level"}, func(c *AppConfig, v string) { c.LogLevel = v }},

	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	{"TUI", []string{"tui"}, func(c *AppConfig, v string) { c.TUI = parseBoolEnv(v, c.TUI) }},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, v string) { c.Quiet = parseBoolEnv(v, c.Quiet) }},
	{"VERBOSE", []string{"verbose", "v"}, func(c *AppConfig, v string) { c.Verbose = parseBoolEnv(v, c.Verbose) }},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) { c.NoColor = parseBoolEnv(v, c.NoColor) }},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
