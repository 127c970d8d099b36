package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"squitterlog/internal/logging"
	"squitterlog/internal/publish"
)

// Default configuration constants
const (
	DefaultDataDir   = "data"
	DefaultExtension = ".t4433"
	DefaultEnvFile   = ".env"

	// EnvPrefix prefixes every environment override
	EnvPrefix = "SQUITTERLOG_"
)

// LogConfig holds the operator log file settings
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Config holds application configuration
type Config struct {
	DataDir   string   `yaml:"data_dir"`
	Extension string   `yaml:"extension"`
	Files     []string `yaml:"files"`
	Aircraft  string   `yaml:"aircraft"`
	Verbose   bool     `yaml:"verbose"`

	Timing  bool   `yaml:"timing"`
	PDFDir  string `yaml:"pdf_dir"`
	SBSDir  string `yaml:"sbs_dir"`
	PlotDir string `yaml:"plot_dir"`

	NATSURL     string `yaml:"nats_url"`
	NATSSubject string `yaml:"nats_subject"`

	Log LogConfig `yaml:"log"`

	ShowVersion bool `yaml:"-"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() Config {
	return Config{
		DataDir:     DefaultDataDir,
		Extension:   DefaultExtension,
		NATSSubject: publish.DefaultSubject,
		Log: LogConfig{
			MaxSizeMB:  logging.DefaultMaxSizeMB,
			MaxBackups: logging.DefaultMaxBackups,
			MaxAgeDays: logging.DefaultMaxAgeDays,
		},
	}
}

// LoadFile overlays the YAML file at path onto cfg
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv loads envFile when it exists, then overlays SQUITTERLOG_* variables onto cfg
func ApplyEnv(envFile string, cfg *Config) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	strs := map[string]*string{
		"DATA_DIR":     &cfg.DataDir,
		"EXTENSION":    &cfg.Extension,
		"AIRCRAFT":     &cfg.Aircraft,
		"PDF_DIR":      &cfg.PDFDir,
		"SBS_DIR":      &cfg.SBSDir,
		"PLOT_DIR":     &cfg.PlotDir,
		"NATS_URL":     &cfg.NATSURL,
		"NATS_SUBJECT": &cfg.NATSSubject,
		"LOG_FILE":     &cfg.Log.File,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"VERBOSE":      &cfg.Verbose,
		"TIMING":       &cfg.Timing,
		"LOG_COMPRESS": &cfg.Log.Compress,
	}
	for key, dst := range bools {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
	}

	ints := map[string]*int{
		"LOG_MAX_SIZE_MB":  &cfg.Log.MaxSizeMB,
		"LOG_MAX_BACKUPS":  &cfg.Log.MaxBackups,
		"LOG_MAX_AGE_DAYS": &cfg.Log.MaxAgeDays,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv(EnvPrefix + "FILES"); ok && v != "" {
		cfg.Files = strings.Split(v, ",")
	}

	return nil
}

// Validate checks settings that would make every file fail
func (c Config) Validate() error {
	if len(c.Files) == 0 && c.DataDir == "" {
		return errors.New("data directory cannot be empty")
	}
	if c.Extension == "" {
		return errors.New("capture extension cannot be empty")
	}
	if !strings.HasPrefix(c.Extension, ".") {
		return fmt.Errorf("capture extension %q must start with a dot", c.Extension)
	}
	if c.Aircraft != "" && !isICAO(c.Aircraft) {
		return fmt.Errorf("aircraft filter %q is not a 24-bit hex address", c.Aircraft)
	}
	return nil
}

// LoggingOptions maps the log settings onto the logger constructor
func (c Config) LoggingOptions() logging.Options {
	return logging.Options{
		Verbose:    c.Verbose,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
	}
}

func isICAO(s string) bool {
	if len(s) != 6 {
		return false
	}
	_, err := strconv.ParseUint(s, 16, 32)
	return err == nil
}
