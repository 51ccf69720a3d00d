package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	configFileName = "config.json"
	dotenvFileName = ".env"

	envDataDir  = "AGENDASTATS_DATA_DIR"
	envTimezone = "AGENDASTATS_TIMEZONE"
	envTopN     = "AGENDASTATS_TOP_N"
)

// Config holds all application configuration.
type Config struct {
	DataDir       string        `json:"-"`
	Timezone      string        `json:"timezone"` // IANA name, "" = local
	TopN          int           `json:"top_n"`
	WatchDebounce time.Duration `json:"-"`
}

// Default returns a Config with default values.
func Default() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf(
			"determining home directory: %w", err,
		)
	}
	return Config{
		DataDir:       filepath.Join(home, ".agendastats"),
		TopN:          5,
		WatchDebounce: 500 * time.Millisecond,
	}, nil
}

// Load builds a Config by layering: defaults < config file <
// .env file < env < flags. The provided FlagSet must already be
// parsed by the caller. Only flags that were explicitly set
// override the lower layers.
func Load(fs *flag.FlagSet) (Config, error) {
	cfg, err := LoadMinimal()
	if err != nil {
		return cfg, err
	}
	if err := applyFlags(&cfg, fs); err != nil {
		return cfg, err
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadMinimal builds a Config from defaults, the config file,
// the .env file and the environment, without CLI flags. Unlike
// Load it does not validate the result.
func LoadMinimal() (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv(envDataDir); v != "" {
		cfg.DataDir = v
	}

	if err := cfg.loadFile(); err != nil {
		return cfg, fmt.Errorf("loading config file: %w", err)
	}
	dotenv, err := cfg.readDotenv()
	if err != nil {
		return cfg, fmt.Errorf("loading %s: %w", dotenvFileName, err)
	}
	if err := cfg.loadEnv(dotenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) configPath() string {
	return filepath.Join(c.DataDir, configFileName)
}

func (c *Config) loadFile() error {
	data, err := os.ReadFile(c.configPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var file struct {
		Timezone      *string `json:"timezone"`
		TopN          *int    `json:"top_n"`
		WatchDebounce string  `json:"watch_debounce"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if file.Timezone != nil {
		c.Timezone = *file.Timezone
	}
	if file.TopN != nil {
		c.TopN = *file.TopN
	}
	if file.WatchDebounce != "" {
		d, err := time.ParseDuration(file.WatchDebounce)
		if err != nil {
			return fmt.Errorf("parsing watch_debounce: %w", err)
		}
		c.WatchDebounce = d
	}
	return nil
}

// readDotenv reads KEY=VALUE pairs from the data dir's .env
// file without touching the process environment.
func (c *Config) readDotenv() (map[string]string, error) {
	path := filepath.Join(c.DataDir, dotenvFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return godotenv.Read(path)
}

// loadEnv applies environment overrides. Process env wins over
// the .env file.
func (c *Config) loadEnv(dotenv map[string]string) error {
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	}
	if v := lookup(envTimezone); v != "" {
		c.Timezone = v
	}
	if v := lookup(envTopN); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", envTopN, err)
		}
		c.TopN = n
	}
	return nil
}

func (c *Config) validate() error {
	if c.TopN < 1 {
		return fmt.Errorf("top-n must be at least 1, got %d", c.TopN)
	}
	if c.WatchDebounce <= 0 {
		return fmt.Errorf(
			"watch debounce must be positive, got %v", c.WatchDebounce,
		)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured time zone. An empty
// Timezone means the machine's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// RegisterFlags registers the shared command flags on fs.
// The caller must call fs.Parse before passing fs to Load.
func RegisterFlags(fs *flag.FlagSet) {
	fs.String("timezone", "", "IANA time zone for day bucketing (default local)")
	fs.Int("top", 5, "Number of replies in each ranked table")
	fs.Duration(
		"debounce", 500*time.Millisecond,
		"Quiet period before recomputing in watch mode",
	)
}

// applyFlags copies explicitly-set flags from fs into cfg and
// returns the first value that fails to parse.
func applyFlags(cfg *Config, fs *flag.FlagSet) error {
	if fs == nil {
		return nil
	}
	var firstErr error
	fs.Visit(func(f *flag.Flag) {
		var err error
		switch f.Name {
		case "timezone":
			cfg.Timezone = f.Value.String()
		case "top":
			cfg.TopN, err = strconv.Atoi(f.Value.String())
		case "debounce":
			cfg.WatchDebounce, err = time.ParseDuration(f.Value.String())
		}
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("flag -%s: %w", f.Name, err)
		}
	})
	return firstErr
}
