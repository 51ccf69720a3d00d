package config

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"
)

func writeConfig(t *testing.T, dir string, data any) {
	t.Helper()
	b, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFileName), b, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// writeConfigRaw writes raw string content to a file in dir.
// Use writeConfig for structured data; use this for exact
// string control or intentionally invalid content.
func writeConfigRaw(
	t *testing.T, dir, name, content string,
) {
	t.Helper()
	if err := os.WriteFile(
		filepath.Join(dir, name), []byte(content), 0o600,
	); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// setupConfigDir creates a temp data dir, points the env var
// at it, and clears the other overrides.
func setupConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(envDataDir, dir)
	unsetEnv(t, envTimezone)
	unsetEnv(t, envTopN)
	return dir
}

// unsetEnv removes key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func loadConfigFromFlags(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return Load(fs)
}

func TestLoad_Defaults(t *testing.T) {
	dir := setupConfigDir(t)

	cfg, err := loadConfigFromFlags(t)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != dir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, dir)
	}
	if cfg.TopN != 5 {
		t.Errorf("TopN = %d, want 5", cfg.TopN)
	}
	if cfg.Timezone != "" {
		t.Errorf("Timezone = %q, want empty", cfg.Timezone)
	}
	if cfg.WatchDebounce != 500*time.Millisecond {
		t.Errorf("WatchDebounce = %v, want 500ms", cfg.WatchDebounce)
	}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if loc != time.Local {
		t.Errorf("Location = %v, want Local", loc)
	}
}

func TestLoad_Layering(t *testing.T) {
	tests := []struct {
		name     string
		file     map[string]any
		dotenv   string
		env      map[string]string
		args     []string
		wantTZ   string
		wantTopN int
	}{
		{
			name:     "ConfigFile",
			file:     map[string]any{"timezone": "Asia/Tokyo", "top_n": 3},
			wantTZ:   "Asia/Tokyo",
			wantTopN: 3,
		},
		{
			name:     "DotenvOverridesFile",
			file:     map[string]any{"timezone": "Asia/Tokyo", "top_n": 3},
			dotenv:   "AGENDASTATS_TIMEZONE=Europe/Paris\n",
			wantTZ:   "Europe/Paris",
			wantTopN: 3,
		},
		{
			name:     "EnvOverridesDotenv",
			dotenv:   "AGENDASTATS_TIMEZONE=Europe/Paris\nAGENDASTATS_TOP_N=7\n",
			env:      map[string]string{envTimezone: "UTC"},
			wantTZ:   "UTC",
			wantTopN: 7,
		},
		{
			name:     "FlagsOverrideEverything",
			file:     map[string]any{"timezone": "Asia/Tokyo", "top_n": 3},
			env:      map[string]string{envTopN: "8"},
			args:     []string{"-timezone", "America/New_York", "-top", "10"},
			wantTZ:   "America/New_York",
			wantTopN: 10,
		},
		{
			name:     "UnsetFlagsDoNotOverride",
			file:     map[string]any{"top_n": 3},
			args:     []string{"-timezone", "UTC"},
			wantTZ:   "UTC",
			wantTopN: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupConfigDir(t)
			if tt.file != nil {
				writeConfig(t, dir, tt.file)
			}
			if tt.dotenv != "" {
				writeConfigRaw(t, dir, dotenvFileName, tt.dotenv)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := loadConfigFromFlags(t, tt.args...)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Timezone != tt.wantTZ {
				t.Errorf("Timezone = %q, want %q", cfg.Timezone, tt.wantTZ)
			}
			if cfg.TopN != tt.wantTopN {
				t.Errorf("TopN = %d, want %d", cfg.TopN, tt.wantTopN)
			}
		})
	}
}

func TestLoad_DotenvDoesNotLeakIntoProcessEnv(t *testing.T) {
	dir := setupConfigDir(t)
	writeConfigRaw(t, dir, dotenvFileName, "AGENDASTATS_TIMEZONE=UTC\n")

	if _, err := loadConfigFromFlags(t); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := os.LookupEnv(envTimezone); ok {
		t.Errorf("%s was set in the process environment", envTimezone)
	}
}

func TestLoad_WatchDebounce(t *testing.T) {
	dir := setupConfigDir(t)
	writeConfig(t, dir, map[string]any{"watch_debounce": "2s"})

	cfg, err := loadConfigFromFlags(t)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WatchDebounce != 2*time.Second {
		t.Errorf("WatchDebounce = %v, want 2s", cfg.WatchDebounce)
	}

	cfg, err = loadConfigFromFlags(t, "-debounce", "250ms")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WatchDebounce != 250*time.Millisecond {
		t.Errorf("WatchDebounce = %v, want 250ms", cfg.WatchDebounce)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		dotenv  string
		args    []string
		wantErr string
	}{
		{"InvalidJSON", `{"timezone":`, "", nil, "parsing config"},
		{"BadDebounce", `{"watch_debounce":"soon"}`, "", nil, "watch_debounce"},
		{"UnknownTimezone", `{"timezone":"Mars/Olympus"}`, "", nil, "Mars/Olympus"},
		{"BadTopNEnv", "", "AGENDASTATS_TOP_N=many\n", nil, envTopN},
		{"ZeroTopN", "", "", []string{"-top", "0"}, "top-n"},
		{"NegativeDebounce", "", "", []string{"-debounce", "-1s"}, "debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupConfigDir(t)
			if tt.file != "" {
				writeConfigRaw(t, dir, configFileName, tt.file)
			}
			if tt.dotenv != "" {
				writeConfigRaw(t, dir, dotenvFileName, tt.dotenv)
			}
			_, err := loadConfigFromFlags(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := Config{Timezone: "Asia/Tokyo"}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if loc.String() != "Asia/Tokyo" {
		t.Errorf("Location = %q, want Asia/Tokyo", loc)
	}

	cfg.Timezone = "Nowhere/Special"
	if _, err := cfg.Location(); err == nil {
		t.Error("expected error for unknown zone")
	}
}

func TestApplyFlags_ParseErrors(t *testing.T) {
	// Flags registered as strings so bad values reach applyFlags.
	newFS := func(args ...string) *flag.FlagSet {
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		fs.String("top", "", "")
		fs.String("debounce", "", "")
		if err := fs.Parse(args); err != nil {
			t.Fatalf("parse: %v", err)
		}
		return fs
	}

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"BadTop", []string{"-top", "many"}, "-top"},
		{"BadDebounceThenGoodTop", []string{"-debounce", "soon", "-top", "3"}, "-debounce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Default()
			if err != nil {
				t.Fatalf("Default: %v", err)
			}
			err = applyFlags(&cfg, newFS(tt.args...))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}

	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if err := applyFlags(&cfg, newFS("-top", "9", "-debounce", "2s")); err != nil {
		t.Fatalf("applyFlags: %v", err)
	}
	if cfg.TopN != 9 || cfg.WatchDebounce != 2*time.Second {
		t.Errorf("cfg = %+v, want TopN 9 and debounce 2s", cfg)
	}
}
