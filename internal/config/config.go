package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	DataDir   string `toml:"data_dir"`
	LogDir    string `toml:"log_dir"`
}

// Audio contains capture and transcode settings.
type Audio struct {
	Format         string `toml:"format"`
	Quality        int    `toml:"quality"`
	RecordDuration int    `toml:"record_duration"`
	SampleRate     int    `toml:"sample_rate"`
	FFmpegBinary   string `toml:"ffmpeg_binary"`
}

// AcoustID contains configuration for the fingerprint service.
type AcoustID struct {
	APIKey       string `toml:"api_key"`
	BaseURL      string `toml:"base_url"`
	FpcalcBinary string `toml:"fpcalc_binary"`
}

// MusicBrainz contains configuration for the metadata registry.
type MusicBrainz struct {
	BaseURL      string `toml:"base_url"`
	UserAgent    string `toml:"user_agent"`
	CacheEnabled bool   `toml:"cache_enabled"`
	CachePath    string `toml:"cache_path"`
}

// YouTube contains search and download settings.
type YouTube struct {
	SearchLimit int `toml:"search_limit"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for musicgenie.
type Config struct {
	Paths       Paths       `toml:"paths"`
	Audio       Audio       `toml:"audio"`
	AcoustID    AcoustID    `toml:"acoustid"`
	MusicBrainz MusicBrainz `toml:"musicbrainz"`
	YouTube     YouTube     `toml:"youtube"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/musicgenie/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and environment overrides applied.
// The boolean reports whether a config file was found.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// SnippetsDir returns the directory holding snippet artifacts and their
// sidecar records.
func (c *Config) SnippetsDir() string {
	return filepath.Join(c.Paths.DataDir, "snippets")
}

// EnsureDirectories creates the directories required for an invocation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.DataDir, c.SnippetsDir(), c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
