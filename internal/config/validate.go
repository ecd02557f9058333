package config

import (
	"errors"
	"fmt"

	"musicgenie/internal/services"
)

var supportedFormats = map[string]struct{}{
	"mp3":  {},
	"m4a":  {},
	"opus": {},
	"flac": {},
	"wav":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAudio() error {
	if _, ok := supportedFormats[c.Audio.Format]; !ok {
		return fmt.Errorf("audio.format %q is not supported (mp3, m4a, opus, flac, wav)", c.Audio.Format)
	}
	if c.Audio.Quality <= 0 {
		return errors.New("audio.quality must be a positive bitrate in kbit/s")
	}
	if c.Audio.RecordDuration <= 0 {
		return errors.New("audio.record_duration must be a positive number of seconds")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported (console, json)", c.Logging.Format)
	}
	return nil
}

// RequireAcoustIDKey returns a configuration error when no AcoustID API key
// is available. Identification commands call this up front so the failure
// carries a remediation hint instead of surfacing mid-loop.
func (c *Config) RequireAcoustIDKey() error {
	if c.AcoustID.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/musicgenie/config.toml"
		}
		return fmt.Errorf("%w: acoustid.api_key is required for identification. Set ACOUSTID_API_KEY or edit %s (create with 'musicgenie config init')", services.ErrConfiguration, defaultPath)
	}
	return nil
}
