package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnvOverrides()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAudio()
	c.normalizeServices()
	c.normalizeLogging()
	return nil
}

// applyEnvOverrides applies recognized environment variables. MUSIC_GENIE_*
// values win over the config file; ACOUSTID_API_KEY only fills an empty key.
func (c *Config) applyEnvOverrides() {
	if value, ok := os.LookupEnv("MUSIC_GENIE_OUTPUT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.OutputDir = value
	}
	if value, ok := os.LookupEnv("MUSIC_GENIE_AUDIO_FORMAT"); ok && strings.TrimSpace(value) != "" {
		c.Audio.Format = value
	}
	if value, ok := os.LookupEnv("MUSIC_GENIE_AUDIO_QUALITY"); ok {
		if quality, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			c.Audio.Quality = quality
		}
	}
	if value, ok := os.LookupEnv("MUSIC_GENIE_RECORD_DURATION"); ok {
		if duration, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			c.Audio.RecordDuration = duration
		}
	}
	if c.AcoustID.APIKey == "" {
		if value, ok := os.LookupEnv("ACOUSTID_API_KEY"); ok {
			c.AcoustID.APIKey = value
		}
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.MusicBrainz.CachePath) == "" {
		c.MusicBrainz.CachePath = filepath.Join(c.Paths.DataDir, defaultLookupCacheName)
	}
	if c.MusicBrainz.CachePath, err = expandPath(c.MusicBrainz.CachePath); err != nil {
		return fmt.Errorf("musicbrainz.cache_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeAudio() {
	c.Audio.Format = strings.ToLower(strings.TrimSpace(c.Audio.Format))
	if c.Audio.Format == "" {
		c.Audio.Format = defaultAudioFormat
	}
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = defaultSampleRate
	}
	if strings.TrimSpace(c.Audio.FFmpegBinary) == "" {
		c.Audio.FFmpegBinary = defaultFFmpegBinary
	}
}

func (c *Config) normalizeServices() {
	c.AcoustID.APIKey = strings.TrimSpace(c.AcoustID.APIKey)
	c.AcoustID.BaseURL = strings.TrimSpace(c.AcoustID.BaseURL)
	if c.AcoustID.BaseURL == "" {
		c.AcoustID.BaseURL = defaultAcoustIDBaseURL
	}
	if strings.TrimSpace(c.AcoustID.FpcalcBinary) == "" {
		c.AcoustID.FpcalcBinary = defaultFpcalcBinary
	}
	c.MusicBrainz.BaseURL = strings.TrimSpace(c.MusicBrainz.BaseURL)
	if c.MusicBrainz.BaseURL == "" {
		c.MusicBrainz.BaseURL = defaultMBBaseURL
	}
	if strings.TrimSpace(c.MusicBrainz.UserAgent) == "" {
		c.MusicBrainz.UserAgent = defaultMBUserAgent
	}
	if c.YouTube.SearchLimit <= 0 {
		c.YouTube.SearchLimit = defaultSearchLimit
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
