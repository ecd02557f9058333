package config

const (
	defaultOutputDir        = "~/Music"
	defaultDataDir          = "~/.local/share/musicgenie"
	defaultLogDir           = "~/.local/share/musicgenie/logs"
	defaultAudioFormat      = "mp3"
	defaultAudioQuality     = 192
	defaultRecordDuration   = 8
	defaultSampleRate       = 44100
	defaultFFmpegBinary     = "ffmpeg"
	defaultFpcalcBinary     = "fpcalc"
	defaultAcoustIDBaseURL  = "https://api.acoustid.org/v2/lookup"
	defaultMBBaseURL        = "https://musicbrainz.org/ws/2"
	defaultMBUserAgent      = "musicgenie/0.1 (https://github.com/musicgenie/musicgenie)"
	defaultSearchLimit      = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLookupCacheName  = "lookup_cache.db"
	defaultLookupCacheState = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
		},
		Audio: Audio{
			Format:         defaultAudioFormat,
			Quality:        defaultAudioQuality,
			RecordDuration: defaultRecordDuration,
			SampleRate:     defaultSampleRate,
			FFmpegBinary:   defaultFFmpegBinary,
		},
		AcoustID: AcoustID{
			BaseURL:      defaultAcoustIDBaseURL,
			FpcalcBinary: defaultFpcalcBinary,
		},
		MusicBrainz: MusicBrainz{
			BaseURL:      defaultMBBaseURL,
			UserAgent:    defaultMBUserAgent,
			CacheEnabled: defaultLookupCacheState,
		},
		YouTube: YouTube{
			SearchLimit: defaultSearchLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
