package config

const (
	defaultLibraryDir = "~/.local/share/inkcast/library"
	defaultLogDir     = "~/.local/share/inkcast/logs"
	defaultWorkDir    = "~/.local/share/inkcast/work"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	defaultVisionBaseURL        = "https://api.inkcast.dev/v1/vision"
	defaultVisionModel          = "panel-vision-large"
	defaultVisionFallbackModel  = "panel-vision-lite"
	defaultVisionTimeoutSeconds = 60
	defaultVisionMaxAttempts    = 5
	defaultVisionFallbackAfter  = 3
	defaultVisionRequestsPerMin = 30

	defaultSpeechBaseURL        = "https://api.inkcast.dev/v1/speech"
	defaultSpeechEngine         = "neural"
	defaultSpeechFallbackEngine = "standard"
	defaultSpeechOutputFormat   = "mp3"
	defaultSpeechTimeoutSeconds = 30
	defaultSpeechMaxAttempts    = 3
	defaultSpeechConcurrency    = 4
	defaultSpeechRequestsPerMin = 60

	defaultNarratorVoice     = "sage"
	defaultCharacterMatch    = 0.55
	defaultSceneMatch        = 0.60
	defaultSignificantChange = 0.35
	defaultCacheTTLSeconds   = 3600
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
			WorkDir:    defaultWorkDir,
		},
		Vision: Vision{
			BaseURL:           defaultVisionBaseURL,
			Model:             defaultVisionModel,
			FallbackModel:     defaultVisionFallbackModel,
			TimeoutSeconds:    defaultVisionTimeoutSeconds,
			MaxAttempts:       defaultVisionMaxAttempts,
			FallbackAfter:     defaultVisionFallbackAfter,
			RequestsPerMinute: defaultVisionRequestsPerMin,
		},
		Speech: Speech{
			BaseURL:           defaultSpeechBaseURL,
			Engine:            defaultSpeechEngine,
			FallbackEngine:    defaultSpeechFallbackEngine,
			OutputFormat:      defaultSpeechOutputFormat,
			TimeoutSeconds:    defaultSpeechTimeoutSeconds,
			MaxAttempts:       defaultSpeechMaxAttempts,
			Concurrency:       defaultSpeechConcurrency,
			RequestsPerMinute: defaultSpeechRequestsPerMin,
		},
		Narration: Narration{
			NarratorVoice:              defaultNarratorVoice,
			CharacterMatchThreshold:    defaultCharacterMatch,
			SceneMatchThreshold:        defaultSceneMatch,
			SignificantChangeThreshold: defaultSignificantChange,
			CacheTTLSeconds:            defaultCacheTTLSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
