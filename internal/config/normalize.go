package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeVision()
	c.normalizeSpeech()
	c.normalizeNarration()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		c.Paths.LibraryDir = defaultLibraryDir
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeVision() {
	if c.Vision.APIKey == "" {
		if value, ok := os.LookupEnv("INKCAST_VISION_API_KEY"); ok {
			c.Vision.APIKey = value
		}
	}
	c.Vision.APIKey = strings.TrimSpace(c.Vision.APIKey)
	c.Vision.BaseURL = strings.TrimSpace(c.Vision.BaseURL)
	if c.Vision.BaseURL == "" {
		c.Vision.BaseURL = defaultVisionBaseURL
	}
	c.Vision.Model = strings.TrimSpace(c.Vision.Model)
	if c.Vision.Model == "" {
		c.Vision.Model = defaultVisionModel
	}
	c.Vision.FallbackModel = strings.TrimSpace(c.Vision.FallbackModel)
	if c.Vision.TimeoutSeconds <= 0 {
		c.Vision.TimeoutSeconds = defaultVisionTimeoutSeconds
	}
	if c.Vision.MaxAttempts <= 0 {
		c.Vision.MaxAttempts = defaultVisionMaxAttempts
	}
	if c.Vision.FallbackAfter <= 0 {
		c.Vision.FallbackAfter = defaultVisionFallbackAfter
	}
	if c.Vision.RequestsPerMinute <= 0 {
		c.Vision.RequestsPerMinute = defaultVisionRequestsPerMin
	}
}

func (c *Config) normalizeSpeech() {
	if c.Speech.APIKey == "" {
		if value, ok := os.LookupEnv("INKCAST_SPEECH_API_KEY"); ok {
			c.Speech.APIKey = value
		}
	}
	c.Speech.APIKey = strings.TrimSpace(c.Speech.APIKey)
	c.Speech.BaseURL = strings.TrimSpace(c.Speech.BaseURL)
	if c.Speech.BaseURL == "" {
		c.Speech.BaseURL = defaultSpeechBaseURL
	}
	c.Speech.Engine = strings.ToLower(strings.TrimSpace(c.Speech.Engine))
	if c.Speech.Engine == "" {
		c.Speech.Engine = defaultSpeechEngine
	}
	c.Speech.FallbackEngine = strings.ToLower(strings.TrimSpace(c.Speech.FallbackEngine))
	c.Speech.OutputFormat = strings.ToLower(strings.TrimSpace(c.Speech.OutputFormat))
	if c.Speech.OutputFormat == "" {
		c.Speech.OutputFormat = defaultSpeechOutputFormat
	}
	if c.Speech.TimeoutSeconds <= 0 {
		c.Speech.TimeoutSeconds = defaultSpeechTimeoutSeconds
	}
	if c.Speech.MaxAttempts <= 0 {
		c.Speech.MaxAttempts = defaultSpeechMaxAttempts
	}
	if c.Speech.Concurrency <= 0 {
		c.Speech.Concurrency = defaultSpeechConcurrency
	}
	if c.Speech.RequestsPerMinute <= 0 {
		c.Speech.RequestsPerMinute = defaultSpeechRequestsPerMin
	}
}

func (c *Config) normalizeNarration() {
	c.Narration.NarratorVoice = strings.TrimSpace(c.Narration.NarratorVoice)
	if c.Narration.NarratorVoice == "" {
		c.Narration.NarratorVoice = defaultNarratorVoice
	}
	if c.Narration.CharacterMatchThreshold == 0 {
		c.Narration.CharacterMatchThreshold = defaultCharacterMatch
	}
	if c.Narration.SceneMatchThreshold == 0 {
		c.Narration.SceneMatchThreshold = defaultSceneMatch
	}
	if c.Narration.SignificantChangeThreshold == 0 {
		c.Narration.SignificantChangeThreshold = defaultSignificantChange
	}
	if c.Narration.CacheTTLSeconds <= 0 {
		c.Narration.CacheTTLSeconds = defaultCacheTTLSeconds
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
