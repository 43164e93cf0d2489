package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateVision(); err != nil {
		return err
	}
	if err := c.validateSpeech(); err != nil {
		return err
	}
	if err := c.validateNarration(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateVision() error {
	if strings.TrimSpace(c.Vision.BaseURL) == "" {
		return errors.New("vision.base_url must be set")
	}
	if strings.TrimSpace(c.Vision.Model) == "" {
		return errors.New("vision.model must be set")
	}
	if err := ensurePositiveMap(map[string]int{
		"vision.timeout_seconds": c.Vision.TimeoutSeconds,
		"vision.max_attempts":    c.Vision.MaxAttempts,
		"vision.fallback_after":  c.Vision.FallbackAfter,
	}); err != nil {
		return err
	}
	if c.Vision.FallbackAfter >= c.Vision.MaxAttempts && c.Vision.FallbackModel != "" {
		return errors.New("vision.fallback_after must be less than vision.max_attempts for the fallback model to be reachable")
	}
	return nil
}

func (c *Config) validateSpeech() error {
	if strings.TrimSpace(c.Speech.BaseURL) == "" {
		return errors.New("speech.base_url must be set")
	}
	switch c.Speech.OutputFormat {
	case "mp3", "ogg":
	default:
		return fmt.Errorf("speech.output_format: unsupported value %q (mp3, ogg)", c.Speech.OutputFormat)
	}
	return ensurePositiveMap(map[string]int{
		"speech.timeout_seconds": c.Speech.TimeoutSeconds,
		"speech.max_attempts":    c.Speech.MaxAttempts,
		"speech.concurrency":     c.Speech.Concurrency,
	})
}

func (c *Config) validateNarration() error {
	for key, value := range map[string]float64{
		"narration.character_match_threshold":    c.Narration.CharacterMatchThreshold,
		"narration.scene_match_threshold":        c.Narration.SceneMatchThreshold,
		"narration.significant_change_threshold": c.Narration.SignificantChangeThreshold,
	} {
		if value <= 0 || value >= 1 {
			return fmt.Errorf("%s must be between 0 and 1 exclusive", key)
		}
	}
	if c.Narration.SignificantChangeThreshold >= c.Narration.CharacterMatchThreshold {
		return errors.New("narration.significant_change_threshold must be below narration.character_match_threshold")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (console, json)", c.Logging.Format)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
