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
	LibraryDir string `toml:"library_dir"`
	LogDir     string `toml:"log_dir"`
	WorkDir    string `toml:"work_dir"`
}

// Vision contains configuration for the panel vision analysis backend.
type Vision struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	FallbackModel  string `toml:"fallback_model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxAttempts    int    `toml:"max_attempts"`
	// FallbackAfter is the number of transient failures against the preferred
	// model before subsequent attempts route to the fallback model.
	FallbackAfter     int `toml:"fallback_after"`
	RequestsPerMinute int `toml:"requests_per_minute"`
}

// Speech contains configuration for the speech synthesis backend.
type Speech struct {
	APIKey            string `toml:"api_key"`
	BaseURL           string `toml:"base_url"`
	Engine            string `toml:"engine"`
	FallbackEngine    string `toml:"fallback_engine"`
	OutputFormat      string `toml:"output_format"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
	MaxAttempts       int    `toml:"max_attempts"`
	Concurrency       int    `toml:"concurrency"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
}

// Narration contains tuning for continuity matching and narration output.
type Narration struct {
	NarratorVoice string `toml:"narrator_voice"`
	// CharacterMatchThreshold is the cosine similarity above which a detected
	// character is treated as a returning one rather than a new identity.
	CharacterMatchThreshold float64 `toml:"character_match_threshold"`
	SceneMatchThreshold     float64 `toml:"scene_match_threshold"`
	// SignificantChangeThreshold is the similarity below which a returning
	// character's appearance counts as significantly changed and is
	// re-described.
	SignificantChangeThreshold float64 `toml:"significant_change_threshold"`
	CacheTTLSeconds            int     `toml:"cache_ttl_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Inkcast.
//
// Configuration sections by subsystem:
//   - Paths: library, log, and scratch directories
//   - Vision: panel analysis backend connection and retry limits
//   - Speech: synthesis backend connection, engines, and concurrency
//   - Narration: continuity thresholds and narrator voice
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Vision    Vision    `toml:"vision"`
	Speech    Speech    `toml:"speech"`
	Narration Narration `toml:"narration"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/inkcast/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
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
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/inkcast/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("inkcast.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes to. LibraryDir
// is created on a best-effort basis so runs can start when external storage is
// temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		_ = os.MkdirAll(c.Paths.LibraryDir, 0o755)
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
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
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
