package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for absent config")
	}
	if cfg.Vision.Model != defaultVisionModel {
		t.Errorf("Vision.Model = %q, want default %q", cfg.Vision.Model, defaultVisionModel)
	}
	if cfg.Speech.Concurrency != defaultSpeechConcurrency {
		t.Errorf("Speech.Concurrency = %d, want %d", cfg.Speech.Concurrency, defaultSpeechConcurrency)
	}
	if cfg.Narration.CharacterMatchThreshold != defaultCharacterMatch {
		t.Errorf("CharacterMatchThreshold = %v, want %v", cfg.Narration.CharacterMatchThreshold, defaultCharacterMatch)
	}
}

func TestLoadOverlaysFileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inkcast.toml")
	content := `
[vision]
model = "panel-vision-test"
max_attempts = 7
fallback_after = 2

[speech]
concurrency = 2
output_format = "ogg"

[narration]
narrator_voice = "custom"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Vision.Model != "panel-vision-test" {
		t.Errorf("Vision.Model = %q", cfg.Vision.Model)
	}
	if cfg.Vision.MaxAttempts != 7 {
		t.Errorf("Vision.MaxAttempts = %d", cfg.Vision.MaxAttempts)
	}
	if cfg.Speech.Concurrency != 2 {
		t.Errorf("Speech.Concurrency = %d", cfg.Speech.Concurrency)
	}
	if cfg.Speech.OutputFormat != "ogg" {
		t.Errorf("Speech.OutputFormat = %q", cfg.Speech.OutputFormat)
	}
	if cfg.Narration.NarratorVoice != "custom" {
		t.Errorf("Narration.NarratorVoice = %q", cfg.Narration.NarratorVoice)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad output format",
			content: "[speech]\noutput_format = \"wav\"\n",
			wantErr: "speech.output_format",
		},
		{
			name:    "bad log format",
			content: "[logging]\nformat = \"xml\"\n",
			wantErr: "logging.format",
		},
		{
			name:    "threshold out of range",
			content: "[narration]\ncharacter_match_threshold = 1.5\n",
			wantErr: "narration.character_match_threshold",
		},
		{
			name:    "significant change above match",
			content: "[narration]\ncharacter_match_threshold = 0.4\nsignificant_change_threshold = 0.6\n",
			wantErr: "significant_change_threshold",
		},
		{
			name:    "fallback unreachable",
			content: "[vision]\nmax_attempts = 2\nfallback_after = 3\n",
			wantErr: "vision.fallback_after",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "inkcast.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeExpandsPaths(t *testing.T) {
	cfg := Default()
	cfg.Paths.LibraryDir = "~/library"
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize() error = %v", err)
	}
	if strings.HasPrefix(cfg.Paths.LibraryDir, "~") {
		t.Errorf("LibraryDir not expanded: %q", cfg.Paths.LibraryDir)
	}
	if !filepath.IsAbs(cfg.Paths.WorkDir) {
		t.Errorf("WorkDir not absolute: %q", cfg.Paths.WorkDir)
	}
}

func TestVisionAPIKeyFromEnvironment(t *testing.T) {
	t.Setenv("INKCAST_VISION_API_KEY", "env-key")
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	if cfg.Vision.APIKey != "env-key" {
		t.Errorf("Vision.APIKey = %q, want env-key", cfg.Vision.APIKey)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[vision]") {
		t.Error("sample config missing [vision] section")
	}
}
