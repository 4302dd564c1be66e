package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Display.FPS != 30 {
		t.Errorf("expected fps 30, got %d", cfg.Display.FPS)
	}
	if cfg.Display.PixelDensity != 2 {
		t.Errorf("expected pixel density 2, got %f", cfg.Display.PixelDensity)
	}

	if cfg.Camera.FOVDegrees != 75 {
		t.Errorf("expected fov 75, got %f", cfg.Camera.FOVDegrees)
	}
	if cfg.Camera.Near != 0.1 {
		t.Errorf("expected near 0.1, got %f", cfg.Camera.Near)
	}
	if cfg.Camera.Far != 1000 {
		t.Errorf("expected far 1000, got %f", cfg.Camera.Far)
	}

	if !cfg.Controls.Damping {
		t.Error("expected damping to be on by default")
	}
	if cfg.Controls.DampingFactor != 0.05 {
		t.Errorf("expected damping factor 0.05, got %f", cfg.Controls.DampingFactor)
	}
	if cfg.Controls.MinDistance != 2 || cfg.Controls.MaxDistance != 10 {
		t.Errorf("expected zoom bounds [2, 10], got [%f, %f]",
			cfg.Controls.MinDistance, cfg.Controls.MaxDistance)
	}

	if cfg.Render.ToneMapping != "none" {
		t.Errorf("expected tone mapping 'none', got %s", cfg.Render.ToneMapping)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
display:
  fps: 60
  background: "0,0,0"
  pixel_density: 1

camera:
  fov_degrees: 60
  distance: 7

controls:
  damping: false
  auto_rotate: true
  auto_rotate_speed: 1.2

render:
  tone_mapping: "aces"
  exposure: 1.5

logging:
  level: "debug"
  log_file: "showroom.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Display.FPS != 60 {
		t.Errorf("expected fps 60, got %d", cfg.Display.FPS)
	}
	if cfg.Display.Background != "0,0,0" {
		t.Errorf("expected background '0,0,0', got %s", cfg.Display.Background)
	}
	if cfg.Display.PixelDensity != 1 {
		t.Errorf("expected pixel density 1, got %f", cfg.Display.PixelDensity)
	}

	if cfg.Camera.FOVDegrees != 60 {
		t.Errorf("expected fov 60, got %f", cfg.Camera.FOVDegrees)
	}
	// Untouched keys keep their defaults.
	if cfg.Camera.Near != 0.1 {
		t.Errorf("expected near to keep default 0.1, got %f", cfg.Camera.Near)
	}

	if cfg.Controls.Damping {
		t.Error("expected damping to be false")
	}
	if !cfg.Controls.AutoRotate {
		t.Error("expected auto_rotate to be true")
	}

	if cfg.Render.ToneMapping != "aces" {
		t.Errorf("expected tone mapping 'aces', got %s", cfg.Render.ToneMapping)
	}
	if cfg.Render.Exposure != 1.5 {
		t.Errorf("expected exposure 1.5, got %f", cfg.Render.Exposure)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "showroom.log" {
		t.Errorf("expected log file 'showroom.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
display:
  fps: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "fps flag",
			setup: func() {
				*flagFPS = 60
			},
			verify: func(cfg *Config) {
				if cfg.Display.FPS != 60 {
					t.Errorf("expected fps 60, got %d", cfg.Display.FPS)
				}
			},
			teardown: func() {
				*flagFPS = 0
			},
		},
		{
			name: "background flag",
			setup: func() {
				*flagBackground = "10,20,30"
			},
			verify: func(cfg *Config) {
				if cfg.Display.Background != "10,20,30" {
					t.Errorf("expected background '10,20,30', got %s", cfg.Display.Background)
				}
			},
			teardown: func() {
				*flagBackground = ""
			},
		},
		{
			name: "tonemap flag",
			setup: func() {
				*flagToneMap = "reinhard"
			},
			verify: func(cfg *Config) {
				if cfg.Render.ToneMapping != "reinhard" {
					t.Errorf("expected tone mapping 'reinhard', got %s", cfg.Render.ToneMapping)
				}
			},
			teardown: func() {
				*flagToneMap = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
display:
  fps: 24
  background: "1,2,3"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagFPS = 60
	defer func() {
		*flagConfig = ""
		*flagFPS = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// FPS comes from the flag, not the file.
	if cfg.Display.FPS != 60 {
		t.Errorf("expected fps 60 from flag, got %d", cfg.Display.FPS)
	}
	// Background comes from the file since no flag override.
	if cfg.Display.Background != "1,2,3" {
		t.Errorf("expected background '1,2,3' from file, got %s", cfg.Display.Background)
	}
}
