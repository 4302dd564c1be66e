// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	Camera   CameraConfig   `yaml:"camera"`
	Controls ControlsConfig `yaml:"controls"`
	Render   RenderConfig   `yaml:"render"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DisplayConfig holds terminal output settings.
type DisplayConfig struct {
	FPS          int     `yaml:"fps"`
	Background   string  `yaml:"background"`    // "R,G,B"
	PixelDensity float64 `yaml:"pixel_density"` // framebuffer rows per terminal row, capped at 2
}

// CameraConfig holds the perspective projection settings.
type CameraConfig struct {
	FOVDegrees float64 `yaml:"fov_degrees"`
	Near       float64 `yaml:"near"`
	Far        float64 `yaml:"far"`
	Distance   float64 `yaml:"distance"` // initial orbit distance
}

// ControlsConfig holds orbit control tuning.
type ControlsConfig struct {
	Damping         bool    `yaml:"damping"`
	DampingFactor   float64 `yaml:"damping_factor"`
	MinDistance     float64 `yaml:"min_distance"`
	MaxDistance     float64 `yaml:"max_distance"`
	AutoRotate      bool    `yaml:"auto_rotate"`
	AutoRotateSpeed float64 `yaml:"auto_rotate_speed"` // radians per second
}

// RenderConfig holds shading settings.
type RenderConfig struct {
	ToneMapping string  `yaml:"tone_mapping"` // none, reinhard, aces
	Exposure    float64 `yaml:"exposure"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			FPS:          30,
			Background:   "30,30,40",
			PixelDensity: 2,
		},
		Camera: CameraConfig{
			FOVDegrees: 75,
			Near:       0.1,
			Far:        1000,
			Distance:   5,
		},
		Controls: ControlsConfig{
			Damping:         true,
			DampingFactor:   0.05,
			MinDistance:     2,
			MaxDistance:     10,
			AutoRotate:      false,
			AutoRotateSpeed: 0.5,
		},
		Render: RenderConfig{
			ToneMapping: "none",
			Exposure:    1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
