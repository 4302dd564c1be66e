package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagFPS        = flag.Int("fps", 0, "Target frames per second")
	flagBackground = flag.String("bg", "", "Background color (R,G,B)")
	flagAutoRotate = flag.Bool("auto-rotate", false, "Slowly rotate the view when idle")
	flagToneMap    = flag.String("tonemap", "", "Tone mapping operator (none, reinhard, aces)")
	flagLogFile    = flag.String("log-file", "", "Write logs to this file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagFPS > 0 {
		cfg.Display.FPS = *flagFPS
	}
	if *flagBackground != "" {
		cfg.Display.Background = *flagBackground
	}
	if *flagAutoRotate {
		cfg.Controls.AutoRotate = true
	}
	if *flagToneMap != "" {
		cfg.Render.ToneMapping = *flagToneMap
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
