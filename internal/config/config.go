// Package config handles tool configuration loading and management.
package config

// Config holds all offgeom tool settings.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig holds settings applied when reading geometry files.
type InputConfig struct {
	// Unit assumed for vertex coordinates; OFF files carry none themselves.
	Unit string `yaml:"unit"`
}

// RenderConfig holds preview rendering settings.
type RenderConfig struct {
	Size        int    `yaml:"size"`        // output image edge length in pixels
	Supersample int    `yaml:"supersample"` // oversampling factor before downscale
	Background  string `yaml:"background"`  // hex RGBA, e.g. "00000000"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Unit: "m",
		},
		Render: RenderConfig{
			Size:        512,
			Supersample: 4,
			Background:  "00000000",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
