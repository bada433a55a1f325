// Package config loads the campus viewer settings from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Controls ControlsConfig `yaml:"controls"`
	Campus   CampusConfig   `yaml:"campus"`
	Log      LogConfig      `yaml:"log"`

	// Models are extra glTF files placed into the campus at startup.
	Models []ModelConfig `yaml:"models"`
}

type WindowConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	VSync      bool   `yaml:"vsync"`
	Fullscreen bool   `yaml:"fullscreen"`
	Samples    int    `yaml:"samples"`
}

type CameraConfig struct {
	FOV      float32    `yaml:"fov"` // vertical, degrees
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Position [3]float32 `yaml:"position"`
}

type ControlsConfig struct {
	EnableDamping bool    `yaml:"enable_damping"`
	DampingFactor float32 `yaml:"damping_factor"`
	RotateSpeed   float32 `yaml:"rotate_speed"`
	ZoomSpeed     float32 `yaml:"zoom_speed"`
	PanSpeed      float32 `yaml:"pan_speed"`
	MinDistance   float32 `yaml:"min_distance"`
	MaxDistance   float32 `yaml:"max_distance"`
}

type CampusConfig struct {
	GrassCount int `yaml:"grass_count"`
	// Seed for grass placement; 0 seeds from the clock.
	Seed int64 `yaml:"seed"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type ModelConfig struct {
	Path     string     `yaml:"path"`
	Position [3]float32 `yaml:"position"`
}

// Default returns the settings the campus is designed around.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:   1280,
			Height:  720,
			Title:   "Campus",
			VSync:   true,
			Samples: 4,
		},
		Camera: CameraConfig{
			FOV:      60,
			Near:     0.1,
			Far:      1000,
			Position: [3]float32{35, 25, 35},
		},
		Controls: ControlsConfig{
			EnableDamping: true,
			DampingFactor: 0.05,
			RotateSpeed:   1,
			ZoomSpeed:     1,
			PanSpeed:      1,
			MinDistance:   0,
			MaxDistance:   500,
		},
		Campus: CampusConfig{
			GrassCount: 20000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every out-of-range setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.Samples < 0 {
		errs = append(errs, fmt.Errorf("window samples %d must not be negative", c.Window.Samples))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %v must be in (0, 180)", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip planes near=%v far=%v must satisfy 0 < near < far", c.Camera.Near, c.Camera.Far))
	}
	// With damping on, a zero factor would swallow all motion.
	if c.Controls.EnableDamping && (c.Controls.DampingFactor <= 0 || c.Controls.DampingFactor > 1) {
		errs = append(errs, fmt.Errorf("damping factor %v must be in (0, 1] when damping is enabled", c.Controls.DampingFactor))
	}
	if c.Controls.MaxDistance <= c.Controls.MinDistance {
		errs = append(errs, fmt.Errorf("controls distance range [%v, %v] is empty", c.Controls.MinDistance, c.Controls.MaxDistance))
	}
	if c.Campus.GrassCount < 0 {
		errs = append(errs, fmt.Errorf("grass count %d must not be negative", c.Campus.GrassCount))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	for i, m := range c.Models {
		if m.Path == "" {
			errs = append(errs, fmt.Errorf("model %d has no path", i))
		}
	}
	return errors.Join(errs...)
}

// SlogLevel parses Level ("debug", "info", "warn", "error").
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", l.Level, err)
	}
	return level, nil
}
