// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Texture formats accepted in TextureConfig.Format.
const (
	TextureFormatRaw   = "raw"
	TextureFormatImage = "image"
)

// Config holds all viewer settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Texture    TextureConfig    `yaml:"texture"`
	Camera     CameraConfig     `yaml:"camera"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title        string        `yaml:"title"`
	Width        int           `yaml:"width"`
	Height       int           `yaml:"height"`
	Fullscreen   bool          `yaml:"fullscreen"`
	VSync        bool          `yaml:"vsync"`
	Resizable    bool          `yaml:"resizable"`
	EventTimeout time.Duration `yaml:"event_timeout"` // upper bound on one event wait
}

// TextureConfig selects the spherical texture. An empty path uses the
// built-in graticule.
type TextureConfig struct {
	Path     string `yaml:"path"`
	Format   string `yaml:"format"`    // raw or image
	MaxWidth int    `yaml:"max_width"` // downscale imported images wider than this; 0 keeps size
}

// CameraConfig holds interaction tuning.
type CameraConfig struct {
	ZoomBase     float32 `yaml:"zoom_base"`
	RotateStep   float32 `yaml:"rotate_step"`
	InitialScale float32 `yaml:"initial_scale"`
}

// ScreenshotConfig holds frame capture settings.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // png or bmp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:        "tangent-proj",
			Width:        640,
			Height:       320,
			Fullscreen:   false,
			VSync:        true,
			Resizable:    true,
			EventTimeout: 250 * time.Millisecond,
		},
		Texture: TextureConfig{
			Format: TextureFormatRaw,
		},
		Camera: CameraConfig{
			ZoomBase:     1.01,
			RotateStep:   0.1,
			InitialScale: 1.0,
		},
		Screenshot: ScreenshotConfig{
			Dir:    "screenshots",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting the viewer cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.EventTimeout < 0 {
		errs = append(errs, fmt.Errorf("window.event_timeout must not be negative, got %v", c.Window.EventTimeout))
	}
	switch c.Texture.Format {
	case TextureFormatRaw, TextureFormatImage:
	default:
		errs = append(errs, fmt.Errorf("texture.format must be %q or %q, got %q", TextureFormatRaw, TextureFormatImage, c.Texture.Format))
	}
	if c.Texture.MaxWidth < 0 {
		errs = append(errs, fmt.Errorf("texture.max_width must not be negative, got %d", c.Texture.MaxWidth))
	}
	if !(c.Camera.ZoomBase > 0) {
		errs = append(errs, fmt.Errorf("camera.zoom_base must be positive, got %v", c.Camera.ZoomBase))
	}
	if !(c.Camera.InitialScale > 0) {
		errs = append(errs, fmt.Errorf("camera.initial_scale must be positive, got %v", c.Camera.InitialScale))
	}
	switch c.Screenshot.Format {
	case "png", "bmp":
	default:
		errs = append(errs, fmt.Errorf("screenshot.format must be png or bmp, got %q", c.Screenshot.Format))
	}
	return errors.Join(errs...)
}
