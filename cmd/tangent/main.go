// Package main is the entry point for the tangent-plane projection viewer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/tangent/internal/config"
	"github.com/Faultbox/tangent/internal/engine/camera"
	"github.com/Faultbox/tangent/internal/engine/framebuffer"
	"github.com/Faultbox/tangent/internal/engine/present"
	"github.com/Faultbox/tangent/internal/engine/texture"
	"github.com/Faultbox/tangent/internal/engine/window"
	"github.com/Faultbox/tangent/internal/logger"
	"github.com/Faultbox/tangent/internal/viewer"
)

// Size of the built-in texture used when no path is configured.
const (
	graticuleWidth  = 720
	graticuleHeight = 360
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if path := flag.Arg(0); path != "" {
		cfg.Texture.Path = path
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("=== tangent-proj ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
	logger.Sync()
}

func run(cfg *config.Config) error {
	tex, err := openTexture(cfg.Texture)
	if err != nil {
		return err
	}

	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Resizable:  cfg.Window.Resizable,
	})
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer win.Close()

	v, err := viewer.New(viewer.Config{
		Camera: camera.Config{
			ZoomBase:     cfg.Camera.ZoomBase,
			RotateStep:   cfg.Camera.RotateStep,
			InitialScale: cfg.Camera.InitialScale,
		},
		ScreenshotDir:    cfg.Screenshot.Dir,
		ScreenshotFormat: cfg.Screenshot.Format,
		WaitTimeout:      cfg.Window.EventTimeout,
		Title:            cfg.Window.Title,
	}, win, present.NewRegistry(framebuffer.Factory), tex)
	if err != nil {
		return err
	}
	// Runs before win.Close: the surface must not outlive its window.
	defer v.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return v.Run(ctx)
}

// openTexture loads the configured texture, or builds the graticule when no
// path is set, and logs the container header.
func openTexture(cfg config.TextureConfig) (*texture.Asset, error) {
	var (
		tex *texture.Asset
		err error
	)
	if cfg.Path == "" {
		logger.Info("no texture configured, using graticule")
		tex, err = texture.Graticule(graticuleWidth, graticuleHeight)
	} else {
		tex, err = texture.Open(cfg.Path, cfg.Format, cfg.MaxWidth)
	}
	if err != nil {
		return nil, fmt.Errorf("loading texture: %w", err)
	}

	h := tex.Header()
	logger.Info("texture loaded",
		zap.String("path", cfg.Path),
		zap.String("length", fmt.Sprintf("0x%x", tex.Len())),
		zap.String("dataOffset", fmt.Sprintf("0x%x", h.PixelOffset)),
		zap.Uint32("width", h.Width),
		zap.Uint32("height", h.Height),
	)
	if int(h.FileSize) != tex.Len() {
		logger.Warn("container size field disagrees with data length",
			zap.Uint32("fileSize", h.FileSize),
			zap.Int("length", tex.Len()),
		)
	}
	return tex, nil
}
