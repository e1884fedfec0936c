// Package viewer runs the interactive projection: it feeds window events to
// the camera, decides when a frame is due and draws it through the surface
// registry.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/tangent/internal/engine/camera"
	"github.com/Faultbox/tangent/internal/engine/debug"
	"github.com/Faultbox/tangent/internal/engine/input"
	"github.com/Faultbox/tangent/internal/engine/present"
	"github.com/Faultbox/tangent/internal/engine/projection"
	"github.com/Faultbox/tangent/internal/engine/texture"
	"github.com/Faultbox/tangent/internal/logger"
)

// DefaultWaitTimeout bounds a single event wait so cancellation is noticed.
const DefaultWaitTimeout = 250 * time.Millisecond

// Window is the event source and draw target of the viewer.
type Window interface {
	present.Target
	PollEvent() (input.Event, bool)
	WaitEvent(timeout time.Duration) (input.Event, bool)
}

// titledWindow is implemented by windows that can show the camera state in
// their title bar.
type titledWindow interface {
	SetTitle(title string)
}

// Config holds viewer settings.
type Config struct {
	Title            string
	Camera           camera.Config
	ScreenshotDir    string
	ScreenshotFormat string
	WaitTimeout      time.Duration
}

// Viewer is the application context. It is owned by one goroutine.
type Viewer struct {
	config   Config
	window   Window
	surfaces *present.Registry
	camera   camera.State
	texture  *texture.Asset
	shots    *debug.ScreenshotCapture
	queue    *input.Queue
	timer    *logger.FrameTimer
	title    string

	redraw bool
	frames int
}

// New creates a viewer for win. A nil registry is allowed: frames are then
// skipped with a warning.
func New(cfg Config, win Window, surfaces *present.Registry, tex *texture.Asset) (*Viewer, error) {
	if win == nil {
		return nil, errors.New("viewer: nil window")
	}
	if tex == nil {
		return nil, errors.New("viewer: nil texture")
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = DefaultWaitTimeout
	}

	shots, err := debug.NewScreenshotCapture(cfg.ScreenshotDir, "tangent", cfg.ScreenshotFormat)
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}

	return &Viewer{
		config:   cfg,
		window:   win,
		surfaces: surfaces,
		camera:   camera.New(cfg.Camera),
		texture:  tex,
		shots:    shots,
		queue:    input.NewQueue(),
		timer:    logger.NewFrameTimer(logger.DefaultFrameSample),
		redraw:   true,
	}, nil
}

// Camera returns the current camera state.
func (v *Viewer) Camera() camera.State {
	return v.camera
}

// RedrawPending reports whether the next pass will draw a frame.
func (v *Viewer) RedrawPending() bool {
	return v.redraw
}

// Frames returns the number of frames presented so far.
func (v *Viewer) Frames() int {
	return v.frames
}

// HandleEvent applies one event and reports whether the viewer should quit.
func (v *Viewer) HandleEvent(ev input.Event) (quit bool) {
	if ev.WindowID != 0 && ev.WindowID != v.window.ID() {
		return false
	}

	switch ev.Type {
	case input.EventCloseRequested:
		logger.Info("close requested", zap.Uint32("window", v.window.ID()))
		return true

	case input.EventResized:
		logger.Debug("window resized", zap.Int("width", ev.Width), zap.Int("height", ev.Height))
		v.redraw = true
		return false

	case input.EventExposed:
		v.redraw = true
		return false

	case input.EventKeyPressed:
		switch ev.Key {
		case input.KeyEscape:
			return true
		case input.KeyScreenshot:
			v.screenshot()
			return false
		case input.KeyReset:
			v.camera = v.camera.Reset()
			v.redraw = true
			return false
		}
	}

	next, changed := v.camera.Apply(ev)
	v.camera = next
	if changed {
		v.redraw = true
	}
	return false
}

// Draw renders and presents one frame for the current camera state. A
// missing presentation context is logged and the frame skipped; resize and
// present failures are returned.
func (v *Viewer) Draw() error {
	if v.surfaces == nil {
		logger.Warn("no presentation context, skipping frame", zap.Uint32("window", v.window.ID()))
		v.redraw = false
		return nil
	}

	start := time.Now()
	cam, tex := v.camera, v.texture
	err := v.surfaces.Draw(v.window, func(pix []uint32, width, height int) {
		projection.Render(pix, width, height, cam, tex)
	})
	if errors.Is(err, present.ErrNoContext) {
		logger.Warn("no presentation context, skipping frame",
			zap.Uint32("window", v.window.ID()),
			zap.Error(err),
		)
		v.redraw = false
		return nil
	}
	if err != nil {
		return err
	}

	v.redraw = false
	v.frames++
	v.timer.Observe(time.Since(start))
	v.updateTitle()
	return nil
}

// Title returns the title that reflects the current camera state.
func (v *Viewer) Title() string {
	base := v.config.Title
	if base == "" {
		base = "tangent"
	}
	return fmt.Sprintf("%s - scale %.3f, azimuth %.1f\u00b0, declination %.1f\u00b0",
		base,
		v.camera.Scale,
		degrees(v.camera.Rotation.X),
		degrees(v.camera.Rotation.Y),
	)
}

// updateTitle pushes Title to the window when it changed.
func (v *Viewer) updateTitle() {
	w, ok := v.window.(titledWindow)
	if !ok {
		return
	}
	title := v.Title()
	if title == v.title {
		return
	}
	w.SetTitle(title)
	v.title = title
}

func degrees(rad float32) float64 {
	return float64(rad) * 180 / math.Pi
}

// Run processes events until the window closes or ctx is cancelled. Events
// that arrive together are applied as one batch followed by at most one
// frame.
func (v *Viewer) Run(ctx context.Context) error {
	logger.Info("starting event loop",
		zap.Int("textureWidth", v.texture.Width()),
		zap.Int("textureHeight", v.texture.Height()),
	)

	for {
		if ctx.Err() != nil {
			logger.Info("event loop cancelled")
			return nil
		}

		if v.redraw {
			if err := v.Draw(); err != nil {
				return fmt.Errorf("drawing frame: %w", err)
			}
		}

		v.queue.Reset()
		ev, ok := v.window.WaitEvent(v.config.WaitTimeout)
		for ok {
			v.queue.Push(ev)
			ev, ok = v.window.PollEvent()
		}

		for _, ev := range v.queue.Events() {
			if v.HandleEvent(ev) {
				logger.Info("event loop finished", zap.Int("frames", v.frames))
				return nil
			}
		}
	}
}

// Close releases the window's presentation surface. Call it before the
// window is destroyed.
func (v *Viewer) Close() {
	if v.surfaces != nil {
		v.surfaces.Release(v.window.ID())
	}
}

// screenshot renders the current view at the window's size and saves it.
// Failures are logged; they never stop the viewer.
func (v *Viewer) screenshot() {
	width, height := v.window.DrawableSize()
	if width <= 0 || height <= 0 {
		logger.Warn("screenshot skipped, window has no area")
		return
	}

	pix := make([]uint32, width*height)
	projection.Render(pix, width, height, v.camera, v.texture)

	path, err := v.shots.CaptureFrame(pix, width, height)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}
