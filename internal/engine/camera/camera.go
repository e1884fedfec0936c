// Package camera holds the view state of the tangent-plane projection and the
// transitions that input events apply to it.
//
// Every transition is a value method returning the next state and whether the
// change is visible, so callers decide when to redraw and tests need no window.
package camera

import (
	gomath "math"

	"github.com/Faultbox/tangent/internal/engine/input"
	"github.com/Faultbox/tangent/pkg/math"
)

// Defaults for Config.
const (
	DefaultZoomBase     = 1.01
	DefaultRotateStep   = 0.1
	DefaultInitialScale = 1.0
)

// Scale limits. Scale stays strictly positive and finite so zoom can always
// be undone.
const (
	MinScale = gomath.SmallestNonzeroFloat32
	MaxScale = gomath.MaxFloat32
)

// Config holds interaction tuning.
type Config struct {
	ZoomBase     float32 // scale factor per scroll unit
	RotateStep   float32 // radians per arrow key press
	InitialScale float32
}

// DefaultConfig returns the stock interaction settings.
func DefaultConfig() Config {
	return Config{
		ZoomBase:     DefaultZoomBase,
		RotateStep:   DefaultRotateStep,
		InitialScale: DefaultInitialScale,
	}
}

// State is the camera. Rotation is kept unwrapped so that opposite key
// presses cancel exactly; use NormalizedRotation for wrapped angles.
type State struct {
	Scale      float32   // tangent-plane distance, > 0
	Pan        math.Vec2 // screen-space offset of the projection center
	Rotation   math.Vec2 // X: azimuth, Y: declination (radians)
	Dragging   bool
	LastCursor math.Vec2

	cfg Config
}

// New creates a camera at its initial state. Zero or invalid config fields
// fall back to the defaults.
func New(cfg Config) State {
	def := DefaultConfig()
	if !(cfg.ZoomBase > 0) || isInf(cfg.ZoomBase) {
		cfg.ZoomBase = def.ZoomBase
	}
	if cfg.RotateStep == 0 || isInf(cfg.RotateStep) || cfg.RotateStep != cfg.RotateStep {
		cfg.RotateStep = def.RotateStep
	}
	if !(cfg.InitialScale > 0) || isInf(cfg.InitialScale) {
		cfg.InitialScale = def.InitialScale
	}

	return State{
		Scale: cfg.InitialScale,
		cfg:   cfg,
	}
}

// Config returns the interaction settings the camera was created with.
func (s State) Config() Config {
	return s.cfg
}

// Reset returns the view to its initial zoom, pan and rotation. The drag
// gesture and cursor position are kept.
func (s State) Reset() State {
	next := New(s.cfg)
	next.Dragging = s.Dragging
	next.LastCursor = s.LastCursor
	return next
}

// MouseButton starts or ends a drag on the primary button. It never needs a
// redraw by itself.
func (s State) MouseButton(b input.Button, pressed bool) (State, bool) {
	if b != input.ButtonPrimary {
		return s, false
	}
	s.Dragging = pressed
	return s, false
}

// CursorMoved tracks the cursor and, while dragging, pans by the movement.
func (s State) CursorMoved(x, y float32) (State, bool) {
	pos := math.Vec2{X: x, Y: y}
	delta := s.LastCursor.Sub(pos)
	s.LastCursor = pos

	if !s.Dragging {
		return s, false
	}
	s.Pan = s.Pan.Sub(delta)
	return s, true
}

// Scrolled zooms multiplicatively: each unit of amount scales by ZoomBase.
// Non-finite amounts are ignored.
func (s State) Scrolled(amount float32) (State, bool) {
	if amount != amount || isInf(amount) {
		return s, false
	}

	scale := float64(s.Scale) * gomath.Pow(float64(s.cfg.ZoomBase), float64(amount))
	s.Scale = clampScale(scale)
	return s, true
}

// KeyPressed rotates on the arrow keys. Other keys are ignored.
func (s State) KeyPressed(k input.Key) (State, bool) {
	step := s.cfg.RotateStep
	switch k {
	case input.KeyLeft:
		s.Rotation.X -= step
	case input.KeyRight:
		s.Rotation.X += step
	case input.KeyUp:
		s.Rotation.Y -= step
	case input.KeyDown:
		s.Rotation.Y += step
	default:
		return s, false
	}
	return s, true
}

// Apply dispatches a decoded event to the matching transition. Events the
// camera does not observe leave it unchanged.
func (s State) Apply(e input.Event) (State, bool) {
	switch e.Type {
	case input.EventMouseButton:
		return s.MouseButton(e.Button, e.Pressed)
	case input.EventCursorMoved:
		return s.CursorMoved(e.X, e.Y)
	case input.EventScrolled:
		return s.Scrolled(e.Amount)
	case input.EventKeyPressed:
		return s.KeyPressed(e.Key)
	default:
		return s, false
	}
}

// NormalizedRotation returns the rotation wrapped to [0, 2π) for azimuth and
// [0, π) for declination.
func (s State) NormalizedRotation() (azimuth, declination float64) {
	return math.Wrap(float64(s.Rotation.X), 2*gomath.Pi),
		math.Wrap(float64(s.Rotation.Y), gomath.Pi)
}

func clampScale(v float64) float32 {
	switch {
	case v != v, v < MinScale:
		return MinScale
	case v > MaxScale:
		return MaxScale
	default:
		return float32(v)
	}
}

func isInf(v float32) bool {
	return gomath.IsInf(float64(v), 0)
}
