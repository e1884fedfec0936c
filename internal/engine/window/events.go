package window

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/tangent/internal/engine/input"
)

// PollEvent returns the next pending event without blocking. ok is false
// when the SDL queue is empty. SDL events with no meaning for the viewer
// come back as input.EventNone.
func (w *Window) PollEvent() (ev input.Event, ok bool) {
	e := sdl.PollEvent()
	if e == nil {
		return input.Event{}, false
	}
	return w.toPixels(Translate(e)), true
}

// WaitEvent blocks until an event arrives or timeout elapses.
func (w *Window) WaitEvent(timeout time.Duration) (ev input.Event, ok bool) {
	e := sdl.WaitEventTimeout(int(timeout / time.Millisecond))
	if e == nil {
		return input.Event{}, false
	}
	return w.toPixels(Translate(e)), true
}

// toPixels moves positions and sizes from window points into the drawable
// pixel space the projection works in. The two differ on HiDPI displays.
func (w *Window) toPixels(ev input.Event) input.Event {
	if w.sdlWindow == nil {
		return ev
	}
	switch ev.Type {
	case input.EventCursorMoved:
		winW, winH := w.sdlWindow.GetSize()
		drawW, drawH := w.sdlWindow.GLGetDrawableSize()
		return ev.ToPixels(
			input.PixelScale(int(winW), int(drawW)),
			input.PixelScale(int(winH), int(drawH)),
		)
	case input.EventResized:
		ev.Width, ev.Height = w.DrawableSize()
	}
	return ev
}

// Translate converts an SDL event into an input event. Cursor positions stay
// in window points; PollEvent and WaitEvent convert them to pixels.
func Translate(e sdl.Event) input.Event {
	switch e := e.(type) {
	case *sdl.QuitEvent:
		return input.Event{Type: input.EventCloseRequested}

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_CLOSE:
			return input.CloseRequest(e.WindowID)
		case sdl.WINDOWEVENT_SIZE_CHANGED, sdl.WINDOWEVENT_RESIZED:
			return input.Event{
				Type:     input.EventResized,
				WindowID: e.WindowID,
				Width:    int(e.Data1),
				Height:   int(e.Data2),
			}
		case sdl.WINDOWEVENT_EXPOSED, sdl.WINDOWEVENT_RESTORED:
			return input.Event{Type: input.EventExposed, WindowID: e.WindowID}
		}

	case *sdl.MouseMotionEvent:
		ev := input.CursorMove(float32(e.X), float32(e.Y))
		ev.WindowID = e.WindowID
		return ev

	case *sdl.MouseButtonEvent:
		ev := input.MouseButtonEvent(translateButton(e.Button), e.State == sdl.PRESSED)
		ev.WindowID = e.WindowID
		return ev

	case *sdl.MouseWheelEvent:
		ev := input.Scroll(input.WheelAmount(e.Y, e.PreciseY, e.Direction == sdl.MOUSEWHEEL_FLIPPED))
		ev.WindowID = e.WindowID
		return ev

	case *sdl.KeyboardEvent:
		if e.State != sdl.PRESSED {
			break
		}
		ev := input.KeyPress(translateKey(e.Keysym.Scancode))
		ev.WindowID = e.WindowID
		return ev
	}

	return input.Event{}
}

func translateButton(b uint8) input.Button {
	switch b {
	case sdl.BUTTON_LEFT:
		return input.ButtonPrimary
	case sdl.BUTTON_MIDDLE:
		return input.ButtonMiddle
	case sdl.BUTTON_RIGHT:
		return input.ButtonSecondary
	default:
		return input.ButtonOther
	}
}

// translateKey maps physical key positions, so the arrows work on any layout.
func translateKey(sc sdl.Scancode) input.Key {
	switch sc {
	case sdl.SCANCODE_LEFT:
		return input.KeyLeft
	case sdl.SCANCODE_RIGHT:
		return input.KeyRight
	case sdl.SCANCODE_UP:
		return input.KeyUp
	case sdl.SCANCODE_DOWN:
		return input.KeyDown
	case sdl.SCANCODE_ESCAPE:
		return input.KeyEscape
	case sdl.SCANCODE_F12:
		return input.KeyScreenshot
	case sdl.SCANCODE_HOME:
		return input.KeyReset
	default:
		return input.KeyOther
	}
}
