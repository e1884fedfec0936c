// Package input defines the decoded input events the viewer reacts to.
// Device handling lives in the window package; everything here is plain data
// so the camera and viewer can be driven without a window system.
package input

import "fmt"

// EventType identifies the kind of a decoded event.
type EventType int

const (
	EventNone EventType = iota
	EventCloseRequested
	EventResized
	EventExposed
	EventKeyPressed
	EventCursorMoved
	EventMouseButton
	EventScrolled
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventNone:
		return "None"
	case EventCloseRequested:
		return "CloseRequested"
	case EventResized:
		return "Resized"
	case EventExposed:
		return "Exposed"
	case EventKeyPressed:
		return "KeyPressed"
	case EventCursorMoved:
		return "CursorMoved"
	case EventMouseButton:
		return "MouseButton"
	case EventScrolled:
		return "Scrolled"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// Key is a physical key identifier.
type Key int

const (
	KeyOther Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyEscape
	KeyScreenshot
	KeyReset
)

// Button is a mouse button identifier.
type Button uint8

const (
	ButtonOther Button = iota
	ButtonPrimary
	ButtonMiddle
	ButtonSecondary
)

// Event is a decoded input event. Only the fields relevant to Type are set.
type Event struct {
	Type     EventType
	WindowID uint32

	Key     Key
	Button  Button
	Pressed bool

	X, Y   float32 // cursor position in drawable pixels
	Amount float32 // scroll magnitude, positive away from the user

	Width, Height int // new drawable size in pixels
}

// KeyPress returns a key press event.
func KeyPress(k Key) Event {
	return Event{Type: EventKeyPressed, Key: k, Pressed: true}
}

// CursorMove returns a cursor move event.
func CursorMove(x, y float32) Event {
	return Event{Type: EventCursorMoved, X: x, Y: y}
}

// MouseButtonEvent returns a button press or release event.
func MouseButtonEvent(b Button, pressed bool) Event {
	return Event{Type: EventMouseButton, Button: b, Pressed: pressed}
}

// Scroll returns a scroll event with a line or pixel delta collapsed to one
// scalar.
func Scroll(amount float32) Event {
	return Event{Type: EventScrolled, Amount: amount}
}

// WheelAmount collapses a wheel event to one scroll amount. The fractional
// delta reported by trackpads wins over the whole-line delta when present.
func WheelAmount(lines int32, precise float32, flipped bool) float32 {
	amount := precise
	if amount == 0 {
		amount = float32(lines)
	}
	if flipped {
		amount = -amount
	}
	return amount
}

// PixelScale returns the drawable pixels per window point along one axis.
// Unknown sizes scale by 1.
func PixelScale(points, pixels int) float32 {
	if points <= 0 || pixels <= 0 {
		return 1
	}
	return float32(pixels) / float32(points)
}

// ToPixels converts a cursor position from window points to drawable pixels.
// Other events are returned unchanged.
func (e Event) ToPixels(sx, sy float32) Event {
	if e.Type != EventCursorMoved {
		return e
	}
	e.X *= sx
	e.Y *= sy
	return e
}

// CloseRequest returns a close request for the given window.
func CloseRequest(windowID uint32) Event {
	return Event{Type: EventCloseRequested, WindowID: windowID}
}

// Queue collects the events decoded during one pass of the event loop.
type Queue struct {
	events []Event
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		events: make([]Event, 0, 16),
	}
}

// Push appends e. EventNone is dropped.
func (q *Queue) Push(e Event) {
	if e.Type == EventNone {
		return
	}
	q.events = append(q.events, e)
}

// Reset clears the queue, keeping its storage.
func (q *Queue) Reset() {
	q.events = q.events[:0]
}

// Events returns the queued events in arrival order.
func (q *Queue) Events() []Event {
	return q.events
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.events)
}
