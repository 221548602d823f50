package event

import "fmt"

// Type identifies the kind of an input event.
type Type int

// Event types consumed by the canvas plugins.
const (
	// PointerMove carries a client-space position in X, Y.
	PointerMove Type = iota + 1
	// PointerDown carries the pressed Button.
	PointerDown
	// PointerUp carries the released Button.
	PointerUp
	// PointerOut carries a Button that is considered released because the
	// pointer left the element.
	PointerOut
	// Click carries the Button of a completed press/release pair.
	Click
	// Wheel carries the vertical scroll amount in DeltaY. Positive values
	// scroll down (zoom out), matching DOM wheel semantics.
	Wheel
	// Resize carries the new content-box size in Width, Height.
	Resize
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case PointerMove:
		return "pointermove"
	case PointerDown:
		return "pointerdown"
	case PointerUp:
		return "pointerup"
	case PointerOut:
		return "pointerout"
	case Click:
		return "click"
	case Wheel:
		return "wheel"
	case Resize:
		return "resize"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Button is a pointer button index, ordered as DOM MouseEvent.button.
type Button int

// Pointer buttons.
const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
	ButtonCount
)

// Valid reports whether b indexes one of the tracked buttons.
func (b Button) Valid() bool {
	return b >= 0 && b < ButtonCount
}

// Event is a single host input notification.
// Only the fields relevant to Type are meaningful.
type Event struct {
	Type Type

	X, Y float64 // PointerMove

	Button Button // PointerDown, PointerUp, PointerOut, Click

	DeltaY float64 // Wheel

	Width, Height int // Resize
}

// Handler receives dispatched events.
type Handler func(Event)

// Source is implemented by anything handlers can subscribe to.
type Source interface {
	Listen(t Type, h Handler)
}

// Dispatcher is implemented by sources that buffer events and deliver them
// on demand. Dispatch returns the number of events delivered.
type Dispatcher interface {
	Dispatch() int
}

// Move returns a PointerMove event.
func Move(x, y float64) Event {
	return Event{Type: PointerMove, X: x, Y: y}
}

// Down returns a PointerDown event.
func Down(b Button) Event {
	return Event{Type: PointerDown, Button: b}
}

// Up returns a PointerUp event.
func Up(b Button) Event {
	return Event{Type: PointerUp, Button: b}
}

// Out returns a PointerOut event.
func Out(b Button) Event {
	return Event{Type: PointerOut, Button: b}
}

// ClickOf returns a Click event.
func ClickOf(b Button) Event {
	return Event{Type: Click, Button: b}
}

// Scroll returns a Wheel event.
func Scroll(dy float64) Event {
	return Event{Type: Wheel, DeltaY: dy}
}

// Resized returns a Resize event.
func Resized(width, height int) Event {
	return Event{Type: Resize, Width: width, Height: height}
}
