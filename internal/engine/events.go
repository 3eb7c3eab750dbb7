package engine

// State is the interaction state of the engine. Every gesture starts from StateIdle
// and returns to it on pointer-up or Escape.
type State int

const (
	StateIdle State = iota
	StateSelecting
	StateMoving
	StateResizing
	StateRotating
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelecting:
		return "selecting"
	case StateMoving:
		return "moving"
	case StateResizing:
		return "resizing"
	case StateRotating:
		return "rotating"
	default:
		return "unknown"
	}
}

// PointerKind identifies a pointer event.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

// PointerEvent carries a pointer position already converted to scene units by the
// host, plus modifier flags.
type PointerEvent struct {
	Kind PointerKind
	X    float64
	Y    float64
	// Shift and Additive (ctrl/cmd) both extend the selection instead of replacing it.
	Shift    bool
	Additive bool
}

func (ev PointerEvent) extends() bool {
	return ev.Shift || ev.Additive
}

// Key is a keyboard key the engine reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyDelete
	KeyBackspace
	KeyEscape
)

var keyNames = map[string]Key{
	"ArrowUp":    KeyArrowUp,
	"ArrowDown":  KeyArrowDown,
	"ArrowLeft":  KeyArrowLeft,
	"ArrowRight": KeyArrowRight,
	"Delete":     KeyDelete,
	"Backspace":  KeyBackspace,
	"Escape":     KeyEscape,
	"Esc":        KeyEscape,
}

// ParseKey maps a DOM KeyboardEvent.key value to a Key. Anything the engine does not
// handle maps to KeyUnknown.
func ParseKey(name string) Key {
	return keyNames[name]
}

// KeyEvent is a key press. Shift multiplies the nudge distance.
type KeyEvent struct {
	Key   Key
	Shift bool
}

// KeySource delivers keyboard events to a subscriber until the returned unsubscribe
// function is called.
type KeySource interface {
	SubscribeKeys(handler func(KeyEvent)) (unsubscribe func())
}
