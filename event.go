package robbie

import "strings"

// Event is a sealed interface representing one terminal input event.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// Key identifies the key of a KeyEvent.
type Key int

const (
	KeyUnknown Key = iota
	KeyRune        // printable character, see KeyEvent.Rune
	KeyEnter
	KeyBackspace
	KeyTab
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyDelete
	KeyCtrlC
	KeyCtrlD
)

var keyNames = map[Key]string{
	KeyUnknown:   "unknown",
	KeyRune:      "rune",
	KeyEnter:     "enter",
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyEscape:    "esc",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyDelete:    "delete",
	KeyCtrlC:     "ctrl+c",
	KeyCtrlD:     "ctrl+d",
}

// String returns a short name for the key.
func (k Key) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return keyNames[KeyUnknown]
}

// Modifiers is a bit set of modifier keys held during a key press.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModCtrl

	ModNone Modifiers = 0
)

// String renders the set as e.g. "ctrl+alt". ModNone renders as "".
func (m Modifiers) String() string {
	var parts []string
	if m&ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if m&ModAlt != 0 {
		parts = append(parts, "alt")
	}
	if m&ModShift != 0 {
		parts = append(parts, "shift")
	}
	return strings.Join(parts, "+")
}

// KeyEvent is a single key press.
type KeyEvent struct {
	Key  Key
	Rune rune // set when Key is KeyRune
	Mod  Modifiers
}

func (KeyEvent) event() {}

// String renders the event as e.g. "alt+enter" or "a".
func (e KeyEvent) String() string {
	name := e.Key.String()
	if e.Key == KeyRune {
		name = string(e.Rune)
	}
	if m := e.Mod.String(); m != "" {
		return m + "+" + name
	}
	return name
}

// PasteEvent carries a block of text delivered through bracketed paste.
type PasteEvent struct {
	Text string
}

func (PasteEvent) event() {}

// Interface compliance checks.
var (
	_ Event = KeyEvent{}
	_ Event = PasteEvent{}
)
