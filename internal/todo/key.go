package todo

import "unicode"

type KeyCode int

const (
	KeyUnknown KeyCode = iota
	KeyRune
	KeyUp
	KeyDown
	KeyEnter
	KeyEsc
	KeyBackspace
	KeyDelete
	KeyCtrlC
)

type KeyKind int

const (
	Press KeyKind = iota
	Repeat
	Release
)

// Key is a single terminal key event. Rune is only meaningful for KeyRune.
type Key struct {
	Code KeyCode
	Rune rune
	Kind KeyKind
}

func RuneKey(r rune) Key {
	return Key{Code: KeyRune, Rune: r}
}

func CodeKey(c KeyCode) Key {
	return Key{Code: c}
}

// String names the key the way keymap entries do: "q", "up", "enter", ...
func (k Key) String() string {
	switch k.Code {
	case KeyRune:
		if k.Rune == ' ' {
			return "space"
		}
		return string(k.Rune)
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyEnter:
		return "enter"
	case KeyEsc:
		return "esc"
	case KeyBackspace:
		return "backspace"
	case KeyDelete:
		return "delete"
	case KeyCtrlC:
		return "ctrl+c"
	default:
		return ""
	}
}

func (k Key) printable() bool {
	return k.Code == KeyRune && unicode.IsPrint(k.Rune)
}

// Keymap names the Normal-mode key for each action.
type Keymap struct {
	Quit   string
	Add    string
	Search string
	Up     string
	Down   string
	Toggle string
	Delete string
	Clear  string
}

func DefaultKeymap() Keymap {
	return Keymap{
		Quit:   "q",
		Add:    "n",
		Search: "s",
		Up:     "up",
		Down:   "down",
		Toggle: "enter",
		Delete: "delete",
		Clear:  "esc",
	}
}
