package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"quest/internal/todo"
)

// keysFromMsg translates a bubbletea key message. A paste arrives as one
// message carrying many runes and becomes one key per rune. bubbletea only
// reports presses, so every key is a Press.
func keysFromMsg(msg tea.KeyMsg) []todo.Key {
	if msg.Alt {
		return []todo.Key{todo.CodeKey(todo.KeyUnknown)}
	}
	switch msg.Type {
	case tea.KeyRunes:
		keys := make([]todo.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			keys = append(keys, todo.RuneKey(r))
		}
		return keys
	case tea.KeySpace:
		return []todo.Key{todo.RuneKey(' ')}
	case tea.KeyUp:
		return []todo.Key{todo.CodeKey(todo.KeyUp)}
	case tea.KeyDown:
		return []todo.Key{todo.CodeKey(todo.KeyDown)}
	case tea.KeyEnter:
		return []todo.Key{todo.CodeKey(todo.KeyEnter)}
	case tea.KeyEsc:
		return []todo.Key{todo.CodeKey(todo.KeyEsc)}
	case tea.KeyBackspace:
		return []todo.Key{todo.CodeKey(todo.KeyBackspace)}
	case tea.KeyDelete:
		return []todo.Key{todo.CodeKey(todo.KeyDelete)}
	case tea.KeyCtrlC:
		return []todo.Key{todo.CodeKey(todo.KeyCtrlC)}
	default:
		return []todo.Key{todo.CodeKey(todo.KeyUnknown)}
	}
}

type keyMap struct {
	Quit   key.Binding
	Add    key.Binding
	Search key.Binding
	Nav    key.Binding
	Toggle key.Binding
	Delete key.Binding
	Clear  key.Binding

	Cancel key.Binding
	Save   key.Binding
	Erase  key.Binding
}

func newKeyMap(k todo.Keymap) keyMap {
	return keyMap{
		Quit:   binding(k.Quit, "exit"),
		Add:    binding(k.Add, "new quest"),
		Search: binding(k.Search, "search"),
		Nav: key.NewBinding(
			key.WithKeys(k.Up, k.Down),
			key.WithHelp(displayKey(k.Up)+"/"+displayKey(k.Down), "navigate list"),
		),
		Toggle: binding(k.Toggle, "check/uncheck quest"),
		Delete: binding(k.Delete, "delete quest"),
		Clear:  binding(k.Clear, "clear selection"),

		Cancel: binding("esc", "stop"),
		Save:   binding("enter", "save task"),
		Erase:  binding("backspace", "erase"),
	}
}

func binding(name, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(name), key.WithHelp(displayKey(name), desc))
}

func (k keyMap) forMode(mode todo.Mode) []key.Binding {
	switch mode.(type) {
	case todo.Adding:
		cancel := k.Cancel
		cancel.SetHelp(cancel.Help().Key, "stop adding")
		return []key.Binding{cancel, k.Save, k.Erase}
	case todo.Search:
		cancel := k.Cancel
		cancel.SetHelp(cancel.Help().Key, "stop searching")
		return []key.Binding{cancel, k.Erase}
	default:
		return []key.Binding{k.Quit, k.Add, k.Search, k.Toggle, k.Nav, k.Delete, k.Clear}
	}
}

func displayKey(name string) string {
	switch name {
	case "up":
		return "↑"
	case "down":
		return "↓"
	case "enter":
		return "Enter"
	case "esc":
		return "Esc"
	case "delete":
		return "Delete"
	case "backspace":
		return "Backspace"
	case "space":
		return "Space"
	default:
		return name
	}
}
