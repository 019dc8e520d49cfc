// Package todo holds the in-memory task list and the key-driven state machine
// that edits it.
package todo

import (
	"slices"
	"strings"
	"unicode/utf8"

	"quest/internal/storage"
)

// Mode is the active input mode: Normal, Adding or Search.
type Mode interface {
	String() string
	mode()
}

type Normal struct{}

// Adding collects a new task's text until Enter commits it.
type Adding struct {
	Draft string
}

// Search edits the filter query. The query itself lives on State because
// filtering stays active after leaving Search.
type Search struct{}

func (Normal) String() string { return "normal" }
func (Adding) String() string { return "adding" }
func (Search) String() string { return "search" }

func (Normal) mode() {}
func (Adding) mode() {}
func (Search) mode() {}

type Effect int

const (
	EffectNone Effect = iota
	// EffectQuit asks the caller to persist the tasks and stop.
	EffectQuit
)

const noSelection = -1

type State struct {
	mode     Mode
	tasks    []storage.Task
	query    string
	selected int
	keys     Keymap
}

func NewState(tasks []storage.Task, keys Keymap) *State {
	if tasks == nil {
		tasks = []storage.Task{}
	}
	return &State{
		mode:     Normal{},
		tasks:    tasks,
		selected: noSelection,
		keys:     keys,
	}
}

func (s *State) Mode() Mode {
	return s.mode
}

func (s *State) Tasks() []storage.Task {
	return slices.Clone(s.tasks)
}

func (s *State) Query() string {
	return s.query
}

// Draft returns the pending new-task text, empty outside Adding.
func (s *State) Draft() string {
	if a, ok := s.mode.(Adding); ok {
		return a.Draft
	}
	return ""
}

// Selected returns the selected index into Items, if any.
func (s *State) Selected() (int, bool) {
	if s.selected == noSelection {
		return 0, false
	}
	return s.selected, true
}

func (s *State) Keys() Keymap {
	return s.keys
}

// Items is the displayed sequence for the current query.
func (s *State) Items() []Item {
	return Project(s.tasks, s.query)
}

// Handle applies one key event. Only fresh presses are interpreted; repeats
// and releases are dropped.
func (s *State) Handle(k Key) Effect {
	if k.Kind != Press {
		return EffectNone
	}
	switch m := s.mode.(type) {
	case Normal:
		return s.handleNormal(k)
	case Adding:
		s.handleAdding(m, k)
	case Search:
		s.handleSearch(k)
	}
	return EffectNone
}

func (s *State) handleNormal(k Key) Effect {
	name := k.String()
	if name == "" {
		return EffectNone
	}
	switch name {
	case s.keys.Quit:
		return EffectQuit
	case s.keys.Add:
		s.mode = Adding{}
		s.selected = noSelection
	case s.keys.Search:
		s.mode = Search{}
		s.selected = noSelection
	case s.keys.Up:
		s.moveUp()
	case s.keys.Down:
		s.moveDown()
	case s.keys.Delete:
		s.deleteSelected()
	case s.keys.Toggle:
		s.toggleSelected()
	case s.keys.Clear:
		s.selected = noSelection
	}
	return EffectNone
}

func (s *State) handleAdding(m Adding, k Key) {
	switch {
	case k.Code == KeyEsc:
		s.mode = Normal{}
	case k.Code == KeyEnter:
		if strings.TrimSpace(m.Draft) == "" {
			return
		}
		s.tasks = append(s.tasks, storage.Task{Text: m.Draft})
		s.mode = Adding{}
	case k.Code == KeyBackspace:
		s.mode = Adding{Draft: trimLastRune(m.Draft)}
	case k.printable():
		s.mode = Adding{Draft: m.Draft + string(k.Rune)}
	}
}

func (s *State) handleSearch(k Key) {
	switch {
	case k.Code == KeyEsc:
		s.mode = Normal{}
	case k.Code == KeyBackspace:
		s.query = trimLastRune(s.query)
	case k.printable():
		s.query += string(k.Rune)
	}
}

// Navigation clamps to the displayed list, not the full task count, so the
// selection never points past what is on screen.
func (s *State) moveUp() {
	if len(s.Items()) == 0 {
		return
	}
	switch {
	case s.selected == noSelection:
		s.selected = 0
	case s.selected > 0:
		s.selected--
	}
}

func (s *State) moveDown() {
	n := len(s.Items())
	if n == 0 {
		return
	}
	switch {
	case s.selected == noSelection:
		s.selected = 0
	case s.selected < n-1:
		s.selected++
	}
}

func (s *State) deleteSelected() {
	items := s.Items()
	if s.selected == noSelection || s.selected >= len(items) {
		return
	}
	idx := items[s.selected].Index
	s.tasks = slices.Delete(s.tasks, idx, idx+1)

	switch {
	case len(items) == 1:
		s.selected = noSelection
	case s.selected > 0:
		s.selected--
	}
}

func (s *State) toggleSelected() {
	items := s.Items()
	if s.selected == noSelection || s.selected >= len(items) {
		return
	}
	idx := items[s.selected].Index
	s.tasks[idx].Completed = !s.tasks[idx].Completed
}

func trimLastRune(v string) string {
	if v == "" {
		return v
	}
	_, size := utf8.DecodeLastRuneInString(v)
	return v[:len(v)-size]
}
