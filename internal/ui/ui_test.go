package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quest/internal/storage"
	"quest/internal/todo"
)

type fakeStore struct {
	saved   [][]storage.Task
	saveErr error
}

func (f *fakeStore) Load() ([]storage.Task, error) { return nil, nil }

func (f *fakeStore) Save(tasks []storage.Task) error {
	f.saved = append(f.saved, tasks)
	return f.saveErr
}

func (f *fakeStore) Close() error { return nil }

func newTestModel(tasks ...storage.Task) (Model, *fakeStore) {
	store := &fakeStore{}
	state := todo.NewState(tasks, todo.DefaultKeymap())
	return NewModel(state, store, nil), store
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestKeysFromMsg(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want []todo.Key
	}{
		{"rune", runes("q"), []todo.Key{todo.RuneKey('q')}},
		{"paste", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab"), Paste: true}, []todo.Key{todo.RuneKey('a'), todo.RuneKey('b')}},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, []todo.Key{todo.RuneKey(' ')}},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, []todo.Key{todo.CodeKey(todo.KeyUp)}},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, []todo.Key{todo.CodeKey(todo.KeyDown)}},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, []todo.Key{todo.CodeKey(todo.KeyEnter)}},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, []todo.Key{todo.CodeKey(todo.KeyEsc)}},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, []todo.Key{todo.CodeKey(todo.KeyBackspace)}},
		{"delete", tea.KeyMsg{Type: tea.KeyDelete}, []todo.Key{todo.CodeKey(todo.KeyDelete)}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, []todo.Key{todo.CodeKey(todo.KeyCtrlC)}},
		{"alt rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q"), Alt: true}, []todo.Key{todo.CodeKey(todo.KeyUnknown)}},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, []todo.Key{todo.CodeKey(todo.KeyUnknown)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keysFromMsg(tt.msg))
		})
	}
}

func TestQuitSavesAndQuits(t *testing.T) {
	m, store := newTestModel(storage.Task{Text: "a"})

	m, cmd := send(t, m,
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
		runes("q"),
	)

	assert.True(t, isQuit(cmd))
	require.Len(t, store.saved, 1)
	assert.Equal(t, []storage.Task{{Text: "a", Completed: true}}, store.saved[0])
	assert.NoError(t, m.saveErr)
	assert.Empty(t, m.View())
}

func TestQuitKeepsSaveError(t *testing.T) {
	m, store := newTestModel()
	store.saveErr = errors.New("disk full")

	m, cmd := send(t, m, runes("q"))

	assert.True(t, isQuit(cmd))
	assert.EqualError(t, m.saveErr, "disk full")
}

func TestTypingQInAddingModeDoesNotQuit(t *testing.T) {
	m, store := newTestModel()

	m, cmd := send(t, m, runes("n"), runes("q"))

	assert.False(t, isQuit(cmd))
	assert.Empty(t, store.saved)
	assert.Equal(t, "q", m.state.Draft())
	assert.Equal(t, "q", m.draft.Value())
	assert.True(t, m.draft.Focused())
	assert.False(t, m.search.Focused())
}

func TestPastedQuitStopsProcessing(t *testing.T) {
	m, store := newTestModel()

	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("qn"), Paste: true})

	assert.True(t, isQuit(cmd))
	require.Len(t, store.saved, 1)
	assert.Equal(t, todo.Normal{}, m.state.Mode())
}

func TestInputFocusFollowsMode(t *testing.T) {
	m, _ := newTestModel()
	assert.False(t, m.search.Focused())
	assert.False(t, m.draft.Focused())

	m, _ = send(t, m, runes("s"), runes("Bu"))
	assert.True(t, m.search.Focused())
	assert.False(t, m.draft.Focused())
	assert.Equal(t, "Bu", m.search.Value())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.search.Focused())
	assert.Equal(t, "Bu", m.search.Value())
}

func TestBuyMilkScenarioThroughModel(t *testing.T) {
	m, store := newTestModel()

	m, _ = send(t, m, runes("n"))
	for _, r := range "Buy milk" {
		if r == ' ' {
			m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m, _ = send(t, m, runes(string(r)))
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, []storage.Task{{Text: "Buy milk"}}, m.state.Tasks())
	assert.Equal(t, todo.Normal{}, m.state.Mode())
	assert.Empty(t, m.draft.Value())

	_, cmd := send(t, m, runes("q"))
	assert.True(t, isQuit(cmd))
	assert.Equal(t, []storage.Task{{Text: "Buy milk"}}, store.saved[0])
}

func TestViewRendersTasksAndFilter(t *testing.T) {
	m, _ := newTestModel(
		storage.Task{Text: "Buy milk"},
		storage.Task{Text: "Walk dog", Completed: true},
	)

	out := m.View()
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "Walk dog")
	assert.Contains(t, out, "✔")
	assert.Contains(t, out, "2 tasks")
	assert.Contains(t, out, "new quest")

	m, _ = send(t, m, runes("s"), runes("Buy"))
	out = m.View()
	assert.Contains(t, out, "milk")
	assert.NotContains(t, out, "Walk dog")
	assert.Contains(t, out, `1 of 2 tasks match "Buy"`)
	assert.Contains(t, out, "stop searching")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc}, tea.KeyMsg{Type: tea.KeyDown})
	assert.Contains(t, m.View(), selectionMarker)
}

func TestViewEmptyStates(t *testing.T) {
	m, _ := newTestModel()
	assert.Contains(t, m.View(), "No tasks yet. Press 'n' to add one.")

	m, _ = newTestModel(storage.Task{Text: "a"})
	m, _ = send(t, m, runes("s"), runes("z"))
	assert.Contains(t, m.View(), `Nothing starts with "z".`)
}

func TestRenderItemSplitsMatch(t *testing.T) {
	items := todo.Project([]storage.Task{{Text: "Buy milk"}}, "Buy")
	require.Len(t, items, 1)

	row := renderItem(items[0])
	assert.True(t, strings.HasPrefix(row, openGlyph))
	assert.Contains(t, row, "Buy")
	assert.Contains(t, row, " milk")
}

func TestWindowSizeAdjustsInputs(t *testing.T) {
	m, _ := newTestModel()
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, 80, m.width)
	assert.Equal(t, 70, m.search.Width)
	assert.Equal(t, 70, m.draft.Width)
}

func TestSaveErrorWrapsCause(t *testing.T) {
	cause := errors.New("read-only file system")
	err := error(&SaveError{Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "save tasks: read-only file system", err.Error())
}
