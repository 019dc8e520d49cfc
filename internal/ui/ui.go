package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"quest/internal/storage"
	"quest/internal/todo"
)

// SaveError is returned by Run when the task list could not be written at
// quit. The terminal has already been restored when it is returned.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save tasks: %v", e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

type Model struct {
	state   *todo.State
	store   storage.Store
	logger  *log.Logger
	search  textinput.Model
	draft   textinput.Model
	help    help.Model
	keys    keyMap
	width   int
	saveErr error
	done    bool
}

func NewModel(state *todo.State, store storage.Store, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	search := textinput.New()
	search.Prompt = ""
	search.Placeholder = "type to filter"
	search.Width = 40

	draft := textinput.New()
	draft.Prompt = ""
	draft.Placeholder = "Task title"
	draft.Width = 40

	m := Model{
		state:  state,
		store:  store,
		logger: logger,
		search: search,
		draft:  draft,
		help:   help.New(),
		keys:   newKeyMap(state.Keys()),
	}
	m.syncInputs()
	return m
}

// Run draws the task list in the alternate screen until the quit key is
// pressed. bubbletea restores the terminal on every return path, including
// errors and panics.
func Run(state *todo.State, store storage.Store, logger *log.Logger, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	program := tea.NewProgram(NewModel(state, store, logger), opts...)
	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.saveErr != nil {
		return &SaveError{Err: m.saveErr}
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.search.Width = msg.Width - 10
		m.draft.Width = msg.Width - 10
		m.help.Width = msg.Width
		return m, nil
	}

	var searchCmd, draftCmd tea.Cmd
	m.search, searchCmd = m.search.Update(msg)
	m.draft, draftCmd = m.draft.Update(msg)
	return m, tea.Batch(searchCmd, draftCmd)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := m.state.Mode()
	for _, k := range keysFromMsg(msg) {
		if m.state.Handle(k) == todo.EffectQuit {
			m.save()
			m.done = true
			return m, tea.Quit
		}
	}
	if after := m.state.Mode(); after.String() != before.String() {
		m.logger.Debug("mode changed", "from", before, "to", after)
	}
	return m, m.syncInputs()
}

func (m *Model) save() {
	tasks := m.state.Tasks()
	if err := m.store.Save(tasks); err != nil {
		m.saveErr = err
		m.logger.Error("save failed", "err", err)
		return
	}
	m.logger.Info("saved tasks", "count", len(tasks))
}

// syncInputs mirrors the query and draft into the text inputs and focuses the
// one belonging to the active mode, which is where the cursor is drawn.
func (m *Model) syncInputs() tea.Cmd {
	m.search.SetValue(m.state.Query())
	m.search.CursorEnd()
	m.draft.SetValue(m.state.Draft())
	m.draft.CursorEnd()

	var cmd tea.Cmd
	switch m.state.Mode().(type) {
	case todo.Adding:
		m.search.Blur()
		if !m.draft.Focused() {
			cmd = m.draft.Focus()
		}
	case todo.Search:
		m.draft.Blur()
		if !m.search.Focused() {
			cmd = m.search.Focus()
		}
	default:
		m.search.Blur()
		m.draft.Blur()
	}
	return cmd
}
