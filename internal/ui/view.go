package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"quest/internal/todo"
)

var (
	accent = lipgloss.Color("3")

	boxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	activeBoxStyle = boxStyle.BorderForeground(accent)
	labelStyle     = lipgloss.NewStyle().Bold(true)
	activeLabel    = labelStyle.Foreground(accent)

	textStyle      = lipgloss.NewStyle()
	doneStyle      = lipgloss.NewStyle().Strikethrough(true)
	matchStyle     = lipgloss.NewStyle().Foreground(accent).Bold(true)
	doneMatchStyle = lipgloss.NewStyle().Foreground(accent).Strikethrough(true)
	selectedStyle  = lipgloss.NewStyle().Reverse(true).Bold(true)
	statusStyle    = lipgloss.NewStyle().Faint(true)
)

const (
	selectionMarker = "->"
	doneGlyph       = "✔  "
	openGlyph       = "   "
)

func (m Model) View() string {
	if m.done {
		return ""
	}
	mode := m.state.Mode()
	_, searching := mode.(todo.Search)
	_, adding := mode.(todo.Adding)

	var b strings.Builder
	b.WriteString(m.renderBox("Search", m.search.View(), searching))
	b.WriteString("\n")
	b.WriteString(m.renderTaskList())
	b.WriteString("\n")
	b.WriteString(m.renderBox("New Task", m.draft.View(), adding))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.renderStatus()))
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.forMode(mode)))
	return b.String()
}

func (m Model) renderBox(title, body string, active bool) string {
	label, box := labelStyle, boxStyle
	if active {
		label, box = activeLabel, activeBoxStyle
	}
	if m.width > 4 {
		box = box.Width(m.width - 2)
	}
	return label.Render(title) + "\n" + box.Render(body)
}

func (m Model) renderTaskList() string {
	items := m.state.Items()
	if len(items) == 0 {
		if m.state.Query() != "" {
			return labelStyle.Render("Tasks") + "\n" + fmt.Sprintf("Nothing starts with %q.", m.state.Query())
		}
		return labelStyle.Render("Tasks") + "\n" + fmt.Sprintf("No tasks yet. Press '%s' to add one.", displayKey(m.state.Keys().Add))
	}

	sel, hasSel := m.state.Selected()
	var b strings.Builder
	b.WriteString(labelStyle.Render("Tasks"))
	b.WriteString("\n")
	for i, it := range items {
		row := renderItem(it)
		if hasSel && sel == i {
			b.WriteString(selectionMarker + " " + selectedStyle.Render(row))
		} else {
			b.WriteString(strings.Repeat(" ", len(selectionMarker)+1) + row)
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// renderItem draws the completion glyph, the highlighted query prefix and the
// rest of the text. Completed tasks stay struck through in both parts.
func renderItem(it todo.Item) string {
	glyph, match, rest := openGlyph, matchStyle, textStyle
	if it.Task.Completed {
		glyph, match, rest = doneGlyph, doneMatchStyle, doneStyle
	}
	out := glyph
	if p := it.Prefix(); p != "" {
		out += match.Render(p)
	}
	if r := it.Rest(); r != "" {
		out += rest.Render(r)
	}
	return out
}

func (m Model) renderStatus() string {
	total := len(m.state.Tasks())
	shown := len(m.state.Items())
	noun := "tasks"
	if total == 1 {
		noun = "task"
	}
	if m.state.Query() == "" {
		return fmt.Sprintf("%d %s", total, noun)
	}
	return fmt.Sprintf("%d of %d %s match %q", shown, total, noun, m.state.Query())
}
