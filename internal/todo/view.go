package todo

import (
	"strings"

	"quest/internal/storage"
)

// Item is one displayed row of the task list.
type Item struct {
	// Index is the task's position in the full, unfiltered sequence.
	Index int
	Task  storage.Task
	// Match is the byte length of the highlighted prefix; 0 when not filtering.
	Match int
}

func (it Item) Prefix() string {
	return it.Task.Text[:it.Match]
}

func (it Item) Rest() string {
	return it.Task.Text[it.Match:]
}

// Project returns the tasks shown for query, in sequence order. An empty query
// shows everything; otherwise only tasks whose text starts with query
// (case-sensitive) are kept.
func Project(tasks []storage.Task, query string) []Item {
	items := make([]Item, 0, len(tasks))
	for i, t := range tasks {
		if query != "" && !strings.HasPrefix(t.Text, query) {
			continue
		}
		items = append(items, Item{Index: i, Task: t, Match: len(query)})
	}
	return items
}
