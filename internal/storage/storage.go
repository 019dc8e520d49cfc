package storage

import (
	"errors"
	"path/filepath"
	"strings"
)

type Task struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Store persists the whole task sequence. Load is called once at startup and
// Save once at quit; neither is incremental.
type Store interface {
	Load() ([]Task, error)
	Save(tasks []Task) error
	Close() error
}

// Open picks a backend from the path: SQLite for .db/.sqlite/.sqlite3,
// a JSON document otherwise.
func Open(path string) (Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("task store path is empty")
	}
	if isSQLitePath(path) {
		return OpenSQLite(path)
	}
	return NewJSONStore(path), nil
}

func isSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return strings.HasPrefix(path, "file:")
}
