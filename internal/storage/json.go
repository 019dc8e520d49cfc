package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const taskFileSchemaURL = "quest://tasks.schema.json"

const taskFileSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["text", "completed"],
		"properties": {
			"text": {"type": "string"},
			"completed": {"type": "boolean"}
		}
	}
}`

// JSONStore keeps tasks as a single JSON array document.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Path() string {
	return s.path
}

func (s *JSONStore) Load() ([]Task, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return decodeTasks(data)
}

// Save writes the full sequence to a sibling temp file and renames it over the
// task file, so a failed write never leaves a truncated document behind.
func (s *JSONStore) Save(tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}

	// Replace the link target, not the link.
	target := s.path
	if resolved, err := filepath.EvalSymlinks(s.path); err == nil {
		target = resolved
	}

	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write tasks: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("write tasks: %w", err)
	}
	if info, err := os.Stat(target); err == nil {
		_ = os.Chmod(tmpName, info.Mode().Perm())
	} else {
		_ = os.Chmod(tmpName, 0o644)
	}
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return fmt.Errorf("replace task file: %w", err)
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// decodeTasks parses a task document. Malformed JSON, a non-array root and
// elements missing "text" or "completed" are all rejected.
func decodeTasks(data []byte) ([]Task, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode task file: %w", err)
	}
	if err := validateTaskDocument(doc); err != nil {
		return nil, err
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode task file: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

func validateTaskDocument(doc any) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(taskFileSchemaURL, strings.NewReader(taskFileSchema)); err != nil {
		return fmt.Errorf("load task schema: %w", err)
	}
	schema, err := compiler.Compile(taskFileSchemaURL)
	if err != nil {
		return fmt.Errorf("compile task schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return &FormatError{Detail: schemaErrorDetail(err)}
	}
	return nil
}

// FormatError reports a task file that parsed as JSON but does not hold a
// list of tasks.
type FormatError struct {
	Detail string
}

func (e *FormatError) Error() string {
	return "invalid task file: " + e.Detail
}

func schemaErrorDetail(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, ve.Message)
}
