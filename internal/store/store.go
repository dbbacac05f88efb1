// Package store maps the task collection to a single JSON file on disk.
//
// Every save rewrites the whole file; there is no appending, no locking,
// and no cross-process coordination. Loaded content is checked against an
// embedded JSON Schema before any record is accepted, and one bad record
// fails the whole load rather than being skipped.
package store

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todotui/internal/task"
)

//go:embed schema.json
var schemaJSON string

// DefaultFileName matches the original data file next to the binary.
const DefaultFileName = "todo_data.json"

var schema = jsonschema.MustCompileString("schema.json", schemaJSON)

// Store persists a task collection to one JSON file.
type Store struct {
	path string
}

// New returns a store writing to path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the data file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the data file and reconstructs the task list in file order.
//
// A missing file is a first run, not an error: Load returns an empty list.
// Everything else that goes wrong comes back as a *LoadError whose Cause
// separates unreadable files from unparseable content.
func (s *Store) Load() ([]task.Task, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []task.Task{}, nil
		}
		return nil, &LoadError{Path: s.path, Cause: CauseIO, Err: err}
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Path: s.path, Cause: CauseParse, Err: err}
	}
	if err := schema.Validate(raw); err != nil {
		return nil, &LoadError{Path: s.path, Cause: CauseParse, Err: flattenSchemaError(err)}
	}

	var records []task.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &LoadError{Path: s.path, Cause: CauseParse, Err: err}
	}

	tasks := make([]task.Task, 0, len(records))
	seen := make(map[int]bool, len(records))
	for i, rec := range records {
		t, err := task.FromRecord(rec)
		if err != nil {
			return nil, &LoadError{Path: s.path, Cause: CauseParse, Err: fmt.Errorf("record %d: %w", i, err)}
		}
		if seen[t.ID] {
			return nil, &LoadError{Path: s.path, Cause: CauseParse, Err: fmt.Errorf("record %d: duplicate id %d", i, t.ID)}
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Save serializes the full task list and replaces the data file. The JSON
// is pretty-printed with 2-space indent and a trailing newline. The bytes
// go to a temp file in the same directory first and are renamed into
// place, so a failed save leaves the previous file intact.
func (s *Store) Save(tasks []task.Task) error {
	records := make([]task.Record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, t.Record())
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &SaveError{Path: s.path, Err: err}
	}
	data = append(data, '\n')

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &SaveError{Path: s.path, Err: err}
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &SaveError{Path: s.path, Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return &SaveError{Path: s.path, Err: err}
	}
	return nil
}

// flattenSchemaError turns the jsonschema error tree into a one-line
// summary of the leaf violations.
func flattenSchemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}

	var leaves []string
	collectLeaves(ve, &leaves)
	return fmt.Errorf("schema violation: %s", strings.Join(leaves, "; "))
}

func collectLeaves(err *jsonschema.ValidationError, out *[]string) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*out = append(*out, fmt.Sprintf("%s: %s", loc, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectLeaves(cause, out)
	}
}
