package store

import "fmt"

// Cause classifies why a load failed, for diagnostics: reading the file vs
// making sense of its content.
type Cause string

const (
	CauseIO    Cause = "io"
	CauseParse Cause = "parse"
)

// LoadError reports that the persisted file exists but could not be turned
// into a task collection. Callers recover by starting from an empty
// collection; the file on disk is left untouched until the next save.
type LoadError struct {
	Path  string
	Cause Cause
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s error: %v", e.Path, e.Cause, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SaveError reports a failed write. The previous file content survives a
// failed save, and the caller's in-memory state is untouched, so the user
// can fix the cause and retry.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}
