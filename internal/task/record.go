package task

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedRecord marks a persisted record that cannot be turned back
// into a Task. Match with errors.Is.
var ErrMalformedRecord = errors.New("malformed task record")

// RecordError is a malformed-record error with the offending field.
type RecordError struct {
	Field  string
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: field %q: %s", ErrMalformedRecord, e.Field, e.Reason)
}

func (e *RecordError) Unwrap() error {
	return ErrMalformedRecord
}

// Record is the persisted form of a Task. ID and Text are pointers so a
// missing field can be told apart from a zero value; Due stays a pointer
// through serialization so an unset due date round-trips as JSON null.
type Record struct {
	ID        *int    `json:"id"`
	Text      *string `json:"text"`
	Due       *string `json:"due"`
	Completed bool    `json:"completed"`
	CreatedAt string  `json:"created_at"`
}

// Record converts the task to its persisted form.
func (t Task) Record() Record {
	id := t.ID
	text := t.Text
	r := Record{
		ID:        &id,
		Text:      &text,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.Format(TimeLayout),
	}
	if t.Due != "" {
		due := t.Due
		r.Due = &due
	}
	return r
}

// FromRecord reconstructs a Task from a persisted record.
//
// id and text are required; anything else degrades to a default: absent or
// null due becomes "no due date", absent completed becomes false, and an
// absent or unparseable created_at becomes the current time.
func FromRecord(r Record) (Task, error) {
	if r.ID == nil {
		return Task{}, &RecordError{Field: "id", Reason: "missing"}
	}
	if *r.ID < 1 {
		return Task{}, &RecordError{Field: "id", Reason: fmt.Sprintf("must be positive, got %d", *r.ID)}
	}
	if r.Text == nil {
		return Task{}, &RecordError{Field: "text", Reason: "missing"}
	}

	t := Task{
		ID:        *r.ID,
		Text:      *r.Text,
		Completed: r.Completed,
	}
	if r.Due != nil {
		t.Due = *r.Due
	}
	if ts, err := time.ParseInLocation(TimeLayout, r.CreatedAt, time.Local); err == nil {
		t.CreatedAt = ts
	} else {
		t.CreatedAt = time.Now()
	}
	return t, nil
}
