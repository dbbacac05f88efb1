package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format accepted for due dates.
const DateLayout = "2006-01-02"

// TimeLayout is the persisted created_at format: local time, second
// precision, no zone offset.
const TimeLayout = "2006-01-02T15:04:05"

var (
	ErrEmptyText = errors.New("task text is empty")
	ErrBadDate   = errors.New("due date is not a valid YYYY-MM-DD date")
	ErrNotFound  = errors.New("task not found")
)

// Task is one to-do item. Due holds a "YYYY-MM-DD" string, or "" when the
// task has no due date.
type Task struct {
	ID        int
	Text      string
	Due       string
	Completed bool
	CreatedAt time.Time
}

// ParseDue parses a strict YYYY-MM-DD calendar date. Out-of-range
// components ("2099-13-40") are rejected along with non-date strings.
func ParseDue(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// normalize trims text and due and validates them for Add/Update.
func normalize(text, due string) (string, string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", ErrEmptyText
	}
	due = strings.TrimSpace(due)
	if due != "" {
		if _, err := ParseDue(due); err != nil {
			return "", "", fmt.Errorf("%w: %q", ErrBadDate, due)
		}
	}
	return text, due, nil
}
