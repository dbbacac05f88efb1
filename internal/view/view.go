// Package view derives display-ready projections from the task list.
// Everything here is a pure function over task values; no side effects.
package view

import (
	"fmt"
	"sort"
	"time"

	"todotui/internal/task"
)

// Filter narrows the visible tasks.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterActive Filter = "active"
	FilterDone   Filter = "done"
)

// ParseFilter validates a user-supplied filter name.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterAll, FilterActive, FilterDone:
		return Filter(s), nil
	}
	return "", fmt.Errorf("unknown filter %q (want all, active, or done)", s)
}

// Match reports whether the task is visible under the filter. An unknown
// filter value behaves like FilterAll.
func (f Filter) Match(t task.Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterDone:
		return t.Completed
	}
	return true
}

// Status labels shown for a task's completion flag.
const (
	StatusDone = "done"
	StatusOpen = "open"
)

// Row is one display line: text, due-date string (empty when unset), and a
// status label. The id is carried so a selection can be mapped back to a
// collection operation.
type Row struct {
	ID     int
	Text   string
	Due    string
	Status string
}

// maxDue is the effective due date for tasks with no (or an unparseable)
// due string; it sorts them after every dated task.
var maxDue = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

func effectiveDue(t task.Task) time.Time {
	if t.Due == "" {
		return maxDue
	}
	d, err := task.ParseDue(t.Due)
	if err != nil {
		// Stored garbage degrades to "no date" here; it is never an error
		// at display time.
		return maxDue
	}
	return d
}

// Rows returns the filtered, sorted display rows.
//
// Sort order, ascending: incomplete before complete, then effective due
// date, then creation time.
func Rows(tasks []task.Task, f Filter) []Row {
	visible := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			visible = append(visible, t)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		a, b := visible[i], visible[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		da, db := effectiveDue(a), effectiveDue(b)
		if !da.Equal(db) {
			return da.Before(db)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	rows := make([]Row, 0, len(visible))
	for _, t := range visible {
		status := StatusOpen
		if t.Completed {
			status = StatusDone
		}
		rows = append(rows, Row{ID: t.ID, Text: t.Text, Due: t.Due, Status: status})
	}
	return rows
}

// Counts returns the summary numbers for the status line: total tasks and
// how many are still open. Counts ignores the filter on purpose, matching
// the original status bar.
func Counts(tasks []task.Task) (total, remaining int) {
	total = len(tasks)
	for _, t := range tasks {
		if !t.Completed {
			remaining++
		}
	}
	return total, remaining
}
