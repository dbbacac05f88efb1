// Package app wires the task collection to the persistence store and
// exposes the command/query surface the CLI and TUI drive.
package app

import (
	"errors"

	"github.com/charmbracelet/log"

	"todotui/internal/store"
	"todotui/internal/task"
	"todotui/internal/view"
)

// App owns the live collection. Every successful mutation saves the whole
// collection synchronously before returning.
//
// A failed save does not roll the mutation back: the change stays visible
// in memory, the error goes to the caller, and the user can retry the next
// mutation (or an explicit Save) once the cause is fixed. This matches the
// original program, which only reported save errors.
type App struct {
	col    *task.Collection
	st     *store.Store
	logger *log.Logger

	loadWarning string
}

// New loads the data file and returns a ready App.
//
// Load problems are not fatal: the app starts with an empty collection and
// keeps a human-readable warning for the UI to surface. The broken file is
// left untouched until the first save.
func New(st *store.Store, logger *log.Logger) *App {
	a := &App{st: st, logger: logger}

	tasks, err := st.Load()
	if err != nil {
		var loadErr *store.LoadError
		if errors.As(err, &loadErr) {
			logger.Warn("could not load data file, starting empty",
				"path", loadErr.Path, "cause", loadErr.Cause, "err", loadErr.Err)
		} else {
			logger.Warn("could not load data file, starting empty", "err", err)
		}
		a.loadWarning = "could not read saved tasks, starting empty: " + err.Error()
		a.col = task.NewCollection()
		return a
	}

	logger.Debug("loaded data file", "path", st.Path(), "tasks", len(tasks))
	a.col = task.NewCollectionFrom(tasks)
	return a
}

// LoadWarning returns the startup warning, or "" when the load was clean.
func (a *App) LoadWarning() string {
	return a.loadWarning
}

// AddTask validates and appends a new task, then persists.
func (a *App) AddTask(text, due string) (task.Task, error) {
	t, err := a.col.Add(text, due)
	if err != nil {
		return task.Task{}, err
	}
	a.logger.Info("added task", "id", t.ID, "due", t.Due)
	return t, a.save()
}

// UpdateTask rewrites a task's text and due date, then persists.
func (a *App) UpdateTask(id int, text, due string) (task.Task, error) {
	t, err := a.col.Update(id, text, due)
	if err != nil {
		return task.Task{}, err
	}
	a.logger.Info("updated task", "id", t.ID)
	return t, a.save()
}

// ToggleCompleted flips a task's completion flag, then persists.
func (a *App) ToggleCompleted(id int) (task.Task, error) {
	t, err := a.col.Toggle(id)
	if err != nil {
		return task.Task{}, err
	}
	a.logger.Info("toggled task", "id", t.ID, "completed", t.Completed)
	return t, a.save()
}

// DeleteTask removes a task, then persists.
func (a *App) DeleteTask(id int) error {
	if err := a.col.Remove(id); err != nil {
		return err
	}
	a.logger.Info("deleted task", "id", id)
	return a.save()
}

// Find resolves an id to a task copy, for "currently selected" lookups.
func (a *App) Find(id int) (task.Task, bool) {
	return a.col.Find(id)
}

// VisibleRows returns the filtered, sorted display rows.
func (a *App) VisibleRows(f view.Filter) []view.Row {
	return view.Rows(a.col.Tasks(), f)
}

// SummaryCounts returns (total, remaining) for the status line.
func (a *App) SummaryCounts() (total, remaining int) {
	return view.Counts(a.col.Tasks())
}

// Save persists the current collection explicitly. Mutations already save
// themselves; this exists for retry after a failed save.
func (a *App) Save() error {
	return a.save()
}

func (a *App) save() error {
	if err := a.st.Save(a.col.Tasks()); err != nil {
		a.logger.Error("save failed", "path", a.st.Path(), "err", err)
		return err
	}
	return nil
}
