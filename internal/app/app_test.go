package app

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"todotui/internal/store"
	"todotui/internal/task"
	"todotui/internal/view"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestApp(t *testing.T) (*App, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todo_data.json")
	return New(store.New(path), quietLogger()), path
}

func TestMutationsPersistImmediately(t *testing.T) {
	a, path := newTestApp(t)

	added, err := a.AddTask("persist me", "2099-01-01")
	if err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}

	// A fresh store sees the task without any explicit save call.
	reloaded, err := store.New(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(reloaded) != 1 || reloaded[0].ID != added.ID || reloaded[0].Due != "2099-01-01" {
		t.Errorf("reloaded = %+v", reloaded)
	}

	if _, err := a.ToggleCompleted(added.ID); err != nil {
		t.Fatalf("ToggleCompleted() error = %v", err)
	}
	reloaded, _ = store.New(path).Load()
	if !reloaded[0].Completed {
		t.Error("toggle was not persisted")
	}

	if err := a.DeleteTask(added.ID); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	reloaded, _ = store.New(path).Load()
	if len(reloaded) != 0 {
		t.Errorf("delete was not persisted, %d tasks remain", len(reloaded))
	}
}

func TestValidationErrorsDoNotPersist(t *testing.T) {
	a, path := newTestApp(t)

	if _, err := a.AddTask("", "2099-01-01"); !errors.Is(err, task.ErrEmptyText) {
		t.Errorf("AddTask empty text: error = %v, want ErrEmptyText", err)
	}
	if _, err := a.AddTask("x", "not-a-date"); !errors.Is(err, task.ErrBadDate) {
		t.Errorf("AddTask bad date: error = %v, want ErrBadDate", err)
	}
	if _, err := a.UpdateTask(42, "x", ""); !errors.Is(err, task.ErrNotFound) {
		t.Errorf("UpdateTask missing id: error = %v, want ErrNotFound", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("rejected mutations should not create the data file")
	}
}

func TestSaveFailureKeepsMutationInMemory(t *testing.T) {
	// Point the store at a directory: saves fail, but the in-memory
	// mutation must survive so the user can retry.
	a := New(store.New(t.TempDir()), quietLogger())

	added, err := a.AddTask("still here", "")
	var saveErr *store.SaveError
	if !errors.As(err, &saveErr) {
		t.Fatalf("AddTask() error = %v, want *SaveError", err)
	}
	if got, ok := a.Find(added.ID); !ok || got.Text != "still here" {
		t.Errorf("mutation lost after failed save: %+v, %v", got, ok)
	}

	if err := a.Save(); !errors.As(err, &saveErr) {
		t.Errorf("retry Save() error = %v, want *SaveError", err)
	}
}

func TestStartupFallsBackToEmptyOnBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo_data.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	a := New(store.New(path), quietLogger())
	if a.LoadWarning() == "" {
		t.Error("expected a load warning for a corrupt file")
	}
	if total, _ := a.SummaryCounts(); total != 0 {
		t.Errorf("total = %d, want empty collection", total)
	}

	// The corrupt file survives until the next explicit mutation.
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "not json" {
		t.Errorf("startup modified the broken file: %q, %v", data, err)
	}

	if _, err := a.AddTask("fresh start", ""); err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}
	reloaded, err := store.New(path).Load()
	if err != nil {
		t.Fatalf("Load() after overwrite error = %v", err)
	}
	if len(reloaded) != 1 {
		t.Errorf("reloaded = %d tasks, want 1", len(reloaded))
	}
}

func TestStartupMissingFileIsClean(t *testing.T) {
	a, _ := newTestApp(t)
	if a.LoadWarning() != "" {
		t.Errorf("unexpected warning: %q", a.LoadWarning())
	}
}

func TestQueries(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := a.AddTask("open", ""); err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}
	done, err := a.AddTask("done", "")
	if err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}
	if _, err := a.ToggleCompleted(done.ID); err != nil {
		t.Fatalf("ToggleCompleted() error = %v", err)
	}

	if rows := a.VisibleRows(view.FilterActive); len(rows) != 1 || rows[0].Text != "open" {
		t.Errorf("active rows = %+v", rows)
	}
	if rows := a.VisibleRows(view.FilterDone); len(rows) != 1 || rows[0].Text != "done" {
		t.Errorf("done rows = %+v", rows)
	}
	total, remaining := a.SummaryCounts()
	if total != 2 || remaining != 1 {
		t.Errorf("SummaryCounts() = (%d, %d), want (2, 1)", total, remaining)
	}
}
