package task

import (
	"fmt"
	"time"
)

// Collection is the authoritative in-memory task list. It owns every Task
// exclusively; accessors hand out copies, never aliased slices.
//
// Insertion order is preserved so a save/load cycle reproduces the file
// byte-for-byte apart from content changes. Display order is the view
// package's concern.
type Collection struct {
	tasks []Task

	// now is swappable for deterministic tests.
	now func() time.Time
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{now: time.Now}
}

// NewCollectionFrom seeds a collection with already-validated tasks,
// typically the result of a store load.
func NewCollectionFrom(tasks []Task) *Collection {
	c := NewCollection()
	c.tasks = append(c.tasks, tasks...)
	return c
}

// Len returns the number of tasks.
func (c *Collection) Len() int {
	return len(c.tasks)
}

// Tasks returns a copy of the task list in insertion order.
func (c *Collection) Tasks() []Task {
	out := make([]Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// NextID returns 1 + max(existing ids), or 1 for an empty collection.
//
// Because the id is recomputed from the current maximum, deleting the
// highest-numbered task frees its id for the next add. Intentional; see
// the package doc.
func (c *Collection) NextID() int {
	maxID := 0
	for _, t := range c.tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID + 1
}

// Add validates text and due, then appends a new incomplete task with a
// fresh id. Returns ErrEmptyText or ErrBadDate on invalid input.
func (c *Collection) Add(text, due string) (Task, error) {
	text, due, err := normalize(text, due)
	if err != nil {
		return Task{}, err
	}
	t := Task{
		ID:        c.NextID(),
		Text:      text,
		Due:       due,
		CreatedAt: c.now().Truncate(time.Second),
	}
	c.tasks = append(c.tasks, t)
	return t, nil
}

// Update replaces the text and due date of the task with the given id.
// Completion state and creation time are untouched.
func (c *Collection) Update(id int, text, due string) (Task, error) {
	text, due, err := normalize(text, due)
	if err != nil {
		return Task{}, err
	}
	i, err := c.index(id)
	if err != nil {
		return Task{}, err
	}
	c.tasks[i].Text = text
	c.tasks[i].Due = due
	return c.tasks[i], nil
}

// Toggle flips the completed flag of the task with the given id.
func (c *Collection) Toggle(id int) (Task, error) {
	i, err := c.index(id)
	if err != nil {
		return Task{}, err
	}
	c.tasks[i].Completed = !c.tasks[i].Completed
	return c.tasks[i], nil
}

// Remove deletes the task with the given id.
func (c *Collection) Remove(id int) error {
	i, err := c.index(id)
	if err != nil {
		return err
	}
	c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
	return nil
}

// Find returns a copy of the task with the given id.
func (c *Collection) Find(id int) (Task, bool) {
	i, err := c.index(id)
	if err != nil {
		return Task{}, false
	}
	return c.tasks[i], true
}

func (c *Collection) index(id int) (int, error) {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: id %d", ErrNotFound, id)
}
