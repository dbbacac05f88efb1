// Package ui provides the interactive terminal interface.
//
// The model is a thin presentation layer: it owns only cursor, filter, and
// form state, and drives every data change through the app facade. After
// each mutation it re-queries the projection, so the list on screen is
// always a fresh sort/filter of the collection.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todotui/internal/app"
	"todotui/internal/task"
	"todotui/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
)

// Model is the bubbletea model for the task list.
type Model struct {
	app    *app.App
	filter view.Filter

	rows   []view.Row
	cursor int
	mode   mode

	// Add/edit form: task text plus optional due date.
	textInput textinput.Model
	dueInput  textinput.Model
	editID    int // task being edited, 0 in add mode

	deleteID   int
	deleteText string

	status  string
	isError bool
	width   int
}

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, a *app.App, initial view.Filter) error {
	program := tea.NewProgram(newModel(a, initial), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func newModel(a *app.App, initial view.Filter) Model {
	ti := textinput.New()
	ti.Placeholder = "Task text"
	ti.CharLimit = 256
	ti.Width = 40
	ti.Prompt = "Task: "

	di := textinput.New()
	di.Placeholder = "YYYY-MM-DD (optional)"
	di.CharLimit = 10
	di.Width = 20
	di.Prompt = "Due:  "

	m := Model{
		app:       a,
		filter:    initial,
		textInput: ti,
		dueInput:  di,
	}
	m.refresh()

	if warn := a.LoadWarning(); warn != "" {
		m.status = warn
		m.isError = true
	} else {
		m.status = "a add  enter edit  space toggle  x delete  tab filter  q quit"
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.textInput.Width = min(msg.Width-10, 60)
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd, modeEdit:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg.String())
		default:
			return m.updateList(msg.String())
		}
	}
	return m, nil
}

func (m Model) updateList(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "a":
		m.mode = modeAdd
		m.editID = 0
		m.textInput.SetValue("")
		m.dueInput.SetValue("")
		m.focusText()
		m.setStatus("Add: enter save, esc cancel, tab switch field")
		return m, textinput.Blink

	case "enter", "e":
		row, ok := m.selected()
		if !ok {
			m.setStatus("nothing selected")
			return m, nil
		}
		t, ok := m.app.Find(row.ID)
		if !ok {
			m.setError("task vanished, refreshing")
			m.refresh()
			return m, nil
		}
		m.mode = modeEdit
		m.editID = t.ID
		m.textInput.SetValue(t.Text)
		m.dueInput.SetValue(t.Due)
		m.focusText()
		m.setStatus(fmt.Sprintf("Edit #%d: enter save, esc cancel", t.ID))
		return m, textinput.Blink

	case " ":
		row, ok := m.selected()
		if !ok {
			m.setStatus("nothing selected")
			return m, nil
		}
		t, err := m.app.ToggleCompleted(row.ID)
		if err != nil {
			m.setError(err.Error())
		} else if t.Completed {
			m.setStatus(fmt.Sprintf("completed %q", t.Text))
		} else {
			m.setStatus(fmt.Sprintf("reopened %q", t.Text))
		}
		m.refresh()

	case "x", "delete":
		row, ok := m.selected()
		if !ok {
			m.setStatus("nothing selected")
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.deleteID = row.ID
		m.deleteText = row.Text
		m.setStatus(fmt.Sprintf("delete %q? y/n", row.Text))

	case "tab", "f":
		m.filter = nextFilter(m.filter)
		m.refresh()
	case "1":
		m.filter = view.FilterAll
		m.refresh()
	case "2":
		m.filter = view.FilterActive
		m.refresh()
	case "3":
		m.filter = view.FilterDone
		m.refresh()

	case "s":
		if err := m.app.Save(); err != nil {
			m.setError(err.Error())
		} else {
			m.setStatus("saved")
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.setStatus("cancelled")
		return m, nil

	case "tab", "shift+tab", "down", "up":
		if m.textInput.Focused() {
			m.focusDue()
		} else {
			m.focusText()
		}
		return m, textinput.Blink

	case "enter":
		text := m.textInput.Value()
		due := m.dueInput.Value()

		var err error
		if m.mode == modeEdit {
			_, err = m.app.UpdateTask(m.editID, text, due)
		} else {
			_, err = m.app.AddTask(text, due)
		}
		if err != nil {
			m.setError(err.Error())
			if errors.Is(err, task.ErrEmptyText) || errors.Is(err, task.ErrBadDate) {
				// Keep the form open so the input can be corrected.
				return m, nil
			}
			// Not-found or save failure: show it from the list. A failed
			// save keeps the change in memory, so the list reflects it.
			m.mode = modeList
			m.refresh()
			return m, nil
		}

		m.mode = modeList
		if m.editID != 0 {
			m.setStatus("task updated")
		} else {
			m.setStatus("task added")
		}
		m.refresh()
		return m, nil

	default:
		var cmd tea.Cmd
		if m.textInput.Focused() {
			m.textInput, cmd = m.textInput.Update(msg)
		} else {
			m.dueInput, cmd = m.dueInput.Update(msg)
		}
		return m, cmd
	}
}

func (m Model) updateConfirmDelete(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		if err := m.app.DeleteTask(m.deleteID); err != nil {
			m.setError(err.Error())
		} else {
			m.setStatus(fmt.Sprintf("deleted %q", m.deleteText))
		}
		m.mode = modeList
		m.refresh()
	case "n", "N", "esc":
		m.mode = modeList
		m.setStatus("kept it")
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("todotui"))
	b.WriteString("\n")
	b.WriteString(m.filterLine())
	b.WriteString("\n\n")

	switch m.mode {
	case modeAdd, modeEdit:
		if m.mode == modeEdit {
			b.WriteString(promptStyle.Render(fmt.Sprintf("Edit task #%d", m.editID)))
		} else {
			b.WriteString(promptStyle.Render("New task"))
		}
		b.WriteString("\n\n")
		b.WriteString(m.textInput.View())
		b.WriteString("\n")
		b.WriteString(m.dueInput.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter save · tab switch field · esc cancel"))
	default:
		b.WriteString(m.listView())
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m Model) listView() string {
	if len(m.rows) == 0 {
		return helpStyle.Render("No tasks. Press a to add one.") + "\n"
	}

	var b strings.Builder
	for i, row := range m.rows {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		line := row.Text
		if row.Due != "" {
			line += "  " + dueStyle.Render("("+row.Due+")")
		}
		if row.Status == view.StatusDone {
			line = doneStyle.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}
	return b.String()
}

func (m Model) filterLine() string {
	parts := make([]string, 0, 3)
	for _, f := range []view.Filter{view.FilterAll, view.FilterActive, view.FilterDone} {
		label := string(f)
		if f == m.filter {
			parts = append(parts, filterActiveStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, filterStyle.Render(" "+label+" "))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) statusLine() string {
	total, remaining := m.app.SummaryCounts()
	counts := fmt.Sprintf("%d tasks / %d remaining", total, remaining)

	msg := m.status
	if m.isError {
		msg = errorStyle.Render(msg)
	}
	return statusStyle.Render(counts + "  ·  " + msg)
}

func (m *Model) refresh() {
	m.rows = m.app.VisibleRows(m.filter)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (view.Row, bool) {
	if len(m.rows) == 0 || m.cursor >= len(m.rows) {
		return view.Row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.isError = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.isError = true
}

func (m *Model) focusText() {
	m.textInput.Focus()
	m.dueInput.Blur()
}

func (m *Model) focusDue() {
	m.textInput.Blur()
	m.dueInput.Focus()
}

func nextFilter(f view.Filter) view.Filter {
	switch f {
	case view.FilterAll:
		return view.FilterActive
	case view.FilterActive:
		return view.FilterDone
	default:
		return view.FilterAll
	}
}
