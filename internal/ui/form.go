package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/board"
	"taskboard/internal/client"
	"taskboard/internal/model"
)

type formKind int

const (
	formNew formKind = iota
	formQuick
	formEdit
)

var formLabels = map[formKind]string{
	formNew:   "New task",
	formQuick: "Quick task",
	formEdit:  "Edit task",
}

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldTags
	fieldDueDate
	fieldUrgent
	fieldStatus
)

var fieldNames = map[formField]string{
	fieldTitle:       "title",
	fieldDescription: "description",
	fieldTags:        "tags",
	fieldDueDate:     "due date",
	fieldUrgent:      "urgent",
	fieldStatus:      "status",
}

var fieldPlaceholders = map[formField]string{
	fieldTitle:       "Title",
	fieldDescription: "Description",
	fieldTags:        "Tags (comma separated)",
	fieldDueDate:     "Due date (YYYY-MM-DD)",
	fieldUrgent:      "Urgent? (y/n)",
	fieldStatus:      "To Do | In Progress | Done",
}

func fieldsFor(kind formKind) []formField {
	switch kind {
	case formQuick:
		return []formField{fieldTitle, fieldTags, fieldUrgent}
	case formEdit:
		return []formField{fieldTitle, fieldDescription, fieldTags, fieldDueDate, fieldUrgent, fieldStatus}
	}
	return []formField{fieldTitle, fieldDescription, fieldTags, fieldDueDate, fieldUrgent}
}

type taskForm struct {
	kind       formKind
	taskID     int64
	fields     []formField
	step       int
	draft      client.Draft
	tagPick    int
	submitting bool
}

func (f *taskForm) field() formField {
	return f.fields[f.step]
}

func (f *taskForm) value(field formField) string {
	switch field {
	case fieldTitle:
		return f.draft.Title
	case fieldDescription:
		return f.draft.Description
	case fieldTags:
		return f.draft.Tags
	case fieldDueDate:
		return f.draft.DueDate
	case fieldUrgent:
		if f.draft.Urgent {
			return "yes"
		}
		return "no"
	case fieldStatus:
		return f.draft.Status
	}
	return ""
}

func (f *taskForm) set(field formField, value string) {
	switch field {
	case fieldTitle:
		f.draft.Title = value
	case fieldDescription:
		f.draft.Description = value
	case fieldTags:
		f.draft.Tags = value
	case fieldDueDate:
		f.draft.DueDate = value
	case fieldUrgent:
		f.draft.Urgent = parseYes(value)
	case fieldStatus:
		f.draft.Status = value
	}
}

func parseYes(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "y", "yes", "true", "1":
		return true
	}
	return false
}

func (m *Model) startForm(kind formKind, draft client.Draft, taskID int64) tea.Cmd {
	m.form = &taskForm{
		kind:    kind,
		taskID:  taskID,
		fields:  fieldsFor(kind),
		draft:   draft,
		tagPick: -1,
	}
	m.mode = modeForm
	m.loadFormStep()
	m.textInput.Focus()
	return textinput.Blink
}

func (m *Model) closeForm() {
	m.form = nil
	m.mode = modeNormal
	m.textInput.Reset()
	m.textInput.Blur()
}

func (m *Model) loadFormStep() {
	if m.form == nil {
		return
	}
	field := m.form.field()
	m.textInput.Placeholder = fieldPlaceholders[field]
	m.textInput.SetValue(m.form.value(field))
	m.textInput.CursorEnd()
	m.statusLine = fmt.Sprintf("%s (%d/%d) - %s", formLabels[m.form.kind], m.form.step+1, len(m.form.fields), fieldNames[field])
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeNormal
		return m, nil
	}
	if m.form.submitting {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Cancel):
			m.closeForm()
			m.statusLine = ""
			return m, nil
		case key.Matches(keyMsg, m.keys.Confirm):
			m.form.set(m.form.field(), m.textInput.Value())
			if m.form.step < len(m.form.fields)-1 {
				m.form.step++
				m.loadFormStep()
				return m, nil
			}
			return m.submitForm()
		case m.form.field() == fieldUrgent && (keyMsg.String() == "y" || keyMsg.String() == "n"):
			if keyMsg.String() == "y" {
				m.textInput.SetValue("yes")
			} else {
				m.textInput.SetValue("no")
			}
			m.textInput.CursorEnd()
			return m, nil
		case m.form.field() == fieldTags && key.Matches(keyMsg, m.keys.NextTag):
			if len(m.state.Tags) > 0 {
				m.form.tagPick = (m.form.tagPick + 1) % len(m.state.Tags)
				m.statusLine = fmt.Sprintf("Saved tag: %s (ctrl+a to add)", m.state.Tags[m.form.tagPick])
			} else {
				m.statusLine = "No saved tags yet"
			}
			return m, nil
		case m.form.field() == fieldTags && key.Matches(keyMsg, m.keys.AddTag):
			if m.form.tagPick >= 0 && m.form.tagPick < len(m.state.Tags) {
				m.textInput.SetValue(board.AddTagToInput(m.textInput.Value(), m.state.Tags[m.form.tagPick]))
				m.textInput.CursorEnd()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	form := m.form
	draft := form.draft
	if form.kind == formQuick {
		draft.Status = string(model.StatusToDo)
		draft.DueDate = board.Today(m.now())
	}
	if err := draft.Validate(); err != nil {
		m.statusLine = err.Error()
		if strings.TrimSpace(draft.Title) == "" {
			form.step = 0
			m.loadFormStep()
			m.statusLine = err.Error()
		}
		return m, nil
	}

	form.submitting = true
	m.statusLine = "Saving..."
	if form.kind == formEdit {
		return m, m.updateTaskCmd(form.taskID, draft.UpdateRequest())
	}
	return m, m.createTaskCmd(draft)
}
