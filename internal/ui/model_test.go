package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"taskboard/internal/api"
	"taskboard/internal/board"
	"taskboard/internal/client"
	"taskboard/internal/model"
)

type MockGateway struct {
	mock.Mock
}

func (g *MockGateway) ListActive(ctx context.Context) ([]api.Task, error) {
	args := g.Called()
	tasks, _ := args.Get(0).([]api.Task)
	return tasks, args.Error(1)
}

func (g *MockGateway) ListArchived(ctx context.Context) ([]api.Task, error) {
	args := g.Called()
	tasks, _ := args.Get(0).([]api.Task)
	return tasks, args.Error(1)
}

func (g *MockGateway) ListTags(ctx context.Context) ([]string, error) {
	args := g.Called()
	tags, _ := args.Get(0).([]string)
	return tags, args.Error(1)
}

func (g *MockGateway) Create(ctx context.Context, d client.Draft) (*api.Task, error) {
	args := g.Called(d)
	task, _ := args.Get(0).(*api.Task)
	return task, args.Error(1)
}

func (g *MockGateway) Update(ctx context.Context, id int64, req api.TaskUpdateRequest) (*api.Task, error) {
	args := g.Called(id, req)
	task, _ := args.Get(0).(*api.Task)
	return task, args.Error(1)
}

func (g *MockGateway) UpdateStatus(ctx context.Context, id int64, status model.Status) (*api.Task, error) {
	args := g.Called(id, status)
	task, _ := args.Get(0).(*api.Task)
	return task, args.Error(1)
}

func (g *MockGateway) Delete(ctx context.Context, id int64) (*api.Task, error) {
	args := g.Called(id)
	task, _ := args.Get(0).(*api.Task)
	return task, args.Error(1)
}

func (g *MockGateway) Reorder(ctx context.Context, status model.Status, ids []int64) ([]api.Task, error) {
	args := g.Called(status, ids)
	tasks, _ := args.Get(0).([]api.Task)
	return tasks, args.Error(1)
}

func (g *MockGateway) Restore(ctx context.Context, id int64) (*api.Task, error) {
	args := g.Called(id)
	task, _ := args.Get(0).(*api.Task)
	return task, args.Error(1)
}

func (g *MockGateway) PurgeArchived(ctx context.Context) (int64, error) {
	args := g.Called()
	return args.Get(0).(int64), args.Error(1)
}

var fixedNow = time.Date(2025, 6, 10, 9, 0, 0, 0, time.Local)

func newTestModel(gw Gateway, tasks ...api.Task) Model {
	state := board.NewState(8*time.Hour, board.LocaleFor(language.MustParse("ja-JP"))).WithTasks(tasks)
	m := NewModel(gw, state, nil).WithClock(func() time.Time { return fixedNow })
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

// run executes cmd and returns the messages it produces, expanding batches.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func str(s string) *string { return &s }

func order(i int) *int { return &i }

func TestCreate_BlankTitleIsRejectedWithoutRequest(t *testing.T) {
	gw := new(MockGateway)
	m := newTestModel(gw)

	m, _ = send(t, m, keyPress("n"))
	require.NotNil(t, m.form)
	m, cmd := send(t, m, keyPress("   "), keyPress("enter"), keyPress("enter"), keyPress("enter"), keyPress("enter"), keyPress("enter"))

	assert.Nil(t, cmd)
	assert.Equal(t, modeForm, m.mode)
	require.NotNil(t, m.form)
	assert.Equal(t, 0, m.form.step)
	assert.Contains(t, m.Status(), "title is required")
	gw.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreate_ValidTaskPostsClosesFormAndRefetches(t *testing.T) {
	gw := new(MockGateway)
	gw.On("Create", client.Draft{Title: "Buy milk", Tags: "errand", Status: "To Do"}).
		Return(&api.Task{ID: 1, Title: "Buy milk", Status: model.StatusToDo}, nil).Once()
	created := []api.Task{{ID: 1, Title: "Buy milk", Status: model.StatusToDo, Tags: str("errand")}}
	gw.On("ListActive").Return(created, nil).Once()
	gw.On("ListTags").Return([]string{"errand"}, nil).Once()
	gw.On("ListArchived").Return([]api.Task{}, nil).Once()
	m := newTestModel(gw)

	m, _ = send(t, m, keyPress("n"), keyPress("Buy milk"), keyPress("enter"), keyPress("enter"),
		keyPress("errand"), keyPress("enter"), keyPress("enter"))
	m, cmd := send(t, m, keyPress("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.form.submitting)

	msgs := run(cmd)
	require.Len(t, msgs, 1)
	m, cmd = send(t, m, msgs[0])
	assert.Nil(t, m.form)
	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, "", m.textInput.Value())

	for _, msg := range run(cmd) {
		var follow tea.Cmd
		m, follow = send(t, m, msg)
		for _, more := range run(follow) {
			m, _ = send(t, m, more)
		}
	}

	gw.AssertExpectations(t)
	assert.Equal(t, []string{"errand"}, m.State().Tags)
	todo, _ := m.view.Column(model.StatusToDo)
	assert.Equal(t, []int64{1}, todo.IDs())
}

func TestCreate_ServerErrorKeepsFormOpen(t *testing.T) {
	gw := new(MockGateway)
	gw.On("Create", mock.Anything).Return(nil, &client.APIError{StatusCode: 422, Detail: "Title must not be empty"}).Once()
	m := newTestModel(gw)

	m, _ = send(t, m, keyPress("a"), keyPress("Call mom"), keyPress("enter"), keyPress("enter"))
	m, cmd := send(t, m, keyPress("enter"))
	msgs := run(cmd)
	require.Len(t, msgs, 1)
	m, cmd = send(t, m, msgs[0])

	require.NotNil(t, m.form)
	assert.False(t, m.form.submitting)
	assert.Contains(t, m.Status(), "Title must not be empty")
	require.NotNil(t, cmd, "errors still re-fetch")
	gw.AssertExpectations(t)
}

func TestQuickTask_UsesToday(t *testing.T) {
	gw := new(MockGateway)
	gw.On("Create", client.Draft{Title: "Call mom", Status: "To Do", DueDate: "2025-06-10", Urgent: true}).
		Return(&api.Task{ID: 2, Title: "Call mom"}, nil).Once()
	m := newTestModel(gw)

	m, _ = send(t, m, keyPress("a"), keyPress("Call mom"), keyPress("enter"), keyPress("enter"), keyPress("y"))
	_, cmd := send(t, m, keyPress("enter"))
	run(cmd)

	gw.AssertExpectations(t)
}

func TestEdit_SendsFullUpdate(t *testing.T) {
	gw := new(MockGateway)
	task := api.Task{ID: 4, Title: "Old", Status: model.StatusToDo, Tags: str("work"), OrderIndex: order(1)}
	want := client.Draft{Title: "Old", Tags: "work", Status: "To Do"}.UpdateRequest()
	gw.On("Update", int64(4), want).Return(&task, nil).Once()
	m := newTestModel(gw, task)

	m, _ = send(t, m, keyPress("e"))
	require.NotNil(t, m.form)
	assert.Equal(t, "Old", m.textInput.Value())
	for range m.form.fields[:len(m.form.fields)-1] {
		m, _ = send(t, m, keyPress("enter"))
	}
	_, cmd := send(t, m, keyPress("enter"))
	run(cmd)

	gw.AssertExpectations(t)
}

func TestTagPickerAddsSavedTag(t *testing.T) {
	m := newTestModel(new(MockGateway))
	m.state = m.state.WithTags([]string{"home", "work"})

	m, _ = send(t, m, keyPress("n"), keyPress("Title"), keyPress("enter"), keyPress("enter"), keyPress("Home"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyCtrlA})
	assert.Equal(t, "Home", m.textInput.Value(), "duplicate ignoring case")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyCtrlA})
	assert.Equal(t, "Home, work", m.textInput.Value())
}

func TestAdvanceMovesToNextColumn(t *testing.T) {
	gw := new(MockGateway)
	tasks := []api.Task{
		{ID: 1, Title: "a", Status: model.StatusToDo, OrderIndex: order(1)},
		{ID: 2, Title: "b", Status: model.StatusToDo, OrderIndex: order(2)},
		{ID: 3, Title: "c", Status: model.StatusInProgress, OrderIndex: order(1)},
	}
	gw.On("UpdateStatus", int64(1), model.StatusInProgress).Return(&tasks[0], nil).Once()
	gw.On("Reorder", model.StatusToDo, []int64{2}).Return([]api.Task{}, nil).Once()
	gw.On("Reorder", model.StatusInProgress, []int64{3, 1}).Return([]api.Task{}, nil).Once()
	m := newTestModel(gw, tasks...)

	m, cmd := send(t, m, keyPress("enter"))
	msgs := run(cmd)

	require.Len(t, msgs, 1)
	result := msgs[0].(opResultMsg)
	assert.NoError(t, result.err)
	gw.AssertExpectations(t)
	_, cmd = send(t, m, result)
	assert.NotNil(t, cmd)
}

func TestAdvance_StatusFailureSkipsReorder(t *testing.T) {
	gw := new(MockGateway)
	tasks := []api.Task{{ID: 1, Title: "a", Status: model.StatusToDo}}
	gw.On("UpdateStatus", int64(1), model.StatusInProgress).Return(nil, errors.New("boom")).Once()
	m := newTestModel(gw, tasks...)

	_, cmd := send(t, m, keyPress("enter"))
	msgs := run(cmd)

	require.Len(t, msgs, 1)
	assert.Error(t, msgs[0].(opResultMsg).err)
	gw.AssertNotCalled(t, "Reorder", mock.Anything, mock.Anything)
}

func TestKeyboardDragReordersColumn(t *testing.T) {
	gw := new(MockGateway)
	tasks := []api.Task{
		{ID: 1, Title: "a", Status: model.StatusToDo, OrderIndex: order(1)},
		{ID: 2, Title: "b", Status: model.StatusToDo, OrderIndex: order(2)},
	}
	gw.On("Reorder", model.StatusToDo, []int64{2, 1}).Return([]api.Task{}, nil).Once()
	m := newTestModel(gw, tasks...)

	m, _ = send(t, m, keyPress("down"))
	m, cmd := send(t, m, keyPress(" "))
	require.True(t, m.drag.Active())
	assert.False(t, m.drag.Styled)
	m, _ = send(t, m, run(cmd)...)
	assert.True(t, m.drag.Styled)

	m, _ = send(t, m, keyPress("up"))
	assert.Equal(t, []int64{2, 1}, m.displayOrder(model.StatusToDo))
	m, cmd = send(t, m, keyPress(" "))

	assert.False(t, m.drag.Active())
	run(cmd)
	gw.AssertExpectations(t)
	gw.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestKeyboardDragCancel(t *testing.T) {
	m := newTestModel(new(MockGateway), api.Task{ID: 1, Title: "a", Status: model.StatusToDo})

	m, _ = send(t, m, keyPress(" "), keyPress("right"))
	assert.Equal(t, model.StatusInProgress, m.drag.Target)
	m, cmd := send(t, m, keyPress("esc"))

	assert.False(t, m.drag.Active())
	assert.Nil(t, cmd)
}

func TestMouseDragToOtherColumn(t *testing.T) {
	gw := new(MockGateway)
	tasks := []api.Task{
		{ID: 1, Title: "a", Status: model.StatusToDo, OrderIndex: order(1)},
		{ID: 2, Title: "b", Status: model.StatusInProgress, OrderIndex: order(1)},
	}
	gw.On("UpdateStatus", int64(1), model.StatusInProgress).Return(&tasks[0], nil).Once()
	gw.On("Reorder", model.StatusInProgress, []int64{1, 2}).Return([]api.Task{}, nil).Once()
	m := newTestModel(gw, tasks...)
	width := m.colWidth()

	m, _ = send(t, m, tea.MouseMsg{X: 3, Y: cardsTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = send(t, m, tea.MouseMsg{X: width + 3, Y: cardsTop, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	require.True(t, m.drag.Active())
	assert.Equal(t, []int64{1, 2}, m.drag.Preview)

	m, cmd := send(t, m, tea.MouseMsg{X: width + 3, Y: cardsTop, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.False(t, m.drag.Active())
	run(cmd)
	gw.AssertExpectations(t)
}

func TestMouseDoubleClickAdvances(t *testing.T) {
	gw := new(MockGateway)
	tasks := []api.Task{{ID: 1, Title: "a", Status: model.StatusInProgress}}
	gw.On("UpdateStatus", int64(1), model.StatusDone).Return(&tasks[0], nil).Once()
	gw.On("Reorder", model.StatusDone, []int64{1}).Return([]api.Task{}, nil).Once()
	m := newTestModel(gw, tasks...)
	x := m.colWidth() + 3
	click := tea.MouseMsg{X: x, Y: cardsTop + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}

	m, cmd := send(t, m, click)
	assert.Nil(t, cmd)
	_, cmd = send(t, m, click)
	run(cmd)

	gw.AssertExpectations(t)
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	gw := new(MockGateway)
	task := api.Task{ID: 7, Title: "Pay rent", Status: model.StatusToDo}
	gw.On("Delete", int64(7)).Return(&task, nil).Once()
	m := newTestModel(gw, task)

	m, cmd := send(t, m, keyPress("x"))
	assert.Nil(t, cmd)
	assert.Equal(t, modeConfirmDelete, m.mode)
	assert.Equal(t, "Task: Pay rent - It will move to the archived list.", m.confirmText)

	m, cmd = send(t, m, keyPress("y"))
	assert.Equal(t, modeNormal, m.mode)
	msgs := run(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, `Archived "Pay rent"`, msgs[0].(opResultMsg).status)
	gw.AssertExpectations(t)
}

func TestDeleteCancelled(t *testing.T) {
	gw := new(MockGateway)
	m := newTestModel(gw, api.Task{ID: 7, Title: "Pay rent", Status: model.StatusToDo})

	m, _ = send(t, m, keyPress("x"), keyPress("esc"))

	assert.Equal(t, modeNormal, m.mode)
	gw.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestArchiveRestoreAndPurge(t *testing.T) {
	gw := new(MockGateway)
	archived := api.Task{ID: 9, Title: "Old", Status: model.StatusDone, DeletedAt: str("2025-06-09T10:00:00Z")}
	gw.On("ListArchived").Return([]api.Task{archived}, nil)
	gw.On("Restore", int64(9)).Return(&archived, nil).Once()
	gw.On("PurgeArchived").Return(int64(1), nil).Once()
	m := newTestModel(gw)

	m, cmd := send(t, m, keyPress("v"))
	assert.True(t, m.State().ShowArchived)
	m, _ = send(t, m, run(cmd)...)
	assert.Equal(t, 1, m.view.Archived.Count)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusArchive, m.focus)
	m, cmd = send(t, m, keyPress("R"))
	run(cmd)

	m, _ = send(t, m, keyPress("P"))
	assert.Equal(t, modeConfirmPurge, m.mode)
	_, cmd = send(t, m, keyPress("y"))
	msgs := run(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Removed 1 archived tasks", msgs[0].(opResultMsg).status)
	gw.AssertExpectations(t)
}

func TestFilterAndSortKeys(t *testing.T) {
	m := newTestModel(new(MockGateway),
		api.Task{ID: 1, Title: "alpha", Status: model.StatusToDo},
		api.Task{ID: 2, Title: "beta", Status: model.StatusToDo},
	)

	m, _ = send(t, m, keyPress("/"), keyPress("bet"))
	assert.Equal(t, "bet", m.State().Query)
	assert.Equal(t, "Showing 1 of 2", m.view.FilterStatus)
	m, _ = send(t, m, keyPress("enter"), keyPress("c"))
	assert.Equal(t, "", m.State().Query)

	m, _ = send(t, m, keyPress("s"))
	assert.Equal(t, board.SortDueAsc, m.State().SortFor(model.StatusToDo))
}

func TestTimersAndLoadErrors(t *testing.T) {
	gw := new(MockGateway)
	gw.On("ListActive").Return(nil, errors.New("connection refused")).Once()
	m := newTestModel(gw)

	m, cmd := send(t, m, TickMsg{})
	assert.Nil(t, cmd)
	m, cmd = send(t, m, RefetchMsg{})
	m, _ = send(t, m, run(cmd)...)

	assert.Contains(t, m.Status(), "Failed to load tasks: connection refused")
	assert.Error(t, m.err)
	gw.AssertExpectations(t)
}

func TestViewRendersBoard(t *testing.T) {
	m := newTestModel(new(MockGateway),
		api.Task{ID: 1, Title: "Write report", Status: model.StatusToDo, Tags: str("work"), Urgent: true},
	)

	out := m.View()

	assert.Contains(t, out, "Task Board")
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "#work")
	assert.Contains(t, out, "No due date")
	assert.Equal(t, "Loading...", NewModel(new(MockGateway), m.state, nil).View())
}

func TestSnapshot(t *testing.T) {
	state := board.NewState(8*time.Hour, board.LocaleFor(language.MustParse("ja-JP"))).WithTasks([]api.Task{
		{ID: 1, Title: "Write report", Status: model.StatusToDo, Tags: str("work"), Urgent: true, DueDate: str("2025-06-01")},
	})

	out := Snapshot(board.Project(state, fixedNow))

	assert.True(t, strings.HasPrefix(out, "To Do (1) [Manual]\n"))
	assert.Contains(t, out, "  - Write report [urgent, overdue]\n")
	assert.Contains(t, out, "    Tags: work | Due: 2025-06-01\n")
	assert.Contains(t, out, "Archived (0)\n  No archived tasks yet.\n")
}
