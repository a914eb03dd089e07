package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/api"
	"taskboard/internal/board"
	"taskboard/internal/client"
	"taskboard/internal/model"
)

// Gateway is the server API the board needs. *client.Client implements it.
type Gateway interface {
	ListActive(ctx context.Context) ([]api.Task, error)
	ListArchived(ctx context.Context) ([]api.Task, error)
	ListTags(ctx context.Context) ([]string, error)
	Create(ctx context.Context, d client.Draft) (*api.Task, error)
	Update(ctx context.Context, id int64, req api.TaskUpdateRequest) (*api.Task, error)
	UpdateStatus(ctx context.Context, id int64, status model.Status) (*api.Task, error)
	Delete(ctx context.Context, id int64) (*api.Task, error)
	Reorder(ctx context.Context, status model.Status, ids []int64) ([]api.Task, error)
	Restore(ctx context.Context, id int64) (*api.Task, error)
	PurgeArchived(ctx context.Context) (int64, error)
}

// TickMsg re-renders time dependent labels without touching the network.
type TickMsg struct{}

// RefetchMsg reloads the board from the server.
type RefetchMsg struct{}

type tasksLoadedMsg struct {
	tasks []api.Task
	err   error
}

type archivedLoadedMsg struct {
	tasks []api.Task
	err   error
}

type tagsLoadedMsg struct {
	tags []string
	err  error
}

// opResultMsg ends every mutation. The board is re-fetched whatever the
// outcome.
type opResultMsg struct {
	action   string
	status   string
	err      error
	fromForm bool
	tags     bool
}

type dragStyledMsg struct {
	taskID int64
}

func (m Model) loadTasksCmd() tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		tasks, err := gw.ListActive(context.Background())
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m Model) loadArchivedCmd() tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		tasks, err := gw.ListArchived(context.Background())
		return archivedLoadedMsg{tasks: tasks, err: err}
	}
}

func (m Model) loadTagsCmd() tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		tags, err := gw.ListTags(context.Background())
		return tagsLoadedMsg{tags: tags, err: err}
	}
}

func (m Model) createTaskCmd(d client.Draft) tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		task, err := gw.Create(context.Background(), d)
		if err != nil {
			return opResultMsg{action: "create task", err: err, fromForm: true}
		}
		return opResultMsg{action: "create task", status: fmt.Sprintf("Created %q", task.Title), fromForm: true, tags: true}
	}
}

func (m Model) updateTaskCmd(id int64, req api.TaskUpdateRequest) tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		task, err := gw.Update(context.Background(), id, req)
		if err != nil {
			return opResultMsg{action: "update task", err: err, fromForm: true}
		}
		return opResultMsg{action: "update task", status: fmt.Sprintf("Saved %q", task.Title), fromForm: true, tags: true}
	}
}

func (m Model) deleteTaskCmd(id int64, archived bool) tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		task, err := gw.Delete(context.Background(), id)
		if err != nil {
			return opResultMsg{action: "delete task", err: err}
		}
		if archived {
			return opResultMsg{action: "delete task", status: fmt.Sprintf("Deleted %q", task.Title)}
		}
		return opResultMsg{action: "delete task", status: fmt.Sprintf("Archived %q", task.Title)}
	}
}

func (m Model) restoreTaskCmd(id int64) tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		task, err := gw.Restore(context.Background(), id)
		if err != nil {
			return opResultMsg{action: "restore task", err: err}
		}
		return opResultMsg{action: "restore task", status: fmt.Sprintf("Restored %q", task.Title)}
	}
}

func (m Model) purgeArchivedCmd() tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		n, err := gw.PurgeArchived(context.Background())
		if err != nil {
			return opResultMsg{action: "purge archive", err: err}
		}
		return opResultMsg{action: "purge archive", status: fmt.Sprintf("Removed %d archived tasks", n)}
	}
}

// applyPlanCmd runs a drop: the status change first, then the reorders.
// A failed status change skips the reorders.
func (m Model) applyPlanCmd(plan board.DropPlan) tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		ctx := context.Background()
		if plan.ChangesStatus() {
			if _, err := gw.UpdateStatus(ctx, plan.TaskID, plan.To); err != nil {
				return opResultMsg{action: "update task status", err: err}
			}
		}
		for _, r := range plan.Reorders {
			if _, err := gw.Reorder(ctx, r.Status, r.IDs); err != nil {
				return opResultMsg{action: "reorder tasks", err: err}
			}
		}
		if plan.ChangesStatus() {
			return opResultMsg{action: "move task", status: "Moved to " + string(plan.To)}
		}
		return opResultMsg{action: "reorder tasks"}
	}
}

func styleDragCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		return dragStyledMsg{taskID: id}
	}
}
