package ui

import (
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/board"
	"taskboard/internal/model"
)

const doubleClickWindow = 400 * time.Millisecond

type click struct {
	id int64
	at time.Time
}

// press is a card under the mouse button that has not started moving yet.
type press struct {
	id     int64
	status model.Status
}

func (m Model) updateKeyboardDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	target := m.drag.Target
	ci := slices.Index(model.Statuses, target)
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.drag = m.drag.End()
		m.statusLine = ""
		return m, nil
	case key.Matches(msg, m.keys.Grab), key.Matches(msg, m.keys.Confirm):
		return m.dropOn(target)
	case key.Matches(msg, m.keys.Left):
		if ci > 0 {
			m.hoverAt(model.Statuses[ci-1], -1)
		}
	case key.Matches(msg, m.keys.Right):
		if ci >= 0 && ci < len(model.Statuses)-1 {
			m.hoverAt(model.Statuses[ci+1], -1)
		}
	case key.Matches(msg, m.keys.Up):
		if idx := m.dragIndex(); idx > 0 {
			m.hoverAt(target, idx-1)
		}
	case key.Matches(msg, m.keys.Down):
		order := m.displayOrder(target)
		if idx := m.dragIndex(); idx >= 0 && idx < len(order)-1 {
			m.hoverAt(target, idx+1)
		}
	}
	return m, nil
}

// hoverAt previews the dragged card at index in the column of status.
func (m *Model) hoverAt(status model.Status, index int) {
	manual := m.state.SortFor(status) == board.SortManual
	m.drag = m.drag.OverAt(status, m.displayOrder(status), index, manual)
	m.activeColumn = slices.Index(model.Statuses, status)
}

// dragIndex is the dragged card's position in the target column as shown.
func (m Model) dragIndex() int {
	if idx := m.drag.PreviewIndex(); idx >= 0 {
		return idx
	}
	return slices.Index(m.displayOrder(m.drag.Target), m.drag.TaskID)
}

func (m Model) dropOn(target model.Status) (tea.Model, tea.Cmd) {
	plan, ok := m.drag.Drop(target, m.view.ColumnOrders(), m.state.Sort)
	m.drag = m.drag.End()
	m.statusLine = ""
	if !ok {
		return m, nil
	}
	return m, m.applyPlanCmd(plan)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		ci, row, ok := m.cardAt(msg.X, msg.Y)
		if !ok {
			m.pressed = press{}
			return m, nil
		}
		card := m.columnCards(ci)[row]
		m.activeColumn, m.row = ci, row
		now := m.now()
		if m.lastClick.id == card.ID && now.Sub(m.lastClick.at) <= doubleClickWindow {
			m.lastClick = click{}
			m.pressed = press{}
			return m, m.advanceCmd(card)
		}
		m.lastClick = click{id: card.ID, at: now}
		m.pressed = press{id: card.ID, status: card.Status}
		return m, nil
	case tea.MouseActionMotion:
		if !m.drag.Active() {
			if m.pressed.id == 0 || msg.Button != tea.MouseButtonLeft {
				return m, nil
			}
			m.drag = m.drag.Start(m.pressed.id, m.pressed.status)
			m.pressed = press{}
			m.hoverMouse(msg.X, msg.Y)
			return m, styleDragCmd(m.drag.TaskID)
		}
		m.hoverMouse(msg.X, msg.Y)
		return m, nil
	case tea.MouseActionRelease:
		m.pressed = press{}
		if !m.drag.Active() {
			return m, nil
		}
		ci, ok := m.columnAt(msg.X, msg.Y)
		if !ok {
			m.drag = m.drag.End()
			return m, m.loadTasksCmd()
		}
		m.hoverMouse(msg.X, msg.Y)
		return m.dropOn(model.Statuses[ci])
	}
	return m, nil
}

func (m *Model) hoverMouse(x, y int) {
	ci, ok := m.columnAt(x, y)
	if !ok {
		return
	}
	status := model.Statuses[ci]
	manual := m.state.SortFor(status) == board.SortManual
	m.drag = m.drag.Over(status, m.cardBoxes(ci), float64(y), manual)
	m.activeColumn = ci
}
