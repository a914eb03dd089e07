// Package ui is the terminal board.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/board"
	"taskboard/internal/client"
	"taskboard/internal/logger"
	"taskboard/internal/model"
)

type inputMode int

const (
	modeNormal inputMode = iota
	modeFilter
	modeForm
	modeConfirmDelete
	modeConfirmPurge
)

type focusArea int

const (
	focusBoard focusArea = iota
	focusArchive
)

type Model struct {
	gw  Gateway
	log *logger.Logger
	now func() time.Time

	state board.State
	view  board.BoardView

	activeColumn int
	row          int
	focus        focusArea
	archiveRow   int

	drag      board.Drag
	pressed   press
	lastClick click

	mode          inputMode
	form          *taskForm
	pendingDelete int64
	confirmText   string
	textInput     textinput.Model
	help          help.Model

	statusLine string
	err        error

	width  int
	height int

	keys keyMap
}

func NewModel(gw Gateway, state board.State, log *logger.Logger) Model {
	if log == nil {
		log = logger.NewNop()
	}
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Prompt = "> "

	m := Model{
		gw:        gw,
		log:       log.WithComponent("board"),
		now:       time.Now,
		state:     state,
		textInput: ti,
		help:      help.New(),
		keys:      newKeyMap(),
	}
	m.refreshView()
	return m
}

// WithClock replaces the time source.
func (m Model) WithClock(now func() time.Time) Model {
	m.now = now
	m.refreshView()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadTasksCmd(), m.loadTagsCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = max(20, msg.Width/2)
		return m, nil
	case tasksLoadedMsg:
		if msg.err != nil {
			m.fail("load tasks", msg.err)
			return m, nil
		}
		m.setState(m.state.WithTasks(msg.tasks))
		return m, m.loadArchivedCmd()
	case archivedLoadedMsg:
		if msg.err != nil {
			m.fail("load archived tasks", msg.err)
			return m, nil
		}
		m.setState(m.state.WithArchived(msg.tasks))
		return m, nil
	case tagsLoadedMsg:
		if msg.err != nil {
			m.fail("load tags", msg.err)
			return m, nil
		}
		m.state = m.state.WithTags(msg.tags)
		return m, nil
	case opResultMsg:
		return m.handleResult(msg)
	case TickMsg:
		m.refreshView()
		return m, nil
	case RefetchMsg:
		return m, m.loadTasksCmd()
	case dragStyledMsg:
		if m.drag.TaskID == msg.taskID {
			m.drag = m.drag.MarkStyled()
		}
		return m, nil
	case tea.MouseMsg:
		if m.mode != modeNormal {
			return m, nil
		}
		return m.handleMouse(msg)
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeFilter:
		return m.updateFilter(msg)
	case modeConfirmDelete, modeConfirmPurge:
		return m.updateConfirm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.drag.Active() {
		return m.updateKeyboardDrag(keyMsg)
	}
	if m.focus == focusArchive {
		if next, cmd, handled := m.updateArchiveKeys(keyMsg); handled {
			return next, cmd
		}
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Left):
		if m.activeColumn > 0 {
			m.activeColumn--
		}
		m.clampRow()
	case key.Matches(keyMsg, m.keys.Right):
		if m.activeColumn < len(model.Statuses)-1 {
			m.activeColumn++
		}
		m.clampRow()
	case key.Matches(keyMsg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(keyMsg, m.keys.Down):
		m.row++
		m.clampRow()
	case key.Matches(keyMsg, m.keys.Advance):
		if card, ok := m.currentCard(); ok {
			return m, m.advanceCmd(card)
		}
	case key.Matches(keyMsg, m.keys.NewTask):
		cmd := m.startForm(formNew, client.Draft{Status: string(model.StatusToDo)}, 0)
		return m, cmd
	case key.Matches(keyMsg, m.keys.QuickTask):
		cmd := m.startForm(formQuick, client.Draft{}, 0)
		return m, cmd
	case key.Matches(keyMsg, m.keys.Edit):
		if card, ok := m.currentCard(); ok {
			if task, found := m.state.Find(card.ID); found {
				cmd := m.startForm(formEdit, client.DraftFrom(task), task.ID)
				return m, cmd
			}
		}
	case key.Matches(keyMsg, m.keys.Delete):
		if card, ok := m.currentCard(); ok {
			m.confirmDelete(card.ID)
		}
	case key.Matches(keyMsg, m.keys.Filter):
		m.mode = modeFilter
		m.textInput.Placeholder = "Filter: words, tags or dates, comma separated"
		m.textInput.SetValue(m.state.Query)
		m.textInput.CursorEnd()
		m.textInput.Focus()
		return m, textinput.Blink
	case key.Matches(keyMsg, m.keys.ClearFilter):
		m.setState(m.state.WithQuery(""))
	case key.Matches(keyMsg, m.keys.CycleSort):
		status := model.Statuses[m.activeColumn]
		m.setState(m.state.WithSort(status, m.state.SortFor(status).Next()))
		m.statusLine = fmt.Sprintf("%s sorted by %s", status, m.state.SortFor(status).Label())
	case key.Matches(keyMsg, m.keys.ToggleArchive):
		m.setState(m.state.ToggleArchived())
		if !m.state.ShowArchived {
			m.focus = focusBoard
			return m, nil
		}
		return m, m.loadArchivedCmd()
	case key.Matches(keyMsg, m.keys.SwitchFocus):
		if m.state.ShowArchived {
			m.focus = focusArchive
		}
	case key.Matches(keyMsg, m.keys.Purge):
		if m.state.ShowArchived && len(m.state.Archived) > 0 {
			m.mode = modeConfirmPurge
			m.confirmText = fmt.Sprintf("Permanently remove all %d archived tasks?", len(m.state.Archived))
		}
	case key.Matches(keyMsg, m.keys.Refresh):
		return m, tea.Batch(m.loadTasksCmd(), m.loadTagsCmd())
	case key.Matches(keyMsg, m.keys.Grab):
		if card, ok := m.currentCard(); ok {
			m.drag = m.drag.Start(card.ID, card.Status)
			m.statusLine = "Moving " + card.Title + " (arrows to move, space to drop, esc to cancel)"
			return m, styleDragCmd(card.ID)
		}
	}
	return m, nil
}

func (m Model) handleResult(msg opResultMsg) (tea.Model, tea.Cmd) {
	if msg.fromForm && m.form != nil {
		if msg.err != nil {
			m.form.submitting = false
		} else {
			m.closeForm()
		}
	}
	if msg.err != nil {
		m.fail(msg.action, msg.err)
	} else {
		m.err = nil
		m.statusLine = msg.status
	}
	if msg.tags && msg.err == nil {
		return m, tea.Batch(m.loadTasksCmd(), m.loadTagsCmd())
	}
	return m, m.loadTasksCmd()
}

func (m Model) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, m.keys.Cancel) || key.Matches(keyMsg, m.keys.Confirm) {
			m.mode = modeNormal
			m.textInput.Blur()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if m.textInput.Value() != m.state.Query {
		m.setState(m.state.WithQuery(m.textInput.Value()))
	}
	return m, cmd
}

func (m *Model) confirmDelete(id int64) {
	task, ok := m.state.Find(id)
	if !ok {
		return
	}
	m.pendingDelete = id
	m.mode = modeConfirmDelete
	m.confirmText = board.DeleteConfirmText(task, m.state.IsArchived(id))
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		mode, id := m.mode, m.pendingDelete
		m.mode = modeNormal
		m.pendingDelete = 0
		m.confirmText = ""
		if mode == modeConfirmPurge {
			return m, m.purgeArchivedCmd()
		}
		if id == 0 {
			return m, nil
		}
		return m, m.deleteTaskCmd(id, m.state.IsArchived(id))
	case key.Matches(keyMsg, m.keys.No):
		m.mode = modeNormal
		m.pendingDelete = 0
		m.confirmText = ""
	}
	return m, nil
}

func (m Model) updateArchiveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	cards := m.view.Archived.Cards
	switch {
	case key.Matches(msg, m.keys.SwitchFocus):
		m.focus = focusBoard
	case key.Matches(msg, m.keys.Up):
		if m.archiveRow > 0 {
			m.archiveRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.archiveRow < len(cards)-1 {
			m.archiveRow++
		}
	case key.Matches(msg, m.keys.Delete):
		if m.archiveRow < len(cards) {
			m.confirmDelete(cards[m.archiveRow].ID)
		}
	case key.Matches(msg, m.keys.Restore):
		if m.archiveRow < len(cards) {
			return m, m.restoreTaskCmd(cards[m.archiveRow].ID), true
		}
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m Model) advanceCmd(card board.CardView) tea.Cmd {
	plan, ok := board.Advance(card.ID, card.Status, m.view.ColumnOrders(), m.state.Sort)
	if !ok {
		return nil
	}
	return m.applyPlanCmd(plan)
}

// setState swaps the state and re-projects the board.
func (m *Model) setState(s board.State) {
	m.state = s
	m.refreshView()
}

func (m *Model) refreshView() {
	m.view = board.Project(m.state, m.now())
	m.clampRow()
	if m.archiveRow >= len(m.view.Archived.Cards) {
		m.archiveRow = max(0, len(m.view.Archived.Cards)-1)
	}
}

func (m *Model) clampRow() {
	if m.activeColumn >= len(m.view.Columns) {
		return
	}
	n := len(m.view.Columns[m.activeColumn].Cards)
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m Model) currentCard() (board.CardView, bool) {
	if m.activeColumn >= len(m.view.Columns) {
		return board.CardView{}, false
	}
	cards := m.view.Columns[m.activeColumn].Cards
	if m.row < 0 || m.row >= len(cards) {
		return board.CardView{}, false
	}
	return cards[m.row], true
}

func (m *Model) fail(action string, err error) {
	m.err = err
	m.statusLine = fmt.Sprintf("Failed to %s: %v", action, err)
	m.log.WithError(err).Errorw("Failed to "+action, "action", action)
}

// State exposes the current board state.
func (m Model) State() board.State {
	return m.state
}

// Status is the text of the status line.
func (m Model) Status() string {
	return strings.TrimSpace(m.statusLine)
}
