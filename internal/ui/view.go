package ui

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/board"
	"taskboard/internal/model"
)

// Layout. Card hit testing depends on these staying in sync with View.
const (
	paddingLeft  = 1
	headerLines  = 2
	cardsTop     = headerLines + 2
	cardHeight   = 4
	minColWidth  = 26
	defaultWidth = 96
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("221"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	urgentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230"))
	draggingStyle = lipgloss.NewStyle().Faint(true)
	tagPalette    = []lipgloss.Color{"39", "78", "170", "208", "141", "45", "185", "204"}
)

func (m Model) colWidth() int {
	width := m.width
	if width == 0 {
		width = defaultWidth
	}
	return max(minColWidth, (width-2*paddingLeft)/len(m.view.Columns))
}

func (m Model) contentHeight() int {
	rows := 1
	for ci := range m.view.Columns {
		rows = max(rows, len(m.columnCards(ci)))
	}
	return 1 + rows*cardHeight
}

// columnAt maps a screen position onto a board column.
func (m Model) columnAt(x, y int) (int, bool) {
	if y < headerLines || y >= headerLines+m.contentHeight()+2 || x < paddingLeft {
		return 0, false
	}
	ci := (x - paddingLeft) / m.colWidth()
	if ci >= len(m.view.Columns) {
		return 0, false
	}
	return ci, true
}

// cardAt maps a screen position onto a card.
func (m Model) cardAt(x, y int) (int, int, bool) {
	ci, ok := m.columnAt(x, y)
	if !ok || y < cardsTop {
		return 0, 0, false
	}
	row := (y - cardsTop) / cardHeight
	if row >= len(m.columnCards(ci)) {
		return 0, 0, false
	}
	return ci, row, true
}

func (m Model) cardBoxes(ci int) []board.CardBox {
	cards := m.columnCards(ci)
	boxes := make([]board.CardBox, len(cards))
	for i, c := range cards {
		boxes[i] = board.CardBox{ID: c.ID, Top: float64(cardsTop + i*cardHeight), Height: cardHeight}
	}
	return boxes
}

// columnCards is the column as displayed, including a drag preview.
func (m Model) columnCards(ci int) []board.CardView {
	col := m.view.Columns[ci]
	if !m.drag.Active() || m.drag.Preview == nil {
		return col.Cards
	}
	if m.drag.Target != col.Status {
		out := make([]board.CardView, 0, len(col.Cards))
		for _, c := range col.Cards {
			if c.ID != m.drag.TaskID {
				out = append(out, c)
			}
		}
		return out
	}
	byID := make(map[int64]board.CardView)
	for _, other := range m.view.Columns {
		for _, c := range other.Cards {
			byID[c.ID] = c
		}
	}
	out := make([]board.CardView, 0, len(m.drag.Preview))
	for _, id := range m.drag.Preview {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (m Model) displayOrder(status model.Status) []int64 {
	for ci, col := range m.view.Columns {
		if col.Status == status {
			cards := m.columnCards(ci)
			ids := make([]int64, len(cards))
			for i, c := range cards {
				ids[i] = c.ID
			}
			return ids
		}
	}
	return nil
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	sections := []string{m.renderHeader(), m.renderColumns()}
	if m.view.Archived.Visible {
		sections = append(sections, m.renderArchive())
	}
	sections = append(sections, m.renderFooter())
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.NewStyle().Padding(0, paddingLeft).Render(content)
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("Task Board") + mutedStyle.Render(fmt.Sprintf("  archived: %d", m.view.Archived.Count))
	var filter string
	switch {
	case m.mode == modeFilter:
		filter = m.textInput.View()
	case m.state.Query != "":
		filter = "Filter: " + m.state.Query + "  " + mutedStyle.Render(m.view.FilterStatus)
	default:
		filter = mutedStyle.Render("/ to filter by title, description, tag or due date")
	}
	limit := max(20, m.width-2*paddingLeft)
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().MaxWidth(limit).Render(title),
		lipgloss.NewStyle().MaxWidth(limit).Render(filter),
	)
}

func (m Model) renderColumns() string {
	width := m.colWidth()
	inner := width - 4
	height := m.contentHeight()
	panels := make([]string, 0, len(m.view.Columns))
	for ci, col := range m.view.Columns {
		header := fmt.Sprintf("%s (%d) · %s", col.Status, col.Count, col.Sort.Label())
		headerStyle := titleStyle
		if ci == m.activeColumn && m.focus == focusBoard {
			headerStyle = headerStyle.Underline(true)
		}
		rows := []string{headerStyle.Render(truncate(header, inner))}
		cards := m.columnCards(ci)
		if len(cards) == 0 {
			rows = append(rows, mutedStyle.Render("(empty)"))
		}
		for ri, card := range cards {
			selected := m.focus == focusBoard && ci == m.activeColumn && ri == m.row
			rows = append(rows, m.renderCard(card, inner, selected))
		}

		border := lipgloss.Color("240")
		if m.drag.Active() && m.drag.Target == col.Status {
			border = lipgloss.Color("62")
		}
		panel := lipgloss.NewStyle().
			Width(width-2).
			Height(height).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(border).
			Render(strings.Join(rows, "\n"))
		panels = append(panels, panel)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

func (m Model) renderCard(card board.CardView, width int, selected bool) string {
	title := card.Title
	if card.Urgent {
		title = "! " + title
	}
	titleLine := truncate(title, width)
	switch {
	case card.Overdue:
		titleLine = overdueStyle.Render(titleLine)
	case card.Urgent:
		titleLine = urgentStyle.Render(titleLine)
	}

	due := card.DueLabel
	if card.Overdue {
		due += " (overdue)"
	}
	if card.Countdown != "" {
		due += " · " + card.Countdown
	}

	lines := []string{
		titleLine,
		mutedStyle.Render(truncate(card.Description, width)),
		renderTags(card.Tags, width),
		mutedStyle.Render(truncate(due, width)),
	}
	style := lipgloss.NewStyle().Width(width)
	if selected {
		style = style.Inherit(selectedStyle)
	}
	if m.drag.Active() && m.drag.TaskID == card.ID && m.drag.Styled {
		style = style.Inherit(draggingStyle)
	}
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}

func renderTags(tags []board.TagBadge, width int) string {
	parts := make([]string, 0, len(tags))
	used := 0
	for _, tag := range tags {
		text := "#" + tag.Text
		if tag.Empty {
			text = tag.Text
		}
		if used+len([]rune(text)) > width {
			break
		}
		used += len([]rune(text)) + 1
		parts = append(parts, tagStyle(tag).Render(text))
	}
	return strings.Join(parts, " ")
}

func tagStyle(tag board.TagBadge) lipgloss.Style {
	if tag.Empty || tag.Class == "" {
		return mutedStyle
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(tag.Class))
	return lipgloss.NewStyle().Foreground(tagPalette[h.Sum32()%uint32(len(tagPalette))])
}

func (m Model) renderArchive() string {
	archived := m.view.Archived
	rows := []string{titleStyle.Render(fmt.Sprintf("Archived (%d)", archived.Count))}
	if len(archived.Cards) == 0 {
		rows = append(rows, mutedStyle.Render(archived.Empty))
	}
	width := max(40, m.width-4)
	for i, card := range archived.Cards {
		tags := make([]string, 0, len(card.Tags))
		for _, t := range card.Tags {
			tags = append(tags, t.Text)
		}
		line := fmt.Sprintf("%s · %s: %s · %s · %s", card.Title, card.Label, card.Timestamp, card.DueLabel, strings.Join(tags, ", "))
		line = truncate(line, width)
		if m.focus == focusArchive && i == m.archiveRow {
			line = selectedStyle.Render(line)
		}
		rows = append(rows, line)
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(strings.Join(rows, "\n"))
}

func (m Model) renderFooter() string {
	status := m.statusLine
	if m.err != nil {
		status = errorStyle.Render(status)
	}
	switch m.mode {
	case modeForm:
		return lipgloss.JoinVertical(lipgloss.Left, status, m.textInput.View(),
			m.help.ShortHelpView([]key.Binding{m.keys.Confirm, m.keys.Cancel, m.keys.NextTag, m.keys.AddTag}))
	case modeConfirmDelete, modeConfirmPurge:
		return lipgloss.JoinVertical(lipgloss.Left, m.confirmText,
			m.help.ShortHelpView([]key.Binding{m.keys.Yes, m.keys.No}))
	}
	bindings := []key.Binding{
		m.keys.NewTask, m.keys.QuickTask, m.keys.Edit, m.keys.Delete, m.keys.Advance, m.keys.Grab,
		m.keys.Filter, m.keys.ClearFilter, m.keys.CycleSort, m.keys.ToggleArchive, m.keys.Refresh, m.keys.Quit,
	}
	if m.focus == focusArchive {
		bindings = []key.Binding{m.keys.SwitchFocus, m.keys.Restore, m.keys.Delete, m.keys.Purge, m.keys.Quit}
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, m.help.ShortHelpView(bindings))
}

func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if width <= 0 {
		return ""
	}
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
