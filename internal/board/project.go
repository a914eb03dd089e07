package board

import (
	"time"

	"taskboard/internal/api"
	"taskboard/internal/model"
)

const (
	emptyTagText      = "None"
	emptyArchivedText = "No archived tasks yet."
)

type TagBadge struct {
	Text  string
	Class string
	Empty bool
}

type CardView struct {
	ID          int64
	Status      model.Status
	Title       string
	Description string
	Tags        []TagBadge
	DueLabel    string
	Overdue     bool
	Urgent      bool
	// Countdown is set for Done tasks still inside the archive window.
	Countdown string
}

type ColumnView struct {
	Status model.Status
	Sort   SortMode
	Count  int
	Cards  []CardView
}

// IDs returns the card ids in display order.
func (c ColumnView) IDs() []int64 {
	ids := make([]int64, len(c.Cards))
	for i, card := range c.Cards {
		ids[i] = card.ID
	}
	return ids
}

type ArchivedCardView struct {
	CardView
	Label     string
	Timestamp string
}

type ArchivedView struct {
	Visible bool
	Count   int
	Cards   []ArchivedCardView
	Empty   string
}

type BoardView struct {
	Columns      []ColumnView
	Archived     ArchivedView
	FilterStatus string
}

// Column returns the view of one status column.
func (v BoardView) Column(status model.Status) (ColumnView, bool) {
	for _, c := range v.Columns {
		if c.Status == status {
			return c, true
		}
	}
	return ColumnView{}, false
}

// ColumnOrders maps each status to its card ids in display order.
func (v BoardView) ColumnOrders() map[model.Status][]int64 {
	orders := make(map[model.Status][]int64, len(v.Columns))
	for _, c := range v.Columns {
		orders[c.Status] = c.IDs()
	}
	return orders
}

// Project derives the whole board from s.
func Project(s State, now time.Time) BoardView {
	filtered := Filter(s.Tasks, s.Query, s.Locale)
	byStatus := make(map[model.Status][]api.Task, len(model.Statuses))
	for _, t := range filtered {
		if t.Status.Valid() {
			byStatus[t.Status] = append(byStatus[t.Status], t)
		}
	}

	view := BoardView{
		Columns:      make([]ColumnView, 0, len(model.Statuses)),
		FilterStatus: FilterStatus(len(filtered), len(s.Tasks), s.Query),
	}
	for _, status := range model.Statuses {
		mode := s.SortFor(status)
		sorted := sortForColumn(byStatus[status], mode, s.Locale.Tag)
		col := ColumnView{Status: status, Sort: mode, Count: len(sorted), Cards: make([]CardView, 0, len(sorted))}
		for _, t := range sorted {
			col.Cards = append(col.Cards, projectCard(t, s.Window, now))
		}
		view.Columns = append(view.Columns, col)
	}
	view.Archived = projectArchived(s, now)
	return view
}

func projectCard(t api.Task, window time.Duration, now time.Time) CardView {
	card := CardView{
		ID:          t.ID,
		Status:      t.Status,
		Title:       t.Title,
		Description: derefString(t.Description),
		Tags:        tagBadges(t.Tags),
		DueLabel:    dueLabel(t.DueDate),
		Overdue:     IsOverdue(t, now),
		Urgent:      t.Urgent,
	}
	if t.Status == model.StatusDone {
		if countdown, ok := ArchiveCountdown(t.DoneAt, window, now); ok {
			card.Countdown = "Archived in " + countdown
		}
	}
	return card
}

func projectArchived(s State, now time.Time) ArchivedView {
	view := ArchivedView{Visible: s.ShowArchived, Count: len(s.Archived)}
	if len(s.Archived) == 0 {
		view.Empty = emptyArchivedText
		return view
	}
	view.Cards = make([]ArchivedCardView, 0, len(s.Archived))
	for _, t := range s.Archived {
		card := ArchivedCardView{
			CardView: CardView{
				ID:          t.ID,
				Status:      t.Status,
				Title:       t.Title,
				Description: derefString(t.Description),
				Tags:        tagBadges(t.Tags),
				DueLabel:    dueLabel(t.DueDate),
				Urgent:      t.Urgent,
			},
			Label: "Archived",
		}
		stamp := t.DoneAt
		if derefString(t.DeletedAt) != "" {
			card.Label = "Deleted"
			stamp = t.DeletedAt
		}
		card.Timestamp = FormatDateTime(stamp, s.Locale)
		view.Cards = append(view.Cards, card)
	}
	return view
}

func tagBadges(raw *string) []TagBadge {
	tags := ParseTagsValue(derefString(raw))
	if len(tags) == 0 {
		return []TagBadge{{Text: emptyTagText, Empty: true}}
	}
	badges := make([]TagBadge, len(tags))
	for i, tag := range tags {
		badges[i] = TagBadge{Text: tag, Class: NormalizeTagClass(tag)}
	}
	return badges
}

func dueLabel(due *string) string {
	if derefString(due) == "" {
		return "No due date"
	}
	return "Due: " + *due
}

// DeleteConfirmText is the confirmation copy shown before Delete. archived
// tasks are removed for good; active ones move to the archive.
func DeleteConfirmText(t api.Task, archived bool) string {
	detail := "It will move to the archived list."
	if archived || derefString(t.DeletedAt) != "" {
		detail = "This will permanently remove it from the archive."
	}
	if t.Title == "" {
		return detail
	}
	return "Task: " + t.Title + " - " + detail
}
