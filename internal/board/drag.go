package board

import (
	"math"
	"slices"

	"taskboard/internal/model"
)

// CardBox is the vertical extent of a rendered card.
type CardBox struct {
	ID     int64
	Top    float64
	Height float64
}

// DragAfter returns the index of the card the dragged card should be
// inserted before: the nearest card whose midpoint lies below y. It
// returns -1 when the card belongs at the end.
func DragAfter(cards []CardBox, y float64) int {
	best, bestOffset := -1, math.Inf(-1)
	for i, c := range cards {
		offset := y - c.Top - c.Height/2
		if offset < 0 && offset > bestOffset {
			best, bestOffset = i, offset
		}
	}
	return best
}

// Reorder is one reorder request to send to the server.
type Reorder struct {
	Status model.Status
	IDs    []int64
}

// DropPlan lists the mutations a finished gesture needs. A status change
// always goes first; the reorders are sent only if it succeeds. The board
// is re-fetched afterwards in every case.
type DropPlan struct {
	TaskID   int64
	From     model.Status
	To       model.Status
	Reorders []Reorder
}

// ChangesStatus reports whether the plan moves the task between columns.
func (p DropPlan) ChangesStatus() bool {
	return p.From != p.To
}

// Drag tracks a card being moved. The zero value is idle.
type Drag struct {
	TaskID int64
	Source model.Status
	// Styled is set once the dragging style has been applied, a tick
	// after Start.
	Styled bool
	Target model.Status
	// Preview is the live order of Target while hovering a manual column.
	Preview []int64
}

// Active reports whether a gesture is in progress.
func (d Drag) Active() bool {
	return d.TaskID != 0
}

// Start begins dragging a card out of source.
func (d Drag) Start(taskID int64, source model.Status) Drag {
	return Drag{TaskID: taskID, Source: source, Target: source}
}

func (d Drag) MarkStyled() Drag {
	if d.Active() {
		d.Styled = true
	}
	return d
}

// Over moves the drag above target. In a manual column the preview order
// places the card before the nearest card below y.
func (d Drag) Over(target model.Status, cards []CardBox, y float64, manual bool) Drag {
	others := make([]CardBox, 0, len(cards))
	ids := make([]int64, 0, len(cards))
	for _, c := range cards {
		if c.ID != d.TaskID {
			others = append(others, c)
			ids = append(ids, c.ID)
		}
	}
	return d.OverAt(target, ids, DragAfter(others, y), manual)
}

// OverAt is Over with an explicit insertion index into the column order;
// -1 or an index past the end appends.
func (d Drag) OverAt(target model.Status, order []int64, index int, manual bool) Drag {
	if !d.Active() || !target.Valid() {
		return d
	}
	d.Target = target
	if !manual {
		d.Preview = nil
		return d
	}
	ids := withoutID(order, d.TaskID)
	if index < 0 || index > len(ids) {
		index = len(ids)
	}
	d.Preview = slices.Insert(ids, index, d.TaskID)
	return d
}

// PreviewIndex is the position of the dragged card in the preview, or -1.
func (d Drag) PreviewIndex() int {
	return slices.Index(d.Preview, d.TaskID)
}

// Drop finishes the gesture on target. columns holds each column's
// current display order and modes its sort mode. ok is false when there
// is nothing to drop.
func (d Drag) Drop(target model.Status, columns map[model.Status][]int64, modes map[model.Status]SortMode) (DropPlan, bool) {
	if !d.Active() || !target.Valid() {
		return DropPlan{}, false
	}
	plan := DropPlan{TaskID: d.TaskID, From: d.Source, To: target}
	destManual := modeOf(modes, target) == SortManual

	dest := d.Preview
	if d.Target != target || dest == nil {
		if d.Source == target {
			dest = slices.Clone(columns[target])
		} else {
			dest = append(withoutID(columns[target], d.TaskID), d.TaskID)
		}
	}

	if d.Source == target {
		if destManual && len(dest) > 0 {
			plan.Reorders = append(plan.Reorders, Reorder{Status: target, IDs: dest})
		}
		return plan, true
	}

	if d.Source.Valid() && modeOf(modes, d.Source) == SortManual {
		if src := withoutID(columns[d.Source], d.TaskID); len(src) > 0 {
			plan.Reorders = append(plan.Reorders, Reorder{Status: d.Source, IDs: src})
		}
	}
	if destManual {
		plan.Reorders = append(plan.Reorders, Reorder{Status: target, IDs: dest})
	}
	return plan, true
}

// End clears the gesture, whether it was dropped or cancelled.
func (d Drag) End() Drag {
	return Drag{}
}

// Advance plans moving a card to the next column, appending it to a
// manual destination. ok is false for Done cards.
func Advance(taskID int64, from model.Status, columns map[model.Status][]int64, modes map[model.Status]SortMode) (DropPlan, bool) {
	next, ok := from.Next()
	if !ok {
		return DropPlan{}, false
	}
	return Drag{}.Start(taskID, from).Drop(next, columns, modes)
}

func modeOf(modes map[model.Status]SortMode, status model.Status) SortMode {
	if mode, ok := modes[status]; ok {
		return mode
	}
	return SortManual
}

func withoutID(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
