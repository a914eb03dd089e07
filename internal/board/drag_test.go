package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskboard/internal/board"
	"taskboard/internal/model"
)

func boxes(ids ...int64) []board.CardBox {
	out := make([]board.CardBox, len(ids))
	for i, id := range ids {
		out[i] = board.CardBox{ID: id, Top: float64(i * 4), Height: 4}
	}
	return out
}

var allManual = map[model.Status]board.SortMode{
	model.StatusToDo:       board.SortManual,
	model.StatusInProgress: board.SortManual,
	model.StatusDone:       board.SortManual,
}

func TestDragAfter(t *testing.T) {
	cards := boxes(10, 20, 30) // midpoints 2, 6, 10

	assert.Equal(t, 0, board.DragAfter(cards, 0))
	assert.Equal(t, 1, board.DragAfter(cards, 3))
	assert.Equal(t, 2, board.DragAfter(cards, 9))
	assert.Equal(t, -1, board.DragAfter(cards, 10))
	assert.Equal(t, -1, board.DragAfter(nil, 5))
}

func TestDrag_Lifecycle(t *testing.T) {
	var d board.Drag
	assert.False(t, d.Active())
	assert.False(t, d.MarkStyled().Styled)

	d = d.Start(7, model.StatusToDo)
	assert.True(t, d.Active())
	assert.False(t, d.Styled)
	d = d.MarkStyled()
	assert.True(t, d.Styled)

	d = d.End()
	assert.False(t, d.Active())
	assert.Equal(t, board.Drag{}, d)
}

func TestDrag_OverPreviewsManualColumnsOnly(t *testing.T) {
	d := board.Drag{}.Start(2, model.StatusToDo)

	d = d.Over(model.StatusToDo, boxes(1, 2, 3), 0, true)
	assert.Equal(t, []int64{2, 1, 3}, d.Preview)
	assert.Equal(t, 0, d.PreviewIndex())

	d = d.Over(model.StatusInProgress, boxes(5, 6), 100, true)
	assert.Equal(t, model.StatusInProgress, d.Target)
	assert.Equal(t, []int64{5, 6, 2}, d.Preview)

	d = d.Over(model.StatusDone, boxes(8), 0, false)
	assert.Nil(t, d.Preview)
	assert.Equal(t, -1, d.PreviewIndex())
}

func TestDrag_DropSameColumnPersistsPreview(t *testing.T) {
	columns := map[model.Status][]int64{model.StatusToDo: {1, 2, 3}}
	d := board.Drag{}.Start(3, model.StatusToDo).OverAt(model.StatusToDo, columns[model.StatusToDo], 0, true)

	plan, ok := d.Drop(model.StatusToDo, columns, allManual)

	assert.True(t, ok)
	assert.False(t, plan.ChangesStatus())
	assert.Equal(t, []board.Reorder{{Status: model.StatusToDo, IDs: []int64{3, 1, 2}}}, plan.Reorders)
}

func TestDrag_DropSameColumnSortedDoesNotPersist(t *testing.T) {
	columns := map[model.Status][]int64{model.StatusToDo: {1, 2, 3}}
	modes := map[model.Status]board.SortMode{model.StatusToDo: board.SortDueAsc}
	d := board.Drag{}.Start(3, model.StatusToDo).OverAt(model.StatusToDo, columns[model.StatusToDo], 0, false)

	plan, ok := d.Drop(model.StatusToDo, columns, modes)

	assert.True(t, ok)
	assert.Empty(t, plan.Reorders)
}

func TestDrag_DropOtherColumn(t *testing.T) {
	columns := map[model.Status][]int64{
		model.StatusToDo:       {1, 2, 3},
		model.StatusInProgress: {4, 5},
	}
	d := board.Drag{}.Start(2, model.StatusToDo).
		OverAt(model.StatusInProgress, columns[model.StatusInProgress], 1, true)

	plan, ok := d.Drop(model.StatusInProgress, columns, allManual)

	assert.True(t, ok)
	assert.True(t, plan.ChangesStatus())
	assert.Equal(t, int64(2), plan.TaskID)
	assert.Equal(t, []board.Reorder{
		{Status: model.StatusToDo, IDs: []int64{1, 3}},
		{Status: model.StatusInProgress, IDs: []int64{4, 2, 5}},
	}, plan.Reorders)
}

func TestDrag_DropOtherColumnSkipsSortedAndEmpty(t *testing.T) {
	columns := map[model.Status][]int64{
		model.StatusToDo: {2},
		model.StatusDone: {9},
	}
	modes := map[model.Status]board.SortMode{
		model.StatusToDo: board.SortManual,
		model.StatusDone: board.SortEntryDesc,
	}

	plan, ok := board.Drag{}.Start(2, model.StatusToDo).Drop(model.StatusDone, columns, modes)

	assert.True(t, ok)
	assert.Equal(t, model.StatusDone, plan.To)
	assert.Empty(t, plan.Reorders)
}

func TestDrag_DropWithoutGesture(t *testing.T) {
	_, ok := board.Drag{}.Drop(model.StatusToDo, nil, allManual)
	assert.False(t, ok)

	_, ok = board.Drag{}.Start(1, model.StatusToDo).Drop(model.Status("Nowhere"), nil, allManual)
	assert.False(t, ok)
}

func TestAdvance(t *testing.T) {
	columns := map[model.Status][]int64{
		model.StatusToDo:       {1, 2},
		model.StatusInProgress: {3},
	}

	plan, ok := board.Advance(1, model.StatusToDo, columns, allManual)
	assert.True(t, ok)
	assert.Equal(t, model.StatusInProgress, plan.To)
	assert.Equal(t, []board.Reorder{
		{Status: model.StatusToDo, IDs: []int64{2}},
		{Status: model.StatusInProgress, IDs: []int64{3, 1}},
	}, plan.Reorders)

	_, ok = board.Advance(5, model.StatusDone, columns, allManual)
	assert.False(t, ok)
}
