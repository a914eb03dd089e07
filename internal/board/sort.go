package board

import (
	"math"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"taskboard/internal/api"
)

// SortMode selects how a column orders its cards.
type SortMode string

const (
	SortManual    SortMode = "manual"
	SortDueAsc    SortMode = "due-asc"
	SortDueDesc   SortMode = "due-desc"
	SortEntryAsc  SortMode = "entry-asc"
	SortEntryDesc SortMode = "entry-desc"
	SortTagAsc    SortMode = "tag-asc"
	SortTagDesc   SortMode = "tag-desc"
)

// SortModes lists the modes in selector order.
var SortModes = []SortMode{
	SortManual, SortDueAsc, SortDueDesc, SortEntryAsc, SortEntryDesc, SortTagAsc, SortTagDesc,
}

var sortLabels = map[SortMode]string{
	SortManual:    "Manual",
	SortDueAsc:    "Due date ↑",
	SortDueDesc:   "Due date ↓",
	SortEntryAsc:  "Entry date ↑",
	SortEntryDesc: "Entry date ↓",
	SortTagAsc:    "Tag A-Z",
	SortTagDesc:   "Tag Z-A",
}

// ParseSortMode falls back to manual for unknown values.
func ParseSortMode(raw string) SortMode {
	mode := SortMode(strings.TrimSpace(strings.ToLower(raw)))
	if slices.Contains(SortModes, mode) {
		return mode
	}
	return SortManual
}

// Next cycles through SortModes.
func (m SortMode) Next() SortMode {
	i := slices.Index(SortModes, m)
	return SortModes[(i+1)%len(SortModes)]
}

func (m SortMode) Label() string {
	if label, ok := sortLabels[m]; ok {
		return label
	}
	return sortLabels[SortManual]
}

func (m SortMode) direction() Direction {
	if strings.HasSuffix(string(m), "-desc") {
		return Desc
	}
	return Asc
}

// Direction is the order applied to present values. Missing values sort
// last either way.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// CompareNullableNumbers orders two optional numbers, nil after any value.
func CompareNullableNumbers(a, b *int64, dir Direction) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	c := compareInt64(*a, *b)
	if dir == Desc {
		return -c
	}
	return c
}

// CompareNullableStrings orders two strings with the root collator, empty
// strings after any value.
func CompareNullableStrings(a, b string, dir Direction) int {
	return compareNullableStrings(collate.New(language.Und), a, b, dir)
}

func compareNullableStrings(c *collate.Collator, a, b string, dir Direction) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}
	r := c.CompareString(a, b)
	if dir == Desc {
		return -r
	}
	return r
}

// CompareManualOrder is the user's drag order: order_index (missing last),
// then created_at, then id.
func CompareManualOrder(a, b api.Task) int {
	if c := compareInt64(orderOf(a), orderOf(b)); c != 0 {
		return c
	}
	if c := CompareNullableNumbers(parseMillis(a.CreatedAt), parseMillis(b.CreatedAt), Asc); c != 0 {
		return c
	}
	return compareInt64(a.ID, b.ID)
}

// SortForColumn returns a sorted copy of tasks. The input is not modified.
func SortForColumn(tasks []api.Task, mode SortMode) []api.Task {
	return sortForColumn(tasks, mode, language.Und)
}

func sortForColumn(tasks []api.Task, mode SortMode, tag language.Tag) []api.Task {
	out := slices.Clone(tasks)
	dir := mode.direction()
	var cmp func(a, b api.Task) int
	switch mode {
	case SortDueAsc, SortDueDesc:
		cmp = func(a, b api.Task) int {
			return CompareNullableNumbers(parseMillis(a.DueDate), parseMillis(b.DueDate), dir)
		}
	case SortEntryAsc, SortEntryDesc:
		cmp = func(a, b api.Task) int {
			return CompareNullableNumbers(parseMillis(a.CreatedAt), parseMillis(b.CreatedAt), dir)
		}
	case SortTagAsc, SortTagDesc:
		collator := collate.New(tag)
		cmp = func(a, b api.Task) int {
			return compareNullableStrings(collator, tagKey(a), tagKey(b), dir)
		}
	}
	slices.SortStableFunc(out, func(a, b api.Task) int {
		if cmp != nil {
			if c := cmp(a, b); c != 0 {
				return c
			}
		}
		return CompareManualOrder(a, b)
	})
	return out
}

func tagKey(t api.Task) string {
	return strings.ToLower(strings.TrimSpace(derefString(t.Tags)))
}

func orderOf(t api.Task) int64 {
	if t.OrderIndex == nil {
		return math.MaxInt64
	}
	return int64(*t.OrderIndex)
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
