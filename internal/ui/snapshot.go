package ui

import (
	"fmt"
	"strings"

	"taskboard/internal/board"
)

// Snapshot renders the board as plain text.
func Snapshot(v board.BoardView) string {
	var b strings.Builder
	if v.FilterStatus != "" {
		fmt.Fprintln(&b, v.FilterStatus)
	}
	for _, col := range v.Columns {
		fmt.Fprintf(&b, "%s (%d) [%s]\n", col.Status, col.Count, col.Sort.Label())
		for _, card := range col.Cards {
			writeCard(&b, card)
		}
	}
	fmt.Fprintf(&b, "Archived (%d)\n", v.Archived.Count)
	if len(v.Archived.Cards) == 0 {
		fmt.Fprintf(&b, "  %s\n", v.Archived.Empty)
	}
	for _, card := range v.Archived.Cards {
		fmt.Fprintf(&b, "  - %s (%s: %s)\n", card.Title, card.Label, card.Timestamp)
	}
	return b.String()
}

func writeCard(b *strings.Builder, card board.CardView) {
	var flags []string
	if card.Urgent {
		flags = append(flags, "urgent")
	}
	if card.Overdue {
		flags = append(flags, "overdue")
	}
	line := "  - " + card.Title
	if len(flags) > 0 {
		line += " [" + strings.Join(flags, ", ") + "]"
	}
	fmt.Fprintln(b, line)
	if card.Description != "" {
		fmt.Fprintf(b, "    %s\n", card.Description)
	}
	tags := make([]string, len(card.Tags))
	for i, t := range card.Tags {
		tags[i] = t.Text
	}
	details := []string{"Tags: " + strings.Join(tags, ", "), card.DueLabel}
	if card.Countdown != "" {
		details = append(details, card.Countdown)
	}
	fmt.Fprintf(b, "    %s\n", strings.Join(details, " | "))
}
