package board

import (
	"fmt"
	"strings"

	"taskboard/internal/api"
)

// FilterTokens splits a query on commas into lower-cased tokens. A query
// made only of separators is kept whole.
func FilterTokens(query string) []string {
	tokens := ParseTagsValue(query)
	if len(tokens) == 0 {
		if whole := strings.TrimSpace(query); whole != "" {
			tokens = []string{whole}
		}
	}
	for i, token := range tokens {
		tokens[i] = strings.ToLower(token)
	}
	return tokens
}

// DueDateMatchStrings returns the strings a due date can be matched
// against: the raw value and, when different, its locale rendering.
func DueDateMatchStrings(due *string, loc Locale) []string {
	if due == nil || *due == "" {
		return nil
	}
	raw := strings.ToLower(*due)
	parsed := ParseDateValue(due)
	if parsed == nil {
		return []string{raw}
	}
	local := strings.ToLower(loc.FormatDate(*parsed))
	if local != "" && local != raw {
		return []string{raw, local}
	}
	return []string{raw}
}

// MatchesFilter reports whether every token is found in the title, the
// description, one of the tags or the due date.
func MatchesFilter(t api.Task, tokens []string, loc Locale) bool {
	if len(tokens) == 0 {
		return true
	}
	title := strings.ToLower(t.Title)
	description := strings.ToLower(derefString(t.Description))
	tags := ParseTagsValue(derefString(t.Tags))
	for i, tag := range tags {
		tags[i] = strings.ToLower(tag)
	}
	dueMatches := DueDateMatchStrings(t.DueDate, loc)

	for _, token := range tokens {
		if !strings.Contains(title, token) &&
			!strings.Contains(description, token) &&
			!containsAny(tags, token) &&
			!containsAny(dueMatches, token) {
			return false
		}
	}
	return true
}

// Filter keeps the tasks matching query, preserving order.
func Filter(tasks []api.Task, query string, loc Locale) []api.Task {
	tokens := FilterTokens(query)
	if len(tokens) == 0 {
		return tasks
	}
	out := make([]api.Task, 0, len(tasks))
	for _, t := range tasks {
		if MatchesFilter(t, tokens, loc) {
			out = append(out, t)
		}
	}
	return out
}

// FilterStatus is the "Showing X of Y" line, empty without a query.
func FilterStatus(filtered, total int, query string) string {
	if strings.TrimSpace(query) == "" {
		return ""
	}
	return fmt.Sprintf("Showing %d of %d", filtered, total)
}

func containsAny(values []string, token string) bool {
	for _, v := range values {
		if strings.Contains(v, token) {
			return true
		}
	}
	return false
}
