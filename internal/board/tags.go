package board

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// ParseTagsValue splits a comma separated tag string into trimmed,
// non-empty tags. It never returns nil.
func ParseTagsValue(raw string) []string {
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// NormalizeTagClass maps a tag onto a stable style key such as "tag-my-tag".
// Tags without a single alphanumeric character get no class.
func NormalizeTagClass(tag string) string {
	key := nonAlphanumeric.ReplaceAllString(strings.ToLower(tag), "-")
	key = strings.Trim(key, "-")
	if key == "" {
		return ""
	}
	return "tag-" + key
}

// AddTagToInput appends tag to the comma separated input unless an equal
// tag (ignoring case) is already present, and re-joins the list.
func AddTagToInput(input, tag string) string {
	tags := ParseTagsValue(input)
	if tag == "" {
		return strings.Join(tags, ", ")
	}
	for _, existing := range tags {
		if strings.EqualFold(existing, tag) {
			return strings.Join(tags, ", ")
		}
	}
	return strings.Join(append(tags, tag), ", ")
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
