package board

import (
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Locale carries the viewer's language and date conventions.
type Locale struct {
	Tag        language.Tag
	DateLayout string
}

// DetectLocale reads LC_ALL, LC_TIME and LANG in that order.
func DetectLocale() Locale {
	return LocaleFor(detectLocaleTag(os.Getenv))
}

// LocaleFor picks the date layout used by the region of tag.
func LocaleFor(tag language.Tag) Locale {
	loc := Locale{Tag: tag, DateLayout: "02/01/2006"}
	if tag == language.Und {
		return loc
	}
	region, _ := tag.Region()
	switch region.String() {
	case "US":
		loc.DateLayout = "1/2/2006"
	case "CA", "CN", "JP", "KR", "HU", "LT":
		loc.DateLayout = "2006-01-02"
	}
	return loc
}

// FormatDate renders the calendar date of t.
func (l Locale) FormatDate(t time.Time) string {
	return t.Format(l.layout())
}

// FormatDateTime renders t in local time with minutes.
func (l Locale) FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(l.layout() + " 15:04")
}

func (l Locale) layout() string {
	if l.DateLayout == "" {
		return "2006-01-02"
	}
	return l.DateLayout
}

func detectLocaleTag(getenv func(string) string) language.Tag {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		raw := normalizeLocale(getenv(key))
		if raw == "" || raw == "C" || raw == "POSIX" {
			continue
		}
		if tag, err := language.Parse(raw); err == nil {
			return tag
		}
	}
	return language.Und
}

func normalizeLocale(raw string) string {
	locale := strings.TrimSpace(raw)
	if idx := strings.Index(locale, "."); idx >= 0 {
		locale = locale[:idx]
	}
	if idx := strings.Index(locale, "@"); idx >= 0 {
		locale = locale[:idx]
	}
	return strings.TrimSpace(strings.ReplaceAll(locale, "_", "-"))
}
