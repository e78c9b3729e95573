// Package intent turns free-form Spanish chat text into a structured
// scheduling request. It is keyword and pattern matching only, no language
// model: deterministic, total, and cheap enough to run on every message.
package intent

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Tag classifies what the sender wants.
type Tag string

const (
	TagBook     Tag = "book"
	TagCancel   Tag = "cancel"
	TagQuery    Tag = "query"
	TagGreeting Tag = "greeting"
	TagUnknown  Tag = "unknown"
)

// Parsed is the structured reading of one message. Extraction never fails:
// absence of a match degrades to TagUnknown and empty fields.
type Parsed struct {
	Tag       Tag           `json:"intent"`
	Weekday   *time.Weekday `json:"weekday,omitempty"`
	TimeOfDay string        `json:"time_of_day,omitempty"`
	RawText   string        `json:"raw_text"`
}

// HasSpecificDetails reports whether both a weekday and a time were found.
func (p Parsed) HasSpecificDetails() bool {
	return p.Weekday != nil && p.TimeOfDay != ""
}

// weekdayTable is scanned in declaration order; the first entry whose name
// appears in the text wins, regardless of position in the text. Accented and
// accent-stripped spellings are both listed.
var weekdayTable = []struct {
	names []string
	day   time.Weekday
}{
	{[]string{"lunes"}, time.Monday},
	{[]string{"martes"}, time.Tuesday},
	{[]string{"miércoles", "miercoles"}, time.Wednesday},
	{[]string{"jueves"}, time.Thursday},
	{[]string{"viernes"}, time.Friday},
	{[]string{"sábado", "sabado"}, time.Saturday},
	{[]string{"domingo"}, time.Sunday},
}

// timeRE matches hour[:minute][am|pm|hrs], e.g. "3pm", "14:30", "9:00 am".
var timeRE = regexp.MustCompile(`\b([01]?\d|2[0-3])(?::([0-5]\d))?\s*(am|pm|hrs)?\b`)

var (
	cancelKeywords   = []string{"cancelar", "cancela", "anular", "anula"}
	bookKeywords     = []string{"agendar", "agenda", "reservar", "reserva", "quiero una cita"}
	bookPatterns     = []string{"cita", "turno"}
	queryKeywords    = []string{"disponibilidad", "disponible", "horarios", "horario", "libre", "cuándo", "cuando"}
	greetingKeywords = []string{"hola", "buenas", "buenos días", "buenos dias", "hello", "hi"}
)

// rule pairs a predicate with the tag it yields. Rules are evaluated in
// fixed priority order: cancellation first, because cancel requests usually
// also contain booking words ("cancelar mi cita").
type rule struct {
	tag   Tag
	match func(text string) bool
}

var rules = []rule{
	{TagCancel, containsAny(cancelKeywords)},
	{TagBook, func(text string) bool {
		return containsAny(bookKeywords)(text) || containsAny(bookPatterns)(text)
	}},
	{TagQuery, containsAny(queryKeywords)},
	{TagGreeting, containsAny(greetingKeywords)},
}

// Extract parses a message into a Parsed intent.
func Extract(text string) Parsed {
	lower := strings.ToLower(text)
	parsed := Parsed{Tag: TagUnknown, RawText: text}

	for _, r := range rules {
		if r.match(lower) {
			parsed.Tag = r.tag
			break
		}
	}

	parsed.Weekday = extractWeekday(lower)
	parsed.TimeOfDay = extractTimeOfDay(lower)
	return parsed
}

func extractWeekday(lower string) *time.Weekday {
	for _, entry := range weekdayTable {
		for _, name := range entry.names {
			if strings.Contains(lower, name) {
				day := entry.day
				return &day
			}
		}
	}
	return nil
}

// extractTimeOfDay returns the first time mention as "HH:MM" in 24-hour
// format, or "" when none is present. A bare number only counts as a time
// when it carries minutes or an am/pm/hrs suffix.
func extractTimeOfDay(lower string) string {
	for _, m := range timeRE.FindAllStringSubmatch(lower, -1) {
		hourStr, minuteStr, suffix := m[1], m[2], m[3]
		if minuteStr == "" && suffix == "" {
			continue
		}

		hour, err := strconv.Atoi(hourStr)
		if err != nil {
			continue
		}
		minute := 0
		if minuteStr != "" {
			minute, _ = strconv.Atoi(minuteStr)
		}

		switch suffix {
		case "pm":
			if hour != 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
		if hour > 23 {
			continue
		}
		return fmt.Sprintf("%02d:%02d", hour, minute)
	}
	return ""
}

func containsAny(keywords []string) func(string) bool {
	return func(text string) bool {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	}
}

// MentionsToday reports a "hoy" day reference.
func MentionsToday(text string) bool {
	return strings.Contains(strings.ToLower(text), "hoy")
}

// MentionsTomorrow reports a "mañana"/"manana" day reference.
func MentionsTomorrow(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "mañana") || strings.Contains(lower, "manana")
}
