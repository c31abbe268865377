package extraction

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

// Spoken ordinals for days of the month.
var ordinalWords = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
	"eleventh": 11, "twelfth": 12, "thirteenth": 13, "fourteenth": 14,
	"fifteenth": 15, "sixteenth": 16, "seventeenth": 17, "eighteenth": 18,
	"nineteenth": 19, "twentieth": 20, "twenty-first": 21, "twenty first": 21,
	"twenty-second": 22, "twenty second": 22, "twenty-third": 23, "twenty third": 23,
	"twenty-fourth": 24, "twenty fourth": 24, "twenty-fifth": 25, "twenty fifth": 25,
	"twenty-sixth": 26, "twenty sixth": 26, "twenty-seventh": 27, "twenty seventh": 27,
	"twenty-eighth": 28, "twenty eighth": 28, "twenty-ninth": 29, "twenty ninth": 29,
	"thirtieth": 30, "thirty-first": 31, "thirty first": 31,
}

// Checked longest-first so "twenty first" wins over "first".
var ordinalsLongestFirst = sortedOrdinals()

func sortedOrdinals() []string {
	words := make([]string, 0, len(ordinalWords))
	for w := range ordinalWords {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	return words
}

var (
	monthDayPattern   = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	dayOfMonthPattern = regexp.MustCompile(`\b(?:the\s+)?(\d{1,2})(?:st|nd|rd|th)?\s+of\s+(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
	numericPattern    = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})(?:[/-](\d{2,4}))?\b`)
)

// ExtractDate recognizes relative terms ("today", "tomorrow", weekday names)
// and explicit month/day forms, resolved against now. Dates in the past are
// rejected. The canonical form is YYYY-MM-DD.
func ExtractDate(raw string, now time.Time) (string, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return "", false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if strings.Contains(text, "today") || strings.Contains(text, "tonight") {
		return today.Format("2006-01-02"), true
	}
	if strings.Contains(text, "tomorrow") {
		return today.AddDate(0, 0, 1).Format("2006-01-02"), true
	}

	// Weekday names resolve to the next occurrence; the same weekday spoken
	// again means next week, not today.
	for name, wd := range weekdays {
		if !containsWord(text, name) {
			continue
		}
		delta := (int(wd) - int(today.Weekday()) + 7) % 7
		if delta == 0 {
			delta = 7
		}
		return today.AddDate(0, 0, delta).Format("2006-01-02"), true
	}

	if m := monthDayPattern.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[2])
		return buildDate(months[m[1]], day, 0, today)
	}
	if m := dayOfMonthPattern.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		return buildDate(months[m[2]], day, 0, today)
	}
	// "march fifth" / "the fifth of march" with a spoken ordinal.
	for _, word := range ordinalsLongestFirst {
		if !strings.Contains(text, word) {
			continue
		}
		for name, month := range months {
			if containsWord(text, name) {
				return buildDate(month, ordinalWords[word], 0, today)
			}
		}
	}
	if m := numericPattern.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year := 0
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}
		if month < 1 || month > 12 {
			return "", false
		}
		return buildDate(time.Month(month), day, year, today)
	}

	return "", false
}

// buildDate validates the day, infers the year when absent (never in the
// past), and rejects dates before today.
func buildDate(month time.Month, day, year int, today time.Time) (string, bool) {
	if day < 1 || day > 31 {
		return "", false
	}
	inferYear := year == 0
	if inferYear {
		year = today.Year()
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, today.Location())
	if d.Month() != month || d.Day() != day {
		// Normalized away, e.g. February 30th.
		return "", false
	}
	if d.Before(today) {
		if !inferYear {
			return "", false
		}
		d = d.AddDate(1, 0, 0)
	}
	return d.Format("2006-01-02"), true
}

func containsWord(text, word string) bool {
	for _, field := range strings.Fields(text) {
		if strings.Trim(field, ".,!?") == word {
			return true
		}
	}
	return false
}
