package extraction

import (
	"regexp"
	"strconv"
	"strings"
)

// Number words callers actually say for party sizes and hours.
var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18,
	"nineteen": 19, "twenty": 20,
}

var digitsPattern = regexp.MustCompile(`\b(\d{1,2})\b`)

// parseNumberToken parses a single token as a digit string or number word.
func parseNumberToken(token string) (int, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if n, err := strconv.Atoi(token); err == nil {
		return n, true
	}
	if n, ok := numberWords[token]; ok {
		return n, true
	}
	return 0, false
}

// firstNumber finds the first one- or two-digit number in the text, checking
// digits before number words so "table for 4 people" beats "for".
func firstNumber(text string) (int, bool) {
	if m := digitsPattern.FindString(text); m != "" {
		n, _ := strconv.Atoi(m)
		return n, true
	}
	for _, field := range strings.Fields(text) {
		if n, ok := numberWords[strings.Trim(field, ".,!?")]; ok {
			return n, true
		}
	}
	return 0, false
}
