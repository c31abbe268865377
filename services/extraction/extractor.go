// Package extraction turns raw utterance or keypad text into typed slot
// candidates. Every function here is pure: no store, no transport, no clock
// other than the one passed in, so each grammar rule is testable on its own.
package extraction

import (
	"regexp"
	"strings"

	"tablevoice/models"
)

// Keyword sets per intent, checked in order. DTMF digits map 1/2/3.
var intentKeywords = []struct {
	intent models.Intent
	words  []string
}{
	{models.IntentCancel, []string{"cancel", "remove", "delete"}},
	{models.IntentCheck, []string{"check", "status", "look up", "find my", "view"}},
	{models.IntentMake, []string{"reserve", "reservation", "book", "new", "table for", "make"}},
}

var intentDigits = map[string]models.Intent{
	"1": models.IntentMake,
	"2": models.IntentCheck,
	"3": models.IntentCancel,
}

// ExtractIntent classifies an utterance or keypad digit into an intent.
// Cancel keywords are checked before make keywords so "cancel my
// reservation" is not read as a new booking.
func ExtractIntent(raw string, kind models.InputKind) (models.Intent, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return models.IntentUnknown, false
	}
	if kind == models.InputDTMF {
		if intent, ok := intentDigits[text]; ok {
			return intent, true
		}
		return models.IntentUnknown, false
	}
	for _, entry := range intentKeywords {
		for _, word := range entry.words {
			if strings.Contains(text, word) {
				return entry.intent, true
			}
		}
	}
	return models.IntentUnknown, false
}

// IsHelpRequest reports whether the utterance asks for the menu again.
func IsHelpRequest(raw string) bool {
	text := strings.ToLower(strings.TrimSpace(raw))
	for _, word := range []string{"help", "options", "menu", "what can you do"} {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

// Filler noises transcription produces that are never a name.
var noiseWords = map[string]bool{
	"um": true, "uh": true, "hmm": true, "erm": true, "eh": true,
	"yes": true, "no": true, "yeah": true, "nope": true,
	"hello": true, "hi": true, "hey": true,
}

var nonLetterPattern = regexp.MustCompile(`[^a-zA-Z\s'-]`)

// ExtractName takes the trimmed utterance verbatim when it is non-empty and
// not pure noise, title-casing each word. Inputs with no letters are
// rejected.
func ExtractName(raw string) (string, bool) {
	cleaned := strings.TrimSpace(nonLetterPattern.ReplaceAllString(raw, " "))
	if cleaned == "" {
		return "", false
	}
	fields := strings.Fields(cleaned)
	var kept []string
	for _, f := range fields {
		if noiseWords[strings.ToLower(f)] {
			continue
		}
		kept = append(kept, strings.ToUpper(f[:1])+strings.ToLower(f[1:]))
	}
	if len(kept) == 0 || len(kept) > 4 {
		return "", false
	}
	return strings.Join(kept, " "), true
}

// ExtractPartySize parses digits or number words (one through twenty) and
// enforces 1..max.
func ExtractPartySize(raw string, max int) (int, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return 0, false
	}
	n, ok := firstNumber(text)
	if !ok {
		return 0, false
	}
	if n < 1 || n > max {
		return 0, false
	}
	return n, true
}

var (
	clockPattern      = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\b`)
	wordHourPattern   = regexp.MustCompile(`\b(one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)\b(?:\s*o'?clock)?`)
	digitLetterSeam   = regexp.MustCompile(`(\d)([a-z])`)
	meridiemAMPattern = regexp.MustCompile(`\ba\.?m\.?\b`)
	meridiemPMPattern = regexp.MustCompile(`\bp\.?m\.?\b`)
)

// TimeTokens is the raw material handed to the TimeResolver: an hour, an
// optional minute, and whichever cue word was present.
type TimeTokens struct {
	Hour   int
	Minute int
	Cue    string
}

// ExtractTimeTokens pulls an hour (and optional minute) plus any AM/PM or
// day-segment cue word out of the utterance. "noon" and "midnight" need no
// hour at all.
func ExtractTimeTokens(raw string) (TimeTokens, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return TimeTokens{}, false
	}
	// "1pm" -> "1 pm" so word boundaries hold below.
	text = digitLetterSeam.ReplaceAllString(text, "$1 $2")

	cue := findCue(text)
	if cue == "noon" || cue == "midnight" {
		return TimeTokens{Cue: cue}, true
	}

	if m := clockPattern.FindStringSubmatch(text); m != nil {
		tokens := TimeTokens{Cue: cue}
		tokens.Hour, _ = parseNumberToken(m[1])
		if m[2] != "" {
			tokens.Minute, _ = parseNumberToken(m[2])
		}
		return tokens, true
	}
	if m := wordHourPattern.FindStringSubmatch(text); m != nil {
		hour, _ := parseNumberToken(m[1])
		return TimeTokens{Hour: hour, Cue: cue}, true
	}
	return TimeTokens{}, false
}

// findCue returns the first day-segment cue word in the text. Expects
// digit-letter seams already split, so "1pm" arrives as "1 pm".
func findCue(text string) string {
	// "midnight" before "night" and "afternoon" before "noon": the longer
	// cue words contain the shorter ones.
	for _, cue := range []string{"midnight", "afternoon", "morning", "evening", "night", "noon"} {
		if strings.Contains(text, cue) {
			return cue
		}
	}
	if meridiemAMPattern.MatchString(text) {
		return "am"
	}
	if meridiemPMPattern.MatchString(text) {
		return "pm"
	}
	return ""
}

// ExtractClarificationCue parses a clarification answer strictly as
// AM/PM-indicating. Anything else fails.
func ExtractClarificationCue(raw string) (string, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return "", false
	}
	text = digitLetterSeam.ReplaceAllString(text, "$1 $2")
	switch findCue(text) {
	case "am", "morning":
		return "am", true
	case "pm", "afternoon", "evening", "night":
		return "pm", true
	}
	return "", false
}

var codePattern = regexp.MustCompile(`\b([A-Z0-9]{4,10})\b`)

// Confirmation codes are six characters.
const spokenCodeLength = 6

// Ordinary words that fit the code shape but are filler in spoken answers.
var codeFillerWords = map[string]bool{
	"CODE": true, "NUMBER": true, "PLEASE": true, "THANK": true, "THANKS": true,
	"BOOKING": true, "CANCEL": true, "CHECK": true, "HELLO": true, "SPELL": true,
	"UNDER": true, "LETTER": true, "DIGIT": true,
}

// ExtractReservationCode finds a short alphanumeric confirmation code.
// Callers tend to spell codes with pauses, so spaces between single
// characters are collapsed first.
func ExtractReservationCode(raw string) (string, bool) {
	text := strings.ToUpper(strings.TrimSpace(raw))
	if text == "" {
		return "", false
	}
	for _, source := range []string{collapseSpelledCode(text), text} {
		if code, ok := pickCode(source); ok {
			return code, true
		}
	}
	return "", false
}

// pickCode prefers candidates carrying a digit; a letter-only candidate is
// accepted only at the exact code length, so surrounding words don't pass as
// codes.
func pickCode(text string) (string, bool) {
	matches := codePattern.FindAllString(text, -1)
	for _, m := range matches {
		if strings.ContainsAny(m, "0123456789") {
			return m, true
		}
	}
	for _, m := range matches {
		if len(m) == spokenCodeLength && !codeFillerWords[m] {
			return m, true
		}
	}
	return "", false
}

// collapseSpelledCode joins runs of single characters: "A B 1 2 C D" -> "AB12CD".
func collapseSpelledCode(text string) string {
	fields := strings.Fields(text)
	var out []string
	var run strings.Builder
	for _, f := range fields {
		if len(f) == 1 {
			run.WriteString(f)
			continue
		}
		if run.Len() > 0 {
			out = append(out, run.String())
			run.Reset()
		}
		out = append(out, f)
	}
	if run.Len() > 0 {
		out = append(out, run.String())
	}
	return strings.Join(out, " ")
}
