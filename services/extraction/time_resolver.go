package extraction

import "fmt"

// ResolutionStatus classifies the outcome of resolving a spoken time.
type ResolutionStatus string

const (
	TimeResolved  ResolutionStatus = "RESOLVED"
	TimeAmbiguous ResolutionStatus = "AMBIGUOUS"
	TimeInvalid   ResolutionStatus = "INVALID"
)

// TimeResolution is the result of normalizing a time candidate.
// Hour/Minute are canonical 24-hour values when Status is TimeResolved;
// Candidate holds the tentative hour when Status is TimeAmbiguous.
type TimeResolution struct {
	Status    ResolutionStatus
	Hour      int
	Minute    int
	Candidate int
}

// Canonical formats a resolved time as HH:MM.
func (r TimeResolution) Canonical() string {
	return fmt.Sprintf("%02d:%02d", r.Hour, r.Minute)
}

// TimeResolver normalizes hour/minute/cue triples into canonical 24-hour
// times. It is stateless: identical inputs always produce identical results.
type TimeResolver struct {
	OpenHour  int // service window start, inclusive
	CloseHour int // service window end, inclusive (on the hour)
}

// Cue words mapped to a day segment. "noon" and "midnight" pin the hour.
var cueSegments = map[string]string{
	"am":        "am",
	"a.m.":      "am",
	"morning":   "am",
	"pm":        "pm",
	"p.m.":      "pm",
	"afternoon": "pm",
	"evening":   "pm",
	"night":     "pm",
	"noon":      "noon",
	"midnight":  "midnight",
}

// Resolve normalizes an hour (and optional minute) plus an optional cue word
// into a canonical 24-hour time.
//
// With a cue the mapping is deterministic. Without one, hours 1-11 are
// ambiguous and the caller must ask once; 0 and 13-23 are already 24-hour
// form; a bare 12 is taken as noon. Resolved times outside the service
// window are invalid — ambiguity is reported before any window check, so a
// clarified answer can still fail validation.
func (tr TimeResolver) Resolve(hour, minute int, cue string) TimeResolution {
	if minute < 0 || minute > 59 {
		return TimeResolution{Status: TimeInvalid}
	}

	segment, hasCue := cueSegments[cue]
	if cue != "" && !hasCue {
		// Unknown cue words carry no signal; treat as absent.
		segment, hasCue = "", false
	}

	var h int
	switch {
	case hasCue && segment == "noon":
		h = 12
	case hasCue && segment == "midnight":
		h = 0
	case hasCue && segment == "am":
		switch {
		case hour == 12:
			h = 0
		case hour >= 0 && hour <= 11:
			h = hour
		default:
			return TimeResolution{Status: TimeInvalid}
		}
	case hasCue && segment == "pm":
		switch {
		case hour == 12:
			h = 12
		case hour >= 1 && hour <= 11:
			h = hour + 12
		default:
			return TimeResolution{Status: TimeInvalid}
		}
	default:
		// No cue word: decide by the hour alone.
		switch {
		case hour >= 1 && hour <= 11:
			return TimeResolution{Status: TimeAmbiguous, Candidate: hour, Minute: minute}
		case hour == 0 || (hour >= 12 && hour <= 23):
			h = hour
		default:
			return TimeResolution{Status: TimeInvalid}
		}
	}

	if !tr.withinWindow(h, minute) {
		return TimeResolution{Status: TimeInvalid}
	}
	return TimeResolution{Status: TimeResolved, Hour: h, Minute: minute}
}

// withinWindow checks the service window, inclusive on both ends.
func (tr TimeResolver) withinWindow(hour, minute int) bool {
	total := hour*60 + minute
	return total >= tr.OpenHour*60 && total <= tr.CloseHour*60
}
