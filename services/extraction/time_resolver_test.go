package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func defaultResolver() TimeResolver {
	return TimeResolver{OpenHour: 9, CloseHour: 22}
}

func TestResolveWithCueWords(t *testing.T) {
	tr := defaultResolver()

	tests := []struct {
		name   string
		hour   int
		minute int
		cue    string
		status ResolutionStatus
		want   string
	}{
		{"morning maps to AM", 10, 0, "morning", TimeResolved, "10:00"},
		{"afternoon maps to PM", 1, 30, "afternoon", TimeResolved, "13:30"},
		{"evening maps to PM", 7, 0, "evening", TimeResolved, "19:00"},
		{"night maps to PM", 9, 0, "night", TimeResolved, "21:00"},
		{"pm maps twelve to noon", 12, 0, "pm", TimeResolved, "12:00"},
		{"noon pins twelve", 0, 0, "noon", TimeResolved, "12:00"},
		{"am morning hour outside window", 1, 0, "morning", TimeInvalid, ""},
		{"midnight outside window", 0, 0, "midnight", TimeInvalid, ""},
		{"am with hour above twelve", 14, 0, "am", TimeInvalid, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := tr.Resolve(tc.hour, tc.minute, tc.cue)
			assert.Equal(t, tc.status, res.Status)
			if tc.status == TimeResolved {
				assert.Equal(t, tc.want, res.Canonical())
			}
		})
	}
}

func TestResolveWithoutCue(t *testing.T) {
	tr := defaultResolver()

	// Hours 1-11 with no cue are always ambiguous, never window-checked yet.
	for hour := 1; hour <= 11; hour++ {
		res := tr.Resolve(hour, 0, "")
		assert.Equal(t, TimeAmbiguous, res.Status, "hour %d should be ambiguous", hour)
		assert.Equal(t, hour, res.Candidate)
	}

	// 13-22 are already 24-hour form and inside the window.
	for hour := 13; hour <= 22; hour++ {
		res := tr.Resolve(hour, 0, "")
		assert.Equal(t, TimeResolved, res.Status, "hour %d should resolve", hour)
		assert.Equal(t, hour, res.Hour)
	}

	// 0 and 23 are unambiguous but outside the service window.
	assert.Equal(t, TimeInvalid, tr.Resolve(0, 0, "").Status)
	assert.Equal(t, TimeInvalid, tr.Resolve(23, 0, "").Status)

	// A bare 12 is taken as noon.
	res := tr.Resolve(12, 15, "")
	assert.Equal(t, TimeResolved, res.Status)
	assert.Equal(t, "12:15", res.Canonical())
}

func TestResolveRejectsOutOfRangeInput(t *testing.T) {
	tr := defaultResolver()
	assert.Equal(t, TimeInvalid, tr.Resolve(24, 0, "").Status)
	assert.Equal(t, TimeInvalid, tr.Resolve(-1, 0, "").Status)
	assert.Equal(t, TimeInvalid, tr.Resolve(7, 60, "pm").Status)
	assert.Equal(t, TimeInvalid, tr.Resolve(7, -1, "pm").Status)
}

func TestServiceWindowInclusiveBounds(t *testing.T) {
	tr := defaultResolver()

	assert.Equal(t, TimeResolved, tr.Resolve(9, 0, "am").Status)
	assert.Equal(t, TimeResolved, tr.Resolve(10, 0, "pm").Status)
	assert.Equal(t, TimeResolved, tr.Resolve(22, 0, "").Status)
	assert.Equal(t, TimeInvalid, tr.Resolve(22, 1, "").Status)
	assert.Equal(t, TimeInvalid, tr.Resolve(8, 59, "am").Status)
}

func TestResolveIsDeterministic(t *testing.T) {
	tr := defaultResolver()
	cues := []string{"", "am", "pm", "morning", "afternoon", "evening", "night", "noon", "midnight"}
	for hour := 0; hour <= 23; hour++ {
		for _, cue := range cues {
			first := tr.Resolve(hour, 30, cue)
			for i := 0; i < 3; i++ {
				assert.Equal(t, first, tr.Resolve(hour, 30, cue), "hour=%d cue=%q", hour, cue)
			}
		}
	}
}
