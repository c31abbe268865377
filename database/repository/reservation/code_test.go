package reservationRepo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReservationCodeShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := newReservationCode()
		assert.Len(t, code, codeLength)
		for _, ch := range code {
			assert.True(t, strings.ContainsRune(codeCharset, ch), "unexpected character %q in %q", ch, code)
		}
	}
}

func TestCodeCharsetOmitsConfusablePairs(t *testing.T) {
	for _, ch := range "0O1I" {
		assert.NotContains(t, codeCharset, string(ch))
	}
}

func TestNewReservationCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		seen[newReservationCode()] = true
	}
	// 32^6 possibilities; 200 draws colliding down to a handful would mean
	// the generator is broken.
	assert.Greater(t, len(seen), 190)
}
