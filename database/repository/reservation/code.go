package reservationRepo

import "crypto/rand"

// Confirmation codes avoid 0/O and 1/I, which are indistinguishable when
// read out over the phone.
const codeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 6

// newReservationCode generates a random confirmation code. Uniqueness is
// enforced by the caller via an existence check plus the unique index.
func newReservationCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		panic("reservation code entropy unavailable: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return string(buf)
}
