package rsvp

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

const checkInCodeBytes = 10

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewCheckInCode mints the opaque code printed on badges and QR passes.
// It is generated once, at first confirmation, and never rotated so that
// already-issued badges keep working.
func NewCheckInCode() (string, error) {
	buf := make([]byte, checkInCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(codeEncoding.EncodeToString(buf)), nil
}
