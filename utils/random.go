package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateCode returns an uppercase hex string of n random bytes.
func GenerateCode(n int) (string, error) {
	byt := make([]byte, n)
	if _, err := rand.Read(byt); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(byt)), nil
}

// GeneratePassID mints the external-facing ticket identifier printed on the
// pass. 10 random bytes keep collisions out of reach at marketplace scale;
// uniqueness is still enforced by the store's index.
func GeneratePassID() (string, error) {
	code, err := GenerateCode(10)
	if err != nil {
		return "", err
	}
	return "PASS-" + code, nil
}

// QRPayload builds the string encoded into a ticket's QR code. The scanner
// only needs the pass id; the numeric ids are there for offline display.
func QRPayload(passID string, eventNo, ticketNo int64) string {
	return fmt.Sprintf("TKT|%s|%d|%d", passID, eventNo, ticketNo)
}
