package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// GenerateDeviceKey mints a scanner device secret. The plaintext is shown
// to the organizer once; only the bcrypt hash is stored.
func GenerateDeviceKey() (plaintext, hash string, err error) {
	code, err := GenerateCode(16)
	if err != nil {
		return "", "", err
	}
	plaintext = "SCN-" + code

	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return plaintext, string(h), nil
}

// CheckDeviceKey compares a presented key against the stored hash in
// constant time.
func CheckDeviceKey(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
