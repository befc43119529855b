// Package cards holds pure card-number helpers: generation and masking.
package cards

import (
	"crypto/rand"
	"fmt"
)

const numberLength = 16

// GenerateNumber returns a random 16-digit card number. Uniqueness is
// enforced by the store; callers regenerate on conflict.
func GenerateNumber() (string, error) {
	b := make([]byte, numberLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate card number: %w", err)
	}
	digits := make([]byte, numberLength)
	for i, v := range b {
		digits[i] = v%10 + '0'
	}
	return string(digits), nil
}
