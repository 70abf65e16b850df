package security

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
)

const maxOTPDigits = 10

// GenerateOTP returns a uniformly random numeric code with the given number of
// digits. Leading zeros are kept.
func GenerateOTP(digits int) (string, error) {
	if digits <= 0 || digits > maxOTPDigits {
		return "", fmt.Errorf("otp digits must be between 1 and %d", maxOTPDigits)
	}
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

// EqualCodes compares two codes in constant time after trimming whitespace.
func EqualCodes(expected, provided string) bool {
	e := strings.TrimSpace(expected)
	p := strings.TrimSpace(provided)
	if e == "" || p == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(e), []byte(p)) == 1
}
