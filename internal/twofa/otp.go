// Package twofa implements the one-time email code lifecycle: issuance,
// verification with attempt tracking, and time-based expiry. One live
// challenge exists per credentials row.
package twofa

import (
	"crypto/rand"
)

// DefaultCodeLength is the number of digits in a 2FA code unless configured otherwise.
const DefaultCodeLength = 6

// GenerateCode returns a numeric one-time code of the given length, each digit
// uniformly distributed. Uses crypto/rand for randomness.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}
	b := make([]byte, length)
	for i := 0; i < length; i++ {
		d, err := randomDigit()
		if err != nil {
			return "", err
		}
		b[i] = '0' + d
	}
	return string(b), nil
}

// randomDigit draws a uniform digit 0-9 by rejection sampling; a plain
// byte mod 10 would skew toward 0-5.
func randomDigit() (byte, error) {
	var buf [1]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, err
		}
		if buf[0] < 250 {
			return buf[0] % 10, nil
		}
	}
}
