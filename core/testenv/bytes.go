package testenv

import (
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"

	"github.com/stretchr/testify/assert"
)

// RandBytes fills p with pseudorandom bytes.
func RandBytes(p []byte) {
	rand.Read(p)
}

// BytesFromHex parses a byte slice from an upper-case hexadecimal string.
// Characters outside [0-9A-F] act as comments and are stripped before decoding.
func BytesFromHex(input string) []byte {
	filtered := strings.Map(func(ch rune) rune {
		if !strings.ContainsRune("0123456789ABCDEF", ch) {
			return -1
		}
		return ch
	}, input)
	b, e := hex.DecodeString(filtered)
	if e != nil {
		panic(fmt.Errorf("invalid hexadecimal input: %w", e))
	}
	return b
}

// BytesEqual asserts that two byte slices have the same content,
// treating a nil slice and an empty slice as equal.
func BytesEqual(a *assert.Assertions, expected, actual []byte, msgAndArgs ...any) bool {
	if len(expected)+len(actual) == 0 {
		return true
	}
	return a.Equal(expected, actual, msgAndArgs...)
}
