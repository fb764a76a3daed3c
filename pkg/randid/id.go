// Package randid generates short random identifiers.
package randid

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// SessionLength is the length of pomodoro session ids. 36^8 ids keep
// collisions out of reach for the sessions one process holds.
const SessionLength = 8

var alphabetLen = big.NewInt(int64(len(alphabet)))

// Generate returns a random string of n lowercase alphanumeric characters.
func Generate(n int) string {
	if n <= 0 {
		return ""
	}

	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			panic("randid: crypto/rand failed: " + err.Error())
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b)
}
