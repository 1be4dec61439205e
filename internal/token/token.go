package token

import (
	"crypto/rand"
	"encoding/hex"
)

// Size is the number of random bytes backing a share token.
// 8 bytes (16 hex characters) keeps links short while leaving
// enumeration impractical.
const Size = 8

// New returns a new unguessable share token.
func New() string {
	p := make([]byte, Size)
	if _, err := rand.Read(p); err != nil {
		panic(err) // the system random source is broken
	}
	return hex.EncodeToString(p)
}
