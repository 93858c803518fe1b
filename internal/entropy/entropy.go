// Package entropy supplies the random number generators used for guest
// address-space layout randomization.
//
// Layouts are randomized with a ChaCha8 stream. The default stream is keyed
// from crypto/rand so that every kernel start produces a different layout;
// NewSeeded derives the key from a 64-bit seed so a layout can be reproduced
// exactly (tests, the CLI's --seed flag).
package entropy

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// New returns a ChaCha8-backed generator keyed from the operating system's
// secure random source.
func New() *rand.Rand {
	var key [32]byte
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = crand.Read(key[:])
	return rand.New(rand.NewChaCha8(key))
}

// NewSeeded returns a deterministic ChaCha8-backed generator for seed.
func NewSeeded(seed uint64) *rand.Rand {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[0:8], seed)
	binary.LittleEndian.PutUint64(key[8:16], ^seed)
	return rand.New(rand.NewChaCha8(key))
}
