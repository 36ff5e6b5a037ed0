//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

package env

import (
	"crypto/rand"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20"
)

// SeedSize defines the PRG seed size in bytes.
const SeedSize = chacha20.KeySize

// PRG implements a deterministic pseudorandom generator as an
// io.Reader. The output is the ChaCha20 keystream of the seed. PRG is
// not safe for concurrent use.
type PRG struct {
	cipher *chacha20.Cipher
}

// NewPRG creates a PRG from the seed.
func NewPRG(seed []byte) (*PRG, error) {
	if len(seed) != SeedSize {
		return nil, errors.Errorf("invalid seed size %d, expected %d",
			len(seed), SeedSize)
	}
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(seed, nonce[:])
	if err != nil {
		return nil, errors.Wrap(err, "chacha20")
	}
	return &PRG{
		cipher: c,
	}, nil
}

// NewRandomPRG creates a PRG seeded from crypto/rand.
func NewRandomPRG() (*PRG, error) {
	var seed [SeedSize]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, errors.Wrap(err, "seed PRG")
	}
	return NewPRG(seed[:])
}

// Read fills p with pseudorandom bytes. It never fails.
func (prg *PRG) Read(p []byte) (int, error) {
	clear(p)
	prg.cipher.XORKeyStream(p, p)
	return len(p), nil
}
