// Package pda derives program addresses: storage keys computed from a seed
// tuple and a program id, guaranteed to lie off the ed25519 curve so that
// no private key can ever sign for them.
package pda

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/calehh/signedvoting/types"
	"github.com/pkg/errors"
)

const (
	MaxSeeds      = 16
	MaxSeedLength = 32
)

var marker = []byte("ProgramDerivedAddress")

var (
	ErrMaxSeedsExceeded      = errors.New("max seeds exceeded")
	ErrMaxSeedLengthExceeded = errors.New("max seed length exceeded")
	ErrInvalidSeeds          = errors.New("provided seeds do not result in a valid address")
	ErrNoViableBump          = errors.New("unable to find a viable program address bump seed")
)

// IsOnCurve reports whether b decodes to a point on edwards25519.
func IsOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// CreateProgramAddress hashes seeds (bump included, if any) with the
// program id. It fails when the result is a valid curve point.
func CreateProgramAddress(seeds [][]byte, programID types.Pubkey) (addr types.Pubkey, err error) {
	if len(seeds) > MaxSeeds {
		return addr, ErrMaxSeedsExceeded
	}
	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return addr, errors.Wrapf(ErrMaxSeedLengthExceeded, "seed of %d bytes", len(seed))
		}
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write(marker)
	copy(addr[:], h.Sum(nil))
	if IsOnCurve(addr[:]) {
		return types.Pubkey{}, ErrInvalidSeeds
	}
	return
}

// FindProgramAddress searches bumps from 255 down to 1 and returns the
// first off-curve address together with its bump.
func FindProgramAddress(seeds [][]byte, programID types.Pubkey) (addr types.Pubkey, bump uint8, err error) {
	if len(seeds) >= MaxSeeds {
		return addr, 0, ErrMaxSeedsExceeded
	}
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for b := 255; b >= 1; b-- {
		withBump[len(seeds)] = []byte{uint8(b)}
		addr, err = CreateProgramAddress(withBump, programID)
		if err == nil {
			return addr, uint8(b), nil
		}
		if !errors.Is(err, ErrInvalidSeeds) {
			return types.Pubkey{}, 0, err
		}
	}
	return types.Pubkey{}, 0, ErrNoViableBump
}

// VerifyProgramAddress checks a stored (address, bump) pair without
// searching again.
func VerifyProgramAddress(seeds [][]byte, bump uint8, programID types.Pubkey, addr types.Pubkey) bool {
	withBump := append(append([][]byte{}, seeds...), []byte{bump})
	derived, err := CreateProgramAddress(withBump, programID)
	if err != nil {
		return false
	}
	return derived == addr
}
