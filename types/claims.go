package types

import "github.com/pkg/errors"

// Claims carries the identities that authorized the current transaction.
// It is built once at the host boundary, after every signature has been
// verified, and handed to instruction handlers.
type Claims struct {
	signers map[Pubkey]struct{}
}

func NewClaims(signers ...Pubkey) *Claims {
	c := &Claims{signers: make(map[Pubkey]struct{}, len(signers))}
	for _, s := range signers {
		c.signers[s] = struct{}{}
	}
	return c
}

func (c *Claims) Signed(pk Pubkey) bool {
	if c == nil {
		return false
	}
	_, ok := c.signers[pk]
	return ok
}

// Require fails with ErrAccountNotSigner when pk did not sign in the given role.
func (c *Claims) Require(role string, pk Pubkey) error {
	if !c.Signed(pk) {
		return errors.Wrapf(ErrAccountNotSigner, "%s %s", role, pk)
	}
	return nil
}
