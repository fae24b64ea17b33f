package types

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"

	"github.com/near/borsh-go"
	"github.com/pkg/errors"
)

const DiscriminatorLength = 8

// AccountDiscriminator prefixes every program-owned record so that one
// record kind can never be read back as another.
func AccountDiscriminator(name string) (d [DiscriminatorLength]byte) {
	h := sha256.Sum256([]byte("account:" + name))
	copy(d[:], h[:DiscriminatorLength])
	return
}

func marshalAccount(disc [DiscriminatorLength]byte, v any) ([]byte, error) {
	body, err := borsh.Serialize(v)
	if err != nil {
		return nil, err
	}
	dat := make([]byte, 0, DiscriminatorLength+len(body))
	dat = append(dat, disc[:]...)
	return append(dat, body...), nil
}

func unmarshalAccount(disc [DiscriminatorLength]byte, dat []byte, v any) error {
	if len(dat) < DiscriminatorLength || !bytes.Equal(dat[:DiscriminatorLength], disc[:]) {
		return ErrAccountDiscriminatorMismatch
	}
	if err := borsh.Deserialize(v, dat[DiscriminatorLength:]); err != nil {
		return errors.Wrap(err, "decode account")
	}
	return nil
}

type ContentHash [32]byte

func (h ContentHash) String() string {
	return hex.EncodeToString(h[:])
}

func (h ContentHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *ContentHash) UnmarshalText(dat []byte) error {
	b, err := hex.DecodeString(string(dat))
	if err != nil {
		return err
	}
	if len(b) != len(h) {
		return errors.Errorf("content hash must be %d bytes, got %d", len(h), len(b))
	}
	copy(h[:], b)
	return nil
}
