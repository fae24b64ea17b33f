package types

import (
	"encoding/json"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const PubkeyLength = 32

var ErrInvalidPubkey = errors.New("invalid pubkey")

// Pubkey is a 32 byte identity: either an ed25519 public key or a derived
// program address. Its text form is base58.
type Pubkey [PubkeyLength]byte

// SystemProgramID owns every plain lamport-holding account.
var SystemProgramID = Pubkey{}

func PubkeyFromBytes(b []byte) (pk Pubkey, err error) {
	if len(b) != PubkeyLength {
		err = errors.Wrapf(ErrInvalidPubkey, "length %d", len(b))
		return
	}
	copy(pk[:], b)
	return
}

func PubkeyFromBase58(s string) (pk Pubkey, err error) {
	b, err := base58.Decode(s)
	if err != nil {
		return pk, errors.Wrap(ErrInvalidPubkey, err.Error())
	}
	return PubkeyFromBytes(b)
}

func MustPubkeyFromBase58(s string) Pubkey {
	pk, err := PubkeyFromBase58(s)
	if err != nil {
		panic(err)
	}
	return pk
}

func (pk Pubkey) Bytes() []byte {
	return pk[:]
}

func (pk Pubkey) String() string {
	return base58.Encode(pk[:])
}

func (pk Pubkey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

func (pk *Pubkey) UnmarshalText(dat []byte) (err error) {
	*pk, err = PubkeyFromBase58(string(dat))
	return
}

var _ json.Marshaler = Pubkey{}

func (pk Pubkey) MarshalJSON() ([]byte, error) {
	return json.Marshal(pk.String())
}

func (pk *Pubkey) UnmarshalJSON(dat []byte) error {
	var s string
	if err := json.Unmarshal(dat, &s); err != nil {
		return err
	}
	return pk.UnmarshalText([]byte(s))
}
