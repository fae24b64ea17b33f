package state

import (
	"github.com/calehh/signedvoting/types"
	"github.com/ethereum/go-ethereum/rlp"
)

const (
	AccountStorageOverhead = 128
	LamportsPerByteYear    = 3480
	ExemptionThreshold     = 2
)

// RentExemptMinimum is the balance an account of the given data size must
// hold to be created.
func RentExemptMinimum(space uint64) uint64 {
	return (AccountStorageOverhead + space) * LamportsPerByteYear * ExemptionThreshold
}

type Account struct {
	Address  types.Pubkey `json:"address"`
	Owner    types.Pubkey `json:"owner"`
	Lamports uint64       `json:"lamports"`
	Nonce    uint64       `json:"nonce"`
	Data     []byte       `json:"data"`
}

func (a *Account) Clone() *Account {
	n := *a
	if a.Data != nil {
		n.Data = append([]byte{}, a.Data...)
	}
	return &n
}

func (a *Account) IsSystemAccount() bool {
	return a.Owner == types.SystemProgramID && len(a.Data) == 0
}

func (a *Account) Marshal() ([]byte, error) {
	return rlp.EncodeToBytes(a)
}

func UnmarshalAccount(dat []byte) (a *Account, err error) {
	a = new(Account)
	if err = rlp.DecodeBytes(dat, a); err != nil {
		return nil, err
	}
	return
}
