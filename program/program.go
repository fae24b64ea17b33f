// Package program implements the signedvoting instructions. Handlers read
// and create accounts only through Ledger and trust only the Claims they
// are given.
package program

import (
	"github.com/calehh/signedvoting/pda"
	"github.com/calehh/signedvoting/state"
	"github.com/calehh/signedvoting/types"
)

var ID = types.MustPubkeyFromBase58("8Z52ChpaMPvvnSVjSrQmJirxiqpuNvQSprUebVWXyaCs")

type AccountReader interface {
	GetAccount(addr types.Pubkey) (*state.Account, error)
}

// Ledger is the slice of the account store the instructions need.
type Ledger interface {
	AccountReader
	CreateAccount(payer, addr, owner types.Pubkey, space uint64) (*state.Account, error)
	SetAccountData(addr types.Pubkey, dat []byte) error
}

var _ Ledger = (*state.State)(nil)

func ProposalSeeds(author types.Pubkey, hash types.ContentHash) [][]byte {
	return [][]byte{author[:], hash[:]}
}

func VoteSeeds(proposal, voter types.Pubkey) [][]byte {
	return [][]byte{proposal[:], voter[:]}
}

func ProposalAddress(author types.Pubkey, hash types.ContentHash) (types.Pubkey, uint8, error) {
	return pda.FindProgramAddress(ProposalSeeds(author, hash), ID)
}

func VoteAddress(proposal, voter types.Pubkey) (types.Pubkey, uint8, error) {
	return pda.FindProgramAddress(VoteSeeds(proposal, voter), ID)
}

// LoadProposal reads a proposal record, checking owner, discriminator and
// that addr is the one its stored seeds and bump derive.
func LoadProposal(l AccountReader, addr types.Pubkey) (*types.Proposal, error) {
	a, err := l.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	if a == nil || len(a.Data) == 0 {
		return nil, wrapAccount(types.ErrAccountNotInitialized, "proposal", addr)
	}
	if a.Owner != ID {
		return nil, wrapAccount(types.ErrAccountOwnedByWrongProgram, "proposal", addr)
	}
	p, err := types.UnmarshalProposalAccount(a.Data)
	if err != nil {
		return nil, wrapAccount(err, "proposal", addr)
	}
	if !pda.VerifyProgramAddress(ProposalSeeds(p.Author, p.Hash), p.Bump, ID, addr) {
		return nil, wrapAccount(types.ErrConstraintSeeds, "proposal", addr)
	}
	return p, nil
}

func LoadVote(l AccountReader, addr types.Pubkey) (*types.Vote, error) {
	a, err := l.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	if a == nil || len(a.Data) == 0 {
		return nil, wrapAccount(types.ErrAccountNotInitialized, "vote", addr)
	}
	if a.Owner != ID {
		return nil, wrapAccount(types.ErrAccountOwnedByWrongProgram, "vote", addr)
	}
	v, err := types.UnmarshalVoteAccount(a.Data)
	if err != nil {
		return nil, wrapAccount(err, "vote", addr)
	}
	if !pda.VerifyProgramAddress(VoteSeeds(v.ProposalId, v.Voter), v.Bump, ID, addr) {
		return nil, wrapAccount(types.ErrConstraintSeeds, "vote", addr)
	}
	return v, nil
}

type record interface {
	MarshalAccount() ([]byte, error)
}

// initAccount is the create-if-absent step shared by both instructions.
func initAccount(l Ledger, payer, addr types.Pubkey, space uint64, rec record) error {
	dat, err := rec.MarshalAccount()
	if err != nil {
		return err
	}
	if _, err = l.CreateAccount(payer, addr, ID, space); err != nil {
		return err
	}
	return l.SetAccountData(addr, dat)
}
