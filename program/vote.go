package program

import (
	"github.com/calehh/signedvoting/types"
	"github.com/pkg/errors"
)

type VoteAccounts struct {
	Vote     types.Pubkey
	Proposal types.Pubkey
	Voter    types.Pubkey
	Payer    types.Pubkey
}

// Vote records voter's choice on an existing proposal. The payer must be
// the one recorded on the proposal; a second vote by the same voter lands
// on the same address and is refused by the account store.
func Vote(l Ledger, claims *types.Claims, accts VoteAccounts, choice uint8) (*types.Vote, error) {
	if err := claims.Require("voter", accts.Voter); err != nil {
		return nil, err
	}
	if err := claims.Require("payer", accts.Payer); err != nil {
		return nil, err
	}
	proposal, err := LoadProposal(l, accts.Proposal)
	if err != nil {
		return nil, err
	}
	if accts.Payer != proposal.Payer {
		return nil, errors.Wrapf(ErrInvalidPayer, "got %s, proposal payer %s", accts.Payer, proposal.Payer)
	}
	addr, bump, err := VoteAddress(accts.Proposal, accts.Voter)
	if err != nil {
		return nil, err
	}
	if addr != accts.Vote {
		return nil, wrapAccount(types.ErrConstraintSeeds, "vote", accts.Vote)
	}
	vote := &types.Vote{
		Bump:       bump,
		Voter:      accts.Voter,
		ProposalId: accts.Proposal,
		Choice:     choice,
	}
	if err = initAccount(l, accts.Payer, addr, types.VoteSpace, vote); err != nil {
		return nil, err
	}
	return vote, nil
}
