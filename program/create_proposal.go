package program

import (
	"github.com/calehh/signedvoting/types"
)

type CreateProposalAccounts struct {
	Proposal types.Pubkey
	Author   types.Pubkey
	Payer    types.Pubkey
}

// CreateProposal stores a new proposal at derive(author, hash), funded by
// payer. Author and payer must both have signed.
func CreateProposal(l Ledger, claims *types.Claims, accts CreateProposalAccounts, uri string, hash types.ContentHash) (*types.Proposal, error) {
	if err := claims.Require("author", accts.Author); err != nil {
		return nil, err
	}
	if err := claims.Require("payer", accts.Payer); err != nil {
		return nil, err
	}
	addr, bump, err := ProposalAddress(accts.Author, hash)
	if err != nil {
		return nil, err
	}
	if addr != accts.Proposal {
		return nil, wrapAccount(types.ErrConstraintSeeds, "proposal", accts.Proposal)
	}
	proposal := &types.Proposal{
		Bump:   bump,
		Author: accts.Author,
		Payer:  accts.Payer,
		Uri:    uri,
		Hash:   hash,
	}
	if err = initAccount(l, accts.Payer, addr, types.ProposalSpace(uri), proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}
