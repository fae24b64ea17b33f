package types

// ProposalInfo is a stored proposal together with where it lives.
type ProposalInfo struct {
	Address Pubkey `json:"address"`
	Proposal
}

type VoteInfo struct {
	Address Pubkey `json:"address"`
	Vote
}
