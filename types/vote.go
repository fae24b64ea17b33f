package types

var VoteDiscriminator = AccountDiscriminator("Vote")

const VoteSpace = DiscriminatorLength + 1 + PubkeyLength + PubkeyLength + 1

// Vote lives at derive(proposal, voter). Choice is opaque to the ledger.
type Vote struct {
	Bump       uint8  `json:"bump"`
	Voter      Pubkey `json:"voter"`
	ProposalId Pubkey `json:"proposal_id"`
	Choice     uint8  `json:"choice"`
}

func (v *Vote) MarshalAccount() ([]byte, error) {
	return marshalAccount(VoteDiscriminator, *v)
}

func UnmarshalVoteAccount(dat []byte) (v *Vote, err error) {
	v = new(Vote)
	if err = unmarshalAccount(VoteDiscriminator, dat, v); err != nil {
		return nil, err
	}
	return
}
