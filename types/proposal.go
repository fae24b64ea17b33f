package types

var ProposalDiscriminator = AccountDiscriminator("Proposal")

// Proposal lives at derive(author, hash) and is never modified.
type Proposal struct {
	Bump   uint8       `json:"bump"`
	Author Pubkey      `json:"author"`
	Payer  Pubkey      `json:"payer"`
	Uri    string      `json:"uri"`
	Hash   ContentHash `json:"hash"`
}

// ProposalSpace is the account size needed for a proposal with the given uri.
func ProposalSpace(uri string) uint64 {
	return DiscriminatorLength + 1 + PubkeyLength + PubkeyLength + 4 + uint64(len(uri)) + 32
}

func (p *Proposal) MarshalAccount() ([]byte, error) {
	return marshalAccount(ProposalDiscriminator, *p)
}

func UnmarshalProposalAccount(dat []byte) (p *Proposal, err error) {
	p = new(Proposal)
	if err = unmarshalAccount(ProposalDiscriminator, dat, p); err != nil {
		return nil, err
	}
	return
}
