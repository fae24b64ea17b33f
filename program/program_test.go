package program

import (
	"bytes"
	"testing"

	"github.com/calehh/signedvoting/state"
	"github.com/calehh/signedvoting/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ProgramTestSuite struct {
	suite.Suite
	db *state.StateDB
	st *state.State

	author, payer, other types.Pubkey
	v1, v2               types.Pubkey
	hash                 types.ContentHash
	proposal             types.Pubkey
}

func TestProgramTestSuite(t *testing.T) {
	suite.Run(t, new(ProgramTestSuite))
}

func (s *ProgramTestSuite) SetupTest() {
	db, err := state.NewStateDB(s.T().TempDir(), cmtlog.NewNopLogger())
	s.Require().NoError(err)
	s.db = db
	s.st = db.NewState()

	s.author = types.Pubkey{0xA0}
	s.payer = types.Pubkey{0xB0}
	s.other = types.Pubkey{0xB1}
	s.v1 = types.Pubkey{0xC1}
	s.v2 = types.Pubkey{0xC2}
	copy(s.hash[:], bytes.Repeat([]byte{0xAA}, 32))
	for _, pk := range []types.Pubkey{s.payer, s.other} {
		s.Require().NoError(s.st.AddAccount(pk, 100_000_000))
	}
	s.proposal, _, err = ProposalAddress(s.author, s.hash)
	s.Require().NoError(err)
}

func (s *ProgramTestSuite) TearDownTest() {
	s.Require().NoError(s.db.Close())
}

func (s *ProgramTestSuite) createProposal() *types.Proposal {
	p, err := CreateProposal(s.st, types.NewClaims(s.author, s.payer), CreateProposalAccounts{
		Proposal: s.proposal,
		Author:   s.author,
		Payer:    s.payer,
	}, "ipfs://Qm123", s.hash)
	s.Require().NoError(err)
	return p
}

func (s *ProgramTestSuite) vote(voter, payer types.Pubkey, choice uint8) (*types.Vote, error) {
	addr, _, err := VoteAddress(s.proposal, voter)
	s.Require().NoError(err)
	return Vote(s.st, types.NewClaims(voter, payer), VoteAccounts{
		Vote:     addr,
		Proposal: s.proposal,
		Voter:    voter,
		Payer:    payer,
	}, choice)
}

func (s *ProgramTestSuite) TestCreateProposal() {
	p := s.createProposal()
	_, bump, err := ProposalAddress(s.author, s.hash)
	s.Require().NoError(err)
	s.Equal(bump, p.Bump)

	acnt, err := s.st.GetAccount(s.proposal)
	s.Require().NoError(err)
	s.Equal(ID, acnt.Owner)
	s.Len(acnt.Data, int(types.ProposalSpace("ipfs://Qm123")))
	s.Equal(state.RentExemptMinimum(types.ProposalSpace("ipfs://Qm123")), acnt.Lamports)

	got, err := LoadProposal(s.st, s.proposal)
	s.Require().NoError(err)
	s.Equal(p, got)
	s.Equal(s.author, got.Author)
	s.Equal(s.payer, got.Payer)
	s.Equal("ipfs://Qm123", got.Uri)
	s.Equal(s.hash, got.Hash)
}

func (s *ProgramTestSuite) TestCreateProposalTwice() {
	s.createProposal()
	_, err := CreateProposal(s.st, types.NewClaims(s.author, s.other), CreateProposalAccounts{
		Proposal: s.proposal,
		Author:   s.author,
		Payer:    s.other,
	}, "ipfs://other", s.hash)
	s.ErrorIs(err, types.ErrAccountAlreadyInUse)

	got, err := LoadProposal(s.st, s.proposal)
	s.Require().NoError(err)
	s.Equal(s.payer, got.Payer)
	s.Equal("ipfs://Qm123", got.Uri)
}

func (s *ProgramTestSuite) TestCreateProposalRequiresSignatures() {
	accts := CreateProposalAccounts{Proposal: s.proposal, Author: s.author, Payer: s.payer}
	_, err := CreateProposal(s.st, types.NewClaims(s.payer), accts, "ipfs://Qm123", s.hash)
	s.ErrorIs(err, types.ErrAccountNotSigner)
	_, err = CreateProposal(s.st, types.NewClaims(s.author), accts, "ipfs://Qm123", s.hash)
	s.ErrorIs(err, types.ErrAccountNotSigner)
}

func (s *ProgramTestSuite) TestCreateProposalWrongAddress() {
	_, err := CreateProposal(s.st, types.NewClaims(s.author, s.payer), CreateProposalAccounts{
		Proposal: types.Pubkey{0xDD},
		Author:   s.author,
		Payer:    s.payer,
	}, "ipfs://Qm123", s.hash)
	s.ErrorIs(err, types.ErrConstraintSeeds)
}

func (s *ProgramTestSuite) TestCreateProposalInsufficientFunds() {
	poor := types.Pubkey{0xB2}
	s.Require().NoError(s.st.AddAccount(poor, 1))
	_, err := CreateProposal(s.st, types.NewClaims(s.author, poor), CreateProposalAccounts{
		Proposal: s.proposal,
		Author:   s.author,
		Payer:    poor,
	}, "ipfs://Qm123", s.hash)
	s.ErrorIs(err, types.ErrInsufficientFunds)
	s.Equal(types.KindInsufficientFunds, types.KindOf(err))
}

func (s *ProgramTestSuite) TestVote() {
	s.createProposal()
	v, err := s.vote(s.v1, s.payer, 1)
	s.Require().NoError(err)

	addr, bump, err := VoteAddress(s.proposal, s.v1)
	s.Require().NoError(err)
	s.Equal(bump, v.Bump)

	got, err := LoadVote(s.st, addr)
	s.Require().NoError(err)
	s.Equal(s.v1, got.Voter)
	s.Equal(s.proposal, got.ProposalId)
	s.Equal(uint8(1), got.Choice)
}

func (s *ProgramTestSuite) TestVoteTwice() {
	s.createProposal()
	_, err := s.vote(s.v1, s.payer, 1)
	s.Require().NoError(err)

	_, err = s.vote(s.v1, s.payer, 0)
	s.ErrorIs(err, types.ErrAccountAlreadyInUse)
	s.Equal(types.KindDuplicateRecord, types.KindOf(err))

	addr, _, err := VoteAddress(s.proposal, s.v1)
	s.Require().NoError(err)
	got, err := LoadVote(s.st, addr)
	s.Require().NoError(err)
	s.Equal(uint8(1), got.Choice)
}

func (s *ProgramTestSuite) TestVoteInvalidPayer() {
	s.createProposal()
	_, err := s.vote(s.v2, s.other, 1)
	s.ErrorIs(err, ErrInvalidPayer)
	s.Equal(uint32(6000), types.CodeOf(err))

	addr, _, err := VoteAddress(s.proposal, s.v2)
	s.Require().NoError(err)
	acnt, err := s.st.GetAccount(addr)
	s.Require().NoError(err)
	s.Nil(acnt)
}

func (s *ProgramTestSuite) TestVoteRequiresSignatures() {
	s.createProposal()
	addr, _, err := VoteAddress(s.proposal, s.v1)
	s.Require().NoError(err)
	accts := VoteAccounts{Vote: addr, Proposal: s.proposal, Voter: s.v1, Payer: s.payer}
	_, err = Vote(s.st, types.NewClaims(s.payer), accts, 1)
	s.ErrorIs(err, types.ErrAccountNotSigner)
	_, err = Vote(s.st, types.NewClaims(s.v1), accts, 1)
	s.ErrorIs(err, types.ErrAccountNotSigner)
}

func (s *ProgramTestSuite) TestVoteUnknownProposal() {
	_, err := s.vote(s.v1, s.payer, 1)
	s.ErrorIs(err, types.ErrAccountNotInitialized)
}

func (s *ProgramTestSuite) TestVoteWrongAddress() {
	s.createProposal()
	other, _, err := VoteAddress(s.proposal, s.v2)
	s.Require().NoError(err)
	_, err = Vote(s.st, types.NewClaims(s.v1, s.payer), VoteAccounts{
		Vote:     other,
		Proposal: s.proposal,
		Voter:    s.v1,
		Payer:    s.payer,
	}, 1)
	s.ErrorIs(err, types.ErrConstraintSeeds)
}

func (s *ProgramTestSuite) TestVoteOnForeignAccount() {
	s.createProposal()
	foreign := types.Pubkey{0xEE}
	_, err := s.st.CreateAccount(s.payer, foreign, types.Pubkey{0xEF}, 8)
	s.Require().NoError(err)
	_, err = Vote(s.st, types.NewClaims(s.v1, s.payer), VoteAccounts{
		Proposal: foreign,
		Voter:    s.v1,
		Payer:    s.payer,
	}, 1)
	s.ErrorIs(err, types.ErrAccountOwnedByWrongProgram)

	voteAddr, _, err := VoteAddress(s.proposal, s.v1)
	s.Require().NoError(err)
	_, err = s.vote(s.v1, s.payer, 1)
	s.Require().NoError(err)
	_, err = LoadProposal(s.st, voteAddr)
	s.ErrorIs(err, types.ErrAccountDiscriminatorMismatch)
}

func (s *ProgramTestSuite) TestLoadRejectsMisplacedRecord() {
	p := s.createProposal()
	misplaced := types.Pubkey{0xED}
	dat, err := p.MarshalAccount()
	s.Require().NoError(err)
	_, err = s.st.CreateAccount(s.payer, misplaced, ID, uint64(len(dat)))
	s.Require().NoError(err)
	s.Require().NoError(s.st.SetAccountData(misplaced, dat))
	_, err = LoadProposal(s.st, misplaced)
	s.ErrorIs(err, types.ErrConstraintSeeds)

	_, err = Vote(s.st, types.NewClaims(s.v1, s.payer), VoteAccounts{
		Proposal: misplaced,
		Voter:    s.v1,
		Payer:    s.payer,
	}, 1)
	s.ErrorIs(err, types.ErrConstraintSeeds)

	v, err := s.vote(s.v1, s.payer, 1)
	s.Require().NoError(err)
	v.Bump--
	dat, err = v.MarshalAccount()
	s.Require().NoError(err)
	addr, _, err := VoteAddress(s.proposal, s.v1)
	s.Require().NoError(err)
	s.Require().NoError(s.st.SetAccountData(addr, dat))
	_, err = LoadVote(s.st, addr)
	s.ErrorIs(err, types.ErrConstraintSeeds)
}

func TestAddressesDistinct(t *testing.T) {
	author := types.Pubkey{1}
	var h1, h2 types.ContentHash
	h2[0] = 1
	p1, _, err := ProposalAddress(author, h1)
	require.NoError(t, err)
	p2, _, err := ProposalAddress(author, h2)
	require.NoError(t, err)
	require.NotEqual(t, p1, p2)

	a, _, err := VoteAddress(p1, types.Pubkey{2})
	require.NoError(t, err)
	b, _, err := VoteAddress(p1, types.Pubkey{3})
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
