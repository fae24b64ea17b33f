package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/calehh/signedvoting/types"
	abci "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/suite"
)

type AgentTestSuite struct {
	suite.Suite
	db      *gorm.DB
	indexer *ChainIndexer
	service *Service

	proposal, author, payer types.Pubkey
	v1, v2, v3              types.Pubkey
}

func TestAgentTestSuite(t *testing.T) {
	suite.Run(t, new(AgentTestSuite))
}

func (s *AgentTestSuite) SetupTest() {
	db, err := OpenDB(filepath.Join(s.T().TempDir(), "indexer.db"))
	if err != nil {
		s.T().Skipf("sqlite unavailable: %v", err)
	}
	s.db = db
	s.indexer, err = NewChainIndexer(cmtlog.NewNopLogger(), db, "http://127.0.0.1:1", time.Second)
	s.Require().NoError(err)
	s.service = NewService(cmtlog.NewNopLogger(), "127.0.0.1:0", s.indexer)

	s.proposal = types.Pubkey{0x10}
	s.author = types.Pubkey{0x11}
	s.payer = types.Pubkey{0x12}
	s.v1, s.v2, s.v3 = types.Pubkey{0x21}, types.Pubkey{0x22}, types.Pubkey{0x23}
}

func (s *AgentTestSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *AgentTestSuite) voteEvent(voter types.Pubkey, choice uint8) abci.Event {
	return types.EncodeEventVote(&types.EventVote{
		Vote:     types.Pubkey{0x30, voter[0]},
		Proposal: s.proposal,
		Voter:    voter,
		Payer:    s.payer,
		Choice:   choice,
		Bump:     255,
	})
}

func (s *AgentTestSuite) indexSample() {
	results := []*abci.ExecTxResult{
		{Events: []abci.Event{types.EncodeEventCreateProposal(&types.EventCreateProposal{
			Proposal: s.proposal,
			Author:   s.author,
			Payer:    s.payer,
			Uri:      "ipfs://Qm123",
			Hash:     types.ContentHash{0xAA},
			Bump:     254,
		})}},
		{Events: []abci.Event{s.voteEvent(s.v1, 1)}},
		{Events: []abci.Event{s.voteEvent(s.v2, 0)}},
		{Code: 4, Events: []abci.Event{s.voteEvent(s.v3, 1)}},
		nil,
	}
	s.Require().NoError(s.indexer.indexBlock(context.Background(), 1, results))
}

func (s *AgentTestSuite) get(path string, out any) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.service.engine.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

func (s *AgentTestSuite) TestIndexBlock() {
	s.indexSample()

	var h Height
	s.Require().NoError(s.db.First(&h, 1).Error)
	s.Equal(uint64(1), h.Height)

	again, err := NewChainIndexer(cmtlog.NewNopLogger(), s.db, "http://127.0.0.1:1", time.Second)
	s.Require().NoError(err)
	s.Equal(int64(2), again.Height)

	_, err = s.indexer.getVote(s.proposal.String(), s.v3.String())
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (s *AgentTestSuite) TestGetProposals() {
	s.indexSample()

	var res GetProposalsResponse
	s.Equal(http.StatusOK, s.get("/proposals", &res))
	s.Equal(uint64(1), res.Total)
	s.Require().Len(res.Proposals, 1)
	s.Equal("ipfs://Qm123", res.Proposals[0].Uri)
	s.Equal(s.author.String(), res.Proposals[0].Author)

	s.Equal(http.StatusOK, s.get("/proposals?author="+s.v1.String(), &res))
	s.Equal(uint64(0), res.Total)

	s.Equal(http.StatusBadRequest, s.get("/proposals?pageSize=0", nil))
}

func (s *AgentTestSuite) TestGetProposal() {
	s.indexSample()

	var raw map[string]any
	s.Equal(http.StatusOK, s.get("/proposals/"+s.proposal.String(), &raw))
	s.Equal(s.payer.String(), raw["payer"])
	s.Equal(s.proposal.String(), raw["address"])
	s.NotContains(raw, "tally")
	s.NotContains(raw, "votes")

	s.Equal(http.StatusNotFound, s.get("/proposals/"+s.v1.String(), nil))
	s.Equal(http.StatusBadRequest, s.get("/proposals/not-base58-0OIl", nil))
}

func (s *AgentTestSuite) TestStopClosesAfterApi() {
	s.indexSample()
	ctx, cancel := context.WithCancel(context.Background())
	go s.indexer.Start(ctx)
	cancel()

	s.Equal(http.StatusOK, s.get("/proposals", nil))

	sctx, scancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer scancel()
	s.Require().NoError(s.service.Stop(sctx))
	s.Error(s.db.DB().Ping())
}

func (s *AgentTestSuite) TestGetVotes() {
	s.indexSample()

	var res GetVotesResponse
	s.Equal(http.StatusOK, s.get("/proposals/"+s.proposal.String()+"/votes", &res))
	s.Equal(uint64(2), res.Total)
	s.Len(res.Votes, 2)

	var status VoteStatus
	s.Equal(http.StatusOK, s.get("/proposals/"+s.proposal.String()+"/vote-status?voter="+s.v1.String(), &status))
	s.True(status.Voted)
	s.Require().NotNil(status.Vote)
	s.Equal(uint8(1), status.Vote.Choice)

	status = VoteStatus{}
	s.Equal(http.StatusOK, s.get("/proposals/"+s.proposal.String()+"/vote-status?voter="+s.v3.String(), &status))
	s.False(status.Voted)

	s.Equal(http.StatusBadRequest, s.get("/proposals/"+s.proposal.String()+"/vote-status", nil))
}
