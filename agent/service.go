package agent

import (
	"context"
	"net/http"
	"strconv"

	"github.com/calehh/signedvoting/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

type Service struct {
	logger     cmtlog.Logger
	engine     *gin.Engine
	indexer    *ChainIndexer
	listenAddr string
	srv        *http.Server
}

func NewService(logger cmtlog.Logger, listenAddr string, indexer *ChainIndexer) *Service {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	s := &Service{
		logger:     logger.With("module", "indexer-api"),
		engine:     r,
		indexer:    indexer,
		listenAddr: listenAddr,
	}
	s.srv = &http.Server{Addr: listenAddr, Handler: r}
	s.engine.GET("/proposals", s.handleGetProposals)
	s.engine.GET("/proposals/:address", s.handleGetProposal)
	s.engine.GET("/proposals/:address/votes", s.handleGetVotes)
	s.engine.GET("/proposals/:address/vote-status", s.handleGetVoteStatus)
	return s
}

func (s *Service) Start() {
	s.logger.Info("indexer api listening", "addr", s.listenAddr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("indexer api stopped", "err", err)
	}
}

// Stop drains the API, then closes the indexer once its loop has exited.
// Cancel the indexer's context before calling it.
func (s *Service) Stop(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return err
	}
	return s.indexer.Close(ctx)
}

func pagination(c *gin.Context) (page, pageSize int, err error) {
	page, err = strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		return 0, 0, errors.New("invalid page")
	}
	pageSize, err = strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultPageSize)))
	if err != nil || pageSize <= 0 || pageSize > maxPageSize {
		return 0, 0, errors.New("invalid pageSize")
	}
	return
}

// addressParam validates a base58 pubkey path parameter.
func addressParam(c *gin.Context) (string, bool) {
	addr := c.Param("address")
	if _, err := types.PubkeyFromBase58(addr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return addr, true
}

type GetProposalsResponse struct {
	Proposals []Proposal `json:"proposals"`
	Total     uint64     `json:"total"`
}

func (s *Service) handleGetProposals(c *gin.Context) {
	page, pageSize, err := pagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	proposals, total, err := s.indexer.getProposals(c.Query("author"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, GetProposalsResponse{Proposals: proposals, Total: total})
}

func (s *Service) handleGetProposal(c *gin.Context) {
	addr, ok := addressParam(c)
	if !ok {
		return
	}
	proposal, err := s.indexer.getProposal(addr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "proposal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, proposal)
}

type GetVotesResponse struct {
	Votes []Vote `json:"votes"`
	Total uint64 `json:"total"`
}

func (s *Service) handleGetVotes(c *gin.Context) {
	addr, ok := addressParam(c)
	if !ok {
		return
	}
	page, pageSize, err := pagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	votes, total, err := s.indexer.getVotesByProposal(addr, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, GetVotesResponse{Votes: votes, Total: total})
}

type VoteStatus struct {
	Voted bool  `json:"voted"`
	Vote  *Vote `json:"vote,omitempty"`
}

func (s *Service) handleGetVoteStatus(c *gin.Context) {
	addr, ok := addressParam(c)
	if !ok {
		return
	}
	voter := c.Query("voter")
	if _, err := types.PubkeyFromBase58(voter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "voter is required"})
		return
	}
	vote, err := s.indexer.getVote(addr, voter)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, VoteStatus{})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, VoteStatus{Voted: true, Vote: &vote})
}
