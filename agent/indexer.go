package agent

import (
	"context"
	"time"

	"github.com/calehh/signedvoting/types"
	abci "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	comethttp "github.com/cometbft/cometbft/rpc/client/http"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/pkg/errors"
)

// ChainIndexer follows committed blocks and keeps proposals and votes in
// sqlite for the read API.
type ChainIndexer struct {
	logger        cmtlog.Logger
	Url           string
	Height        int64
	interval      time.Duration
	db            *gorm.DB
	cli           *comethttp.HTTP
	eventHandlers map[string]eventHandler
	done          chan struct{}
}

func OpenDB(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Proposal{}, &Vote{}, &Height{}).Error; err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func NewChainIndexer(logger cmtlog.Logger, db *gorm.DB, chainUrl string, interval time.Duration) (*ChainIndexer, error) {
	logger = logger.With("module", "indexer")
	logger.Info("NewChainIndexer", "url", chainUrl)
	h := Height{Id: 1}
	if err := db.First(&h).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	c := &ChainIndexer{
		logger:   logger,
		Url:      chainUrl,
		Height:   int64(h.Height + 1),
		interval: interval,
		db:       db,
		done:     make(chan struct{}),
	}
	c.eventHandlers = map[string]eventHandler{
		types.EventCreateProposalType: c.handleEventCreateProposal,
		types.EventVoteType:           c.handleEventVote,
	}
	return c, nil
}

type eventHandler func(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error

func (c *ChainIndexer) handleEvent(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	if h, ok := c.eventHandlers[event.Type]; ok {
		return h(ctx, db, event, height)
	}
	return nil
}

func (c *ChainIndexer) handleEventCreateProposal(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	ev := types.DecodeEventCreateProposal(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return nil
	}
	proposal := Proposal{
		Address: ev.Proposal.String(),
		Author:  ev.Author.String(),
		Payer:   ev.Payer.String(),
		Uri:     ev.Uri,
		Hash:    ev.Hash.String(),
		Bump:    ev.Bump,
		Height:  uint64(height),
	}
	return db.Save(&proposal).Error
}

func (c *ChainIndexer) handleEventVote(ctx context.Context, db *gorm.DB, event abci.Event, height int64) error {
	ev := types.DecodeEventVote(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return nil
	}
	vote := Vote{
		Address:  ev.Vote.String(),
		Proposal: ev.Proposal.String(),
		Voter:    ev.Voter.String(),
		Payer:    ev.Payer.String(),
		Choice:   ev.Choice,
		Bump:     ev.Bump,
		Height:   uint64(height),
	}
	return db.Save(&vote).Error
}

// indexBlock stores the events of every successful tx of one block and
// advances the saved height, all in one sqlite transaction.
func (c *ChainIndexer) indexBlock(ctx context.Context, height int64, results []*abci.ExecTxResult) (err error) {
	tx := c.db.Begin()
	if err = tx.Error; err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	for _, res := range results {
		if res == nil || res.Code != 0 {
			continue
		}
		for _, event := range res.Events {
			if err = c.handleEvent(ctx, tx, event, height); err != nil {
				return err
			}
		}
	}
	if err = tx.Save(&Height{Id: 1, Height: uint64(height)}).Error; err != nil {
		return err
	}
	return tx.Commit().Error
}

func (c *ChainIndexer) connect() (err error) {
	if c.cli != nil && c.cli.IsRunning() {
		return nil
	}
	if c.cli != nil {
		c.cli.Stop()
	}
	c.cli, err = comethttp.New(c.Url, "/websocket")
	return
}

func (c *ChainIndexer) sync(ctx context.Context) error {
	if err := c.connect(); err != nil {
		return errors.Wrap(err, "connect")
	}
	b, err := c.cli.Status(ctx)
	if err != nil {
		c.cli = nil
		return errors.Wrap(err, "get status")
	}
	for b.SyncInfo.LatestBlockHeight >= c.Height {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		height := c.Height
		res, err := c.cli.BlockResults(ctx, &height)
		if err != nil {
			return errors.Wrapf(err, "get block results at %d", height)
		}
		if err = c.indexBlock(ctx, height, res.TxsResults); err != nil {
			return errors.Wrapf(err, "index block %d", height)
		}
		c.logger.Debug("indexed block", "height", height, "txs", len(res.TxsResults))
		c.Height++
	}
	return nil
}

// Start syncs until ctx is cancelled. It must be called at most once.
func (c *ChainIndexer) Start(ctx context.Context) {
	defer close(c.done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.sync(ctx); err != nil {
				c.logger.Error("indexer sync fail", "height", c.Height, "err", err)
			}
		}
	}
}

// Close waits for Start to return and releases the sqlite handle.
func (c *ChainIndexer) Close(ctx context.Context) error {
	select {
	case <-c.done:
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "indexer still syncing")
	}
	return c.db.Close()
}

func (c *ChainIndexer) getProposals(author string, page int, pageSize int) ([]Proposal, uint64, error) {
	q := c.db.Model(&Proposal{})
	if author != "" {
		q = q.Where("author = ?", author)
	}
	var total uint64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	proposals := make([]Proposal, 0)
	err := q.Order("height desc").Offset(page * pageSize).Limit(pageSize).Find(&proposals).Error
	if err != nil {
		return nil, 0, err
	}
	return proposals, total, nil
}

// getProposal returns gorm.ErrRecordNotFound for unknown addresses.
func (c *ChainIndexer) getProposal(address string) (Proposal, error) {
	var proposal Proposal
	err := c.db.Where("address = ?", address).First(&proposal).Error
	return proposal, err
}

func (c *ChainIndexer) getVotesByProposal(proposal string, page int, pageSize int) ([]Vote, uint64, error) {
	q := c.db.Model(&Vote{}).Where("proposal = ?", proposal)
	var total uint64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	votes := make([]Vote, 0)
	err := q.Order("height asc").Offset(page * pageSize).Limit(pageSize).Find(&votes).Error
	if err != nil {
		return nil, 0, err
	}
	return votes, total, nil
}

func (c *ChainIndexer) getVote(proposal, voter string) (Vote, error) {
	var vote Vote
	err := c.db.Where("proposal = ? AND voter = ?", proposal, voter).First(&vote).Error
	return vote, err
}
