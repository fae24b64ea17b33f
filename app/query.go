package app

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/calehh/signedvoting/program"
	"github.com/calehh/signedvoting/state"
	"github.com/calehh/signedvoting/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/pkg/errors"
)

func (app *SVApp) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	path := req.Path
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	q, ok := app.queriers[path]
	if !ok {
		res = &abcitypes.ResponseQuery{}
		res.Code = 404
		return
	}
	res, err = q.Query(ctx, req)
	return
}

type Querier interface {
	Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error)
}

func queryErr(res *abcitypes.ResponseQuery, err error) *abcitypes.ResponseQuery {
	res.Code = types.CodeOf(err)
	res.Codespace = types.Codespace
	res.Log = types.ResultLog(err)
	return res
}

// committedReader serves program reads from the last committed state.
type committedReader struct {
	db     *state.StateDB
	height uint64
}

func (r *committedReader) GetAccount(addr types.Pubkey) (a *state.Account, err error) {
	a, r.height, err = r.db.GetAccount(addr)
	return
}

// splitKeys reads data as either one address or two concatenated pubkeys.
func splitKeys(data []byte) (one *types.Pubkey, a, b types.Pubkey, err error) {
	switch len(data) {
	case types.PubkeyLength:
		pk, _ := types.PubkeyFromBytes(data)
		return &pk, a, b, nil
	case 2 * types.PubkeyLength:
		a, _ = types.PubkeyFromBytes(data[:types.PubkeyLength])
		b, _ = types.PubkeyFromBytes(data[types.PubkeyLength:])
		return nil, a, b, nil
	default:
		return nil, a, b, errors.Wrapf(types.ErrInvalidPubkey, "query data of %d bytes", len(data))
	}
}

type AccountQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewAccountQuerier(db *state.StateDB, logger cmtlog.Logger) (q *AccountQuerier) {
	q = &AccountQuerier{
		db:     db,
		logger: logger,
	}
	return
}

func (q *AccountQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	addr, err := types.PubkeyFromBytes(req.Data)
	if err != nil {
		return queryErr(res, err), nil
	}
	a, height, err := q.db.GetAccount(addr)
	if err != nil {
		return queryErr(res, err), nil
	}
	if a == nil {
		return queryErr(res, errors.Wrapf(types.ErrAccountNotFound, "%s", addr)), nil
	}
	res.Value, _ = json.Marshal(a)
	res.Height = int64(height)
	return
}

type ProposalQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewProposalQuerier(db *state.StateDB, logger cmtlog.Logger) (q *ProposalQuerier) {
	q = &ProposalQuerier{
		db:     db,
		logger: logger,
	}
	return
}

// Query takes a proposal address, or author||hash to derive it from.
func (q *ProposalQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	one, author, hash, err := splitKeys(req.Data)
	if err != nil {
		return queryErr(res, err), nil
	}
	var addr types.Pubkey
	if one != nil {
		addr = *one
	} else if addr, _, err = program.ProposalAddress(author, types.ContentHash(hash)); err != nil {
		return queryErr(res, err), nil
	}
	r := &committedReader{db: q.db}
	p, err := program.LoadProposal(r, addr)
	if err != nil {
		return queryErr(res, err), nil
	}
	res.Value, _ = json.Marshal(&types.ProposalInfo{Address: addr, Proposal: *p})
	res.Height = int64(r.height)
	return
}

type VoteQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewVoteQuerier(db *state.StateDB, logger cmtlog.Logger) (q *VoteQuerier) {
	q = &VoteQuerier{
		db:     db,
		logger: logger,
	}
	return
}

// Query takes a vote address, or proposal||voter to derive it from.
func (q *VoteQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	one, proposal, voter, err := splitKeys(req.Data)
	if err != nil {
		return queryErr(res, err), nil
	}
	var addr types.Pubkey
	if one != nil {
		addr = *one
	} else if addr, _, err = program.VoteAddress(proposal, voter); err != nil {
		return queryErr(res, err), nil
	}
	r := &committedReader{db: q.db}
	v, err := program.LoadVote(r, addr)
	if err != nil {
		return queryErr(res, err), nil
	}
	res.Value, _ = json.Marshal(&types.VoteInfo{Address: addr, Vote: *v})
	res.Height = int64(r.height)
	return
}
