package handler

import (
	"context"

	"github.com/calehh/signedvoting/program"
	"github.com/calehh/signedvoting/state"
	"github.com/calehh/signedvoting/tx"
	"github.com/calehh/signedvoting/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

type VoteTxHandler struct {
	logger cmtlog.Logger
}

func NewVoteTxHandler(logger cmtlog.Logger) (h *VoteTxHandler) {
	logger = logger.With("module", "voteTx")
	h = &VoteTxHandler{
		logger: logger,
	}
	return
}

func (h *VoteTxHandler) Check(ctx context.Context, st *state.State, btx *tx.SVTx, claims *types.Claims) (res *abcitypes.ResponseCheckTx, err error) {
	res, err = checkByProcess(ctx, h, st, btx, claims)
	if err != nil {
		h.logger.Info("CheckTx VoteTx fail", "err", err)
	}
	return
}

func (h *VoteTxHandler) Process(ctx context.Context, st *state.State, btx *tx.SVTx, claims *types.Claims) (res *abcitypes.ExecTxResult, err error) {
	vtx, ok := btx.Tx.(*tx.VoteTx)
	if !ok {
		return nil, tx.ErrInvalidTx
	}
	vote, err := program.Vote(st, claims, program.VoteAccounts{
		Vote:     vtx.Vote,
		Proposal: vtx.Proposal,
		Voter:    vtx.Voter,
		Payer:    vtx.Payer,
	}, vtx.Choice)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("vote cast", "vote", vtx.Vote, "proposal", vtx.Proposal, "voter", vtx.Voter)
	res = &abcitypes.ExecTxResult{
		Events: []abcitypes.Event{types.EncodeEventVote(&types.EventVote{
			Vote:     vtx.Vote,
			Proposal: vote.ProposalId,
			Voter:    vote.Voter,
			Payer:    vtx.Payer,
			Choice:   vote.Choice,
			Bump:     vote.Bump,
		})},
	}
	return
}
