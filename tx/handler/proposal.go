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

type CreateProposalTxHandler struct {
	logger cmtlog.Logger
}

func NewCreateProposalTxHandler(logger cmtlog.Logger) (h *CreateProposalTxHandler) {
	logger = logger.With("module", "proposalTx")
	h = &CreateProposalTxHandler{
		logger: logger,
	}
	return
}

func (h *CreateProposalTxHandler) Check(ctx context.Context, st *state.State, btx *tx.SVTx, claims *types.Claims) (res *abcitypes.ResponseCheckTx, err error) {
	res, err = checkByProcess(ctx, h, st, btx, claims)
	if err != nil {
		h.logger.Info("CheckTx CreateProposalTx fail", "err", err)
	}
	return
}

func (h *CreateProposalTxHandler) Process(ctx context.Context, st *state.State, btx *tx.SVTx, claims *types.Claims) (res *abcitypes.ExecTxResult, err error) {
	ptx, ok := btx.Tx.(*tx.CreateProposalTx)
	if !ok {
		return nil, tx.ErrInvalidTx
	}
	proposal, err := program.CreateProposal(st, claims, program.CreateProposalAccounts{
		Proposal: ptx.Proposal,
		Author:   ptx.Author,
		Payer:    ptx.Payer,
	}, ptx.Uri, ptx.Hash)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("proposal created", "proposal", ptx.Proposal, "author", ptx.Author, "uri", ptx.Uri)
	res = &abcitypes.ExecTxResult{
		Events: []abcitypes.Event{types.EncodeEventCreateProposal(&types.EventCreateProposal{
			Proposal: ptx.Proposal,
			Author:   proposal.Author,
			Payer:    proposal.Payer,
			Uri:      proposal.Uri,
			Hash:     proposal.Hash,
			Bump:     proposal.Bump,
		})},
	}
	return
}
