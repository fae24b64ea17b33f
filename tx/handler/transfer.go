package handler

import (
	"context"

	"github.com/calehh/signedvoting/state"
	"github.com/calehh/signedvoting/tx"
	"github.com/calehh/signedvoting/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
)

type TransferTxHandler struct {
	logger cmtlog.Logger
}

func NewTransferTxHandler(logger cmtlog.Logger) (h *TransferTxHandler) {
	logger = logger.With("module", "transferTx")
	h = &TransferTxHandler{
		logger: logger,
	}
	return
}

func (h *TransferTxHandler) Check(ctx context.Context, st *state.State, btx *tx.SVTx, claims *types.Claims) (res *abcitypes.ResponseCheckTx, err error) {
	res, err = checkByProcess(ctx, h, st, btx, claims)
	if err != nil {
		h.logger.Info("CheckTx TransferTx fail", "err", err)
	}
	return
}

func (h *TransferTxHandler) Process(ctx context.Context, st *state.State, btx *tx.SVTx, claims *types.Claims) (res *abcitypes.ExecTxResult, err error) {
	ttx, ok := btx.Tx.(*tx.TransferTx)
	if !ok {
		return nil, tx.ErrInvalidTx
	}
	if err = claims.Require("from", ttx.From); err != nil {
		return nil, err
	}
	if err = st.Transfer(ttx.From, ttx.To, ttx.Amount); err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{
		Events: []abcitypes.Event{types.EncodeEventTransfer(&types.EventTransfer{
			From:   ttx.From,
			To:     ttx.To,
			Amount: ttx.Amount,
		})},
	}
	return
}
