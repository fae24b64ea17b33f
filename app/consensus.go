package app

import (
	"context"

	"github.com/calehh/signedvoting/state"
	"github.com/calehh/signedvoting/tx"
	"github.com/calehh/signedvoting/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
)

func (app *SVApp) getState() (st *state.State) {
	st = app.db.NewState()
	app.st = st
	return
}

func (app *SVApp) parseTx(txDat []byte) (btx *tx.SVTx, err error) {
	btx, err = tx.UnmarshalSVTx(txDat)
	if err != nil {
		return
	}
	if _, ok := app.txHdlrs[btx.Type]; !ok {
		err = tx.ErrUnsupportedTxType
	}
	return
}

func checkTxErr(err error) *abcitypes.ResponseCheckTx {
	return &abcitypes.ResponseCheckTx{
		Code:      types.CodeOf(err),
		Codespace: types.Codespace,
		Log:       types.ResultLog(err),
	}
}

func execTxErr(err error) *abcitypes.ExecTxResult {
	return &abcitypes.ExecTxResult{
		Code:      types.CodeOf(err),
		Codespace: types.Codespace,
		Log:       types.ResultLog(err),
	}
}

func (app *SVApp) CheckTx(ctx context.Context, check *abcitypes.RequestCheckTx) (res *abcitypes.ResponseCheckTx, err error) {
	btx, err := app.parseTx(check.Tx)
	if err != nil {
		app.logger.Info("parse tx fail", "err", err)
		return checkTxErr(err), nil
	}
	app.logger.Debug("check tx", "type", btx.Type)
	st := app.db.State().Clone()
	claims, err := st.Verify(btx, true)
	if err != nil {
		app.logger.Info("verify tx fail", "type", btx.Type, "err", err)
		return checkTxErr(err), nil
	}
	res, err = app.txHdlrs[btx.Type].Check(ctx, st, btx, claims)
	if err != nil {
		return checkTxErr(err), nil
	}
	return res, nil
}

func (app *SVApp) PrepareProposal(ctx context.Context, proposal *abcitypes.RequestPrepareProposal) (res *abcitypes.ResponsePrepareProposal, err error) {
	app.logger.Debug("PrepareProposal", "height", proposal.Height, "txs", len(proposal.Txs))
	txs := make([][]byte, 0, len(proposal.Txs))
	var size int64
	for _, stx := range proposal.Txs {
		if _, err := app.parseTx(stx); err != nil {
			app.logger.Info("drop tx, parse fail", "err", err)
			continue
		}
		size += int64(len(stx))
		if size > proposal.MaxTxBytes {
			break
		}
		txs = append(txs, stx)
	}
	return &abcitypes.ResponsePrepareProposal{Txs: txs}, nil
}

// ProcessProposal only rejects blocks carrying txs this app cannot decode.
// Txs that fail on execution are still included with a non-zero code.
func (app *SVApp) ProcessProposal(ctx context.Context, proposal *abcitypes.RequestProcessProposal) (res *abcitypes.ResponseProcessProposal, err error) {
	res = &abcitypes.ResponseProcessProposal{Status: abcitypes.ResponseProcessProposal_ACCEPT}
	for _, stx := range proposal.Txs {
		if _, err := app.parseTx(stx); err != nil {
			app.logger.Error("reject proposal", "height", proposal.Height, "err", err)
			res.Status = abcitypes.ResponseProcessProposal_REJECT
			return res, nil
		}
	}
	return res, nil
}

// execTx runs one tx on a clone of st. The clone is returned on success,
// st itself on failure, so a failed tx leaves no trace.
func (app *SVApp) execTx(ctx context.Context, st *state.State, stx []byte) (*state.State, *abcitypes.ExecTxResult) {
	btx, err := app.parseTx(stx)
	if err != nil {
		app.logger.Error("unexpected tx, parse fail", "err", err)
		return st, execTxErr(err)
	}
	tmp := st.Clone()
	claims, err := tmp.Verify(btx, false)
	if err != nil {
		app.logger.Info("verify tx fail", "type", btx.Type, "err", err)
		return st, execTxErr(err)
	}
	result, err := app.txHdlrs[btx.Type].Process(ctx, tmp, btx, claims)
	if err != nil {
		app.logger.Info("process tx fail", "type", btx.Type, "err", err)
		return st, execTxErr(err)
	}
	feePayer, _ := btx.FeePayer()
	if err = tmp.BumpNonce(feePayer); err != nil {
		return st, execTxErr(err)
	}
	return tmp, result
}

func (app *SVApp) FinalizeBlock(ctx context.Context, req *abcitypes.RequestFinalizeBlock) (*abcitypes.ResponseFinalizeBlock, error) {
	app.logger.Info("FinalizeBlock", "height", req.Height, "txs", len(req.Txs))
	app.lastBlk.Set(req)
	st := app.getState()
	res := make([]*abcitypes.ExecTxResult, len(req.Txs))
	for i, stx := range req.Txs {
		st, res[i] = app.execTx(ctx, st, stx)
	}
	app.st = st
	h, err := st.Update()
	if err != nil {
		app.logger.Error("state update hash fail", "err", err)
		return nil, err
	}
	return &abcitypes.ResponseFinalizeBlock{
		TxResults: res,
		AppHash:   h.Bytes(),
	}, nil
}

func (app *SVApp) Commit(ctx context.Context, commit *abcitypes.RequestCommit) (*abcitypes.ResponseCommit, error) {
	_, err := app.db.SetState(app.st)
	if err != nil {
		return nil, err
	}
	app.st = nil
	app.logger.Info("Commit", "height", app.lastBlk.Height)
	return &abcitypes.ResponseCommit{}, nil
}
