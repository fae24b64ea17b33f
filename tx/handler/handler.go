package handler

import (
	"context"

	"github.com/calehh/signedvoting/state"
	"github.com/calehh/signedvoting/tx"
	"github.com/calehh/signedvoting/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
)

// TxHandler runs one instruction type against a state view. Check must not
// leave changes behind that the caller keeps; Process returns the events
// of a successful execution. Errors are returned, not encoded into res.
type TxHandler interface {
	Check(ctx context.Context, st *state.State, btx *tx.SVTx, claims *types.Claims) (res *abcitypes.ResponseCheckTx, err error)
	Process(ctx context.Context, st *state.State, btx *tx.SVTx, claims *types.Claims) (res *abcitypes.ExecTxResult, err error)
}

// checkByProcess runs Process on a throwaway clone.
func checkByProcess(ctx context.Context, h TxHandler, st *state.State, btx *tx.SVTx, claims *types.Claims) (res *abcitypes.ResponseCheckTx, err error) {
	_, err = h.Process(ctx, st.Clone(), btx, claims)
	if err != nil {
		return nil, err
	}
	return &abcitypes.ResponseCheckTx{Code: 0}, nil
}
