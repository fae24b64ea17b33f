package tx

import (
	"github.com/calehh/signedvoting/types"
)

type SVTxType uint8

const (
	SVTxTypeUnknown        SVTxType = 0
	SVTxTypeCreateProposal SVTxType = 1
	SVTxTypeVote           SVTxType = 2
	SVTxTypeTransfer       SVTxType = 3
)

func (t SVTxType) String() string {
	switch t {
	case SVTxTypeCreateProposal:
		return "create_proposal"
	case SVTxTypeVote:
		return "vote"
	case SVTxTypeTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

const SVTxVersion1 uint8 = 1

var (
	ErrInvalidTx         = types.ErrInvalidTx
	ErrUnsupportedTxType = types.ErrUnsupportedTxType
)
