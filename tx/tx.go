package tx

import (
	"encoding/json"

	"github.com/calehh/signedvoting/types"
	"github.com/pkg/errors"
)

// SVTx is the signed envelope around one instruction. Signers[0] pays
// fees and owns the replay nonce; Sig[i] is the signature of Signers[i].
type SVTx struct {
	Version uint8          `json:"version"`
	Type    SVTxType       `json:"type"`
	Nonce   uint64         `json:"nonce"`
	Signers []types.Pubkey `json:"signers"`
	Tx      any            `json:"tx"`
	Sig     [][]byte       `json:"sig"`
}

type CreateProposalTx struct {
	Proposal types.Pubkey      `json:"proposal"`
	Author   types.Pubkey      `json:"author"`
	Payer    types.Pubkey      `json:"payer"`
	Uri      string            `json:"uri"`
	Hash     types.ContentHash `json:"hash"`
}

type VoteTx struct {
	Vote     types.Pubkey `json:"vote"`
	Proposal types.Pubkey `json:"proposal"`
	Voter    types.Pubkey `json:"voter"`
	Payer    types.Pubkey `json:"payer"`
	Choice   uint8        `json:"choice"`
}

type TransferTx struct {
	From   types.Pubkey `json:"from"`
	To     types.Pubkey `json:"to"`
	Amount uint64       `json:"amount"`
}

type svTxTmpl[Tx any] struct {
	Version uint8          `json:"version"`
	Type    SVTxType       `json:"type"`
	Nonce   uint64         `json:"nonce"`
	Signers []types.Pubkey `json:"signers"`
	Tx      Tx             `json:"tx"`
	Sig     [][]byte       `json:"sig"`
}

func (tx *SVTx) FeePayer() (pk types.Pubkey, ok bool) {
	if len(tx.Signers) == 0 {
		return
	}
	return tx.Signers[0], true
}

// AddSigner appends pk unless it is already listed.
func (tx *SVTx) AddSigner(pk types.Pubkey) {
	for _, s := range tx.Signers {
		if s == pk {
			return
		}
	}
	tx.Signers = append(tx.Signers, pk)
}

// SigData is the byte string every signer signs: the envelope with its
// signatures replaced by the chain id.
func (tx *SVTx) SigData(ext []byte) (dat []byte, err error) {
	ntx := *tx
	ntx.Sig = [][]byte{ext}
	dat, err = json.Marshal(ntx)
	return
}

func parseSVTxType(dat []byte) SVTxType {
	var tx struct {
		Type SVTxType `json:"type"`
	}
	err := json.Unmarshal(dat, &tx)
	if err != nil {
		return SVTxTypeUnknown
	}
	return tx.Type
}

func unmarshalSVTx[Tx any](dat []byte) (btx *SVTx, err error) {
	var txt svTxTmpl[Tx]
	err = json.Unmarshal(dat, &txt)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidTx, err.Error())
	}
	btx = new(SVTx)
	btx.Version = txt.Version
	btx.Type = txt.Type
	btx.Nonce = txt.Nonce
	btx.Signers = txt.Signers
	btx.Tx = &txt.Tx
	btx.Sig = txt.Sig
	return
}

func UnmarshalSVTx(dat []byte) (btx *SVTx, err error) {
	tp := parseSVTxType(dat)
	switch tp {
	case SVTxTypeCreateProposal:
		return unmarshalSVTx[CreateProposalTx](dat)
	case SVTxTypeVote:
		return unmarshalSVTx[VoteTx](dat)
	case SVTxTypeTransfer:
		return unmarshalSVTx[TransferTx](dat)
	default:
		err = ErrUnsupportedTxType
	}
	return
}

func MarshalSVTx(btx *SVTx) (dat []byte, err error) {
	return json.Marshal(btx)
}
