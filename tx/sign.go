package tx

import (
	"github.com/calehh/signedvoting/types"
	"github.com/cometbft/cometbft/crypto"
	"github.com/pkg/errors"
)

var ErrMissingKey = errors.New("no key for signer")

// Sign adds every key as a signer, in order, and fills Sig for all of
// them. Signers already listed without a matching key make it fail.
func (tx *SVTx) Sign(chainId string, keys ...crypto.PrivKey) (err error) {
	byPub := make(map[types.Pubkey]crypto.PrivKey, len(keys))
	for _, k := range keys {
		pk, err := types.PubkeyFromBytes(k.PubKey().Bytes())
		if err != nil {
			return err
		}
		tx.AddSigner(pk)
		byPub[pk] = k
	}
	dat, err := tx.SigData([]byte(chainId))
	if err != nil {
		return err
	}
	sigs := make([][]byte, len(tx.Signers))
	for i, signer := range tx.Signers {
		k, ok := byPub[signer]
		if !ok {
			return errors.Wrapf(ErrMissingKey, "%s", signer)
		}
		if sigs[i], err = k.Sign(dat); err != nil {
			return err
		}
	}
	tx.Sig = sigs
	return
}
