package program

import (
	"github.com/calehh/signedvoting/types"
	"github.com/pkg/errors"
)

var ErrInvalidPayer = types.ErrInvalidPayer

func wrapAccount(err error, name string, addr types.Pubkey) error {
	return errors.Wrapf(err, "account %s (%s)", name, addr)
}
