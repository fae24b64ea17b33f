package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/calehh/signedvoting/crypto"
	"github.com/calehh/signedvoting/state"
	"github.com/calehh/signedvoting/tx"
	"github.com/calehh/signedvoting/types"
	cmtcrypto "github.com/cometbft/cometbft/crypto"
	"github.com/cometbft/cometbft/rpc/client/http"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type txArguments struct {
	Url    string
	Nonce  int64
	NoSend bool
}

func txFlags(cmd *cobra.Command, args *txArguments) {
	urlFlag(cmd, &args.Url)
	cmd.Flags().Int64VarP(&args.Nonce, "nonce", "n", -1, "fee payer nonce, queried when negative")
	cmd.Flags().BoolVarP(&args.NoSend, "nosend", "", false, "print the signed transaction instead of sending it")
}

func newClient(url string) (*http.HTTP, error) {
	return http.New(url, "/websocket")
}

// query runs an ABCI query and decodes a successful result into out.
func query(ctx context.Context, cli *http.HTTP, path string, data []byte, out any) error {
	res, err := cli.ABCIQuery(ctx, path, data)
	if err != nil {
		return err
	}
	if res.Response.Code != 0 {
		return errors.Errorf("query %s: code %d %s", path, res.Response.Code, res.Response.Log)
	}
	return json.Unmarshal(res.Response.Value, out)
}

func queryAccount(ctx context.Context, cli *http.HTTP, addr types.Pubkey) (*state.Account, error) {
	var act state.Account
	if err := query(ctx, cli, "/accounts/", addr.Bytes(), &act); err != nil {
		return nil, err
	}
	return &act, nil
}

// sendTx signs btx with keys, keys[0] paying fees, and broadcasts it.
func sendTx(args *txArguments, btx *tx.SVTx, keys ...*crypto.PV) error {
	cli, err := newClient(args.Url)
	if err != nil {
		return err
	}
	ctx := context.Background()
	gres, err := cli.Genesis(ctx)
	if err != nil {
		return errors.Wrap(err, "get chain genesis")
	}
	btx.Version = tx.SVTxVersion1
	if args.Nonce >= 0 {
		btx.Nonce = uint64(args.Nonce)
	} else {
		act, err := queryAccount(ctx, cli, keys[0].Pubkey())
		if err != nil {
			return errors.Wrap(err, "fee payer")
		}
		btx.Nonce = act.Nonce
	}
	privs := make([]cmtcrypto.PrivKey, len(keys))
	for i, k := range keys {
		privs[i] = k.PrivKey()
	}
	if err = btx.Sign(gres.Genesis.ChainID, privs...); err != nil {
		return err
	}
	dat, err := tx.MarshalSVTx(btx)
	if err != nil {
		return err
	}
	if args.NoSend {
		fmt.Println(string(dat))
		return nil
	}
	res, err := cli.BroadcastTxSync(ctx, dat)
	if err != nil {
		return errors.Wrap(err, "broadcast tx")
	}
	out, _ := json.Marshal(res)
	fmt.Println(string(out))
	if res.Code != 0 {
		return errors.Errorf("tx rejected: code %d %s", res.Code, res.Log)
	}
	return nil
}

func loadKeys(paths ...string) ([]*crypto.PV, error) {
	keys := make([]*crypto.PV, 0, len(paths))
	for _, p := range paths {
		pv, err := crypto.LoadFilePV(p)
		if err != nil {
			return nil, err
		}
		keys = append(keys, pv)
	}
	return keys, nil
}
