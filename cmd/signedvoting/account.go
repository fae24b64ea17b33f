package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/calehh/signedvoting/crypto"
	"github.com/calehh/signedvoting/types"
	"github.com/spf13/cobra"
)

type accountArguments struct {
	Url     string
	Address string
	Skey    string
}

var accountArgs accountArguments

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show an account by address or key file",
	RunE:  accountRun,
}

func init() {
	urlFlag(accountCmd, &accountArgs.Url)
	accountCmd.Flags().StringVarP(&accountArgs.Address, "address", "a", "", "account address (base58)")
	accountCmd.Flags().StringVarP(&accountArgs.Skey, "skeyPath", "s", defaultKeyPath, "key file, used when no address is given")
}

func accountRun(cmd *cobra.Command, args []string) error {
	var addr types.Pubkey
	var err error
	if accountArgs.Address != "" {
		addr, err = types.PubkeyFromBase58(accountArgs.Address)
	} else {
		var pv *crypto.PV
		if pv, err = crypto.LoadFilePV(accountArgs.Skey); err == nil {
			addr = pv.Pubkey()
		}
	}
	if err != nil {
		return err
	}
	cli, err := newClient(accountArgs.Url)
	if err != nil {
		return err
	}
	act, err := queryAccount(context.Background(), cli, addr)
	if err != nil {
		return err
	}
	out, _ := json.MarshalIndent(act, "", "  ")
	fmt.Println(string(out))
	return nil
}
