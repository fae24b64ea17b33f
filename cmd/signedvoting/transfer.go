package main

import (
	"github.com/calehh/signedvoting/tx"
	"github.com/calehh/signedvoting/types"
	"github.com/spf13/cobra"
)

type transferArguments struct {
	txArguments
	From   string
	To     string
	Amount uint64
}

var transferArgs transferArguments

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Send lamports from a key to any address",
	RunE:  transferRun,
}

func init() {
	txFlags(transferCmd, &transferArgs.txArguments)
	keyFlag(transferCmd, &transferArgs.From, "from", "sender key file")
	transferCmd.Flags().StringVar(&transferArgs.To, "to", "", "recipient address (base58)")
	transferCmd.Flags().Uint64Var(&transferArgs.Amount, "amount", 0, "lamports to send")
	transferCmd.MarkFlagRequired("to")
}

func transferRun(cmd *cobra.Command, args []string) error {
	to, err := types.PubkeyFromBase58(transferArgs.To)
	if err != nil {
		return err
	}
	keys, err := loadKeys(transferArgs.From)
	if err != nil {
		return err
	}
	btx := &tx.SVTx{
		Type: tx.SVTxTypeTransfer,
		Tx: &tx.TransferTx{
			From:   keys[0].Pubkey(),
			To:     to,
			Amount: transferArgs.Amount,
		},
	}
	return sendTx(&transferArgs.txArguments, btx, keys...)
}
