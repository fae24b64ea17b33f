package main

import (
	"fmt"

	"github.com/calehh/signedvoting/crypto"
	"github.com/spf13/cobra"
)

type keygenArguments struct {
	Out string
}

var keygenArgs keygenArguments

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an ed25519 identity key file",
	RunE:  keygenRun,
}

func init() {
	keygenCmd.Flags().StringVarP(&keygenArgs.Out, "out", "o", "./key.json", "key file to create")
}

func keygenRun(cmd *cobra.Command, args []string) error {
	pv, err := crypto.GenFilePV(keygenArgs.Out)
	if err != nil {
		return err
	}
	fmt.Printf("key:%s\npubkey:%s\n", keygenArgs.Out, pv.Pubkey())
	return nil
}

type pubkeyArguments struct {
	Skey string
}

var pubkeyArgs pubkeyArguments

var pubkeyCmd = &cobra.Command{
	Use:   "pubkey",
	Short: "Print the identity of a key file",
	RunE:  pubkeyRun,
}

func init() {
	pubkeyCmd.Flags().StringVarP(&pubkeyArgs.Skey, "skeyPath", "s", defaultKeyPath, "private key path")
}

func pubkeyRun(cmd *cobra.Command, args []string) error {
	pv, err := crypto.LoadFilePV(pubkeyArgs.Skey)
	if err != nil {
		return err
	}
	fmt.Printf("pubkey:%s\n", pv.Pubkey())
	return nil
}
