package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/calehh/signedvoting/program"
	"github.com/calehh/signedvoting/tx"
	"github.com/calehh/signedvoting/types"
	"github.com/spf13/cobra"
)

var proposalCmd = &cobra.Command{
	Use:   "proposal",
	Short: "Create or show proposals",
}

type createProposalArguments struct {
	txArguments
	Author string
	Payer  string
	Uri    string
	Hash   string
	File   string
}

var createProposalArgs createProposalArguments

var createProposalCmd = &cobra.Command{
	Use:   "create",
	Short: "Record a proposal at the address derived from author and content hash",
	RunE:  createProposalRun,
}

type showProposalArguments struct {
	Url     string
	Address string
	Author  string
	Hash    string
	File    string
}

var showProposalArgs showProposalArguments

var showProposalCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a stored proposal",
	RunE:  showProposalRun,
}

func init() {
	txFlags(createProposalCmd, &createProposalArgs.txArguments)
	keyFlag(createProposalCmd, &createProposalArgs.Author, "author", "author key file")
	createProposalCmd.Flags().StringVar(&createProposalArgs.Payer, "payer", "", "payer key file, defaults to the author")
	createProposalCmd.Flags().StringVar(&createProposalArgs.Uri, "uri", "", "where the proposal content lives")
	createProposalCmd.Flags().StringVar(&createProposalArgs.Hash, "hash", "", "content hash (hex)")
	createProposalCmd.Flags().StringVar(&createProposalArgs.File, "file", "", "content file to hash")

	urlFlag(showProposalCmd, &showProposalArgs.Url)
	showProposalCmd.Flags().StringVarP(&showProposalArgs.Address, "address", "a", "", "proposal address (base58)")
	showProposalCmd.Flags().StringVar(&showProposalArgs.Author, "author", "", "author address, with --hash or --file")
	showProposalCmd.Flags().StringVar(&showProposalArgs.Hash, "hash", "", "content hash (hex)")
	showProposalCmd.Flags().StringVar(&showProposalArgs.File, "file", "", "content file to hash")

	proposalCmd.AddCommand(createProposalCmd, showProposalCmd)
}

func createProposalRun(cmd *cobra.Command, args []string) error {
	hash, err := contentHash(createProposalArgs.Hash, createProposalArgs.File)
	if err != nil {
		return err
	}
	payerPath := createProposalArgs.Payer
	if payerPath == "" {
		payerPath = createProposalArgs.Author
	}
	keys, err := loadKeys(payerPath, createProposalArgs.Author)
	if err != nil {
		return err
	}
	payer, author := keys[0].Pubkey(), keys[1].Pubkey()
	addr, _, err := program.ProposalAddress(author, hash)
	if err != nil {
		return err
	}
	fmt.Printf("proposal:%s\n", addr)
	btx := &tx.SVTx{
		Type: tx.SVTxTypeCreateProposal,
		Tx: &tx.CreateProposalTx{
			Proposal: addr,
			Author:   author,
			Payer:    payer,
			Uri:      createProposalArgs.Uri,
			Hash:     hash,
		},
	}
	return sendTx(&createProposalArgs.txArguments, btx, keys...)
}

func showProposalRun(cmd *cobra.Command, args []string) error {
	var data []byte
	if showProposalArgs.Address != "" {
		addr, err := types.PubkeyFromBase58(showProposalArgs.Address)
		if err != nil {
			return err
		}
		data = addr.Bytes()
	} else {
		author, err := types.PubkeyFromBase58(showProposalArgs.Author)
		if err != nil {
			return err
		}
		hash, err := contentHash(showProposalArgs.Hash, showProposalArgs.File)
		if err != nil {
			return err
		}
		data = append(author.Bytes(), hash[:]...)
	}
	cli, err := newClient(showProposalArgs.Url)
	if err != nil {
		return err
	}
	var info types.ProposalInfo
	if err = query(context.Background(), cli, "/proposals/", data, &info); err != nil {
		return err
	}
	out, _ := json.MarshalIndent(&info, "", "  ")
	fmt.Println(string(out))
	return nil
}
