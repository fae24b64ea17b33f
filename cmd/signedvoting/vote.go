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

type voteArguments struct {
	txArguments
	Voter    string
	Payer    string
	Proposal string
	Choice   uint8
}

var voteArgs voteArguments

var voteCmd = &cobra.Command{
	Use:   "vote",
	Short: "Cast a vote on a proposal",
	Long: `Cast a vote on a proposal. The payer must be the key that paid for
the proposal; each voter can vote once per proposal.`,
	RunE: voteRun,
}

type showVoteArguments struct {
	Url      string
	Proposal string
	Voter    string
}

var showVoteArgs showVoteArguments

var showVoteCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a voter's record on a proposal",
	RunE:  showVoteRun,
}

func init() {
	txFlags(voteCmd, &voteArgs.txArguments)
	keyFlag(voteCmd, &voteArgs.Voter, "voter", "voter key file")
	voteCmd.Flags().StringVar(&voteArgs.Payer, "payer", "", "payer key file, defaults to the voter")
	voteCmd.Flags().StringVarP(&voteArgs.Proposal, "proposal", "p", "", "proposal address (base58)")
	voteCmd.Flags().Uint8VarP(&voteArgs.Choice, "choice", "c", 0, "choice, opaque to the ledger")
	voteCmd.MarkFlagRequired("proposal")

	urlFlag(showVoteCmd, &showVoteArgs.Url)
	showVoteCmd.Flags().StringVarP(&showVoteArgs.Proposal, "proposal", "p", "", "proposal address (base58)")
	showVoteCmd.Flags().StringVar(&showVoteArgs.Voter, "voter", "", "voter address (base58)")
	voteCmd.AddCommand(showVoteCmd)
}

func voteRun(cmd *cobra.Command, args []string) error {
	proposal, err := types.PubkeyFromBase58(voteArgs.Proposal)
	if err != nil {
		return err
	}
	payerPath := voteArgs.Payer
	if payerPath == "" {
		payerPath = voteArgs.Voter
	}
	keys, err := loadKeys(payerPath, voteArgs.Voter)
	if err != nil {
		return err
	}
	payer, voter := keys[0].Pubkey(), keys[1].Pubkey()
	addr, _, err := program.VoteAddress(proposal, voter)
	if err != nil {
		return err
	}
	fmt.Printf("vote:%s\n", addr)
	btx := &tx.SVTx{
		Type: tx.SVTxTypeVote,
		Tx: &tx.VoteTx{
			Vote:     addr,
			Proposal: proposal,
			Voter:    voter,
			Payer:    payer,
			Choice:   voteArgs.Choice,
		},
	}
	return sendTx(&voteArgs.txArguments, btx, keys...)
}

func showVoteRun(cmd *cobra.Command, args []string) error {
	proposal, err := types.PubkeyFromBase58(showVoteArgs.Proposal)
	if err != nil {
		return err
	}
	voter, err := types.PubkeyFromBase58(showVoteArgs.Voter)
	if err != nil {
		return err
	}
	cli, err := newClient(showVoteArgs.Url)
	if err != nil {
		return err
	}
	var info types.VoteInfo
	if err = query(context.Background(), cli, "/votes/", append(proposal.Bytes(), voter.Bytes()...), &info); err != nil {
		return err
	}
	out, _ := json.MarshalIndent(&info, "", "  ")
	fmt.Println(string(out))
	return nil
}
