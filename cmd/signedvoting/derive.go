package main

import (
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/calehh/signedvoting/program"
	"github.com/calehh/signedvoting/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// contentHash takes the hash as hex, or hashes the given file.
func contentHash(hexHash, file string) (h types.ContentHash, err error) {
	switch {
	case hexHash != "" && file != "":
		return h, errors.New("use either --hash or --file")
	case hexHash != "":
		err = h.UnmarshalText([]byte(hexHash))
	case file != "":
		var dat []byte
		if dat, err = os.ReadFile(file); err == nil {
			h = sha256.Sum256(dat)
		}
	default:
		err = errors.New("--hash or --file is required")
	}
	return
}

type deriveArguments struct {
	Author   string
	Hash     string
	File     string
	Proposal string
	Voter    string
}

var deriveArgs deriveArguments

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Compute record addresses offline",
}

var deriveProposalCmd = &cobra.Command{
	Use:   "proposal",
	Short: "Address of the proposal for an author and content hash",
	RunE:  deriveProposalRun,
}

var deriveVoteCmd = &cobra.Command{
	Use:   "vote",
	Short: "Address of a voter's record on a proposal",
	RunE:  deriveVoteRun,
}

func init() {
	deriveProposalCmd.Flags().StringVar(&deriveArgs.Author, "author", "", "author address (base58)")
	deriveProposalCmd.Flags().StringVar(&deriveArgs.Hash, "hash", "", "content hash (hex)")
	deriveProposalCmd.Flags().StringVar(&deriveArgs.File, "file", "", "content file to hash")
	deriveVoteCmd.Flags().StringVar(&deriveArgs.Proposal, "proposal", "", "proposal address (base58)")
	deriveVoteCmd.Flags().StringVar(&deriveArgs.Voter, "voter", "", "voter address (base58)")
	deriveCmd.AddCommand(deriveProposalCmd, deriveVoteCmd)
}

func deriveProposalRun(cmd *cobra.Command, args []string) error {
	author, err := types.PubkeyFromBase58(deriveArgs.Author)
	if err != nil {
		return errors.Wrap(err, "author")
	}
	hash, err := contentHash(deriveArgs.Hash, deriveArgs.File)
	if err != nil {
		return err
	}
	addr, bump, err := program.ProposalAddress(author, hash)
	if err != nil {
		return err
	}
	fmt.Printf("address:%s bump:%d\n", addr, bump)
	return nil
}

func deriveVoteRun(cmd *cobra.Command, args []string) error {
	proposal, err := types.PubkeyFromBase58(deriveArgs.Proposal)
	if err != nil {
		return errors.Wrap(err, "proposal")
	}
	voter, err := types.PubkeyFromBase58(deriveArgs.Voter)
	if err != nil {
		return errors.Wrap(err, "voter")
	}
	addr, bump, err := program.VoteAddress(proposal, voter)
	if err != nil {
		return err
	}
	fmt.Printf("address:%s bump:%d\n", addr, bump)
	return nil
}
