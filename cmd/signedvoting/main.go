package main

import (
	"fmt"
	"os"
)

func main() {
	clCmd.AddCommand(initCmd)
	clCmd.AddCommand(versionCmd)
	clCmd.AddCommand(keygenCmd)
	clCmd.AddCommand(pubkeyCmd)
	clCmd.AddCommand(accountCmd)
	clCmd.AddCommand(transferCmd)
	clCmd.AddCommand(proposalCmd)
	clCmd.AddCommand(voteCmd)
	clCmd.AddCommand(deriveCmd)
	if err := clCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
