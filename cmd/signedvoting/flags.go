package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
)

const (
	DefaultPrivValKeyName = "priv_validator_key.json"
)

var defaultKeyPath = filepath.Join(".", "config", DefaultPrivValKeyName)

func urlFlag(cmd *cobra.Command, url *string) {
	cmd.Flags().StringVarP(url, "url", "u", "http://127.0.0.1:26657", "node rpc url")
}

func keyFlag(cmd *cobra.Command, path *string, name, usage string) {
	cmd.Flags().StringVar(path, name, defaultKeyPath, usage)
}
