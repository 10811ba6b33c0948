// Package commands implements zcapctl's subcommands over a JSON-file-backed
// demo store. It is a caller of the zcap library, not part of it: every
// operation here goes through the same exported functions (CreateCapability,
// DelegateCapability, InvokeCapability, VerifyCapability, VerifyInvocation)
// an embedding application would call.
package commands

import (
	"github.com/spf13/cobra"
)

var storePathFlag string

// RegisterFlags attaches the flags every subcommand shares to root.
func RegisterFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&storePathFlag, "store", "", "path to the zcapctl JSON store (default: ./zcapctl-store.json)")
}

func resolveStorePath() (string, error) {
	if storePathFlag != "" {
		return storePathFlag, nil
	}
	cfg, err := loadConfig("")
	if err != nil {
		return "", err
	}
	return cfg.StorePath, nil
}
