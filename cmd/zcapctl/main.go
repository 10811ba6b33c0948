// Command zcapctl is a demo CLI exercising the zcap library's full
// lifecycle — create, delegate, invoke, verify, verify-invocation, revoke —
// against a JSON-file-backed store. It is a caller of the library, not
// part of it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/zcap/cmd/zcapctl/commands"
	"github.com/teranos/zcap/logger"
)

var jsonLogs bool

var rootCmd = &cobra.Command{
	Use:   "zcapctl",
	Short: "Exercise the zcap ZCAP-LD library end to end",
	Long: `zcapctl - a demo CLI for the zcap library.

zcapctl keeps its own state (generated identities, capabilities, the
revocation set, and invocation nonce bookkeeping) in a JSON file so a
sequence of commands can build up and verify a real delegation chain.

Examples:
  zcapctl keygen                                           # mints a new did:key identity
  zcapctl create --controller ... --invoker ... --action read --target urn:uuid:r1
  zcapctl delegate --parent urn:uuid:... --new-invoker ... --action read
  zcapctl invoke --capability urn:uuid:... --action read
  zcapctl verify --capability urn:uuid:...
  zcapctl revoke --capability urn:uuid:...`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(jsonLogs); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "emit structured JSON logs instead of console output")
	commands.RegisterFlags(rootCmd)

	rootCmd.AddCommand(commands.KeygenCmd)
	rootCmd.AddCommand(commands.CreateCmd)
	rootCmd.AddCommand(commands.DelegateCmd)
	rootCmd.AddCommand(commands.InvokeCmd)
	rootCmd.AddCommand(commands.VerifyCmd)
	rootCmd.AddCommand(commands.VerifyInvocationCmd)
	rootCmd.AddCommand(commands.RevokeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
