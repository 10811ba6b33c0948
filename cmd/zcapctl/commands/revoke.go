package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/zcap/logger"
)

var revokeCapabilityID string

// RevokeCmd marks a capability (and, transitively, anything delegated
// from it) as revoked in the local store.
var RevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke a capability",
	Long: `revoke — add --capability to the local revocation set. Any
capability delegated from it will fail verification from this point on,
since chain verification checks every ancestor's revocation status.`,
	RunE: runRevoke,
}

func init() {
	RevokeCmd.Flags().StringVar(&revokeCapabilityID, "capability", "", "capability id to revoke")
	_ = RevokeCmd.MarkFlagRequired("capability")
}

func runRevoke(cmd *cobra.Command, args []string) error {
	path, err := resolveStorePath()
	if err != nil {
		return err
	}
	state, err := loadDemoState(path)
	if err != nil {
		return err
	}

	state.Revoked[revokeCapabilityID] = true
	if err := state.save(path); err != nil {
		return err
	}

	logger.Infow("revoked capability", logger.FieldCapabilityID, revokeCapabilityID)
	fmt.Println("OK")
	return nil
}
