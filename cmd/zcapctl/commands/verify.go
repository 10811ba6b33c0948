package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/zcap/errors"
	"github.com/teranos/zcap/logger"
	"github.com/teranos/zcap/zcap"
)

var verifyCapabilityID string

// VerifyCmd checks that a capability's delegation chain is valid.
var VerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a capability's delegation chain",
	Long: `verify — walk --capability's delegation chain back to its root,
checking every signature, expiry, revocation, and caveat along the way.`,
	RunE: runVerify,
}

func init() {
	VerifyCmd.Flags().StringVar(&verifyCapabilityID, "capability", "", "capability id to verify")
	_ = VerifyCmd.MarkFlagRequired("capability")
}

func runVerify(cmd *cobra.Command, args []string) error {
	path, err := resolveStorePath()
	if err != nil {
		return err
	}
	state, err := loadDemoState(path)
	if err != nil {
		return err
	}

	store := capabilityStore{state}
	c, ok := store.Get(verifyCapabilityID)
	if !ok {
		return errors.Newf("no such capability %s in the local store", verifyCapabilityID)
	}

	if err := zcap.VerifyCapability(c, didKeyStore{state}, revokedSet{state}, store); err != nil {
		logger.Errorw("capability failed verification", logger.FieldCapabilityID, c.ID, "error", err)
		return err
	}

	logger.Infow("capability verified", logger.FieldCapabilityID, c.ID, logger.FieldChainDepth, chainDepth(store, c))
	fmt.Println("OK")
	return nil
}

func chainDepth(store capabilityStore, c *zcap.Capability) int {
	depth := 0
	cur := c
	for cur.ParentCapability != "" {
		parent, ok := store.Get(cur.ParentCapability)
		if !ok {
			break
		}
		cur = parent
		depth++
	}
	return depth
}
