package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/zcap/errors"
	"github.com/teranos/zcap/logger"
	"github.com/teranos/zcap/zcap"
)

var verifyInvocationFile string

// VerifyInvocationCmd checks an invocation document produced by `invoke`.
var VerifyInvocationCmd = &cobra.Command{
	Use:   "verify-invocation",
	Short: "Verify an invocation document",
	Long: `verify-invocation — check that an invocation document (as printed
by "zcapctl invoke", saved to a file) is authentic and that its capability
still verifies. The library does no replay check; this command only logs a
warning when the invocation's nonce is already in the local store's
used-nonce set, and does not reject the document for it.`,
	RunE: runVerifyInvocation,
}

func init() {
	VerifyInvocationCmd.Flags().StringVar(&verifyInvocationFile, "file", "", "path to a saved invocation document (JSON)")
	_ = VerifyInvocationCmd.MarkFlagRequired("file")
}

func runVerifyInvocation(cmd *cobra.Command, args []string) error {
	path, err := resolveStorePath()
	if err != nil {
		return err
	}
	state, err := loadDemoState(path)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(verifyInvocationFile)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", verifyInvocationFile)
	}
	var wire map[string]interface{}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return errors.Wrapf(err, "failed to parse %s as JSON", verifyInvocationFile)
	}
	doc, err := zcap.InvocationFromJSONLD(wire)
	if err != nil {
		return errors.Wrapf(err, "failed to parse %s as an invocation document", verifyInvocationFile)
	}

	store := capabilityStore{state}
	if state.UsedNonces[doc.Nonce] {
		// This command does not itself write the nonce to UsedNonces
		// (that happened at invoke time); replay detection here is a
		// courtesy check reusing the same store, not a library guarantee.
		logger.Warnw("invocation nonce was already observed", logger.FieldNonce, doc.Nonce)
	}

	opaque, err := zcap.VerifyInvocation(doc, didKeyStore{state}, revokedSet{state}, store)
	if err != nil {
		logger.Errorw("invocation failed verification", "error", err)
		return err
	}

	for _, oc := range opaque {
		logger.Infow("invocation leaves a caveat for the caller to enforce", logger.FieldCaveatType, oc.Type)
	}
	fmt.Println("OK")
	return nil
}
