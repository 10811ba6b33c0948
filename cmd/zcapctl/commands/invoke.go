package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/zcap/errors"
	"github.com/teranos/zcap/logger"
	"github.com/teranos/zcap/zcap"
)

var (
	invokeCapabilityID string
	invokeActionName   string
	invokeParamsJSON   string
)

// InvokeCmd produces a signed invocation document for a capability.
var InvokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "Invoke a capability",
	Long: `invoke — perform an action under a capability, producing a signed
invocation document. The capability's invoker must have a local identity.

Example:
  zcapctl invoke --capability urn:uuid:... --action read`,
	RunE: runInvoke,
}

func init() {
	InvokeCmd.Flags().StringVar(&invokeCapabilityID, "capability", "", "capability id to invoke")
	InvokeCmd.Flags().StringVar(&invokeActionName, "action", "", "action name to invoke")
	InvokeCmd.Flags().StringVar(&invokeParamsJSON, "parameters", "", "JSON object of action parameters")
	_ = InvokeCmd.MarkFlagRequired("capability")
	_ = InvokeCmd.MarkFlagRequired("action")
}

func runInvoke(cmd *cobra.Command, args []string) error {
	path, err := resolveStorePath()
	if err != nil {
		return err
	}
	state, err := loadDemoState(path)
	if err != nil {
		return err
	}

	store := capabilityStore{state}
	c, ok := store.Get(invokeCapabilityID)
	if !ok {
		return errors.Newf("no such capability %s in the local store", invokeCapabilityID)
	}

	invokerKey, err := state.privateKey(c.Invoker.ID)
	if err != nil {
		return err
	}

	params, err := parseParameters(invokeParamsJSON)
	if err != nil {
		return err
	}

	doc, opaque, err := zcap.InvokeCapability(
		c, invokeActionName, invokerKey,
		didKeyStore{state}, revokedSet{state}, store,
		nonceStore{state}, nonceTimestamps{state},
		params, time.Duration(0),
	)
	if err != nil {
		return errors.Wrap(err, "failed to invoke capability")
	}

	if err := state.save(path); err != nil {
		return err
	}

	logger.Infow("invoked capability", logger.FieldCapabilityID, c.ID, logger.FieldAction, invokeActionName, logger.FieldNonce, doc.Nonce)
	for _, oc := range opaque {
		logger.Infow("invocation leaves a caveat for the caller to enforce", logger.FieldCaveatType, oc.Type)
	}
	wire, err := zcap.InvocationToJSONLD(doc)
	if err != nil {
		return errors.Wrap(err, "failed to project invocation to JSON-LD")
	}
	return printJSON(wire)
}
