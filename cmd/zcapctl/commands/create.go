package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/zcap/errors"
	"github.com/teranos/zcap/logger"
	"github.com/teranos/zcap/zcap"
)

var (
	createControllerDID string
	createInvokerDID    string
	createActions       []string
	createTargetID      string
	createTargetType    string
)

// CreateCmd issues a root capability.
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a root capability",
	Long: `create — issue a root capability from a controller to an invoker.

Example:
  zcapctl create --controller did:key:zABC --invoker did:key:zDEF \
    --action read --action list --target urn:uuid:resource-1`,
	RunE: runCreate,
}

func init() {
	CreateCmd.Flags().StringVar(&createControllerDID, "controller", "", "controller DID (must have a local identity)")
	CreateCmd.Flags().StringVar(&createInvokerDID, "invoker", "", "invoker DID")
	CreateCmd.Flags().StringArrayVar(&createActions, "action", nil, "action name granted (repeatable)")
	CreateCmd.Flags().StringVar(&createTargetID, "target", "", "target resource id")
	CreateCmd.Flags().StringVar(&createTargetType, "target-type", "Resource", "target resource type")
	_ = CreateCmd.MarkFlagRequired("controller")
	_ = CreateCmd.MarkFlagRequired("invoker")
	_ = CreateCmd.MarkFlagRequired("target")
}

func runCreate(cmd *cobra.Command, args []string) error {
	if len(createActions) == 0 {
		return errors.New("at least one --action is required")
	}

	path, err := resolveStorePath()
	if err != nil {
		return err
	}
	state, err := loadDemoState(path)
	if err != nil {
		return err
	}

	controllerKey, err := state.privateKey(createControllerDID)
	if err != nil {
		return err
	}

	actions := make([]zcap.Action, len(createActions))
	for i, name := range createActions {
		actions[i] = zcap.Action{Name: name}
	}

	c, err := zcap.CreateCapability(
		createControllerDID, createInvokerDID,
		actions,
		zcap.Target{ID: createTargetID, Type: createTargetType},
		controllerKey, nil, nil,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create capability")
	}

	capabilityStore{state}.Put(c)
	if err := state.save(path); err != nil {
		return err
	}

	logger.Infow("created capability", logger.FieldCapabilityID, c.ID, logger.FieldControllerID, c.Controller.ID, logger.FieldInvokerID, c.Invoker.ID)
	wire, err := zcap.ToJSONLD(c)
	if err != nil {
		return errors.Wrap(err, "failed to project capability to JSON-LD")
	}
	return printJSON(wire)
}

func printJSON(v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal output")
	}
	fmt.Println(string(raw))
	return nil
}
