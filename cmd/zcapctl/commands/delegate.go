package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/zcap/errors"
	"github.com/teranos/zcap/logger"
	"github.com/teranos/zcap/zcap"
)

var (
	delegateParentID   string
	delegateNewInvoker string
	delegateActions    []string
)

// DelegateCmd attenuates a capability to a new invoker.
var DelegateCmd = &cobra.Command{
	Use:   "delegate",
	Short: "Delegate a capability to a new invoker",
	Long: `delegate — create a child capability, signed by the current
invoker of --parent, granting (a subset of) its rights to --new-invoker.

Example:
  zcapctl delegate --parent urn:uuid:... --new-invoker did:key:zGHI --action read`,
	RunE: runDelegate,
}

func init() {
	DelegateCmd.Flags().StringVar(&delegateParentID, "parent", "", "parent capability id")
	DelegateCmd.Flags().StringVar(&delegateNewInvoker, "new-invoker", "", "DID to delegate to")
	DelegateCmd.Flags().StringArrayVar(&delegateActions, "action", nil, "action to retain (repeatable; default: all of parent's)")
	_ = DelegateCmd.MarkFlagRequired("parent")
	_ = DelegateCmd.MarkFlagRequired("new-invoker")
}

func runDelegate(cmd *cobra.Command, args []string) error {
	path, err := resolveStorePath()
	if err != nil {
		return err
	}
	state, err := loadDemoState(path)
	if err != nil {
		return err
	}

	store := capabilityStore{state}
	parent, ok := store.Get(delegateParentID)
	if !ok {
		return errors.Newf("no such capability %s in the local store", delegateParentID)
	}

	delegatorKey, err := state.privateKey(parent.Invoker.ID)
	if err != nil {
		return err
	}

	var actions []zcap.Action
	if len(delegateActions) > 0 {
		actions = make([]zcap.Action, len(delegateActions))
		for i, name := range delegateActions {
			actions[i] = zcap.Action{Name: name}
		}
	}

	child, err := zcap.DelegateCapability(
		parent, delegatorKey, delegateNewInvoker,
		didKeyStore{state}, revokedSet{state}, store,
		actions, nil, nil,
	)
	if err != nil {
		return errors.Wrap(err, "failed to delegate capability")
	}

	store.Put(child)
	if err := state.save(path); err != nil {
		return err
	}

	logger.Infow("delegated capability", logger.FieldCapabilityID, child.ID, logger.FieldParentID, child.ParentCapability, logger.FieldInvokerID, child.Invoker.ID)
	wire, err := zcap.ToJSONLD(child)
	if err != nil {
		return errors.Wrap(err, "failed to project capability to JSON-LD")
	}
	return printJSON(wire)
}
