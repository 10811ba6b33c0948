package zcap

import (
	"crypto/ed25519"
	"time"

	"github.com/google/uuid"
)

// DelegateCapability constructs and signs a child capability attenuated
// from parent, per spec §4.7. actions, expires, and caveats are optional:
// nil actions inherits parent's actions verbatim; nil expires inherits
// parent's expiry (if any); caveats are additional restrictions appended
// to parent's (never replacing them).
//
// The child's controller is fixed at parent's controller, not the
// delegator, per spec §4.7 step 6 / the open question in spec §9: this is
// the interpretation consistent with signer resolution in §4.5 step 4,
// where the signer of a non-root capability is always the parent's
// invoker.
func DelegateCapability(
	parent *Capability,
	delegatorKey ed25519.PrivateKey,
	newInvokerDID string,
	didKeys DIDKeyStore,
	revoked RevokedSet,
	store CapabilityStore,
	actions []Action,
	expires *time.Time,
	caveats []Caveat,
) (*Capability, error) {
	if parent == nil {
		return nil, NewValidationError(errNew("parent capability is nil"))
	}
	if newInvokerDID == "" {
		return nil, NewValidationError(errNew("new invoker DID is required"))
	}

	if err := VerifyCapability(parent, didKeys, revoked, store); err != nil {
		return nil, err
	}

	delegatorPub, ok := didKeys.Get(parent.Invoker.ID)
	if !ok {
		return nil, NewDIDKeyNotFoundError(errNewf("no public key for current invoker %s", parent.Invoker.ID))
	}
	if !delegatorPub.Equal(delegatorKey.Public().(ed25519.PublicKey)) {
		return nil, NewDelegationError(errNewf("delegator is not the current invoker of %s", parent.ID))
	}

	childActions := actions
	if childActions == nil {
		childActions = parent.Actions
	} else {
		parentNames := actionNameSet(parent.Actions)
		for _, a := range childActions {
			if _, ok := parentNames[a.Name]; !ok {
				return nil, NewDelegationError(errNewf("requested action %q exceeds what parent %s grants", a.Name, parent.ID))
			}
		}
	}
	if len(childActions) == 0 {
		return nil, NewDelegationError(errNew("a delegated capability must retain at least one action"))
	}

	childExpires := expires
	if childExpires == nil {
		childExpires = parent.Expires
	} else if parent.Expires != nil && childExpires.After(*parent.Expires) {
		return nil, NewDelegationError(errNewf("expires %s exceeds parent %s expiry %s", childExpires.Format(time.RFC3339), parent.ID, parent.Expires.Format(time.RFC3339)))
	}

	mergedCaveats, err := mergeCaveats(parent.Caveats, caveats)
	if err != nil {
		return nil, err
	}

	child := &Capability{
		ID:               "urn:uuid:" + uuid.NewString(),
		Context:          parent.Context,
		Type:             TypeCapability,
		Controller:       parent.Controller,
		Invoker:          Party{ID: newInvokerDID, Type: KeyTypeEd25519VerificationKey2020},
		Target:           parent.Target,
		Actions:          childActions,
		Caveats:          mergedCaveats,
		ParentCapability: parent.ID,
		Created:          time.Now().UTC(),
		Expires:          childExpires,
	}

	if err := signAndAttachProof(child, delegatorKey, parent.Invoker.ID, ProofPurposeDelegation); err != nil {
		return nil, err
	}
	return child, nil
}

// mergeCaveats inherits every parent caveat and appends additional, only
// rejecting an addition when it shares a tag with a caveat already merged
// (inherited, or added earlier in additional) but disagrees with it. An
// addition identical to a merged caveat is dropped as a duplicate
// (spec §4.7 step 5: "caveats accumulate, never weaken").
func mergeCaveats(parentCaveats, additional []Caveat) ([]Caveat, error) {
	merged := make([]Caveat, len(parentCaveats))
	copy(merged, parentCaveats)

	for _, nc := range additional {
		conflict := false
		duplicate := false
		for _, ec := range merged {
			if ec.Type != nc.Type {
				continue
			}
			if ec.Equal(nc) {
				duplicate = true
			} else {
				conflict = true
			}
		}
		if conflict {
			return nil, NewDelegationError(errNewf("caveat %q conflicts with an earlier caveat of the same type", nc.Type))
		}
		if !duplicate {
			merged = append(merged, nc)
		}
	}
	return merged, nil
}
