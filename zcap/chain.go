package zcap

import "time"

// MaxChainDepth bounds delegation-chain recursion (spec §5: "recommended
// 100"). A chain longer than this raises CapabilityVerificationError
// rather than recursing further.
const MaxChainDepth = 100

// VerifyCapability walks c's delegation chain and verifies every link per
// spec §4.5. It is read-only over didKeys, revoked, and store and safe to
// call concurrently against immutable stores (spec §5).
func VerifyCapability(c *Capability, didKeys DIDKeyStore, revoked RevokedSet, store CapabilityStore) error {
	if c == nil {
		return NewCapabilityVerificationError(errNew("capability is nil"))
	}
	return verifyChain(c, didKeys, revoked, store, make(map[string]struct{}), 0)
}

func verifyChain(c *Capability, didKeys DIDKeyStore, revoked RevokedSet, store CapabilityStore, visited map[string]struct{}, depth int) error {
	if depth > MaxChainDepth {
		return NewCapabilityVerificationError(errNewf("delegation chain exceeds the maximum depth of %d", MaxChainDepth))
	}
	if _, seen := visited[c.ID]; seen {
		return NewCapabilityVerificationError(errNewf("delegation chain cycle detected at %s", c.ID))
	}
	visited[c.ID] = struct{}{}

	if revoked != nil && revoked.IsRevoked(c.ID) {
		return NewCapabilityVerificationError(errNewf("capability %s has been revoked", c.ID))
	}

	now := time.Now().UTC()
	if c.Expires != nil && now.After(*c.Expires) {
		return NewCapabilityVerificationError(errNewf("capability %s expired at %s", c.ID, c.Expires.Format(time.RFC3339)))
	}

	// Time-only caveat context: no action is being invoked yet (spec §4.5
	// step 3). MaxUses/AllowedNetwork are opaque here too; the caller is
	// responsible for surfacing them if it cares about a bare chain check.
	if _, err := EvaluateAll(c.Caveats, EvalContext{Now: now, Revoked: revoked}); err != nil {
		return err
	}

	var parent *Capability
	if c.ParentCapability != "" {
		p, ok := store.Get(c.ParentCapability)
		if !ok {
			return NewCapabilityNotFoundError(errNewf("parent capability %s of %s not found in store", c.ParentCapability, c.ID))
		}
		parent = p
	}

	var signer Party
	if parent == nil {
		signer = c.Controller
	} else {
		signer = parent.Invoker
	}

	pub, ok := didKeys.Get(signer.ID)
	if !ok {
		return NewDIDKeyNotFoundError(errNewf("no public key for DID %s", signer.ID))
	}

	if c.Proof == nil {
		return NewSignatureVerificationError(errNewf("capability %s has no proof", c.ID))
	}

	canonical, err := CanonicalizeCapability(c)
	if err != nil {
		return err
	}
	if err := VerifySignature(pub, canonical, c.Proof.ProofValue); err != nil {
		return err
	}

	if parent == nil {
		if signer.ID != c.Controller.ID {
			return NewCapabilityVerificationError(errNewf("root capability %s signer %s does not match controller %s", c.ID, signer.ID, c.Controller.ID))
		}
		return nil
	}

	if err := verifyChain(parent, didKeys, revoked, store, visited, depth+1); err != nil {
		return err
	}

	parentActions := actionNameSet(parent.Actions)
	for _, a := range c.Actions {
		if _, ok := parentActions[a.Name]; !ok {
			return NewCapabilityVerificationError(errNewf("capability %s grants action %q not present in parent %s", c.ID, a.Name, parent.ID))
		}
	}

	if c.Expires != nil && parent.Expires != nil {
		if c.Expires.After(*parent.Expires) {
			return NewCapabilityVerificationError(errNewf("capability %s expiry exceeds parent %s expiry", c.ID, parent.ID))
		}
	}

	for _, pc := range parent.Caveats {
		if !caveatPresentIn(c.Caveats, pc) {
			return NewCapabilityVerificationError(errNewf("capability %s dropped a caveat present on parent %s", c.ID, parent.ID))
		}
	}

	return nil
}

func actionNameSet(actions []Action) map[string]struct{} {
	set := make(map[string]struct{}, len(actions))
	for _, a := range actions {
		set[a.Name] = struct{}{}
	}
	return set
}

func caveatPresentIn(caveats []Caveat, target Caveat) bool {
	for _, c := range caveats {
		if c.Equal(target) {
			return true
		}
	}
	return false
}
