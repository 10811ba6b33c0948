package zcap

import (
	"crypto/ed25519"
	"time"

	"github.com/google/uuid"
)

// CreateCapability constructs and signs a root capability: the controller
// issues invoker the right to perform actions on target. expires and
// caveats are optional (spec §4.4, §6).
func CreateCapability(
	controllerDID, invokerDID string,
	actions []Action,
	target Target,
	controllerKey ed25519.PrivateKey,
	expires *time.Time,
	caveats []Caveat,
) (*Capability, error) {
	if controllerDID == "" || invokerDID == "" {
		return nil, NewValidationError(errNew("controller and invoker DIDs are required"))
	}
	if len(actions) == 0 {
		return nil, NewValidationError(errNew("a capability must grant at least one action"))
	}
	if target.ID == "" {
		return nil, NewValidationError(errNew("target.id is required"))
	}

	c := &Capability{
		ID:         "urn:uuid:" + uuid.NewString(),
		Context:    DefaultContext(),
		Type:       TypeCapability,
		Controller: Party{ID: controllerDID, Type: KeyTypeEd25519VerificationKey2020},
		Invoker:    Party{ID: invokerDID, Type: KeyTypeEd25519VerificationKey2020},
		Target:     target,
		Actions:    actions,
		Caveats:    caveats,
		Created:    time.Now().UTC(),
		Expires:    expires,
	}

	if err := signAndAttachProof(c, controllerKey, controllerDID, ProofPurposeDelegation); err != nil {
		return nil, err
	}
	return c, nil
}

// signAndAttachProof canonicalizes c (which has no proof yet), signs it
// with key, and attaches the resulting proof under signerDID and purpose.
// Shared by CreateCapability and DelegateCapability.
func signAndAttachProof(c *Capability, key ed25519.PrivateKey, signerDID, purpose string) error {
	canonical, err := CanonicalizeCapability(c)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	c.Proof = &Proof{
		ID:                 "urn:uuid:" + uuid.NewString(),
		Type:               ProofTypeEd25519Signature2020,
		Created:            now,
		VerificationMethod: signerDID + "#key-1",
		ProofPurpose:       purpose,
		ProofValue:         SignBytes(key, canonical),
	}
	return nil
}
