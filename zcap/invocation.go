package zcap

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// DefaultNonceMaxAge is the retention window InvokeCapability and
// CleanupExpiredNonces use when the caller passes a non-positive value
// (spec §3, §4.6: "default 3600 seconds").
const DefaultNonceMaxAge = 3600 * time.Second

// maxNonceAttempts bounds retries on the astronomically unlikely event of
// a 128-bit nonce collision (spec §4.6 step 5).
const maxNonceAttempts = 8

// InvokeCapability verifies c, checks actionName is permitted, evaluates
// c's caveats in the invocation context, and produces a signed invocation
// document. It mutates usedNonces and nonceTimestamps in place (spec
// §4.6, §5). The returned []Caveat lists opaque caveats (MaxUses,
// AllowedNetwork) the caller must still enforce before acting on the
// invocation.
func InvokeCapability(
	c *Capability,
	actionName string,
	invokerKey ed25519.PrivateKey,
	didKeys DIDKeyStore,
	revoked RevokedSet,
	store CapabilityStore,
	usedNonces NonceStore,
	nonceTimestamps NonceTimestamps,
	parameters map[string]interface{},
	nonceMaxAge time.Duration,
) (*InvocationDocument, []Caveat, error) {
	if nonceMaxAge <= 0 {
		nonceMaxAge = DefaultNonceMaxAge
	}

	if err := VerifyCapability(c, didKeys, revoked, store); err != nil {
		return nil, nil, err
	}

	if !hasAction(c.Actions, actionName) {
		return nil, nil, NewInvocationError(errNewf("action %q is not allowed by capability %s", actionName, c.ID))
	}

	now := time.Now().UTC()
	opaque, err := EvaluateAll(c.Caveats, EvalContext{
		Now:        now,
		HasAction:  true,
		ActionName: actionName,
		Parameters: parameters,
		Revoked:    revoked,
	})
	if err != nil {
		return nil, nil, err
	}

	invokerPub, ok := didKeys.Get(c.Invoker.ID)
	if !ok {
		return nil, nil, NewDIDKeyNotFoundError(errNewf("no public key for invoker %s", c.Invoker.ID))
	}
	if !invokerPub.Equal(invokerKey.Public().(ed25519.PublicKey)) {
		return nil, nil, NewInvocationError(errNewf("invoker key does not match capability invoker %s", c.Invoker.ID))
	}

	nonce, err := freshNonce(usedNonces)
	if err != nil {
		return nil, nil, err
	}

	doc := &InvocationDocument{
		ID:         "urn:uuid:" + uuid.NewString(),
		Type:       TypeInvocation,
		Capability: c.ID,
		Action:     Action{Name: actionName, Parameters: parameters},
		Created:    now,
		Nonce:      nonce,
	}

	canonical, err := CanonicalizeInvocation(doc)
	if err != nil {
		return nil, nil, err
	}

	doc.Proof = Proof{
		ID:                 "urn:uuid:" + uuid.NewString(),
		Type:               ProofTypeEd25519Signature2020,
		Created:            now,
		VerificationMethod: c.Invoker.ID + "#key-1",
		ProofPurpose:       ProofPurposeInvocation,
		ProofValue:         SignBytes(invokerKey, canonical),
	}

	usedNonces.Add(nonce)
	nonceTimestamps.Set(nonce, now)

	CleanupExpiredNonces(usedNonces, nonceTimestamps, nonceMaxAge)

	return doc, opaque, nil
}

// VerifyInvocation verifies doc against its referenced capability: chain
// validity, proof authenticity, and caveat satisfaction (spec §4.6
// "Consume"). Replay protection against doc.nonce is the caller's
// responsibility, since producer and consumer typically run in different
// address spaces.
func VerifyInvocation(doc *InvocationDocument, didKeys DIDKeyStore, revoked RevokedSet, store CapabilityStore) ([]Caveat, error) {
	if doc == nil {
		return nil, NewInvocationVerificationError(errNew("invocation document is nil"))
	}

	c, ok := store.Get(doc.Capability)
	if !ok {
		return nil, NewCapabilityNotFoundError(errNewf("capability %s referenced by invocation %s not found", doc.Capability, doc.ID))
	}

	if err := VerifyCapability(c, didKeys, revoked, store); err != nil {
		return nil, err
	}

	invokerPub, ok := didKeys.Get(c.Invoker.ID)
	if !ok {
		return nil, NewDIDKeyNotFoundError(errNewf("no public key for invoker %s", c.Invoker.ID))
	}

	canonical, err := CanonicalizeInvocation(doc)
	if err != nil {
		return nil, err
	}
	if err := VerifySignature(invokerPub, canonical, doc.Proof.ProofValue); err != nil {
		return nil, NewInvocationVerificationError(errWrap(err, "invocation proof is inconsistent with the referenced capability"))
	}

	opaque, err := EvaluateAll(c.Caveats, EvalContext{
		Now:        time.Now().UTC(),
		HasAction:  true,
		ActionName: doc.Action.Name,
		Parameters: doc.Action.Parameters,
		Revoked:    revoked,
	})
	if err != nil {
		return nil, err
	}

	return opaque, nil
}

// CleanupExpiredNonces removes every nonce older than maxAge from both
// used and timestamps. InvokeCapability calls this opportunistically
// after each successful invocation (spec §4.6 step 9); callers may also
// call it on their own schedule.
func CleanupExpiredNonces(used NonceStore, timestamps NonceTimestamps, maxAge time.Duration) {
	if maxAge <= 0 {
		maxAge = DefaultNonceMaxAge
	}
	cutoff := time.Now().UTC().Add(-maxAge)
	for _, n := range timestamps.Keys() {
		t, ok := timestamps.Get(n)
		if !ok {
			continue
		}
		if t.Before(cutoff) {
			used.Delete(n)
			timestamps.Delete(n)
		}
	}
}

func hasAction(actions []Action, name string) bool {
	for _, a := range actions {
		if a.Name == name {
			return true
		}
	}
	return false
}

func freshNonce(used NonceStore) (string, error) {
	for i := 0; i < maxNonceAttempts; i++ {
		raw := make([]byte, 16) // 128 bits
		if _, err := rand.Read(raw); err != nil {
			return "", NewInvocationError(errWrap(err, "failed to generate a nonce"))
		}
		nonce := hex.EncodeToString(raw)
		if !used.Has(nonce) {
			return nonce, nil
		}
	}
	return "", NewInvocationError(errNew("exhausted retry budget generating a collision-free nonce"))
}
