package zcap

import (
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelegateCapabilityInheritsActionsWhenNil(t *testing.T) {
	h := newHarness(t)
	root, err := CreateCapability("did:key:zController", "did:key:zInvoker", []Action{{Name: "read"}, {Name: "write"}}, Target{ID: "urn:uuid:r1"}, h.controllerPriv, nil, nil)
	require.NoError(t, err)
	h.store.Put(root)

	granteePub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	h.didKeys["did:key:zGrantee"] = granteePub

	child, err := DelegateCapability(root, h.invokerPriv, "did:key:zGrantee", h.didKeys, h.revoked, h.store, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, root.Actions, child.Actions)
	assert.Equal(t, root.Controller, child.Controller)
	assert.Equal(t, root.ID, child.ParentCapability)
}

func TestDelegateCapabilityRejectsActionEscalation(t *testing.T) {
	h := newHarness(t)
	root, err := CreateCapability("did:key:zController", "did:key:zInvoker", []Action{{Name: "read"}}, Target{ID: "urn:uuid:r1"}, h.controllerPriv, nil, nil)
	require.NoError(t, err)
	h.store.Put(root)

	_, err = DelegateCapability(root, h.invokerPriv, "did:key:zGrantee", h.didKeys, h.revoked, h.store, []Action{{Name: "delete"}}, nil, nil)
	assert.Error(t, err)
}

func TestDelegateCapabilityRejectsExpiryEscalation(t *testing.T) {
	h := newHarness(t)
	parentExpiry := time.Now().UTC().Add(time.Hour)
	root, err := CreateCapability("did:key:zController", "did:key:zInvoker", []Action{{Name: "read"}}, Target{ID: "urn:uuid:r1"}, h.controllerPriv, &parentExpiry, nil)
	require.NoError(t, err)
	h.store.Put(root)

	tooLate := parentExpiry.Add(time.Hour)
	_, err = DelegateCapability(root, h.invokerPriv, "did:key:zGrantee", h.didKeys, h.revoked, h.store, nil, &tooLate, nil)
	assert.Error(t, err)
}

func TestDelegateCapabilityRejectsWrongDelegator(t *testing.T) {
	h := newHarness(t)
	root, err := CreateCapability("did:key:zController", "did:key:zInvoker", []Action{{Name: "read"}}, Target{ID: "urn:uuid:r1"}, h.controllerPriv, nil, nil)
	require.NoError(t, err)
	h.store.Put(root)

	_, impostorPriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	_, err = DelegateCapability(root, impostorPriv, "did:key:zGrantee", h.didKeys, h.revoked, h.store, nil, nil, nil)
	assert.Error(t, err)
}

func TestDelegateCapabilityAccumulatesCaveats(t *testing.T) {
	h := newHarness(t)
	future := time.Now().UTC().Add(2 * time.Hour)
	root, err := CreateCapability("did:key:zController", "did:key:zInvoker", []Action{{Name: "read"}}, Target{ID: "urn:uuid:r1"}, h.controllerPriv, nil, []Caveat{ValidUntilCaveat(future)})
	require.NoError(t, err)
	h.store.Put(root)

	granteePub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	h.didKeys["did:key:zGrantee"] = granteePub

	extra := RequireParameterCaveat("region", "us-east-1")
	child, err := DelegateCapability(root, h.invokerPriv, "did:key:zGrantee", h.didKeys, h.revoked, h.store, nil, nil, []Caveat{extra})
	require.NoError(t, err)

	require.Len(t, child.Caveats, 2)
	assert.True(t, caveatPresentIn(child.Caveats, root.Caveats[0]))
	assert.True(t, caveatPresentIn(child.Caveats, extra))
}

func TestDelegateCapabilityRejectsConflictingCaveat(t *testing.T) {
	h := newHarness(t)
	future := time.Now().UTC().Add(2 * time.Hour)
	root, err := CreateCapability("did:key:zController", "did:key:zInvoker", []Action{{Name: "read"}}, Target{ID: "urn:uuid:r1"}, h.controllerPriv, nil, []Caveat{ValidUntilCaveat(future)})
	require.NoError(t, err)
	h.store.Put(root)

	conflicting := ValidUntilCaveat(future.Add(time.Hour))
	_, err = DelegateCapability(root, h.invokerPriv, "did:key:zGrantee", h.didKeys, h.revoked, h.store, nil, nil, []Caveat{conflicting})
	assert.Error(t, err)
}

func TestDelegateCapabilityRejectsNilParent(t *testing.T) {
	h := newHarness(t)
	_, err := DelegateCapability(nil, h.invokerPriv, "did:key:zGrantee", h.didKeys, h.revoked, h.store, nil, nil, nil)
	assert.Error(t, err)
}

func TestMultiLevelDelegationChainVerifies(t *testing.T) {
	h := newHarness(t)
	root, err := CreateCapability("did:key:zController", "did:key:zInvoker", []Action{{Name: "read"}, {Name: "write"}, {Name: "delete"}}, Target{ID: "urn:uuid:r1"}, h.controllerPriv, nil, nil)
	require.NoError(t, err)
	h.store.Put(root)

	bobPub, bobPriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	h.didKeys["did:key:zBob"] = bobPub

	bobCap, err := DelegateCapability(root, h.invokerPriv, "did:key:zBob", h.didKeys, h.revoked, h.store, []Action{{Name: "read"}, {Name: "write"}}, nil, nil)
	require.NoError(t, err)
	h.store.Put(bobCap)

	carolPub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	h.didKeys["did:key:zCarol"] = carolPub

	carolCap, err := DelegateCapability(bobCap, bobPriv, "did:key:zCarol", h.didKeys, h.revoked, h.store, []Action{{Name: "read"}}, nil, nil)
	require.NoError(t, err)
	h.store.Put(carolCap)

	assert.NoError(t, VerifyCapability(carolCap, h.didKeys, h.revoked, h.store))

	// Revoking the middle link breaks the whole chain.
	h.revoked.Revoke(bobCap.ID)
	assert.Error(t, VerifyCapability(carolCap, h.didKeys, h.revoked, h.store))
}
