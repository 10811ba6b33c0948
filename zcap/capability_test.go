package zcap

import (
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// harness bundles the generated keys and caller-owned stores a test
// scenario needs, mirroring the "explicit handles" design the library
// expects callers to provide.
type harness struct {
	controllerPub  ed25519.PublicKey
	controllerPriv ed25519.PrivateKey
	invokerPub     ed25519.PublicKey
	invokerPriv    ed25519.PrivateKey
	didKeys        MapDIDKeyStore
	store          MapCapabilityStore
	revoked        MapRevokedSet
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cPub, cPriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	iPub, iPriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	return &harness{
		controllerPub:  cPub,
		controllerPriv: cPriv,
		invokerPub:     iPub,
		invokerPriv:    iPriv,
		didKeys: MapDIDKeyStore{
			"did:key:zController": cPub,
			"did:key:zInvoker":    iPub,
		},
		store:   MapCapabilityStore{},
		revoked: MapRevokedSet{},
	}
}

func TestCreateCapabilityProducesVerifiableRoot(t *testing.T) {
	h := newHarness(t)

	c, err := CreateCapability(
		"did:key:zController", "did:key:zInvoker",
		[]Action{{Name: "read"}},
		Target{ID: "urn:uuid:resource-1", Type: "Resource"},
		h.controllerPriv, nil, nil,
	)
	require.NoError(t, err)
	require.NotNil(t, c.Proof)
	assert.False(t, c.IsDelegation())

	h.store.Put(c)
	assert.NoError(t, VerifyCapability(c, h.didKeys, h.revoked, h.store))
}

func TestCreateCapabilityRejectsMissingFields(t *testing.T) {
	h := newHarness(t)

	_, err := CreateCapability("", "did:key:zInvoker", []Action{{Name: "read"}}, Target{ID: "x"}, h.controllerPriv, nil, nil)
	assert.Error(t, err)

	_, err = CreateCapability("did:key:zController", "did:key:zInvoker", nil, Target{ID: "x"}, h.controllerPriv, nil, nil)
	assert.Error(t, err)

	_, err = CreateCapability("did:key:zController", "did:key:zInvoker", []Action{{Name: "read"}}, Target{}, h.controllerPriv, nil, nil)
	assert.Error(t, err)
}

func TestVerifyCapabilityRejectsTamperedContent(t *testing.T) {
	h := newHarness(t)
	c, err := CreateCapability("did:key:zController", "did:key:zInvoker", []Action{{Name: "read"}}, Target{ID: "urn:uuid:r1"}, h.controllerPriv, nil, nil)
	require.NoError(t, err)
	h.store.Put(c)

	c.Actions = append(c.Actions, Action{Name: "delete"})
	assert.Error(t, VerifyCapability(c, h.didKeys, h.revoked, h.store))
}

func TestVerifyCapabilityRejectsExpired(t *testing.T) {
	h := newHarness(t)
	past := time.Now().UTC().Add(-time.Hour)
	c, err := CreateCapability("did:key:zController", "did:key:zInvoker", []Action{{Name: "read"}}, Target{ID: "urn:uuid:r1"}, h.controllerPriv, &past, nil)
	require.NoError(t, err)
	h.store.Put(c)

	assert.Error(t, VerifyCapability(c, h.didKeys, h.revoked, h.store))
}

func TestVerifyCapabilityRejectsRevoked(t *testing.T) {
	h := newHarness(t)
	c, err := CreateCapability("did:key:zController", "did:key:zInvoker", []Action{{Name: "read"}}, Target{ID: "urn:uuid:r1"}, h.controllerPriv, nil, nil)
	require.NoError(t, err)
	h.store.Put(c)
	h.revoked.Revoke(c.ID)

	assert.Error(t, VerifyCapability(c, h.didKeys, h.revoked, h.store))
}

func TestVerifyCapabilityRejectsUnknownSignerDID(t *testing.T) {
	h := newHarness(t)
	c, err := CreateCapability("did:key:zController", "did:key:zInvoker", []Action{{Name: "read"}}, Target{ID: "urn:uuid:r1"}, h.controllerPriv, nil, nil)
	require.NoError(t, err)
	h.store.Put(c)

	emptyKeys := MapDIDKeyStore{}
	err = VerifyCapability(c, emptyKeys, h.revoked, h.store)
	require.Error(t, err)
	var notFound *DIDKeyNotFoundError
	assert.ErrorAs(t, err, &notFound)
}
