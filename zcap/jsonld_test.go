package zcap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFromJSONLDRoundTrip(t *testing.T) {
	c := testCapability(t)
	c.Caveats = []Caveat{ValidUntilCaveat(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))}
	c.ParentCapability = "urn:uuid:parent-1"
	c.Target.Additional = map[string]interface{}{"path": "/invoices"}

	m, err := ToJSONLD(c)
	require.NoError(t, err)

	back, err := FromJSONLD(m)
	require.NoError(t, err)

	assert.Equal(t, c.ID, back.ID)
	assert.Equal(t, c.Controller, back.Controller)
	assert.Equal(t, c.Invoker, back.Invoker)
	assert.Equal(t, c.Target.ID, back.Target.ID)
	assert.Equal(t, "/invoices", back.Target.Additional["path"])
	assert.Equal(t, c.ParentCapability, back.ParentCapability)
	require.Len(t, back.Caveats, 1)
	assert.True(t, c.Caveats[0].Equal(back.Caveats[0]))
	assert.WithinDuration(t, c.Created, back.Created, time.Second)
	require.NotNil(t, back.Expires)
	assert.WithinDuration(t, *c.Expires, *back.Expires, time.Second)
}

func TestFromJSONLDRejectsWrongType(t *testing.T) {
	c := testCapability(t)
	m, err := ToJSONLD(c)
	require.NoError(t, err)
	m["type"] = "NotAZcap"

	_, err = FromJSONLD(m)
	assert.Error(t, err)
}

func TestFromJSONLDRejectsMissingContext(t *testing.T) {
	c := testCapability(t)
	m, err := ToJSONLD(c)
	require.NoError(t, err)
	m["@context"] = []interface{}{ContextSecurity}

	_, err = FromJSONLD(m)
	assert.Error(t, err)
}

func TestFromJSONLDRejectsEmptyActions(t *testing.T) {
	c := testCapability(t)
	m, err := ToJSONLD(c)
	require.NoError(t, err)
	m["actions"] = []interface{}{}

	_, err = FromJSONLD(m)
	assert.Error(t, err)
}

func TestFromJSONLDRejectsMissingRequiredField(t *testing.T) {
	c := testCapability(t)
	m, err := ToJSONLD(c)
	require.NoError(t, err)
	delete(m, "created")

	_, err = FromJSONLD(m)
	assert.Error(t, err)
}

func TestInvocationToFromJSONLDRoundTrip(t *testing.T) {
	doc := &InvocationDocument{
		ID:         "urn:uuid:inv-1",
		Type:       TypeInvocation,
		Capability: "urn:uuid:cap-1",
		Action:     Action{Name: "read", Parameters: map[string]interface{}{"path": "/x"}},
		Created:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Nonce:      "deadbeef",
		Proof: Proof{
			ID:                 "urn:uuid:proof-1",
			Type:               ProofTypeEd25519Signature2020,
			Created:            time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			VerificationMethod: "did:key:zInvoker#key-1",
			ProofPurpose:       ProofPurposeInvocation,
			ProofValue:         "zSignature",
		},
	}

	m, err := InvocationToJSONLD(doc)
	require.NoError(t, err)
	back, err := InvocationFromJSONLD(m)
	require.NoError(t, err)

	assert.Equal(t, doc.ID, back.ID)
	assert.Equal(t, doc.Capability, back.Capability)
	assert.Equal(t, doc.Nonce, back.Nonce)
	assert.Equal(t, doc.Proof.ProofValue, back.Proof.ProofValue)
}

func TestContainsAll(t *testing.T) {
	assert.True(t, containsAll([]string{"a", "b", "c"}, "a", "c"))
	assert.False(t, containsAll([]string{"a", "b"}, "a", "c"))
}
