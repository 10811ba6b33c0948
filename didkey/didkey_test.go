package didkey

import (
	"crypto/ed25519"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesDecodableDID(t *testing.T) {
	id, err := Generate()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id.DID, "did:key:z"))

	pub, err := Decode(id.DID)
	require.NoError(t, err)
	assert.True(t, pub.Equal(id.PublicKey))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	did := Encode(pub)
	got, err := Decode(did)
	require.NoError(t, err)
	assert.Equal(t, pub, got)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"wrong scheme": "did:web:example.com",
		"not base58":   "did:key:z0OIl",
		"truncated":    "did:key:z6Mk",
		"empty":        "",
		"missing z":    "did:key:",
	}
	for name, did := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(did)
			assert.Error(t, err)
		})
	}
}

func TestDecodeRejectsWrongMulticodecPrefix(t *testing.T) {
	// 34 arbitrary bytes that don't start with 0xed 0x01.
	raw := make([]byte, 34)
	raw[0] = 0x00
	raw[1] = 0x00
	_, err := Decode("did:key:z" + base58.Encode(raw))
	assert.Error(t, err)
}

func TestDocumentStructure(t *testing.T) {
	id, err := Generate()
	require.NoError(t, err)

	raw, err := Document(id.DID)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, id.DID, doc["id"])
	vms, ok := doc["verificationMethod"].([]interface{})
	require.True(t, ok)
	require.Len(t, vms, 1)
	vm := vms[0].(map[string]interface{})
	assert.Equal(t, VerificationKeyType, vm["type"])
	assert.Equal(t, id.DID, vm["controller"])
}

func TestDocumentRejectsInvalidDID(t *testing.T) {
	_, err := Document("did:key:znotavalidkey")
	assert.Error(t, err)
}
