// Package didkey generates and decodes did:key identifiers for Ed25519
// keys: did:key:z + base58btc(multicodec prefix 0xed 0x01 + 32-byte public
// key). It is the identity primitive the zcap package expects controller
// and invoker DIDs to be expressed in, though zcap itself never decodes
// one — callers populate a DIDKeyStore however they see fit, and didkey
// is simply the convenient way to do it with Ed25519.
package didkey

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"

	"github.com/mr-tron/base58"

	"github.com/teranos/zcap/errors"
)

const (
	keyPrefixHigh byte = 0xed
	keyPrefixLow  byte = 0x01

	// VerificationKeyType is the suite used in the did:key document's
	// verificationMethod entry.
	VerificationKeyType = "Ed25519VerificationKey2020"
)

// Identity bundles a generated or loaded did:key with the keypair behind
// it.
type Identity struct {
	DID        string
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// Generate creates a fresh Ed25519 keypair and its did:key identifier.
func Generate() (*Identity, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate ed25519 keypair")
	}
	return &Identity{
		DID:        Encode(pub),
		PublicKey:  pub,
		PrivateKey: priv,
	}, nil
}

// Encode renders an Ed25519 public key as a did:key identifier.
func Encode(pub ed25519.PublicKey) string {
	buf := make([]byte, 2+len(pub))
	buf[0] = keyPrefixHigh
	buf[1] = keyPrefixLow
	copy(buf[2:], pub)
	return "did:key:z" + base58.Encode(buf)
}

// Decode recovers the Ed25519 public key encoded in a did:key identifier.
func Decode(did string) (ed25519.PublicKey, error) {
	const prefix = "did:key:z"
	if len(did) <= len(prefix) || did[:len(prefix)] != prefix {
		return nil, errors.Newf("%q is not a did:key identifier", did)
	}
	raw, err := base58.Decode(did[len(prefix):])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to base58-decode %q", did)
	}
	if len(raw) != 2+ed25519.PublicKeySize {
		return nil, errors.Newf("%q decodes to %d bytes, want %d", did, len(raw), 2+ed25519.PublicKeySize)
	}
	if raw[0] != keyPrefixHigh || raw[1] != keyPrefixLow {
		return nil, errors.Newf("%q does not carry the ed25519-pub multicodec prefix", did)
	}
	return ed25519.PublicKey(raw[2:]), nil
}

// document is the did:key method's minimal DID document shape.
type document struct {
	Context            string               `json:"@context"`
	ID                 string               `json:"id"`
	VerificationMethod []verificationMethod `json:"verificationMethod"`
	Authentication     []string             `json:"authentication"`
}

type verificationMethod struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	Controller         string `json:"controller"`
	PublicKeyMultibase string `json:"publicKeyMultibase"`
}

// Document renders the DID document for did, in the form a did:key
// resolver would return it.
func Document(did string) ([]byte, error) {
	if _, err := Decode(did); err != nil {
		return nil, err
	}
	fragment := did[len("did:key:"):]
	vmID := did + "#" + fragment

	doc := document{
		Context: "https://www.w3.org/ns/did/v1",
		ID:      did,
		VerificationMethod: []verificationMethod{{
			ID:                 vmID,
			Type:               VerificationKeyType,
			Controller:         did,
			PublicKeyMultibase: fragment,
		}},
		Authentication: []string{vmID},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal DID document")
	}
	return data, nil
}
