package zcap

import (
	"crypto/ed25519"
	"encoding/hex"

	"github.com/multiformats/go-multibase"
)

// SignBytes signs canonical bytes with priv and returns the proof_value
// encoding: multibase base58-btc, which always carries the 'z' prefix
// (spec §4.2).
func SignBytes(priv ed25519.PrivateKey, canonical []byte) string {
	sig := ed25519.Sign(priv, canonical)
	encoded, err := multibase.Encode(multibase.Base58BTC, sig)
	if err != nil {
		// multibase.Encode only fails for an unsupported base, and
		// Base58BTC is always supported; this is unreachable in practice.
		panic(errWrap(err, "multibase encode of a fixed, supported base failed"))
	}
	return encoded
}

// decodeProofValue accepts the multibase-encoded signature, or falls back
// to bare hex for legacy input only (spec §4.2). It never produces hex on
// output.
func decodeProofValue(proofValue string) ([]byte, error) {
	if proofValue == "" {
		return nil, NewSignatureVerificationError(errNew("proof_value is empty"))
	}

	if proofValue[0] == 'z' {
		enc, sig, err := multibase.Decode(proofValue)
		if err != nil {
			return nil, NewSignatureVerificationError(errWrap(err, "failed to decode multibase proof_value"))
		}
		if enc != multibase.Base58BTC {
			return nil, NewSignatureVerificationError(errNewf("proof_value uses multibase encoding %q, want base58btc", string(enc)))
		}
		return sig, nil
	}

	// Legacy fallback: bare hex-encoded signature, accepted on input only.
	sig, err := hex.DecodeString(proofValue)
	if err != nil {
		return nil, NewSignatureVerificationError(errWrap(err, "proof_value is neither multibase base58btc nor hex"))
	}
	return sig, nil
}

// VerifySignature checks that proofValue is a valid Ed25519 signature by
// pub over canonical.
func VerifySignature(pub ed25519.PublicKey, canonical []byte, proofValue string) error {
	sig, err := decodeProofValue(proofValue)
	if err != nil {
		return err
	}
	if len(sig) != ed25519.SignatureSize {
		return NewSignatureVerificationError(errNewf("signature is %d bytes, want %d", len(sig), ed25519.SignatureSize))
	}
	if !ed25519.Verify(pub, canonical, sig) {
		return NewSignatureVerificationError(errNew("signature verification failed"))
	}
	return nil
}
