// Package zcap implements the core of ZCAP-LD (Authorization Capabilities
// for Linked Data): creation, delegation, invocation, and verification of
// cryptographically-signed authorization capabilities expressed as
// JSON-LD documents.
//
// The package is a stateless, pure-function library over caller-owned
// state. Key generation, DID resolution, and persistent storage of
// capabilities, revocation sets, and nonce tables are all external
// collaborators the caller supplies through the DIDKeyStore,
// CapabilityStore, RevokedSet, NonceStore, and NonceTimestamps
// interfaces. The only exception is InvokeCapability and
// CleanupExpiredNonces, which mutate the caller's nonce containers in
// place.
package zcap
