package zcap

import (
	"crypto/ed25519"
	"time"
)

// The interfaces below are the "explicit handles to caller-owned
// containers" called for in spec §9: the core never hides caller state
// behind package globals. Map-backed implementations are provided for
// callers who just want a plain map; anything satisfying the interface
// (a database-backed store, a cache, a mutex-guarded wrapper) works too.

// DIDKeyStore resolves a DID to its Ed25519 public key. Read-only to the
// library (spec §5).
type DIDKeyStore interface {
	Get(did string) (ed25519.PublicKey, bool)
}

// MapDIDKeyStore is the simplest DIDKeyStore: a plain map.
type MapDIDKeyStore map[string]ed25519.PublicKey

func (m MapDIDKeyStore) Get(did string) (ed25519.PublicKey, bool) {
	pk, ok := m[did]
	return pk, ok
}

// CapabilityStore resolves a capability id to its document. Read-only to
// the library; the caller decides when and whether to Put a capability the
// library produced (spec §3: "the library itself never assumes this for
// the capability just produced").
type CapabilityStore interface {
	Get(id string) (*Capability, bool)
	Put(c *Capability)
}

// MapCapabilityStore is the simplest CapabilityStore: a plain map keyed by
// capability id.
type MapCapabilityStore map[string]*Capability

func (m MapCapabilityStore) Get(id string) (*Capability, bool) {
	c, ok := m[id]
	return c, ok
}

func (m MapCapabilityStore) Put(c *Capability) {
	m[c.ID] = c
}

// RevokedSet tracks revoked ids. Read-only to the library — callers revoke
// by adding directly to their own set (spec §3 "Lifecycles").
type RevokedSet interface {
	IsRevoked(id string) bool
}

// MapRevokedSet is the simplest RevokedSet: a plain set backed by a map.
type MapRevokedSet map[string]struct{}

func (m MapRevokedSet) IsRevoked(id string) bool {
	_, ok := m[id]
	return ok
}

// Revoke adds id to the set. Not called by the library itself.
func (m MapRevokedSet) Revoke(id string) {
	m[id] = struct{}{}
}

// NonceStore tracks nonces that have been used by a successful invocation.
// Read-write: InvokeCapability and CleanupExpiredNonces mutate it in
// place. Callers sharing a NonceStore across goroutines must provide their
// own mutual exclusion across the entire InvokeCapability call (spec §5).
type NonceStore interface {
	Has(nonce string) bool
	Add(nonce string)
	Delete(nonce string)
	Len() int
}

// MapNonceStore is the simplest NonceStore: a plain set backed by a map.
type MapNonceStore map[string]struct{}

func (m MapNonceStore) Has(nonce string) bool {
	_, ok := m[nonce]
	return ok
}

func (m MapNonceStore) Add(nonce string)    { m[nonce] = struct{}{} }
func (m MapNonceStore) Delete(nonce string) { delete(m, nonce) }
func (m MapNonceStore) Len() int            { return len(m) }

// NonceTimestamps pairs each used nonce with the time it was recorded, so
// CleanupExpiredNonces knows what to evict. Callers must keep this and the
// matching NonceStore transactionally consistent (spec §5).
type NonceTimestamps interface {
	Set(nonce string, t time.Time)
	Get(nonce string) (time.Time, bool)
	Delete(nonce string)
	Keys() []string
}

// MapNonceTimestamps is the simplest NonceTimestamps: a plain map.
type MapNonceTimestamps map[string]time.Time

func (m MapNonceTimestamps) Set(nonce string, t time.Time) { m[nonce] = t }

func (m MapNonceTimestamps) Get(nonce string) (time.Time, bool) {
	t, ok := m[nonce]
	return t, ok
}

func (m MapNonceTimestamps) Delete(nonce string) { delete(m, nonce) }

func (m MapNonceTimestamps) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
