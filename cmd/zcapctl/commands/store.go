package commands

import (
	"crypto/ed25519"
	"encoding/json"
	"os"
	"time"

	"github.com/teranos/zcap/errors"
	"github.com/teranos/zcap/zcap"
)

// identityRecord is the on-disk form of a keypair zcapctl generated for a
// did:key identity. Keeping the private key alongside the public one is a
// demo-tool convenience: the zcap library itself never persists key
// material, and a real deployment would keep private keys in a wallet or
// HSM rather than a JSON file like this one.
type identityRecord struct {
	PublicKey  []byte `json:"public_key"`
	PrivateKey []byte `json:"private_key"`
}

// demoState is the entire persisted state of a zcapctl invocation: every
// identity it has generated, every capability it has created or seen,
// and the replay-protection bookkeeping InvokeCapability needs. It is
// the caller-owned state the zcap library's stateless API expects callers
// to supply (spec.md §5, §9).
type demoState struct {
	Identities      map[string]identityRecord   `json:"identities"`
	Capabilities    map[string]*zcap.Capability `json:"capabilities"`
	Revoked         map[string]bool             `json:"revoked"`
	UsedNonces      map[string]bool             `json:"used_nonces"`
	NonceTimestamps map[string]time.Time        `json:"nonce_timestamps"`
}

// demoStateWire is demoState's on-disk form. Capabilities are stored as
// spec §3 JSON-LD maps (zcap.ToJSONLD/FromJSONLD), the same wire format
// zcapctl prints, rather than as a direct marshal of the in-memory struct.
type demoStateWire struct {
	Identities      map[string]identityRecord         `json:"identities"`
	Capabilities    map[string]map[string]interface{} `json:"capabilities"`
	Revoked         map[string]bool                   `json:"revoked"`
	UsedNonces      map[string]bool                   `json:"used_nonces"`
	NonceTimestamps map[string]time.Time              `json:"nonce_timestamps"`
}

func newDemoState() *demoState {
	return &demoState{
		Identities:      make(map[string]identityRecord),
		Capabilities:    make(map[string]*zcap.Capability),
		Revoked:         make(map[string]bool),
		UsedNonces:      make(map[string]bool),
		NonceTimestamps: make(map[string]time.Time),
	}
}

func loadDemoState(path string) (*demoState, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return newDemoState(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read store %s", path)
	}

	var wire demoStateWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, errors.Wrapf(err, "failed to parse store %s", path)
	}

	state := newDemoState()
	if wire.Identities != nil {
		state.Identities = wire.Identities
	}
	if wire.Revoked != nil {
		state.Revoked = wire.Revoked
	}
	if wire.UsedNonces != nil {
		state.UsedNonces = wire.UsedNonces
	}
	if wire.NonceTimestamps != nil {
		state.NonceTimestamps = wire.NonceTimestamps
	}
	for id, m := range wire.Capabilities {
		c, err := zcap.FromJSONLD(m)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse stored capability %s", id)
		}
		state.Capabilities[id] = c
	}
	return state, nil
}

func (s *demoState) save(path string) error {
	wire := demoStateWire{
		Identities:      s.Identities,
		Capabilities:    make(map[string]map[string]interface{}, len(s.Capabilities)),
		Revoked:         s.Revoked,
		UsedNonces:      s.UsedNonces,
		NonceTimestamps: s.NonceTimestamps,
	}
	for id, c := range s.Capabilities {
		m, err := zcap.ToJSONLD(c)
		if err != nil {
			return errors.Wrapf(err, "failed to project capability %s to JSON-LD", id)
		}
		wire.Capabilities[id] = m
	}

	raw, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal store")
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write store %s", path)
	}
	return nil
}

func (s *demoState) privateKey(did string) (ed25519.PrivateKey, error) {
	rec, ok := s.Identities[did]
	if !ok {
		return nil, errors.Newf("no local identity for %s", did)
	}
	return ed25519.PrivateKey(rec.PrivateKey), nil
}

func (s *demoState) putIdentity(did string, pub ed25519.PublicKey, priv ed25519.PrivateKey) {
	s.Identities[did] = identityRecord{PublicKey: pub, PrivateKey: priv}
}

// didKeyStore adapts demoState's identity map to zcap.DIDKeyStore.
type didKeyStore struct{ state *demoState }

func (s didKeyStore) Get(did string) (ed25519.PublicKey, bool) {
	rec, ok := s.state.Identities[did]
	if !ok {
		return nil, false
	}
	return ed25519.PublicKey(rec.PublicKey), true
}

// capabilityStore adapts demoState's capability map to zcap.CapabilityStore.
type capabilityStore struct{ state *demoState }

func (s capabilityStore) Get(id string) (*zcap.Capability, bool) {
	c, ok := s.state.Capabilities[id]
	return c, ok
}

func (s capabilityStore) Put(c *zcap.Capability) {
	s.state.Capabilities[c.ID] = c
}

// revokedSet adapts demoState's revocation map to zcap.RevokedSet.
type revokedSet struct{ state *demoState }

func (s revokedSet) IsRevoked(id string) bool { return s.state.Revoked[id] }

// nonceStore adapts demoState's used-nonce map to zcap.NonceStore.
type nonceStore struct{ state *demoState }

func (s nonceStore) Has(nonce string) bool { return s.state.UsedNonces[nonce] }
func (s nonceStore) Add(nonce string)      { s.state.UsedNonces[nonce] = true }
func (s nonceStore) Delete(nonce string)   { delete(s.state.UsedNonces, nonce) }
func (s nonceStore) Len() int              { return len(s.state.UsedNonces) }

// nonceTimestamps adapts demoState's nonce timestamp map to
// zcap.NonceTimestamps.
type nonceTimestamps struct{ state *demoState }

func (s nonceTimestamps) Set(nonce string, t time.Time) { s.state.NonceTimestamps[nonce] = t }

func (s nonceTimestamps) Get(nonce string) (time.Time, bool) {
	t, ok := s.state.NonceTimestamps[nonce]
	return t, ok
}

func (s nonceTimestamps) Delete(nonce string) { delete(s.state.NonceTimestamps, nonce) }

func (s nonceTimestamps) Keys() []string {
	keys := make([]string, 0, len(s.state.NonceTimestamps))
	for k := range s.state.NonceTimestamps {
		keys = append(keys, k)
	}
	return keys
}
