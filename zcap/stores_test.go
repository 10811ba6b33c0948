package zcap

import (
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMapDIDKeyStore(t *testing.T) {
	pub, _, _ := ed25519.GenerateKey(nil)
	s := MapDIDKeyStore{"did:key:zA": pub}

	got, ok := s.Get("did:key:zA")
	assert.True(t, ok)
	assert.Equal(t, pub, got)

	_, ok = s.Get("did:key:zMissing")
	assert.False(t, ok)
}

func TestMapCapabilityStore(t *testing.T) {
	s := MapCapabilityStore{}
	c := &Capability{ID: "urn:uuid:1"}
	s.Put(c)

	got, ok := s.Get("urn:uuid:1")
	assert.True(t, ok)
	assert.Same(t, c, got)

	_, ok = s.Get("urn:uuid:missing")
	assert.False(t, ok)
}

func TestMapRevokedSet(t *testing.T) {
	s := MapRevokedSet{}
	assert.False(t, s.IsRevoked("urn:uuid:1"))
	s.Revoke("urn:uuid:1")
	assert.True(t, s.IsRevoked("urn:uuid:1"))
}

func TestMapNonceStore(t *testing.T) {
	s := MapNonceStore{}
	assert.False(t, s.Has("n1"))
	s.Add("n1")
	assert.True(t, s.Has("n1"))
	assert.Equal(t, 1, s.Len())
	s.Delete("n1")
	assert.False(t, s.Has("n1"))
	assert.Equal(t, 0, s.Len())
}

func TestMapNonceTimestamps(t *testing.T) {
	s := MapNonceTimestamps{}
	now := time.Now().UTC()
	s.Set("n1", now)

	got, ok := s.Get("n1")
	assert.True(t, ok)
	assert.Equal(t, now, got)

	assert.ElementsMatch(t, []string{"n1"}, s.Keys())

	s.Delete("n1")
	_, ok = s.Get("n1")
	assert.False(t, ok)
}
