package zcap

import "time"

// Fixed context IRIs every capability and invocation document carries.
// No other context IRI is recognized by the canonicalizer (spec §4.1, §6).
const (
	ContextSecurity = "https://w3id.org/security/v2"
	ContextZcap     = "https://w3id.org/zcap/v1"

	TypeCapability = "zcap"
	TypeInvocation = "CapabilityInvocation"

	ProofTypeEd25519Signature2020 = "Ed25519Signature2020"
	ProofPurposeDelegation        = "capabilityDelegation"
	ProofPurposeInvocation        = "capabilityInvocation"

	KeyTypeEd25519VerificationKey2020 = "Ed25519VerificationKey2020"
)

// DefaultContext is the context sequence every capability produced by this
// package carries, in the fixed order spec §3 requires.
func DefaultContext() []string {
	return []string{ContextSecurity, ContextZcap}
}

// Party identifies a DID and the verification-key type it authenticates
// with. Used for both controller and invoker.
type Party struct {
	ID   string
	Type string
}

// Target is the resource a capability grants actions over. Additional
// carries properties beyond ID/Type that the caller attached and that must
// survive a to-JSON-LD/from-JSON-LD round trip untouched.
type Target struct {
	ID         string
	Type       string
	Additional map[string]interface{}
}

// Action is a named operation with its invocation-time parameter schema or,
// on an invocation document, the actual parameter values.
type Action struct {
	Name       string
	Parameters map[string]interface{}
}

// Proof is the detached Ed25519 signature envelope attached to a capability
// or invocation document after signing.
type Proof struct {
	ID                 string
	Type               string
	Created            time.Time
	VerificationMethod string
	ProofPurpose       string
	ProofValue         string
}

// Capability is an immutable, signed authorization record. See spec §3.
type Capability struct {
	ID               string
	Context          []string
	Type             string
	Controller       Party
	Invoker          Party
	Target           Target
	Actions          []Action
	Caveats          []Caveat
	ParentCapability string
	Created          time.Time
	Expires          *time.Time
	Proof            *Proof
}

// IsDelegation reports whether this capability was produced by delegation
// rather than being a root capability.
func (c *Capability) IsDelegation() bool {
	return c.ParentCapability != ""
}

// InvocationDocument is the signed JSON-LD object produced by
// InvokeCapability and consumed by VerifyInvocation. See spec §3.
type InvocationDocument struct {
	ID         string
	Type       string
	Capability string
	Action     Action
	Created    time.Time
	Nonce      string
	Proof      Proof
}
