package zcap

import (
	"encoding/json"

	"github.com/piprate/json-gold/ld"
)

// Remote JSON-LD context loading is disabled (spec §1, §4.1): only these
// two fixed context IRIs are recognized, served from an in-memory
// whitelist. Any other context IRI fails canonicalization.
//
// The term mappings below are a minimal, self-consistent projection of
// the real w3id.org/security/v2 and w3id.org/zcap/v1 vocabularies — just
// enough to expand every term this package's wire format uses — rather
// than a byte-for-byte copy of the published documents, since the
// published documents are never fetched at runtime anyway (see
// DESIGN.md's open-question log).
const (
	securityContextDoc = `{
  "@context": {
    "id": "@id",
    "type": "@type",
    "sec": "https://w3id.org/security#",
    "Ed25519Signature2020": "sec:Ed25519Signature2020",
    "proof": {"@id": "sec:proof", "@type": "@id"},
    "proof_purpose": {"@id": "sec:proofPurpose", "@type": "@vocab"},
    "proof_value": "sec:proofValue",
    "verification_method": {"@id": "sec:verificationMethod", "@type": "@id"},
    "created": {"@id": "http://purl.org/dc/terms/created", "@type": "http://www.w3.org/2001/XMLSchema#dateTime"},
    "capabilityDelegation": "sec:capabilityDelegation",
    "capabilityInvocation": "sec:capabilityInvocation"
  }
}`

	zcapContextDoc = `{
  "@context": {
    "zcap": "https://w3id.org/zcap#",
    "controller": {"@id": "zcap:controller", "@type": "@id"},
    "invoker": {"@id": "zcap:invoker", "@type": "@id"},
    "target": {"@id": "zcap:target", "@type": "@id"},
    "actions": {"@id": "zcap:actions", "@container": "@list"},
    "caveats": {"@id": "zcap:caveats", "@container": "@list"},
    "parent_capability": {"@id": "zcap:parentCapability", "@type": "@id"},
    "expires": {"@id": "zcap:expires", "@type": "http://www.w3.org/2001/XMLSchema#dateTime"},
    "capability": {"@id": "zcap:capability", "@type": "@id"},
    "action": "zcap:action",
    "name": "zcap:name",
    "parameters": "zcap:parameters",
    "nonce": "zcap:nonce",
    "date": {"@id": "zcap:date", "@type": "http://www.w3.org/2001/XMLSchema#dateTime"},
    "resource_id": {"@id": "zcap:resourceId", "@type": "@id"},
    "CapabilityInvocation": "zcap:CapabilityInvocation"
  }
}`
)

var embeddedContexts = map[string]string{
	ContextSecurity: securityContextDoc,
	ContextZcap:     zcapContextDoc,
}

// embeddedContextLoader implements ld.DocumentLoader against the fixed
// whitelist above. Any IRI outside the whitelist is refused rather than
// fetched.
type embeddedContextLoader struct{}

func (embeddedContextLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	raw, ok := embeddedContexts[u]
	if !ok {
		return nil, NewCanonicalizationError(errNewf("context %q is not in the embedded whitelist", u))
	}
	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, NewCanonicalizationError(errWrapf(err, "failed to parse embedded context %q", u))
	}
	return &ld.RemoteDocument{DocumentURL: u, Document: doc}, nil
}
