package zcap

import (
	"encoding/json"

	"github.com/piprate/json-gold/ld"
)

// canonicalizeDocument produces the deterministic signing input for a
// JSON-LD document per spec §4.1: strip proof, expand against the
// embedded context whitelist, and normalize the resulting RDF dataset
// with URDNA2015. Two documents differing only in key order, whitespace,
// or JSON-LD shorthand produce identical bytes.
func canonicalizeDocument(doc map[string]interface{}) ([]byte, error) {
	stripped := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if k == "proof" {
			continue
		}
		stripped[k] = v
	}

	// Round-trip through encoding/json so every nested value is a generic
	// JSON type (map[string]interface{}, []interface{}, string, float64,
	// bool, nil) rather than a concrete Go type the JSON-LD processor
	// doesn't know how to walk.
	generic, err := toGenericJSON(stripped)
	if err != nil {
		return nil, NewCanonicalizationError(errWrap(err, "failed to normalize document shape before canonicalization"))
	}

	proc := ld.NewJsonLdProcessor()
	options := ld.NewJsonLdOptions("")
	options.Algorithm = ld.AlgorithmURDNA2015
	options.Format = "application/n-quads"
	options.DocumentLoader = embeddedContextLoader{}

	normalized, err := proc.Normalize(generic, options)
	if err != nil {
		return nil, NewCanonicalizationError(errWrap(err, "URDNA2015 normalization failed"))
	}

	canonical, ok := normalized.(string)
	if !ok {
		return nil, NewCanonicalizationError(errNewf("unexpected normalize result type %T", normalized))
	}
	return []byte(canonical), nil
}

func toGenericJSON(v interface{}) (interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CanonicalizeCapability returns the canonical signing bytes for c, with
// its proof (if any) excluded.
func CanonicalizeCapability(c *Capability) ([]byte, error) {
	doc, err := ToJSONLD(c)
	if err != nil {
		return nil, err
	}
	return canonicalizeDocument(doc)
}

// CanonicalizeInvocation returns the canonical signing bytes for doc, with
// its proof excluded.
func CanonicalizeInvocation(doc *InvocationDocument) ([]byte, error) {
	m, err := InvocationToJSONLD(doc)
	if err != nil {
		return nil, err
	}
	return canonicalizeDocument(m)
}
