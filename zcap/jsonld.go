package zcap

import "time"

// ToJSONLD projects a capability into the mapping used both for wire
// output and as canonicalization input (spec §4.4). Field names match the
// semantic types in spec §3 exactly.
func ToJSONLD(c *Capability) (map[string]interface{}, error) {
	if c == nil {
		return nil, NewValidationError(errNew("capability is nil"))
	}

	ctx := make([]interface{}, len(c.Context))
	for i, iri := range c.Context {
		ctx[i] = iri
	}

	m := map[string]interface{}{
		"@context":   ctx,
		"id":         c.ID,
		"type":       TypeCapability,
		"controller": partyToMap(c.Controller),
		"invoker":    partyToMap(c.Invoker),
		"target":     targetToMap(c.Target),
		"actions":    actionsToList(c.Actions),
		"caveats":    caveatsToList(c.Caveats),
		"created":    c.Created.UTC().Format(time.RFC3339),
	}
	if c.ParentCapability != "" {
		m["parent_capability"] = c.ParentCapability
	}
	if c.Expires != nil {
		m["expires"] = c.Expires.UTC().Format(time.RFC3339)
	}
	if c.Proof != nil {
		m["proof"] = proofToMap(*c.Proof)
	}
	return m, nil
}

// FromJSONLD parses and validates a capability mapping, rejecting missing
// required fields or type mismatches with a ValidationError (spec §4.4).
func FromJSONLD(m map[string]interface{}) (*Capability, error) {
	id, err := requireString(m, "id")
	if err != nil {
		return nil, err
	}
	typ, err := requireString(m, "type")
	if err != nil {
		return nil, err
	}
	if typ != TypeCapability {
		return nil, NewValidationError(errNewf("capability %s has type %q, want %q", id, typ, TypeCapability))
	}

	context, err := stringListField(m, "@context")
	if err != nil {
		return nil, err
	}
	if !containsAll(context, ContextSecurity, ContextZcap) {
		return nil, NewValidationError(errNewf("capability %s is missing a required context IRI", id))
	}

	controllerRaw, err := requireMap(m, "controller")
	if err != nil {
		return nil, err
	}
	controller, err := partyFromMap(controllerRaw)
	if err != nil {
		return nil, err
	}

	invokerRaw, err := requireMap(m, "invoker")
	if err != nil {
		return nil, err
	}
	invoker, err := partyFromMap(invokerRaw)
	if err != nil {
		return nil, err
	}

	targetRaw, err := requireMap(m, "target")
	if err != nil {
		return nil, err
	}
	target, err := targetFromMap(targetRaw)
	if err != nil {
		return nil, err
	}

	actionsRaw, ok := m["actions"].([]interface{})
	if !ok || len(actionsRaw) == 0 {
		return nil, NewValidationError(errNewf("capability %s must have at least one action", id))
	}
	actions := make([]Action, 0, len(actionsRaw))
	for _, raw := range actionsRaw {
		am, ok := raw.(map[string]interface{})
		if !ok {
			return nil, NewValidationError(errNewf("capability %s has a malformed action entry", id))
		}
		a, err := actionFromMap(am)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}

	var caveats []Caveat
	if caveatsRaw, ok := m["caveats"].([]interface{}); ok {
		for _, raw := range caveatsRaw {
			cm, ok := raw.(map[string]interface{})
			if !ok {
				return nil, NewValidationError(errNewf("capability %s has a malformed caveat entry", id))
			}
			cv, err := caveatFromMap(cm)
			if err != nil {
				return nil, err
			}
			caveats = append(caveats, cv)
		}
	}

	created, err := requireTime(m, "created")
	if err != nil {
		return nil, err
	}

	var expires *time.Time
	if raw, ok := m["expires"]; ok {
		t, err := parseTimeField(raw, "expires")
		if err != nil {
			return nil, err
		}
		expires = &t
	}

	parent, _ := m["parent_capability"].(string)

	var proof *Proof
	if raw, ok := m["proof"].(map[string]interface{}); ok {
		p, err := proofFromMap(raw)
		if err != nil {
			return nil, err
		}
		proof = &p
	}

	return &Capability{
		ID:               id,
		Context:          context,
		Type:             typ,
		Controller:       controller,
		Invoker:          invoker,
		Target:           target,
		Actions:          actions,
		Caveats:          caveats,
		ParentCapability: parent,
		Created:          created,
		Expires:          expires,
		Proof:            proof,
	}, nil
}

// InvocationToJSONLD projects an invocation document into the mapping used
// both for wire output and as canonicalization input (spec §4.6). Field
// names match the semantic types in spec §3 exactly.
func InvocationToJSONLD(doc *InvocationDocument) (map[string]interface{}, error) {
	if doc == nil {
		return nil, NewValidationError(errNew("invocation document is nil"))
	}
	m := map[string]interface{}{
		"@context":   []interface{}{ContextSecurity, ContextZcap},
		"id":         doc.ID,
		"type":       TypeInvocation,
		"capability": doc.Capability,
		"action":     actionToMap(doc.Action),
		"created":    doc.Created.UTC().Format(time.RFC3339),
		"nonce":      doc.Nonce,
	}
	if doc.Proof.ProofValue != "" {
		m["proof"] = proofToMap(doc.Proof)
	}
	return m, nil
}

// InvocationFromJSONLD parses and validates an invocation mapping,
// rejecting missing required fields or type mismatches with a
// ValidationError (spec §4.6).
func InvocationFromJSONLD(m map[string]interface{}) (*InvocationDocument, error) {
	id, err := requireString(m, "id")
	if err != nil {
		return nil, err
	}
	typ, err := requireString(m, "type")
	if err != nil {
		return nil, err
	}
	if typ != TypeInvocation {
		return nil, NewValidationError(errNewf("invocation %s has type %q, want %q", id, typ, TypeInvocation))
	}
	capID, err := requireString(m, "capability")
	if err != nil {
		return nil, err
	}
	actionRaw, err := requireMap(m, "action")
	if err != nil {
		return nil, err
	}
	action, err := actionFromMap(actionRaw)
	if err != nil {
		return nil, err
	}
	created, err := requireTime(m, "created")
	if err != nil {
		return nil, err
	}
	nonce, err := requireString(m, "nonce")
	if err != nil {
		return nil, err
	}
	proofRaw, err := requireMap(m, "proof")
	if err != nil {
		return nil, err
	}
	proof, err := proofFromMap(proofRaw)
	if err != nil {
		return nil, err
	}

	return &InvocationDocument{
		ID:         id,
		Type:       typ,
		Capability: capID,
		Action:     action,
		Created:    created,
		Nonce:      nonce,
		Proof:      proof,
	}, nil
}

func partyToMap(p Party) map[string]interface{} {
	return map[string]interface{}{"id": p.ID, "type": p.Type}
}

func partyFromMap(m map[string]interface{}) (Party, error) {
	id, err := requireString(m, "id")
	if err != nil {
		return Party{}, err
	}
	typ, err := requireString(m, "type")
	if err != nil {
		return Party{}, err
	}
	return Party{ID: id, Type: typ}, nil
}

func targetToMap(t Target) map[string]interface{} {
	m := make(map[string]interface{}, len(t.Additional)+2)
	for k, v := range t.Additional {
		m[k] = v
	}
	m["id"] = t.ID
	m["type"] = t.Type
	return m
}

func targetFromMap(m map[string]interface{}) (Target, error) {
	id, err := requireString(m, "id")
	if err != nil {
		return Target{}, err
	}
	typ, err := requireString(m, "type")
	if err != nil {
		return Target{}, err
	}
	additional := make(map[string]interface{})
	for k, v := range m {
		if k == "id" || k == "type" {
			continue
		}
		additional[k] = v
	}
	if len(additional) == 0 {
		additional = nil
	}
	return Target{ID: id, Type: typ, Additional: additional}, nil
}

func actionToMap(a Action) map[string]interface{} {
	m := map[string]interface{}{"name": a.Name}
	if a.Parameters != nil {
		m["parameters"] = a.Parameters
	}
	return m
}

func actionsToList(actions []Action) []interface{} {
	out := make([]interface{}, len(actions))
	for i, a := range actions {
		out[i] = actionToMap(a)
	}
	return out
}

func actionFromMap(m map[string]interface{}) (Action, error) {
	name, err := requireString(m, "name")
	if err != nil {
		return Action{}, err
	}
	params, _ := m["parameters"].(map[string]interface{})
	return Action{Name: name, Parameters: params}, nil
}

func caveatsToList(caveats []Caveat) []interface{} {
	out := make([]interface{}, len(caveats))
	for i, c := range caveats {
		out[i] = caveatToMap(c)
	}
	return out
}

func proofToMap(p Proof) map[string]interface{} {
	return map[string]interface{}{
		"id":                  p.ID,
		"type":                p.Type,
		"created":             p.Created.UTC().Format(time.RFC3339),
		"verification_method": p.VerificationMethod,
		"proof_purpose":       p.ProofPurpose,
		"proof_value":         p.ProofValue,
	}
}

func proofFromMap(m map[string]interface{}) (Proof, error) {
	id, _ := m["id"].(string)
	typ, err := requireString(m, "type")
	if err != nil {
		return Proof{}, err
	}
	created, err := requireTime(m, "created")
	if err != nil {
		return Proof{}, err
	}
	vm, err := requireString(m, "verification_method")
	if err != nil {
		return Proof{}, err
	}
	purpose, err := requireString(m, "proof_purpose")
	if err != nil {
		return Proof{}, err
	}
	value, err := requireString(m, "proof_value")
	if err != nil {
		return Proof{}, err
	}
	return Proof{
		ID:                 id,
		Type:               typ,
		Created:            created,
		VerificationMethod: vm,
		ProofPurpose:       purpose,
		ProofValue:         value,
	}, nil
}

func requireString(m map[string]interface{}, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", NewValidationError(errNewf("missing required field %q", key))
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", NewValidationError(errNewf("field %q must be a non-empty string", key))
	}
	return s, nil
}

func requireMap(m map[string]interface{}, key string) (map[string]interface{}, error) {
	v, ok := m[key]
	if !ok {
		return nil, NewValidationError(errNewf("missing required field %q", key))
	}
	sub, ok := v.(map[string]interface{})
	if !ok {
		return nil, NewValidationError(errNewf("field %q must be an object", key))
	}
	return sub, nil
}

func requireTime(m map[string]interface{}, key string) (time.Time, error) {
	v, ok := m[key]
	if !ok {
		return time.Time{}, NewValidationError(errNewf("missing required field %q", key))
	}
	return parseTimeField(v, key)
}

func parseTimeField(v interface{}, key string) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, NewValidationError(errNewf("field %q must be an RFC3339 timestamp string", key))
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, NewValidationError(errWrapf(err, "field %q is not a valid RFC3339 timestamp", key))
	}
	return t.UTC(), nil
}

func stringListField(m map[string]interface{}, key string) ([]string, error) {
	v, ok := m[key]
	if !ok {
		return nil, NewValidationError(errNewf("missing required field %q", key))
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, NewValidationError(errNewf("field %q must be a list", key))
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		s, ok := e.(string)
		if !ok {
			return nil, NewValidationError(errNewf("field %q contains a non-string element", key))
		}
		out = append(out, s)
	}
	return out, nil
}

func containsAll(haystack []string, needles ...string) bool {
	set := make(map[string]struct{}, len(haystack))
	for _, h := range haystack {
		set[h] = struct{}{}
	}
	for _, n := range needles {
		if _, ok := set[n]; !ok {
			return false
		}
	}
	return true
}
