package zcap

import (
	"bytes"
	"encoding/json"
	"reflect"
	"time"
)

// Caveat is a tagged predicate attached to a capability. Type is the
// discriminator ("ValidUntil", "AllowedAction", ...); Fields carries every
// other wire-format key verbatim, known or not, so an unrecognized caveat
// still round-trips through ToJSONLD/FromJSONLD unchanged — only
// evaluation rejects it (spec §3, §4.3).
type Caveat struct {
	Type   string
	Fields map[string]interface{}
}

// ValidUntilCaveat passes while now <= date.
func ValidUntilCaveat(date time.Time) Caveat {
	return Caveat{Type: "ValidUntil", Fields: map[string]interface{}{"date": date.UTC().Format(time.RFC3339)}}
}

// ValidAfterCaveat passes while now >= date.
func ValidAfterCaveat(date time.Time) Caveat {
	return Caveat{Type: "ValidAfter", Fields: map[string]interface{}{"date": date.UTC().Format(time.RFC3339)}}
}

// AllowedActionCaveat passes when the invoked action is in actions (only
// checked when an action name is given).
func AllowedActionCaveat(actions ...string) Caveat {
	list := make([]interface{}, len(actions))
	for i, a := range actions {
		list[i] = a
	}
	return Caveat{Type: "AllowedAction", Fields: map[string]interface{}{"actions": list}}
}

// RequireParameterCaveat passes when name is present in the invocation
// parameters and, if value is non-nil, equal to it.
func RequireParameterCaveat(name string, value interface{}) Caveat {
	fields := map[string]interface{}{"name": name}
	if value != nil {
		fields["value"] = value
	}
	return Caveat{Type: "RequireParameter", Fields: fields}
}

// MaxUsesCaveat is opaque to the core: the evaluator reports it back to
// the caller, who must enforce the usage limit themselves.
func MaxUsesCaveat(limit int) Caveat {
	return Caveat{Type: "MaxUses", Fields: map[string]interface{}{"limit": limit}}
}

// AllowedNetworkCaveat is opaque to the core; fields are caller-defined.
func AllowedNetworkCaveat(fields map[string]interface{}) Caveat {
	cp := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Caveat{Type: "AllowedNetwork", Fields: cp}
}

// ValidWhileTrueCaveat passes while resourceID is not in the revoked set.
func ValidWhileTrueCaveat(resourceID string) Caveat {
	return Caveat{Type: "ValidWhileTrue", Fields: map[string]interface{}{"resource_id": resourceID}}
}

// Equal compares two caveats by canonical form, per spec §4.5 step 7
// ("identity comparison by canonical form").
func (c Caveat) Equal(other Caveat) bool {
	a, errA := canonicalCaveatBytes(c)
	b, errB := canonicalCaveatBytes(other)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(a, b)
}

func canonicalCaveatBytes(c Caveat) ([]byte, error) {
	// encoding/json sorts map keys, which is all the determinism a caveat
	// (a flat tagged dictionary) needs for identity comparison.
	wire := make(map[string]interface{}, len(c.Fields)+1)
	wire["type"] = c.Type
	for k, v := range c.Fields {
		wire[k] = v
	}
	return json.Marshal(wire)
}

func caveatToMap(c Caveat) map[string]interface{} {
	m := make(map[string]interface{}, len(c.Fields)+1)
	m["type"] = c.Type
	for k, v := range c.Fields {
		m[k] = v
	}
	return m
}

func caveatFromMap(m map[string]interface{}) (Caveat, error) {
	t, ok := m["type"].(string)
	if !ok || t == "" {
		return Caveat{}, NewValidationError(errNew("caveat is missing its required \"type\" field"))
	}
	fields := make(map[string]interface{}, len(m))
	for k, v := range m {
		if k == "type" {
			continue
		}
		fields[k] = v
	}
	return Caveat{Type: t, Fields: fields}, nil
}

// EvalContext is everything a caveat needs to decide whether it passes.
// Action fields are only consulted when HasAction is true: chain
// verification (spec §4.5 step 3) evaluates caveats in a time-only
// context, while invocation (spec §4.6) supplies the full context.
type EvalContext struct {
	Now        time.Time
	HasAction  bool
	ActionName string
	Parameters map[string]interface{}
	Revoked    RevokedSet
}

// EvalOutcome reports whether a caveat was fully decided or is opaque to
// the core (MaxUses, AllowedNetwork) and must be enforced by the caller.
type EvalOutcome struct {
	Opaque bool
}

// EvaluateCaveat checks a single caveat against ctx per the table in
// spec §4.3. Unknown tags fail closed with a CaveatEvaluationError.
func EvaluateCaveat(c Caveat, ctx EvalContext) (EvalOutcome, error) {
	switch c.Type {
	case "ValidUntil":
		date, err := caveatTime(c.Fields, "date")
		if err != nil {
			return EvalOutcome{}, NewCaveatEvaluationError(err)
		}
		if ctx.Now.After(date) {
			return EvalOutcome{}, NewCaveatEvaluationError(errNewf("ValidUntil %s has passed", date.Format(time.RFC3339)))
		}
		return EvalOutcome{}, nil

	case "ValidAfter":
		date, err := caveatTime(c.Fields, "date")
		if err != nil {
			return EvalOutcome{}, NewCaveatEvaluationError(err)
		}
		if ctx.Now.Before(date) {
			return EvalOutcome{}, NewCaveatEvaluationError(errNewf("ValidAfter %s has not yet arrived", date.Format(time.RFC3339)))
		}
		return EvalOutcome{}, nil

	case "AllowedAction":
		if !ctx.HasAction {
			return EvalOutcome{}, nil
		}
		allowed, err := caveatStringSlice(c.Fields, "actions")
		if err != nil {
			return EvalOutcome{}, NewCaveatEvaluationError(err)
		}
		for _, a := range allowed {
			if a == ctx.ActionName {
				return EvalOutcome{}, nil
			}
		}
		return EvalOutcome{}, NewCaveatEvaluationError(errNewf("action %q is not in the AllowedAction list", ctx.ActionName))

	case "RequireParameter":
		name, err := caveatString(c.Fields, "name")
		if err != nil {
			return EvalOutcome{}, NewCaveatEvaluationError(err)
		}
		if ctx.Parameters == nil {
			return EvalOutcome{}, NewCaveatEvaluationError(errNewf("RequireParameter %q: no parameters supplied", name))
		}
		got, ok := ctx.Parameters[name]
		if !ok {
			return EvalOutcome{}, NewCaveatEvaluationError(errNewf("RequireParameter %q: parameter not present", name))
		}
		if want, hasWant := c.Fields["value"]; hasWant {
			if !reflect.DeepEqual(normalizeValue(got), normalizeValue(want)) {
				return EvalOutcome{}, NewCaveatEvaluationError(errNewf("RequireParameter %q: value does not match", name))
			}
		}
		return EvalOutcome{}, nil

	case "ValidWhileTrue":
		resourceID, err := caveatString(c.Fields, "resource_id")
		if err != nil {
			return EvalOutcome{}, NewCaveatEvaluationError(err)
		}
		if ctx.Revoked != nil && ctx.Revoked.IsRevoked(resourceID) {
			return EvalOutcome{}, NewCaveatEvaluationError(errNewf("ValidWhileTrue: resource %q has been revoked", resourceID))
		}
		return EvalOutcome{}, nil

	case "MaxUses", "AllowedNetwork":
		return EvalOutcome{Opaque: true}, nil

	default:
		return EvalOutcome{}, NewCaveatEvaluationError(errNewf("unrecognized caveat type %q", c.Type))
	}
}

// EvaluateAll evaluates caveats in declaration order, short-circuiting on
// the first failure (spec §4.3), and returns the opaque caveats the caller
// must still enforce.
func EvaluateAll(caveats []Caveat, ctx EvalContext) ([]Caveat, error) {
	var opaque []Caveat
	for _, c := range caveats {
		outcome, err := EvaluateCaveat(c, ctx)
		if err != nil {
			return nil, err
		}
		if outcome.Opaque {
			opaque = append(opaque, c)
		}
	}
	return opaque, nil
}

// normalizeValue bridges native Go values (int, []string, ...) and the
// generic types a JSON round trip produces (float64, []interface{}, ...)
// so RequireParameter compares equal regardless of which side constructed
// the caveat or the invocation parameters.
func normalizeValue(v interface{}) interface{} {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

func caveatTime(fields map[string]interface{}, key string) (time.Time, error) {
	v, ok := fields[key]
	if !ok {
		return time.Time{}, errNewf("caveat is missing required field %q", key)
	}
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, errWrapf(err, "field %q is not an RFC3339 timestamp", key)
		}
		return parsed, nil
	default:
		return time.Time{}, errNewf("field %q has unsupported type %T", key, v)
	}
}

func caveatStringSlice(fields map[string]interface{}, key string) ([]string, error) {
	v, ok := fields[key]
	if !ok {
		return nil, errNewf("caveat is missing required field %q", key)
	}
	switch s := v.(type) {
	case []string:
		return s, nil
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, e := range s {
			str, ok := e.(string)
			if !ok {
				return nil, errNewf("field %q contains a non-string element", key)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, errNewf("field %q has unsupported type %T", key, v)
	}
}

func caveatString(fields map[string]interface{}, key string) (string, error) {
	v, ok := fields[key]
	if !ok {
		return "", errNewf("caveat is missing required field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", errNewf("field %q is not a string", key)
	}
	return s, nil
}
