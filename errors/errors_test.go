package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("capability not found")
	require.NotNil(t, err)
	assert.Equal(t, "capability not found", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf("delegation chain exceeds the maximum depth of %d", 100)
	require.NotNil(t, err)
	assert.Equal(t, "delegation chain exceeds the maximum depth of 100", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("signature mismatch")
	wrapped := Wrap(original, "capability verification failed")

	assert.Contains(t, wrapped.Error(), "capability verification failed")
	assert.Contains(t, wrapped.Error(), "signature mismatch")
	assert.True(t, Is(wrapped, original))
}

func TestWrapf(t *testing.T) {
	original := New("nonce already used")
	wrapped := Wrapf(original, "invocation %s rejected", "urn:uuid:inv-1")

	assert.Contains(t, wrapped.Error(), "invocation urn:uuid:inv-1 rejected")
	assert.Contains(t, wrapped.Error(), "nonce already used")
}

func TestIs(t *testing.T) {
	err1 := New("capability revoked")
	err2 := New("capability expired")
	wrapped := Wrap(err1, "chain verification failed")

	assert.True(t, Is(wrapped, err1))
	assert.False(t, Is(wrapped, err2))
	assert.False(t, Is(nil, err1))
}

type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}

func TestAs(t *testing.T) {
	original := &customError{msg: "unknown caveat type"}
	wrapped := Wrap(original, "caveat evaluation failed")

	var target *customError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "unknown caveat type", target.msg)
}

func TestWithHint(t *testing.T) {
	err := New("delegation rejected")
	withHint := WithHint(err, "child actions must be a subset of the parent's")

	hints := GetAllHints(withHint)
	require.Len(t, hints, 1)
	assert.Equal(t, "child actions must be a subset of the parent's", hints[0])
}

func TestWithDetail(t *testing.T) {
	err := New("caveat conflict")
	withDetail := WithDetail(err, "ValidUntil cannot be loosened by a delegation")

	details := GetAllDetails(withDetail)
	require.Len(t, details, 1)
	assert.Equal(t, "ValidUntil cannot be loosened by a delegation", details[0])
}

func TestWithHintf(t *testing.T) {
	err := New("chain too deep")
	withHint := WithHintf(err, "delegation chains are capped at %d links", 100)

	hints := GetAllHints(withHint)
	require.Len(t, hints, 1)
	assert.Equal(t, "delegation chains are capped at 100 links", hints[0])
}

func TestStackTrace(t *testing.T) {
	err := New("proof value is not valid multibase")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestUnwrap(t *testing.T) {
	original := New("unknown signer DID")
	wrapped := Wrap(original, "capability verification failed")

	unwrapped := Unwrap(wrapped)
	assert.NotNil(t, unwrapped)
}

func TestUnwrapAll(t *testing.T) {
	err1 := New("context IRI missing")
	err2 := Wrap(err1, "JSON-LD projection failed")
	err3 := Wrap(err2, "capability parse failed")

	all := UnwrapAll(err3)
	assert.NotEmpty(t, all)
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithStack(nil))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithDetail(nil, "detail"))
}

func TestErrorChaining(t *testing.T) {
	base := New("ed25519 signature did not verify")

	err := Wrap(base, "invocation verification failed")
	err = WithHint(err, "confirm the invoker key matches the capability's invoker DID")
	err = WithDetail(err, "canonicalization output differed from the signed bytes")
	err = Wrap(err, "invoke command failed")

	assert.True(t, Is(err, base))
	assert.Contains(t, err.Error(), "invoke command failed")
	assert.Contains(t, err.Error(), "invocation verification failed")
	assert.Contains(t, err.Error(), "ed25519 signature did not verify")

	hints := GetAllHints(err)
	assert.Contains(t, hints, "confirm the invoker key matches the capability's invoker DID")

	details := GetAllDetails(err)
	assert.Contains(t, details, "canonicalization output differed from the signed bytes")
}

func ExampleNew() {
	err := New("capability not found")
	fmt.Println(err)
	// Output: capability not found
}

func ExampleWrap() {
	baseErr := New("signature did not verify")
	err := Wrap(baseErr, "failed to verify capability")
	fmt.Println(err)
	// Output: failed to verify capability: signature did not verify
}

func ExampleWithHint() {
	err := New("nonce reused")
	err = WithHint(err, "generate a fresh nonce for every invocation")

	hints := GetAllHints(err)
	fmt.Println(hints[0])
	// Output: generate a fresh nonce for every invocation
}
