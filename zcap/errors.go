package zcap

import "github.com/teranos/zcap/errors"

// Error taxonomy per spec §7. Every kind wraps a cause built with the
// repo's errors package (github.com/cockroachdb/errors underneath) so
// callers get stack traces and causal chains on top of the type switch.
//
// Two kinds — CanonicalizationError and ValidationError — extend the
// spec's table: §4.1 calls for a canonicalization error on malformed
// contexts or cyclic structure, and §4.4 calls for a validation error on
// missing fields or type mismatches during from_jsonld. Both inherit the
// same Unwrap discipline as the rest of the taxonomy.

type SignatureVerificationError struct{ cause error }

func (e *SignatureVerificationError) Error() string { return e.cause.Error() }
func (e *SignatureVerificationError) Unwrap() error { return e.cause }

// NewSignatureVerificationError wraps cause as a SignatureVerificationError.
func NewSignatureVerificationError(cause error) error {
	return &SignatureVerificationError{cause: cause}
}

type CaveatEvaluationError struct{ cause error }

func (e *CaveatEvaluationError) Error() string { return e.cause.Error() }
func (e *CaveatEvaluationError) Unwrap() error { return e.cause }

func NewCaveatEvaluationError(cause error) error {
	return &CaveatEvaluationError{cause: cause}
}

type CapabilityVerificationError struct{ cause error }

func (e *CapabilityVerificationError) Error() string { return e.cause.Error() }
func (e *CapabilityVerificationError) Unwrap() error { return e.cause }

func NewCapabilityVerificationError(cause error) error {
	return &CapabilityVerificationError{cause: cause}
}

type InvocationVerificationError struct{ cause error }

func (e *InvocationVerificationError) Error() string { return e.cause.Error() }
func (e *InvocationVerificationError) Unwrap() error { return e.cause }

func NewInvocationVerificationError(cause error) error {
	return &InvocationVerificationError{cause: cause}
}

type DelegationError struct{ cause error }

func (e *DelegationError) Error() string { return e.cause.Error() }
func (e *DelegationError) Unwrap() error { return e.cause }

func NewDelegationError(cause error) error {
	return &DelegationError{cause: cause}
}

type InvocationError struct{ cause error }

func (e *InvocationError) Error() string { return e.cause.Error() }
func (e *InvocationError) Unwrap() error { return e.cause }

func NewInvocationError(cause error) error {
	return &InvocationError{cause: cause}
}

type DIDKeyNotFoundError struct{ cause error }

func (e *DIDKeyNotFoundError) Error() string { return e.cause.Error() }
func (e *DIDKeyNotFoundError) Unwrap() error { return e.cause }

func NewDIDKeyNotFoundError(cause error) error {
	return &DIDKeyNotFoundError{cause: cause}
}

type CapabilityNotFoundError struct{ cause error }

func (e *CapabilityNotFoundError) Error() string { return e.cause.Error() }
func (e *CapabilityNotFoundError) Unwrap() error { return e.cause }

func NewCapabilityNotFoundError(cause error) error {
	return &CapabilityNotFoundError{cause: cause}
}

type CanonicalizationError struct{ cause error }

func (e *CanonicalizationError) Error() string { return e.cause.Error() }
func (e *CanonicalizationError) Unwrap() error { return e.cause }

func NewCanonicalizationError(cause error) error {
	return &CanonicalizationError{cause: cause}
}

type ValidationError struct{ cause error }

func (e *ValidationError) Error() string { return e.cause.Error() }
func (e *ValidationError) Unwrap() error { return e.cause }

func NewValidationError(cause error) error {
	return &ValidationError{cause: cause}
}

// errNew, errNewf, errWrap and errWrapf are short aliases for the errors
// package's constructors, used by every call site in this package.
var (
	errNewf  = errors.Newf
	errNew   = errors.New
	errWrap  = errors.Wrap
	errWrapf = errors.Wrapf
)
