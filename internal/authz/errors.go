package authz

import "errors"

// Typed failure taxonomy. Callers map these to transport status codes; the
// engine never produces HTTP-specific output.
var (
	// ErrUnauthenticated indicates a missing or nil principal.
	ErrUnauthenticated = errors.New("authz: unauthenticated")
	// ErrForbidden indicates insufficient permission, ownership, or role.
	ErrForbidden = errors.New("authz: forbidden")
	// ErrNotFound indicates a referenced user or resource is absent.
	ErrNotFound = errors.New("authz: not found")
	// ErrInvalidState indicates a business-rule guard rejected the operation.
	ErrInvalidState = errors.New("authz: invalid state")
	// ErrConfiguration indicates an unrecognized role or permission value.
	// This is a deployment defect and is surfaced loudly, never mapped to a
	// plain denial.
	ErrConfiguration = errors.New("authz: configuration error")
)
