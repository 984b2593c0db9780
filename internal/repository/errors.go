package repository

// Error values shared across the repositories. These sentinels let
// handlers map failures onto HTTP statuses without inspecting error
// strings: validation errors become 400s, not-found errors become 404s
// and business-rule conflicts become 409s. Anything else is a store
// error and is surfaced as a generic 500.

import (
	"errors"
	"fmt"
)

// ErrValidation is returned when input is malformed or a required
// field is missing. It is always wrapped with a human-readable detail,
// e.g. fmt.Errorf("%w: name is required", ErrValidation).
var ErrValidation = errors.New("validation failed")

// ErrRestaurantNotFound is returned when no restaurant matches the
// given id or (city, slug) pair, or when a mutation affected zero rows.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// ErrClaimNotFound is returned when no claim matches the given id.
var ErrClaimNotFound = errors.New("claim not found")

// ErrAlreadyClaimed is returned when submitting a claim against a
// restaurant whose ownership has already been approved.
var ErrAlreadyClaimed = errors.New("restaurant already claimed")

// ErrDuplicateClaim is returned when an open claim (pending or
// approved) already exists for the same restaurant and email.
var ErrDuplicateClaim = errors.New("duplicate open claim")

// ErrClaimDecided is returned when attempting to approve or reject a
// claim that is no longer pending. Decisions are final.
var ErrClaimDecided = errors.New("claim already decided")

// PartialFailureError reports that the restaurant-side write of an
// approval failed after the claim-side write succeeded inside the same
// transaction. The transaction is rolled back, so no inconsistent
// state is persisted, but operators need both ids to verify and
// reconcile, which is why this is distinguished from a plain store
// error.
type PartialFailureError struct {
	ClaimID      string
	RestaurantID string
	Err          error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("approve claim %s: restaurant %s update failed after claim update: %v",
		e.ClaimID, e.RestaurantID, e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }
