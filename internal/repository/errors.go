// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrEmailExists signals that account creation cannot proceed
// because the address is already taken, while the per-entity not-found
// sentinels separate lookup misses from store faults.
package repository

import "errors"

// ErrEmailExists is returned when creating a user whose email is
// already registered. Handlers should translate this into 409.
var ErrEmailExists = errors.New("email already exists")

// Per-entity not-found sentinels.  Handlers translate these into 404.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrToiletNotFound    = errors.New("toilet not found")
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrPenaltyNotFound   = errors.New("penalty not found")
)
