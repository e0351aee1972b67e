// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios. Not-found sentinels
// double as the authorization signal: a document owned by someone else is
// reported exactly like a missing one, so handlers never confirm existence
// to non-owners.
package repository

import "errors"

// ErrConflict is returned when a create hits an existing unique key, such
// as a duplicate username or email. Handlers should translate this into a
// generic HTTP 409 response without leaking which column collided.
var ErrConflict = errors.New("conflict")

// ErrNoUpdates is returned by bulk operations that received an empty batch
// and therefore performed no writes.
var ErrNoUpdates = errors.New("no updates performed")
