package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, caches and collaborator
// adapters return these (optionally wrapped) so services can translate them
// into domain errors or per-funder failures.
//
// - ErrNotFound: key or record does not exist
// - ErrExpired: cached entry is past its expiration
// - ErrUnavailable: collaborator (database, cache, broker) cannot be reached
// - ErrTimeout: collaborator did not answer within its deadline
var (
	ErrNotFound    = errors.New("not found")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
	ErrTimeout     = errors.New("timeout")
)
