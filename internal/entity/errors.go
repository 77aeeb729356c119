package entity

import "errors"

var (
	// ErrInvalidArgument is returned for malformed identifiers or types, before any I/O.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is returned when no bib record matches.
	ErrNotFound = errors.New("not found")
	// ErrUpstreamUnavailable is returned when the catalog store or a protocol gateway cannot be reached.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
