package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrNoBatch indicates EndBatchEdit without a matching BeginBatchEdit.
	ErrNoBatch = errors.New("no batch edit in progress")

	// ErrStoreShift wraps a panic raised by an annotation store while it
	// was being shifted. The store is skipped and the edit completes.
	ErrStoreShift = errors.New("annotation store shift failed")

	// ErrNoComposition indicates an IME call that needs an active
	// composing region.
	ErrNoComposition = errors.New("no composing region")
)
