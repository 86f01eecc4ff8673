package domain

import "errors"

// Domain errors represent business-level failure conditions shared across
// layers.
var (
	// Addon errors
	ErrAddonNotFound = errors.New("addon not found")
	ErrNoConfigVars  = errors.New("addon reported no config vars")

	// Config var errors
	ErrConfigVarMissing = errors.New("config var not set")

	// Workflow errors
	ErrSourceURLMissing = errors.New("source database url not set on fork-from app")
)
