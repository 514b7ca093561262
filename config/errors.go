package config

import "errors"

// Sentinel errors returned by Load and Config.Validate, in the teacher's
// errors.New-plus-%w style (builder/errors.go).
var (
	ErrInvalidBounds      = errors.New("config: min/max delay bound inverted")
	ErrNonPositiveSimTime = errors.New("config: simTime must be positive")
	ErrNegativeMirrors    = errors.New("config: numMirrors must be non-negative")
	ErrUnknownStrategy    = errors.New("config: unrecognised strategyKind")
	ErrUnknownActionKind  = errors.New("config: unrecognised action kind")
	// ErrActionOutOfRange is the distilled spec's SchedulingOutOfRange
	// condition (§7): an action's atTick is negative or beyond simTime.
	ErrActionOutOfRange = errors.New("config: action atTick out of range")
)
