package engine

import "errors"

// Sentinel errors for the engine package.
var (
	// ErrNoStrategy indicates Step was called before any strategy was set.
	ErrNoStrategy = errors.New("engine: no active strategy")

	// ErrNegativeTarget indicates SetTargetMirrorCount was called with a
	// negative count.
	ErrNegativeTarget = errors.New("engine: target mirror count must be >= 0")
)
