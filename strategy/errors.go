package strategy

import "errors"

// Sentinel errors for the strategy package.
var (
	// ErrNoMirrors indicates a build operation was invoked with zero
	// mirrors to place.
	ErrNoMirrors = errors.New("strategy: no mirrors supplied")

	// ErrUnknownHead indicates an operation referenced a head MirrorNode
	// no longer present in the planning graph.
	ErrUnknownHead = errors.New("strategy: unknown head")

	// ErrUnknownRotationType indicates a Snowflake rotation entry named a
	// structure type with no registered factory.
	ErrUnknownRotationType = errors.New("strategy: unknown rotation type")
)
