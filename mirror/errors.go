package mirror

import "errors"

// Sentinel errors for the mirror package. Callers MUST use errors.Is to
// branch on semantics (following the teacher's error policy).
var (
	// ErrNilMirror indicates a nil *Mirror was passed where a live mirror
	// was required.
	ErrNilMirror = errors.New("mirror: nil mirror")

	// ErrNilLink indicates a nil *Link was passed where a live link was
	// required.
	ErrNilLink = errors.New("mirror: nil link")

	// ErrAlreadyLinked indicates AddLink was called for a link already
	// present on this mirror.
	ErrAlreadyLinked = errors.New("mirror: link already attached")

	// ErrInvalidDelayBounds indicates a min/max delay pair with min > max.
	ErrInvalidDelayBounds = errors.New("mirror: invalid delay bounds")

	// ErrSelfLink indicates a Link was constructed with identical source
	// and target mirrors.
	ErrSelfLink = errors.New("mirror: link endpoints are identical")
)
