package valuation

import "errors"

// Sentinel errors for caller contract violations. All are detected
// synchronously at the point of violation and abort the run; retrying with
// the same inputs never helps.
var (
	// ErrInvalidSchedule indicates an empty growth schedule or a growth rate
	// at or below -100% for some period.
	ErrInvalidSchedule = errors.New("invalid growth schedule")

	// ErrInvalidRateRelationship indicates discount rate <= terminal growth,
	// under which the Gordon growth terminal value diverges or turns negative.
	ErrInvalidRateRelationship = errors.New("discount rate must exceed terminal growth rate")

	// ErrInvalidShareCount indicates shares outstanding <= 0.
	ErrInvalidShareCount = errors.New("shares outstanding must be positive")
)
