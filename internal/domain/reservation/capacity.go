package reservation

import "errors"

var (
	ErrInvalidHeadcount = errors.New("headcount must be positive")
	ErrExceedsCapacity  = errors.New("headcount exceeds offer vacancies")
)

// ValidateHeadcount checks a requested headcount against an offer's vacancy
// count. Pure; used identically at creation and at every update. The bound
// is the offer's static vacancies field, not a running remaining count, so
// two reservations validated independently can jointly exceed capacity —
// a modeling simplification carried over deliberately (see DESIGN.md).
func ValidateHeadcount(requested, offerVacancies int32) error {
	if requested <= 0 {
		return ErrInvalidHeadcount
	}
	if requested > offerVacancies {
		return ErrExceedsCapacity
	}
	return nil
}
