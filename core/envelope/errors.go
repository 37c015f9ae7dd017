package envelope

import (
	"errors"
	"fmt"
)

// ErrDuplicatePoint is matched by every *DuplicatePointError via errors.Is.
var ErrDuplicatePoint = errors.New("envelope: duplicate point")

// DuplicatePointError reports an insert that landed within epsilon of an
// existing point while replacement was disallowed.
type DuplicatePointError struct {
	Time     float64 // requested time
	Existing Point   // point already occupying that time
}

func (e *DuplicatePointError) Error() string {
	return fmt.Sprintf("envelope: point %d already at t=%g (requested t=%g)", e.Existing.ID, e.Existing.Time, e.Time)
}

func (e *DuplicatePointError) Is(target error) bool { return target == ErrDuplicatePoint }

// ErrUnordered is returned by Load when points are not strictly increasing
// in time.
var ErrUnordered = errors.New("envelope: points not strictly increasing in time")

var (
	// ErrPointExists is returned by Restore for an id that is still live.
	ErrPointExists = errors.New("envelope: point id already present")
	// ErrInvalidPoint is returned by Restore for InvalidPointID.
	ErrInvalidPoint = errors.New("envelope: invalid point id")
)
