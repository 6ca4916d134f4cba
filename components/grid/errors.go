package grid

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidGrid         = errors.New("grid: rows and cols must be positive")
	ErrInvalidSize         = errors.New("grid: widget size must be positive")
	ErrOutOfBounds         = errors.New("grid: footprint extends past the grid")
	ErrDirectOverlap       = errors.New("grid: overlapping widget cannot be relocated")
	ErrCascadeUnresolvable = errors.New("grid: cascading relocation has no free destination")
	ErrStalePlan           = errors.New("grid: preview plan no longer matches the layout")
	ErrOverlap             = errors.New("grid: widgets overlap")
	ErrUnknownWidget       = errors.New("grid: widget not found")
	ErrDuplicateWidget     = errors.New("grid: duplicate widget id")
	ErrMissingWidgetID     = errors.New("grid: widget id is required")
	ErrInvalidPreview      = errors.New("grid: drop target is not a valid preview")
	ErrSessionBusy         = errors.New("grid: a drag is already in progress")
	ErrNoSession           = errors.New("grid: no drag in progress")
)

// PlanError reports which widget made a relocation plan fail.
type PlanError struct {
	WidgetID string
	Err      error
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("%s (widget %s)", e.Err.Error(), e.WidgetID)
}

func (e *PlanError) Unwrap() error {
	return e.Err
}
