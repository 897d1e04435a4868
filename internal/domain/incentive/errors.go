package incentive

import (
	"errors"
	"fmt"

	"github.com/okian/termico/internal/domain/model"
)

// ErrUnrecognizedCategory is returned when no rate entry matches the category.
var ErrUnrecognizedCategory = errors.New("unrecognized category")

// EstimationError carries the category that could not be estimated.
type EstimationError struct {
	Category model.Category
	Err      error
}

func (e *EstimationError) Error() string {
	return fmt.Sprintf("estimate %q: %v", e.Category, e.Err)
}

func (e *EstimationError) Unwrap() error { return e.Err }
