package refdata

import "errors"

// Sentinel kinds for reference-data errors.
var (
	ErrLoadReference    = errors.New("load reference data failed")
	ErrInvalidReference = errors.New("invalid reference data")
)
