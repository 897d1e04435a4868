package repository

import (
	"errors"
)

// Sentinel kinds for case store errors. Missing records are reported with
// casestatus.ErrNotFound so the lookup can classify them.
var (
	ErrInvalidRecord  = errors.New("invalid case record")
	ErrEmptyDSN       = errors.New("database url is empty")
	ErrDecodeDocument = errors.New("decode case documents")
)
