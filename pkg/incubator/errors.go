package incubator

import errs "github.com/ducminhle1904/incubator/internal/errors"

// Sentinel errors, matched with errors.Is
var (
	ErrInsufficientPopulation = errs.ErrInsufficientPopulation
	ErrEmptySpecimen          = errs.ErrEmptySpecimen
	ErrInvalidConfiguration   = errs.ErrInvalidConfiguration
)
