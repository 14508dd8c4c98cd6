package models

import "errors"

// Failure kinds surfaced by the pipeline. Callers wrap these with context via
// fmt.Errorf and %w; tests distinguish them with errors.Is.
var (
	ErrNotFound     = errors.New("input file not found")
	ErrFileFormat   = errors.New("calendar file could not be parsed")
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidRange = errors.New("invalid date range")
	ErrWrite        = errors.New("cannot write output")
)
