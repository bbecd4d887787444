package model

import "errors"

var (
	ErrNoValidLaps         = errors.New("no valid laps")
	ErrInsufficientDrivers = errors.New("at least two drivers required")
	ErrNotApplicable       = errors.New("strategy not applicable")
)
