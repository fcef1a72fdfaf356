package service

import "errors"

var (
	// ErrDealExists is returned when attempting to create a deal whose ID is taken
	ErrDealExists = errors.New("deal already exists")

	// ErrDealNotFound is returned when a deal cannot be found
	ErrDealNotFound = errors.New("deal not found")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrAlreadyApplied is returned when a deal is applied twice to one transaction
	ErrAlreadyApplied = errors.New("deal already applied to transaction")

	// ErrDealNotApplicable is returned when the engine rejects a deal being applied
	ErrDealNotApplicable = errors.New("deal not applicable")

	// ErrProfileNotFound is returned when a user profile cannot be found
	ErrProfileNotFound = errors.New("user profile not found")
)
