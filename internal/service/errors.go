package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	ErrValidationNoPublicToken = errors.New("no public token provided")
	ErrValidationNoUserID      = errors.New("no user ID was given")
	ErrValidationBadDate       = errors.New("date is not a valid YYYY-MM-DD value")
	ErrValidationBadDateRange  = errors.New("start date is after end date")
)
