package admin

import "errors"

var (
	ErrDistrictNotFound = errors.New("district not found")
	ErrFacilityNotFound = errors.New("facility not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrDuplicateCode    = errors.New("code already in use")
	ErrInUse            = errors.New("record is still referenced")
	// ErrInvalid is wrapped by every input validation failure.
	ErrInvalid = errors.New("invalid input")
)
