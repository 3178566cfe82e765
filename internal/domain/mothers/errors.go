package mothers

import "errors"

var (
	ErrMotherNotFound        = errors.New("mother not found")
	ErrVisitNotFound         = errors.New("visit not found")
	ErrDeliveryNotFound      = errors.New("delivery not found")
	ErrDuplicateRegistration = errors.New("registration number already in use")
	// ErrInvalid is wrapped by every input validation failure.
	ErrInvalid = errors.New("invalid input")
)
