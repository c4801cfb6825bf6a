package service

import "errors"

// UserFacingError is a failure whose Message can be shown to the caller as is.
type UserFacingError struct {
	Message string
	Err     error
}

func (e *UserFacingError) Error() string {
	return e.Message
}

func (e *UserFacingError) Unwrap() error {
	return e.Err
}

// IsUserFacing reports whether err carries a user facing message.
func IsUserFacing(err error) bool {
	var ufe *UserFacingError
	return errors.As(err, &ufe)
}

// AbsorbedFailure describes a failure that did not abort the request.
type AbsorbedFailure struct {
	RequestID string
	Op        string
	Err       error
}
