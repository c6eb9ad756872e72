package models

import "errors"

// Failure values shared across the service and handler layers.
// Handlers translate these to HTTP statuses without leaking internal
// detail.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrNoPendingOtp        = errors.New("no pending otp for contact")
	ErrInvalidOrExpiredOtp = errors.New("invalid or expired otp")
	ErrBlobNotFound        = errors.New("stored image not found")
	ErrFileNotFound        = errors.New("file not found")
)
