package service

import "errors"

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidPassword is returned for a blank password, before the store is touched.
	ErrInvalidPassword = errors.New("password is required")
	// ErrUserAlreadyExists is returned when the username or email is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrMessageNotFound   = errors.New("message not found")
	// ErrInvalidMessage rejects empty or over-long message text.
	ErrInvalidMessage = errors.New("message must be between 1 and 140 characters")
	// ErrForbidden means the user is authenticated but does not own the resource.
	ErrForbidden  = errors.New("forbidden")
	ErrSelfFollow = errors.New("users cannot follow themselves")
)
