package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateMobile = errors.New("mobile number already registered")
	ErrAccountNotFound = errors.New("no account for this mobile number")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidInput    = errors.New("invalid input")
	ErrStorageQuota    = errors.New("storage quota exceeded")
)
