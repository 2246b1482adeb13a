package service

import "errors"

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrNotFound           = errors.New("diagnosis record not found")
	ErrStorageFailure     = errors.New("history storage failure")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoPending          = errors.New("no pending selection")
	ErrDeviceRequired     = errors.New("X-Device-Id header is required")
)
