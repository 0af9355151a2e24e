package calculator

import "errors"

var (
	ErrUnknownKey       = errors.New("unknown key")
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidSessionID = errors.New("invalid session id")
)
