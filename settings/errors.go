package settings

import "errors"

// Sentinel errors for consistent error handling.
var (
	ErrUnknownKey        = errors.New("unknown setting key")
	ErrInvalidValue      = errors.New("invalid setting value")
	ErrInvalidDefinition = errors.New("invalid setting definition")
	ErrInvalidDetail     = errors.New("invalid detail level")
)
