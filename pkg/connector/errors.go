package connector

import "errors"

var (
	// ErrConfiguration is returned when required settings are missing or invalid.
	ErrConfiguration = errors.New("configuration error")

	// ErrConnection is returned when the underlying connection cannot be opened.
	ErrConnection = errors.New("connection error")
)
