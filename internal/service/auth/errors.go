package auth

import "errors"

// Common authentication service errors.
//
// Callers treat every failure other than expiry identically; the split
// exists so expired tokens can be logged distinctly from malformed or
// forged ones. No error here reveals which validation step failed.
var (
	// ErrInvalidToken indicates the token is malformed, has a bad
	// signature, is missing required claims, carries the wrong token
	// type, or its subject resolves to no known user.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token is outside its validity window.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")
)
