package domain

import "errors"

var (
	// ErrCollectionNotFound is returned when a collection is not stored
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrTokenNotFound is returned when a token is not found
	ErrTokenNotFound = errors.New("token not found")

	// ErrTraitNotFound is returned when a trait does not exist in a collection
	ErrTraitNotFound = errors.New("trait not found")

	// ErrUpstreamUnavailable is returned when the marketplace cannot be reached
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrInvalidInput is returned when an argument is out of range
	ErrInvalidInput = errors.New("invalid input")
)
