// Package apperrors holds the failure kinds shared by every component.
// Callers compare with errors.Is; producers wrap with fmt.Errorf("...: %w").
package apperrors

import "errors"

var (
	// ErrNotFound is returned when a required user or post lookup matches nothing
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a sign-up reuses an existing email
	ErrAlreadyExists = errors.New("already exists")

	// ErrAlreadyLiked is returned when the user's id is already in the post's likes
	ErrAlreadyLiked = errors.New("post already liked")

	// ErrNotLiked is returned when unliking a post the user never liked
	ErrNotLiked = errors.New("post not liked")

	// ErrAmbiguousResult means a lookup expected to be unique matched several documents
	ErrAmbiguousResult = errors.New("ambiguous result")

	// ErrNoContent is returned by feeds that came back empty
	ErrNoContent = errors.New("no content")

	// ErrInvalid is returned for input that fails validation
	ErrInvalid = errors.New("invalid input")
)
