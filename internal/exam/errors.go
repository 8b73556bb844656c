package exam

import "errors"

var (
	// ErrExamNotFound means the exam id resolves to nothing.
	ErrExamNotFound = errors.New("exam not found")

	// ErrInvalidAccessKey is returned for both a wrong key and a
	// deactivated exam; callers must not learn which.
	ErrInvalidAccessKey = errors.New("invalid access key or exam is inactive")

	// ErrAlreadySubmitted means a result for this (exam, student) pair
	// already exists.
	ErrAlreadySubmitted = errors.New("you have already submitted this exam")

	// ErrKeySpaceExhausted means access-key generation kept colliding.
	ErrKeySpaceExhausted = errors.New("could not allocate a unique access key")
)

// ValidationError is a rejected input field. The HTTP layer maps it to 400.
type ValidationError string

func (v ValidationError) Error() string { return string(v) }
