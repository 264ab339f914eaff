package core

import "errors"

// Recoverable error kinds. None of them is fatal to the process; callers match
// them with errors.Is and degrade to an empty or partial artifact.
var (
	// ErrEmptyInput is returned when there is nothing to generate from.
	ErrEmptyInput = errors.New("empty input")
	// ErrMalformedContent marks text that could not be decoded at all.
	ErrMalformedContent = errors.New("malformed content")
	// ErrMalformedGraph marks mind-map text missing its nodes/edges arrays.
	// It matches ErrMalformedContent as well.
	ErrMalformedGraph error = &subError{msg: "malformed graph", parent: ErrMalformedContent}
	// ErrValidationDropped marks a single block, node or edge that was skipped.
	ErrValidationDropped = errors.New("entry dropped")
	// ErrGenerationFailure wraps failures and empty replies of the generation service.
	ErrGenerationFailure = errors.New("generation failed")
	// ErrPersistenceFailure means the caller must not assume state was saved.
	ErrPersistenceFailure = errors.New("persistence failed")
	// ErrCorruptedStore means a stored artifact could not be decoded and was treated as empty.
	ErrCorruptedStore = errors.New("corrupted store")

	ErrNotFound = errors.New("not found")
	ErrReadOnly = errors.New("repository is in read-only mode")

	// ErrInvalidTransition is returned by session state machines refusing an action.
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNoQuestions       = errors.New("quiz has no questions")
	ErrPending           = errors.New("request already pending")
)

type subError struct {
	msg    string
	parent error
}

func (e *subError) Error() string { return e.msg }
func (e *subError) Unwrap() error { return e.parent }
