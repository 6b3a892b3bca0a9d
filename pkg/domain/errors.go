package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionCompleted is returned by outer layers when an answer targets a finished session.
// The engine itself treats this case as a no-op.
var ErrSessionCompleted = errors.New("session already completed")

// ErrUnknownQuestion is returned when a question id does not resolve against the bank.
var ErrUnknownQuestion = errors.New("unknown question")
