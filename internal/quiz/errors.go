package quiz

import (
	"errors"
	"fmt"
)

// Default user-facing messages.
const (
	DefaultFetchMessage  = "Failed to load questions. Please try again."
	DefaultSubmitMessage = "An error occurred while submitting your answers."
)

var (
	// ErrSubmitNotReady is returned when Submit is called anywhere other than
	// the last question with an answer recorded.
	ErrSubmitNotReady = errors.New("submit is only allowed on the last answered question")

	// ErrSubmitInFlight is returned while another submission is outstanding.
	ErrSubmitInFlight = errors.New("a submission is already in progress")

	// ErrNotLoadable is returned when Load is called on a session that is
	// already in progress or finished.
	ErrNotLoadable = errors.New("session already loaded")

	// ErrLoadInFlight is returned while another fetch is outstanding.
	ErrLoadInFlight = errors.New("questions are already loading")

	// ErrExited is returned by operations on an abandoned session.
	ErrExited = errors.New("session was exited")

	// ErrNoQuestions is the cause recorded when the source returns an empty list.
	ErrNoQuestions = errors.New("no questions returned for test code")
)

// FetchError wraps a failure to load questions. Terminal for the session.
type FetchError struct {
	Code    string
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch questions for %q: %v", e.Code, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SubmitError wraps a failed submission. The session returns to InProgress
// with all answers kept.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit answers: %v", e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }
