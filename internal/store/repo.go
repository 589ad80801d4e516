package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	SessionID string    // exact match when set
	From      time.Time // timestamp >= From
}

// CredentialRepo persists the saved bearer token, test code and user id.
type CredentialRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// RequestEventData captures one call to the remote test API.
type RequestEventData struct {
	SessionID    string
	Method       string
	Path         string
	Status       int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// RequestEvent is a stored RequestEventData.
type RequestEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	RequestEventData
}

// SessionEventData captures a test session lifecycle step.
type SessionEventData struct {
	SessionID string
	Code      string
	Action    string // start, load-failed, submit, submit-failed, exit
	Detail    string
}

// SessionEvent is a stored SessionEventData.
type SessionEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// EventRepo provides append and query access to request and session events.
type EventRepo interface {
	AppendRequest(ctx context.Context, data RequestEventData) error
	QueryRequests(ctx context.Context, opts QueryOpts) ([]RequestEvent, error)

	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error)
}

// Result is a submitted test and the score the service returned.
type Result struct {
	ID            int64
	SessionID     string
	Code          string
	UserID        string
	TotalScore    float64
	Answered      int
	QuestionCount int
	SubmittedAt   time.Time
}

// ResultRepo records submitted results.
type ResultRepo interface {
	Append(ctx context.Context, r Result) error
	Recent(ctx context.Context, limit int) ([]Result, error)
}
