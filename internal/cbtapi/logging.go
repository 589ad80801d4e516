package cbtapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Arizalb/jokicbt/internal/quiz"
	"github.com/Arizalb/jokicbt/internal/store"
)

// LoggingAPI is a decorator that records every call as a request event.
type LoggingAPI struct {
	inner     API
	eventRepo store.EventRepo
}

// WithLogging wraps api with request event logging.
func WithLogging(api API, repo store.EventRepo) API {
	return &LoggingAPI{inner: api, eventRepo: repo}
}

func (l *LoggingAPI) FetchQuestions(ctx context.Context, token, code string) ([]quiz.Question, error) {
	start := time.Now()
	questions, err := l.inner.FetchQuestions(ctx, token, code)
	l.record(ctx, http.MethodGet, QuestionsPath(code), start, err)
	return questions, err
}

func (l *LoggingAPI) SubmitAnswers(ctx context.Context, token string, sub quiz.Submission) (float64, error) {
	start := time.Now()
	score, err := l.inner.SubmitAnswers(ctx, token, sub)
	l.record(ctx, http.MethodPost, SubmitPath(), start, err)
	return score, err
}

func (l *LoggingAPI) record(ctx context.Context, method, path string, start time.Time, err error) {
	data := store.RequestEventData{
		SessionID: SessionIDFrom(ctx),
		Method:    method,
		Path:      path,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if err == nil {
		data.Status = http.StatusOK
	} else {
		data.ErrorMessage = err.Error()
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			data.Status = httpErr.Status
		}
	}

	// A failed log write never fails the request.
	if logErr := l.eventRepo.AppendRequest(context.WithoutCancel(ctx), data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log request event: %v\n", logErr)
	}
}
