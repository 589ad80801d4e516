package cbtapi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arizalb/jokicbt/internal/quiz"
	"github.com/Arizalb/jokicbt/internal/store"
)

type stubAPI struct {
	questions []quiz.Question
	score     float64
	err       error
}

func (s *stubAPI) FetchQuestions(context.Context, string, string) ([]quiz.Question, error) {
	return s.questions, s.err
}

func (s *stubAPI) SubmitAnswers(context.Context, string, quiz.Submission) (float64, error) {
	return s.score, s.err
}

type memEventRepo struct {
	store.EventRepo
	requests []store.RequestEventData
	fail     bool
}

func (m *memEventRepo) AppendRequest(_ context.Context, data store.RequestEventData) error {
	if m.fail {
		return errors.New("disk full")
	}
	m.requests = append(m.requests, data)
	return nil
}

func TestLogging_RecordsSuccess(t *testing.T) {
	repo := &memEventRepo{}
	api := WithLogging(&stubAPI{questions: []quiz.Question{{ID: "Q1"}}}, repo)

	ctx := WithSessionID(context.Background(), "sess-1")
	qs, err := api.FetchQuestions(ctx, "tok", "MTK01")
	require.NoError(t, err)
	assert.Len(t, qs, 1)

	require.Len(t, repo.requests, 1)
	got := repo.requests[0]
	assert.Equal(t, "sess-1", got.SessionID)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/api/questions/MTK01", got.Path)
	assert.Equal(t, http.StatusOK, got.Status)
	assert.True(t, got.Success)
}

func TestLogging_RecordsHTTPFailure(t *testing.T) {
	repo := &memEventRepo{}
	api := WithLogging(&stubAPI{err: &HTTPError{Status: 502, Body: "bad gateway"}}, repo)

	_, err := api.SubmitAnswers(context.Background(), "tok", quiz.Submission{})
	require.Error(t, err)

	require.Len(t, repo.requests, 1)
	got := repo.requests[0]
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/results/submit-answer", got.Path)
	assert.Equal(t, 502, got.Status)
	assert.False(t, got.Success)
	assert.Contains(t, got.ErrorMessage, "bad gateway")
}

func TestLogging_FailureDoesNotFailCall(t *testing.T) {
	repo := &memEventRepo{fail: true}
	api := WithLogging(&stubAPI{score: 80}, repo)

	score, err := api.SubmitAnswers(context.Background(), "tok", quiz.Submission{})
	require.NoError(t, err)
	assert.Equal(t, 80.0, score)
}
