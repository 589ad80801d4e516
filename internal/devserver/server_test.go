package devserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arizalb/jokicbt/internal/cbtapi"
	"github.com/Arizalb/jokicbt/internal/credentials"
	"github.com/Arizalb/jokicbt/internal/quiz"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(Options{Secret: "test-secret", Quiet: true})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func login(t *testing.T, url, user, pass string) (*http.Response, loginResponse) {
	t.Helper()
	body := strings.NewReader(`{"username":"` + user + `","password":"` + pass + `"}`)
	resp, err := http.Post(url+"/api/auth/login", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out loginResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestLogin(t *testing.T) {
	s, ts := newTestServer(t)

	resp, out := login(t, ts.URL, "siswa1", "siswa1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "siswa1", out.UserID)

	claims, err := s.Auth().Parse(out.Token)
	require.NoError(t, err)
	assert.Equal(t, "siswa1", claims.UserID)

	id, ok := credentials.UserIDFromToken(out.Token)
	assert.True(t, ok)
	assert.Equal(t, "siswa1", id)

	resp, _ = login(t, ts.URL, "siswa1", "wrong")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_RejectsForeignAndExpiredTokens(t *testing.T) {
	a := NewAuthService("one", time.Hour)
	b := NewAuthService("two", time.Hour)

	tok, err := a.IssueJWT("u", "")
	require.NoError(t, err)
	_, err = b.Parse(tok)
	assert.Error(t, err)

	a.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := a.IssueJWT("u", "")
	require.NoError(t, err)
	a.now = time.Now
	_, err = a.Parse(old)
	assert.Error(t, err)
}

func TestQuestions_RequiresBearer(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/questions/MTK01")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestQuestions_HidesAnswers(t *testing.T) {
	s, ts := newTestServer(t)
	tok, err := s.Auth().IssueJWT("u", "")
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/questions/MTK01", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.Len(t, items, 3)
	for _, it := range items {
		assert.NotContains(t, it, "answer")
		assert.Contains(t, it, "optionA")
	}
}

func TestSubmit_UserMismatch(t *testing.T) {
	s, ts := newTestServer(t)
	tok, err := s.Auth().IssueJWT("alice", "")
	require.NoError(t, err)

	_, err = cbtapi.New(ts.URL).SubmitAnswers(context.Background(), tok, quiz.Submission{
		UserID:  "mallory",
		Answers: []quiz.Answer{{QuestionID: "MTK01-1", UserAnswer: "B"}},
	})
	var httpErr *cbtapi.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)
	assert.ErrorIs(t, err, cbtapi.ErrUnauthorized)
}

func TestEndToEnd_ClientAndController(t *testing.T) {
	s, ts := newTestServer(t)
	tok, err := s.Auth().IssueJWT("siswa1", "MTK01")
	require.NoError(t, err)

	api := cbtapi.New(ts.URL)
	ctl := quiz.NewController(api, api, credentials.Credentials{Token: tok, Code: "MTK01"})

	qs, err := ctl.Load(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, qs, 3)

	ctl.SelectCurrent(quiz.OptionB) // correct
	require.True(t, ctl.Advance())
	ctl.SelectCurrent(quiz.OptionA) // wrong
	require.True(t, ctl.Advance())
	ctl.SelectCurrent(quiz.OptionA) // correct

	score, err := ctl.Submit(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 66.67, score, 1e-9)
	assert.Equal(t, quiz.StateDone, ctl.Snapshot().State)

	results := s.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "siswa1", results[0].UserID)
	assert.Equal(t, "MTK01", results[0].Code)
	assert.Equal(t, 3, results[0].Answered)
}

func TestEndToEnd_UnknownCode(t *testing.T) {
	s, ts := newTestServer(t)
	tok, err := s.Auth().IssueJWT("siswa1", "")
	require.NoError(t, err)

	api := cbtapi.New(ts.URL)
	ctl := quiz.NewController(api, api, credentials.Credentials{Token: tok, Code: "NOPE"})

	_, err = ctl.Load(context.Background(), "")
	var fetchErr *quiz.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, quiz.DefaultFetchMessage, fetchErr.Message)
	assert.Equal(t, quiz.StateError, ctl.Snapshot().State)
}
