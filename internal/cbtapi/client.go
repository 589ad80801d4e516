// Package cbtapi is the HTTP client for the remote test service.
package cbtapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Arizalb/jokicbt/internal/quiz"
)

const (
	// DefaultBaseURL is the hosted test service.
	DefaultBaseURL = "https://jokicbt1.vercel.app"

	// DefaultTimeout bounds each request.
	DefaultTimeout = 20 * time.Second

	questionsPath = "/api/questions/"
	submitPath    = "/api/results/submit-answer"

	maxBodyBytes = 4 << 20
	maxErrorBody = 512
)

// HTTPDoer abstracts the HTTP client used for requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// API is the pair of remote operations a test session needs.
type API interface {
	quiz.QuestionSource
	quiz.Scorer
}

// Client talks to the test service over HTTP.
type Client struct {
	baseURL string
	http    HTTPDoer
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(d HTTPDoer) Option {
	return func(c *Client) { c.http = d }
}

// WithTimeout sets the per-request deadline. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a Client for baseURL (DefaultBaseURL when empty).
func New(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchQuestions retrieves the ordered question list for code.
func (c *Client) FetchQuestions(ctx context.Context, token, code string) ([]quiz.Question, error) {
	raw, err := c.do(ctx, http.MethodGet, QuestionsPath(code), token, nil)
	if err != nil {
		return nil, err
	}
	if err := validateResponse(QuestionListSchema, raw); err != nil {
		return nil, err
	}

	var questions []quiz.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, &InvalidResponseError{Content: raw, Err: err}
	}
	return questions, nil
}

type submitResponse struct {
	Result struct {
		TotalScore float64 `json:"totalScore"`
	} `json:"result"`
}

// SubmitAnswers posts the submission and returns result.totalScore.
func (c *Client) SubmitAnswers(ctx context.Context, token string, sub quiz.Submission) (float64, error) {
	if sub.Answers == nil {
		sub.Answers = []quiz.Answer{}
	}
	body, err := json.Marshal(sub)
	if err != nil {
		return 0, fmt.Errorf("marshal submission: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, submitPath, token, body)
	if err != nil {
		return 0, err
	}
	if err := validateResponse(SubmitResultSchema, raw); err != nil {
		return 0, err
	}

	var resp submitResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return 0, &InvalidResponseError{Content: raw, Err: err}
	}
	return resp.Result.TotalScore, nil
}

// QuestionsPath returns the request path for the question list of code.
func QuestionsPath(code string) string {
	return questionsPath + url.PathEscape(code)
}

// SubmitPath returns the request path for answer submission.
func SubmitPath() string {
	return submitPath
}

func (c *Client) do(ctx context.Context, method, path, token string, body []byte) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(raw))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &HTTPError{Status: resp.StatusCode, Body: msg}
	}
	return raw, nil
}
