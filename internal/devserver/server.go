// Package devserver is a local stand-in for the hosted test service.
package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/Arizalb/jokicbt/internal/quiz"
)

// Options configures a Server.
type Options struct {
	Bank           Bank
	Secret         string
	TokenTTL       time.Duration
	AllowedOrigins []string // CORS; default allows any origin
	Quiet          bool     // skip request logging
}

// Result is a graded submission.
type Result struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Code        string    `json:"code"`
	TotalScore  float64   `json:"totalScore"`
	Answered    int       `json:"answered"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Server serves questions and grades submissions from an in-memory bank.
type Server struct {
	bank Bank
	auth *AuthService

	mu      sync.Mutex
	results []Result

	router chi.Router
}

// New builds a Server and its routes.
func New(opts Options) *Server {
	bank := opts.Bank
	if bank == nil {
		bank = SampleBank()
	}
	s := &Server{
		bank: bank,
		auth: NewAuthService(opts.Secret, opts.TokenTTL),
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	if !opts.Quiet {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Post("/api/auth/login", loginHandler(s.auth))

	r.Group(func(pr chi.Router) {
		pr.Use(jwtMiddleware(s.auth))
		pr.Get("/api/questions/{code}", s.handleQuestions)
		pr.Post("/api/results/submit-answer", s.handleSubmit)
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Auth exposes the token issuer.
func (s *Server) Auth() *AuthService {
	return s.auth
}

// Results returns a copy of graded submissions, oldest first.
func (s *Server) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Result, len(s.results))
	copy(out, s.results)
	return out
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	qs, ok := s.bank.Questions(code)
	if !ok {
		writeError(w, http.StatusNotFound, "test not found")
		return
	}
	writeJSON(w, http.StatusOK, qs)
}

type submitResponse struct {
	Result Result `json:"result"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub quiz.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if sub.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if c := claimsFrom(r.Context()); c != nil && c.UserID != "" && c.UserID != sub.UserID {
		writeError(w, http.StatusForbidden, "userId does not match token")
		return
	}

	code, score, err := s.bank.Score(sub.Answers)
	if err != nil {
		if errors.Is(err, ErrUnknownQuestion) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "score submission")
		return
	}

	res := Result{
		ID:          uuid.NewString(),
		UserID:      sub.UserID,
		Code:        code,
		TotalScore:  score,
		Answered:    len(sub.Answers),
		SubmittedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.results = append(s.results, res)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, submitResponse{Result: res})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
