package quiz

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/Arizalb/jokicbt/internal/credentials"
)

// Messages holds the user-facing text surfaced on failures.
type Messages struct {
	Fetch  string
	Submit string
}

// Controller drives a single linear pass over a fixed question sequence.
// All methods are safe for concurrent use. Subscribers receive snapshots in
// Version order; a snapshot overtaken by a newer one is dropped. Callbacks
// run one at a time and must not call mutating Controller methods.
type Controller struct {
	mu sync.Mutex

	source    QuestionSource
	scorer    Scorer
	confirmer Confirmer
	creds     credentials.Credentials
	messages  Messages
	sessionID string

	questions []Question
	index     int
	answers   map[QuestionID]Option
	state     State
	loading   bool
	version   uint64
	errMsg    string
	score     float64
	exited    bool

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int

	emitMu    sync.Mutex
	delivered uint64
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithConfirmer sets the host capability consulted by RequestExit.
func WithConfirmer(c Confirmer) ControllerOption {
	return func(ctl *Controller) { ctl.confirmer = c }
}

// WithMessages overrides the default failure messages. Empty fields keep
// their defaults.
func WithMessages(m Messages) ControllerOption {
	return func(ctl *Controller) {
		if m.Fetch != "" {
			ctl.messages.Fetch = m.Fetch
		}
		if m.Submit != "" {
			ctl.messages.Submit = m.Submit
		}
	}
}

// WithSessionID fixes the session identifier (a random UUID otherwise).
func WithSessionID(id string) ControllerOption {
	return func(ctl *Controller) { ctl.sessionID = id }
}

// NewController creates a controller in the Loading state.
func NewController(source QuestionSource, scorer Scorer, creds credentials.Credentials, opts ...ControllerOption) *Controller {
	c := &Controller{
		source:    source,
		scorer:    scorer,
		creds:     creds,
		messages:  Messages{Fetch: DefaultFetchMessage, Submit: DefaultSubmitMessage},
		sessionID: uuid.New().String(),
		answers:   make(map[QuestionID]Option),
		state:     StateLoading,
		subs:      make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionID returns the identifier of this session.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned function removes the subscription.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
		})
	}
}

func (c *Controller) emit(s Snapshot) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	if s.Version <= c.delivered {
		return
	}
	c.delivered = s.Version

	c.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(c.subs))
	for i := 0; i < c.nextSub; i++ {
		if fn, ok := c.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		SessionID:  c.sessionID,
		Code:       c.creds.Code,
		State:      c.state,
		Index:      c.index,
		Total:      len(c.questions),
		Answered:   len(c.answers),
		Submitting: c.state == StateSubmitting,
		Err:        c.errMsg,
		Score:      c.score,
		Exited:     c.exited,
		Version:    c.version,
	}
	if c.index < len(c.questions) {
		q := c.questions[c.index]
		s.Current = &q
		s.Selected = c.answers[q.ID]
	}
	return s
}

// changedLocked records a state change and returns the snapshot to emit.
func (c *Controller) changedLocked() Snapshot {
	c.version++
	return c.snapshotLocked()
}

// Percent returns the derived progress percentage for the cursor.
func (c *Controller) Percent() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return percent(c.index, len(c.questions))
}

// Answers returns a copy of the recorded selections.
func (c *Controller) Answers() map[QuestionID]Option {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[QuestionID]Option, len(c.answers))
	for k, v := range c.answers {
		out[k] = v
	}
	return out
}

// Load fetches the question list for code (the credential's code when
// empty). It is allowed from Loading and Error only, with at most one fetch
// outstanding.
func (c *Controller) Load(ctx context.Context, code string) ([]Question, error) {
	c.mu.Lock()
	if c.exited {
		c.mu.Unlock()
		return nil, ErrExited
	}
	if c.state != StateLoading && c.state != StateError {
		c.mu.Unlock()
		return nil, ErrNotLoadable
	}
	if c.loading {
		c.mu.Unlock()
		return nil, ErrLoadInFlight
	}
	c.loading = true
	if code != "" {
		c.creds = c.creds.WithCode(code)
	}
	creds := c.creds
	c.state = StateLoading
	c.errMsg = ""
	snap := c.changedLocked()
	c.mu.Unlock()
	c.emit(snap)

	questions, err := c.fetch(ctx, creds)

	c.mu.Lock()
	c.loading = false
	if c.exited {
		c.mu.Unlock()
		return nil, ErrExited
	}
	if err != nil {
		c.state = StateError
		c.errMsg = c.messages.Fetch
		snap = c.changedLocked()
		c.mu.Unlock()
		c.emit(snap)
		return nil, &FetchError{Code: creds.Code, Message: c.messages.Fetch, Err: err}
	}
	c.questions = questions
	c.index = 0
	c.answers = make(map[QuestionID]Option)
	c.state = StateInProgress
	snap = c.changedLocked()
	c.mu.Unlock()
	c.emit(snap)

	out := make([]Question, len(questions))
	copy(out, questions)
	return out, nil
}

func (c *Controller) fetch(ctx context.Context, creds credentials.Credentials) ([]Question, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	questions, err := c.source.FetchQuestions(ctx, creds.Token, creds.Code)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return questions, nil
}

// SelectAnswer records or overwrites the option for a question. The label
// is not validated.
func (c *Controller) SelectAnswer(id QuestionID, option Option) {
	c.mu.Lock()
	if c.exited || c.state != StateInProgress {
		c.mu.Unlock()
		return
	}
	c.answers[id] = option
	snap := c.changedLocked()
	c.mu.Unlock()
	c.emit(snap)
}

// SelectCurrent records option for the question under the cursor.
func (c *Controller) SelectCurrent(option Option) {
	c.mu.Lock()
	if c.index >= len(c.questions) {
		c.mu.Unlock()
		return
	}
	id := c.questions[c.index].ID
	c.mu.Unlock()
	c.SelectAnswer(id, option)
}

// Advance moves forward one question when the current one is answered and
// is not the last. Reports whether the cursor moved.
func (c *Controller) Advance() bool {
	c.mu.Lock()
	if c.exited || c.state != StateInProgress || c.index >= len(c.questions)-1 {
		c.mu.Unlock()
		return false
	}
	if _, ok := c.answers[c.questions[c.index].ID]; !ok {
		c.mu.Unlock()
		return false
	}
	c.index++
	snap := c.changedLocked()
	c.mu.Unlock()
	c.emit(snap)
	return true
}

// Retreat moves back one question unless already on the first.
func (c *Controller) Retreat() bool {
	c.mu.Lock()
	if c.exited || c.state != StateInProgress || c.index == 0 {
		c.mu.Unlock()
		return false
	}
	c.index--
	snap := c.changedLocked()
	c.mu.Unlock()
	c.emit(snap)
	return true
}

// Submit sends every recorded answer with the user id to the scorer.
// Only one submission may be outstanding; a rejected call has no effect.
func (c *Controller) Submit(ctx context.Context) (float64, error) {
	c.mu.Lock()
	if c.exited {
		c.mu.Unlock()
		return 0, ErrExited
	}
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return 0, ErrSubmitInFlight
	}
	if c.state != StateInProgress || len(c.questions) == 0 || c.index != len(c.questions)-1 {
		c.mu.Unlock()
		return 0, ErrSubmitNotReady
	}
	if _, ok := c.answers[c.questions[c.index].ID]; !ok {
		c.mu.Unlock()
		return 0, ErrSubmitNotReady
	}

	creds := c.creds
	answers := c.payloadLocked()
	c.state = StateSubmitting
	c.errMsg = ""
	snap := c.changedLocked()
	c.mu.Unlock()
	c.emit(snap)

	score, err := c.send(ctx, creds, answers)

	c.mu.Lock()
	if err != nil {
		c.state = StateInProgress
		c.errMsg = c.messages.Submit
		snap = c.changedLocked()
		c.mu.Unlock()
		c.emit(snap)
		return 0, &SubmitError{Message: c.messages.Submit, Err: err}
	}
	c.state = StateDone
	c.score = score
	snap = c.changedLocked()
	c.mu.Unlock()
	c.emit(snap)
	return score, nil
}

func (c *Controller) send(ctx context.Context, creds credentials.Credentials, answers []Answer) (float64, error) {
	if creds.Token == "" {
		return 0, credentials.ErrMissingToken
	}
	userID, err := creds.ResolveUserID()
	if err != nil {
		return 0, err
	}
	score, err := c.scorer.SubmitAnswers(ctx, creds.Token, Submission{UserID: userID, Answers: answers})
	if err != nil {
		return 0, fmt.Errorf("scoring service: %w", err)
	}
	return score, nil
}

// payloadLocked lists recorded answers in question order. Questions without
// a selection are left out; selections for ids outside the sequence follow
// in id order.
func (c *Controller) payloadLocked() []Answer {
	out := make([]Answer, 0, len(c.answers))
	seen := make(map[QuestionID]bool, len(c.questions))
	for _, q := range c.questions {
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		if opt, ok := c.answers[q.ID]; ok {
			out = append(out, Answer{QuestionID: q.ID, UserAnswer: opt})
		}
	}

	var extra []QuestionID
	for id := range c.answers {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	slices.Sort(extra)
	for _, id := range extra {
		out = append(out, Answer{QuestionID: id, UserAnswer: c.answers[id]})
	}
	return out
}

// RequestExit asks the host to confirm abandoning the session. Unsaved
// answers are discarded on a confirmed exit. Exit is refused while a
// submission is in flight.
func (c *Controller) RequestExit() bool {
	c.mu.Lock()
	confirmer := c.confirmer
	if c.exited {
		c.mu.Unlock()
		return true
	}
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return false
	}
	c.mu.Unlock()

	if confirmer == nil || !confirmer.ConfirmDestructiveExit() {
		return false
	}

	c.mu.Lock()
	if c.exited {
		c.mu.Unlock()
		return true
	}
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return false
	}
	c.exited = true
	c.answers = make(map[QuestionID]Option)
	snap := c.changedLocked()
	c.mu.Unlock()
	c.emit(snap)
	return true
}
