package quiz

// State is the phase of a test session.
type State int

const (
	StateLoading    State = iota // Waiting for the question list
	StateError                   // Question fetch failed (terminal)
	StateInProgress              // Answering questions
	StateSubmitting              // Submission in flight
	StateDone                    // Score received (terminal)
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateInProgress:
		return "in-progress"
	case StateSubmitting:
		return "submitting"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateError || s == StateDone
}

// Snapshot is an immutable view of the session emitted after every change.
type Snapshot struct {
	SessionID string
	Code      string
	State     State

	// Index is the cursor; meaningful only when Total > 0.
	Index int
	Total int

	// Current is a copy of the question under the cursor (nil before load).
	Current  *Question
	Selected Option

	Answered   int
	Submitting bool
	Err        string
	Score      float64
	Exited     bool

	// Version increases with every state change.
	Version uint64
}

// Percent returns 100 * (Index+1) / Total, or 0 when nothing is loaded.
func (s Snapshot) Percent() float64 {
	return percent(s.Index, s.Total)
}

// OnFirst reports whether the cursor is on the first question.
func (s Snapshot) OnFirst() bool {
	return s.Index == 0
}

// OnLast reports whether the cursor is on the last question.
func (s Snapshot) OnLast() bool {
	return s.Total > 0 && s.Index == s.Total-1
}

// CanAdvance mirrors the gate applied by Controller.Advance.
func (s Snapshot) CanAdvance() bool {
	return s.State == StateInProgress && !s.Exited && !s.OnLast() && s.Selected != ""
}

// CanRetreat mirrors the gate applied by Controller.Retreat.
func (s Snapshot) CanRetreat() bool {
	return s.State == StateInProgress && !s.Exited && s.Total > 0 && s.Index > 0
}

// CanSubmit mirrors the gate applied by Controller.Submit.
func (s Snapshot) CanSubmit() bool {
	return s.State == StateInProgress && !s.Exited && s.OnLast() && s.Selected != ""
}

func percent(index, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(index+1) / float64(total)
}
