package exam

// loadDoneMsg is sent when the question fetch finishes.
type loadDoneMsg struct {
	Count int
	Err   error
}

// submitDoneMsg is sent when the submission finishes.
type submitDoneMsg struct {
	Score float64
	Err   error
}

// snapshotMsg is sent when the controller published a new state.
type snapshotMsg struct{}
