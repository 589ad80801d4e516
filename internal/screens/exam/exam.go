// Package exam is the screen that runs one test from fetch to submission.
package exam

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Arizalb/jokicbt/internal/cbtapi"
	"github.com/Arizalb/jokicbt/internal/credentials"
	"github.com/Arizalb/jokicbt/internal/quiz"
	"github.com/Arizalb/jokicbt/internal/router"
	"github.com/Arizalb/jokicbt/internal/screen"
	"github.com/Arizalb/jokicbt/internal/screens/result"
	"github.com/Arizalb/jokicbt/internal/store"
	"github.com/Arizalb/jokicbt/internal/ui/components"
	"github.com/Arizalb/jokicbt/internal/ui/layout"
)

// ExitPrompt is shown before abandoning a test.
const ExitPrompt = "Are you sure you want to leave the test? Your answers have not been saved."

// Deps are the collaborators of an ExamScreen. Events and Results may be nil.
type Deps struct {
	Source   quiz.QuestionSource
	Scorer   quiz.Scorer
	Creds    credentials.Credentials
	Messages quiz.Messages
	Events   store.EventRepo
	Results  store.ResultRepo
}

// ExamScreen implements screen.Screen for a running test.
type ExamScreen struct {
	ctrl    *quiz.Controller
	confirm *dialogConfirmer
	feed    *feed
	deps    Deps

	spinner     components.Spinner
	showingExit bool
	closed      bool
}

var _ screen.Screen = (*ExamScreen)(nil)
var _ screen.KeyHintProvider = (*ExamScreen)(nil)
var _ screen.LeaveGuard = (*ExamScreen)(nil)
var _ screen.Closer = (*ExamScreen)(nil)

// New creates an ExamScreen; the fetch starts in Init.
func New(deps Deps) *ExamScreen {
	confirm := &dialogConfirmer{}
	ctrl := quiz.NewController(deps.Source, deps.Scorer, deps.Creds,
		quiz.WithConfirmer(confirm),
		quiz.WithMessages(deps.Messages),
	)
	return &ExamScreen{
		ctrl:    ctrl,
		confirm: confirm,
		feed:    newFeed(ctrl),
		deps:    deps,
		spinner: components.NewSpinner("Loading questions..."),
	}
}

// Controller exposes the flow controller driving this screen.
func (s *ExamScreen) Controller() *quiz.Controller {
	return s.ctrl
}

func (s *ExamScreen) Init() tea.Cmd {
	return tea.Batch(s.load(), s.spinner.Tick(), s.feed.wait())
}

func (s *ExamScreen) Title() string {
	return "Test"
}

func (s *ExamScreen) HeaderContext() (code, user string) {
	return s.ctrl.Snapshot().Code, s.deps.Creds.UserID
}

// GuardLeave reports whether leaving now would lose answers.
func (s *ExamScreen) GuardLeave() bool {
	if s.closed {
		return false
	}
	snap := s.ctrl.Snapshot()
	return !snap.Exited && !snap.State.Terminal()
}

// Close stops listening to the controller. Called by the router when the
// screen leaves the stack.
func (s *ExamScreen) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.feed.close()
}

func (s *ExamScreen) KeyHints() []layout.KeyHint {
	if s.showingExit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave test"},
			{Key: "N", Description: "Stay"},
		}
	}
	snap := s.ctrl.Snapshot()
	switch snap.State {
	case quiz.StateError:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	case quiz.StateInProgress:
		hints := []layout.KeyHint{
			{Key: "A-D/1-4", Description: "Answer"},
			{Key: "←→", Description: "Prev/Next"},
		}
		if snap.OnLast() {
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Finish"})
		} else {
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Leave"})
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Leave"}}
}

func (s *ExamScreen) View(width, height int) string {
	if s.showingExit {
		return renderExitConfirm(width, height)
	}
	snap := s.ctrl.Snapshot()
	switch snap.State {
	case quiz.StateLoading:
		return layout.Center(s.spinner.View(), width, height)
	case quiz.StateError:
		return renderError(width, height, snap.Err)
	}
	return s.renderQuestion(snap, width, height)
}

func (s *ExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		if s.closed {
			return s, nil
		}
		return s, s.feed.wait()

	case loadDoneMsg:
		return s, nil

	case submitDoneMsg:
		return s.handleSubmitDone(msg)

	case screen.LeaveRequestMsg:
		if s.GuardLeave() && s.ctrl.Snapshot().State != quiz.StateSubmitting {
			s.showingExit = true
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.ctrl.Snapshot().State == quiz.StateLoading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ExamScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.showingExit {
		switch key {
		case "y", "Y":
			return s.leave(true)
		case "n", "N", "esc":
			return s.leave(false)
		}
		return s, nil
	}

	snap := s.ctrl.Snapshot()
	switch snap.State {
	case quiz.StateLoading:
		if key == "esc" {
			s.showingExit = true
		}
		return s, nil

	case quiz.StateSubmitting:
		// Leaving is refused until the score arrives.
		return s, nil

	case quiz.StateError:
		switch key {
		case "r", "R", "enter":
			return s, s.load()
		case "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
		return s, nil

	case quiz.StateInProgress:
		return s.handleQuestionKey(key, snap)
	}
	return s, nil
}

func (s *ExamScreen) handleQuestionKey(key string, snap quiz.Snapshot) (screen.Screen, tea.Cmd) {
	switch key {
	case "esc":
		s.showingExit = true
		return s, nil
	case "right", "l", "n":
		s.ctrl.Advance()
		return s, nil
	case "left", "h", "p":
		s.ctrl.Retreat()
		return s, nil
	case "enter":
		if snap.OnLast() {
			if snap.CanSubmit() {
				return s, s.submit()
			}
			return s, nil
		}
		s.ctrl.Advance()
		return s, nil
	}

	if i, ok := optionList(snap).Pick(key); ok {
		s.ctrl.SelectCurrent(quiz.Options[i])
	}
	return s, nil
}

// leave resolves the exit dialog through the controller's confirmer.
func (s *ExamScreen) leave(confirmed bool) (screen.Screen, tea.Cmd) {
	s.showingExit = false
	s.confirm.set(confirmed)
	if !s.ctrl.RequestExit() {
		return s, nil
	}
	snap := s.ctrl.Snapshot()
	s.recordEvent("exit", fmt.Sprintf("left at question %d of %d", snap.Index+1, snap.Total))
	return s, func() tea.Msg { return router.PopToRootMsg{} }
}

func (s *ExamScreen) load() tea.Cmd {
	ctrl := s.ctrl
	return func() tea.Msg {
		ctx := cbtapi.WithSessionID(context.Background(), ctrl.SessionID())
		qs, err := ctrl.Load(ctx, "")
		if errors.Is(err, quiz.ErrLoadInFlight) || errors.Is(err, quiz.ErrNotLoadable) || errors.Is(err, quiz.ErrExited) {
			return loadDoneMsg{}
		}
		if err != nil {
			s.recordEvent("load-failed", err.Error())
			return loadDoneMsg{Err: err}
		}
		s.recordEvent("start", fmt.Sprintf("%d questions", len(qs)))
		return loadDoneMsg{Count: len(qs)}
	}
}

func (s *ExamScreen) submit() tea.Cmd {
	ctrl := s.ctrl
	return func() tea.Msg {
		ctx := cbtapi.WithSessionID(context.Background(), ctrl.SessionID())
		score, err := ctrl.Submit(ctx)
		// A repeated Enter can queue a submit that is no longer valid.
		if errors.Is(err, quiz.ErrSubmitInFlight) || errors.Is(err, quiz.ErrSubmitNotReady) || errors.Is(err, quiz.ErrExited) {
			return submitDoneMsg{Err: err}
		}
		if err != nil {
			s.recordEvent("submit-failed", err.Error())
			return submitDoneMsg{Err: err}
		}
		s.recordEvent("submit", fmt.Sprintf("score %.2f", score))
		s.saveResult(ctx, score)
		return submitDoneMsg{Score: score}
	}
}

func (s *ExamScreen) handleSubmitDone(msg submitDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		// The controller keeps the answers and exposes the message.
		return s, nil
	}
	snap := s.ctrl.Snapshot()
	next := result.New(result.Summary{
		Code:     snap.Code,
		Score:    msg.Score,
		Answered: snap.Answered,
		Total:    snap.Total,
	})
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *ExamScreen) recordEvent(action, detail string) {
	if s.deps.Events == nil {
		return
	}
	err := s.deps.Events.AppendSessionEvent(context.Background(), store.SessionEventData{
		SessionID: s.ctrl.SessionID(),
		Code:      s.ctrl.Snapshot().Code,
		Action:    action,
		Detail:    detail,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log session event: %v\n", err)
	}
}

func (s *ExamScreen) saveResult(ctx context.Context, score float64) {
	if s.deps.Results == nil {
		return
	}
	snap := s.ctrl.Snapshot()
	userID, _ := s.deps.Creds.ResolveUserID()
	err := s.deps.Results.Append(context.WithoutCancel(ctx), store.Result{
		SessionID:     s.ctrl.SessionID(),
		Code:          snap.Code,
		UserID:        userID,
		TotalScore:    score,
		Answered:      snap.Answered,
		QuestionCount: snap.Total,
		SubmittedAt:   time.Now(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save result: %v\n", err)
	}
}
