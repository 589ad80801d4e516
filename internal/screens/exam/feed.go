package exam

import (
	tea "charm.land/bubbletea/v2"

	"github.com/Arizalb/jokicbt/internal/quiz"
)

// feed turns controller notifications into tea messages. Notifications are
// coalesced: the view always reads the latest snapshot, so only the wake-up
// matters.
type feed struct {
	wake        chan struct{}
	done        chan struct{}
	unsubscribe func()
}

func newFeed(ctrl *quiz.Controller) *feed {
	f := &feed{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	f.unsubscribe = ctrl.Subscribe(func(quiz.Snapshot) {
		select {
		case f.wake <- struct{}{}:
		default:
		}
	})
	return f
}

// wait blocks until the next notification or until the feed is closed.
func (f *feed) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-f.wake:
			return snapshotMsg{}
		case <-f.done:
			return nil
		}
	}
}

func (f *feed) close() {
	f.unsubscribe()
	select {
	case <-f.done:
	default:
		close(f.done)
	}
}
