package exam

import "sync"

// dialogConfirmer answers the controller's exit question with the choice
// the user made in the Y/N dialog.
type dialogConfirmer struct {
	mu     sync.Mutex
	answer bool
}

func (d *dialogConfirmer) set(v bool) {
	d.mu.Lock()
	d.answer = v
	d.mu.Unlock()
}

func (d *dialogConfirmer) ConfirmDestructiveExit() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.answer
}
