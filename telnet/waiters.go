package telnet

import "sync"

// waiter is one registered wait_for predicate: an event subscription
// rather than a future object. done is closed, with err set exactly
// once, when the predicate is satisfied or the connection closes.
type waiter struct {
	check func(*CompatibilityTable) bool
	done  chan error
}

// Waiters holds every pending wait_for/wait_for_condition registration
// for one session and evaluates them after each negotiation transition.
type Waiters struct {
	mu     sync.Mutex
	list   []*waiter
	closed bool
}

// NewWaiters returns an empty waiter set.
func NewWaiters() *Waiters {
	return &Waiters{}
}

// Register adds check to the set and returns a channel that receives
// exactly one value: nil when check first returns true, or a non-nil
// error (ErrConnectionClosed) if the session closes first.
func (w *Waiters) Register(check func(*CompatibilityTable) bool) <-chan error {
	done := make(chan error, 1)
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		done <- ErrConnectionClosed
		return done
	}
	w.list = append(w.list, &waiter{check: check, done: done})
	w.mu.Unlock()
	return done
}

// WaitFor builds a predicate from the shell-facing wait_for shape: maps
// from option byte to the OptionState each side must have reached.
// Waiting on a PendingOn/PendingOff entry is legal (a caller may want to
// know when a request it just issued is in flight).
func WaitFor(remote, local map[byte]OptionState) func(*CompatibilityTable) bool {
	return func(table *CompatibilityTable) bool {
		for opt, want := range remote {
			if table.Get(opt).RemoteState != want {
				return false
			}
		}
		for opt, want := range local {
			if table.Get(opt).LocalState != want {
				return false
			}
		}
		return true
	}
}

// Evaluate runs every pending predicate against table, firing and
// removing the ones that are now satisfied. Called by Session after every
// negotiation transition; O(k) in the number of pending waiters.
func (w *Waiters) Evaluate(table *CompatibilityTable) {
	w.mu.Lock()
	defer w.mu.Unlock()
	remaining := w.list[:0]
	for _, wt := range w.list {
		if wt.check(table) {
			wt.done <- nil
		} else {
			remaining = append(remaining, wt)
		}
	}
	w.list = remaining
}

// CloseAll delivers ErrConnectionClosed to every pending waiter and marks
// the set closed, so any later Register call resolves immediately instead
// of hanging forever.
func (w *Waiters) CloseAll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	for _, wt := range w.list {
		wt.done <- ErrConnectionClosed
	}
	w.list = nil
}
