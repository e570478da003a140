// Package shutdown provides a one-shot cancellation signal shared across the
// gateway so that cancelling the aggregate cascades into every upstream
// connection it owns.
package shutdown

import "sync"

// Token is a one-shot broadcast signal. It is the Go stand-in for a
// cancellation token shared between a parent and every child it spawns:
// closing it once wakes every goroutine waiting on Done, and Cancel is safe
// to call any number of times from any number of goroutines.
type Token struct {
	once sync.Once
	done chan struct{}
}

// New returns a Token that has not yet fired.
func New() *Token {
	return &Token{done: make(chan struct{})}
}

// Cancel fires the token. Safe to call more than once; only the first call
// has any effect.
func (t *Token) Cancel() {
	t.once.Do(func() { close(t.done) })
}

// Done returns a channel that is closed once Cancel has been called.
func (t *Token) Done() <-chan struct{} {
	return t.done
}

// Cancelled reports whether Cancel has already been called.
func (t *Token) Cancelled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
