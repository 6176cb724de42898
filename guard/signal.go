package guard

import "sync"

// Signal is a one-shot completion primitive. It resolves at most once, with
// the first violation detected; on a clean request it never resolves. After
// resolution it can be read any number of times from any goroutine.
type Signal struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// resolve records err and closes the done channel. The first call wins;
// later calls are no-ops.
func (s *Signal) resolve(err error) {
	s.once.Do(func() {
		s.err = err
		close(s.done)
	})
}

// Done returns a channel that is closed when the signal has resolved.
// Callers typically race it against their own response-completion path.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// Resolved reports whether a violation has been recorded.
func (s *Signal) Resolved() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Err returns the recorded violation, or nil while the signal is
// unresolved.
func (s *Signal) Err() error {
	if s.Resolved() {
		return s.err
	}
	return nil
}
