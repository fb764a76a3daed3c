package pomodoro

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrSessionActive is returned when a countdown is already running for a key.
	ErrSessionActive = errors.New("a pomodoro is already running")
	// ErrNoSession is returned when no countdown is running for a key.
	ErrNoSession = errors.New("no pomodoro is running")
	// ErrRegistryClosed is returned by Launch after Close.
	ErrRegistryClosed = errors.New("pomodoro registry is closed")
)

// Key identifies the owner of a session: one user in one channel.
type Key struct {
	Channel string
	User    string
}

// String returns "channel:user".
func (k Key) String() string {
	return k.Channel + ":" + k.User
}

// Factory builds a fresh session for a key.
type Factory func(key Key) *Session

// RunFunc drives a prepared session until its countdown ends.
type RunFunc func(ctx context.Context, s *Session) error

type entry struct {
	session    *Session
	cancel     context.CancelFunc
	running    bool
	lastActive time.Time
}

// Registry owns one session per key and runs at most one countdown per key
// in the background. Sessions outlive their countdowns so the cycle ordinal
// carries over between work phases.
type Registry struct {
	factory Factory
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	entries  map[Key]*entry
	isClosed bool
}

// NewRegistry returns an empty registry.
func NewRegistry(factory Factory) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		factory: factory,
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[Key]*entry),
	}
}

// Launch prepares the session for key and runs it in a new goroutine.
// prepare runs under the registry lock, so no other countdown for the key can
// start in between. If prepare fails nothing is launched.
func (r *Registry) Launch(key Key, prepare func(*Session) error, run RunFunc) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isClosed {
		return nil, ErrRegistryClosed
	}

	e, ok := r.entries[key]
	if !ok {
		e = &entry{session: r.factory(key)}
		r.entries[key] = e
	}
	if e.running {
		return e.session, ErrSessionActive
	}

	if prepare != nil {
		if err := prepare(e.session); err != nil {
			return e.session, err
		}
	}

	ctx, cancel := context.WithCancel(r.ctx)
	e.cancel = cancel
	e.running = true
	e.lastActive = r.now()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()

		_ = run(ctx, e.session)

		r.mu.Lock()
		e.running = false
		e.cancel = nil
		e.lastActive = r.now()
		r.mu.Unlock()
	}()

	return e.session, nil
}

// Session returns the session for key, if one has been created.
func (r *Registry) Session(key Key) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// Running reports whether a countdown is in progress for key.
func (r *Registry) Running(key Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	return ok && e.running
}

// Stop cancels the countdown for key. The goroutine exits asynchronously.
func (r *Registry) Stop(key Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok || !e.running {
		return ErrNoSession
	}
	e.cancel()
	return nil
}

// Len returns the number of known sessions, running or idle.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// PruneIdle forgets idle sessions whose last countdown ended before cutoff.
// It returns the number of sessions removed.
func (r *Registry) PruneIdle(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, e := range r.entries {
		if e.running || !e.lastActive.Before(cutoff) {
			continue
		}
		delete(r.entries, key)
		removed++
	}
	return removed
}

// Close cancels every running countdown and waits for them to return.
func (r *Registry) Close() {
	r.mu.Lock()
	r.isClosed = true
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()
}
