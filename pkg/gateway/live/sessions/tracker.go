// Package sessions tracks live WebSocket conversations so shutdown can warn
// connected callers and wait for them to hang up before the process exits.
package sessions

import (
	"context"
	"sync"
)

// Handle is what a live conversation exposes to the tracker. Warn pushes a
// warning frame to the caller; Cancel tears the conversation down.
type Handle struct {
	Channel string
	Cancel  func()
	Warn    func(code, message string) error
}

type tracked struct {
	handle Handle
	once   sync.Once
}

// Tracker registers live conversations keyed by conversation id. All methods
// are safe on a nil receiver so wiring stays optional in tests.
type Tracker struct {
	mu     sync.Mutex
	active map[string]*tracked
	wg     sync.WaitGroup
}

func NewTracker() *Tracker {
	return &Tracker{active: make(map[string]*tracked)}
}

// Register tracks one conversation and returns its unregister func. A second
// Register with the same id supersedes the first and releases it.
func (t *Tracker) Register(conversationID string, h Handle) (unregister func()) {
	if t == nil {
		return func() {}
	}

	entry := &tracked{handle: h}

	t.mu.Lock()
	if t.active == nil {
		t.active = make(map[string]*tracked)
	}
	old := t.active[conversationID]
	t.active[conversationID] = entry
	t.wg.Add(1)
	t.mu.Unlock()

	if old != nil {
		t.release(conversationID, old)
	}
	return func() { t.release(conversationID, entry) }
}

func (t *Tracker) release(conversationID string, entry *tracked) {
	if t == nil || entry == nil {
		return
	}
	entry.once.Do(func() {
		t.mu.Lock()
		if t.active != nil && t.active[conversationID] == entry {
			delete(t.active, conversationID)
		}
		t.mu.Unlock()
		t.wg.Done()
	})
}

func (t *Tracker) Count() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}

// CountByChannel breaks the active count down per channel.
func (t *Tracker) CountByChannel() map[string]int {
	counts := make(map[string]int)
	if t == nil {
		return counts
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, entry := range t.active {
		if entry == nil {
			continue
		}
		counts[entry.handle.Channel]++
	}
	return counts
}

// WarnAll sends a warning to every live conversation. Callbacks run outside
// the tracker lock.
func (t *Tracker) WarnAll(code, message string) (sent int) {
	if t == nil {
		return 0
	}

	var warns []func(code, message string) error
	t.mu.Lock()
	for _, entry := range t.active {
		if entry == nil || entry.handle.Warn == nil {
			continue
		}
		warns = append(warns, entry.handle.Warn)
	}
	t.mu.Unlock()

	for _, warn := range warns {
		_ = warn(code, message)
		sent++
	}
	return sent
}

// CancelAll tears down every live conversation.
func (t *Tracker) CancelAll() (canceled int) {
	if t == nil {
		return 0
	}

	var cancels []func()
	t.mu.Lock()
	for _, entry := range t.active {
		if entry == nil || entry.handle.Cancel == nil {
			continue
		}
		cancels = append(cancels, entry.handle.Cancel)
	}
	t.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
		canceled++
	}
	return canceled
}

// Wait blocks until every registered conversation unregisters or ctx expires.
// Returns true when fully drained.
func (t *Tracker) Wait(ctx context.Context) bool {
	if t == nil {
		return true
	}
	if ctx == nil {
		t.wg.Wait()
		return true
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		t.wg.Wait()
	}()

	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
