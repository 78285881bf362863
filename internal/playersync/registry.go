package playersync

import (
	"sort"
	"sync"
)

// Handle is one embedded player surface that mirrors the session clock.
// Implementations must tolerate Send being called after teardown by
// returning an error.
type Handle interface {
	ID() string
	Send(Command) error
}

// Registry tracks the player surfaces attached to a session. Membership is
// a set: registering the same id twice keeps a single entry.
type Registry struct {
	mu      sync.Mutex
	handles map[string]Handle
}

func NewRegistry() *Registry {
	return &Registry{handles: map[string]Handle{}}
}

// Register adds h, replacing any previous handle with the same id.
func (r *Registry) Register(h Handle) {
	if h == nil || h.ID() == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles[h.ID()] = h
}

// Unregister removes the handle with the given id; absent ids are a no-op.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, id)
}

// Get returns the registered handle for id.
func (r *Registry) Get(id string) (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[id]
	return h, ok
}

// Snapshot returns the current handles ordered by id.
func (r *Registry) Snapshot() []Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Handle, 0, len(r.handles))
	for _, h := range r.handles {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}
