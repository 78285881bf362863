package session

import (
	"errors"
	"sync"

	"github.com/treefix50/pipeview/internal/playersync"
)

// queueCap bounds how many undelivered commands a player can accumulate;
// older commands are dropped first since a stale seek is worthless once a
// newer one exists.
const queueCap = 64

var errHandleClosed = errors.New("session: player handle closed")

// QueueHandle is a playersync.Handle for polling transports: outbound
// commands buffer here until the player surface drains them.
type QueueHandle struct {
	id string

	mu     sync.Mutex
	queue  []playersync.Command
	closed bool
}

func newQueueHandle(id string) *QueueHandle {
	return &QueueHandle{id: id}
}

func (h *QueueHandle) ID() string { return h.id }

func (h *QueueHandle) Send(cmd playersync.Command) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return errHandleClosed
	}
	if len(h.queue) >= queueCap {
		h.queue = h.queue[1:]
	}
	h.queue = append(h.queue, cmd)
	return nil
}

// Drain returns and clears the pending commands.
func (h *QueueHandle) Drain() []playersync.Command {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.queue
	h.queue = nil
	return out
}

func (h *QueueHandle) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.queue = nil
}
