package playersync

import (
	"log"
	"sync"

	"github.com/treefix50/pipeview/internal/playback"
)

// DefaultDriftThreshold is the position delta, in seconds, below which a
// seek is considered redundant churn and suppressed.
const DefaultDriftThreshold = 0.5

type handleState struct {
	time       float64
	hasTime    bool
	playing    bool
	hasPlaying bool
	speed      float64
}

// Broadcaster mirrors clock state onto every registered player. Its Sync
// method is meant to be installed as a clock subscriber.
type Broadcaster struct {
	reg            *Registry
	driftThreshold float64

	mu   sync.Mutex
	sent map[string]*handleState
}

func NewBroadcaster(reg *Registry, driftThreshold float64) *Broadcaster {
	if driftThreshold <= 0 {
		driftThreshold = DefaultDriftThreshold
	}
	return &Broadcaster{
		reg:            reg,
		driftThreshold: driftThreshold,
		sent:           map[string]*handleState{},
	}
}

// Sync pushes st to each registered handle. Play/pause and rate changes are
// mirrored whenever they differ from what the handle last received; a seek
// goes out only when the position has drifted past the threshold, which
// keeps normal tick advance from generating seek churn. A handle that fails
// to accept a command is logged and skipped, never allowed to block the
// rest.
func (b *Broadcaster) Sync(st playback.State) {
	handles := b.reg.Snapshot()

	b.mu.Lock()
	b.pruneLocked(handles)
	plans := make([][]Command, len(handles))
	for i, h := range handles {
		plans[i] = b.planLocked(h.ID(), st)
	}
	b.mu.Unlock()

	for i, h := range handles {
		for _, cmd := range plans[i] {
			if err := h.Send(cmd); err != nil {
				log.Printf("level=info msg=\"player send failed\" player=%s func=%s err=%v", h.ID(), cmd.Func, err)
			}
		}
	}
}

// planLocked decides which commands handle id needs for st and records them
// as delivered.
func (b *Broadcaster) planLocked(id string, st playback.State) []Command {
	last := b.sent[id]
	if last == nil {
		last = &handleState{}
		b.sent[id] = last
	}

	var cmds []Command
	if !last.hasPlaying || last.playing != st.IsPlaying {
		if st.IsPlaying {
			cmds = append(cmds, PlayCommand())
		} else {
			cmds = append(cmds, PauseCommand())
		}
		last.playing = st.IsPlaying
		last.hasPlaying = true
	}
	if last.speed != st.PlaybackSpeed {
		cmds = append(cmds, RateCommand(st.PlaybackSpeed))
		last.speed = st.PlaybackSpeed
	}
	if drift := st.CurrentTime - last.time; !last.hasTime || drift > b.driftThreshold || drift < -b.driftThreshold {
		cmds = append(cmds, SeekCommand(st.CurrentTime))
		last.time = st.CurrentTime
		last.hasTime = true
	}
	return cmds
}

// pruneLocked drops bookkeeping for handles no longer registered.
func (b *Broadcaster) pruneLocked(handles []Handle) {
	if len(b.sent) == 0 {
		return
	}
	alive := make(map[string]bool, len(handles))
	for _, h := range handles {
		alive[h.ID()] = true
	}
	for id := range b.sent {
		if !alive[id] {
			delete(b.sent, id)
		}
	}
}
