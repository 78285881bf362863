package playersync

import (
	"github.com/treefix50/pipeview/internal/playback"
)

// Reconciler feeds asynchronous player reports back into the clock. While a
// player is attached it is the time-of-record: observed positions past the
// drift threshold correct the clock, smaller deltas are left alone so normal
// playback advance does not ping-pong between clock and player.
type Reconciler struct {
	clock          *playback.Clock
	reg            *Registry
	driftThreshold float64
}

func NewReconciler(clock *playback.Clock, reg *Registry, driftThreshold float64) *Reconciler {
	if driftThreshold <= 0 {
		driftThreshold = DefaultDriftThreshold
	}
	return &Reconciler{clock: clock, reg: reg, driftThreshold: driftThreshold}
}

// Handle processes one raw payload from the player surface sourceID.
// Payloads from unregistered sources and undecodable payloads are dropped;
// this channel carries duplicates and out-of-order reports, so every branch
// re-derives whether anything actually changed before mutating the clock.
func (r *Reconciler) Handle(sourceID string, raw []byte) {
	if _, ok := r.reg.Get(sourceID); !ok {
		return
	}
	msg, ok := ParseInbound(raw)
	if !ok {
		return
	}

	switch msg.Kind {
	case KindProgress:
		r.applyProgress(msg)
	case KindStateChange:
		r.applyStateChange(msg.StateCode)
	}
}

func (r *Reconciler) applyProgress(msg Inbound) {
	st := r.clock.State()
	if msg.HasDuration && st.TotalDuration == 0 {
		r.clock.SetDuration(msg.Duration)
	}
	if drift := msg.CurrentTime - st.CurrentTime; drift > r.driftThreshold || drift < -r.driftThreshold {
		r.clock.Seek(msg.CurrentTime)
	}
}

func (r *Reconciler) applyStateChange(code int) {
	st := r.clock.State()
	switch code {
	case StatePlaying:
		if !st.IsPlaying {
			r.clock.Play()
		}
	case StatePaused:
		if st.IsPlaying {
			r.clock.Pause()
		}
	case StateEnded:
		// Ended is paused at the end of the timeline.
		if st.IsPlaying {
			r.clock.Pause()
		}
		if st.TotalDuration > 0 && st.CurrentTime != st.TotalDuration {
			r.clock.Seek(st.TotalDuration)
		}
	}
	// Unstarted, buffering, and cued do not map onto the clock.
}
