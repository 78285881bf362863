package playback

import (
	"sync"
	"time"
)

// DefaultTickInterval is how often the clock advances while playing.
const DefaultTickInterval = time.Second

// Speeds is the allowed set of playback rates.
var Speeds = []float64{0.25, 0.5, 0.75, 1.0, 1.25, 1.5, 1.75, 2.0}

// ValidSpeed reports whether s is one of the allowed playback rates.
func ValidSpeed(s float64) bool {
	for _, v := range Speeds {
		if s == v {
			return true
		}
	}
	return false
}

// State is a snapshot of the clock. TotalDuration 0 means the duration has
// not been discovered yet and no clamping applies.
type State struct {
	CurrentTime   float64 `json:"currentTime"`
	TotalDuration float64 `json:"totalDuration"`
	IsPlaying     bool    `json:"isPlaying"`
	PlaybackSpeed float64 `json:"playbackSpeed"`
}

// Subscriber receives a snapshot after every externally visible state change.
type Subscriber func(State)

// Clock holds the playback position for one review session. All mutation
// funnels through its methods under a single mutex, so UI callbacks and
// inbound player reconciliation share one logical writer.
type Clock struct {
	mu           sync.Mutex
	state        State
	tickInterval time.Duration
	subs         map[int]Subscriber
	nextSub      int
	tickStop     chan struct{}
	closed       bool
}

func NewClock(tickInterval time.Duration) *Clock {
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}
	return &Clock{
		state:        State{PlaybackSpeed: 1.0},
		tickInterval: tickInterval,
		subs:         map[int]Subscriber{},
	}
}

// Subscribe registers fn and returns its unsubscribe handle. Callers must
// invoke the handle on teardown.
func (c *Clock) Subscribe(fn Subscriber) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Clock) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Clock) Play() {
	c.mu.Lock()
	if c.closed || c.state.IsPlaying {
		c.mu.Unlock()
		return
	}
	c.state.IsPlaying = true
	c.startTickerLocked()
	c.notifyLocked()
}

func (c *Clock) Pause() {
	c.mu.Lock()
	if !c.state.IsPlaying {
		c.mu.Unlock()
		return
	}
	c.state.IsPlaying = false
	c.stopTickerLocked()
	c.notifyLocked()
}

// Seek clamps t into [0, totalDuration] and sets the position. Out-of-range
// requests are clamped, never rejected.
func (c *Clock) Seek(t float64) {
	c.mu.Lock()
	t = c.clampLocked(t)
	if t == c.state.CurrentTime {
		c.mu.Unlock()
		return
	}
	c.state.CurrentTime = t
	c.notifyLocked()
}

// SetSpeed applies a rate from the allowed set; anything else is ignored.
func (c *Clock) SetSpeed(s float64) {
	c.mu.Lock()
	if !ValidSpeed(s) || s == c.state.PlaybackSpeed {
		c.mu.Unlock()
		return
	}
	c.state.PlaybackSpeed = s
	c.notifyLocked()
}

// SetDuration adopts an asynchronously discovered duration. Only the first
// positive report wins; later reports are ignored.
func (c *Clock) SetDuration(d float64) {
	c.mu.Lock()
	if d <= 0 || c.state.TotalDuration > 0 {
		c.mu.Unlock()
		return
	}
	c.state.TotalDuration = d
	if c.state.CurrentTime > d {
		c.state.CurrentTime = d
	}
	c.notifyLocked()
}

// Close stops the ticker and drops all subscribers. The clock accepts no
// further mutation afterwards.
func (c *Clock) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.state.IsPlaying = false
	c.stopTickerLocked()
	c.subs = map[int]Subscriber{}
}

func (c *Clock) clampLocked(t float64) float64 {
	if t < 0 {
		return 0
	}
	if d := c.state.TotalDuration; d > 0 && t > d {
		return d
	}
	return t
}

func (c *Clock) startTickerLocked() {
	if c.tickStop != nil {
		return
	}
	stop := make(chan struct{})
	c.tickStop = stop
	go c.runTicker(stop)
}

func (c *Clock) stopTickerLocked() {
	if c.tickStop == nil {
		return
	}
	close(c.tickStop)
	c.tickStop = nil
}

func (c *Clock) runTicker(stop chan struct{}) {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.tick(c.tickInterval.Seconds())
		case <-stop:
			return
		}
	}
}

// tick advances the position by speed * elapsed wall-clock seconds. Hitting
// the end clamps and auto-pauses; that is the terminal stop, not an error.
func (c *Clock) tick(seconds float64) {
	c.mu.Lock()
	if !c.state.IsPlaying {
		c.mu.Unlock()
		return
	}
	next := c.state.CurrentTime + c.state.PlaybackSpeed*seconds
	if d := c.state.TotalDuration; d > 0 && next >= d {
		c.state.CurrentTime = d
		c.state.IsPlaying = false
		c.stopTickerLocked()
	} else {
		c.state.CurrentTime = next
	}
	c.notifyLocked()
}

// notifyLocked snapshots state and subscribers, releases the mutex, and then
// calls out, so subscribers may call back into the clock.
func (c *Clock) notifyLocked() {
	state := c.state
	subs := make([]Subscriber, 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()
	for _, fn := range subs {
		fn(state)
	}
}
