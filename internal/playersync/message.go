package playersync

import (
	"bytes"
	"encoding/json"
)

// Outbound command functions understood by embedded players.
const (
	FuncPlay    = "playVideo"
	FuncPause   = "pauseVideo"
	FuncSeekTo  = "seekTo"
	FuncSetRate = "setPlaybackRate"
)

// Player state codes reported by onStateChange messages.
const (
	StateUnstarted = -1
	StateEnded     = 0
	StatePlaying   = 1
	StatePaused    = 2
	StateBuffering = 3
	StateCued      = 5
)

// sentinelPrefix marks player-internal chatter that must be ignored without
// parsing.
var sentinelPrefix = []byte("!_")

// Command is one outbound control message to an embedded player.
type Command struct {
	Event string    `json:"event"`
	Func  string    `json:"func"`
	Args  []float64 `json:"args,omitempty"`
}

func PlayCommand() Command  { return Command{Event: "command", Func: FuncPlay} }
func PauseCommand() Command { return Command{Event: "command", Func: FuncPause} }

func SeekCommand(t float64) Command {
	return Command{Event: "command", Func: FuncSeekTo, Args: []float64{t}}
}
func RateCommand(rate float64) Command {
	return Command{Event: "command", Func: FuncSetRate, Args: []float64{rate}}
}

// InboundKind discriminates decoded player messages.
type InboundKind int

const (
	KindProgress InboundKind = iota
	KindStateChange
)

// Inbound is a decoded message from an embedded player. Progress messages
// carry an observed position and, optionally, a duration; state-change
// messages carry one of the State* codes.
type Inbound struct {
	Kind        InboundKind
	CurrentTime float64
	Duration    float64
	HasDuration bool
	StateCode   int
}

type inboundEnvelope struct {
	Event string          `json:"event"`
	Info  json.RawMessage `json:"info"`
}

type progressInfo struct {
	CurrentTime *float64 `json:"currentTime"`
	Duration    *float64 `json:"duration"`
}

// ParseInbound decodes a raw player payload. It returns ok=false for
// sentinel-prefixed, malformed, or unrecognized payloads; this channel is
// best-effort, so those are discarded rather than reported.
func ParseInbound(raw []byte) (Inbound, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.HasPrefix(raw, sentinelPrefix) {
		return Inbound{}, false
	}

	var env inboundEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Inbound{}, false
	}

	switch env.Event {
	case "infoDelivery":
		var info progressInfo
		if err := json.Unmarshal(env.Info, &info); err != nil || info.CurrentTime == nil {
			return Inbound{}, false
		}
		msg := Inbound{Kind: KindProgress, CurrentTime: *info.CurrentTime}
		if info.Duration != nil && *info.Duration > 0 {
			msg.Duration = *info.Duration
			msg.HasDuration = true
		}
		return msg, true

	case "onStateChange":
		var code int
		if err := json.Unmarshal(env.Info, &code); err != nil {
			return Inbound{}, false
		}
		return Inbound{Kind: KindStateChange, StateCode: code}, true

	default:
		return Inbound{}, false
	}
}
