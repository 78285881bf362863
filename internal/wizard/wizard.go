package wizard

import (
	"errors"
	"sync"
)

// Stage is one step of the observation-creation flow. Each stage is gated on
// the selections accumulated by the stages before it.
type Stage int

const (
	StageFamily Stage = iota
	StageGroup
	StageDescriptor
	StageDetails
)

func (s Stage) String() string {
	switch s {
	case StageFamily:
		return "family"
	case StageGroup:
		return "group"
	case StageDescriptor:
		return "descriptor"
	case StageDetails:
		return "details"
	}
	return "unknown"
}

// ParseStage maps a stage name back to its value.
func ParseStage(name string) (Stage, bool) {
	switch name {
	case "family":
		return StageFamily, true
	case "group":
		return StageGroup, true
	case "descriptor":
		return StageDescriptor, true
	case "details":
		return StageDetails, true
	}
	return 0, false
}

// DefaultClockPosition is the clock-face position used until the reviewer
// picks one.
const DefaultClockPosition = 12

// Draft accumulates the observation fields across the stages.
type Draft struct {
	Family        string `json:"family"`
	Group         string `json:"group"`
	Descriptor    string `json:"descriptor"`
	Code          string `json:"code"`
	Remark        string `json:"remark"`
	ClockPosition int    `json:"clockPosition"`
}

func emptyDraft() Draft {
	return Draft{ClockPosition: DefaultClockPosition}
}

// Sink receives the finalized draft on submit.
type Sink func(Draft)

var (
	ErrClosed     = errors.New("wizard: not open")
	ErrWrongStage = errors.New("wizard: operation not valid at current stage")
)

// Wizard is the four-stage observation builder. It owns its draft
// exclusively while open; cancel discards, submit emits to the sink and
// starts over.
type Wizard struct {
	mu    sync.Mutex
	open  bool
	stage Stage
	draft Draft
	sink  Sink
}

func New(sink Sink) *Wizard {
	return &Wizard{draft: emptyDraft(), sink: sink}
}

// Open starts (or restarts) the flow at the family stage with an empty
// draft, regardless of how the wizard was previously closed.
func (w *Wizard) Open() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = true
	w.stage = StageFamily
	w.draft = emptyDraft()
}

func (w *Wizard) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

func (w *Wizard) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

func (w *Wizard) SelectFamily(family string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.gateLocked(StageFamily); err != nil {
		return err
	}
	w.draft.Family = family
	w.stage = StageGroup
	return nil
}

func (w *Wizard) SelectGroup(group string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.gateLocked(StageGroup); err != nil {
		return err
	}
	w.draft.Group = group
	w.stage = StageDescriptor
	return nil
}

func (w *Wizard) SelectDescriptor(descriptor, code string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.gateLocked(StageDescriptor); err != nil {
		return err
	}
	w.draft.Descriptor = descriptor
	w.draft.Code = code
	w.stage = StageDetails
	return nil
}

// SubmitDetails finalizes the draft, emits it, and resets to the family
// stage for the next observation. The clock position is clamped into 1..12.
func (w *Wizard) SubmitDetails(remark string, clockPosition int) error {
	w.mu.Lock()
	if err := w.gateLocked(StageDetails); err != nil {
		w.mu.Unlock()
		return err
	}
	if clockPosition < 1 || clockPosition > 12 {
		clockPosition = DefaultClockPosition
	}
	w.draft.Remark = remark
	w.draft.ClockPosition = clockPosition
	done := w.draft
	sink := w.sink
	w.stage = StageFamily
	w.draft = emptyDraft()
	w.mu.Unlock()

	if sink != nil {
		sink(done)
	}
	return nil
}

// Back moves to the immediately prior stage, dropping the selections that
// are no longer settled. At the family stage it is a no-op.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.open {
		return ErrClosed
	}
	if w.stage == StageFamily {
		return nil
	}
	w.jumpLocked(w.stage - 1)
	return nil
}

// JumpTo handles a breadcrumb click: move directly to an earlier stage and
// clear every field acquired from that stage onward, not just the immediate
// ones. Jumping forward is rejected.
func (w *Wizard) JumpTo(target Stage) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.open {
		return ErrClosed
	}
	if target > w.stage {
		return ErrWrongStage
	}
	w.jumpLocked(target)
	return nil
}

// Cancel discards the draft and closes the wizard without emitting.
func (w *Wizard) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = false
	w.stage = StageFamily
	w.draft = emptyDraft()
}

func (w *Wizard) gateLocked(stage Stage) error {
	if !w.open {
		return ErrClosed
	}
	if w.stage != stage {
		return ErrWrongStage
	}
	return nil
}

// jumpLocked rewinds to target. A stage's field is the selection made while
// at that stage, so landing on target means target's field and everything
// after it is unset again.
func (w *Wizard) jumpLocked(target Stage) {
	w.stage = target
	if target <= StageDetails {
		w.draft.Remark = ""
		w.draft.ClockPosition = DefaultClockPosition
	}
	if target <= StageDescriptor {
		w.draft.Descriptor = ""
		w.draft.Code = ""
	}
	if target <= StageGroup {
		w.draft.Group = ""
	}
	if target <= StageFamily {
		w.draft.Family = ""
	}
}
