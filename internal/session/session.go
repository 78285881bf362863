package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/treefix50/pipeview/internal/inspection"
	"github.com/treefix50/pipeview/internal/playback"
	"github.com/treefix50/pipeview/internal/playersync"
	"github.com/treefix50/pipeview/internal/wizard"
)

// Session is one review of a job's recording: a clock, the player surfaces
// mirroring it, and the observation wizard operating at the clock's
// position.
type Session struct {
	ID       string `json:"id"`
	JobID    string `json:"jobId"`
	ClientID string `json:"clientId,omitempty"`

	clock *playback.Clock
	reg   *playersync.Registry
	recon *playersync.Reconciler
	wiz   *wizard.Wizard
	unsub func()

	mu      sync.Mutex
	players map[string]*QueueHandle
}

// State is the session snapshot returned to clients.
type State struct {
	ID      string         `json:"id"`
	JobID   string         `json:"jobId"`
	Clock   playback.State `json:"clock"`
	Players []string       `json:"players"`
	Wizard  WizardState    `json:"wizard"`
}

type WizardState struct {
	Open  bool         `json:"open"`
	Stage string       `json:"stage"`
	Draft wizard.Draft `json:"draft"`
}

func (s *Session) Clock() *playback.Clock { return s.clock }

func (s *Session) Wizard() *wizard.Wizard { return s.wiz }

// State snapshots the session.
func (s *Session) State() State {
	s.mu.Lock()
	players := make([]string, 0, len(s.players))
	for id := range s.players {
		players = append(players, id)
	}
	s.mu.Unlock()
	sort.Strings(players)

	return State{
		ID:      s.ID,
		JobID:   s.JobID,
		Clock:   s.clock.State(),
		Players: players,
		Wizard: WizardState{
			Open:  s.wiz.IsOpen(),
			Stage: s.wiz.Stage().String(),
			Draft: s.wiz.Draft(),
		},
	}
}

// RegisterPlayer attaches a player surface and returns its command-queue
// handle. Registering an id again reuses the existing handle.
func (s *Session) RegisterPlayer(playerID string) *QueueHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.players[playerID]; ok {
		return h
	}
	h := newQueueHandle(playerID)
	s.players[playerID] = h
	s.reg.Register(h)
	return h
}

// UnregisterPlayer detaches a player surface; unknown ids are a no-op.
func (s *Session) UnregisterPlayer(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.players[playerID]
	if !ok {
		return
	}
	delete(s.players, playerID)
	s.reg.Unregister(playerID)
	h.close()
}

// Player returns the handle for playerID.
func (s *Session) Player(playerID string) (*QueueHandle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.players[playerID]
	return h, ok
}

// HandleEvent feeds one raw inbound player payload into reconciliation.
func (s *Session) HandleEvent(playerID string, raw []byte) {
	s.recon.Handle(playerID, raw)
}

func (s *Session) close() {
	s.unsub()
	s.clock.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, h := range s.players {
		s.reg.Unregister(id)
		h.close()
	}
	s.players = map[string]*QueueHandle{}
}

// Config carries the tunables the sync layer was measured with; both are
// empirical UI constants, so they stay configurable.
type Config struct {
	DriftThreshold float64
	TickInterval   time.Duration
}

// ResumeStore persists where a client left off between sessions.
type ResumeStore interface {
	UpsertResumePosition(jobID, clientID string, position, duration float64) error
	GetResumePosition(jobID, clientID string) (float64, bool, error)
}

// Manager owns the live sessions.
type Manager struct {
	cfg     Config
	catalog *inspection.Catalog
	resume  ResumeStore

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(cfg Config, catalog *inspection.Catalog, resume ResumeStore) *Manager {
	return &Manager{
		cfg:      cfg,
		catalog:  catalog,
		resume:   resume,
		sessions: map[string]*Session{},
	}
}

// Create opens a session for a job. The clock starts paused at the client's
// saved resume position (when one exists) with the job's known duration.
func (m *Manager) Create(jobID, clientID string) (*Session, error) {
	job, ok := m.catalog.Job(jobID)
	if !ok {
		return nil, fmt.Errorf("session: unknown job %q", jobID)
	}

	clock := playback.NewClock(m.cfg.TickInterval)
	if job.DurationSeconds > 0 {
		clock.SetDuration(job.DurationSeconds)
	}
	if m.resume != nil {
		if pos, found, err := m.resume.GetResumePosition(jobID, clientID); err == nil && found {
			clock.Seek(pos)
		}
	}

	reg := playersync.NewRegistry()
	bcast := playersync.NewBroadcaster(reg, m.cfg.DriftThreshold)
	unsub := clock.Subscribe(bcast.Sync)

	s := &Session{
		ID:       uuid.NewString(),
		JobID:    jobID,
		ClientID: clientID,
		clock:    clock,
		reg:      reg,
		recon:    playersync.NewReconciler(clock, reg, m.cfg.DriftThreshold),
		unsub:    unsub,
		players:  map[string]*QueueHandle{},
	}
	s.wiz = wizard.New(m.observationSink(s))

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

// observationSink turns a finalized wizard draft into a gallery observation
// stamped at the clock's current position.
func (m *Manager) observationSink(s *Session) wizard.Sink {
	return func(d wizard.Draft) {
		t := s.clock.State().CurrentTime
		m.catalog.AddObservation(inspection.Observation{
			JobID:         s.JobID,
			Time:          t,
			Title:         fmt.Sprintf("%s — %s", d.Group, d.Descriptor),
			Subtitle:      fmt.Sprintf("%s at %d o'clock", d.Code, d.ClockPosition),
			TimestampText: inspection.FormatTimestamp(t),
		})
	}
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close tears down a session, saving the resume position first. Closing an
// unknown id is a no-op.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return
	}
	m.saveResume(s)
	s.close()
}

// CloseAll tears down every session, for server shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = map[string]*Session{}
	m.mu.Unlock()
	for _, s := range sessions {
		m.saveResume(s)
		s.close()
	}
}

func (m *Manager) saveResume(s *Session) {
	if m.resume == nil {
		return
	}
	st := s.clock.State()
	_ = m.resume.UpsertResumePosition(s.JobID, s.ClientID, st.CurrentTime, st.TotalDuration)
}
