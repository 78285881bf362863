package session

import (
	"testing"
	"time"

	"github.com/treefix50/pipeview/internal/inspection"
	"github.com/treefix50/pipeview/internal/playersync"
)

type memStore struct {
	data inspection.SampleData
	pos  map[string]float64
}

func (m *memStore) GetWorkOrders() ([]inspection.WorkOrder, error)  { return m.data.WorkOrders, nil }
func (m *memStore) GetSections() ([]inspection.PipeSection, error)  { return m.data.Sections, nil }
func (m *memStore) GetJobs() ([]inspection.Job, error)              { return m.data.Jobs, nil }
func (m *memStore) GetObservations() ([]inspection.Observation, error) {
	return m.data.Observations, nil
}
func (m *memStore) GetGraphPoints() (map[string][]inspection.GraphPoint, error) {
	return m.data.Graphs, nil
}
func (m *memStore) GetGeoPoints() (map[string][]inspection.GeoPoint, error) {
	return m.data.Geo, nil
}

func (m *memStore) UpsertResumePosition(jobID, clientID string, position, duration float64) error {
	if m.pos == nil {
		m.pos = map[string]float64{}
	}
	m.pos[jobID+"/"+clientID] = position
	return nil
}

func (m *memStore) GetResumePosition(jobID, clientID string) (float64, bool, error) {
	pos, ok := m.pos[jobID+"/"+clientID]
	return pos, ok, nil
}

func newTestManager(t *testing.T) (*Manager, *inspection.Catalog, *memStore) {
	t.Helper()
	store := &memStore{data: inspection.Sample()}
	catalog, err := inspection.NewCatalog(store)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	m := NewManager(Config{DriftThreshold: 0.5, TickInterval: time.Hour}, catalog, store)
	t.Cleanup(m.CloseAll)
	return m, catalog, store
}

func TestCreateUnknownJob(t *testing.T) {
	m, _, _ := newTestManager(t)
	if _, err := m.Create("no-such-job", "client-a"); err == nil {
		t.Fatal("Create() for unknown job should error")
	}
}

func TestCreateSeedsDurationFromJob(t *testing.T) {
	m, _, _ := newTestManager(t)
	s, err := m.Create("job-0142-01", "client-a")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got := s.Clock().State().TotalDuration; got != 240 {
		t.Fatalf("totalDuration = %v, want 240 from the job record", got)
	}
}

func TestPlayerCommandsFlowToQueue(t *testing.T) {
	m, _, _ := newTestManager(t)
	s, err := m.Create("job-0142-01", "client-a")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	h := s.RegisterPlayer("panel-1")
	if again := s.RegisterPlayer("panel-1"); again != h {
		t.Fatal("re-registering the same player must reuse the handle")
	}

	s.Clock().Play()
	s.Clock().Seek(10)

	cmds := h.Drain()
	if len(cmds) == 0 {
		t.Fatal("registered player received no commands")
	}
	var sawPlay, sawSeek bool
	for _, c := range cmds {
		switch c.Func {
		case playersync.FuncPlay:
			sawPlay = true
		case playersync.FuncSeekTo:
			sawSeek = true
		}
	}
	if !sawPlay || !sawSeek {
		t.Fatalf("missing mirrored commands: %+v", cmds)
	}
	if got := h.Drain(); len(got) != 0 {
		t.Fatalf("second drain returned %d commands, want 0", len(got))
	}
}

func TestInboundEventReconciles(t *testing.T) {
	m, _, _ := newTestManager(t)
	s, err := m.Create("job-0142-01", "client-a")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	s.RegisterPlayer("panel-1")

	s.HandleEvent("panel-1", []byte(`{"event":"infoDelivery","info":{"currentTime":33.0}}`))
	if got := s.Clock().State().CurrentTime; got != 33.0 {
		t.Fatalf("currentTime = %v, want correction to 33.0", got)
	}

	// Events from surfaces that never registered are dropped.
	s.HandleEvent("ghost", []byte(`{"event":"infoDelivery","info":{"currentTime":90.0}}`))
	if got := s.Clock().State().CurrentTime; got != 33.0 {
		t.Fatalf("currentTime = %v after ghost event, want 33.0", got)
	}
}

func TestWizardSubmitLandsInGallery(t *testing.T) {
	m, catalog, _ := newTestManager(t)
	s, err := m.Create("job-0142-01", "client-a")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	before := len(catalog.Observations("job-0142-01"))

	s.Clock().Seek(100)
	w := s.Wizard()
	w.Open()
	if err := w.SelectFamily("Structural"); err != nil {
		t.Fatalf("SelectFamily: %v", err)
	}
	if err := w.SelectGroup("Crack (C)"); err != nil {
		t.Fatalf("SelectGroup: %v", err)
	}
	if err := w.SelectDescriptor("Circumferential (C)", "CC"); err != nil {
		t.Fatalf("SelectDescriptor: %v", err)
	}
	if err := w.SubmitDetails("heavy infiltration", 4); err != nil {
		t.Fatalf("SubmitDetails: %v", err)
	}

	obs := catalog.Observations("job-0142-01")
	if len(obs) != before+1 {
		t.Fatalf("gallery has %d observations, want %d", len(obs), before+1)
	}
	var created inspection.Observation
	for _, o := range obs {
		if o.Time == 100 {
			created = o
		}
	}
	if created.ID == "" {
		t.Fatalf("no observation stamped at clock position; got %+v", obs)
	}
	if want := "Crack (C) — Circumferential (C)"; created.Title != want {
		t.Fatalf("title = %q, want %q", created.Title, want)
	}
	if want := "CC at 4 o'clock"; created.Subtitle != want {
		t.Fatalf("subtitle = %q, want %q", created.Subtitle, want)
	}
	if created.TimestampText != "00:01:40" {
		t.Fatalf("timestampText = %q, want 00:01:40", created.TimestampText)
	}
}

func TestCloseSavesResumePosition(t *testing.T) {
	m, _, store := newTestManager(t)
	s, err := m.Create("job-0142-01", "client-a")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	s.Clock().Seek(57)
	m.Close(s.ID)

	if _, ok := m.Get(s.ID); ok {
		t.Fatal("session still retrievable after close")
	}
	pos, ok, _ := store.GetResumePosition("job-0142-01", "client-a")
	if !ok || pos != 57 {
		t.Fatalf("resume position = %v, %v, want 57 saved", pos, ok)
	}

	// A new session for the same client resumes there.
	s2, err := m.Create("job-0142-01", "client-a")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got := s2.Clock().State().CurrentTime; got != 57 {
		t.Fatalf("resumed currentTime = %v, want 57", got)
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	m, _, _ := newTestManager(t)
	s, err := m.Create("job-0142-01", "client-a")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	h := s.RegisterPlayer("panel-1")
	s.UnregisterPlayer("panel-1")
	s.UnregisterPlayer("panel-1") // second time is a no-op

	s.Clock().Play()
	if cmds := h.Drain(); len(cmds) != 0 {
		t.Fatalf("unregistered handle received %d commands", len(cmds))
	}
}

func TestQueueHandleDropsOldestWhenFull(t *testing.T) {
	h := newQueueHandle("panel-1")
	for i := 0; i < queueCap+5; i++ {
		if err := h.Send(playersync.SeekCommand(float64(i))); err != nil {
			t.Fatalf("Send(%d): %v", i, err)
		}
	}
	cmds := h.Drain()
	if len(cmds) != queueCap {
		t.Fatalf("queue length = %d, want cap %d", len(cmds), queueCap)
	}
	if got := cmds[len(cmds)-1].Args[0]; got != float64(queueCap+4) {
		t.Fatalf("newest command = %v, want %d", got, queueCap+4)
	}
}
