package storage

import (
	"database/sql"
	"testing"
	"time"

	"github.com/treefix50/pipeview/internal/inspection"
)

func newTestStore(t *testing.T, ensureSchema bool) *Store {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	store := &Store{db: db}
	if ensureSchema {
		if err := store.EnsureSchema(); err != nil {
			t.Fatalf("ensure schema: %v", err)
		}
	}

	return store
}

func TestMigrateSchema(t *testing.T) {
	store := newTestStore(t, false)

	if err := store.MigrateSchema(); err != nil {
		t.Fatalf("MigrateSchema() error = %v", err)
	}

	rows, err := store.db.Query(`
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
	`)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan sqlite_master: %v", err)
		}
		found[name] = true
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("sqlite_master rows: %v", err)
	}

	for _, table := range []string{
		"schema_migrations", "work_orders", "pipe_sections", "jobs",
		"observations", "graph_points", "geo_points", "resume_positions",
	} {
		if !found[table] {
			t.Fatalf("expected table %q to exist", table)
		}
	}

	var version int
	if err := store.db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&version); err != nil {
		t.Fatalf("query schema_migrations: %v", err)
	}
	if version != 2 {
		t.Fatalf("unexpected schema version: got %d want 2", version)
	}

	// Second run is a no-op.
	if err := store.MigrateSchema(); err != nil {
		t.Fatalf("second MigrateSchema() error = %v", err)
	}
}

func TestSaveAndGetJobs(t *testing.T) {
	store := newTestStore(t, true)

	inspected := time.Unix(1700000000, 0).UTC()
	if err := store.SaveWorkOrders([]inspection.WorkOrder{{ID: "wo-1", Name: "Trunk", CreatedAt: inspected}}); err != nil {
		t.Fatalf("SaveWorkOrders() error = %v", err)
	}
	if err := store.SaveSections([]inspection.PipeSection{{ID: "sec-1", Name: "MH-1 → MH-2", DiameterMM: 300}}); err != nil {
		t.Fatalf("SaveSections() error = %v", err)
	}

	jobs := []inspection.Job{
		{
			ID: "job-1", WorkOrderID: "wo-1", SectionID: "sec-1",
			Name: "Run 1", MediaURL: "https://player.example/embed/1",
			DurationSeconds: 240, Status: "in-review", InspectedAt: inspected,
		},
		{
			ID: "job-2", WorkOrderID: "wo-1", SectionID: "sec-1",
			Name: "Run 2", DurationSeconds: 180, Status: "pending", InspectedAt: inspected,
		},
	}
	if err := store.SaveJobs(jobs); err != nil {
		t.Fatalf("SaveJobs() error = %v", err)
	}

	got, err := store.GetJobs()
	if err != nil {
		t.Fatalf("GetJobs() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d jobs, want 2", len(got))
	}
	if got[0] != jobs[0] {
		t.Fatalf("job round-trip mismatch:\n got %+v\nwant %+v", got[0], jobs[0])
	}

	count, err := store.CountJobs()
	if err != nil {
		t.Fatalf("CountJobs() error = %v", err)
	}
	if count != 2 {
		t.Fatalf("CountJobs() = %d, want 2", count)
	}
}

func TestSaveJobsUpsert(t *testing.T) {
	store := newTestStore(t, true)
	inspected := time.Unix(1700000000, 0).UTC()

	seed := []inspection.WorkOrder{{ID: "wo-1", Name: "Trunk", CreatedAt: inspected}}
	if err := store.SaveWorkOrders(seed); err != nil {
		t.Fatalf("SaveWorkOrders() error = %v", err)
	}
	if err := store.SaveSections([]inspection.PipeSection{{ID: "sec-1", Name: "S"}}); err != nil {
		t.Fatalf("SaveSections() error = %v", err)
	}

	job := inspection.Job{ID: "job-1", WorkOrderID: "wo-1", SectionID: "sec-1", Name: "Run 1", Status: "pending", InspectedAt: inspected}
	if err := store.SaveJobs([]inspection.Job{job}); err != nil {
		t.Fatalf("SaveJobs() error = %v", err)
	}

	job.Status = "reviewed"
	if err := store.SaveJobs([]inspection.Job{job}); err != nil {
		t.Fatalf("SaveJobs() upsert error = %v", err)
	}

	got, err := store.GetJobs()
	if err != nil {
		t.Fatalf("GetJobs() error = %v", err)
	}
	if len(got) != 1 || got[0].Status != "reviewed" {
		t.Fatalf("upsert result = %+v, want single reviewed job", got)
	}
}

func TestGraphAndGeoRoundTrip(t *testing.T) {
	store := newTestStore(t, true)
	inspected := time.Unix(1700000000, 0).UTC()

	if err := store.SaveWorkOrders([]inspection.WorkOrder{{ID: "wo-1", Name: "W", CreatedAt: inspected}}); err != nil {
		t.Fatalf("SaveWorkOrders() error = %v", err)
	}
	if err := store.SaveSections([]inspection.PipeSection{{ID: "sec-1", Name: "S"}}); err != nil {
		t.Fatalf("SaveSections() error = %v", err)
	}
	if err := store.SaveJobs([]inspection.Job{{ID: "job-1", WorkOrderID: "wo-1", SectionID: "sec-1", Name: "R", Status: "pending", InspectedAt: inspected}}); err != nil {
		t.Fatalf("SaveJobs() error = %v", err)
	}

	points := []inspection.GraphPoint{{Time: 0, Value: 100}, {Time: 10, Value: 99.5}}
	if err := store.SaveGraphPoints("job-1", points); err != nil {
		t.Fatalf("SaveGraphPoints() error = %v", err)
	}
	graphs, err := store.GetGraphPoints()
	if err != nil {
		t.Fatalf("GetGraphPoints() error = %v", err)
	}
	if len(graphs["job-1"]) != 2 || graphs["job-1"][1] != points[1] {
		t.Fatalf("graph round trip = %+v", graphs["job-1"])
	}

	geo := []inspection.GeoPoint{{Seq: 1, Lat: 44.1, Lon: -123.1}, {Seq: 0, Lat: 44.0, Lon: -123.0}}
	if err := store.SaveGeoPoints("sec-1", geo); err != nil {
		t.Fatalf("SaveGeoPoints() error = %v", err)
	}
	geos, err := store.GetGeoPoints()
	if err != nil {
		t.Fatalf("GetGeoPoints() error = %v", err)
	}
	got := geos["sec-1"]
	if len(got) != 2 || got[0].Seq != 0 || got[1].Seq != 1 {
		t.Fatalf("geo points not ordered by seq: %+v", got)
	}
}

func TestResumePositions(t *testing.T) {
	store := newTestStore(t, true)
	inspected := time.Unix(1700000000, 0).UTC()

	if err := store.SaveWorkOrders([]inspection.WorkOrder{{ID: "wo-1", Name: "W", CreatedAt: inspected}}); err != nil {
		t.Fatalf("SaveWorkOrders() error = %v", err)
	}
	if err := store.SaveSections([]inspection.PipeSection{{ID: "sec-1", Name: "S"}}); err != nil {
		t.Fatalf("SaveSections() error = %v", err)
	}
	if err := store.SaveJobs([]inspection.Job{{ID: "job-1", WorkOrderID: "wo-1", SectionID: "sec-1", Name: "R", Status: "pending", InspectedAt: inspected}}); err != nil {
		t.Fatalf("SaveJobs() error = %v", err)
	}

	if _, ok, err := store.GetResumePosition("job-1", "client-a"); err != nil || ok {
		t.Fatalf("GetResumePosition() before save = ok=%v err=%v, want absent", ok, err)
	}

	if err := store.UpsertResumePosition("job-1", "client-a", 42.5, 240); err != nil {
		t.Fatalf("UpsertResumePosition() error = %v", err)
	}
	if err := store.UpsertResumePosition("job-1", "client-a", 61.0, 240); err != nil {
		t.Fatalf("UpsertResumePosition() update error = %v", err)
	}

	pos, ok, err := store.GetResumePosition("job-1", "client-a")
	if err != nil {
		t.Fatalf("GetResumePosition() error = %v", err)
	}
	if !ok || pos != 61.0 {
		t.Fatalf("GetResumePosition() = %v, %v, want 61.0, true", pos, ok)
	}

	if err := store.DeleteResumePosition("job-1", "client-a"); err != nil {
		t.Fatalf("DeleteResumePosition() error = %v", err)
	}
	if _, ok, _ := store.GetResumePosition("job-1", "client-a"); ok {
		t.Fatal("resume position survived delete")
	}
}

func TestSeedSampleOnlyWhenEmpty(t *testing.T) {
	store := newTestStore(t, true)

	seeded, err := store.SeedSample(inspection.Sample())
	if err != nil {
		t.Fatalf("SeedSample() error = %v", err)
	}
	if !seeded {
		t.Fatal("empty database should be seeded")
	}

	again, err := store.SeedSample(inspection.Sample())
	if err != nil {
		t.Fatalf("second SeedSample() error = %v", err)
	}
	if again {
		t.Fatal("non-empty database must not be reseeded")
	}

	obs, err := store.GetObservations()
	if err != nil {
		t.Fatalf("GetObservations() error = %v", err)
	}
	if len(obs) == 0 {
		t.Fatal("seeded observations missing")
	}
}
