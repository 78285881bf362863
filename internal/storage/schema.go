package storage

import "fmt"

const schemaWorkOrders = `
CREATE TABLE IF NOT EXISTS work_orders (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	client TEXT,
	created_at INTEGER NOT NULL
);`

const schemaPipeSections = `
CREATE TABLE IF NOT EXISTS pipe_sections (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	upstream_manhole TEXT,
	downstream_manhole TEXT,
	material TEXT,
	diameter_mm INTEGER CHECK (diameter_mm IS NULL OR diameter_mm > 0),
	length_m REAL CHECK (length_m IS NULL OR length_m >= 0)
);`

const schemaJobs = `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	work_order_id TEXT NOT NULL,
	section_id TEXT NOT NULL,
	name TEXT NOT NULL,
	media_url TEXT,
	duration_seconds REAL NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	inspected_at INTEGER NOT NULL,
	FOREIGN KEY (work_order_id) REFERENCES work_orders(id) ON DELETE CASCADE,
	FOREIGN KEY (section_id) REFERENCES pipe_sections(id)
);`

const schemaJobsIndexes = `
CREATE INDEX IF NOT EXISTS idx_jobs_work_order ON jobs(work_order_id);
CREATE INDEX IF NOT EXISTS idx_jobs_section ON jobs(section_id);
`

const schemaObservations = `
CREATE TABLE IF NOT EXISTS observations (
	id TEXT PRIMARY KEY,
	job_id TEXT NOT NULL,
	time REAL NOT NULL CHECK (time >= 0),
	title TEXT NOT NULL,
	subtitle TEXT,
	timestamp_text TEXT,
	thumbnail_ref TEXT,
	FOREIGN KEY (job_id) REFERENCES jobs(id) ON DELETE CASCADE
);`

const schemaObservationsIndexes = `
CREATE INDEX IF NOT EXISTS idx_observations_job_time ON observations(job_id, time);`

const schemaGraphPoints = `
CREATE TABLE IF NOT EXISTS graph_points (
	job_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	time REAL NOT NULL,
	value REAL NOT NULL,
	PRIMARY KEY (job_id, seq),
	FOREIGN KEY (job_id) REFERENCES jobs(id) ON DELETE CASCADE
);`

const schemaGeoPoints = `
CREATE TABLE IF NOT EXISTS geo_points (
	section_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	lat REAL NOT NULL,
	lon REAL NOT NULL,
	PRIMARY KEY (section_id, seq),
	FOREIGN KEY (section_id) REFERENCES pipe_sections(id) ON DELETE CASCADE
);`

const schemaResumePositions = `
CREATE TABLE IF NOT EXISTS resume_positions (
	job_id TEXT NOT NULL,
	client_id TEXT NOT NULL DEFAULT '',
	position_seconds REAL NOT NULL,
	duration_seconds REAL NOT NULL DEFAULT 0,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (job_id, client_id),
	FOREIGN KEY (job_id) REFERENCES jobs(id) ON DELETE CASCADE
);`

const schemaResumePositionsIndexes = `
CREATE INDEX IF NOT EXISTS idx_resume_positions_updated ON resume_positions(updated_at DESC);`

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY
);`

type migration struct {
	version    int
	statements []string
}

var migrations = []migration{
	{
		version: 1,
		statements: []string{
			schemaWorkOrders,
			schemaPipeSections,
			schemaJobs,
			schemaJobsIndexes,
			schemaObservations,
			schemaObservationsIndexes,
			schemaGraphPoints,
			schemaGeoPoints,
		},
	},
	{
		version: 2,
		statements: []string{
			schemaResumePositions,
			schemaResumePositionsIndexes,
		},
	},
}

// EnsureSchema brings the database up to the current schema version.
func (s *Store) EnsureSchema() error {
	return s.MigrateSchema()
}

func (s *Store) MigrateSchema() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage: missing database connection")
	}

	if _, err := s.db.Exec(schemaMigrationsTable); err != nil {
		return fmt.Errorf("storage: create schema_migrations: %w", err)
	}

	applied := map[int]bool{}
	rows, err := s.db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return err
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		for _, stmt := range m.statements {
			if _, err := tx.Exec(stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("storage: migration %d: %w", m.version, err)
			}
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("storage: record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}
