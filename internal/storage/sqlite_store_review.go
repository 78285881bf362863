package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/treefix50/pipeview/internal/inspection"
)

func (s *Store) SaveObservations(obs []inspection.Observation) (err error) {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage: missing database connection")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO observations (id, job_id, time, title, subtitle, timestamp_text, thumbnail_ref)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			job_id=excluded.job_id,
			time=excluded.time,
			title=excluded.title,
			subtitle=excluded.subtitle,
			timestamp_text=excluded.timestamp_text,
			thumbnail_ref=excluded.thumbnail_ref
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range obs {
		_, err = stmt.Exec(
			o.ID,
			o.JobID,
			o.Time,
			o.Title,
			nullString(o.Subtitle),
			nullString(o.TimestampText),
			nullString(o.ThumbnailRef),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) GetObservations() ([]inspection.Observation, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage: missing database connection")
	}

	rows, err := s.db.Query(`
		SELECT id, job_id, time, title, subtitle, timestamp_text, thumbnail_ref
		FROM observations
		ORDER BY job_id, time
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var obs []inspection.Observation
	for rows.Next() {
		var (
			o         inspection.Observation
			subtitle  sql.NullString
			tsText    sql.NullString
			thumbnail sql.NullString
		)
		if err := rows.Scan(&o.ID, &o.JobID, &o.Time, &o.Title, &subtitle, &tsText, &thumbnail); err != nil {
			return nil, err
		}
		o.Subtitle = subtitle.String
		o.TimestampText = tsText.String
		o.ThumbnailRef = thumbnail.String
		obs = append(obs, o)
	}
	return obs, rows.Err()
}

func (s *Store) SaveGraphPoints(jobID string, points []inspection.GraphPoint) (err error) {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage: missing database connection")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM graph_points WHERE job_id = ?`, jobID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO graph_points (job_id, seq, time, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range points {
		if _, err = stmt.Exec(jobID, i, p.Time, p.Value); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) GetGraphPoints() (map[string][]inspection.GraphPoint, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage: missing database connection")
	}

	rows, err := s.db.Query(`
		SELECT job_id, time, value
		FROM graph_points
		ORDER BY job_id, seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]inspection.GraphPoint{}
	for rows.Next() {
		var (
			jobID string
			p     inspection.GraphPoint
		)
		if err := rows.Scan(&jobID, &p.Time, &p.Value); err != nil {
			return nil, err
		}
		out[jobID] = append(out[jobID], p)
	}
	return out, rows.Err()
}

func (s *Store) SaveGeoPoints(sectionID string, points []inspection.GeoPoint) (err error) {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage: missing database connection")
	}

	sorted := append([]inspection.GeoPoint(nil), points...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Seq < sorted[j].Seq })

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM geo_points WHERE section_id = ?`, sectionID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO geo_points (section_id, seq, lat, lon) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range sorted {
		if _, err = stmt.Exec(sectionID, p.Seq, p.Lat, p.Lon); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) GetGeoPoints() (map[string][]inspection.GeoPoint, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage: missing database connection")
	}

	rows, err := s.db.Query(`
		SELECT section_id, seq, lat, lon
		FROM geo_points
		ORDER BY section_id, seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]inspection.GeoPoint{}
	for rows.Next() {
		var (
			sectionID string
			p         inspection.GeoPoint
		)
		if err := rows.Scan(&sectionID, &p.Seq, &p.Lat, &p.Lon); err != nil {
			return nil, err
		}
		out[sectionID] = append(out[sectionID], p)
	}
	return out, rows.Err()
}

// UpsertResumePosition saves where a client left off in a job's recording.
func (s *Store) UpsertResumePosition(jobID, clientID string, position, duration float64) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage: missing database connection")
	}
	if position < 0 {
		position = 0
	}

	_, err := s.db.Exec(`
		INSERT INTO resume_positions (job_id, client_id, position_seconds, duration_seconds, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(job_id, client_id) DO UPDATE SET
			position_seconds=excluded.position_seconds,
			duration_seconds=excluded.duration_seconds,
			updated_at=excluded.updated_at
	`, jobID, clientID, position, duration, time.Now().Unix())
	return err
}

func (s *Store) GetResumePosition(jobID, clientID string) (float64, bool, error) {
	if s == nil || s.db == nil {
		return 0, false, fmt.Errorf("storage: missing database connection")
	}

	var position float64
	err := s.db.QueryRow(`
		SELECT position_seconds
		FROM resume_positions
		WHERE job_id = ? AND client_id = ?
	`, jobID, clientID).Scan(&position)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, err
	}
	return position, true, nil
}

func (s *Store) DeleteResumePosition(jobID, clientID string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage: missing database connection")
	}
	_, err := s.db.Exec(`DELETE FROM resume_positions WHERE job_id = ? AND client_id = ?`, jobID, clientID)
	return err
}
