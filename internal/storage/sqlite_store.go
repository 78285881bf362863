package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/treefix50/pipeview/internal/inspection"
)

func (s *Store) SaveWorkOrders(orders []inspection.WorkOrder) (err error) {
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
		INSERT INTO work_orders (id, name, client, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			client=excluded.client,
			created_at=excluded.created_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, wo := range orders {
		_, err = stmt.Exec(wo.ID, wo.Name, nullString(wo.Client), wo.CreatedAt.Unix())
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) GetWorkOrders() ([]inspection.WorkOrder, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage: missing database connection")
	}

	rows, err := s.db.Query(`
		SELECT id, name, client, created_at
		FROM work_orders
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []inspection.WorkOrder
	for rows.Next() {
		var (
			wo      inspection.WorkOrder
			client  sql.NullString
			created int64
		)
		if err := rows.Scan(&wo.ID, &wo.Name, &client, &created); err != nil {
			return nil, err
		}
		wo.Client = client.String
		wo.CreatedAt = time.Unix(created, 0).UTC()
		orders = append(orders, wo)
	}
	return orders, rows.Err()
}

func (s *Store) SaveSections(sections []inspection.PipeSection) (err error) {
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
		INSERT INTO pipe_sections (id, name, upstream_manhole, downstream_manhole, material, diameter_mm, length_m)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			upstream_manhole=excluded.upstream_manhole,
			downstream_manhole=excluded.downstream_manhole,
			material=excluded.material,
			diameter_mm=excluded.diameter_mm,
			length_m=excluded.length_m
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, sec := range sections {
		_, err = stmt.Exec(
			sec.ID,
			sec.Name,
			nullString(sec.UpstreamManhole),
			nullString(sec.DownstreamManhole),
			nullString(sec.Material),
			nullInt(int64(sec.DiameterMM)),
			nullFloat(sec.LengthM),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) GetSections() ([]inspection.PipeSection, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage: missing database connection")
	}

	rows, err := s.db.Query(`
		SELECT id, name, upstream_manhole, downstream_manhole, material, diameter_mm, length_m
		FROM pipe_sections
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []inspection.PipeSection
	for rows.Next() {
		var (
			sec        inspection.PipeSection
			upstream   sql.NullString
			downstream sql.NullString
			material   sql.NullString
			diameter   sql.NullInt64
			length     sql.NullFloat64
		)
		if err := rows.Scan(&sec.ID, &sec.Name, &upstream, &downstream, &material, &diameter, &length); err != nil {
			return nil, err
		}
		sec.UpstreamManhole = upstream.String
		sec.DownstreamManhole = downstream.String
		sec.Material = material.String
		sec.DiameterMM = int(diameter.Int64)
		sec.LengthM = length.Float64
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}

func (s *Store) SaveJobs(jobs []inspection.Job) (err error) {
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
		INSERT INTO jobs (id, work_order_id, section_id, name, media_url, duration_seconds, status, inspected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			work_order_id=excluded.work_order_id,
			section_id=excluded.section_id,
			name=excluded.name,
			media_url=excluded.media_url,
			duration_seconds=excluded.duration_seconds,
			status=excluded.status,
			inspected_at=excluded.inspected_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, job := range jobs {
		_, err = stmt.Exec(
			job.ID,
			job.WorkOrderID,
			job.SectionID,
			job.Name,
			nullString(job.MediaURL),
			job.DurationSeconds,
			job.Status,
			job.InspectedAt.Unix(),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) GetJobs() ([]inspection.Job, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage: missing database connection")
	}

	rows, err := s.db.Query(`
		SELECT id, work_order_id, section_id, name, media_url, duration_seconds, status, inspected_at
		FROM jobs
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []inspection.Job
	for rows.Next() {
		var (
			job       inspection.Job
			mediaURL  sql.NullString
			inspected int64
		)
		if err := rows.Scan(&job.ID, &job.WorkOrderID, &job.SectionID, &job.Name, &mediaURL, &job.DurationSeconds, &job.Status, &inspected); err != nil {
			return nil, err
		}
		job.MediaURL = mediaURL.String
		job.InspectedAt = time.Unix(inspected, 0).UTC()
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (s *Store) CountJobs() (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("storage: missing database connection")
	}
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM jobs`).Scan(&count)
	return count, err
}

func nullString(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func nullInt(value int64) sql.NullInt64 {
	if value == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: value, Valid: true}
}

func nullFloat(value float64) sql.NullFloat64 {
	if value == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: value, Valid: true}
}
