package storage

import (
	"fmt"

	"github.com/treefix50/pipeview/internal/inspection"
)

// SeedSample loads the demo dataset into an empty database. A database that
// already has jobs is left untouched; the return value reports whether
// seeding happened.
func (s *Store) SeedSample(data inspection.SampleData) (bool, error) {
	count, err := s.CountJobs()
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if err := s.SaveWorkOrders(data.WorkOrders); err != nil {
		return false, fmt.Errorf("seed work orders: %w", err)
	}
	if err := s.SaveSections(data.Sections); err != nil {
		return false, fmt.Errorf("seed sections: %w", err)
	}
	if err := s.SaveJobs(data.Jobs); err != nil {
		return false, fmt.Errorf("seed jobs: %w", err)
	}
	if err := s.SaveObservations(data.Observations); err != nil {
		return false, fmt.Errorf("seed observations: %w", err)
	}
	for jobID, points := range data.Graphs {
		if err := s.SaveGraphPoints(jobID, points); err != nil {
			return false, fmt.Errorf("seed graph points for %s: %w", jobID, err)
		}
	}
	for sectionID, points := range data.Geo {
		if err := s.SaveGeoPoints(sectionID, points); err != nil {
			return false, fmt.Errorf("seed geo points for %s: %w", sectionID, err)
		}
	}

	return true, nil
}
