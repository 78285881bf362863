package inspection

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Store is the persistence surface the catalog loads from. Sample records
// live in the store; observations created during review stay in memory.
type Store interface {
	GetWorkOrders() ([]WorkOrder, error)
	GetSections() ([]PipeSection, error)
	GetJobs() ([]Job, error)
	GetObservations() ([]Observation, error)
	GetGraphPoints() (map[string][]GraphPoint, error)
	GetGeoPoints() (map[string][]GeoPoint, error)
}

// Catalog is the in-memory read layer for the job tree, gallery, graph, and
// geodata, loaded once from the store at startup.
type Catalog struct {
	mu           sync.RWMutex
	workOrders   map[string]WorkOrder
	sections     map[string]PipeSection
	jobs         map[string]Job
	observations map[string][]Observation // by job id, sorted by time
	graphs       map[string][]GraphPoint  // by job id
	geo          map[string][]GeoPoint    // by section id
}

func NewCatalog(store Store) (*Catalog, error) {
	c := &Catalog{
		workOrders:   map[string]WorkOrder{},
		sections:     map[string]PipeSection{},
		jobs:         map[string]Job{},
		observations: map[string][]Observation{},
		graphs:       map[string][]GraphPoint{},
		geo:          map[string][]GeoPoint{},
	}

	orders, err := store.GetWorkOrders()
	if err != nil {
		return nil, fmt.Errorf("catalog: load work orders: %w", err)
	}
	for _, wo := range orders {
		c.workOrders[wo.ID] = wo
	}

	sections, err := store.GetSections()
	if err != nil {
		return nil, fmt.Errorf("catalog: load sections: %w", err)
	}
	for _, sec := range sections {
		c.sections[sec.ID] = sec
	}

	jobs, err := store.GetJobs()
	if err != nil {
		return nil, fmt.Errorf("catalog: load jobs: %w", err)
	}
	for _, job := range jobs {
		c.jobs[job.ID] = job
	}

	obs, err := store.GetObservations()
	if err != nil {
		return nil, fmt.Errorf("catalog: load observations: %w", err)
	}
	for _, o := range obs {
		c.observations[o.JobID] = append(c.observations[o.JobID], o)
	}
	for id := range c.observations {
		sortObservations(c.observations[id])
	}

	if c.graphs, err = store.GetGraphPoints(); err != nil {
		return nil, fmt.Errorf("catalog: load graph points: %w", err)
	}
	if c.geo, err = store.GetGeoPoints(); err != nil {
		return nil, fmt.Errorf("catalog: load geo points: %w", err)
	}

	return c, nil
}

func sortObservations(obs []Observation) {
	sort.SliceStable(obs, func(i, j int) bool { return obs[i].Time < obs[j].Time })
}

// WorkOrders returns all work orders sorted by name.
func (c *Catalog) WorkOrders() []WorkOrder {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]WorkOrder, 0, len(c.workOrders))
	for _, wo := range c.workOrders {
		out = append(out, wo)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (c *Catalog) WorkOrder(id string) (WorkOrder, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	wo, ok := c.workOrders[id]
	return wo, ok
}

// JobsFor returns the jobs under a work order sorted by name.
func (c *Catalog) JobsFor(workOrderID string) []Job {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Job
	for _, job := range c.jobs {
		if job.WorkOrderID == workOrderID {
			out = append(out, job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (c *Catalog) Job(id string) (Job, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	job, ok := c.jobs[id]
	return job, ok
}

func (c *Catalog) Section(id string) (PipeSection, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sec, ok := c.sections[id]
	return sec, ok
}

// Observations returns the gallery entries for a job ordered by time.
func (c *Catalog) Observations(jobID string) []Observation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Observation(nil), c.observations[jobID]...)
}

// AddObservation appends a review-created observation. It lives in memory
// only; an empty id gets a fresh one. The stored copy is returned.
func (c *Catalog) AddObservation(o Observation) Observation {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.TimestampText == "" {
		o.TimestampText = FormatTimestamp(o.Time)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observations[o.JobID] = append(c.observations[o.JobID], o)
	sortObservations(c.observations[o.JobID])
	return o
}

// Graph returns the sensor trace for a job.
func (c *Catalog) Graph(jobID string) []GraphPoint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]GraphPoint(nil), c.graphs[jobID]...)
}

// Geo returns the pipe-run coordinates for a section.
func (c *Catalog) Geo(sectionID string) []GeoPoint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]GeoPoint(nil), c.geo[sectionID]...)
}
