package server

import (
	"net/http"
	"strings"

	"github.com/treefix50/pipeview/internal/inspection"
)

func (s *Server) handleWorkOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.catalog.WorkOrders())
}

// workOrderTree is a work order with its jobs, as the tree browser consumes
// it.
type workOrderTree struct {
	inspection.WorkOrder
	Jobs []jobNode `json:"jobs"`
}

type jobNode struct {
	inspection.Job
	Section *inspection.PipeSection `json:"section,omitempty"`
}

// Routes under /workorders/{id}
func (s *Server) handleWorkOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/workorders/"), "/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	wo, ok := s.catalog.WorkOrder(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	tree := workOrderTree{WorkOrder: wo}
	for _, job := range s.catalog.JobsFor(id) {
		node := jobNode{Job: job}
		if sec, ok := s.catalog.Section(job.SectionID); ok {
			node.Section = &sec
		}
		tree.Jobs = append(tree.Jobs, node)
	}
	writeJSON(w, tree)
}

// Routes under /jobs/{id}[/{action}]
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/jobs/")
	parts := strings.Split(path, "/")
	if len(parts) < 1 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}

	id := parts[0]
	action := ""
	if len(parts) >= 2 {
		action = parts[1]
	}
	if len(parts) > 2 {
		http.NotFound(w, r)
		return
	}

	job, ok := s.catalog.Job(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch action {
	case "":
		node := jobNode{Job: job}
		if sec, ok := s.catalog.Section(job.SectionID); ok {
			node.Section = &sec
		}
		writeJSON(w, node)

	case "observations":
		writeJSON(w, s.catalog.Observations(id))

	case "graph":
		writeJSON(w, s.catalog.Graph(id))

	case "geodata":
		writeJSON(w, s.catalog.Geo(job.SectionID))

	default:
		http.NotFound(w, r)
	}
}
