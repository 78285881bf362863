package inspection

import (
	"fmt"
	"time"
)

// WorkOrder groups the inspection jobs commissioned together.
type WorkOrder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Client    string    `json:"client,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PipeSection is the physical pipe run a job inspected.
type PipeSection struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	UpstreamManhole   string  `json:"upstreamManhole"`
	DownstreamManhole string  `json:"downstreamManhole"`
	Material          string  `json:"material,omitempty"`
	DiameterMM        int     `json:"diameterMm,omitempty"`
	LengthM           float64 `json:"lengthM,omitempty"`
}

// Job is one inspection run: a section, its recording, and review status.
type Job struct {
	ID              string    `json:"id"`
	WorkOrderID     string    `json:"workOrderId"`
	SectionID       string    `json:"sectionId"`
	Name            string    `json:"name"`
	MediaURL        string    `json:"mediaUrl,omitempty"`
	DurationSeconds float64   `json:"durationSeconds"`
	Status          string    `json:"status"`
	InspectedAt     time.Time `json:"inspectedAt"`
}

// Observation is one coded finding on a job's timeline.
type Observation struct {
	ID            string  `json:"id"`
	JobID         string  `json:"jobId"`
	Time          float64 `json:"time"`
	Title         string  `json:"title"`
	Subtitle      string  `json:"subtitle,omitempty"`
	TimestampText string  `json:"timestampText"`
	ThumbnailRef  string  `json:"thumbnailRef,omitempty"`
}

// GraphPoint is one sample of a job's sensor trace, ordered by time.
type GraphPoint struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// GeoPoint is one coordinate of a section's pipe run, ordered by Seq.
type GeoPoint struct {
	Seq int     `json:"seq"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// FormatTimestamp renders whole seconds as hh:mm:ss for gallery labels.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
