package inspection

import "time"

// SampleData is the hard-coded demo dataset seeded into an empty store.
type SampleData struct {
	WorkOrders   []WorkOrder
	Sections     []PipeSection
	Jobs         []Job
	Observations []Observation
	Graphs       map[string][]GraphPoint
	Geo          map[string][]GeoPoint
}

// Sample returns the demo work order with two inspected sections.
func Sample() SampleData {
	created := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)

	graph1 := make([]GraphPoint, 0, 25)
	for i := 0; i <= 24; i++ {
		t := float64(i) * 10
		// Gentle downstream slope with a sag around the midpoint.
		value := 102.4 - 0.012*t
		if i >= 10 && i <= 14 {
			value -= 0.35
		}
		graph1 = append(graph1, GraphPoint{Time: t, Value: value})
	}

	graph2 := make([]GraphPoint, 0, 19)
	for i := 0; i <= 18; i++ {
		t := float64(i) * 10
		graph2 = append(graph2, GraphPoint{Time: t, Value: 98.7 - 0.008*t})
	}

	return SampleData{
		WorkOrders: []WorkOrder{
			{ID: "wo-2026-0142", Name: "Elm Street Trunk Survey", Client: "City of Riverton", CreatedAt: created},
		},
		Sections: []PipeSection{
			{
				ID: "sec-mh12-mh13", Name: "MH-12 → MH-13",
				UpstreamManhole: "MH-12", DownstreamManhole: "MH-13",
				Material: "VCP", DiameterMM: 300, LengthM: 86.4,
			},
			{
				ID: "sec-mh13-mh14", Name: "MH-13 → MH-14",
				UpstreamManhole: "MH-13", DownstreamManhole: "MH-14",
				Material: "PVC", DiameterMM: 250, LengthM: 64.0,
			},
		},
		Jobs: []Job{
			{
				ID: "job-0142-01", WorkOrderID: "wo-2026-0142", SectionID: "sec-mh12-mh13",
				Name: "Run 1: MH-12 → MH-13", MediaURL: "https://player.example/embed/ins-0142-01",
				DurationSeconds: 240, Status: "in-review",
				InspectedAt: created.Add(2 * time.Hour),
			},
			{
				ID: "job-0142-02", WorkOrderID: "wo-2026-0142", SectionID: "sec-mh13-mh14",
				Name: "Run 2: MH-13 → MH-14", MediaURL: "https://player.example/embed/ins-0142-02",
				DurationSeconds: 180, Status: "pending",
				InspectedAt: created.Add(4 * time.Hour),
			},
		},
		Observations: []Observation{
			{
				ID: "obs-0142-01-a", JobID: "job-0142-01", Time: 34,
				Title: "Crack (C) — Circumferential (C)", Subtitle: "CC at 3 o'clock",
				TimestampText: "00:00:34", ThumbnailRef: "thumbs/job-0142-01/034.jpg",
			},
			{
				ID: "obs-0142-01-b", JobID: "job-0142-01", Time: 118,
				Title: "Roots (R) — Fine (F)", Subtitle: "RF at 12 o'clock",
				TimestampText: "00:01:58", ThumbnailRef: "thumbs/job-0142-01/118.jpg",
			},
			{
				ID: "obs-0142-01-c", JobID: "job-0142-01", Time: 201,
				Title: "Deposits Attached (DA) — Grease (GS)", Subtitle: "DAGS at 9 o'clock",
				TimestampText: "00:03:21", ThumbnailRef: "thumbs/job-0142-01/201.jpg",
			},
		},
		Graphs: map[string][]GraphPoint{
			"job-0142-01": graph1,
			"job-0142-02": graph2,
		},
		Geo: map[string][]GeoPoint{
			"sec-mh12-mh13": {
				{Seq: 0, Lat: 44.04621, Lon: -123.08871},
				{Seq: 1, Lat: 44.04639, Lon: -123.08812},
				{Seq: 2, Lat: 44.04655, Lon: -123.08756},
			},
			"sec-mh13-mh14": {
				{Seq: 0, Lat: 44.04655, Lon: -123.08756},
				{Seq: 1, Lat: 44.04668, Lon: -123.08701},
			},
		},
	}
}
