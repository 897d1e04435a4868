// Package loadcheck drives concurrent estimate requests against a running
// server and verifies every answer against the local rule engine.
package loadcheck

import "time"

// Config holds configuration for a load check run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Requests int           // Number of estimate requests to send
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Seed     uint64        // Seed for the request generator
	Verbose  bool          // Log every mismatch
}

// Probe is one generated estimate request.
type Probe struct {
	ID            string   `json:"-"`
	Intervention  string   `json:"intervention"`
	ApplicantType string   `json:"applicant_type"`
	PowerKW       *float64 `json:"power_kw,omitempty"`
	SurfaceM2     *float64 `json:"surface_m2,omitempty"`
}

// Stats holds run statistics.
type Stats struct {
	Generated  int
	Sent       int
	Matched    int
	Mismatched int
	Failed     int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}
