package model

import (
	"strings"

	json "github.com/goccy/go-json"
)

// TechnicalParams carries the optional sizing and certification data supplied
// with a request. A nil pointer or empty string means "not supplied".
type TechnicalParams struct {
	PowerKW        *float64
	CertifiedCOP   *float64
	SurfaceM2      *float64
	ClimateZone    string
	Certifications []string
}

// Zone returns the normalized climate zone code, or "" if none was supplied.
func (p TechnicalParams) Zone() string {
	return strings.ToUpper(strings.TrimSpace(p.ClimateZone))
}

// HasCertifications reports whether any certification was supplied.
func (p TechnicalParams) HasCertifications() bool {
	return len(p.Certifications) > 0
}

// Float returns a pointer to v. Handy for building params in callers and tests.
func Float(v float64) *float64 { return &v }

// Admissibility is the tri-state eligibility outcome.
type Admissibility int

const (
	AdmissibilityUnknown Admissibility = iota
	Admissible
	NotAdmissible
)

// String returns the wire form of the outcome.
func (a Admissibility) String() string {
	switch a {
	case Admissible:
		return "admissible"
	case NotAdmissible:
		return "not_admissible"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the outcome as its string form.
func (a Admissibility) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}
