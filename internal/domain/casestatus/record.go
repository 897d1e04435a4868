package casestatus

import (
	"context"
	"time"
)

// Record is one filed incentive application as held by the record store.
type Record struct {
	CaseCode                 string     `json:"case_code"`
	ApplicantType            string     `json:"applicant_type"`
	ApplicantName            string     `json:"applicant_name,omitempty"`
	InterventionDescription  string     `json:"intervention_description"`
	InstallationAddress      string     `json:"installation_address,omitempty"`
	WorkCompletedOn          *time.Time `json:"work_completed_on,omitempty"`
	SubmittedOn              *time.Time `json:"submitted_on,omitempty"`
	Status                   string     `json:"filing_status"`
	PowerKW                  *float64   `json:"power_kw,omitempty"`
	SurfaceM2                *float64   `json:"surface_m2,omitempty"`
	EstimatedAnnualIncentive *float64   `json:"estimated_annual_incentive,omitempty"`
	DurationYears            *int       `json:"duration_years,omitempty"`
	EstimatedTotalIncentive  *float64   `json:"estimated_total_incentive,omitempty"`
	DocumentsPresent         []string   `json:"documents_present"`
	DocumentsMissing         []string   `json:"documents_missing"`
	Notes                    string     `json:"notes,omitempty"`
	ResponsibleTechnician    string     `json:"responsible_technician,omitempty"`
	EquipmentModel           string     `json:"equipment_model,omitempty"`
	CertifiedCOP             *float64   `json:"certified_cop,omitempty"`
}

// Store finds at most one record by exact case code. Implementations
// return an error matching ErrNotFound when no record exists.
type Store interface {
	FindByCaseCode(ctx context.Context, code string) (Record, error)
}
