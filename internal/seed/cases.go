// Package seed holds the sample case records used for demos and local runs.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/termico/internal/domain/casestatus"
)

// Saver persists case records.
type Saver interface {
	Save(ctx context.Context, rec casestatus.Record) error
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func f(v float64) *float64 { return &v }
func n(v int) *int         { return &v }

// SampleCases returns a fresh copy of the sample records.
func SampleCases() []casestatus.Record {
	return []casestatus.Record{
		{
			CaseCode:                 "CT-2024-001234",
			ApplicantType:            "private",
			ApplicantName:            "Mario Rossi",
			InterventionDescription:  "B.2 - Air-to-water heat pump",
			InstallationAddress:      "Via Roma 15, Milano (MI) - Zone E",
			WorkCompletedOn:          day(2024, time.March, 20),
			SubmittedOn:              day(2024, time.May, 10),
			Status:                   "Under review",
			PowerKW:                  f(12),
			EstimatedAnnualIncentive: f(1850),
			DurationYears:            n(5),
			EstimatedTotalIncentive:  f(9250),
			DocumentsPresent:         []string{"Technical description report", "Pre-installation photographs", "Post-installation photographs", "Invoices", "Component datasheets"},
			DocumentsMissing:         []string{"System declaration of conformity", "Post-intervention APE"},
			Notes:                    "Application received on 10/05/2024. Request for additional documents sent on 25/05/2024.",
			ResponsibleTechnician:    "Ing. Luigi Bianchi",
			EquipmentModel:           "Daikin Altherma 3 R ECH+O - 12 kW",
			CertifiedCOP:             f(3.4),
		},
		{
			CaseCode:                 "CT-2024-005678",
			ApplicantType:            "public_administration",
			ApplicantName:            "Comune di Bergamo",
			InterventionDescription:  "B.4 - Solar thermal",
			InstallationAddress:      "Piazza Vecchia 1, Bergamo (BG) - Zone E",
			WorkCompletedOn:          day(2024, time.January, 15),
			SubmittedOn:              day(2024, time.March, 1),
			Status:                   "Approved",
			SurfaceM2:                f(24.5),
			EstimatedAnnualIncentive: f(3200),
			DurationYears:            n(5),
			EstimatedTotalIncentive:  f(16000),
			DocumentsPresent:         []string{"Technical description report", "Pre-installation photographs", "Post-installation photographs", "Invoices", "Component datasheets", "System declaration of conformity", "Pre and post APE", "Solar Keymark"},
			DocumentsMissing:         []string{},
			Notes:                    "Application approved on 15/06/2024. Incentive paid from the approval date.",
			ResponsibleTechnician:    "Arch. Francesca Conti",
			EquipmentModel:           "Viessmann Vitosol 300-F - 24.5 m²",
		},
		{
			CaseCode:                 "CT-2023-009900",
			ApplicantType:            "private",
			ApplicantName:            "Azienda Agricola Martinelli Srl",
			InterventionDescription:  "B.5 - Biomass boiler (pellet)",
			InstallationAddress:      "Via Campagna 8, Brescia (BS) - Zone E",
			WorkCompletedOn:          day(2023, time.October, 5),
			SubmittedOn:              day(2023, time.November, 28),
			Status:                   "Rejected",
			PowerKW:                  f(85),
			EstimatedAnnualIncentive: f(4200),
			DurationYears:            n(5),
			EstimatedTotalIncentive:  f(21000),
			DocumentsPresent:         []string{"Technical description report", "Invoices", "Component datasheets"},
			DocumentsMissing:         []string{"Pre-installation photographs", "EN 303-5 emissions certificate", "System declaration of conformity"},
			Notes:                    "Rejected for missing EN 303-5 emissions certification and pre-installation photos. May be resubmitted with complete documentation.",
			ResponsibleTechnician:    "Per. Ind. Roberto Ferrara",
			EquipmentModel:           "Herz BioMatic 80 kW",
		},
		{
			CaseCode:                 "CT-2024-012345",
			ApplicantType:            "private",
			ApplicantName:            "Giulia Verdi",
			InterventionDescription:  "B.3 - Heat pump water heater",
			InstallationAddress:      "Via Garibaldi 22, Roma (RM) - Zone C",
			WorkCompletedOn:          day(2024, time.June, 1),
			Status:                   "Draft - not yet submitted",
			PowerKW:                  f(3),
			EstimatedAnnualIncentive: f(320),
			DurationYears:            n(2),
			EstimatedTotalIncentive:  f(640),
			DocumentsPresent:         []string{"Invoices", "Component datasheets"},
			DocumentsMissing:         []string{"Technical description report", "Pre-installation photographs", "Post-installation photographs", "System declaration of conformity"},
			Notes:                    "Submission deadline 30/07/2024 (60 days from work completion on 01/06/2024). Documentation must be completed urgently.",
			ResponsibleTechnician:    "Not assigned",
			EquipmentModel:           "Ariston Nuos Primo 80",
			CertifiedCOP:             f(3.1),
		},
	}
}

// Load saves every sample case into dst and returns how many were written.
func Load(ctx context.Context, dst Saver) (int, error) {
	recs := SampleCases()
	for i, r := range recs {
		if err := dst.Save(ctx, r); err != nil {
			return i, fmt.Errorf("seed %s: %w", r.CaseCode, err)
		}
	}
	return len(recs), nil
}
