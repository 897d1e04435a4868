// Package model contains domain models passed between layers.
package model

import "strings"

// Category is the regulatory intervention category an equipment description
// resolves to.
type Category string

// Supported intervention categories.
const (
	CategoryHeatPump            Category = "heat_pump"
	CategorySolarThermal        Category = "solar_thermal"
	CategoryBiomassBoiler       Category = "biomass_boiler"
	CategoryCondensingBoiler    Category = "condensing_boiler"
	CategoryNonCondensingBoiler Category = "non_condensing_boiler"
	CategoryDHWHeatPump         Category = "dhw_heat_pump"
	CategoryUnrecognized        Category = "unrecognized"
)

// Categories lists every category, Unrecognized last.
func Categories() []Category {
	return []Category{
		CategoryHeatPump,
		CategorySolarThermal,
		CategoryBiomassBoiler,
		CategoryCondensingBoiler,
		CategoryNonCondensingBoiler,
		CategoryDHWHeatPump,
		CategoryUnrecognized,
	}
}

// ParseCategory maps a category code to a Category.
func ParseCategory(code string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(code)))
	for _, known := range Categories() {
		if c == known {
			return c, true
		}
	}
	return CategoryUnrecognized, false
}

// String implements fmt.Stringer.
func (c Category) String() string { return string(c) }

// ApplicantType distinguishes private applicants from public administrations.
type ApplicantType string

const (
	ApplicantPrivate              ApplicantType = "private"
	ApplicantPublicAdministration ApplicantType = "public_administration"
)

// ParseApplicantType resolves free-form applicant labels. Anything that is
// not recognisably a public administration is treated as private.
func ParseApplicantType(s string) ApplicantType {
	switch normalizeLabel(s) {
	case "pa", "public_administration", "public administration", "pubblica amministrazione", "public":
		return ApplicantPublicAdministration
	default:
		return ApplicantPrivate
	}
}

// AccessProcedure is the administrative track used to file a request.
type AccessProcedure string

const (
	ProcedureDirect      AccessProcedure = "direct"
	ProcedureReservation AccessProcedure = "reservation"
)

// ParseAccessProcedure resolves free-form procedure labels, defaulting to
// direct access.
func ParseAccessProcedure(s string) AccessProcedure {
	switch normalizeLabel(s) {
	case "reservation", "prenotazione", "booking":
		return ProcedureReservation
	default:
		return ProcedureDirect
	}
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
