// Package eligibility evaluates whether an intervention category, with the
// technical parameters supplied so far, qualifies for the incentive.
//
// Evaluation is total: absent parameters never fail, they leave the verdict
// optimistic and add a recommendation to supply them.
package eligibility

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/termico/internal/domain/model"
	"github.com/okian/termico/internal/domain/refdata"
)

const (
	maxHeatPumpPowerKW = 2000.0
	minSolarSurfaceM2  = 1.5
)

// Verdict is the result of one evaluation. A Verdict is built once and not
// modified afterwards.
type Verdict struct {
	Category            model.Category      `json:"category"`
	Admissible          model.Admissibility `json:"admissible"`
	Rationale           string              `json:"rationale"`
	MissingRequirements []string            `json:"missing_requirements"`
	Recommendations     []string            `json:"recommendations"`
	SubtypeCode         string              `json:"subtype_code,omitempty"`
	DurationYears       int                 `json:"incentive_duration_years"`
}

// Evaluator applies the per-category admissibility policy.
type Evaluator struct {
	ref *refdata.Table
}

// New returns an Evaluator over ref; a nil ref selects the embedded table.
func New(ref *refdata.Table) *Evaluator {
	if ref == nil {
		ref = refdata.Default()
	}
	return &Evaluator{ref: ref}
}

// Evaluate returns the verdict for category given params.
func (e *Evaluator) Evaluate(category model.Category, params model.TechnicalParams) Verdict {
	v := Verdict{
		Category:            category,
		MissingRequirements: []string{},
		Recommendations:     []string{},
		SubtypeCode:         e.ref.SubtypeCode(category),
		DurationYears:       e.ref.DurationYears(category),
	}

	switch category {
	case model.CategoryHeatPump:
		e.heatPump(&v, params)
	case model.CategorySolarThermal:
		solarThermal(&v, params)
	case model.CategoryBiomassBoiler:
		v.Admissible = model.Admissible
		v.Rationale = fmt.Sprintf("Biomass boiler admissible (type %s). Verify the EN 303-5 emissions certification.", v.SubtypeCode)
		v.MissingRequirements = append(v.MissingRequirements, "EN 303-5 emissions certificate (mandatory)")
	case model.CategoryNonCondensingBoiler:
		v.Admissible = model.NotAdmissible
		v.Rationale = "Non-condensing gas boilers are not among the interventions eligible for Conto Termico 2.0."
	case model.CategoryCondensingBoiler:
		v.Admissible = model.Admissible
		v.Rationale = fmt.Sprintf("Condensing boiler admissible (type %s). Incentive duration: %d years.", v.SubtypeCode, v.DurationYears)
	case model.CategoryDHWHeatPump:
		v.Admissible = model.Admissible
		v.Rationale = fmt.Sprintf("Heat pump water heater admissible (type %s).", v.SubtypeCode)
	default:
		v.Category = model.CategoryUnrecognized
		v.Admissible = model.AdmissibilityUnknown
		v.Rationale = "Intervention type not recognized. Consult DM 16/02/2016 for the correct classification."
	}
	return v
}

func (e *Evaluator) heatPump(v *Verdict, p model.TechnicalParams) {
	var problems []string
	zone := p.Zone()

	switch {
	case p.CertifiedCOP != nil && zone != "":
		threshold, _ := e.ref.MinCOP(zone)
		cop := *p.CertifiedCOP
		if cop >= threshold {
			v.Admissible = model.Admissible
			v.Rationale = fmt.Sprintf("COP %s ≥ minimum threshold %s for zone %s.", num(cop), num(threshold), zone)
		} else {
			problems = append(problems, fmt.Sprintf("COP %s < minimum threshold %s for zone %s", num(cop), num(threshold), zone))
		}
	case p.CertifiedCOP != nil:
		v.Recommendations = append(v.Recommendations, "Specify the climate zone for a precise check of the minimum COP")
	case zone != "":
		v.Recommendations = append(v.Recommendations, "Provide the certified COP to verify it against the zone threshold")
	default:
		v.Recommendations = append(v.Recommendations, "Provide the certified COP and the climate zone for a precise check")
	}

	if p.PowerKW != nil && *p.PowerKW > maxHeatPumpPowerKW {
		problems = append(problems, fmt.Sprintf("Power %s kW exceeds the maximum limit of 2,000 kW", num(*p.PowerKW)))
	}

	if p.HasCertifications() {
		if !anyContains(p.Certifications, "ehpa", "en 14511") {
			v.MissingRequirements = append(v.MissingRequirements, "EHPA certification or EN 14511 test required")
		}
	} else {
		v.MissingRequirements = append(v.MissingRequirements, "Verify EHPA or EN 14511 certification is present")
	}

	if len(problems) > 0 {
		v.Admissible = model.NotAdmissible
		v.Rationale = "Not admissible: " + strings.Join(problems, "; ")
		return
	}
	if v.Admissible == model.AdmissibilityUnknown {
		v.Admissible = model.Admissible
		v.Rationale = "Category compatible with Conto Termico 2.0. Verify COP and certifications."
	}
}

func solarThermal(v *Verdict, p model.TechnicalParams) {
	switch {
	case p.SurfaceM2 != nil && *p.SurfaceM2 < minSolarSurfaceM2:
		v.Admissible = model.NotAdmissible
		v.Rationale = fmt.Sprintf("Surface %s m² < 1.5 m² minimum.", num(*p.SurfaceM2))
	default:
		v.Admissible = model.Admissible
		v.Rationale = "Solar thermal admissible. Verify Solar Keymark certification."
	}
	if p.SurfaceM2 == nil {
		v.Recommendations = append(v.Recommendations, "Provide the gross collector surface in m² to confirm the 1.5 m² minimum")
	}

	if p.HasCertifications() {
		if !anyContains(p.Certifications, "solar keymark", "en 12975") {
			v.MissingRequirements = append(v.MissingRequirements, "Solar Keymark certification required")
		}
	} else {
		v.MissingRequirements = append(v.MissingRequirements, "Verify Solar Keymark or equivalent (EN 12975) certification is present")
	}
}

// anyContains reports whether some item contains one of the needles,
// case-insensitively.
func anyContains(items []string, needles ...string) bool {
	for _, it := range items {
		lower := strings.ToLower(it)
		for _, n := range needles {
			if strings.Contains(lower, n) {
				return true
			}
		}
	}
	return false
}

// num renders a float without trailing zeros (3 -> "3", 2.75 -> "2.75").
func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
