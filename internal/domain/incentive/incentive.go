// Package incentive computes indicative Conto Termico amounts from the
// reference rate table.
package incentive

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/okian/termico/internal/domain/model"
	"github.com/okian/termico/internal/domain/refdata"
)

// Estimate is an indicative incentive. AnnualAmount and TotalAmount are nil
// when the sizing parameter the rate needs was not supplied or is not a
// finite number. TotalAmount is rounded to the cent independently of
// AnnualAmount, so it may differ by a cent from AnnualAmount times
// DurationYears.
type Estimate struct {
	Category         model.Category
	ApplicantType    model.ApplicantType
	AnnualAmount     *decimal.Decimal
	TotalAmount      *decimal.Decimal
	DurationYears    int
	ComputationBasis string
	Caveat           string
	Warnings         []string
}

// Computed reports whether the estimate carries amounts.
func (e Estimate) Computed() bool { return e.AnnualAmount != nil }

// Estimator computes estimates against a reference table.
type Estimator struct {
	ref *refdata.Table
}

// New returns an Estimator over ref; a nil ref selects the embedded table.
func New(ref *refdata.Table) *Estimator {
	if ref == nil {
		ref = refdata.Default()
	}
	return &Estimator{ref: ref}
}

// Estimate computes the incentive for category. It fails only when the
// category has no rate entry; missing sizing yields an estimate without
// amounts.
func (e *Estimator) Estimate(category model.Category, params model.TechnicalParams, applicant model.ApplicantType) (Estimate, error) {
	rate, ok := e.ref.Rate(category)
	if !ok {
		return Estimate{}, &EstimationError{Category: category, Err: ErrUnrecognizedCategory}
	}

	mult := decimal.NewFromInt(1)
	if applicant == model.ApplicantPublicAdministration {
		mult = e.ref.PublicAdministrationMultiplier()
	}

	out := Estimate{
		Category:      category,
		ApplicantType: applicant,
		DurationYears: rate.DurationYears,
		Caveat:        e.ref.Caveat(),
		Warnings:      []string{},
	}

	var size *float64
	switch rate.Unit {
	case refdata.UnitM2:
		size = params.SurfaceM2
	case refdata.UnitKW:
		size = params.PowerKW
	}
	if size != nil && (math.IsNaN(*size) || math.IsInf(*size, 0)) {
		size = nil
	}

	if rate.Unit != refdata.UnitFixed && size == nil {
		out.ComputationBasis = fmt.Sprintf("%s. %s", formula(rate, mult), missingHint(rate.Unit))
		return out, nil
	}

	annual := rate.RatePerUnit.Mul(mult)
	if rate.Unit != refdata.UnitFixed {
		annual = annual.Mul(decimal.NewFromFloat(*size))
		out.Warnings = sizingWarnings(rate, *size)
	}
	total := annual.Mul(decimal.NewFromInt(int64(rate.DurationYears)))

	a, t := annual.Round(2), total.Round(2)
	out.AnnualAmount = &a
	out.TotalAmount = &t
	out.ComputationBasis = basis(rate, mult, size, a, t)
	return out, nil
}

func unitLabel(u refdata.Unit) string {
	switch u {
	case refdata.UnitKW:
		return "kW"
	case refdata.UnitM2:
		return "m²"
	default:
		return "unit"
	}
}

func multLabel(mult decimal.Decimal) string {
	if mult.Equal(decimal.NewFromInt(1)) {
		return ""
	}
	return fmt.Sprintf(" × %s (public administration)", mult.String())
}

func formula(r refdata.RateEntry, mult decimal.Decimal) string {
	if r.Unit == refdata.UnitFixed {
		return fmt.Sprintf("€%s/year fixed%s × %d years", r.RatePerUnit.StringFixed(2), multLabel(mult), r.DurationYears)
	}
	return fmt.Sprintf("€%s/%s/year × %s%s × %d years",
		r.RatePerUnit.StringFixed(2), unitLabel(r.Unit), unitLabel(r.Unit), multLabel(mult), r.DurationYears)
}

func basis(r refdata.RateEntry, mult decimal.Decimal, size *float64, annual, total decimal.Decimal) string {
	if r.Unit == refdata.UnitFixed {
		return fmt.Sprintf("€%s/year fixed%s = €%s/year; × %d years = €%s",
			r.RatePerUnit.StringFixed(2), multLabel(mult), annual.StringFixed(2), r.DurationYears, total.StringFixed(2))
	}
	return fmt.Sprintf("€%s/%s/year × %s %s%s = €%s/year; × %d years = €%s",
		r.RatePerUnit.StringFixed(2), unitLabel(r.Unit),
		decimal.NewFromFloat(*size).String(), unitLabel(r.Unit), multLabel(mult),
		annual.StringFixed(2), r.DurationYears, total.StringFixed(2))
}

func missingHint(u refdata.Unit) string {
	if u == refdata.UnitM2 {
		return "Provide the gross collector surface in m² for a precise estimate."
	}
	return "Provide the rated power in kW for a precise estimate."
}

func sizingWarnings(r refdata.RateEntry, size float64) []string {
	w := []string{}
	if r.MinUnit != nil && size < *r.MinUnit {
		w = append(w, fmt.Sprintf("Size %s %s is below the %s %s minimum for this intervention",
			decimal.NewFromFloat(size).String(), unitLabel(r.Unit), decimal.NewFromFloat(*r.MinUnit).String(), unitLabel(r.Unit)))
	}
	if r.MaxUnit != nil && size > *r.MaxUnit {
		w = append(w, fmt.Sprintf("Size %s %s exceeds the %s %s maximum for this intervention",
			decimal.NewFromFloat(size).String(), unitLabel(r.Unit), decimal.NewFromFloat(*r.MaxUnit).String(), unitLabel(r.Unit)))
	}
	return w
}
