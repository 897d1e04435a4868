// Package refdata holds the versioned, read-only reference tables the rule
// engine evaluates against: incentive rates, COP thresholds per climate zone,
// document requirements and submission deadlines.
//
// Tables are loaded once (from the embedded default or an override file) and
// are never mutated afterwards; accessors hand out copies so callers cannot
// alter shared state.
package refdata

import (
	"github.com/shopspring/decimal"

	"github.com/okian/termico/internal/domain/model"
)

// Unit is the sizing unit a rate applies to.
type Unit string

const (
	UnitKW    Unit = "kw"
	UnitM2    Unit = "m2"
	UnitFixed Unit = "fixed"
)

// RateEntry is one row of the incentive rate table.
type RateEntry struct {
	Category      model.Category
	SubtypeCode   string
	Unit          Unit
	RatePerUnit   decimal.Decimal
	DurationYears int
	MinUnit       *float64
	MaxUnit       *float64
}

// Document is a single required document.
type Document struct {
	Name      string `json:"name"`
	Mandatory bool   `json:"mandatory"`
	Note      string `json:"note,omitempty"`
}

// Table is the immutable reference data set.
type Table struct {
	version       string
	defaultMinCOP float64
	minCOP        map[string]float64
	paMultiplier  decimal.Decimal
	caveat        string
	rates         map[model.Category]RateEntry
	baseDocs      []Document
	categoryDocs  map[model.Category][]Document
	paDocs        []Document
	reservation   []Document
	deadlines     map[model.AccessProcedure]string
}

// Version identifies the loaded table set.
func (t *Table) Version() string { return t.version }

// MinCOP returns the minimum COP for a climate zone. Unknown or empty zones
// fall back to the default threshold.
func (t *Table) MinCOP(zone string) (threshold float64, known bool) {
	if v, ok := t.minCOP[zone]; ok {
		return v, true
	}
	return t.defaultMinCOP, false
}

// PublicAdministrationMultiplier is applied to unit rates for PA applicants.
func (t *Table) PublicAdministrationMultiplier() decimal.Decimal { return t.paMultiplier }

// Caveat is the fixed disclaimer attached to every estimate.
func (t *Table) Caveat() string { return t.caveat }

// Rate returns the rate entry for a category.
func (t *Table) Rate(c model.Category) (RateEntry, bool) {
	r, ok := t.rates[c]
	if !ok {
		return RateEntry{}, false
	}
	return r.clone(), true
}

// SubtypeCode returns the regulatory subtype code (e.g. "B.2") for a category.
func (t *Table) SubtypeCode(c model.Category) string {
	return t.rates[c].SubtypeCode
}

// DurationYears returns the incentive duration for a category, 0 if none.
func (t *Table) DurationYears(c model.Category) int {
	return t.rates[c].DurationYears
}

// BaseDocuments returns the documents required for every category.
func (t *Table) BaseDocuments() []Document { return cloneDocs(t.baseDocs) }

// CategoryDocuments returns the category-specific documents (possibly empty).
func (t *Table) CategoryDocuments(c model.Category) []Document {
	return cloneDocs(t.categoryDocs[c])
}

// PublicAdministrationDocuments returns the extra PA documents.
func (t *Table) PublicAdministrationDocuments() []Document { return cloneDocs(t.paDocs) }

// ReservationDocuments returns the extra reservation-procedure documents.
func (t *Table) ReservationDocuments() []Document { return cloneDocs(t.reservation) }

// Deadline returns the submission deadline text for a procedure.
func (t *Table) Deadline(p model.AccessProcedure) string { return t.deadlines[p] }

func (r RateEntry) clone() RateEntry {
	out := r
	if r.MinUnit != nil {
		out.MinUnit = model.Float(*r.MinUnit)
	}
	if r.MaxUnit != nil {
		out.MaxUnit = model.Float(*r.MaxUnit)
	}
	return out
}

func cloneDocs(in []Document) []Document {
	out := make([]Document, len(in))
	copy(out, in)
	return out
}
