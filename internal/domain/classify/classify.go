// Package classify maps free-form intervention descriptions to regulatory
// categories.
//
// Matching is a case-insensitive substring test against an ordered rule list;
// the first rule with a matching keyword wins. The order is part of the
// contract: negated condensing phrases are checked before the condensing
// keywords, and those before the bare "gas" keyword, so a gas boiler described
// as condensing resolves to CategoryCondensingBoiler.
package classify

import (
	"strings"

	"github.com/okian/termico/internal/domain/model"
)

// Rule pairs a keyword group with the category it selects.
type Rule struct {
	Keywords []string
	Category model.Category
}

// matches reports whether any keyword occurs in the lowercased text.
func (r Rule) matches(lower string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var rules = []Rule{
	{Keywords: []string{"scaldacqua", "water heater", "domestic hot water", "dhw"}, Category: model.CategoryDHWHeatPump},
	{Keywords: []string{"pompa di calore", "pompe di calore", "heat pump", "heat-pump", "heatpump"}, Category: model.CategoryHeatPump},
	{Keywords: []string{"solare", "solar"}, Category: model.CategorySolarThermal},
	{Keywords: []string{"biomassa", "pellet", "legna", "biomass"}, Category: model.CategoryBiomassBoiler},
	{Keywords: []string{"non condens", "non a condens", "non-condens", "noncondens"}, Category: model.CategoryNonCondensingBoiler},
	{Keywords: []string{"condensaz", "condensing", "condensante"}, Category: model.CategoryCondensingBoiler},
	{Keywords: []string{"gas"}, Category: model.CategoryNonCondensingBoiler},
	// "acs" is short enough to appear inside other phrases, so it goes last.
	{Keywords: []string{"acs"}, Category: model.CategoryDHWHeatPump},
}

// Classify returns the category for text, or CategoryUnrecognized when no rule
// matches. It never fails.
func Classify(text string) model.Category {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if r.matches(lower) {
			return r.Category
		}
	}
	return model.CategoryUnrecognized
}

// Rules returns a copy of the ordered rule list.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{Keywords: append([]string(nil), r.Keywords...), Category: r.Category}
	}
	return out
}
