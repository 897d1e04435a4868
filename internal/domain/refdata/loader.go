package refdata

import (
	"context"
	_ "embed"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"github.com/okian/termico/internal/domain/model"
)

//go:embed reference.yaml
var embeddedReference []byte

// raw mirrors reference.yaml.
type raw struct {
	Version      string `koanf:"version"`
	ClimateZones struct {
		DefaultMinCOP float64            `koanf:"default_min_cop"`
		MinCOP        map[string]float64 `koanf:"min_cop"`
	} `koanf:"climate_zones"`
	PAMultiplier float64   `koanf:"public_administration_multiplier"`
	Caveat       string    `koanf:"caveat"`
	Rates        []rawRate `koanf:"rates"`
	Documents    struct {
		Base                 []rawDocument            `koanf:"base"`
		ByCategory           map[string][]rawDocument `koanf:"by_category"`
		PublicAdministration []rawDocument            `koanf:"public_administration"`
		Reservation          []rawDocument            `koanf:"reservation"`
	} `koanf:"documents"`
	Deadlines struct {
		Direct      string `koanf:"direct"`
		Reservation string `koanf:"reservation"`
	} `koanf:"deadlines"`
}

type rawRate struct {
	Category      string   `koanf:"category"`
	SubtypeCode   string   `koanf:"subtype_code"`
	Unit          string   `koanf:"unit"`
	RatePerUnit   float64  `koanf:"rate_per_unit"`
	DurationYears int      `koanf:"duration_years"`
	MinUnit       *float64 `koanf:"min_unit"`
	MaxUnit       *float64 `koanf:"max_unit"`
}

type rawDocument struct {
	Name      string `koanf:"name"`
	Mandatory bool   `koanf:"mandatory"`
	Note      string `koanf:"note"`
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the table built from the embedded reference.yaml. It is
// parsed once per process.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(embeddedReference)
	})
	if defaultErr != nil {
		// The embedded file ships with the binary; failing here is a build defect.
		panic(fmt.Sprintf("refdata: embedded reference data is invalid: %v", defaultErr))
	}
	return defaultTable
}

// Load returns the table at path, or the embedded default when path is empty.
func Load(_ context.Context, path string) (*Table, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadReference, path, err)
	}
	return build(k)
}

// Parse builds a table from YAML bytes.
func Parse(data []byte) (*Table, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadReference, err)
	}
	return build(k)
}

func build(k *koanf.Koanf) (*Table, error) {
	var r raw
	if err := k.UnmarshalWithConf("", &r, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadReference, err)
	}
	return fromRaw(&r)
}

func fromRaw(r *raw) (*Table, error) {
	if r.ClimateZones.DefaultMinCOP <= 0 {
		return nil, invalid("climate_zones.default_min_cop must be positive")
	}
	if !positive(r.PAMultiplier) {
		return nil, invalid("public_administration_multiplier must be positive")
	}
	if len(r.Documents.Base) == 0 {
		return nil, invalid("documents.base must not be empty")
	}

	t := &Table{
		version:       r.Version,
		defaultMinCOP: r.ClimateZones.DefaultMinCOP,
		minCOP:        make(map[string]float64, len(r.ClimateZones.MinCOP)),
		paMultiplier:  decimal.NewFromFloat(r.PAMultiplier),
		caveat:        r.Caveat,
		rates:         make(map[model.Category]RateEntry, len(r.Rates)),
		baseDocs:      toDocuments(r.Documents.Base),
		categoryDocs:  make(map[model.Category][]Document, len(r.Documents.ByCategory)),
		paDocs:        toDocuments(r.Documents.PublicAdministration),
		reservation:   toDocuments(r.Documents.Reservation),
		deadlines: map[model.AccessProcedure]string{
			model.ProcedureDirect:      r.Deadlines.Direct,
			model.ProcedureReservation: r.Deadlines.Reservation,
		},
	}

	for zone, cop := range r.ClimateZones.MinCOP {
		z := strings.ToUpper(strings.TrimSpace(zone))
		if len(z) != 1 || z[0] < 'A' || z[0] > 'F' {
			return nil, invalid(fmt.Sprintf("unknown climate zone %q", zone))
		}
		if cop <= 0 {
			return nil, invalid(fmt.Sprintf("climate zone %s: min_cop must be positive", z))
		}
		t.minCOP[z] = cop
	}

	for _, rr := range r.Rates {
		entry, err := toRate(rr)
		if err != nil {
			return nil, err
		}
		if _, dup := t.rates[entry.Category]; dup {
			return nil, invalid(fmt.Sprintf("duplicate rate for %s", entry.Category))
		}
		t.rates[entry.Category] = entry
	}

	for code, docs := range r.Documents.ByCategory {
		c, ok := model.ParseCategory(code)
		if !ok {
			return nil, invalid(fmt.Sprintf("documents.by_category: unknown category %q", code))
		}
		t.categoryDocs[c] = toDocuments(docs)
	}

	return t, nil
}

func toRate(rr rawRate) (RateEntry, error) {
	c, ok := model.ParseCategory(rr.Category)
	if !ok || c == model.CategoryUnrecognized {
		return RateEntry{}, invalid(fmt.Sprintf("rates: unknown category %q", rr.Category))
	}
	u := Unit(strings.ToLower(strings.TrimSpace(rr.Unit)))
	switch u {
	case UnitKW, UnitM2, UnitFixed:
	default:
		return RateEntry{}, invalid(fmt.Sprintf("rates: %s: unknown unit %q", c, rr.Unit))
	}
	if !positive(rr.RatePerUnit) {
		return RateEntry{}, invalid(fmt.Sprintf("rates: %s: rate_per_unit must be positive", c))
	}
	if rr.DurationYears <= 0 {
		return RateEntry{}, invalid(fmt.Sprintf("rates: %s: duration_years must be positive", c))
	}
	if (rr.MinUnit != nil && !finite(*rr.MinUnit)) || (rr.MaxUnit != nil && !finite(*rr.MaxUnit)) {
		return RateEntry{}, invalid(fmt.Sprintf("rates: %s: size bounds must be finite", c))
	}
	return RateEntry{
		Category:      c,
		SubtypeCode:   rr.SubtypeCode,
		Unit:          u,
		RatePerUnit:   decimal.NewFromFloat(rr.RatePerUnit),
		DurationYears: rr.DurationYears,
		MinUnit:       rr.MinUnit,
		MaxUnit:       rr.MaxUnit,
	}, nil
}

func toDocuments(in []rawDocument) []Document {
	out := make([]Document, 0, len(in))
	for _, d := range in {
		out = append(out, Document{Name: d.Name, Mandatory: d.Mandatory, Note: d.Note})
	}
	return out
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func positive(v float64) bool { return v > 0 && finite(v) }

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidReference, msg)
}
