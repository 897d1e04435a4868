package refdata_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/termico/internal/domain/model"
	"github.com/okian/termico/internal/domain/refdata"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultTable(t *testing.T) {
	Convey("Given the embedded reference table", t, func() {
		tbl := refdata.Default()

		Convey("Then it is memoized", func() {
			So(refdata.Default(), ShouldEqual, tbl)
			So(tbl.Version(), ShouldNotBeEmpty)
		})

		Convey("Then every climate zone has exactly one threshold", func() {
			want := map[string]float64{"A": 2.6, "B": 2.6, "C": 2.8, "D": 2.8, "E": 3.0, "F": 3.0}
			for zone, cop := range want {
				got, known := tbl.MinCOP(zone)
				So(known, ShouldBeTrue)
				So(got, ShouldEqual, cop)
			}
		})

		Convey("Then unknown zones fall back to the default threshold", func() {
			got, known := tbl.MinCOP("Z")
			So(known, ShouldBeFalse)
			So(got, ShouldEqual, 2.8)
		})

		Convey("Then the rate table carries the indicative tariffs", func() {
			hp, ok := tbl.Rate(model.CategoryHeatPump)
			So(ok, ShouldBeTrue)
			So(hp.Unit, ShouldEqual, refdata.UnitKW)
			So(hp.RatePerUnit.String(), ShouldEqual, "110")
			So(hp.DurationYears, ShouldEqual, 5)
			So(*hp.MaxUnit, ShouldEqual, 2000.0)

			solar, ok := tbl.Rate(model.CategorySolarThermal)
			So(ok, ShouldBeTrue)
			So(solar.Unit, ShouldEqual, refdata.UnitM2)
			So(solar.RatePerUnit.String(), ShouldEqual, "245")

			dhw, ok := tbl.Rate(model.CategoryDHWHeatPump)
			So(ok, ShouldBeTrue)
			So(dhw.Unit, ShouldEqual, refdata.UnitFixed)
			So(dhw.DurationYears, ShouldEqual, 2)

			_, ok = tbl.Rate(model.CategoryNonCondensingBoiler)
			So(ok, ShouldBeFalse)
			_, ok = tbl.Rate(model.CategoryUnrecognized)
			So(ok, ShouldBeFalse)
		})

		Convey("Then the document groups have the expected sizes", func() {
			So(tbl.BaseDocuments(), ShouldHaveLength, 6)
			So(tbl.CategoryDocuments(model.CategoryHeatPump), ShouldHaveLength, 2)
			So(tbl.CategoryDocuments(model.CategoryCondensingBoiler), ShouldBeEmpty)
			So(tbl.PublicAdministrationDocuments(), ShouldHaveLength, 3)
			So(tbl.ReservationDocuments(), ShouldHaveLength, 2)
		})

		Convey("Then accessors return copies", func() {
			docs := tbl.BaseDocuments()
			docs[0].Name = "tampered"
			So(tbl.BaseDocuments()[0].Name, ShouldNotEqual, "tampered")

			rate, _ := tbl.Rate(model.CategoryHeatPump)
			*rate.MinUnit = 999
			again, _ := tbl.Rate(model.CategoryHeatPump)
			So(*again.MinUnit, ShouldEqual, 5.0)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a reference loader", t, func() {
		ctx := context.Background()

		Convey("When no path is configured", func() {
			tbl, err := refdata.Load(ctx, "")

			Convey("Then the embedded table is returned", func() {
				So(err, ShouldBeNil)
				So(tbl, ShouldEqual, refdata.Default())
			})
		})

		Convey("When an override file raises a tariff", func() {
			path := writeTemp(t, `
version: "override-1"
climate_zones:
  default_min_cop: 2.9
  min_cop:
    E: 3.2
public_administration_multiplier: 1.2
caveat: "test caveat"
rates:
  - category: heat_pump
    unit: kw
    rate_per_unit: 120
    duration_years: 5
documents:
  base:
    - name: "Report"
      mandatory: true
deadlines:
  direct: "60 days"
  reservation: "12 months"
`)
			tbl, err := refdata.Load(ctx, path)

			Convey("Then the override values are used", func() {
				So(err, ShouldBeNil)
				So(tbl.Version(), ShouldEqual, "override-1")
				rate, ok := tbl.Rate(model.CategoryHeatPump)
				So(ok, ShouldBeTrue)
				So(rate.RatePerUnit.String(), ShouldEqual, "120")
				cop, _ := tbl.MinCOP("E")
				So(cop, ShouldEqual, 3.2)
				cop, known := tbl.MinCOP("A")
				So(known, ShouldBeFalse)
				So(cop, ShouldEqual, 2.9)
				So(tbl.Caveat(), ShouldEqual, "test caveat")
			})
		})

		Convey("When the file does not exist", func() {
			_, err := refdata.Load(ctx, "/non/existent/reference.yaml")

			Convey("Then a load error is returned", func() {
				So(errors.Is(err, refdata.ErrLoadReference), ShouldBeTrue)
			})
		})

		Convey("When the file declares an unknown unit", func() {
			path := writeTemp(t, `
climate_zones:
  default_min_cop: 2.8
public_administration_multiplier: 1.15
rates:
  - category: heat_pump
    unit: liters
    rate_per_unit: 110
    duration_years: 5
documents:
  base:
    - name: "Report"
`)
			_, err := refdata.Load(ctx, path)

			Convey("Then validation fails", func() {
				So(errors.Is(err, refdata.ErrInvalidReference), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "unknown unit")
			})
		})

		Convey("When a tariff is not a finite number", func() {
			_, err := refdata.Parse([]byte(`
climate_zones:
  default_min_cop: 2.8
public_administration_multiplier: 1.15
rates:
  - {category: heat_pump, unit: kw, rate_per_unit: .nan, duration_years: 5}
documents:
  base:
    - name: "Report"
`))

			Convey("Then validation fails", func() {
				So(errors.Is(err, refdata.ErrInvalidReference), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "rate_per_unit")
			})
		})

		Convey("When the file repeats a category", func() {
			path := writeTemp(t, `
climate_zones:
  default_min_cop: 2.8
public_administration_multiplier: 1.15
rates:
  - {category: heat_pump, unit: kw, rate_per_unit: 110, duration_years: 5}
  - {category: heat_pump, unit: kw, rate_per_unit: 100, duration_years: 5}
documents:
  base:
    - name: "Report"
`)
			_, err := refdata.Load(ctx, path)

			Convey("Then validation fails", func() {
				So(errors.Is(err, refdata.ErrInvalidReference), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "duplicate rate")
			})
		})

		Convey("When a climate zone is outside A..F", func() {
			_, err := refdata.Parse([]byte(`
climate_zones:
  default_min_cop: 2.8
  min_cop:
    G: 3.1
public_administration_multiplier: 1.15
documents:
  base:
    - name: "Report"
`))

			Convey("Then validation fails", func() {
				So(errors.Is(err, refdata.ErrInvalidReference), ShouldBeTrue)
			})
		})
	})
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reference.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp reference: %v", err)
	}
	return path
}
