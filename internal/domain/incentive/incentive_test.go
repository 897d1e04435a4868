package incentive

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/termico/internal/domain/model"
)

func TestEstimate(t *testing.T) {
	Convey("Given an estimator on the embedded reference data", t, func() {
		e := New(nil)

		Convey("Solar thermal is sized by surface", func() {
			est, err := e.Estimate(model.CategorySolarThermal,
				model.TechnicalParams{SurfaceM2: model.Float(24.5)}, model.ApplicantPrivate)
			So(err, ShouldBeNil)
			So(est.Computed(), ShouldBeTrue)
			So(est.AnnualAmount.StringFixed(2), ShouldEqual, "6002.50")
			So(est.TotalAmount.StringFixed(2), ShouldEqual, "30012.50")
			So(est.DurationYears, ShouldEqual, 5)
			So(est.Warnings, ShouldBeEmpty)
			So(est.Caveat, ShouldNotBeEmpty)
		})

		Convey("Public administration applies the multiplier", func() {
			est, err := e.Estimate(model.CategoryHeatPump,
				model.TechnicalParams{PowerKW: model.Float(12)}, model.ApplicantPublicAdministration)
			So(err, ShouldBeNil)
			So(est.AnnualAmount.StringFixed(2), ShouldEqual, "1518.00")
			So(est.TotalAmount.StringFixed(2), ShouldEqual, "7590.00")
			So(est.ComputationBasis, ShouldContainSubstring, "1.15")
		})

		Convey("The DHW heat pump uses a fixed amount", func() {
			est, err := e.Estimate(model.CategoryDHWHeatPump, model.TechnicalParams{PowerKW: model.Float(99)}, model.ApplicantPrivate)
			So(err, ShouldBeNil)
			So(est.AnnualAmount.StringFixed(2), ShouldEqual, "300.00")
			So(est.TotalAmount.StringFixed(2), ShouldEqual, "600.00")
		})

		Convey("Amounts are rounded to cents", func() {
			est, err := e.Estimate(model.CategoryBiomassBoiler,
				model.TechnicalParams{PowerKW: model.Float(12.345)}, model.ApplicantPublicAdministration)
			So(err, ShouldBeNil)
			// 95 × 12.345 × 1.15 = 1348.69125
			So(est.AnnualAmount.StringFixed(2), ShouldEqual, "1348.69")
			So(est.AnnualAmount.Exponent(), ShouldBeGreaterThanOrEqualTo, -2)
			// The total rounds 6743.45625, not 1348.69 × 5.
			So(est.TotalAmount.StringFixed(2), ShouldEqual, "6743.46")
		})

		Convey("Non-finite sizing is treated as missing", func() {
			for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
				est, err := e.Estimate(model.CategoryHeatPump, model.TechnicalParams{PowerKW: model.Float(v)}, model.ApplicantPrivate)
				So(err, ShouldBeNil)
				So(est.Computed(), ShouldBeFalse)
				So(est.ComputationBasis, ShouldContainSubstring, "rated power")
				So(est.Warnings, ShouldBeEmpty)
			}
		})

		Convey("Missing sizing yields an estimate without amounts", func() {
			est, err := e.Estimate(model.CategorySolarThermal, model.TechnicalParams{}, model.ApplicantPrivate)
			So(err, ShouldBeNil)
			So(est.Computed(), ShouldBeFalse)
			So(est.TotalAmount, ShouldBeNil)
			So(est.ComputationBasis, ShouldContainSubstring, "€245.00/m²/year")
			So(est.ComputationBasis, ShouldContainSubstring, "surface")
			So(est.Caveat, ShouldNotBeEmpty)
		})

		Convey("Sizing outside the rate bounds warns without failing", func() {
			est, err := e.Estimate(model.CategoryHeatPump, model.TechnicalParams{PowerKW: model.Float(3)}, model.ApplicantPrivate)
			So(err, ShouldBeNil)
			So(est.Computed(), ShouldBeTrue)
			So(est.Warnings, ShouldHaveLength, 1)
			So(est.Warnings[0], ShouldContainSubstring, "below")
		})

		Convey("Categories without a rate fail with UnrecognizedCategory", func() {
			for _, c := range []model.Category{model.CategoryNonCondensingBoiler, model.CategoryUnrecognized, model.Category("x")} {
				_, err := e.Estimate(c, model.TechnicalParams{}, model.ApplicantPrivate)
				So(errors.Is(err, ErrUnrecognizedCategory), ShouldBeTrue)
				var ee *EstimationError
				So(errors.As(err, &ee), ShouldBeTrue)
				So(ee.Category, ShouldEqual, c)
			}
		})

		Convey("Repeated estimates are identical", func() {
			p := model.TechnicalParams{PowerKW: model.Float(12)}
			a, _ := e.Estimate(model.CategoryHeatPump, p, model.ApplicantPrivate)
			b, _ := e.Estimate(model.CategoryHeatPump, p, model.ApplicantPrivate)
			So(a.ComputationBasis, ShouldEqual, b.ComputationBasis)
			So(a.TotalAmount.Equal(*b.TotalAmount), ShouldBeTrue)
		})
	})
}
