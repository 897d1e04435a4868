package loadcheck

import (
	"errors"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/okian/termico/internal/domain/classify"
	"github.com/okian/termico/internal/domain/incentive"
	"github.com/okian/termico/internal/domain/model"
)

// ErrMismatch marks a response that disagrees with the local engine.
var ErrMismatch = errors.New("response mismatch")

type estimateResponse struct {
	Category     model.Category   `json:"category"`
	AnnualAmount *decimal.Decimal `json:"annual_amount"`
	TotalAmount  *decimal.Decimal `json:"total_amount"`
}

// Verifier recomputes estimates locally. It assumes the server runs on the
// embedded reference data.
type Verifier struct {
	estimator *incentive.Estimator
}

// NewVerifier returns a Verifier over the embedded reference data.
func NewVerifier() *Verifier {
	return &Verifier{estimator: incentive.New(nil)}
}

func resolve(intervention string) model.Category {
	if c, ok := model.ParseCategory(intervention); ok {
		return c
	}
	return classify.Classify(intervention)
}

// Verify checks one response against the local estimate for p.
func (v *Verifier) Verify(p Probe, status int, body []byte) error {
	category := resolve(p.Intervention)
	params := model.TechnicalParams{PowerKW: p.PowerKW, SurfaceM2: p.SurfaceM2}
	want, err := v.estimator.Estimate(category, params, model.ParseApplicantType(p.ApplicantType))

	if errors.Is(err, incentive.ErrUnrecognizedCategory) {
		if status != http.StatusUnprocessableEntity {
			return fmt.Errorf("%w: %q: status %d, want %d", ErrMismatch, p.Intervention, status, http.StatusUnprocessableEntity)
		}
		return nil
	}
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: %q: status %d, want %d", ErrMismatch, p.Intervention, status, http.StatusOK)
	}

	var got estimateResponse
	if err := json.Unmarshal(body, &got); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if got.Category != category {
		return fmt.Errorf("%w: %q: category %s, want %s", ErrMismatch, p.Intervention, got.Category, category)
	}
	if !sameAmount(got.AnnualAmount, want.AnnualAmount) {
		return fmt.Errorf("%w: %q: annual %s, want %s", ErrMismatch, p.Intervention, show(got.AnnualAmount), show(want.AnnualAmount))
	}
	if !sameAmount(got.TotalAmount, want.TotalAmount) {
		return fmt.Errorf("%w: %q: total %s, want %s", ErrMismatch, p.Intervention, show(got.TotalAmount), show(want.TotalAmount))
	}
	return nil
}

func sameAmount(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func show(d *decimal.Decimal) string {
	if d == nil {
		return "null"
	}
	return d.StringFixed(2)
}
