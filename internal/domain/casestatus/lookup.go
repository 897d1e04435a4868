// Package casestatus looks up filed incentive cases and summarizes them.
package casestatus

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary is the human-readable view of a case plus the raw record.
type Summary struct {
	CaseCode               string   `json:"case_code"`
	Status                 string   `json:"status"`
	MissingDocuments       []string `json:"missing_documents"`
	TotalIncentiveEstimate *float64 `json:"total_incentive_estimate,omitempty"`
	Message                string   `json:"message"`
	Record                 Record   `json:"record"`
}

// Lookup queries a Store once per call. It never retries.
type Lookup struct {
	store Store
}

// New returns a Lookup over store. A nil store makes every lookup fail with
// ErrStoreUnavailable.
func New(store Store) *Lookup {
	return &Lookup{store: store}
}

// Lookup returns the summary of the case identified by code.
func (l *Lookup) Lookup(ctx context.Context, code string) (Summary, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Summary{}, &LookupError{Kind: KindNotFound, CaseCode: code}
	}
	if l == nil || l.store == nil {
		return Summary{}, &LookupError{Kind: KindStoreUnavailable, CaseCode: code}
	}

	rec, err := l.store.FindByCaseCode(ctx, code)
	switch {
	case errors.Is(err, ErrNotFound):
		return Summary{}, &LookupError{Kind: KindNotFound, CaseCode: code}
	case err != nil:
		return Summary{}, &LookupError{Kind: KindStoreUnavailable, CaseCode: code, Err: err}
	}
	return Summarize(rec), nil
}

// Summarize formats a record.
func Summarize(rec Record) Summary {
	missing := make([]string, len(rec.DocumentsMissing))
	copy(missing, rec.DocumentsMissing)

	s := Summary{
		CaseCode:               rec.CaseCode,
		Status:                 rec.Status,
		MissingDocuments:       missing,
		TotalIncentiveEstimate: rec.EstimatedTotalIncentive,
		Record:                 rec,
	}

	status := rec.Status
	if status == "" {
		status = "N/A"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Case %s: status '%s'.", rec.CaseCode, status)
	if len(missing) > 0 {
		fmt.Fprintf(&b, " Missing documents: %s.", strings.Join(missing, ", "))
	}
	if rec.EstimatedTotalIncentive != nil {
		fmt.Fprintf(&b, " Estimated total incentive: €%s.", FormatEuro(*rec.EstimatedTotalIncentive))
	}
	s.Message = b.String()
	return s
}

// FormatEuro renders an amount with thousands separators and no decimals.
func FormatEuro(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.0f", v)
}
