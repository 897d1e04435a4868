package casestatus

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type fakeStore struct {
	records map[string]Record
	err     error
	calls   int
	lastCtx context.Context
}

func (f *fakeStore) FindByCaseCode(ctx context.Context, code string) (Record, error) {
	f.calls++
	f.lastCtx = ctx
	if f.err != nil {
		return Record{}, f.err
	}
	r, ok := f.records[code]
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

func ptr[T any](v T) *T { return &v }

func sample() Record {
	return Record{
		CaseCode:                "CT-2024-001234",
		ApplicantType:           "private",
		InterventionDescription: "B.2 - Air-to-water heat pump",
		Status:                  "Under review",
		EstimatedTotalIncentive: ptr(9250.0),
		DurationYears:           ptr(5),
		DocumentsPresent:        []string{"Technical report", "Invoices"},
		DocumentsMissing:        []string{"System declaration of conformity", "Post-intervention APE"},
	}
}

type ctxKey struct{}

func TestLookup(t *testing.T) {
	Convey("Given a lookup over an in-memory store", t, func() {
		store := &fakeStore{records: map[string]Record{"CT-2024-001234": sample()}}
		l := New(store)

		Convey("A present case is summarized", func() {
			s, err := l.Lookup(context.Background(), "CT-2024-001234")
			So(err, ShouldBeNil)
			So(s.Status, ShouldEqual, "Under review")
			So(s.MissingDocuments, ShouldResemble, sample().DocumentsMissing)
			So(*s.TotalIncentiveEstimate, ShouldEqual, 9250.0)
			So(s.Message, ShouldEqual, "Case CT-2024-001234: status 'Under review'. "+
				"Missing documents: System declaration of conformity, Post-intervention APE. "+
				"Estimated total incentive: €9,250.")
			So(s.Record.CaseCode, ShouldEqual, "CT-2024-001234")
			So(store.calls, ShouldEqual, 1)
		})

		Convey("Surrounding whitespace is ignored", func() {
			_, err := l.Lookup(context.Background(), "  CT-2024-001234 ")
			So(err, ShouldBeNil)
		})

		Convey("An absent case is NotFound", func() {
			_, err := l.Lookup(context.Background(), "CT-0000-000000")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(errors.Is(err, ErrStoreUnavailable), ShouldBeFalse)
			var le *LookupError
			So(errors.As(err, &le), ShouldBeTrue)
			So(le.Kind, ShouldEqual, KindNotFound)
			So(le.CaseCode, ShouldEqual, "CT-0000-000000")
		})

		Convey("A blank code is NotFound without querying", func() {
			_, err := l.Lookup(context.Background(), "   ")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(store.calls, ShouldEqual, 0)
		})

		Convey("Store failures surface once as StoreUnavailable", func() {
			boom := errors.New("connection refused")
			store.err = boom
			_, err := l.Lookup(context.Background(), "CT-2024-001234")
			So(errors.Is(err, ErrStoreUnavailable), ShouldBeTrue)
			So(errors.Is(err, boom), ShouldBeTrue)
			So(store.calls, ShouldEqual, 1)
		})

		Convey("The caller's context reaches the store", func() {
			ctx := context.WithValue(context.Background(), ctxKey{}, "x")
			_, _ = l.Lookup(ctx, "CT-2024-001234")
			So(store.lastCtx.Value(ctxKey{}), ShouldEqual, "x")
		})

		Convey("A nil store is unavailable", func() {
			_, err := New(nil).Lookup(context.Background(), "CT-2024-001234")
			So(errors.Is(err, ErrStoreUnavailable), ShouldBeTrue)
		})
	})
}

func TestSummarize(t *testing.T) {
	Convey("Optional clauses are omitted", t, func() {
		s := Summarize(Record{CaseCode: "CT-2024-005678", Status: "Approved"})
		So(s.Message, ShouldEqual, "Case CT-2024-005678: status 'Approved'.")
		So(s.MissingDocuments, ShouldNotBeNil)
		So(s.TotalIncentiveEstimate, ShouldBeNil)
	})

	Convey("Large amounts are grouped", t, func() {
		So(FormatEuro(21000), ShouldEqual, "21,000")
		So(FormatEuro(640), ShouldEqual, "640")
		So(FormatEuro(1234567.4), ShouldEqual, "1,234,567")
	})
}
