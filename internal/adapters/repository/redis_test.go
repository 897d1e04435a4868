package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/termico/internal/domain/casestatus"
)

func TestRedisStoreUnavailable(t *testing.T) {
	Convey("Given a redis store pointed at a closed port", t, func() {
		client := NewRedisClient("127.0.0.1:1", "", 0, 200*time.Millisecond)
		store := NewRedisStore(client, WithKeyPrefix("test:case:"), WithRecordTTL(time.Minute))
		Reset(func() { _ = store.Close() })

		Convey("Lookups fail without reporting not found", func() {
			_, err := store.FindByCaseCode(context.Background(), "CT-2024-001234")
			So(err, ShouldNotBeNil)
			So(errors.Is(err, casestatus.ErrNotFound), ShouldBeFalse)
		})

		Convey("The client is configured not to retry", func() {
			// go-redis normalizes -1 (disabled) to zero retries.
			So(client.Options().MaxRetries, ShouldEqual, 0)
		})

		Convey("Keys carry the prefix", func() {
			So(store.key("CT-1"), ShouldEqual, "test:case:CT-1")
			So(store.ttl, ShouldEqual, time.Minute)
		})

		Convey("Ping reports the outage", func() {
			So(store.Ping(context.Background()), ShouldNotBeNil)
		})

		Convey("Save validates before touching the network", func() {
			err := store.Save(context.Background(), casestatus.Record{})
			So(errors.Is(err, ErrInvalidRecord), ShouldBeTrue)
		})
	})
}

func TestRedisStoreRoundTrip(t *testing.T) {
	Convey("Given a redis store over an in-memory server", t, func() {
		mr := miniredis.RunT(t)
		store := NewRedisStore(NewRedisClient(mr.Addr(), "", 0, time.Second), WithKeyPrefix("test:case:"))
		Reset(func() { _ = store.Close() })
		ctx := context.Background()

		Convey("A saved record is found again", func() {
			So(store.Save(ctx, casestatus.Record{
				CaseCode:         "CT-2024-001234",
				Status:           "Under review",
				DocumentsPresent: []string{"a"},
			}), ShouldBeNil)

			rec, err := store.FindByCaseCode(ctx, "CT-2024-001234")
			So(err, ShouldBeNil)
			So(rec.Status, ShouldEqual, "Under review")
			So(rec.DocumentsPresent, ShouldResemble, []string{"a"})
			So(rec.DocumentsMissing, ShouldNotBeNil)
			So(rec.DocumentsMissing, ShouldBeEmpty)
		})

		Convey("Records live under the configured prefix", func() {
			So(store.Save(ctx, casestatus.Record{CaseCode: "CT-1"}), ShouldBeNil)
			So(mr.Exists("test:case:CT-1"), ShouldBeTrue)
			So(mr.Exists(defaultKeyPrefix+"CT-1"), ShouldBeFalse)
		})

		Convey("An absent code is not found", func() {
			_, err := store.FindByCaseCode(ctx, "CT-0000-000000")
			So(errors.Is(err, casestatus.ErrNotFound), ShouldBeTrue)

			_, err = casestatus.New(store).Lookup(ctx, "CT-0000-000000")
			So(errors.Is(err, casestatus.ErrNotFound), ShouldBeTrue)
			So(errors.Is(err, casestatus.ErrStoreUnavailable), ShouldBeFalse)
		})

		Convey("A malformed document fails to decode", func() {
			So(mr.Set("test:case:CT-BAD", "{not json"), ShouldBeNil)
			_, err := store.FindByCaseCode(ctx, "CT-BAD")
			So(errors.Is(err, ErrDecodeDocument), ShouldBeTrue)
			So(errors.Is(err, casestatus.ErrNotFound), ShouldBeFalse)
		})

		Convey("Ping succeeds", func() {
			So(store.Ping(ctx), ShouldBeNil)
		})
	})
}
