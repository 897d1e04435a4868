package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/okian/termico/internal/adapters/http/api"
	"github.com/okian/termico/internal/adapters/repository"
	service "github.com/okian/termico/internal/app"
	"github.com/okian/termico/internal/domain/casestatus"
	"github.com/okian/termico/internal/seed"
	"github.com/okian/termico/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type brokenStore struct{}

func (brokenStore) FindByCaseCode(context.Context, string) (casestatus.Record, error) {
	return casestatus.Record{}, errors.New("dial tcp 10.0.0.7:5432: connection refused")
}
func (brokenStore) Ping(context.Context) error { return errors.New("dial tcp: connection refused") }
func (brokenStore) Close() error { return nil }

func newMux(svc *service.Service) http.Handler {
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return api.RequestIDMiddleware(mux)
}

func seededMux() http.Handler {
	return newMux(service.New(service.WithCaseStore("memory", repository.NewMemoryStore(seed.SampleCases()...))))
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
	return out
}

func TestServer_Engine(t *testing.T) {
	Convey("Given an API server over a seeded service", t, func() {
		h := seededMux()

		Convey("POST /v1/classify maps free text to a category", func() {
			w := do(h, http.MethodPost, "/v1/classify", `{"text":"Pompa di calore aria-acqua Daikin"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["category"], ShouldEqual, "heat_pump")
		})

		Convey("POST /v1/classify rejects blank text", func() {
			w := do(h, http.MethodPost, "/v1/classify", `{"text":"  "}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			body := decode(w)
			So(body["code"], ShouldEqual, "bad_request")
			So(body["message"], ShouldContainSubstring, "missing text")
		})

		Convey("Malformed JSON is a bad request", func() {
			w := do(h, http.MethodPost, "/v1/eligibility", `{"intervention":`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode(w)["code"], ShouldEqual, "bad_request")
		})

		Convey("POST /v1/eligibility reports a failing COP", func() {
			w := do(h, http.MethodPost, "/v1/eligibility",
				`{"intervention":"heat_pump","certified_cop":2.5,"climate_zone":"e"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			body := decode(w)
			So(body["admissible"], ShouldEqual, "not_admissible")
			So(body["rationale"], ShouldContainSubstring, "zone E")
		})

		Convey("POST /v1/eligibility rejects negative parameters", func() {
			w := do(h, http.MethodPost, "/v1/eligibility", `{"intervention":"heat_pump","power_kw":-1}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode(w)["message"], ShouldContainSubstring, "power_kw")
		})

		Convey("POST /v1/estimate renders amounts with two decimals", func() {
			w := do(h, http.MethodPost, "/v1/estimate", `{"intervention":"solar_thermal","surface_m2":24.5}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"annual_amount":6002.50`)
			So(w.Body.String(), ShouldContainSubstring, `"total_amount":30012.50`)
		})

		Convey("POST /v1/estimate without sizing returns null amounts", func() {
			w := do(h, http.MethodPost, "/v1/estimate", `{"intervention":"solar_thermal"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			body := decode(w)
			So(body["annual_amount"], ShouldBeNil)
			So(body["computation_basis"], ShouldContainSubstring, "surface")
		})

		Convey("POST /v1/estimate for a category without a rate is unprocessable", func() {
			w := do(h, http.MethodPost, "/v1/estimate", `{"intervention":"old gas boiler, standard"}`)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(decode(w)["code"], ShouldEqual, "unrecognized_category")
		})

		Convey("POST /v1/checklist lists the documents", func() {
			w := do(h, http.MethodPost, "/v1/checklist",
				`{"intervention":"solar_thermal","applicant_type":"PA","access_procedure":"reservation"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			body := decode(w)
			So(body["total_documents"], ShouldEqual, float64(13))
			So(body["applicant_type"], ShouldEqual, "public_administration")
		})

		Convey("Wrong methods are rejected by the mux", func() {
			w := do(h, http.MethodGet, "/v1/classify", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestServer_Cases(t *testing.T) {
	Convey("Given an API server over a seeded service", t, func() {
		h := seededMux()

		Convey("A known case returns its summary", func() {
			w := do(h, http.MethodGet, "/v1/cases/CT-2024-001234", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			body := decode(w)
			So(body["status"], ShouldEqual, "Under review")
			So(body["message"], ShouldContainSubstring, "€9,250")
		})

		Convey("An unknown case is not found", func() {
			w := do(h, http.MethodGet, "/v1/cases/CT-0000-000000", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode(w)["code"], ShouldEqual, "not_found")
		})
	})

	Convey("Given an API server over an unreachable store", t, func() {
		h := newMux(service.New(service.WithCaseStore("postgres", brokenStore{})))

		Convey("Lookups answer 503 without leaking the cause", func() {
			w := do(h, http.MethodGet, "/v1/cases/CT-2024-001234", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			body := decode(w)
			So(body["code"], ShouldEqual, "store_unavailable")
			So(body["message"], ShouldNotContainSubstring, "10.0.0.7")
		})

		Convey("The rule engine keeps working", func() {
			w := do(h, http.MethodPost, "/v1/classify", `{"text":"collettori solari"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Health reports the store as unavailable", func() {
			w := do(h, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			body := decode(w)
			So(body["status"], ShouldEqual, "degraded")
			So(body["case_store"], ShouldEqual, "unavailable")
		})
	})
}

func TestServer_Operational(t *testing.T) {
	Convey("Given an API server", t, func() {
		h := seededMux()

		Convey("Health is ok with a reachable store", func() {
			w := do(h, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["status"], ShouldEqual, "ok")
		})

		Convey("Stats expose the service counters", func() {
			_ = do(h, http.MethodPost, "/v1/classify", `{"text":"stufa a pellet"}`)
			w := do(h, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			body := decode(w)
			So(body["caseStore"], ShouldEqual, "memory")
			So(body["classifications"], ShouldEqual, float64(1))
		})

		Convey("Metrics are served in the Prometheus format", func() {
			_ = do(h, http.MethodPost, "/v1/classify", `{"text":"stufa a pellet"}`)
			w := do(h, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "termico_engine_classifications_total")
		})

		Convey("A request id is generated when missing", func() {
			w := do(h, http.MethodGet, "/healthz", "")
			So(w.Header().Get(api.RequestIDHeader), ShouldHaveLength, 36)
		})

		Convey("An incoming request id is echoed", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set(api.RequestIDHeader, "req-42")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "req-42")
		})
	})
}

func TestKindError(t *testing.T) {
	Convey("Kind errors match both their kind and their cause", t, func() {
		cause := errors.New("unexpected EOF")
		err := api.WrapKind("api.estimate", api.ErrBadRequest, cause)
		So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
		So(errors.Is(err, cause), ShouldBeTrue)
		So(err.Error(), ShouldEqual, "api.estimate: bad request: unexpected EOF")

		bare := api.NewKind("api.cases", api.ErrBadRequest)
		So(errors.Is(bare, api.ErrBadRequest), ShouldBeTrue)
		So(bare.Error(), ShouldEqual, "api.cases: bad request")
	})
}
