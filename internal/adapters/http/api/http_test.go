package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/evsig/internal/adapters/http/api"
	service "github.com/okian/evsig/internal/app"
	"github.com/okian/evsig/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	svc, err := service.New(service.WithGridResolution(200))
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc).Register(context.Background(), mux)
	return mux
}

func postJSON(mux *http.ServeMux, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestScoreEndpoint(t *testing.T) {
	Convey("Given the API routes", t, func() {
		mux := newTestMux(t)

		Convey("When posting a valid score request", func() {
			rec := postJSON(mux, "/api/v1/score", `{"rate":2,"events":[0.02,0.1,0.3]}`)
			So(rec.Code, ShouldEqual, http.StatusOK)

			var resp struct {
				Score float64 `json:"score"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Score, ShouldBeGreaterThan, 0)
		})

		Convey("When posting an empty train", func() {
			rec := postJSON(mux, "/api/v1/score", `{"rate":5,"events":[]}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"score":1`)
		})

		Convey("When the rate is invalid", func() {
			rec := postJSON(mux, "/api/v1/score", `{"rate":0,"events":[0.1]}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(rec.Body.String(), ShouldContainSubstring, "bad_request")
		})

		Convey("When the events are unsorted", func() {
			rec := postJSON(mux, "/api/v1/score", `{"rate":2,"events":[0.3,0.1]}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the body is not JSON", func() {
			rec := postJSON(mux, "/api/v1/score", `not json`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When using the wrong HTTP method", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/score", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When no request id is sent", func() {
			rec := postJSON(mux, "/api/v1/score", `{"rate":2,"events":[0.1]}`)
			So(rec.Header().Get("X-Request-Id"), ShouldNotBeEmpty)
		})
	})
}

func TestIntegralEndpoint(t *testing.T) {
	Convey("Given the API routes", t, func() {
		mux := newTestMux(t)

		Convey("When posting with explicit bounds", func() {
			rec := postJSON(mux, "/api/v1/integral", `{"rate":3,"events":[0.02,0.1],"t_min":0.005,"t_max":0.25}`)
			So(rec.Code, ShouldEqual, http.StatusOK)

			var resp struct {
				Integral float64 `json:"integral"`
				TMin     float64 `json:"t_min"`
				TMax     float64 `json:"t_max"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Integral, ShouldBeGreaterThan, 0)
			So(resp.TMin, ShouldEqual, 0.005)
			So(resp.TMax, ShouldEqual, 0.25)
		})

		Convey("When bounds are omitted the service default applies", func() {
			rec := postJSON(mux, "/api/v1/integral", `{"rate":3,"events":[0.02,0.1]}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"t_min":0.005`)
			So(rec.Body.String(), ShouldContainSubstring, `"t_max":0.3`)
		})

		Convey("When the window is inverted", func() {
			rec := postJSON(mux, "/api/v1/integral", `{"rate":3,"events":[0.1],"t_min":0.5,"t_max":0.3}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestBlameEndpoint(t *testing.T) {
	Convey("Given the API routes", t, func() {
		mux := newTestMux(t)

		Convey("When requesting score blame", func() {
			rec := postJSON(mux, "/api/v1/blame", `{"rate":2,"events":[0.02,0.1,0.3],"method":"score"}`)
			So(rec.Code, ShouldEqual, http.StatusOK)

			var resp struct {
				Method string    `json:"method"`
				Blame  []float64 `json:"blame"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Method, ShouldEqual, "score")
			So(resp.Blame, ShouldHaveLength, 3)
		})

		Convey("When the method is omitted it defaults to score", func() {
			rec := postJSON(mux, "/api/v1/blame", `{"rate":2,"events":[0.1]}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"method":"score"`)
		})

		Convey("When requesting integral blame", func() {
			rec := postJSON(mux, "/api/v1/blame", `{"rate":2,"events":[0.02,0.1],"method":"integral","t_min":0.005,"t_max":0.25}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"method":"integral"`)
		})

		Convey("When the train is empty the vector is empty, not null", func() {
			rec := postJSON(mux, "/api/v1/blame", `{"rate":2,"events":[]}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"blame":[]`)
		})

		Convey("When the method is unknown", func() {
			rec := postJSON(mux, "/api/v1/blame", `{"rate":2,"events":[0.1],"method":"voodoo"}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given the API routes", t, func() {
		mux := newTestMux(t)

		Convey("When probing /healthz", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "ok")
		})
	})
}
