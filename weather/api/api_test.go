package api_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/cqsdata/cqrs"
	"github.com/rise-and-shine/cqsdata/http/server"
	"github.com/rise-and-shine/cqsdata/http/server/forward"
	"github.com/rise-and-shine/cqsdata/http/server/middleware"
	"github.com/rise-and-shine/cqsdata/internal/testdb"
	"github.com/rise-and-shine/cqsdata/logger"
	"github.com/rise-and-shine/cqsdata/store"
	"github.com/rise-and-shine/cqsdata/weather"
	"github.com/rise-and-shine/cqsdata/weather/api"
	"github.com/rise-and-shine/cqsdata/wire"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type fixture struct {
	srv      *server.HTTPServer
	location uuid.UUID
	first    weather.Forecast
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db := testdb.New(t, (*weather.Location)(nil), (*weather.Forecast)(nil))

	loc := weather.Location{UID: uuid.New(), Name: "Tashkent", Region: "central"}
	testdb.Seed(t, db, []weather.Location{loc})

	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	forecasts := make([]weather.Forecast, 30)
	for i := range forecasts {
		forecasts[i] = weather.NewForecast(loc.UID, start.AddDate(0, 0, i), 20+i%10)
	}
	testdb.Seed(t, db, forecasts)

	opener := store.NewFactory(db, store.Config{})
	b := cqrs.NewBroker(opener)
	require.NoError(t, weather.Register(b, opener))

	log, err := logger.New(logger.Config{Disable: true})
	require.NoError(t, err)

	srv := server.NewHTTPServer(server.Config{Host: "localhost", Port: 8080}, []server.Middleware{
		middleware.NewRecoveryMW(log),
		middleware.NewTracingMW(),
		middleware.NewTimeoutMW(5 * time.Second),
		middleware.NewMetaInjectMW("weatherapi", "test"),
		middleware.NewLoggerMW(log),
		middleware.NewErrorHandlerMW(false),
	})
	srv.RegisterRouter(api.Routes(b, wire.PageConfig{DefaultPageSize: 10, MaxPageSize: 20}))

	return fixture{srv: srv, location: loc.UID, first: forecasts[0]}
}

func (f fixture) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := f.srv.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func jsonRequest(method, target string, body any) *http.Request {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestListLocationForecasts(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name      string
		query     string
		wantItems int
		wantTotal int
		wantPage  int
		wantNext  bool
	}{
		{name: "default page size", query: "", wantItems: 10, wantTotal: 30, wantPage: 1, wantNext: true},
		{name: "last page", query: "page=3", wantItems: 10, wantTotal: 30, wantPage: 3, wantNext: false},
		{name: "start index", query: "start_index=25&page_size=10", wantItems: 5, wantTotal: 30, wantPage: 3, wantNext: false},
		{name: "capped page size", query: "page_size=500", wantItems: 20, wantTotal: 30, wantPage: 1, wantNext: true},
		{
			name:      "client filter",
			query:     "filter=" + url.QueryEscape(`{"op":"gte","field":"temperature_c","value":28}`),
			wantItems: 6, wantTotal: 6, wantPage: 1, wantNext: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := fmt.Sprintf("/locations/%s/forecasts?%s", f.location, tt.query)
			resp, body := f.do(t, httptest.NewRequest(http.MethodGet, target, nil))
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

			var page wire.ListResponse[weather.Forecast]
			require.NoError(t, json.Unmarshal(body, &page))
			assert.True(t, page.Success)
			assert.Len(t, page.Items, tt.wantItems)
			assert.Equal(t, tt.wantTotal, page.Total)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantNext, page.HasNext)
			assert.Equal(t, resp.Header.Get(forward.HeaderTransactionID), page.TransactionID.String())
		})
	}
}

func TestListRejectsBadInput(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		target string
	}{
		{name: "bad location", target: "/locations/not-a-uuid/forecasts"},
		{name: "unknown sort field", target: fmt.Sprintf("/locations/%s/forecasts?sort=secret:asc", f.location)},
		{name: "bad page size", target: "/forecasts?page_size=ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := f.do(t, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
			assert.NotEmpty(t, resp.Header.Get(middleware.HeaderTraceID))
		})
	}
}

func TestTransactionIDIsReused(t *testing.T) {
	f := newFixture(t)
	txID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/forecasts/"+f.first.UID.String(), nil)
	req.Header.Set(forward.HeaderTransactionID, txID.String())

	resp, body := f.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, txID.String(), resp.Header.Get(forward.HeaderTransactionID))

	var rec forward.RecordResponse[weather.Forecast]
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.Equal(t, txID, rec.TransactionID)
	assert.Equal(t, f.first.UID, rec.Record.UID)
	assert.Equal(t, f.first.TemperatureC, rec.Record.TemperatureC)

	bad := httptest.NewRequest(http.MethodGet, "/forecasts/"+f.first.UID.String(), nil)
	bad.Header.Set(forward.HeaderTransactionID, "nope")
	resp, _ = f.do(t, bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestForecastCommands(t *testing.T) {
	f := newFixture(t)

	fc := weather.Forecast{LocationID: f.location, Date: time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC), TemperatureC: 31}

	resp, body := f.do(t, jsonRequest(http.MethodPost, "/forecasts", fc))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created forward.CommandResponse
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEqual(t, uuid.Nil, created.NewID)

	resp, body = f.do(t, httptest.NewRequest(http.MethodGet, "/forecasts/"+created.NewID.String(), nil))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var rec forward.RecordResponse[weather.Forecast]
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.Equal(t, "Hot", rec.Record.Summary)

	rec.Record.TemperatureC = 5
	rec.Record.Summary = weather.Summarize(5)
	resp, body = f.do(t, jsonRequest(http.MethodPut, "/forecasts", rec.Record))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, _ = f.do(t, httptest.NewRequest(http.MethodDelete, "/forecasts/"+created.NewID.String(), nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/forecasts/"+created.NewID.String(), nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// a second delete affects nothing and fails
	resp, _ = f.do(t, httptest.NewRequest(http.MethodDelete, "/forecasts/"+created.NewID.String(), nil))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestForecastCommandValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  *http.Request
	}{
		{
			name: "missing location",
			req:  jsonRequest(http.MethodPost, "/forecasts", weather.Forecast{Date: time.Now(), TemperatureC: 10}),
		},
		{
			name: "not json",
			req:  httptest.NewRequest(http.MethodPost, "/forecasts", strings.NewReader("temperature=10")),
		},
		{
			name: "update without uid",
			req:  jsonRequest(http.MethodPut, "/forecasts", weather.Forecast{LocationID: f.location, Date: time.Now()}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := f.do(t, tt.req)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
		})
	}
}

func TestLocations(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, jsonRequest(http.MethodPost, "/locations", weather.Location{Name: "Samarkand"}))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = f.do(t, httptest.NewRequest(http.MethodGet, "/locations", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var refs forward.FKListResponse
	require.NoError(t, json.Unmarshal(body, &refs))
	names := make([]string, 0, len(refs.Items))
	for _, item := range refs.Items {
		names = append(names, item.Name)
	}
	assert.ElementsMatch(t, []string{"Tashkent", "Samarkand"}, names)
}
