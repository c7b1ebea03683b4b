package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seasoncli/internal/seasonality"
)

func fixtureServer(t *testing.T) *Server {
	t.Helper()

	var bars []seasonality.Bar
	d := time.Date(2014, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2015, time.June, 30, 0, 0, 0, 0, time.UTC)
	close := 100.0
	i := 0
	for !d.After(end) {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			close += float64((i%5)-2) * 0.3
			bars = append(bars, seasonality.Bar{
				Date: d, Symbol: "NIFTY",
				Open: close, High: close + 1, Low: close - 1, Close: close,
				Volume: 100,
			})
			i++
		}
		d = d.AddDate(0, 0, 1)
	}

	res := seasonality.NewPipeline(nil).Compute(context.Background(), bars)
	srv := NewServer(nil, nil, nil)
	srv.SetResult("NIFTY", res)
	return srv
}

func TestHealthz(t *testing.T) {
	router := fixtureServer(t).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestSymbols(t *testing.T) {
	router := fixtureServer(t).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/symbols", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Symbols []string `json:"symbols"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"NIFTY"}, body.Symbols)
}

func TestSeriesEndpoints(t *testing.T) {
	router := fixtureServer(t).Router()

	for _, granularity := range []string{"daily", "weekly-monday", "weekly-expiry", "monthly", "yearly"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/series/nifty/"+granularity, nil))
		assert.Equal(t, http.StatusOK, rec.Code, granularity)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/series/nifty/hourly", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/series/unknown/daily", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuery(t *testing.T) {
	router := fixtureServer(t).Router()

	body := []byte(`{
		"year_filters": {"even_odd": "Election"},
		"day_filters": {"weekdays": ["Friday"]}
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/series/NIFTY/query", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Symbol  string `json:"symbol"`
		Summary struct {
			Count int `json:"count"`
		} `json:"summary"`
		Days []struct {
			Date    time.Time `json:"date"`
			Weekday string    `json:"weekday"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "NIFTY", resp.Symbol)
	assert.Equal(t, len(resp.Days), resp.Summary.Count)
	require.NotEmpty(t, resp.Days)
	for _, d := range resp.Days {
		assert.Equal(t, 2014, d.Date.Year())
		assert.Equal(t, "Friday", d.Weekday)
	}
}

func TestQueryEmptyConfig(t *testing.T) {
	router := fixtureServer(t).Router()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/series/NIFTY/query", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestQueryInvalidConfig(t *testing.T) {
	router := fixtureServer(t).Router()

	body := []byte(`{"year_filters": {"even_odd": "Sideways"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/series/NIFTY/query", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestQueryMalformedJSON(t *testing.T) {
	router := fixtureServer(t).Router()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/series/NIFTY/query", bytes.NewReader([]byte(`{`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := fixtureServer(t).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDPropagation(t *testing.T) {
	router := fixtureServer(t).Router()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}
