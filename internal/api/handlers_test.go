package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/MirandaEdu/Tally/internal/config"
	"github.com/MirandaEdu/Tally/internal/engine"
	"github.com/MirandaEdu/Tally/internal/oracle"
	"github.com/MirandaEdu/Tally/internal/store"
	"github.com/MirandaEdu/Tally/internal/subjects"
)

func float64Ptr(f float64) *float64 { return &f }

func testSubjectTable(t *testing.T) *subjects.Table {
	t.Helper()
	table, err := subjects.NewTable([]subjects.Subject{
		{
			Name: "english", DisplayName: "English",
			Type: subjects.TypeGeneral, Rule: subjects.RuleNumeric,
			Scaling: subjects.Scaling{Anchors: []subjects.Anchor{{Raw: 0, Scaled: 0}, {Raw: 100, Scaled: 100}}},
		},
		{
			Name: "physics", DisplayName: "Physics",
			Type: subjects.TypeGeneral, Rule: subjects.RuleNumeric,
			Scaling: subjects.Scaling{Anchors: []subjects.Anchor{{Raw: 0, Scaled: 0}, {Raw: 100, Scaled: 100}}},
		},
		{
			Name: "essential_english", DisplayName: "Essential English",
			Type: subjects.TypeApplied, Rule: subjects.RuleGrade,
			Scaling: subjects.Scaling{BandScores: map[string]float64{"A": 70, "B": 60, "C": 48, "D": 30, "E": 10}},
		},
		{
			Name: "cert3_business", DisplayName: "Certificate III Business",
			Type: subjects.TypeVETPass, Rule: subjects.RulePass,
			Scaling: subjects.Scaling{PassScore: float64Ptr(49)},
		},
	})
	if err != nil {
		t.Fatalf("building subject table: %v", err)
	}
	return table
}

func newTestRouter(t *testing.T, s store.Store) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	table := testSubjectTable(t)
	scaler := oracle.NewTableOracle(table)
	builder := engine.NewChartBuilder(scaler, table, logger)
	ranker := engine.NewRanker(scaler, table, logger)

	cfg := &config.Config{
		Server: config.ServerConfig{AdminToken: "test-admin-token"},
		Engine: config.EngineConfig{DefaultVariation: 5, MaxRows: 50},
	}
	return NewRouter(s, nil, builder, ranker, table, cfg, logger)
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestParseEndpoint(t *testing.T) {
	router := newTestRouter(t, new(MockStore))

	t.Run("normalizes numeric input", func(t *testing.T) {
		rec := postJSON(t, router, "/api/v1/rows/parse", `{"value": "075.50", "rule": "0-100"}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp ParseResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Valid)
		assert.Equal(t, engine.Some("75.5"), resp.Normalized)
	})

	t.Run("rejects out-of-range input", func(t *testing.T) {
		rec := postJSON(t, router, "/api/v1/rows/parse", `{"value": "101", "rule": "0-100"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp ParseResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Valid)
		assert.False(t, resp.Normalized.Present)
	})

	t.Run("unknown rule is a client error", func(t *testing.T) {
		rec := postJSON(t, router, "/api/v1/rows/parse", `{"value": "75", "rule": "percentile"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("blank input is valid and absent", func(t *testing.T) {
		rec := postJSON(t, router, "/api/v1/rows/parse", `{"value": "  ", "rule": "A-E"}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp ParseResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Valid)
		assert.False(t, resp.Normalized.Present)
	})
}

func TestVariationEndpoint(t *testing.T) {
	router := newTestRouter(t, new(MockStore))

	body := `{
		"variation": 5,
		"rows": [
			{"subject": "English", "raw_result": "75", "validation_rule": "0-100"},
			{"subject": "Essential English", "raw_result": "C", "validation_rule": "A-E"},
			{"raw_result": "50", "validation_rule": "0-100"}
		]
	}`
	rec := postJSON(t, router, "/api/v1/rows/variation", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp VariationResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	if !assert.Len(t, resp.Rows, 3) {
		return
	}

	assert.Equal(t, engine.Some("70"), resp.Rows[0].Lower)
	assert.Equal(t, engine.Some("80"), resp.Rows[0].Upper)
	assert.Equal(t, engine.Some("C"), resp.Rows[1].Lower)
	assert.Equal(t, engine.Some("C"), resp.Rows[1].Upper)

	// the subjectless row passes through untouched
	assert.False(t, resp.Rows[2].Lower.Present)
	assert.Equal(t, 2, resp.Changed)
}

func TestVariationEndpointRejectsNegative(t *testing.T) {
	router := newTestRouter(t, new(MockStore))
	rec := postJSON(t, router, "/api/v1/rows/variation", `{"variation": -1, "rows": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChartEndpoint(t *testing.T) {
	router := newTestRouter(t, new(MockStore))

	body := `{
		"range_mode": false,
		"rows": [
			{"subject": "English", "raw_result": "40", "validation_rule": "0-100"},
			{"subject": "Physics", "raw_result": "62", "validation_rule": "0-100"},
			{"subject": "Ancient Sumerian", "raw_result": "90", "validation_rule": "0-100"}
		]
	}`
	rec := postJSON(t, router, "/api/v1/charts", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	var chart engine.Chart
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chart))

	// the unmapped subject is dropped; the axis snaps to tens around the rest
	if !assert.Len(t, chart.Data, 2) {
		return
	}
	assert.Equal(t, 40.0, chart.AxisMin)
	assert.Equal(t, 70.0, chart.AxisMax)
	assert.Equal(t, "Physics", chart.Data[0].Subject)
	assert.Equal(t, 22.0, chart.Data[0].Base)
	assert.Equal(t, "English", chart.Data[1].Subject)
	assert.Equal(t, 0.0, chart.Data[1].Base)
}

func TestChartEndpointEmpty(t *testing.T) {
	router := newTestRouter(t, new(MockStore))
	rec := postJSON(t, router, "/api/v1/charts", `{"rows": []}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var chart engine.Chart
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chart))
	assert.Empty(t, chart.Data)
	assert.Equal(t, 0.0, chart.AxisMin)
	assert.Equal(t, 100.0, chart.AxisMax)
}

func TestRankingsEndpoint(t *testing.T) {
	router := newTestRouter(t, new(MockStore))

	body := `{
		"results": [
			{"subject": "essential_english", "result": "C"},
			{"subject": "english", "result": "80"},
			{"subject": "physics", "result": "60"}
		]
	}`
	rec := postJSON(t, router, "/api/v1/rankings", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp RankingResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	if !assert.Len(t, resp.Rows, 3) {
		return
	}

	assert.Equal(t, engine.Some("English"), resp.Rows[0].Subject)
	assert.Equal(t, engine.Some("Physics"), resp.Rows[1].Subject)
	assert.Equal(t, engine.Some("Essential English"), resp.Rows[2].Subject)

	// general subjects get the default variation margin, applied ones do not
	assert.Equal(t, engine.Some("75"), resp.Rows[0].Lower)
	assert.Equal(t, engine.Some("85"), resp.Rows[0].Upper)
	assert.Equal(t, engine.Some("C"), resp.Rows[2].Lower)
	assert.Equal(t, engine.Some("C"), resp.Rows[2].Upper)
}

func TestRankingsEndpointRequiresResults(t *testing.T) {
	router := newTestRouter(t, new(MockStore))
	rec := postJSON(t, router, "/api/v1/rankings", `{"results": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportEndpoint(t *testing.T) {
	router := newTestRouter(t, new(MockStore))
	id := uuid.New()

	body := `{
		"range_mode": true,
		"scores": {"` + id.String() + `": 68.5},
		"rows": [
			{"id": "` + id.String() + `", "subject": "English", "raw_result": "75", "lower_result": "70", "upper_result": "80", "validation_rule": "0-100"}
		]
	}`
	rec := postJSON(t, router, "/api/v1/export", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ExportResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	if !assert.Len(t, resp.Rows, 1) {
		return
	}
	assert.Equal(t, "English", resp.Rows[0].Subject)
	assert.Equal(t, "70", resp.Rows[0].Lower)
	if assert.NotNil(t, resp.Rows[0].ScaledScore) {
		assert.Equal(t, 68.5, *resp.Rows[0].ScaledScore)
	}
}

func TestExportEndpointBadScoreKey(t *testing.T) {
	router := newTestRouter(t, new(MockStore))
	rec := postJSON(t, router, "/api/v1/export", `{"rows": [], "scores": {"not-a-uuid": 50}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubjectsEndpoints(t *testing.T) {
	router := newTestRouter(t, new(MockStore))

	t.Run("list", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/subjects", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var list []subjects.Subject
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		assert.Len(t, list, 4)
	})

	t.Run("get by canonical name", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/subjects/english", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var s subjects.Subject
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
		assert.Equal(t, "English", s.DisplayName)
	})

	t.Run("unknown subject", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/subjects/latin", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
