package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/licitaciones/constants"
	"github.com/joseph-ayodele/licitaciones/internal/eligibility"
	"github.com/joseph-ayodele/licitaciones/internal/entity"
	"github.com/joseph-ayodele/licitaciones/internal/export"
	"github.com/joseph-ayodele/licitaciones/internal/extract"
	"github.com/joseph-ayodele/licitaciones/internal/repository"
)

var clock = func() time.Time { return time.Date(2025, time.November, 10, 9, 0, 0, 0, time.UTC) }

type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, in extract.Input) entity.ExtractedRecord {
	rec := entity.EmptyRecord()
	rec.Location = "Ponce"
	rec.Description = in.Text
	rec.BiddingCloseDate = "11/20/2025"
	rec.Confidence = 70
	return rec
}

func setup(t *testing.T) (*HTTP, *repository.SQLiteStore) {
	t.Helper()
	store, err := repository.OpenSQLite(context.Background(), ":memory:", nil, repository.WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	s := NewHTTP(Deps{
		Extractor:   stubExtractor{},
		Store:       store,
		Export:      export.NewService(store, nil),
		Eligibility: eligibility.Evaluator{Now: clock},
		Metrics:     http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("# metrics\n")) }),
	}, nil)
	return s, store
}

func seed(t *testing.T, store repository.Store, id, closeDate string, cat constants.Category) {
	t.Helper()
	rec := entity.EmptyRecord()
	rec.BiddingCloseDate = closeDate
	rec.Category = cat
	_, err := store.Upsert(context.Background(), &entity.Licitacion{Source: entity.Source{EmailID: id}, Record: rec})
	require.NoError(t, err)
}

func do(t *testing.T, s *HTTP, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndMetrics(t *testing.T) {
	s, _ := setup(t)

	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# metrics")
}

func TestExtract(t *testing.T) {
	s, _ := setup(t)

	rec := do(t, s, http.MethodPost, "/api/v1/extract", `{"text":"Suministro de papel","filename":"a.pdf"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Ponce", resp.Record.Location)
	assert.Equal(t, "Suministro de papel", resp.Record.Description)
	assert.True(t, resp.Open)

	rec = do(t, s, http.MethodPost, "/api/v1/extract", `{"text":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/extract", `{"text":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEligibility(t *testing.T) {
	s, _ := setup(t)
	rec := do(t, s, http.MethodPost, "/api/v1/eligibility", `{"close_dates":["11/09/2025","11/10/2025","","3 de diciembre"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EligibilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	var open []bool
	for _, r := range resp.Results {
		open = append(open, r.Open)
	}
	assert.Equal(t, []bool{false, true, true, true}, open)
}

func TestListAndApproval(t *testing.T) {
	s, store := setup(t)
	seed(t, store, "m-1", "11/01/2025", constants.Suministros)
	seed(t, store, "m-2", "11/30/2025", constants.Construccion)

	rec := do(t, s, http.MethodGet, "/api/v1/licitaciones?open_only=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "m-2", list.Items[0].Source.EmailID)

	rec = do(t, s, http.MethodGet, "/api/v1/licitaciones?category=suministros", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/v1/licitaciones?category=zzz", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/v1/licitaciones?limit=-1", "").Code)

	rec = do(t, s, http.MethodPatch, "/api/v1/licitaciones/m-2/approval", `{"status":"Approved","notes":"ok"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var l entity.Licitacion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &l))
	assert.Equal(t, constants.ApprovalApproved, l.ApprovalStatus)
	require.NotNil(t, l.ApprovedAt)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPatch, "/api/v1/licitaciones/nope/approval", `{"status":"rejected"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPatch, "/api/v1/licitaciones/m-2/approval", `{"status":"maybe"}`).Code)
}

func TestExportXLSX(t *testing.T) {
	s, store := setup(t)
	seed(t, store, "m-1", "11/30/2025", constants.Servicios)

	rec := do(t, s, http.MethodGet, "/api/v1/licitaciones/export.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxMediaType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), exportFilename)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestStorageDisabled(t *testing.T) {
	s := NewHTTP(Deps{Extractor: stubExtractor{}}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/api/v1/licitaciones", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/api/v1/licitaciones/export.xlsx", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodPatch, "/api/v1/licitaciones/x/approval", `{"status":"approved"}`).Code)
}
