package fiber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ctr-insight-service/internal/analysis/core/domain"
	"ctr-insight-service/internal/analysis/core/usecase"
	impdomain "ctr-insight-service/internal/impressions/core/domain"
	impusecase "ctr-insight-service/internal/impressions/core/usecase"
	"ctr-insight-service/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

type fakeCache struct {
	results map[string]*domain.AnalysisResult
}

func newFakeCache() *fakeCache {
	return &fakeCache{results: map[string]*domain.AnalysisResult{}}
}

func (c *fakeCache) Put(result *domain.AnalysisResult) {
	c.results[result.RunID] = result
}

func (c *fakeCache) Get(runID string) (*domain.AnalysisResult, bool) {
	result, ok := c.results[runID]
	return result, ok
}

type fakeNarrative struct {
	text string
	err  error
}

func (n *fakeNarrative) Generate(_ context.Context, _ *domain.AnalysisResult) (string, error) {
	return n.text, n.err
}

type fakeArchive struct {
	rows []impdomain.RawRow
	err  error
}

func (a *fakeArchive) InsertImpression(_ context.Context, _ *impdomain.ImpressionRecord) (bool, error) {
	return false, errors.New("not implemented")
}

func (a *fakeArchive) FetchRows(_ context.Context, _ int) ([]impdomain.RawRow, error) {
	return a.rows, a.err
}

func newTestApp(archive *fakeArchive, cache *fakeCache, narrative *fakeNarrative) *fiber.App {
	runUC := usecase.NewRunAnalysisUseCase(impusecase.NewCleanRowsUseCase())
	metrics := observability.New(prometheus.NewRegistry())

	var handler *AnalysisHandler
	if archive == nil {
		handler = NewAnalysisHandler(runUC, nil, cache, narrative, metrics, domain.DefaultRunConfig())
	} else {
		handler = NewAnalysisHandler(runUC, archive, cache, narrative, metrics, domain.DefaultRunConfig())
	}

	app := fiber.New()
	app.Post("/analysis", handler.RunAnalysis)
	app.Get("/analysis/:run_id", handler.GetAnalysis)
	app.Get("/analysis/:run_id/narrative", handler.GetNarrative)
	return app
}

func postAnalysis(t *testing.T, app *fiber.App, body any) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/analysis", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func inlineRows() []map[string]any {
	return []map[string]any{
		{"id": "1", "group_key": "A", "click": true},
		{"id": "2", "group_key": "A", "click": false},
		{"id": "3", "group_key": "B", "click": true},
	}
}

func TestRunAnalysis_OK(t *testing.T) {
	cache := newFakeCache()
	app := newTestApp(nil, cache, &fakeNarrative{})

	resp := postAnalysis(t, app, RunAnalysisRequest{Rows: inlineRows()})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody[AnalysisResponse](t, resp)
	if body.RunID == "" {
		t.Fatalf("expected run id in response")
	}
	if body.Overall.Impressions != 3 || body.Overall.Clicks != 2 {
		t.Fatalf("unexpected overall: %+v", body.Overall)
	}
	if len(body.GroupRollups) != 2 {
		t.Fatalf("expected 2 rollups, got %d", len(body.GroupRollups))
	}

	if _, ok := cache.Get(body.RunID); !ok {
		t.Fatalf("completed run must be cached under its run id")
	}
}

func TestRunAnalysis_InvalidJSON(t *testing.T) {
	app := newTestApp(nil, newFakeCache(), &fakeNarrative{})

	req := httptest.NewRequest(http.MethodPost, "/analysis", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body := decodeBody[ErrorResponse](t, resp); body.Error != "invalid_json" {
		t.Fatalf("unexpected error code: %+v", body)
	}
}

func TestRunAnalysis_InvalidConfig(t *testing.T) {
	app := newTestApp(nil, newFakeCache(), &fakeNarrative{})

	badTopN := -3
	resp := postAnalysis(t, app, RunAnalysisRequest{
		Rows:   inlineRows(),
		Config: &AnalysisConfigRequest{TopN: &badTopN},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body := decodeBody[ErrorResponse](t, resp); body.Error != "invalid_config" {
		t.Fatalf("unexpected error code: %+v", body)
	}
}

func TestRunAnalysis_NoInputRows(t *testing.T) {
	app := newTestApp(nil, newFakeCache(), &fakeNarrative{})

	resp := postAnalysis(t, app, RunAnalysisRequest{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body := decodeBody[ErrorResponse](t, resp); body.Error != "no_input_rows" {
		t.Fatalf("unexpected error code: %+v", body)
	}
}

func TestRunAnalysis_NoValidRows(t *testing.T) {
	app := newTestApp(nil, newFakeCache(), &fakeNarrative{})

	resp := postAnalysis(t, app, RunAnalysisRequest{
		Rows: []map[string]any{
			{"group_key": "A", "click": true}, // missing id
			{"id": "x", "group_key": "B"},     // missing click
		},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if body := decodeBody[ErrorResponse](t, resp); body.Error != "no_valid_rows" {
		t.Fatalf("unexpected error code: %+v", body)
	}
}

func TestRunAnalysis_ArchiveUnavailable(t *testing.T) {
	app := newTestApp(nil, newFakeCache(), &fakeNarrative{})

	resp := postAnalysis(t, app, RunAnalysisRequest{Source: "archive"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body := decodeBody[ErrorResponse](t, resp); body.Error != "archive_unavailable" {
		t.Fatalf("unexpected error code: %+v", body)
	}
}

func TestRunAnalysis_ArchiveSource(t *testing.T) {
	archive := &fakeArchive{rows: []impdomain.RawRow{
		{"id": "1", "group_key": "A", "click": true},
		{"id": "2", "group_key": "B", "click": false},
	}}
	app := newTestApp(archive, newFakeCache(), &fakeNarrative{})

	resp := postAnalysis(t, app, RunAnalysisRequest{Source: "archive", Limit: 100})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body := decodeBody[AnalysisResponse](t, resp); body.Overall.Impressions != 2 {
		t.Fatalf("expected 2 archived impressions analysed, got %+v", body.Overall)
	}
}

func TestRunAnalysis_InvalidSource(t *testing.T) {
	app := newTestApp(nil, newFakeCache(), &fakeNarrative{})

	resp := postAnalysis(t, app, RunAnalysisRequest{Source: "carrier-pigeon"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body := decodeBody[ErrorResponse](t, resp); body.Error != "invalid_source" {
		t.Fatalf("unexpected error code: %+v", body)
	}
}

func TestGetAnalysis_NotFound(t *testing.T) {
	app := newTestApp(nil, newFakeCache(), &fakeNarrative{})

	req := httptest.NewRequest(http.MethodGet, "/analysis/missing-run", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetAnalysis_Found(t *testing.T) {
	cache := newFakeCache()
	app := newTestApp(nil, cache, &fakeNarrative{})

	created := decodeBody[AnalysisResponse](t, postAnalysis(t, app, RunAnalysisRequest{Rows: inlineRows()}))

	req := httptest.NewRequest(http.MethodGet, "/analysis/"+created.RunID, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	fetched := decodeBody[AnalysisResponse](t, resp)
	if fetched.RunID != created.RunID {
		t.Fatalf("expected run %s, got %s", created.RunID, fetched.RunID)
	}
	if fetched.Overall != created.Overall {
		t.Fatalf("fetched overall differs from created: %+v vs %+v", fetched.Overall, created.Overall)
	}
}

func TestGetNarrative_OK(t *testing.T) {
	cache := newFakeCache()
	app := newTestApp(nil, cache, &fakeNarrative{text: "CTR commentary"})

	created := decodeBody[AnalysisResponse](t, postAnalysis(t, app, RunAnalysisRequest{Rows: inlineRows()}))

	req := httptest.NewRequest(http.MethodGet, "/analysis/"+created.RunID+"/narrative", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody[NarrativeResponse](t, resp)
	if body.RunID != created.RunID || body.Narrative != "CTR commentary" {
		t.Fatalf("unexpected narrative response: %+v", body)
	}
}

func TestGetNarrative_GeneratorDown(t *testing.T) {
	cache := newFakeCache()
	app := newTestApp(nil, cache, &fakeNarrative{err: errors.New("model unavailable")})

	created := decodeBody[AnalysisResponse](t, postAnalysis(t, app, RunAnalysisRequest{Rows: inlineRows()}))

	req := httptest.NewRequest(http.MethodGet, "/analysis/"+created.RunID+"/narrative", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	if body := decodeBody[ErrorResponse](t, resp); body.Error != "narrative_failed" {
		t.Fatalf("unexpected error code: %+v", body)
	}
}
