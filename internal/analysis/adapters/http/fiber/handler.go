package fiber

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ctr-insight-service/internal/analysis/core/domain"
	"ctr-insight-service/internal/analysis/core/ports"
	"ctr-insight-service/internal/analysis/core/usecase"
	impdomain "ctr-insight-service/internal/impressions/core/domain"
	impports "ctr-insight-service/internal/impressions/core/ports"
	impusecase "ctr-insight-service/internal/impressions/core/usecase"
	"ctr-insight-service/internal/observability"

	"github.com/gofiber/fiber/v2"
)

type RunAnalysisUseCase interface {
	Execute(ctx context.Context, in usecase.RunAnalysisInput) (*domain.AnalysisResult, error)
}

type AnalysisHandler struct {
	runUC     RunAnalysisUseCase
	archive   impports.ImpressionArchivePort // nil when no archive is configured
	cache     ports.ResultCachePort
	narrative ports.NarrativeGeneratorPort
	metrics   *observability.Metrics
	defaults  domain.RunConfig
}

func NewAnalysisHandler(
	runUC RunAnalysisUseCase,
	archive impports.ImpressionArchivePort,
	cache ports.ResultCachePort,
	narrative ports.NarrativeGeneratorPort,
	metrics *observability.Metrics,
	defaults domain.RunConfig,
) *AnalysisHandler {
	return &AnalysisHandler{
		runUC:     runUC,
		archive:   archive,
		cache:     cache,
		narrative: narrative,
		metrics:   metrics,
		defaults:  defaults,
	}
}

// RunAnalysis godoc
// @Summary Run a full CTR analysis
// @Description Cleans the rows, aggregates KPIs per group and returns dispersion, outlier and concentration results
// @Tags Analysis
// @Accept json
// @Produce json
// @Param request body RunAnalysisRequest true "Rows or archive source plus optional config overrides"
// @Success 200 {object} AnalysisResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "No valid rows after cleaning"
// @Failure 500 {object} ErrorResponse
// @Router /analysis [post]
func (h *AnalysisHandler) RunAnalysis(c *fiber.Ctx) error {
	var req RunAnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	rows, errResp := h.resolveRows(c.UserContext(), &req)
	if errResp != nil {
		return c.Status(http.StatusBadRequest).JSON(*errResp)
	}

	cfg := h.defaults
	applyOverrides(&cfg, req.Config)

	start := time.Now()
	result, err := h.runUC.Execute(c.UserContext(), usecase.RunAnalysisInput{
		Rows:   rows,
		Config: cfg,
	})
	if err != nil {
		h.metrics.AnalysisFailures.Inc()
		return h.analysisError(c, err)
	}

	h.metrics.AnalysisRuns.Inc()
	h.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	h.metrics.RowsKept.Add(float64(result.Cleaning.RowsKept))
	h.metrics.RowsDropped.WithLabelValues("missing").Add(float64(result.Cleaning.RowsDroppedMissing))
	h.metrics.RowsDropped.WithLabelValues("duplicate").Add(float64(result.Cleaning.RowsDroppedDuplicate))
	h.metrics.RowsDropped.WithLabelValues("type_error").Add(float64(result.Cleaning.RowsDroppedTypeError))

	h.cache.Put(result)

	return c.Status(http.StatusOK).JSON(toAnalysisResponse(result))
}

// GetAnalysis godoc
// @Summary Fetch a completed analysis run
// @Tags Analysis
// @Produce json
// @Param run_id path string true "Run id"
// @Success 200 {object} AnalysisResponse
// @Failure 404 {object} ErrorResponse
// @Router /analysis/{run_id} [get]
func (h *AnalysisHandler) GetAnalysis(c *fiber.Ctx) error {
	result, ok := h.cache.Get(c.Params("run_id"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error: "run_not_found",
		})
	}

	return c.Status(http.StatusOK).JSON(toAnalysisResponse(result))
}

// GetNarrative godoc
// @Summary Narrative commentary for a completed run
// @Tags Analysis
// @Produce json
// @Param run_id path string true "Run id"
// @Success 200 {object} NarrativeResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /analysis/{run_id}/narrative [get]
func (h *AnalysisHandler) GetNarrative(c *fiber.Ctx) error {
	result, ok := h.cache.Get(c.Params("run_id"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error: "run_not_found",
		})
	}

	text, err := h.narrative.Generate(c.UserContext(), result)
	if err != nil {
		return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
			Error:   "narrative_failed",
			Message: err.Error(),
		})
	}

	return c.Status(http.StatusOK).JSON(NarrativeResponse{
		RunID:     result.RunID,
		Narrative: text,
	})
}

func (h *AnalysisHandler) resolveRows(ctx context.Context, req *RunAnalysisRequest) ([]impdomain.RawRow, *ErrorResponse) {
	switch req.Source {
	case "", "inline":
		rows := make([]impdomain.RawRow, 0, len(req.Rows))
		for _, r := range req.Rows {
			rows = append(rows, impdomain.RawRow(r))
		}
		return rows, nil

	case "archive":
		if h.archive == nil {
			return nil, &ErrorResponse{Error: "archive_unavailable"}
		}
		rows, err := h.archive.FetchRows(ctx, req.Limit)
		if err != nil {
			return nil, &ErrorResponse{Error: "archive_error", Message: err.Error()}
		}
		return rows, nil

	default:
		return nil, &ErrorResponse{Error: "invalid_source", Message: "source must be inline or archive"}
	}
}

func (h *AnalysisHandler) analysisError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidGroupBy),
		errors.Is(err, usecase.ErrInvalidTopN),
		errors.Is(err, usecase.ErrInvalidReliabilityThreshold),
		errors.Is(err, usecase.ErrInvalidIQRMultiplier),
		errors.Is(err, usecase.ErrInvalidVolumeBands):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_config",
			Message: err.Error(),
		})
	case errors.Is(err, impusecase.ErrNoRows):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "no_input_rows",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrNoValidRows):
		return c.Status(http.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error:   "no_valid_rows",
			Message: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}

func applyOverrides(cfg *domain.RunConfig, req *AnalysisConfigRequest) {
	if req == nil {
		return
	}
	if req.GroupBy != "" {
		cfg.GroupBy = req.GroupBy
	}
	if req.MinReliableImpressions != nil {
		cfg.MinReliableImpressions = *req.MinReliableImpressions
	}
	if req.TopN != nil {
		cfg.TopN = *req.TopN
	}
	if req.IQRMultiplier != nil {
		cfg.IQRMultiplier = *req.IQRMultiplier
	}
	if len(req.VolumeBands) > 0 {
		cfg.VolumeBands = req.VolumeBands
	}
}
