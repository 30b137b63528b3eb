package fiber

import (
	"context"
	"errors"
	"net/http"

	"ctr-insight-service/internal/impressions/core/usecase"
	"ctr-insight-service/internal/observability"

	"github.com/gofiber/fiber/v2"
)

type StoreImpressionsUseCase interface {
	Execute(ctx context.Context, in usecase.StoreImpressionInput) (bool, error)
	BulkStore(ctx context.Context, in usecase.BulkStoreImpressionsInput) (usecase.BulkStoreImpressionsResult, error)
}

type ImpressionHandler struct {
	storeUC StoreImpressionsUseCase
	metrics *observability.Metrics
}

func NewImpressionHandler(storeUC StoreImpressionsUseCase, metrics *observability.Metrics) *ImpressionHandler {
	return &ImpressionHandler{storeUC: storeUC, metrics: metrics}
}

// CreateImpression godoc
// @Summary Archive a single impression
// @Description Stores one impression idempotently; duplicate ids are reported, not re-stored
// @Tags Impressions
// @Accept json
// @Produce json
// @Param request body CreateImpressionRequest true "Impression payload"
// @Success 201 {object} CreateImpressionResponse
// @Success 200 {object} CreateImpressionResponse "Duplicate impression"
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /impressions [post]
func (h *ImpressionHandler) CreateImpression(c *fiber.Ctx) error {
	var req CreateImpressionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	created, err := h.storeUC.Execute(c.UserContext(), toInput(req))
	if err != nil {
		return h.storeError(c, err)
	}

	if !created {
		return c.Status(http.StatusOK).JSON(CreateImpressionResponse{Status: "duplicate"})
	}

	h.metrics.ImpressionsArchived.Inc()
	return c.Status(http.StatusCreated).JSON(CreateImpressionResponse{Status: "created"})
}

// BulkCreateImpressions godoc
// @Summary Archive a batch of impressions
// @Tags Impressions
// @Accept json
// @Produce json
// @Param request body BulkCreateImpressionsRequest true "Bulk impression payload"
// @Success 201 {object} BulkCreateImpressionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /impressions/bulk [post]
func (h *ImpressionHandler) BulkCreateImpressions(c *fiber.Ctx) error {
	var req BulkCreateImpressionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	if len(req.Impressions) == 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "impressions_list_required",
		})
	}

	inputs := make([]usecase.StoreImpressionInput, len(req.Impressions))
	for i, imp := range req.Impressions {
		inputs[i] = toInput(imp)
	}

	result, err := h.storeUC.BulkStore(c.UserContext(), usecase.BulkStoreImpressionsInput{
		Impressions: inputs,
	})
	if err != nil {
		return h.storeError(c, err)
	}

	h.metrics.ImpressionsArchived.Add(float64(result.Created))
	return c.Status(http.StatusCreated).JSON(BulkCreateImpressionsResponse{
		Created:    result.Created,
		Duplicates: result.Duplicates,
	})
}

func (h *ImpressionHandler) storeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidImpression),
		errors.Is(err, usecase.ErrFutureTimestamp):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_impression",
			Message: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}

func toInput(req CreateImpressionRequest) usecase.StoreImpressionInput {
	return usecase.StoreImpressionInput{
		ID:         req.ID,
		GroupKey:   req.GroupKey,
		UserID:     req.UserID,
		Timestamp:  req.Timestamp,
		Click:      req.Click,
		Attributes: req.Attributes,
	}
}
