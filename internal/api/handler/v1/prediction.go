package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/predictifylabs/predictify-api/internal/api/handler/v1/response"
	"github.com/predictifylabs/predictify-api/internal/domain"
	"github.com/predictifylabs/predictify-api/internal/service"
)

type PredictionService interface {
	GeneratePrediction(ctx context.Context, eventID uint) (domain.Prediction, error)
	GetLatestPrediction(ctx context.Context, eventID uint) (domain.Prediction, bool, error)
}

type InsightService interface {
	DescribePrediction(ctx context.Context, eventID uint) string
}

type PredictionHandler struct {
	svc     PredictionService
	insight InsightService
}

func NewPredictionHandler(svc PredictionService, insight InsightService) *PredictionHandler {
	return &PredictionHandler{
		svc:     svc,
		insight: insight,
	}
}

// HandleGetPrediction godoc
// @Summary      Get the latest prediction for an event
// @Tags         predictions
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  domain.Prediction
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /predictions/events/{eventID} [get]
func (h *PredictionHandler) HandleGetPrediction(ctx *gin.Context) {
	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	p, found, err := h.svc.GetLatestPrediction(ctx.Request.Context(), eventID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetPrediction -> h.svc.GetLatestPrediction -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
	if !found {
		response.RenderErr(ctx, response.ErrNotFound("prediction", "eventID", eventID))
		return
	}

	ctx.JSON(http.StatusOK, p)
}

// HandleGeneratePrediction godoc
// @Summary      Compute a new prediction for an event
// @Description  Scores the event as it is now. Earlier predictions are kept.
// @Tags         predictions
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      201      {object}  domain.Prediction
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /predictions/events/{eventID}/generate [post]
// @Security     BearerAuth
func (h *PredictionHandler) HandleGeneratePrediction(ctx *gin.Context) {
	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	p, err := h.svc.GeneratePrediction(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleGeneratePrediction -> h.svc.GeneratePrediction -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, p)
}

// HandleGetInsight godoc
// @Summary      Describe the latest prediction in plain language
// @Description  Always answers 200. When no narrative can be produced the insight is a fixed fallback text.
// @Tags         predictions
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  response.InsightResponse
// @Failure      400      {object}  response.Err
// @Router       /predictions/events/{eventID}/insight [get]
func (h *PredictionHandler) HandleGetInsight(ctx *gin.Context) {
	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ctx.JSON(http.StatusOK, response.InsightResponse{
		EventID: eventID,
		Insight: h.insight.DescribePrediction(ctx.Request.Context(), eventID),
	})
}
