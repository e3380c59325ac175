package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/predictifylabs/predictify-api/internal/api/handler/v1/request"
	"github.com/predictifylabs/predictify-api/internal/api/handler/v1/response"
)

type AIService interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateEventDescription(ctx context.Context, eventContext string) (string, error)
}

type AIHandler struct {
	svc   AIService
	model string
}

func NewAIHandler(svc AIService, model string) *AIHandler {
	return &AIHandler{
		svc:   svc,
		model: model,
	}
}

// HandleGenerateText godoc
// @Summary      Generate text from a custom prompt
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request  body      request.GenerateTextRequest  true  "Prompt"
// @Success      200      {object}  response.GenerateTextResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      502      {object}  response.Err
// @Router       /ai/generate [post]
// @Security     BearerAuth
func (h *AIHandler) HandleGenerateText(ctx *gin.Context) {
	var req request.GenerateTextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	text, err := h.svc.GenerateText(ctx.Request.Context(), req.Prompt)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadGateway(fmt.Errorf("v1.HandleGenerateText -> h.svc.GenerateText -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, h.generated(text))
}

// HandleGenerateEventDescription godoc
// @Summary      Draft a description for an event
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request  body      request.GenerateEventDescriptionRequest  true  "Event context"
// @Success      200      {object}  response.GenerateTextResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      502      {object}  response.Err
// @Router       /ai/generate/event-description [post]
// @Security     BearerAuth
func (h *AIHandler) HandleGenerateEventDescription(ctx *gin.Context) {
	var req request.GenerateEventDescriptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	text, err := h.svc.GenerateEventDescription(ctx.Request.Context(), req.EventContext())
	if err != nil {
		err = fmt.Errorf("v1.HandleGenerateEventDescription -> h.svc.GenerateEventDescription -> %w", err)
		response.RenderErr(ctx, response.ErrBadGateway(err))
		return
	}

	ctx.JSON(http.StatusOK, h.generated(text))
}

func (h *AIHandler) generated(text string) response.GenerateTextResponse {
	return response.GenerateTextResponse{
		GeneratedText: text,
		Model:         h.model,
		GeneratedAt:   time.Now().UTC(),
	}
}
