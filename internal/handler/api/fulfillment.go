package api

import (
	"errors"
	"net/http"

	reqdto "beat-fulfillment/internal/handler/dto/request"
	resdto "beat-fulfillment/internal/handler/dto/response"
	"beat-fulfillment/internal/handler/httperr"
	"beat-fulfillment/internal/handler/middleware"
	"beat-fulfillment/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type FulfillmentHandler struct {
	fulfillmentCommands commands.FulfillmentCommands
}

func NewFulfillmentHandler(fulfillmentCommands commands.FulfillmentCommands) *FulfillmentHandler {
	return &FulfillmentHandler{
		fulfillmentCommands: fulfillmentCommands,
	}
}

// @Summary Fulfill purchase
// @Description Verify a completed checkout session and return a short-lived download URL for the purchased deliverable.
// @Tags fulfillments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.FulfillPurchaseRequest true "Fulfillment request"
// @Success 200 {object} resdto.FulfillmentResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 412 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /fulfillments [post]
func (h *FulfillmentHandler) Fulfill(c *gin.Context) {
	buyerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, commands.ErrUnauthenticated, "You must be logged in.", nil)
		return
	}

	var req reqdto.FulfillPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.fulfillmentCommands.Fulfill(c.Request.Context(), req.SessionID, buyerID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUnauthenticated):
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "You must be logged in.", nil)
		case errors.Is(err, commands.ErrInvalidArgument):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Missing sessionId.", nil)
		case errors.Is(err, commands.ErrSessionNotFound):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Unknown sessionId.", nil)
		case errors.Is(err, commands.ErrPaymentIncomplete):
			httperr.AbortWithError(c, http.StatusPreconditionFailed, err, "Payment not completed.", nil)
		case errors.Is(err, commands.ErrBuyerMismatch):
			httperr.AbortWithError(c, http.StatusForbidden, err, "User mismatch.", nil)
		case errors.Is(err, commands.ErrDeliverableNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Deliverable not found on server.", nil)
		case errors.Is(err, commands.ErrMetadataMissing):
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Missing purchase metadata.", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Unable to fulfill purchase.", nil)
		}
		return
	}

	// the body carries a bearer URL
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, resdto.FromFulfillResult(result))
}
