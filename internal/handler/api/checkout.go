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

type CheckoutHandler struct {
	checkoutCommands commands.CheckoutCommands
}

func NewCheckoutHandler(checkoutCommands commands.CheckoutCommands) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutCommands: checkoutCommands,
	}
}

// @Summary Create checkout session
// @Description Start a hosted payment checkout for one beat at one license tier. The charge is priced from the catalog.
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateCheckoutSessionRequest true "Checkout request"
// @Success 201 {object} resdto.CheckoutSessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 412 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /checkout/sessions [post]
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	buyerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, commands.ErrUnauthenticated, "You must be logged in to make a purchase.", nil)
		return
	}

	var req reqdto.CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.checkoutCommands.InitiateCheckout(c.Request.Context(), req, buyerID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUnauthenticated):
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "You must be logged in to make a purchase.", nil)
		case errors.Is(err, commands.ErrInvalidArgument):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid beat or license type.", nil)
		case errors.Is(err, commands.ErrItemSold):
			httperr.AbortWithError(c, http.StatusPreconditionFailed, err, "This beat has already been sold.", nil)
		case errors.Is(err, commands.ErrListingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "This beat is not available at that license.", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Unable to create Stripe checkout session.", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromCheckoutResult(result))
}
