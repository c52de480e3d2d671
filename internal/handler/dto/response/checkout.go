package response

import "beat-fulfillment/internal/usecase/commands"

type CheckoutSessionResponse struct {
	ID string `json:"id"`
}

func FromCheckoutResult(r *commands.CheckoutResult) *CheckoutSessionResponse {
	return &CheckoutSessionResponse{ID: r.SessionID}
}
