package response

import (
	"time"

	"beat-fulfillment/internal/usecase/commands"
)

type FulfillmentResponse struct {
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func FromFulfillResult(r *commands.FulfillResult) *FulfillmentResponse {
	return &FulfillmentResponse{
		DownloadURL: r.Grant.URL,
		ExpiresAt:   r.Grant.ExpiresAt,
	}
}
