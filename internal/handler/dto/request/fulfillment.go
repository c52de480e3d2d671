package request

type FulfillPurchaseRequest struct {
	SessionID string `json:"sessionId" binding:"max=255"`
}
