package shared

import (
	"time"

	"beat-fulfillment/internal/domain/purchase"

	"github.com/google/uuid"
)

type SaleRecord struct {
	SessionID string
	BuyerID   uuid.UUID
	SoldAt    time.Time
}

type FulfillmentEntry struct {
	SessionID   string
	BuyerID     uuid.UUID
	ItemID      purchase.ItemID
	LicenseType purchase.LicenseType
	FulfilledAt time.Time
}
