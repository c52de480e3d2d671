package shared

import (
	"context"

	"beat-fulfillment/internal/domain/purchase"
	"beat-fulfillment/internal/infra/db"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Catalog() CatalogRepository
	Fulfillments() FulfillmentRepository
	DB() db.DBTX
}

type CommandReads interface {
	ListingByID(ctx context.Context, itemID purchase.ItemID) (*purchase.Listing, error)
}

type CatalogRepository interface {
	// MarkSold never clears a sold flag and is safe to re-apply.
	MarkSold(ctx context.Context, itemID purchase.ItemID, sale SaleRecord) error
}

type FulfillmentRepository interface {
	// Record upserts the ledger row for the session and returns how many grants it has produced.
	Record(ctx context.Context, entry FulfillmentEntry) (int64, error)
}
