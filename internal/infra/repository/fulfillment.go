package repository

import (
	"context"

	"beat-fulfillment/internal/infra"
	"beat-fulfillment/internal/infra/db"
	"beat-fulfillment/internal/pkg/pgconv"
	"beat-fulfillment/internal/usecase/shared"
)

const recordFulfillmentSQL = `
INSERT INTO fulfillments (session_id, buyer_id, beat_id, license_type, grant_count, first_fulfilled_at, last_fulfilled_at)
VALUES ($1, $2, $3, $4, 1, $5, $5)
ON CONFLICT (session_id) DO UPDATE SET
    grant_count       = fulfillments.grant_count + 1,
    last_fulfilled_at = EXCLUDED.last_fulfilled_at
RETURNING grant_count`

type FulfillmentRepository struct {
	db db.DBTX
}

func NewFulfillmentRepository(dbtx db.DBTX) *FulfillmentRepository {
	return &FulfillmentRepository{db: dbtx}
}

func (r *FulfillmentRepository) Record(ctx context.Context, entry shared.FulfillmentEntry) (int64, error) {
	var grantCount int64
	err := r.db.QueryRow(ctx, recordFulfillmentSQL,
		entry.SessionID,
		pgconv.UUIDToPgtype(entry.BuyerID),
		entry.ItemID.String(),
		entry.LicenseType.String(),
		pgconv.TimeToPgtype(entry.FulfilledAt),
	).Scan(&grantCount)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to record fulfillment", err)
	}
	return grantCount, nil
}
