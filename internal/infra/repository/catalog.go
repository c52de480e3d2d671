package repository

import (
	"context"

	"beat-fulfillment/internal/domain/purchase"
	"beat-fulfillment/internal/infra"
	"beat-fulfillment/internal/infra/db"
	"beat-fulfillment/internal/pkg/pgconv"
	"beat-fulfillment/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgtype"
)

const findListingSQL = `
SELECT b.id, b.title, b.is_sold, p.license_type, p.price_cents
FROM beats b
LEFT JOIN beat_prices p ON p.beat_id = b.id
WHERE b.id = $1`

// Upsert so a sale is recorded even when ingestion never created the row.
// The first sale's session, buyer and time win; is_sold is never cleared.
const markSoldSQL = `
INSERT INTO beats (id, is_sold, sold_session_id, sold_to, sold_at)
VALUES ($1, TRUE, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
    is_sold         = TRUE,
    sold_session_id = COALESCE(beats.sold_session_id, EXCLUDED.sold_session_id),
    sold_to         = COALESCE(beats.sold_to, EXCLUDED.sold_to),
    sold_at         = COALESCE(beats.sold_at, EXCLUDED.sold_at),
    updated_at      = now()`

type CatalogRepository struct {
	db db.DBTX
}

func NewCatalogRepository(dbtx db.DBTX) *CatalogRepository {
	return &CatalogRepository{db: dbtx}
}

func (r *CatalogRepository) FindListing(ctx context.Context, itemID purchase.ItemID) (*purchase.Listing, error) {
	rows, err := r.db.Query(ctx, findListingSQL, itemID.String())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query listing", err)
	}
	defer rows.Close()

	var listing *purchase.Listing
	for rows.Next() {
		var (
			id      string
			title   string
			isSold  bool
			license pgtype.Text
			price   pgtype.Int8
		)
		if err := rows.Scan(&id, &title, &isSold, &license, &price); err != nil {
			return nil, infra.WrapRepoErr("failed to scan listing", err)
		}

		if listing == nil {
			listing = &purchase.Listing{
				ItemID: purchase.ItemID(id),
				Title:  title,
				Sold:   isSold,
				Prices: make(map[purchase.LicenseType]int64),
			}
		}
		if license.Valid && price.Valid {
			listing.Prices[purchase.LicenseType(pgconv.StringFromPgtype(license))] = price.Int64
		}
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate listing", err)
	}

	if listing == nil {
		return nil, infra.WrapRepoErr("listing not found", nil, infra.KindNotFound)
	}
	return listing, nil
}

func (r *CatalogRepository) MarkSold(ctx context.Context, itemID purchase.ItemID, sale shared.SaleRecord) error {
	_, err := r.db.Exec(ctx, markSoldSQL,
		itemID.String(),
		pgconv.StringToPgtype(sale.SessionID),
		pgconv.UUIDToPgtype(sale.BuyerID),
		pgconv.TimeToPgtype(sale.SoldAt),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark item sold", err)
	}
	return nil
}
