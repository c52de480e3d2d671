//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"beat-fulfillment/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// SeedListing inserts a beat and its price list. An empty prices map seeds a
// beat with nothing for sale.
func SeedListing(t *testing.T, db DBLike, beatID, title string, prices map[string]int64) {
	t.Helper()
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO beats (id, title) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title",
		beatID, title)
	require.NoError(t, err)

	for license, cents := range prices {
		_, err := db.Exec(ctx, `INSERT INTO beat_prices (beat_id, license_type, price_cents) VALUES ($1, $2, $3)
			ON CONFLICT (beat_id, license_type) DO UPDATE SET price_cents = EXCLUDED.price_cents`,
			beatID, license, cents)
		require.NoError(t, err)
	}
}

// SeedStandardListing seeds a beat priced at the storefront's default tiers.
func SeedStandardListing(t *testing.T, db DBLike, beatID, title string) {
	t.Helper()
	SeedListing(t, db, beatID, title, map[string]int64{
		"mp3":       2999,
		"wav":       4999,
		"trackout":  9999,
		"unlimited": 19999,
		"exclusive": 49999,
	})
}

type SoldState struct {
	IsSold    bool
	SessionID string
	SoldTo    *uuid.UUID
	SoldAt    *time.Time
}

func GetSoldState(t *testing.T, db DBLike, beatID string) SoldState {
	t.Helper()
	var (
		isSold    bool
		sessionID pgtype.Text
		soldTo    pgtype.UUID
		soldAt    pgtype.Timestamptz
	)
	err := db.QueryRow(context.Background(),
		"SELECT is_sold, sold_session_id, sold_to, sold_at FROM beats WHERE id = $1", beatID).
		Scan(&isSold, &sessionID, &soldTo, &soldAt)
	require.NoError(t, err)
	return SoldState{
		IsSold:    isSold,
		SessionID: pgconv.StringFromPgtype(sessionID),
		SoldTo:    pgconv.UUIDPtrFromPgtype(soldTo),
		SoldAt:    pgconv.TimePtrFromPgtype(soldAt),
	}
}

type LedgerRow struct {
	BuyerID     uuid.UUID
	BeatID      string
	LicenseType string
	GrantCount  int64
}

// GetLedgerRow returns nil when the session was never fulfilled.
func GetLedgerRow(t *testing.T, db DBLike, sessionID string) *LedgerRow {
	t.Helper()
	var row LedgerRow
	err := db.QueryRow(context.Background(),
		"SELECT buyer_id, beat_id, license_type, grant_count FROM fulfillments WHERE session_id = $1", sessionID).
		Scan(&row.BuyerID, &row.BeatID, &row.LicenseType, &row.GrantCount)
	if pgconv.IsNoRows(err) {
		return nil
	}
	require.NoError(t, err)
	return &row
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates every table in the public schema.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
