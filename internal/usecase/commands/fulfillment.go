package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"beat-fulfillment/internal/domain/purchase"
	"beat-fulfillment/internal/pkg/clock"
	"beat-fulfillment/internal/pkg/errs"
	"beat-fulfillment/internal/usecase/shared"

	"github.com/google/uuid"
)

type FulfillResult struct {
	Grant       purchase.AccessGrant
	ItemID      purchase.ItemID
	LicenseType purchase.LicenseType
}

type FulfillmentCommands interface {
	Fulfill(ctx context.Context, sessionID string, buyerID uuid.UUID) (*FulfillResult, error)
}

type fulfillmentCommandsImpl struct {
	uow      shared.UnitOfWork
	payments shared.PaymentProvider
	store    shared.ObjectStore
	recorder shared.OutcomeRecorder
	clock    clock.Clock
}

func NewFulfillmentCommands(
	uow shared.UnitOfWork,
	payments shared.PaymentProvider,
	store shared.ObjectStore,
	recorder shared.OutcomeRecorder,
	clock clock.Clock,
) FulfillmentCommands {
	return &fulfillmentCommandsImpl{
		uow:      uow,
		payments: payments,
		store:    store,
		recorder: recorder,
		clock:    clock,
	}
}

// Fulfill verifies a redirect back from checkout and releases the purchased
// deliverable. Steps run strictly in order: payment confirmed, metadata intact,
// buyer bound, deliverable present, grant issued, then bookkeeping.
func (f *fulfillmentCommandsImpl) Fulfill(ctx context.Context, sessionID string, buyerID uuid.UUID) (*FulfillResult, error) {
	result, err := f.fulfill(ctx, sessionID, buyerID)

	license := purchase.LicenseType("")
	if result != nil {
		license = result.LicenseType
	}
	f.recorder.FulfillmentOutcome(fulfillmentOutcome(err), license)

	return result, err
}

func (f *fulfillmentCommandsImpl) fulfill(ctx context.Context, sessionID string, buyerID uuid.UUID) (*FulfillResult, error) {
	if buyerID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrInvalidArgument
	}

	session, err := f.payments.FetchSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, shared.ErrProviderSessionNotFound) {
			return nil, errs.Mark(err, ErrSessionNotFound)
		}
		slog.Error("failed to fetch payment session", "session_id", sessionID, "error", err.Error())
		return nil, errs.Mark(err, ErrPaymentProvider)
	}
	if !session.Status.IsPaid() {
		slog.Info("fulfillment refused: payment not completed", "session_id", sessionID, "status", string(session.Status))
		return nil, ErrPaymentIncomplete
	}

	meta, err := purchase.MetadataFromMap(session.Metadata)
	if err != nil {
		slog.Error("paid session carries no usable purchase metadata", "session_id", sessionID, "error", err.Error())
		return nil, errs.Mark(err, ErrMetadataMissing)
	}
	if meta.BuyerID != buyerID {
		slog.Warn("fulfillment refused: buyer mismatch",
			"session_id", sessionID,
			"caller_id", buyerID.String())
		return nil, ErrBuyerMismatch
	}

	grant, err := f.issueGrant(ctx, meta)
	if err != nil {
		return nil, err
	}

	if err := f.recordFulfillment(ctx, session.ID, meta); err != nil {
		return nil, err
	}

	return &FulfillResult{
		Grant:       grant,
		ItemID:      meta.ItemID,
		LicenseType: meta.LicenseType,
	}, nil
}

func (f *fulfillmentCommandsImpl) issueGrant(ctx context.Context, meta purchase.SessionMetadata) (purchase.AccessGrant, error) {
	path := purchase.DeliverablePath(meta.ItemID, meta.LicenseType)

	exists, err := f.store.Exists(ctx, path)
	if err != nil {
		slog.Error("failed to check deliverable", "path", path, "error", err.Error())
		return purchase.AccessGrant{}, errs.Mark(err, ErrStorageUnavailable)
	}
	if !exists {
		// catalog sells something the content bucket does not hold
		slog.Error("deliverable not found", "path", path, "item_id", meta.ItemID.String())
		return purchase.AccessGrant{}, ErrDeliverableNotFound
	}

	now := f.clock.Now()
	grant := purchase.NewAccessGrant("", now)
	url, err := f.store.SignedReadURL(ctx, path, grant.ExpiresAt)
	if err != nil {
		slog.Error("failed to sign deliverable url", "path", path, "error", err.Error())
		return purchase.AccessGrant{}, errs.Mark(err, ErrStorageUnavailable)
	}
	grant.URL = url

	return grant, nil
}

// recordFulfillment writes the ledger entry and, for exclusive tiers, takes the
// item off the market. Only the exclusive write is allowed to fail the
// request; a retry re-applies both writes safely.
func (f *fulfillmentCommandsImpl) recordFulfillment(ctx context.Context, sessionID string, meta purchase.SessionMetadata) error {
	now := f.clock.Now()
	entry := shared.FulfillmentEntry{
		SessionID:   sessionID,
		BuyerID:     meta.BuyerID,
		ItemID:      meta.ItemID,
		LicenseType: meta.LicenseType,
		FulfilledAt: now,
	}

	var grants int64
	err := f.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if meta.LicenseType.IsExclusive() {
			sale := shared.SaleRecord{SessionID: sessionID, BuyerID: meta.BuyerID, SoldAt: now}
			if err := tx.Catalog().MarkSold(ctx, meta.ItemID, sale); err != nil {
				return err
			}
		}
		count, err := tx.Fulfillments().Record(ctx, entry)
		if err != nil {
			return err
		}
		grants = count
		return nil
	})
	if err != nil {
		if meta.LicenseType.IsExclusive() {
			slog.Error("failed to mark exclusive item sold",
				"session_id", sessionID,
				"item_id", meta.ItemID.String(),
				"error", err.Error())
			return errs.Mark(err, ErrCatalogUnavailable)
		}
		slog.Warn("failed to record fulfillment", "session_id", sessionID, "error", err.Error())
		return nil
	}

	if grants > 1 {
		slog.Info("session fulfilled again", "session_id", sessionID, "grant_count", grants)
	}
	return nil
}

func fulfillmentOutcome(err error) string {
	switch {
	case err == nil:
		return "granted"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrSessionNotFound):
		return "invalid_argument"
	case errors.Is(err, ErrPaymentIncomplete):
		return "payment_incomplete"
	case errors.Is(err, ErrBuyerMismatch):
		return "permission_denied"
	case errors.Is(err, ErrDeliverableNotFound):
		return "deliverable_missing"
	default:
		return "internal_error"
	}
}
