package commands

import (
	"context"
	"errors"
	"log/slog"

	"beat-fulfillment/internal/domain/purchase"
	reqdto "beat-fulfillment/internal/handler/dto/request"
	"beat-fulfillment/internal/infra"
	"beat-fulfillment/internal/pkg/config"
	"beat-fulfillment/internal/pkg/errs"
	"beat-fulfillment/internal/usecase/shared"

	"github.com/google/uuid"
)

type CheckoutResult struct {
	SessionID string
}

type CheckoutCommands interface {
	InitiateCheckout(ctx context.Context, req reqdto.CreateCheckoutSessionRequest, buyerID uuid.UUID) (*CheckoutResult, error)
}

type checkoutCommandsImpl struct {
	uow        shared.UnitOfWork
	payments   shared.PaymentProvider
	recorder   shared.OutcomeRecorder
	storefront config.StorefrontConfig
	currency   string
}

func NewCheckoutCommands(
	uow shared.UnitOfWork,
	payments shared.PaymentProvider,
	recorder shared.OutcomeRecorder,
	cfg config.Config,
) CheckoutCommands {
	return &checkoutCommandsImpl{
		uow:        uow,
		payments:   payments,
		recorder:   recorder,
		storefront: cfg.Storefront,
		currency:   cfg.Stripe.Currency,
	}
}

func (c *checkoutCommandsImpl) InitiateCheckout(
	ctx context.Context,
	req reqdto.CreateCheckoutSessionRequest,
	buyerID uuid.UUID,
) (*CheckoutResult, error) {
	result, outcome, err := c.initiate(ctx, req, buyerID)
	c.recorder.CheckoutOutcome(outcome)
	return result, err
}

func (c *checkoutCommandsImpl) initiate(
	ctx context.Context,
	req reqdto.CreateCheckoutSessionRequest,
	buyerID uuid.UUID,
) (*CheckoutResult, string, error) {
	if buyerID == uuid.Nil {
		return nil, "unauthenticated", ErrUnauthenticated
	}

	itemID, err := purchase.NewItemID(req.ItemID)
	if err != nil {
		return nil, "invalid_argument", errs.Mark(err, ErrInvalidArgument)
	}
	license, err := purchase.ParseLicenseType(req.LicenseType)
	if err != nil {
		return nil, "invalid_argument", errs.Mark(err, ErrInvalidArgument)
	}

	intent, err := c.resolveIntent(ctx, itemID, license, req, buyerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrItemSold):
			return nil, "item_sold", err
		case errors.Is(err, ErrListingNotFound):
			return nil, "listing_not_found", err
		default:
			return nil, "catalog_error", err
		}
	}

	sessionID, err := c.payments.CreateCheckoutSession(ctx, shared.CheckoutSessionInput{
		Intent:     intent,
		Currency:   c.currency,
		SuccessURL: c.storefront.SuccessURL(),
		CancelURL:  c.storefront.CancelURL(),
	})
	if err != nil {
		slog.Error("failed to create checkout session",
			"item_id", itemID.String(),
			"license_type", license.String(),
			"buyer_id", buyerID.String(),
			"error", err.Error())
		return nil, "provider_error", errs.Mark(err, ErrPaymentProvider)
	}

	slog.Info("checkout session created",
		"session_id", sessionID,
		"item_id", itemID.String(),
		"license_type", license.String(),
		"price_cents", intent.PriceMinorUnits())

	return &CheckoutResult{SessionID: sessionID}, "created", nil
}

// resolveIntent prices the purchase from the catalog. The client's price and
// title are display hints and never reach the payment provider.
func (c *checkoutCommandsImpl) resolveIntent(
	ctx context.Context,
	itemID purchase.ItemID,
	license purchase.LicenseType,
	req reqdto.CreateCheckoutSessionRequest,
	buyerID uuid.UUID,
) (*purchase.PurchaseIntent, error) {
	listing, err := c.uow.CommandReads().ListingByID(ctx, itemID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrListingNotFound)
		}
		return nil, errs.Mark(err, ErrCatalogUnavailable)
	}

	price, err := listing.Quote(license)
	if err != nil {
		if errors.Is(err, purchase.ErrAlreadySold) {
			return nil, errs.Mark(err, ErrItemSold)
		}
		return nil, errs.Mark(err, ErrListingNotFound)
	}

	if req.PriceInCents != 0 && req.PriceInCents != price {
		slog.Warn("client price differs from catalog price; using catalog",
			"item_id", itemID.String(),
			"license_type", license.String(),
			"client_price_cents", req.PriceInCents,
			"catalog_price_cents", price)
	}

	title := listing.Title
	if title == "" {
		title = req.TrimmedSongName()
	}
	if title == "" {
		title = itemID.String()
	}

	intent, err := purchase.NewPurchaseIntent(itemID, license, price, title, buyerID)
	if err != nil {
		return nil, errs.Mark(err, ErrCatalogUnavailable)
	}
	return intent, nil
}
