package commands

import "beat-fulfillment/internal/pkg/errs"

var (
	// client input
	ErrUnauthenticated = errs.New("unauthenticated")
	ErrInvalidArgument = errs.New("invalid argument")
	ErrSessionNotFound = errs.New("payment session not found")

	// business rule rejections
	ErrPaymentIncomplete = errs.New("payment not completed")
	ErrBuyerMismatch     = errs.New("session belongs to another buyer")
	ErrItemSold          = errs.New("item already sold")

	// server side
	ErrListingNotFound     = errs.New("listing not found")
	ErrDeliverableNotFound = errs.New("deliverable not found")
	ErrMetadataMissing     = errs.New("purchase metadata missing")
	ErrPaymentProvider     = errs.New("payment provider failure")
	ErrStorageUnavailable  = errs.New("object storage failure")
	ErrCatalogUnavailable  = errs.New("catalog store failure")
)
