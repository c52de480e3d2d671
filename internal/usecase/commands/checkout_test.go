//go:build unit

package commands_test

import (
	"context"
	"testing"

	"beat-fulfillment/internal/domain/purchase"
	"beat-fulfillment/internal/infra"
	"beat-fulfillment/internal/pkg/config"
	"beat-fulfillment/internal/usecase/commands"
	"beat-fulfillment/internal/usecase/shared"
	"beat-fulfillment/tests/common/builder"
	sharedmock "beat-fulfillment/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CheckoutCommandsTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	uow      *sharedmock.MockUnitOfWork
	reads    *sharedmock.MockCommandReads
	payments *sharedmock.MockPaymentProvider
	recorder *sharedmock.MockOutcomeRecorder
	sut      commands.CheckoutCommands
}

func (s *CheckoutCommandsTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.uow = sharedmock.NewMockUnitOfWork(s.ctrl)
	s.reads = sharedmock.NewMockCommandReads(s.ctrl)
	s.payments = sharedmock.NewMockPaymentProvider(s.ctrl)
	s.recorder = sharedmock.NewMockOutcomeRecorder(s.ctrl)
	s.uow.EXPECT().CommandReads().Return(s.reads).AnyTimes()
	s.sut = commands.NewCheckoutCommands(s.uow, s.payments, s.recorder, config.NewTestConfig())
}

func (s *CheckoutCommandsTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestCheckoutCommandsSuite(t *testing.T) {
	suite.Run(t, new(CheckoutCommandsTestSuite))
}

func (s *CheckoutCommandsTestSuite) TestInitiateCheckout() {
	ctx := context.Background()

	s.Run("success: charges the catalog price with metadata bound to the buyer", func() {
		b := builder.NewPurchaseBuilder()
		s.reads.EXPECT().ListingByID(gomock.Any(), purchase.ItemID("trap-lead-01")).Return(b.BuildListing(), nil)
		s.payments.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in shared.CheckoutSessionInput) (string, error) {
				s.Equal(int64(2999), in.Intent.PriceMinorUnits())
				s.Equal("Midnight (mp3 Lease)", in.Intent.ProductName())
				s.Equal("Beat ID: trap-lead-01", in.Intent.ProductDescription())
				s.Equal(purchase.SessionMetadata{BuyerID: b.BuyerID, ItemID: "trap-lead-01", LicenseType: purchase.LicenseMP3}, in.Intent.Metadata())
				s.Equal("usd", in.Currency)
				s.Equal("https://store.example.test?purchase_success=true&session_id={CHECKOUT_SESSION_ID}", in.SuccessURL)
				s.Equal("https://store.example.test?purchase_canceled=true", in.CancelURL)
				return "cs_test_123", nil
			})
		s.recorder.EXPECT().CheckoutOutcome("created")

		result, err := s.sut.InitiateCheckout(ctx, b.BuildDTO(), b.BuyerID)

		s.Require().NoError(err)
		s.Equal("cs_test_123", result.SessionID)
	})

	s.Run("success: tampered client price is ignored", func() {
		b := builder.NewPurchaseBuilder().WithPrice(1)
		s.reads.EXPECT().ListingByID(gomock.Any(), gomock.Any()).Return(b.BuildListing(), nil)
		s.payments.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in shared.CheckoutSessionInput) (string, error) {
				s.Equal(int64(2999), in.Intent.PriceMinorUnits())
				return "cs_test_124", nil
			})
		s.recorder.EXPECT().CheckoutOutcome("created")

		_, err := s.sut.InitiateCheckout(ctx, b.BuildDTO(), b.BuyerID)
		s.Require().NoError(err)
	})

	s.Run("success: title falls back to song name then item id", func() {
		b := builder.NewPurchaseBuilder()
		listing := b.BuildListing()
		listing.Title = ""
		s.reads.EXPECT().ListingByID(gomock.Any(), gomock.Any()).Return(listing, nil)
		s.payments.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in shared.CheckoutSessionInput) (string, error) {
				s.Equal("Midnight (mp3 Lease)", in.Intent.ProductName())
				return "cs_test_125", nil
			})
		s.recorder.EXPECT().CheckoutOutcome("created")

		_, err := s.sut.InitiateCheckout(ctx, b.BuildDTO(), b.BuyerID)
		s.Require().NoError(err)

		b.WithSongName("  ")
		s.reads.EXPECT().ListingByID(gomock.Any(), gomock.Any()).Return(listing, nil)
		s.payments.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in shared.CheckoutSessionInput) (string, error) {
				s.Equal("trap-lead-01 (mp3 Lease)", in.Intent.ProductName())
				return "cs_test_126", nil
			})
		s.recorder.EXPECT().CheckoutOutcome("created")

		_, err = s.sut.InitiateCheckout(ctx, b.BuildDTO(), b.BuyerID)
		s.Require().NoError(err)
	})

	s.Run("error: unauthenticated caller touches nothing", func() {
		s.recorder.EXPECT().CheckoutOutcome("unauthenticated")

		_, err := s.sut.InitiateCheckout(ctx, builder.NewPurchaseBuilder().BuildDTO(), uuid.Nil)
		s.ErrorIs(err, commands.ErrUnauthenticated)
	})

	s.Run("error: invalid input", func() {
		cases := []struct {
			name   string
			mutate func(*builder.PurchaseBuilder)
		}{
			{name: "unknown license", mutate: func(b *builder.PurchaseBuilder) { b.WithLicense("platinum") }},
			{name: "path in item id", mutate: func(b *builder.PurchaseBuilder) { b.WithItemID("../etc") }},
		}
		for _, c := range cases {
			s.Run(c.name, func() {
				b := builder.NewPurchaseBuilder().With(c.mutate)
				s.recorder.EXPECT().CheckoutOutcome("invalid_argument")

				_, err := s.sut.InitiateCheckout(ctx, b.BuildDTO(), b.BuyerID)
				s.ErrorIs(err, commands.ErrInvalidArgument)
			})
		}
	})

	s.Run("error: sold item blocks every tier", func() {
		b := builder.NewPurchaseBuilder()
		listing := b.BuildListing()
		listing.Sold = true
		s.reads.EXPECT().ListingByID(gomock.Any(), gomock.Any()).Return(listing, nil)
		s.recorder.EXPECT().CheckoutOutcome("item_sold")

		_, err := s.sut.InitiateCheckout(ctx, b.BuildDTO(), b.BuyerID)
		s.ErrorIs(err, commands.ErrItemSold)
	})

	s.Run("error: tier not listed", func() {
		b := builder.NewPurchaseBuilder().WithLicense("trackout")
		s.reads.EXPECT().ListingByID(gomock.Any(), gomock.Any()).Return(b.BuildListing(), nil)
		s.recorder.EXPECT().CheckoutOutcome("listing_not_found")

		_, err := s.sut.InitiateCheckout(ctx, b.BuildDTO(), b.BuyerID)
		s.ErrorIs(err, commands.ErrListingNotFound)
	})

	s.Run("error: unknown item", func() {
		b := builder.NewPurchaseBuilder()
		s.reads.EXPECT().ListingByID(gomock.Any(), gomock.Any()).
			Return(nil, infra.WrapRepoErr("listing not found", nil, infra.KindNotFound))
		s.recorder.EXPECT().CheckoutOutcome("listing_not_found")

		_, err := s.sut.InitiateCheckout(ctx, b.BuildDTO(), b.BuyerID)
		s.ErrorIs(err, commands.ErrListingNotFound)
	})

	s.Run("error: catalog unavailable", func() {
		b := builder.NewPurchaseBuilder()
		s.reads.EXPECT().ListingByID(gomock.Any(), gomock.Any()).
			Return(nil, infra.WrapRepoErr("failed to query listing", assert.AnError))
		s.recorder.EXPECT().CheckoutOutcome("catalog_error")

		_, err := s.sut.InitiateCheckout(ctx, b.BuildDTO(), b.BuyerID)
		s.ErrorIs(err, commands.ErrCatalogUnavailable)
	})

	s.Run("error: provider failure is internal", func() {
		b := builder.NewPurchaseBuilder()
		s.reads.EXPECT().ListingByID(gomock.Any(), gomock.Any()).Return(b.BuildListing(), nil)
		s.payments.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).Return("", assert.AnError)
		s.recorder.EXPECT().CheckoutOutcome("provider_error")

		_, err := s.sut.InitiateCheckout(ctx, b.BuildDTO(), b.BuyerID)
		s.ErrorIs(err, commands.ErrPaymentProvider)
	})
}
