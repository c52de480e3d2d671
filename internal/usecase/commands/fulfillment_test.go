//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"beat-fulfillment/internal/domain/purchase"
	"beat-fulfillment/internal/pkg/clock"
	"beat-fulfillment/internal/usecase/commands"
	"beat-fulfillment/internal/usecase/shared"
	"beat-fulfillment/tests/common/builder"
	sharedmock "beat-fulfillment/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const testSessionID = "cs_test_123"

type FulfillmentCommandsTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	uow      *sharedmock.MockUnitOfWork
	tx       *sharedmock.MockTx
	catalog  *sharedmock.MockCatalogRepository
	ledger   *sharedmock.MockFulfillmentRepository
	payments *sharedmock.MockPaymentProvider
	store    *sharedmock.MockObjectStore
	recorder *sharedmock.MockOutcomeRecorder
	now      time.Time
	sut      commands.FulfillmentCommands
}

func (s *FulfillmentCommandsTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.uow = sharedmock.NewMockUnitOfWork(s.ctrl)
	s.tx = sharedmock.NewMockTx(s.ctrl)
	s.catalog = sharedmock.NewMockCatalogRepository(s.ctrl)
	s.ledger = sharedmock.NewMockFulfillmentRepository(s.ctrl)
	s.payments = sharedmock.NewMockPaymentProvider(s.ctrl)
	s.store = sharedmock.NewMockObjectStore(s.ctrl)
	s.recorder = sharedmock.NewMockOutcomeRecorder(s.ctrl)
	s.now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	s.tx.EXPECT().Catalog().Return(s.catalog).AnyTimes()
	s.tx.EXPECT().Fulfillments().Return(s.ledger).AnyTimes()

	s.sut = commands.NewFulfillmentCommands(s.uow, s.payments, s.store, s.recorder, clock.NewMockClock(s.now))
}

func (s *FulfillmentCommandsTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestFulfillmentCommandsSuite(t *testing.T) {
	suite.Run(t, new(FulfillmentCommandsTestSuite))
}

func (s *FulfillmentCommandsTestSuite) expectTransaction() {
	s.uow.EXPECT().Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, s.tx)
		})
}

func (s *FulfillmentCommandsTestSuite) expectGrant(b *builder.PurchaseBuilder) {
	path := b.DeliverablePath()
	s.store.EXPECT().Exists(gomock.Any(), path).Return(true, nil)
	s.store.EXPECT().SignedReadURL(gomock.Any(), path, s.now.Add(purchase.GrantTTL)).
		Return("https://signed.example.test/"+path, nil)
}

func (s *FulfillmentCommandsTestSuite) TestFulfill() {
	ctx := context.Background()

	s.Run("success: mp3 lease returns a ten minute grant", func() {
		b := builder.NewPurchaseBuilder()
		s.payments.EXPECT().FetchSession(gomock.Any(), testSessionID).Return(b.BuildPaidSession(testSessionID), nil)
		s.expectGrant(b)
		s.expectTransaction()
		s.ledger.EXPECT().Record(gomock.Any(), shared.FulfillmentEntry{
			SessionID:   testSessionID,
			BuyerID:     b.BuyerID,
			ItemID:      "trap-lead-01",
			LicenseType: purchase.LicenseMP3,
			FulfilledAt: s.now,
		}).Return(int64(1), nil)
		s.recorder.EXPECT().FulfillmentOutcome("granted", purchase.LicenseMP3)

		result, err := s.sut.Fulfill(ctx, testSessionID, b.BuyerID)

		s.Require().NoError(err)
		s.Equal("https://signed.example.test/deliverables/trap-lead-01/mp3.zip", result.Grant.URL)
		s.Equal(s.now.Add(10*time.Minute), result.Grant.ExpiresAt)
		s.Equal(purchase.LicenseMP3, result.LicenseType)
	})

	s.Run("success: session id is trimmed", func() {
		b := builder.NewPurchaseBuilder()
		s.payments.EXPECT().FetchSession(gomock.Any(), testSessionID).Return(b.BuildPaidSession(testSessionID), nil)
		s.expectGrant(b)
		s.expectTransaction()
		s.ledger.EXPECT().Record(gomock.Any(), gomock.Any()).Return(int64(1), nil)
		s.recorder.EXPECT().FulfillmentOutcome("granted", purchase.LicenseMP3)

		_, err := s.sut.Fulfill(ctx, "  "+testSessionID+"\n", b.BuyerID)
		s.Require().NoError(err)
	})

	s.Run("success: exclusive marks the item sold before recording", func() {
		b := builder.NewPurchaseBuilder().AsExclusive()
		s.payments.EXPECT().FetchSession(gomock.Any(), testSessionID).Return(b.BuildPaidSession(testSessionID), nil)
		s.expectGrant(b)
		s.expectTransaction()
		gomock.InOrder(
			s.catalog.EXPECT().MarkSold(gomock.Any(), purchase.ItemID("trap-lead-01"), shared.SaleRecord{
				SessionID: testSessionID,
				BuyerID:   b.BuyerID,
				SoldAt:    s.now,
			}).Return(nil),
			s.ledger.EXPECT().Record(gomock.Any(), gomock.Any()).Return(int64(1), nil),
		)
		s.recorder.EXPECT().FulfillmentOutcome("granted", purchase.LicenseExclusive)

		result, err := s.sut.Fulfill(ctx, testSessionID, b.BuyerID)

		s.Require().NoError(err)
		s.Equal(purchase.LicenseExclusive, result.LicenseType)
	})

	s.Run("success: fulfilling an exclusive session twice re-applies the sale", func() {
		b := builder.NewPurchaseBuilder().AsExclusive()
		session := b.BuildPaidSession(testSessionID)
		path := b.DeliverablePath()

		s.payments.EXPECT().FetchSession(gomock.Any(), testSessionID).Return(session, nil).Times(2)
		s.store.EXPECT().Exists(gomock.Any(), path).Return(true, nil).Times(2)
		s.store.EXPECT().SignedReadURL(gomock.Any(), path, gomock.Any()).Return("https://signed.example.test/x", nil).Times(2)
		s.uow.EXPECT().Within(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
				return fn(ctx, s.tx)
			}).Times(2)
		s.catalog.EXPECT().MarkSold(gomock.Any(), purchase.ItemID("trap-lead-01"), gomock.Any()).Return(nil).Times(2)
		gomock.InOrder(
			s.ledger.EXPECT().Record(gomock.Any(), gomock.Any()).Return(int64(1), nil),
			s.ledger.EXPECT().Record(gomock.Any(), gomock.Any()).Return(int64(2), nil),
		)
		s.recorder.EXPECT().FulfillmentOutcome("granted", purchase.LicenseExclusive).Times(2)

		_, err := s.sut.Fulfill(ctx, testSessionID, b.BuyerID)
		s.Require().NoError(err)
		_, err = s.sut.Fulfill(ctx, testSessionID, b.BuyerID)
		s.Require().NoError(err)
	})

	s.Run("success: non-exclusive ledger failure still returns the grant", func() {
		b := builder.NewPurchaseBuilder().WithLicense("wav")
		s.payments.EXPECT().FetchSession(gomock.Any(), testSessionID).Return(b.BuildPaidSession(testSessionID), nil)
		s.expectGrant(b)
		s.expectTransaction()
		s.ledger.EXPECT().Record(gomock.Any(), gomock.Any()).Return(int64(0), assert.AnError)
		s.recorder.EXPECT().FulfillmentOutcome("granted", purchase.LicenseWAV)

		result, err := s.sut.Fulfill(ctx, testSessionID, b.BuyerID)

		s.Require().NoError(err)
		s.NotEmpty(result.Grant.URL)
	})

	s.Run("error: empty session id never reaches the provider", func() {
		s.recorder.EXPECT().FulfillmentOutcome("invalid_argument", purchase.LicenseType(""))

		_, err := s.sut.Fulfill(ctx, "   ", uuid.New())
		s.ErrorIs(err, commands.ErrInvalidArgument)
	})

	s.Run("error: unauthenticated caller touches nothing", func() {
		s.recorder.EXPECT().FulfillmentOutcome("unauthenticated", purchase.LicenseType(""))

		_, err := s.sut.Fulfill(ctx, testSessionID, uuid.Nil)
		s.ErrorIs(err, commands.ErrUnauthenticated)
	})

	s.Run("error: unknown session", func() {
		s.payments.EXPECT().FetchSession(gomock.Any(), "cs_bogus").Return(nil, shared.ErrProviderSessionNotFound)
		s.recorder.EXPECT().FulfillmentOutcome("invalid_argument", purchase.LicenseType(""))

		_, err := s.sut.Fulfill(ctx, "cs_bogus", uuid.New())
		s.ErrorIs(err, commands.ErrSessionNotFound)
	})

	s.Run("error: provider failure", func() {
		s.payments.EXPECT().FetchSession(gomock.Any(), testSessionID).Return(nil, assert.AnError)
		s.recorder.EXPECT().FulfillmentOutcome("internal_error", purchase.LicenseType(""))

		_, err := s.sut.Fulfill(ctx, testSessionID, uuid.New())
		s.ErrorIs(err, commands.ErrPaymentProvider)
	})

	s.Run("error: unpaid session gets no grant", func() {
		for _, status := range []purchase.PaymentStatus{purchase.PaymentStatusUnpaid, purchase.PaymentStatusNoPaymentRequired} {
			b := builder.NewPurchaseBuilder()
			s.payments.EXPECT().FetchSession(gomock.Any(), testSessionID).Return(b.BuildSession(testSessionID, status), nil)
			s.recorder.EXPECT().FulfillmentOutcome("payment_incomplete", purchase.LicenseType(""))

			_, err := s.sut.Fulfill(ctx, testSessionID, b.BuyerID)
			s.ErrorIs(err, commands.ErrPaymentIncomplete)
		}
	})

	s.Run("error: another buyer's session", func() {
		b := builder.NewPurchaseBuilder()
		s.payments.EXPECT().FetchSession(gomock.Any(), testSessionID).Return(b.BuildPaidSession(testSessionID), nil)
		s.recorder.EXPECT().FulfillmentOutcome("permission_denied", purchase.LicenseType(""))

		_, err := s.sut.Fulfill(ctx, testSessionID, uuid.New())
		s.ErrorIs(err, commands.ErrBuyerMismatch)
	})

	s.Run("error: paid session without metadata", func() {
		b := builder.NewPurchaseBuilder()
		session := b.BuildPaidSession(testSessionID)
		delete(session.Metadata, purchase.MetadataKeyLicenseType)
		s.payments.EXPECT().FetchSession(gomock.Any(), testSessionID).Return(session, nil)
		s.recorder.EXPECT().FulfillmentOutcome("internal_error", purchase.LicenseType(""))

		_, err := s.sut.Fulfill(ctx, testSessionID, b.BuyerID)
		s.ErrorIs(err, commands.ErrMetadataMissing)
	})

	s.Run("error: deliverable missing from storage", func() {
		b := builder.NewPurchaseBuilder()
		s.payments.EXPECT().FetchSession(gomock.Any(), testSessionID).Return(b.BuildPaidSession(testSessionID), nil)
		s.store.EXPECT().Exists(gomock.Any(), b.DeliverablePath()).Return(false, nil)
		s.recorder.EXPECT().FulfillmentOutcome("deliverable_missing", purchase.LicenseType(""))

		_, err := s.sut.Fulfill(ctx, testSessionID, b.BuyerID)
		s.ErrorIs(err, commands.ErrDeliverableNotFound)
		s.NotContains(err.Error(), b.DeliverablePath())
	})

	s.Run("error: storage unavailable", func() {
		b := builder.NewPurchaseBuilder()
		s.payments.EXPECT().FetchSession(gomock.Any(), testSessionID).Return(b.BuildPaidSession(testSessionID), nil)
		s.store.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(false, assert.AnError)
		s.recorder.EXPECT().FulfillmentOutcome("internal_error", purchase.LicenseType(""))

		_, err := s.sut.Fulfill(ctx, testSessionID, b.BuyerID)
		s.ErrorIs(err, commands.ErrStorageUnavailable)
	})

	s.Run("error: exclusive sale not recorded withholds the grant", func() {
		b := builder.NewPurchaseBuilder().AsExclusive()
		s.payments.EXPECT().FetchSession(gomock.Any(), testSessionID).Return(b.BuildPaidSession(testSessionID), nil)
		s.expectGrant(b)
		s.expectTransaction()
		s.catalog.EXPECT().MarkSold(gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError)
		s.recorder.EXPECT().FulfillmentOutcome("internal_error", purchase.LicenseType(""))

		result, err := s.sut.Fulfill(ctx, testSessionID, b.BuyerID)

		s.Nil(result)
		s.ErrorIs(err, commands.ErrCatalogUnavailable)
	})
}
