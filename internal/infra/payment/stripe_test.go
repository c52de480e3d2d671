//go:build unit

package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"beat-fulfillment/internal/domain/purchase"
	"beat-fulfillment/internal/usecase/shared"
	"beat-fulfillment/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *StripeProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	api := client.New("sk_test_dummy", &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	return NewStripeProvider(api)
}

func TestCreateCheckoutSession(t *testing.T) {
	b := builder.NewPurchaseBuilder()
	intent, err := b.BuildDomain()
	require.NoError(t, err)

	t.Run("success: one line item priced from the intent", func(t *testing.T) {
		var form map[string]string
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
			require.NoError(t, r.ParseForm())
			form = map[string]string{}
			for k := range r.PostForm {
				form[k] = r.PostForm.Get(k)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"cs_test_123","object":"checkout.session"}`))
		})

		id, err := provider.CreateCheckoutSession(context.Background(), shared.CheckoutSessionInput{
			Intent:     intent,
			Currency:   "usd",
			SuccessURL: "https://store.example.test?purchase_success=true&session_id={CHECKOUT_SESSION_ID}",
			CancelURL:  "https://store.example.test?purchase_canceled=true",
		})

		require.NoError(t, err)
		assert.Equal(t, "cs_test_123", id)
		assert.Equal(t, "payment", form["mode"])
		assert.Equal(t, "card", form["payment_method_types[0]"])
		assert.Equal(t, "usd", form["line_items[0][price_data][currency]"])
		assert.Equal(t, "2999", form["line_items[0][price_data][unit_amount]"])
		assert.Equal(t, "Midnight (mp3 Lease)", form["line_items[0][price_data][product_data][name]"])
		assert.Equal(t, "Beat ID: trap-lead-01", form["line_items[0][price_data][product_data][description]"])
		assert.Equal(t, "1", form["line_items[0][quantity]"])
		assert.Equal(t, b.BuyerID.String(), form["metadata[userId]"])
		assert.Equal(t, "trap-lead-01", form["metadata[beatId]"])
		assert.Equal(t, "mp3", form["metadata[leaseType]"])
		assert.True(t, strings.HasSuffix(form["success_url"], "session_id={CHECKOUT_SESSION_ID}"))
	})

	t.Run("error: provider rejects request", func(t *testing.T) {
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid currency"}}`))
		})

		_, err := provider.CreateCheckoutSession(context.Background(), shared.CheckoutSessionInput{Intent: intent, Currency: "zzz"})
		require.Error(t, err)
	})

	t.Run("error: missing intent", func(t *testing.T) {
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("provider must not be called")
		})

		_, err := provider.CreateCheckoutSession(context.Background(), shared.CheckoutSessionInput{})
		require.ErrorIs(t, err, errMissingIntent)
	})
}

func TestFetchSession(t *testing.T) {
	t.Run("success: maps status and metadata", func(t *testing.T) {
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "/v1/checkout/sessions/cs_test_123", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"cs_test_123","object":"checkout.session","payment_status":"paid",` +
				`"metadata":{"userId":"8b0f4a4e-0d8e-4c1e-9f55-7f3f7f0e2a11","beatId":"trap-lead-01","leaseType":"mp3"}}`))
		})

		session, err := provider.FetchSession(context.Background(), "cs_test_123")

		require.NoError(t, err)
		assert.Equal(t, "cs_test_123", session.ID)
		assert.Equal(t, purchase.PaymentStatusPaid, session.Status)
		assert.Equal(t, "trap-lead-01", session.Metadata[purchase.MetadataKeyItemID])
		assert.Equal(t, "mp3", session.Metadata[purchase.MetadataKeyLicenseType])
	})

	t.Run("error: unknown session", func(t *testing.T) {
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such checkout.session: 'cs_bogus'"}}`))
		})

		_, err := provider.FetchSession(context.Background(), "cs_bogus")
		require.ErrorIs(t, err, shared.ErrProviderSessionNotFound)
	})

	t.Run("error: upstream failure is not a missing session", func(t *testing.T) {
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"type":"api_error","message":"boom"}}`))
		})

		_, err := provider.FetchSession(context.Background(), "cs_test_123")
		require.Error(t, err)
		assert.NotErrorIs(t, err, shared.ErrProviderSessionNotFound)
	})
}
