package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

func TestLocalIntentLifecycle(t *testing.T) {
	ctx := context.Background()
	l := NewLocal("whsec")

	in, err := l.CreateIntent(ctx, IntentParams{Amount: 2000, Currency: "usd", CourseID: 7, UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, StatusRequiresPaymentMethod, in.Status)
	assert.NotEmpty(t, in.ClientSecret)
	assert.Equal(t, "u1", in.UserID())
	cid, err := in.CourseID()
	require.NoError(t, err)
	assert.EqualValues(t, 7, cid)

	_, err = l.Succeed(in.ID)
	require.NoError(t, err)
	got, err := l.GetIntent(ctx, in.ID)
	require.NoError(t, err)
	assert.True(t, got.Succeeded())

	_, err = l.GetIntent(ctx, "pi_missing")
	assert.ErrorIs(t, err, ErrIntentMissing)
}

func TestLocalWebhookSignature(t *testing.T) {
	ctx := context.Background()
	l := NewLocal("whsec")
	in, err := l.CreateIntent(ctx, IntentParams{Amount: 100, Currency: "usd", CourseID: 1, UserID: "u"})
	require.NoError(t, err)
	_, err = l.Succeed(in.ID)
	require.NoError(t, err)

	payload, sig := l.WebhookPayload(EventIntentSucceeded, in.ID)
	ev, err := l.ParseWebhook(payload, sig)
	require.NoError(t, err)
	assert.Equal(t, EventIntentSucceeded, ev.Type)
	require.NotNil(t, ev.Intent)
	assert.Equal(t, in.ID, ev.Intent.ID)

	_, err = l.ParseWebhook(payload, "deadbeef")
	assert.ErrorIs(t, err, ErrBadSignature)
	_, err = NewLocal("other").ParseWebhook(payload, sig)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestLocalFailNext(t *testing.T) {
	l := NewLocal("whsec")
	boom := errors.New("card network down")
	l.FailNext(boom)
	_, err := l.CreateIntent(context.Background(), IntentParams{Amount: 1})
	assert.ErrorIs(t, err, boom)
	_, err = l.CreateIntent(context.Background(), IntentParams{Amount: 1})
	assert.NoError(t, err)
}

func newStripeAgainst(t *testing.T, h http.HandlerFunc) *Stripe {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		HTTPClient:        srv.Client(),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return NewStripe("sk_test_123", "whsec_test", &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
}

func TestStripeCreateIntentSendsAmountAndMetadata(t *testing.T) {
	s := newStripeAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payment_intents", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "2000", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "cus_1", r.PostForm.Get("customer"))
		assert.Equal(t, "7", r.PostForm.Get("metadata[courseId]"))
		assert.Equal(t, "u1", r.PostForm.Get("metadata[userId]"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"pi_1","object":"payment_intent","amount":2000,"currency":"usd",
			"status":"requires_payment_method","client_secret":"pi_1_secret",
			"metadata":{"courseId":"7","userId":"u1"}}`)
	})

	in, err := s.CreateIntent(context.Background(), IntentParams{
		Amount: 2000, Currency: "usd", CustomerID: "cus_1", CourseID: 7, UserID: "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_1", in.ID)
	assert.Equal(t, "pi_1_secret", in.ClientSecret)
	assert.EqualValues(t, 2000, in.Amount)
	assert.Equal(t, StatusRequiresPaymentMethod, in.Status)
}

func TestStripeGetIntentNotFound(t *testing.T) {
	s := newStripeAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"type":"invalid_request_error","message":"No such payment_intent"}}`)
	})
	_, err := s.GetIntent(context.Background(), "pi_nope")
	assert.ErrorIs(t, err, ErrIntentMissing)
}

func stripeSignature(secret string, payload []byte, ts time.Time) string {
	stamp := strconv.FormatInt(ts.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(stamp + "." + string(payload)))
	return "t=" + stamp + ",v1=" + hex.EncodeToString(mac.Sum(nil))
}

func TestStripeWebhook(t *testing.T) {
	s := NewStripe("sk_test_123", "whsec_test", nil)
	payload := []byte(`{"id":"evt_1","object":"event","type":"payment_intent.succeeded",
		"data":{"object":{"id":"pi_9","object":"payment_intent","amount":2000,"currency":"usd",
		"status":"succeeded","metadata":{"courseId":"7","userId":"u1"}}}}`)

	ev, err := s.ParseWebhook(payload, stripeSignature("whsec_test", payload, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, EventIntentSucceeded, ev.Type)
	require.NotNil(t, ev.Intent)
	assert.True(t, ev.Intent.Succeeded())
	assert.Equal(t, "u1", ev.Intent.UserID())

	_, err = s.ParseWebhook(payload, stripeSignature("wrong", payload, time.Now()))
	assert.ErrorIs(t, err, ErrBadSignature)

	other := []byte(`{"id":"evt_2","object":"event","type":"customer.created","data":{"object":{"id":"cus_1"}}}`)
	ev, err = s.ParseWebhook(other, stripeSignature("whsec_test", other, time.Now()))
	require.NoError(t, err)
	assert.Nil(t, ev.Intent)
}
