package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// SignatureHeader carries the webhook signature on Stripe deliveries.
const SignatureHeader = "Stripe-Signature"

type Stripe struct {
	api           *client.API
	webhookSecret string
}

var _ Processor = (*Stripe)(nil)

// NewStripe builds a Stripe processor. backends may be nil to use the live API.
func NewStripe(secretKey, webhookSecret string, backends *stripe.Backends) *Stripe {
	sc := &client.API{}
	sc.Init(secretKey, backends)
	return &Stripe{api: sc, webhookSecret: webhookSecret}
}

func (s *Stripe) CreateCustomer(ctx context.Context, p CustomerParams) (string, error) {
	params := &stripe.CustomerParams{Email: stripe.String(p.Email)}
	if p.Name != "" {
		params.Name = stripe.String(p.Name)
	}
	params.Context = ctx
	params.AddMetadata(MetaUserID, p.UserID)
	c, err := s.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create customer: %w", err)
	}
	return c.ID, nil
}

func (s *Stripe) CreateIntent(ctx context.Context, p IntentParams) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.Amount),
		Currency: stripe.String(p.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if p.CustomerID != "" {
		params.Customer = stripe.String(p.CustomerID)
	}
	params.Context = ctx
	for k, v := range p.metadata() {
		params.AddMetadata(k, v)
	}
	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create intent: %w", err)
	}
	return fromStripe(pi), nil
}

func (s *Stripe) GetIntent(ctx context.Context, id string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := s.api.PaymentIntents.Get(id, params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.HTTPStatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrIntentMissing, id)
		}
		return nil, fmt.Errorf("stripe get intent: %w", err)
	}
	return fromStripe(pi), nil
}

func (s *Stripe) ParseWebhook(payload []byte, signature string) (*Event, error) {
	ev, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSignature, err)
	}
	out := &Event{ID: ev.ID, Type: EventType(ev.Type)}
	switch out.Type {
	case EventIntentSucceeded, EventIntentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("stripe webhook %s: decode intent: %w", ev.ID, err)
		}
		out.Intent = fromStripe(&pi)
	}
	return out, nil
}

func fromStripe(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       IntentStatus(pi.Status),
		Metadata:     pi.Metadata,
	}
}
