package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"
	"sync"

	"github.com/google/uuid"
)

// LocalSignatureHeader carries the hex HMAC-SHA256 of the webhook body.
const LocalSignatureHeader = "X-Local-Signature"

// Local is an in-memory processor for development and tests. Intents only
// succeed when Succeed is called, standing in for a customer paying.
type Local struct {
	secret []byte

	mu        sync.Mutex
	intents   map[string]*Intent
	customers map[string]CustomerParams
	failNext  error
}

var _ Processor = (*Local)(nil)

func NewLocal(webhookSecret string) *Local {
	return &Local{
		secret:    []byte(webhookSecret),
		intents:   map[string]*Intent{},
		customers: map[string]CustomerParams{},
	}
}

// FailNext makes the next CreateCustomer or CreateIntent call return err.
func (l *Local) FailNext(err error) {
	l.mu.Lock()
	l.failNext = err
	l.mu.Unlock()
}

func (l *Local) takeFailure() error {
	err := l.failNext
	l.failNext = nil
	return err
}

func (l *Local) CreateCustomer(_ context.Context, p CustomerParams) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.takeFailure(); err != nil {
		return "", err
	}
	id := "cus_local_" + uuid.NewString()
	l.customers[id] = p
	return id, nil
}

func (l *Local) CreateIntent(_ context.Context, p IntentParams) (*Intent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.takeFailure(); err != nil {
		return nil, err
	}
	if p.Amount < 0 {
		return nil, fmt.Errorf("local processor: negative amount %d", p.Amount)
	}
	id := "pi_local_" + uuid.NewString()
	in := &Intent{
		ID:           id,
		ClientSecret: id + "_secret_" + uuid.NewString(),
		Amount:       p.Amount,
		Currency:     p.Currency,
		Status:       StatusRequiresPaymentMethod,
		Metadata:     p.metadata(),
	}
	l.intents[id] = in
	return clone(in), nil
}

func (l *Local) GetIntent(_ context.Context, id string) (*Intent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	in, ok := l.intents[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrIntentMissing, id)
	}
	return clone(in), nil
}

// Succeed marks the intent paid.
func (l *Local) Succeed(id string) (*Intent, error) { return l.setStatus(id, StatusSucceeded) }

func (l *Local) Cancel(id string) (*Intent, error) { return l.setStatus(id, StatusCanceled) }

func (l *Local) setStatus(id string, st IntentStatus) (*Intent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	in, ok := l.intents[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrIntentMissing, id)
	}
	in.Status = st
	return clone(in), nil
}

type localEvent struct {
	ID       string    `json:"id"`
	Type     EventType `json:"type"`
	IntentID string    `json:"intentId"`
}

// WebhookPayload renders a signed notification for intentID, as the
// processor would deliver it.
func (l *Local) WebhookPayload(t EventType, intentID string) (payload []byte, signature string) {
	payload, _ = json.Marshal(localEvent{ID: "evt_local_" + uuid.NewString(), Type: t, IntentID: intentID})
	return payload, l.Sign(payload)
}

func (l *Local) Sign(payload []byte) string { return hex.EncodeToString(l.signBytes(payload)) }

func (l *Local) ParseWebhook(payload []byte, signature string) (*Event, error) {
	want, err := hex.DecodeString(signature)
	if err != nil || !hmac.Equal(want, l.signBytes(payload)) {
		return nil, ErrBadSignature
	}
	var le localEvent
	if err := json.Unmarshal(payload, &le); err != nil {
		return nil, fmt.Errorf("local webhook: decode: %w", err)
	}
	ev := &Event{ID: le.ID, Type: le.Type}
	switch le.Type {
	case EventIntentSucceeded, EventIntentFailed:
		in, err := l.GetIntent(context.Background(), le.IntentID)
		if err != nil {
			return nil, err
		}
		ev.Intent = in
	}
	return ev, nil
}

func (l *Local) signBytes(payload []byte) []byte {
	mac := hmac.New(sha256.New, l.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}

func clone(in *Intent) *Intent {
	out := *in
	out.Metadata = maps.Clone(in.Metadata)
	return &out
}
