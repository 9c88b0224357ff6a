// Package payment adapts external payment processors to the purchase workflow.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrBadSignature  = errors.New("payment: webhook signature mismatch")
	ErrIntentMissing = errors.New("payment: intent not found")
)

// Metadata keys attached to every intent so confirmations can be traced back.
const (
	MetaCourseID = "courseId"
	MetaUserID   = "userId"
)

type IntentStatus string

const (
	StatusRequiresPaymentMethod IntentStatus = "requires_payment_method"
	StatusProcessing            IntentStatus = "processing"
	StatusSucceeded             IntentStatus = "succeeded"
	StatusCanceled              IntentStatus = "canceled"
)

type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
	Status       IntentStatus
	Metadata     map[string]string
}

func (i *Intent) UserID() string { return i.Metadata[MetaUserID] }

func (i *Intent) CourseID() (uint, error) {
	raw, ok := i.Metadata[MetaCourseID]
	if !ok {
		return 0, fmt.Errorf("intent %s: no %s metadata", i.ID, MetaCourseID)
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("intent %s: bad %s %q: %w", i.ID, MetaCourseID, raw, err)
	}
	return uint(n), nil
}

func (i *Intent) Succeeded() bool { return i.Status == StatusSucceeded }

type IntentParams struct {
	Amount     int64
	Currency   string
	CustomerID string
	CourseID   uint
	UserID     string
}

func (p IntentParams) metadata() map[string]string {
	return map[string]string{
		MetaCourseID: strconv.FormatUint(uint64(p.CourseID), 10),
		MetaUserID:   p.UserID,
	}
}

type CustomerParams struct {
	UserID string
	Email  string
	Name   string
}

type EventType string

const (
	EventIntentSucceeded EventType = "payment_intent.succeeded"
	EventIntentFailed    EventType = "payment_intent.payment_failed"
)

// Event is a verified webhook notification. Intent is nil for event types
// the workflow does not handle.
type Event struct {
	ID     string
	Type   EventType
	Intent *Intent
}

// Processor is the payment collaborator. The processor owns card handling;
// this service only creates intents and reacts to their outcome.
type Processor interface {
	CreateCustomer(ctx context.Context, p CustomerParams) (string, error)
	CreateIntent(ctx context.Context, p IntentParams) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
}
