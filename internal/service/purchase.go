package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"studio-marketplace/internal/access"
	"studio-marketplace/internal/domain"
	"studio-marketplace/internal/payment"
)

type PurchaseState string

const (
	StateInitiated        PurchaseState = "initiated"
	StatePaymentPending   PurchaseState = "payment_pending"
	StatePaymentConfirmed PurchaseState = "payment_confirmed"
	StateEnrolled         PurchaseState = "enrolled"
	StateFailed           PurchaseState = "failed"
)

// EnrollChannel is where a payment verdict arrives from.
type EnrollChannel string

const (
	EnrollOnWebhook EnrollChannel = "webhook"
	EnrollOnClient  EnrollChannel = "client"
)

// Checkout is what the client needs to render the processor's payment form.
type Checkout struct {
	State           PurchaseState            `json:"state"`
	CourseID        uint                     `json:"courseId"`
	PaymentIntentID string                   `json:"paymentIntentId,omitempty"`
	ClientSecret    string                   `json:"clientSecret,omitempty"`
	Amount          domain.Money             `json:"amount"`
	AmountMinor     int64                    `json:"amountMinor"`
	Currency        string                   `json:"currency"`
	Enrollment      *domain.CourseEnrollment `json:"enrollment,omitempty"`
}

// Confirmation is the processor's verdict on one payment.
type Confirmation struct {
	IntentID  string
	UserID    string
	CourseID  uint
	Succeeded bool
}

type Outcome struct {
	State      PurchaseState            `json:"state"`
	IntentID   string                   `json:"paymentIntentId,omitempty"`
	Enrollment *domain.CourseEnrollment `json:"enrollment,omitempty"`
	// Ignored is set for webhook events that do not concern purchases.
	Ignored bool `json:"ignored,omitempty"`
}

type PurchaseService struct {
	d           Deps
	log         *zap.Logger
	enrollments *EnrollmentService
}

// Initiate starts a purchase of courseID and returns a pending payment reference.
// Free courses skip the processor and enroll a signed-in actor at once.
func (s *PurchaseService) Initiate(ctx context.Context, a access.Actor, courseID uint) (*Checkout, error) {
	if err := s.d.Policy.Authorize(a, access.InitiatePurchase); err != nil {
		return nil, err
	}
	c, err := s.d.Store.Courses().FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c == nil || (!c.Published && !s.d.Policy.Allowed(a, access.ReadAllCourses)) {
		return nil, domain.NotFound("course")
	}
	out := &Checkout{
		State:       StateInitiated,
		CourseID:    c.ID,
		Amount:      c.Price,
		AmountMinor: c.Price.MinorUnits(),
		Currency:    s.d.Currency,
	}

	if out.AmountMinor == 0 {
		if !a.Authenticated() {
			return nil, fmt.Errorf("%w: sign in to enroll in a free course", domain.ErrUnauthorized)
		}
		e, err := s.enrollments.enroll(ctx, a.UserID, c.ID)
		if err != nil {
			return nil, err
		}
		purchaseIntents.WithLabelValues("free").Inc()
		out.State, out.Enrollment = StateEnrolled, e
		return out, nil
	}

	var customerID string
	if a.Authenticated() {
		if customerID, err = s.ensureCustomer(ctx, a.UserID); err != nil {
			purchaseIntents.WithLabelValues("failed").Inc()
			return nil, err
		}
	}

	intent, err := s.d.Processor.CreateIntent(ctx, payment.IntentParams{
		Amount:     out.AmountMinor,
		Currency:   s.d.Currency,
		CustomerID: customerID,
		CourseID:   c.ID,
		UserID:     a.UserID,
	})
	if err != nil {
		purchaseIntents.WithLabelValues("failed").Inc()
		s.log.Warn("payment intent failed", zap.Uint("course_id", c.ID), zap.String("user_id", a.UserID), zap.Error(err))
		return nil, domain.PaymentError("create intent", err)
	}
	purchaseIntents.WithLabelValues("created").Inc()
	s.log.Info("payment intent created",
		zap.String("intent_id", intent.ID), zap.Uint("course_id", c.ID),
		zap.String("user_id", a.UserID), zap.Int64("amount", intent.Amount))

	out.State = StatePaymentPending
	out.PaymentIntentID = intent.ID
	out.ClientSecret = intent.ClientSecret
	return out, nil
}

// ensureCustomer returns the processor customer of userID, creating and
// saving one on first purchase.
func (s *PurchaseService) ensureCustomer(ctx context.Context, userID string) (string, error) {
	u, err := s.d.Store.Users().FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", domain.NotFound("user")
	}
	if u.PaymentCustomerID != "" {
		return u.PaymentCustomerID, nil
	}
	id, err := s.d.Processor.CreateCustomer(ctx, payment.CustomerParams{
		UserID: u.ID,
		Email:  u.Email,
		Name:   strings.TrimSpace(u.FirstName + " " + u.LastName),
	})
	if err != nil {
		return "", domain.PaymentError("create customer", err)
	}
	if _, err := s.d.Store.Users().UpdatePaymentInfo(ctx, u.ID, id, nil); err != nil {
		return "", err
	}
	s.log.Info("payment customer created", zap.String("user_id", u.ID), zap.String("customer_id", id))
	return id, nil
}

// Confirm applies a payment verdict. A successful payment enrolls the user;
// repeated confirmations of the same payment enroll again.
func (s *PurchaseService) Confirm(ctx context.Context, c Confirmation) (*Outcome, error) {
	if c.UserID == "" {
		purchaseConfirmations.WithLabelValues("rejected").Inc()
		s.log.Warn("confirmation without user", zap.String("intent_id", c.IntentID))
		return nil, domain.NewValidationError("userId", "is required to enroll")
	}
	if c.CourseID == 0 {
		purchaseConfirmations.WithLabelValues("rejected").Inc()
		return nil, domain.NewValidationError("courseId", "is required to enroll")
	}
	if !c.Succeeded {
		purchaseConfirmations.WithLabelValues("failed").Inc()
		s.log.Info("payment failed", zap.String("intent_id", c.IntentID), zap.String("user_id", c.UserID))
		return &Outcome{State: StateFailed, IntentID: c.IntentID}, nil
	}
	e, err := s.enrollments.enroll(ctx, c.UserID, c.CourseID)
	if err != nil {
		purchaseConfirmations.WithLabelValues("error").Inc()
		s.log.Error("enrollment after confirmed payment failed",
			zap.String("state", string(StatePaymentConfirmed)), zap.String("intent_id", c.IntentID),
			zap.String("user_id", c.UserID), zap.Uint("course_id", c.CourseID), zap.Error(err))
		return nil, err
	}
	purchaseConfirmations.WithLabelValues("enrolled").Inc()
	return &Outcome{State: StateEnrolled, IntentID: c.IntentID, Enrollment: e}, nil
}

// ConfirmIntent is the client-side confirmation path: the actor reports a
// finished payment and the intent is checked with the processor.
func (s *PurchaseService) ConfirmIntent(ctx context.Context, a access.Actor, intentID string) (*Outcome, error) {
	if err := s.d.Policy.Authorize(a, access.ConfirmPurchase); err != nil {
		return nil, err
	}
	if strings.TrimSpace(intentID) == "" {
		return nil, domain.NewValidationError("paymentIntentId", "is required")
	}
	intent, err := s.d.Processor.GetIntent(ctx, intentID)
	if errors.Is(err, payment.ErrIntentMissing) {
		return nil, domain.NotFound("payment intent")
	}
	if err != nil {
		return nil, domain.PaymentError("get intent", err)
	}
	if owner := intent.UserID(); owner != "" && owner != a.UserID {
		return nil, fmt.Errorf("%w: payment intent belongs to another user", domain.ErrUnauthorized)
	}
	switch intent.Status {
	case payment.StatusSucceeded, payment.StatusCanceled:
	default:
		return &Outcome{State: StatePaymentPending, IntentID: intent.ID}, nil
	}
	conf, err := confirmationOf(intent, intent.Succeeded())
	if err != nil {
		return nil, err
	}
	return s.settle(ctx, EnrollOnClient, conf)
}

// HandleWebhook verifies and applies a processor notification.
func (s *PurchaseService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*Outcome, error) {
	ev, err := s.d.Processor.ParseWebhook(payload, signature)
	if errors.Is(err, payment.ErrBadSignature) {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if err != nil {
		return nil, domain.PaymentError("parse webhook", err)
	}
	if ev.Intent == nil {
		s.log.Debug("webhook ignored", zap.String("event_id", ev.ID), zap.String("type", string(ev.Type)))
		return &Outcome{Ignored: true}, nil
	}
	succeeded := ev.Type == payment.EventIntentSucceeded && ev.Intent.Succeeded()
	conf, err := confirmationOf(ev.Intent, succeeded)
	if err != nil {
		return nil, err
	}
	return s.settle(ctx, EnrollOnWebhook, conf)
}

// settle enrolls only when the verdict came through the configured channel.
// A verdict from the other channel is reported without side effects, so one
// payment yields one enrollment.
func (s *PurchaseService) settle(ctx context.Context, from EnrollChannel, c Confirmation) (*Outcome, error) {
	if from == s.d.EnrollOn {
		return s.Confirm(ctx, c)
	}
	purchaseConfirmations.WithLabelValues("acknowledged").Inc()
	s.log.Debug("payment verdict acknowledged",
		zap.String("channel", string(from)), zap.String("intent_id", c.IntentID), zap.Bool("succeeded", c.Succeeded))
	st := StateFailed
	if c.Succeeded {
		st = StatePaymentConfirmed
	}
	return &Outcome{State: st, IntentID: c.IntentID}, nil
}

func confirmationOf(in *payment.Intent, succeeded bool) (Confirmation, error) {
	courseID, err := in.CourseID()
	if err != nil {
		return Confirmation{}, domain.NewValidationError("courseId", err.Error())
	}
	return Confirmation{IntentID: in.ID, UserID: in.UserID(), CourseID: courseID, Succeeded: succeeded}, nil
}
