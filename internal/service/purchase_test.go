package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-marketplace/internal/access"
	"studio-marketplace/internal/domain"
	"studio-marketplace/internal/payment"
	"studio-marketplace/internal/service"
)

func (f *fixture) course(t *testing.T, id uint, price string, published bool) *domain.Course {
	t.Helper()
	c := &domain.Course{
		ID: id, Title: "Course", Description: "d", Price: domain.MustMoney(price),
		Level: domain.LevelBeginner, Published: published,
	}
	require.NoError(t, f.store.Courses().Create(context.Background(), c))
	return c
}

func (f *fixture) deliver(t *testing.T, typ payment.EventType, intentID string) (*service.Outcome, error) {
	t.Helper()
	payload, sig := f.pay.WebhookPayload(typ, intentID)
	return f.svc.Purchases.HandleWebhook(context.Background(), payload, sig)
}

func TestPurchaseToEnrollmentScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.course(t, 7, "20.00", true)
	user := f.signIn(t, "U")

	co, err := f.svc.Purchases.Initiate(ctx, user, 7)
	require.NoError(t, err)
	assert.Equal(t, service.StatePaymentPending, co.State)
	assert.EqualValues(t, 2000, co.AmountMinor)
	assert.Equal(t, "20.00", co.Amount.String())
	assert.NotEmpty(t, co.PaymentIntentID)
	assert.NotEmpty(t, co.ClientSecret)

	u, err := f.store.Users().FindByID(ctx, "U")
	require.NoError(t, err)
	assert.NotEmpty(t, u.PaymentCustomerID, "first purchase creates a processor customer")

	before, err := f.svc.Enrollments.ListMine(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, before, "no enrollment before confirmation")

	_, err = f.pay.Succeed(co.PaymentIntentID)
	require.NoError(t, err)
	out, err := f.deliver(t, payment.EventIntentSucceeded, co.PaymentIntentID)
	require.NoError(t, err)
	assert.Equal(t, service.StateEnrolled, out.State)

	es, err := f.svc.Enrollments.ListMine(ctx, user)
	require.NoError(t, err)
	require.Len(t, es, 1)
	assert.EqualValues(t, 7, es[0].CourseID)
	assert.Nil(t, es[0].CompletedAt)
}

func TestCustomerIsReusedAcrossPurchases(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.course(t, 1, "10.00", true)
	user := f.signIn(t, "U")

	_, err := f.svc.Purchases.Initiate(ctx, user, 1)
	require.NoError(t, err)
	u1, _ := f.store.Users().FindByID(ctx, "U")
	_, err = f.svc.Purchases.Initiate(ctx, user, 1)
	require.NoError(t, err)
	u2, _ := f.store.Users().FindByID(ctx, "U")
	assert.Equal(t, u1.PaymentCustomerID, u2.PaymentCustomerID)
}

func TestAnonymousPurchaseCannotEnroll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.course(t, 3, "15.00", true)

	co, err := f.svc.Purchases.Initiate(ctx, access.Anonymous, 3)
	require.NoError(t, err)
	assert.Equal(t, service.StatePaymentPending, co.State)

	_, err = f.pay.Succeed(co.PaymentIntentID)
	require.NoError(t, err)
	_, err = f.deliver(t, payment.EventIntentSucceeded, co.PaymentIntentID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.Purchases.Confirm(ctx, service.Confirmation{CourseID: 3, Succeeded: true})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFailedPaymentCreatesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.course(t, 2, "30.00", true)
	user := f.signIn(t, "U")

	co, err := f.svc.Purchases.Initiate(ctx, user, 2)
	require.NoError(t, err)
	_, err = f.pay.Cancel(co.PaymentIntentID)
	require.NoError(t, err)

	out, err := f.deliver(t, payment.EventIntentFailed, co.PaymentIntentID)
	require.NoError(t, err)
	assert.Equal(t, service.StateFailed, out.State)

	es, err := f.svc.Enrollments.ListMine(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, es)
}

func TestInitiateFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.course(t, 4, "12.00", false)
	f.course(t, 5, "12.00", true)
	user := f.signIn(t, "U")

	_, err := f.svc.Purchases.Initiate(ctx, user, 4)
	assert.ErrorIs(t, err, domain.ErrNotFound, "unpublished course")
	_, err = f.svc.Purchases.Initiate(ctx, user, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Purchases.Initiate(ctx, admin, 4)
	assert.NoError(t, err, "admins may buy drafts")

	f.pay.FailNext(errors.New("processor down"))
	_, err = f.svc.Purchases.Initiate(ctx, access.Anonymous, 5)
	assert.ErrorIs(t, err, domain.ErrPayment)
}

func TestClientConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.course(t, 7, "20.00", true)
	owner := f.signIn(t, "U")
	other := f.signIn(t, "V")

	co, err := f.svc.Purchases.Initiate(ctx, owner, 7)
	require.NoError(t, err)

	out, err := f.svc.Purchases.ConfirmIntent(ctx, owner, co.PaymentIntentID)
	require.NoError(t, err)
	assert.Equal(t, service.StatePaymentPending, out.State, "unpaid intent stays pending")

	_, err = f.pay.Succeed(co.PaymentIntentID)
	require.NoError(t, err)

	_, err = f.svc.Purchases.ConfirmIntent(ctx, other, co.PaymentIntentID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.svc.Purchases.ConfirmIntent(ctx, access.Anonymous, co.PaymentIntentID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.svc.Purchases.ConfirmIntent(ctx, owner, "pi_unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err = f.svc.Purchases.ConfirmIntent(ctx, owner, co.PaymentIntentID)
	require.NoError(t, err)
	assert.Equal(t, service.StatePaymentConfirmed, out.State, "webhook is the enrolling channel")
	es, err := f.svc.Enrollments.ListMine(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, es)

	out, err = f.deliver(t, payment.EventIntentSucceeded, co.PaymentIntentID)
	require.NoError(t, err)
	assert.Equal(t, service.StateEnrolled, out.State)
	es, err = f.svc.Enrollments.ListMine(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, es, 1, "one payment confirmed on both channels enrolls once")

	_, err = f.deliver(t, payment.EventIntentSucceeded, co.PaymentIntentID)
	require.NoError(t, err)
	es, err = f.svc.Enrollments.ListMine(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, es, 2, "redelivered webhooks are not deduplicated")
}

func TestClientChannelEnrolls(t *testing.T) {
	ctx := context.Background()
	f := newFixtureWith(t, func(d *service.Deps) { d.EnrollOn = service.EnrollOnClient })
	f.course(t, 7, "20.00", true)
	owner := f.signIn(t, "U")

	co, err := f.svc.Purchases.Initiate(ctx, owner, 7)
	require.NoError(t, err)
	_, err = f.pay.Succeed(co.PaymentIntentID)
	require.NoError(t, err)

	out, err := f.deliver(t, payment.EventIntentSucceeded, co.PaymentIntentID)
	require.NoError(t, err)
	assert.Equal(t, service.StatePaymentConfirmed, out.State)

	out, err = f.svc.Purchases.ConfirmIntent(ctx, owner, co.PaymentIntentID)
	require.NoError(t, err)
	assert.Equal(t, service.StateEnrolled, out.State)

	es, err := f.svc.Enrollments.ListMine(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, es, 1)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	f := newFixture(t)
	payload, _ := f.pay.WebhookPayload(payment.EventIntentSucceeded, "pi_x")
	_, err := f.svc.Purchases.HandleWebhook(context.Background(), payload, "00")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestFreeCourseEnrollsImmediately(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.course(t, 9, "0", true)
	user := f.signIn(t, "U")

	_, err := f.svc.Purchases.Initiate(ctx, access.Anonymous, 9)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	co, err := f.svc.Purchases.Initiate(ctx, user, 9)
	require.NoError(t, err)
	assert.Equal(t, service.StateEnrolled, co.State)
	require.NotNil(t, co.Enrollment)
	assert.Empty(t, co.PaymentIntentID)
}

func TestCompleteOwnEnrollmentOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.course(t, 9, "0", true)
	owner := f.signIn(t, "U")
	other := f.signIn(t, "V")

	co, err := f.svc.Purchases.Initiate(ctx, owner, 9)
	require.NoError(t, err)

	_, err = f.svc.Enrollments.Complete(ctx, other, co.Enrollment.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	done, err := f.svc.Enrollments.Complete(ctx, owner, co.Enrollment.ID)
	require.NoError(t, err)
	assert.NotNil(t, done.CompletedAt)
}
