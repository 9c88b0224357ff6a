package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-marketplace/internal/domain"
	"studio-marketplace/internal/repo"
	"studio-marketplace/internal/repo/repotest"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func newCourse(title, price string, published bool) *domain.Course {
	return &domain.Course{
		Title:       title,
		Description: title + " description",
		Price:       domain.MustMoney(price),
		Level:       domain.LevelBeginner,
		Published:   published,
	}
}

func TestUserUpsert(t *testing.T) {
	ctx := context.Background()
	db := repotest.NewDB(t)
	s := repo.NewStore(db)

	u, err := s.Users().Upsert(ctx, domain.UserProfile{ID: "u1", Email: "a@x.com", FirstName: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.FirstName)
	assert.False(t, u.IsAdmin)
	assert.False(t, u.CreatedAt.IsZero())
	firstUpdated := u.UpdatedAt

	_, err = s.Users().SetAdmin(ctx, "u1", true)
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	u, err = s.Users().Upsert(ctx, domain.UserProfile{ID: "u1", Email: "a@x.com", FirstName: "Anna"})
	require.NoError(t, err)
	assert.Equal(t, "Anna", u.FirstName)
	assert.True(t, u.IsAdmin, "upsert must not reset the admin flag")
	assert.True(t, u.UpdatedAt.After(firstUpdated))

	var count int64
	require.NoError(t, db.Model(&domain.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUserFindMissing(t *testing.T) {
	s := repotest.NewStore(t)
	u, err := s.Users().FindByID(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserUpdatePaymentInfo(t *testing.T) {
	ctx := context.Background()
	s := repotest.NewStore(t)

	_, err := s.Users().UpdatePaymentInfo(ctx, "ghost", "cus_1", nil)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Users().Upsert(ctx, domain.UserProfile{ID: "u1", Email: "a@x.com"})
	require.NoError(t, err)
	u, err := s.Users().UpdatePaymentInfo(ctx, "u1", "cus_1", strPtr("sub_1"))
	require.NoError(t, err)
	assert.Equal(t, "cus_1", u.PaymentCustomerID)
	assert.Equal(t, "sub_1", u.PaymentSubscriptionID)

	u, err = s.Users().UpdatePaymentInfo(ctx, "u1", "cus_2", nil)
	require.NoError(t, err)
	assert.Equal(t, "cus_2", u.PaymentCustomerID)
	assert.Equal(t, "sub_1", u.PaymentSubscriptionID)
}

func TestPortfolioCreateKeepsFields(t *testing.T) {
	ctx := context.Background()
	s := repotest.NewStore(t)

	in := domain.PortfolioItemInput{
		Title:         "Sneaker ad",
		Description:   "Campaign",
		Category:      domain.CategoryAds,
		MainImage:     "https://cdn/x.jpg",
		BeforeImage:   "https://cdn/b.jpg",
		AfterImage:    "https://cdn/a.jpg",
		IsBeforeAfter: true,
		Tools:         "Photoshop",
		Featured:      true,
	}
	item := in.Model()
	require.NoError(t, s.Portfolio().Create(ctx, item))

	assert.NotZero(t, item.ID)
	assert.False(t, item.CreatedAt.IsZero())
	assert.False(t, item.UpdatedAt.IsZero())
	got := *item
	got.ID, got.CreatedAt, got.UpdatedAt = 0, time.Time{}, time.Time{}
	assert.Equal(t, *in.Model(), got)
}

func TestPortfolioListingAndFilter(t *testing.T) {
	ctx := context.Background()
	s := repotest.NewStore(t)

	for _, c := range []string{domain.CategoryAds, domain.CategoryBranding, domain.CategoryAds} {
		require.NoError(t, s.Portfolio().Create(ctx, &domain.PortfolioItem{Title: c, Category: c, MainImage: "m"}))
	}

	all, err := s.Portfolio().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Greater(t, all[0].ID, all[1].ID, "newest first")
	assert.Greater(t, all[1].ID, all[2].ID)

	ads, err := s.Portfolio().ListByCategory(ctx, domain.CategoryAds)
	require.NoError(t, err)
	require.Len(t, ads, 2)
	for _, it := range ads {
		assert.Equal(t, domain.CategoryAds, it.Category)
	}
	assert.Greater(t, ads[0].ID, ads[1].ID)

	none, err := s.Portfolio().ListByCategory(ctx, domain.CategoryPortraits)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPortfolioUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := repotest.NewStore(t)

	item := &domain.PortfolioItem{Title: "Old", Category: domain.CategoryProducts, MainImage: "m", Tools: "GIMP"}
	require.NoError(t, s.Portfolio().Create(ctx, item))
	created := item.UpdatedAt

	time.Sleep(2 * time.Millisecond)
	updated, err := s.Portfolio().Update(ctx, item.ID, domain.PortfolioItemPatch{
		Title:    strPtr("New"),
		Featured: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.True(t, updated.Featured)
	assert.Equal(t, "GIMP", updated.Tools, "unset fields are kept")
	assert.True(t, updated.UpdatedAt.After(created))

	_, err = s.Portfolio().Update(ctx, 9999, domain.PortfolioItemPatch{Title: strPtr("x")})
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Portfolio().Delete(ctx, item.ID))
	require.NoError(t, s.Portfolio().Delete(ctx, item.ID), "deleting twice is fine")
	all, err := s.Portfolio().ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPublishedCoursesNeverIncludeDrafts(t *testing.T) {
	ctx := context.Background()
	s := repotest.NewStore(t)

	require.NoError(t, s.Courses().Create(ctx, newCourse("Live", "10.00", true)))
	draft := newCourse("Draft", "5.50", false)
	require.NoError(t, s.Courses().Create(ctx, draft))

	pub, err := s.Courses().ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, pub, 1)
	for _, c := range pub {
		assert.True(t, c.Published)
	}

	all, err := s.Courses().ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := s.Courses().FindByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "5.50", got.Price.String())
	assert.False(t, got.Published)
}

func TestCoursePublishToggleScenario(t *testing.T) {
	ctx := context.Background()
	s := repotest.NewStore(t)

	c := newCourse("Intro to Branding", "49.99", true)
	require.NoError(t, s.Courses().Create(ctx, c))

	pub, err := s.Courses().ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, pub, 1)
	assert.Equal(t, "49.99", pub[0].Price.String())

	cols, err := domain.CoursePatch{Published: boolPtr(false)}.Columns()
	require.NoError(t, err)
	_, err = s.Courses().Update(ctx, c.ID, cols)
	require.NoError(t, err)

	pub, err = s.Courses().ListPublished(ctx)
	require.NoError(t, err)
	assert.Empty(t, pub)
	all, err := s.Courses().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Intro to Branding", all[0].Title)
}

func TestCourseFindMissing(t *testing.T) {
	s := repotest.NewStore(t)
	c, err := s.Courses().FindByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestDeletingCourseKeepsEnrollments(t *testing.T) {
	ctx := context.Background()
	s := repotest.NewStore(t)

	c := newCourse("Retouch", "20.00", true)
	require.NoError(t, s.Courses().Create(ctx, c))
	_, err := s.Enrollments().Enroll(ctx, "u1", c.ID)
	require.NoError(t, err)

	require.NoError(t, s.Courses().Delete(ctx, c.ID))

	es, err := s.Enrollments().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, es, 1)
	assert.Equal(t, c.ID, es[0].CourseID)
}

func TestEnrollAllowsDuplicates(t *testing.T) {
	ctx := context.Background()
	s := repotest.NewStore(t)

	a, err := s.Enrollments().Enroll(ctx, "u1", 7)
	require.NoError(t, err)
	b, err := s.Enrollments().Enroll(ctx, "u1", 7)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.EnrolledAt.IsZero())
	assert.Nil(t, a.CompletedAt)

	other, err := s.Enrollments().ListByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)

	done, err := s.Enrollments().MarkCompleted(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)

	_, err = s.Enrollments().MarkCompleted(ctx, 999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContactRespondedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := repotest.NewStore(t)

	sub := domain.ContactInput{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com", Message: "Hi"}.Model()
	require.NoError(t, s.Contacts().Create(ctx, sub))
	assert.False(t, sub.Responded)
	assert.False(t, sub.SubmittedAt.IsZero())

	require.NoError(t, s.Contacts().MarkResponded(ctx, sub.ID))
	require.NoError(t, s.Contacts().MarkResponded(ctx, sub.ID))
	require.NoError(t, s.Contacts().MarkResponded(ctx, 12345), "unknown id is a no-op")

	list, err := s.Contacts().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Responded)
}

func TestContactListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := repotest.NewStore(t)
	for _, name := range []string{"first", "second"} {
		require.NoError(t, s.Contacts().Create(ctx, &domain.ContactSubmission{
			FirstName: name, LastName: "x", Email: "x@x.com", Message: "m",
		}))
	}
	list, err := s.Contacts().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].FirstName)
}

func TestPing(t *testing.T) {
	s := repotest.NewStore(t)
	require.NoError(t, s.Ping(context.Background()))
}
