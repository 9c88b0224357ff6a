package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"studio-marketplace/internal/domain"
)

func TestPolicyMatrix(t *testing.T) {
	p := DefaultPolicy()
	anon := Anonymous
	user := Actor{UserID: "u1"}
	admin := Actor{UserID: "a1", IsAdmin: true}

	tests := []struct {
		op    Operation
		anon  bool
		user  bool
		admin bool
	}{
		{ReadPortfolio, true, true, true},
		{ReadPublishedCourses, true, true, true},
		{SubmitContact, true, true, true},
		{InitiatePurchase, true, true, true},
		{ReadOwnProfile, false, true, true},
		{ReadOwnEnrollments, false, true, true},
		{ConfirmPurchase, false, true, true},
		{CompleteEnrollment, false, true, true},
		{ManagePortfolio, false, false, true},
		{ManageCourses, false, false, true},
		{ReadAllCourses, false, false, true},
		{ReadContacts, false, false, true},
		{RespondToContact, false, false, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			assert.Equal(t, tt.anon, p.Allowed(anon, tt.op), "anonymous")
			assert.Equal(t, tt.user, p.Allowed(user, tt.op), "authenticated")
			assert.Equal(t, tt.admin, p.Allowed(admin, tt.op), "admin")
		})
	}
}

func TestDeniedIsUnauthorized(t *testing.T) {
	p := DefaultPolicy()
	assert.ErrorIs(t, p.Authorize(Anonymous, ManageCourses), domain.ErrUnauthorized)
	assert.ErrorIs(t, p.Authorize(Actor{UserID: "u"}, ReadContacts), domain.ErrUnauthorized)
	assert.ErrorIs(t, p.Authorize(Actor{UserID: "a", IsAdmin: true}, Operation("nope")), domain.ErrUnauthorized)
}

func TestAdminFlagWithoutIdentityIsAnonymous(t *testing.T) {
	assert.Equal(t, LevelAnonymous, Actor{IsAdmin: true}.Level())
	assert.Equal(t, LevelAdmin, ActorFor(&domain.User{ID: "a", IsAdmin: true}).Level())
	assert.Equal(t, LevelAnonymous, ActorFor(nil).Level())
}
