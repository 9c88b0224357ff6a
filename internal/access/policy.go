// Package access decides which operations an actor may invoke.
// Every service method asks the Policy before touching the store.
package access

import (
	"fmt"

	"studio-marketplace/internal/domain"
)

// Actor is the caller of an operation. The zero value is an anonymous visitor.
type Actor struct {
	UserID  string
	IsAdmin bool
}

var Anonymous = Actor{}

func ActorFor(u *domain.User) Actor {
	if u == nil {
		return Anonymous
	}
	return Actor{UserID: u.ID, IsAdmin: u.IsAdmin}
}

func (a Actor) Authenticated() bool { return a.UserID != "" }

type Level int

const (
	LevelAnonymous Level = iota
	LevelAuthenticated
	LevelAdmin
)

func (l Level) String() string {
	switch l {
	case LevelAnonymous:
		return "anonymous"
	case LevelAuthenticated:
		return "authenticated"
	case LevelAdmin:
		return "admin"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

func (a Actor) Level() Level {
	switch {
	case a.IsAdmin && a.Authenticated():
		return LevelAdmin
	case a.Authenticated():
		return LevelAuthenticated
	default:
		return LevelAnonymous
	}
}

type Operation string

const (
	ReadPortfolio        Operation = "portfolio.read"
	ReadPublishedCourses Operation = "courses.read_published"
	SubmitContact        Operation = "contact.submit"
	InitiatePurchase     Operation = "purchase.initiate"

	ReadOwnProfile     Operation = "profile.read_own"
	ReadOwnEnrollments Operation = "enrollments.read_own"
	ConfirmPurchase    Operation = "purchase.confirm"
	CompleteEnrollment Operation = "enrollments.complete"

	ManagePortfolio  Operation = "portfolio.manage"
	ManageCourses    Operation = "courses.manage"
	ReadAllCourses   Operation = "courses.read_all"
	ReadContacts     Operation = "contact.read_all"
	RespondToContact Operation = "contact.respond"
)

// Policy maps each operation to the minimum actor level allowed to run it.
type Policy struct {
	rules map[Operation]Level
}

func DefaultPolicy() *Policy {
	return &Policy{rules: map[Operation]Level{
		ReadPortfolio:        LevelAnonymous,
		ReadPublishedCourses: LevelAnonymous,
		SubmitContact:        LevelAnonymous,
		InitiatePurchase:     LevelAnonymous,

		ReadOwnProfile:     LevelAuthenticated,
		ReadOwnEnrollments: LevelAuthenticated,
		ConfirmPurchase:    LevelAuthenticated,
		CompleteEnrollment: LevelAuthenticated,

		ManagePortfolio:  LevelAdmin,
		ManageCourses:    LevelAdmin,
		ReadAllCourses:   LevelAdmin,
		ReadContacts:     LevelAdmin,
		RespondToContact: LevelAdmin,
	}}
}

// Authorize returns an error wrapping domain.ErrUnauthorized when the actor may not run op.
// Unknown operations are denied.
func (p *Policy) Authorize(a Actor, op Operation) error {
	need, ok := p.rules[op]
	if !ok {
		return fmt.Errorf("%w: unknown operation %q", domain.ErrUnauthorized, op)
	}
	if a.Level() < need {
		return fmt.Errorf("%w: %s requires %s actor", domain.ErrUnauthorized, op, need)
	}
	return nil
}

// Allowed is Authorize as a boolean, for visibility decisions that must not fail the request.
func (p *Policy) Allowed(a Actor, op Operation) bool {
	return p.Authorize(a, op) == nil
}
