package services

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/eduadmin/internal/client/client"
	"github.com/dmitrijs2005/eduadmin/internal/client/forms"
	"github.com/dmitrijs2005/eduadmin/internal/client/models"
)

// Collection paths.
const (
	StudentsPath     = "/core/students/"
	GroupsPath       = "/core/groups/"
	RoomsPath        = "/core/rooms/"
	BranchesPath     = "/core/branches/"
	EnrollmentsPath  = "/core/enrollments/"
	TeachersPath     = "/users/teachers/"
	StaffPath        = "/users/users/"
	PaymentTypesPath = "/finance/payment-types/"
	TransactionsPath = "/finance/transactions/"
)

// Services bundles every service the console uses.
type Services struct {
	Students     ResourceService[models.Student]
	Teachers     ResourceService[models.Teacher]
	Staff        ResourceService[models.Staff]
	Groups       ResourceService[models.Group]
	Payments     ResourceService[models.Payment]
	Rooms        ResourceService[models.Room]
	Branches     ResourceService[models.Branch]
	PaymentTypes ResourceService[models.PaymentType]
	Enrollments  ResourceService[models.Enrollment]

	Account   AccountService
	Dashboard DashboardService
	Search    SearchService
}

func New(c client.Client, v Validator, session IdentityUpdater) *Services {
	return &Services{
		Students:     NewResourceService[models.Student](c, v, StudentsPath),
		Teachers:     NewResourceService[models.Teacher](c, v, TeachersPath),
		Staff:        NewResourceService[models.Staff](c, v, StaffPath),
		Groups:       NewResourceService[models.Group](c, v, GroupsPath),
		Payments:     NewResourceService[models.Payment](c, v, TransactionsPath),
		Rooms:        NewResourceService[models.Room](c, v, RoomsPath),
		Branches:     NewResourceService[models.Branch](c, v, BranchesPath),
		PaymentTypes: NewResourceService[models.PaymentType](c, v, PaymentTypesPath),
		Enrollments:  NewResourceService[models.Enrollment](c, v, EnrollmentsPath),
		Account:      NewAccountService(c, v, session),
		Dashboard:    NewDashboardService(c),
		Search:       NewSearchService(c),
	}
}

// ListBranches returns the active branches; it feeds the preferences store.
func (s *Services) ListBranches(ctx context.Context) ([]models.Branch, error) {
	page, err := s.Branches.List(ctx, url.Values{"is_archived": {"false"}})
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Enroll adds a student to a group.
func (s *Services) Enroll(ctx context.Context, form forms.EnrollmentForm) (models.Enrollment, error) {
	return s.Enrollments.Create(ctx, form)
}
