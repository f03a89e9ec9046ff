package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/eduadmin/internal/client/access"
	"github.com/dmitrijs2005/eduadmin/internal/client/forms"
	"github.com/dmitrijs2005/eduadmin/internal/client/models"
	"github.com/dmitrijs2005/eduadmin/internal/client/services"
)

// dashboard shows the counters for the selected branch.
func (a *App) dashboard(ctx context.Context) error {
	var branch *int64
	if id, ok := a.selectedBranch(); ok {
		branch = &id
	}

	fmt.Fprintf(a.out, "== Dashboard (%s) ==\n", a.branchName())
	stats, err := a.services.Dashboard.Stats(ctx, branch)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, row := range []struct {
		label string
		value int
	}{
		{"Active leads", stats.ActiveLeads},
		{"Groups", stats.Groups},
		{"Active students", stats.ActiveStudents},
		{"Debtors", stats.Debtors},
		{"Remaining debts", stats.RemainingDebts},
		{"Payment due soon", stats.PaymentDueSoon},
		{"Left this month", stats.AttritionStudents},
		{"Teachers", stats.Teachers},
		{"Admins", stats.Admins},
	} {
		fmt.Fprintf(tw, "%s:\t%d\n", row.label, row.value)
	}
	return tw.Flush()
}

// Find runs the global search and lists the hits by kind.
func (a *App) Find(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < services.MinSearchLength {
		return userError(fmt.Sprintf("Type at least %d characters to search.", services.MinSearchLength))
	}

	res, err := a.services.Search.Search(ctx, text)
	if err != nil {
		return err
	}
	if res.Empty() {
		fmt.Fprintln(a.out, "Nothing found.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, group := range []struct {
		heading string
		path    string
		hits    []models.SearchHit
	}{
		{"Students", access.PathStudents, res.Students},
		{"Teachers", access.PathTeachers, res.Teachers},
	} {
		if len(group.hits) == 0 {
			continue
		}
		fmt.Fprintf(tw, "%s\n", group.heading)
		for _, h := range group.hits {
			fmt.Fprintf(tw, "  %s/%d\t%s\t%s\n", group.path, h.ID, h.Name, dash(h.Phone))
		}
	}
	return tw.Flush()
}

// Enroll adds a student to a group, asking for the join date and an
// optional individual price.
func (a *App) Enroll(ctx context.Context, student, group string) error {
	sid, err := parseID(student)
	if err != nil {
		return err
	}
	gid, err := parseID(group)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("enrollment:%d:%d", sid, gid)
	form, ok := a.drafts[key].(*forms.EnrollmentForm)
	if !ok {
		form = &forms.EnrollmentForm{Student: sid, Group: gid, JoinedAt: time.Now().Format(time.DateOnly)}
	}
	if err := forms.Fill(form, a.ask); err != nil {
		a.drafts[key] = form
		return err
	}

	e, err := a.services.Enroll(ctx, *form)
	if err != nil {
		a.drafts[key] = form
		return err
	}
	delete(a.drafts, key)

	name := e.GroupName
	if name == "" {
		name = fmt.Sprintf("group #%d", gid)
	}
	a.notifier.Success(fmt.Sprintf("Student #%d enrolled in %s.", sid, name))
	return nil
}

// Pay records a payment from any screen. On the payments screen the list
// is reloaded afterwards.
func (a *App) Pay(ctx context.Context) error {
	if strings.HasPrefix(a.path, access.PathFinance) && a.screen != nil {
		return a.screen.add(ctx)
	}

	const key = "payment:0"
	form, ok := a.drafts[key].(*forms.PaymentForm)
	if !ok {
		form = &forms.PaymentForm{TransactionType: forms.Credit, Category: "PAYMENT"}
	}
	if err := forms.Fill(form, a.ask); err != nil {
		a.drafts[key] = form
		return err
	}

	p, err := a.services.Payments.Create(ctx, form)
	if err != nil {
		a.drafts[key] = form
		return err
	}
	delete(a.drafts, key)
	a.notifier.Success(fmt.Sprintf("Payment #%d recorded.", p.ID))
	return nil
}
