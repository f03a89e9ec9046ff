package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/eduadmin/internal/client/client"
	"github.com/dmitrijs2005/eduadmin/internal/client/forms"
	"github.com/dmitrijs2005/eduadmin/internal/client/listing"
	"github.com/dmitrijs2005/eduadmin/internal/client/popup"
	"github.com/dmitrijs2005/eduadmin/internal/client/services"
)

// screen is a list screen: a filtered table with create, edit, detail and
// row actions.
type screen interface {
	title() string
	open(ctx context.Context)
	render(ctx context.Context, w io.Writer) error
	close()

	setFilter(ctx context.Context, key, value string) error
	clearFilters(ctx context.Context)
	refresh(ctx context.Context)

	add(ctx context.Context) error
	edit(ctx context.Context, id int64) error
	show(ctx context.Context, id int64) error
	archive(ctx context.Context, id int64) error
	restore(ctx context.Context, id int64) error
	remove(ctx context.Context, id int64) error
	menu(ctx context.Context, id int64) (*popup.Menu, popup.Rect, error)
}

// field is one label/value line of a detail view.
type field struct {
	Label, Value string
}

// resourceDef describes one resource screen.
type resourceDef[T any] struct {
	noun    string
	heading string
	svc     services.ResourceService[T]
	// filters are the query keys the screen accepts; "search" enables the
	// search command.
	filters []string
	// fixed filters are always sent and cannot be changed or cleared.
	fixed      map[string]string
	archivable bool
	// readOnly screens only list and show rows.
	readOnly bool
	// photo asks for a profile photo file on add and edit.
	photo bool

	columns  []string
	row      func(T) []string
	id       func(T) int64
	archived func(T) bool
	details  func(T) []field

	newForm  func() any
	editForm func(T) any
	// extra adds resource-specific entries to the row actions menu.
	extra func(ctx context.Context, item T) []popup.Action
}

type resourceScreen[T any] struct {
	app  *App
	def  resourceDef[T]
	ctrl *listing.Controller[T]

	// shown lists the ids of the last rendered table, top to bottom.
	shown []int64
}

func newResourceScreen[T any](a *App, def resourceDef[T]) screen {
	return &resourceScreen[T]{app: a, def: def}
}

func (s *resourceScreen[T]) title() string {
	return s.def.heading
}

// initialFilters hides archived rows and scopes the list to the selected
// branch.
func (s *resourceScreen[T]) initialFilters() map[string]string {
	f := map[string]string{}
	if s.def.archivable && slices.Contains(s.def.filters, "is_archived") {
		f["is_archived"] = "false"
	}
	if id, ok := s.app.selectedBranch(); ok && slices.Contains(s.def.filters, "branch") {
		f["branch"] = strconv.FormatInt(id, 10)
	}
	maps.Copy(f, s.def.fixed)
	return f
}

func (s *resourceScreen[T]) open(ctx context.Context) {
	if s.ctrl != nil {
		return
	}
	s.ctrl = listing.New[T](ctx, s.def.svc.List,
		listing.WithDebounce(s.app.debounce),
		listing.WithLogger(s.app.log.With("screen", s.def.heading)),
		listing.WithFilters(s.initialFilters()),
	)
	s.ctrl.Open()
}

func (s *resourceScreen[T]) close() {
	if s.ctrl != nil {
		s.ctrl.Close()
	}
}

func (s *resourceScreen[T]) render(ctx context.Context, w io.Writer) error {
	s.open(ctx)
	if err := s.ctrl.Wait(ctx); err != nil {
		return err
	}
	snap := s.ctrl.Snapshot()

	fmt.Fprintf(w, "== %s ==%s\n", s.def.heading, describeFilters(snap.Filters))
	if snap.State == listing.Failed {
		s.shown = nil
		return snap.Err
	}
	if snap.Empty() {
		s.shown = nil
		fmt.Fprintln(w, "No records found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t"+strings.Join(s.columns(), "\t"))
	s.shown = s.shown[:0]
	for _, item := range snap.Rows {
		id := s.def.id(item)
		s.shown = append(s.shown, id)
		cells := s.def.row(item)
		if s.def.archived != nil {
			cells = append(cells, archivedLabel(s.def.archived(item)))
		}
		for i := range cells {
			cells[i] = clip(cells[i], s.app.cellWidth())
		}
		fmt.Fprintf(tw, "%d\t%s\n", id, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if snap.Count > len(snap.Rows) {
		fmt.Fprintf(w, "Showing %d of %d.\n", len(snap.Rows), snap.Count)
	}
	return nil
}

func (s *resourceScreen[T]) columns() []string {
	if s.def.archived != nil {
		return append(slices.Clone(s.def.columns), "STATUS")
	}
	return s.def.columns
}

func archivedLabel(archived bool) string {
	if archived {
		return "archived"
	}
	return "active"
}

func describeFilters(f map[string]string) string {
	if len(f) == 0 {
		return ""
	}
	keys := slices.Sorted(maps.Keys(f))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + f[k]
	}
	return " [" + strings.Join(parts, " ") + "]"
}

func (s *resourceScreen[T]) setFilter(ctx context.Context, key, value string) error {
	if !slices.Contains(s.def.filters, key) {
		if key == "search" {
			return userError(s.def.heading + " has no search.")
		}
		return userError(fmt.Sprintf("Unknown filter %q. Available: %s.", key, strings.Join(s.def.filters, ", ")))
	}
	s.open(ctx)
	s.ctrl.SetFilter(key, value)
	return nil
}

// clearFilters drops every filter but the branch scope and the fixed ones.
func (s *resourceScreen[T]) clearFilters(ctx context.Context) {
	s.open(ctx)
	s.ctrl.ClearFilters(append(slices.Collect(maps.Keys(s.def.fixed)), "branch")...)
}

// writable rejects changes on a read-only screen.
func (s *resourceScreen[T]) writable() error {
	if s.def.readOnly {
		return userError(s.def.heading + " is read-only.")
	}
	return nil
}

func (s *resourceScreen[T]) refresh(ctx context.Context) {
	if s.ctrl == nil {
		s.open(ctx)
		return
	}
	s.ctrl.Refresh()
}

// reload refetches after a change and shows the updated table.
func (s *resourceScreen[T]) reload(ctx context.Context) error {
	s.refresh(ctx)
	return s.render(ctx, s.app.out)
}

func (s *resourceScreen[T]) draftKey(id int64) string {
	return fmt.Sprintf("%s:%d", s.def.noun, id)
}

// fill prompts for form and, for resources with a photo, for the photo
// file. A form that fails to parse or submit is kept as the draft for the
// next attempt.
func (s *resourceScreen[T]) fill(key string, form any) ([]forms.Upload, error) {
	if err := forms.Fill(form, s.app.ask); err != nil {
		s.app.drafts[key] = form
		return nil, err
	}
	if !s.def.photo {
		return nil, nil
	}
	up, err := s.app.askUpload("profile_photo", "Profile photo file (empty to skip)")
	if err != nil {
		s.app.drafts[key] = form
		return nil, err
	}
	return up, nil
}

func (s *resourceScreen[T]) add(ctx context.Context) error {
	if err := s.writable(); err != nil {
		return err
	}
	key := s.draftKey(0)
	form, ok := s.app.drafts[key]
	if ok {
		s.app.notifier.Info("Continuing your unsaved " + s.def.noun + ".")
	} else {
		form = s.def.newForm()
	}

	uploads, err := s.fill(key, form)
	if err != nil {
		return err
	}
	item, err := s.def.svc.Create(ctx, form, uploads...)
	if err != nil {
		s.app.drafts[key] = form
		return err
	}
	delete(s.app.drafts, key)

	s.app.notifier.Success(fmt.Sprintf("%s #%d created.", capitalize(s.def.noun), s.def.id(item)))
	return s.reload(ctx)
}

func (s *resourceScreen[T]) edit(ctx context.Context, id int64) error {
	if err := s.writable(); err != nil {
		return err
	}
	if s.def.editForm == nil {
		return userError(capitalize(s.def.noun) + " records cannot be edited.")
	}

	key := s.draftKey(id)
	form, ok := s.app.drafts[key]
	if ok {
		s.app.notifier.Info(fmt.Sprintf("Continuing your unsaved changes to %s #%d.", s.def.noun, id))
	} else {
		item, err := s.def.svc.Get(ctx, id)
		if err != nil {
			return err
		}
		form = s.def.editForm(item)
	}

	uploads, err := s.fill(key, form)
	if err != nil {
		return err
	}
	if _, err := s.def.svc.Update(ctx, id, form, uploads...); err != nil {
		s.app.drafts[key] = form
		return err
	}
	delete(s.app.drafts, key)

	s.app.notifier.Success(fmt.Sprintf("%s #%d saved.", capitalize(s.def.noun), id))
	return s.reload(ctx)
}

func (s *resourceScreen[T]) show(ctx context.Context, id int64) error {
	item, err := s.def.svc.Get(ctx, id)
	if errors.Is(err, client.ErrNotFound) {
		fmt.Fprintf(s.app.out, "%s #%d not found.\n", capitalize(s.def.noun), id)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(s.app.out, "== %s #%d ==\n", capitalize(s.def.noun), id)
	tw := tabwriter.NewWriter(s.app.out, 0, 4, 2, ' ', 0)
	for _, f := range s.def.details(item) {
		fmt.Fprintf(tw, "%s:\t%s\n", f.Label, f.Value)
	}
	if s.def.archived != nil {
		fmt.Fprintf(tw, "Status:\t%s\n", archivedLabel(s.def.archived(item)))
	}
	return tw.Flush()
}

func (s *resourceScreen[T]) archive(ctx context.Context, id int64) error {
	return s.archiveAction(ctx, id, "archive", s.def.svc.Archive)
}

func (s *resourceScreen[T]) restore(ctx context.Context, id int64) error {
	return s.archiveAction(ctx, id, "restore", s.def.svc.Restore)
}

func (s *resourceScreen[T]) archiveAction(ctx context.Context, id int64, verb string, run func(context.Context, int64) error) error {
	if err := s.writable(); err != nil {
		return err
	}
	if !s.def.archivable {
		return userError(capitalize(s.def.noun) + " records cannot be archived.")
	}
	ok, err := s.app.confirm(fmt.Sprintf("%s %s #%d?", capitalize(verb), s.def.noun, id))
	if err != nil || !ok {
		return err
	}
	if err := run(ctx, id); err != nil {
		return err
	}
	done := map[string]string{"archive": "archived", "restore": "restored"}[verb]
	s.app.notifier.Success(fmt.Sprintf("%s #%d %s.", capitalize(s.def.noun), id, done))
	return s.reload(ctx)
}

func (s *resourceScreen[T]) remove(ctx context.Context, id int64) error {
	if err := s.writable(); err != nil {
		return err
	}
	ok, err := s.app.confirm(fmt.Sprintf("Delete %s #%d? This cannot be undone.", s.def.noun, id))
	if err != nil || !ok {
		return err
	}
	if err := s.def.svc.Delete(ctx, id); err != nil {
		return err
	}
	delete(s.app.drafts, s.draftKey(id))
	s.app.notifier.Success(fmt.Sprintf("%s #%d deleted.", capitalize(s.def.noun), id))
	return s.reload(ctx)
}

// lookup finds id among the loaded rows, or fetches it.
func (s *resourceScreen[T]) lookup(ctx context.Context, id int64) (T, error) {
	if s.ctrl != nil {
		for _, item := range s.ctrl.Snapshot().Rows {
			if s.def.id(item) == id {
				return item, nil
			}
		}
	}
	return s.def.svc.Get(ctx, id)
}

// menu builds the row actions menu for id. The anchor is the row's line in
// the last rendered table, or the top line when the row is not shown.
func (s *resourceScreen[T]) menu(ctx context.Context, id int64) (*popup.Menu, popup.Rect, error) {
	if err := s.writable(); err != nil {
		return nil, popup.Rect{}, err
	}
	item, err := s.lookup(ctx, id)
	if err != nil {
		return nil, popup.Rect{}, err
	}

	actions := []popup.Action{
		{Label: "Show", Run: func() error { return s.show(ctx, id) }},
		{Label: "Edit", Disabled: s.def.editForm == nil, Run: func() error { return s.edit(ctx, id) }},
	}
	if s.def.extra != nil {
		actions = append(actions, s.def.extra(ctx, item)...)
	}
	actions = append(actions, popup.Action{Separator: true})
	if s.def.archivable {
		archived := s.def.archived != nil && s.def.archived(item)
		actions = append(actions,
			popup.Action{Label: "Archive", Disabled: archived, Run: func() error { return s.archive(ctx, id) }},
			popup.Action{Label: "Restore", Disabled: !archived, Run: func() error { return s.restore(ctx, id) }},
		)
	}
	actions = append(actions, popup.Action{Label: "Delete", Run: func() error { return s.remove(ctx, id) }})

	anchor := popup.Rect{X: 0, Y: 0, W: len(strconv.FormatInt(id, 10)), H: 1}
	if i := slices.Index(s.shown, id); i >= 0 {
		// heading and column header come first
		anchor.Y = i + 2
	}
	m := &popup.Menu{Title: fmt.Sprintf("%s #%d", capitalize(s.def.noun), id), Actions: actions}
	return m, anchor, nil
}

// askUpload asks for an optional file to attach to field.
func (a *App) askUpload(field, prompt string) ([]forms.Upload, error) {
	path, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil || path == "" {
		return nil, err
	}
	if st, err := os.Stat(path); err != nil || st.IsDir() {
		return nil, userError(fmt.Sprintf("Cannot read file %s.", path))
	}
	return []forms.Upload{{Field: field, Path: path}}, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
