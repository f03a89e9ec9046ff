package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/eduadmin/internal/client/models"
	"github.com/dmitrijs2005/eduadmin/internal/client/preferences"
)

func (a *App) Theme(ctx context.Context, value string) error {
	if value == "" {
		return usage("theme <light|dark|mixed>")
	}
	t, err := models.ParseTheme(value)
	if err != nil {
		return userError(err.Error())
	}
	if err := a.prefs.SetTheme(ctx, t); err != nil {
		return err
	}
	a.notifier.Success("Theme set to " + string(t) + ".")
	return nil
}

func (a *App) Menu(ctx context.Context, value string) error {
	if value == "" {
		return usage("menu <vertical|horizontal>")
	}
	p, err := models.ParseMenuPosition(value)
	if err != nil {
		return userError(err.Error())
	}
	if err := a.prefs.SetMenuPosition(ctx, p); err != nil {
		return err
	}
	a.notifier.Success("Menu position set to " + string(p) + ".")
	return a.Nav(ctx, "")
}

func (a *App) Width(ctx context.Context, value string) error {
	if value == "" {
		return usage("width <full|contained>")
	}
	w, err := models.ParseLayoutWidth(value)
	if err != nil {
		return userError(err.Error())
	}
	if err := a.prefs.SetLayoutWidth(ctx, w); err != nil {
		return err
	}
	a.notifier.Success("Layout width set to " + string(w) + ".")
	return nil
}

// Branch lists the branches, or selects one by id ("none" clears the
// selection). The current screen is reopened under the new scope.
func (a *App) Branch(ctx context.Context, id string) error {
	if id == "" {
		return a.listBranches(ctx)
	}

	var sel *int64
	if id != "none" {
		n, err := parseID(id)
		if err != nil {
			return err
		}
		sel = &n
		if a.prefs.BranchesLoading() {
			if err := a.prefs.LoadBranches(ctx); err != nil {
				return err
			}
		}
	}
	if err := a.prefs.SetSelectedBranch(ctx, sel); err != nil {
		if errors.Is(err, preferences.ErrInvalidValue) {
			return userError(fmt.Sprintf("Branch %s is not in the branch list.", id))
		}
		return err
	}
	a.notifier.Success("Branch: " + a.branchName() + ".")
	return a.Navigate(ctx, a.path)
}

func (a *App) listBranches(ctx context.Context) error {
	if a.prefs.BranchesLoading() {
		if err := a.prefs.LoadBranches(ctx); err != nil {
			return err
		}
	}

	selected, hasSel := a.prefs.SelectedBranchID()
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tADDRESS")
	for _, b := range a.prefs.Branches() {
		marker := ""
		if hasSel && b.ID == selected {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", marker, b.ID, b.Name, b.Address)
	}
	return tw.Flush()
}

// branchName names the selected branch for display.
func (a *App) branchName() string {
	id, ok := a.prefs.SelectedBranchID()
	if !ok {
		return "none"
	}
	for _, b := range a.prefs.Branches() {
		if b.ID == id {
			return b.Name
		}
	}
	return "#" + strconv.FormatInt(id, 10)
}

// Prefs shows the stored preferences; "prefs reset" restores the defaults.
func (a *App) Prefs(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if args[0] != "reset" {
			return usage("prefs [reset]")
		}
		if err := a.prefs.Reset(ctx); err != nil {
			return err
		}
		a.notifier.Success("Preferences reset.")
	}

	p := a.prefs.Preferences()
	fmt.Fprintf(a.out, "Theme:  %s\n", p.Theme)
	fmt.Fprintf(a.out, "Menu:   %s\n", p.MenuPosition)
	fmt.Fprintf(a.out, "Width:  %s\n", p.LayoutWidth)
	fmt.Fprintf(a.out, "Branch: %s\n", a.branchName())

	saved, err := a.prefs.Saved(ctx)
	if err != nil {
		return err
	}
	if len(saved) == 0 {
		saved = []string{"none"}
	}
	fmt.Fprintf(a.out, "Saved:  %s\n", strings.Join(saved, ", "))
	return nil
}
