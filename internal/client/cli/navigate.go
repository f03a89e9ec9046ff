package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/eduadmin/internal/client/access"
	"github.com/dmitrijs2005/eduadmin/internal/client/navigation"
)

// detailOf maps detail routes to the list screen that owns them.
var detailOf = map[string]string{
	"student": "students",
	"teacher": "teachers",
	"group":   "groups",

	"my-group":   "my-groups",
	"my-student": "my-students",
}

// Navigate moves to path after asking the gate. Redirects are followed and
// an unknown path shows a not found screen.
func (a *App) Navigate(ctx context.Context, path string) error {
	v := a.gate.Decide(a.identity(), path)
	a.log.Debug(ctx, "navigate", "path", path, "decision", v.Decision.String(), "target", v.Target)

	switch v.Decision {
	case access.RedirectLogin:
		if access.CleanPath(path) != access.PathHome {
			a.notifier.Info("Please log in first.")
		}
		return a.Navigate(ctx, v.Target)
	case access.RedirectHome:
		if access.CleanPath(path) != access.PathLogin {
			a.notifier.Info("You do not have access to " + access.CleanPath(path) + ".")
		}
		return a.Navigate(ctx, v.Target)
	case access.NotFound:
		a.closeScreen()
		a.path = v.Target
		a.notFound(v.Target)
		return nil
	}
	return a.enter(ctx, v)
}

func (a *App) enter(ctx context.Context, v access.Verdict) error {
	a.closeScreen()
	a.path = v.Target

	name := v.Match.Route.Name
	switch name {
	case "login":
		fmt.Fprintln(a.out, "Sign in with 'login'.")
		return nil
	case "dashboard":
		return a.dashboard(ctx)
	case "profile":
		return a.showProfile(ctx)
	}

	if list, ok := detailOf[name]; ok {
		id, err := parseID(v.Match.Param("id"))
		if err != nil {
			return err
		}
		a.screen = a.screens[list]()
		return a.screen.show(ctx, id)
	}

	factory, ok := a.screens[name]
	if !ok {
		a.notFound(v.Target)
		return nil
	}
	a.screen = factory()
	a.screen.open(ctx)
	return a.screen.render(ctx, a.out)
}

// notFound names the missing page and lists the menu paths the user can
// open instead.
func (a *App) notFound(path string) {
	fmt.Fprintf(a.out, "Page not found: %s\n", path)
	if paths := navigation.Paths(navigation.Tree(), a.session.Roles()); len(paths) > 0 {
		fmt.Fprintf(a.out, "Available: %s\n", strings.Join(paths, ", "))
	}
}

func (a *App) closeScreen() {
	if a.screen != nil {
		a.screen.close()
		a.screen = nil
	}
}

// currentScreen returns the list screen commands apply to.
func (a *App) currentScreen() (screen, error) {
	if a.screen == nil {
		return nil, userError("This screen has no list. Use 'nav' to pick one.")
	}
	return a.screen, nil
}

// Nav prints the menu in the preferred position. Given a group name it
// first toggles that group in the vertical menu.
func (a *App) Nav(ctx context.Context, group string) error {
	if group != "" {
		a.expanded[group] = !a.expanded[group]
	}
	r := navigation.For(a.prefs.MenuPosition(), navigation.Tree(), a.expanded)
	if err := r.Render(a.out, a.session.Roles(), a.path); err != nil {
		return err
	}
	a.log.Debug(ctx, "menu rendered", "position", string(a.prefs.MenuPosition()))
	return nil
}
