package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dmitrijs2005/eduadmin/internal/client/access"
	"github.com/dmitrijs2005/eduadmin/internal/client/client"
	"github.com/dmitrijs2005/eduadmin/internal/client/forms"
	"github.com/dmitrijs2005/eduadmin/internal/client/listing"
	"github.com/dmitrijs2005/eduadmin/internal/client/models"
	"github.com/dmitrijs2005/eduadmin/internal/client/notify"
	"github.com/dmitrijs2005/eduadmin/internal/client/preferences"
	"github.com/dmitrijs2005/eduadmin/internal/client/services"
	"github.com/dmitrijs2005/eduadmin/internal/client/session"
	"github.com/dmitrijs2005/eduadmin/internal/logging"
)

// App owns everything built at start and hands it to the screens.
type App struct {
	session  *session.Store
	prefs    *preferences.Store
	services *services.Services
	gate     *access.Gate
	notifier *notify.Notifier
	log      logging.Logger

	reader   *bufio.Reader
	out      io.Writer
	debounce time.Duration

	path     string
	screen   screen
	screens  map[string]func() screen
	expanded map[string]bool
	drafts   map[string]any

	closers []func(context.Context) error
}

// deps are the collaborators of an App.
type deps struct {
	Session  *session.Store
	Prefs    *preferences.Store
	Services *services.Services
	Logger   logging.Logger
	In       io.Reader
	Out      io.Writer
	Debounce time.Duration
}

func newApp(d deps) *App {
	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	if d.Debounce <= 0 {
		d.Debounce = listing.DefaultDebounce
	}
	a := &App{
		session:  d.Session,
		prefs:    d.Prefs,
		services: d.Services,
		gate:     access.NewGate(access.NewRouter(access.DefaultRoutes()...)),
		log:      d.Logger,
		reader:   bufio.NewReader(d.In),
		out:      d.Out,
		debounce: d.Debounce,
		expanded: map[string]bool{},
		drafts:   map[string]any{},
	}
	a.notifier = notify.New(d.Out, d.Logger, notify.WithTheme(a.theme))
	a.screens = a.resourceScreens()
	return a
}

// Run shows the start screen and runs the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)

	printlnFn("Education center console (type 'help' for commands)")
	a.start(ctx)
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) start(ctx context.Context) {
	if a.session.Authenticated() {
		if a.session.Expired() {
			a.notifier.Info("Your session token has expired; it will be renewed on the next request.")
		}
		a.afterLogin(ctx)
	}
	a.report(ctx, a.Navigate(ctx, access.PathHome))
}

func (a *App) close(ctx context.Context) {
	a.closeScreen()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn(ctx, "shutdown", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Authenticated()
}

func (a *App) identity() *models.Identity {
	id, ok := a.session.Identity()
	if !ok {
		return nil
	}
	return &id
}

// theme is the active theme marker.
func (a *App) theme() models.Theme {
	return a.prefs.Markers().Current()
}

// status is shown in the prompt: who is signed in and where they are,
// coloured by the theme.
func (a *App) status() string {
	s := fmt.Sprintf("(%s)", a.path)
	if id := a.identity(); id != nil {
		s = fmt.Sprintf("(%s %s)", id.FullName, a.path)
	}
	return notify.Paint(a.theme(), notify.Cyan, s)
}

const (
	// containedWidth caps the viewport in the contained layout.
	containedWidth = 80
	// containedCell caps table cells in the contained layout.
	containedCell = 24
	// containedMenu caps the actions menu in the contained layout.
	containedMenu = 36
)

func (a *App) contained() bool {
	return a.prefs.LayoutWidth() == models.LayoutContained
}

// cellWidth is the widest a table cell may be, 0 for no limit.
func (a *App) cellWidth() int {
	if a.contained() {
		return containedCell
	}
	return 0
}

// clip shortens s to n characters, marking the cut with "...". n <= 0
// keeps s.
func clip(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// report shows err as a failure notification. Field errors are listed one
// per line. A session that ended under the command lands on the login
// screen.
func (a *App) report(ctx context.Context, err error) {
	if err == nil {
		return
	}
	a.notifier.Failure(ctx, err)

	var verr *forms.ValidationError
	if errors.As(err, &verr) && len(verr.Fields) > 1 {
		for _, f := range verr.Fields {
			fmt.Fprintf(a.out, "  %s: %s\n", f.Field, f.Message)
		}
	}

	if errors.Is(err, client.ErrUnauthorized) && !a.session.Authenticated() {
		a.closeScreen()
		a.prefs.ResetBranches()
		a.drafts = map[string]any{}
		a.path = access.PathLogin
	}
}

// ask prompts for one form field, showing the current value.
func (a *App) ask(label, current string) (string, error) {
	prompt := label
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]", label, current)
	}
	return getSimpleText(a.reader, prompt, a.out)
}

func (a *App) confirm(question string) (bool, error) {
	return confirm(a.reader, question, a.out)
}

// selectedBranch is the branch list screens and new records are scoped to.
func (a *App) selectedBranch() (int64, bool) {
	return a.prefs.SelectedBranchID()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, userError(fmt.Sprintf("%q is not a valid id", s))
	}
	return id, nil
}
