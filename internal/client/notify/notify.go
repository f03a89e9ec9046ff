// Package notify shows transient success and failure messages.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/eduadmin/internal/client/client"
	"github.com/dmitrijs2005/eduadmin/internal/client/models"
	"github.com/dmitrijs2005/eduadmin/internal/logging"
)

type Kind int

const (
	Info Kind = iota
	Success
	Failure
)

func (k Kind) prefix() string {
	switch k {
	case Success:
		return "[ok]"
	case Failure:
		return "[error]"
	default:
		return "[info]"
	}
}

// ANSI colours for themed output.
const (
	Cyan   = "\x1b[36m"
	Green  = "\x1b[32m"
	Red    = "\x1b[31m"
	Bright = "\x1b[97m"
	reset  = "\x1b[0m"
)

func (k Kind) colour() string {
	switch k {
	case Success:
		return Green
	case Failure:
		return Red
	default:
		return Cyan
	}
}

// Paint wraps s in colour for the dark and mixed themes. The light theme
// keeps plain text.
func Paint(t models.Theme, colour, s string) string {
	if t == models.ThemeLight || t == "" {
		return s
	}
	return colour + s + reset
}

type Toast struct {
	Kind    Kind
	Message string
	At      time.Time
}

// historySize bounds how many toasts Recent keeps.
const historySize = 20

// Notifier prints toasts and remembers the last few.
type Notifier struct {
	w     io.Writer
	log   logging.Logger
	now   func() time.Time
	theme func() models.Theme

	mu     sync.Mutex
	recent []Toast
}

type Option func(*Notifier)

// WithTheme colours toasts by the theme theme returns at print time.
func WithTheme(theme func() models.Theme) Option {
	return func(n *Notifier) { n.theme = theme }
}

func New(w io.Writer, log logging.Logger, opts ...Option) *Notifier {
	if log == nil {
		log = logging.Nop()
	}
	n := &Notifier{w: w, log: log, now: time.Now, theme: func() models.Theme { return models.ThemeLight }}
	for _, o := range opts {
		o(n)
	}
	return n
}

func (n *Notifier) Info(msg string) {
	n.show(Toast{Kind: Info, Message: msg})
}

func (n *Notifier) Success(msg string) {
	n.show(Toast{Kind: Success, Message: msg})
}

// Failure shows the user-facing message for err and logs err itself.
func (n *Notifier) Failure(ctx context.Context, err error) {
	if err == nil {
		return
	}
	n.log.Warn(ctx, "operation failed", "error", err)
	n.show(Toast{Kind: Failure, Message: client.Message(err)})
}

func (n *Notifier) show(t Toast) {
	t.At = n.now()

	n.mu.Lock()
	defer n.mu.Unlock()
	n.recent = append(n.recent, t)
	if len(n.recent) > historySize {
		n.recent = n.recent[len(n.recent)-historySize:]
	}

	theme := n.theme()
	msg := t.Message
	if theme == models.ThemeDark {
		msg = Paint(theme, Bright, msg)
	}
	fmt.Fprintf(n.w, "%s %s\n", Paint(theme, t.Kind.colour(), t.Kind.prefix()), msg)
}

// Recent returns the remembered toasts, oldest first.
func (n *Notifier) Recent() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Toast(nil), n.recent...)
}
