package access

import "github.com/dmitrijs2005/eduadmin/internal/client/models"

type Decision int

const (
	Render Decision = iota
	RedirectLogin
	RedirectHome
	NotFound
)

func (d Decision) String() string {
	switch d {
	case Render:
		return "render"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	case NotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// Verdict is the outcome of one navigation.
type Verdict struct {
	Decision Decision
	// Target is where to go for redirects, or the cleaned path otherwise.
	Target string
	Match  Match
}

// Gate decides, for every navigation, whether the screen renders.
type Gate struct {
	router *Router
}

func NewGate(r *Router) *Gate {
	return &Gate{router: r}
}

// Decide applies, in order: no identity goes to the login screen, unknown
// paths are not found, and a route the roles cannot see goes home.
// A signed-in user asking for the login screen is sent home too.
func (g *Gate) Decide(id *models.Identity, path string) Verdict {
	path = CleanPath(path)
	m, ok := g.router.Match(path)

	if id == nil {
		if ok && m.Route.Public {
			return Verdict{Decision: Render, Target: path, Match: m}
		}
		return Verdict{Decision: RedirectLogin, Target: PathLogin}
	}

	if !ok {
		return Verdict{Decision: NotFound, Target: path}
	}
	if m.Route.Public {
		return Verdict{Decision: RedirectHome, Target: PathHome}
	}
	if !IsVisible(m.Route.AllowedRoles, id.Roles) {
		return Verdict{Decision: RedirectHome, Target: PathHome}
	}
	return Verdict{Decision: Render, Target: path, Match: m}
}
