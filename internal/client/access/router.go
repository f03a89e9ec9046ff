package access

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/eduadmin/internal/client/models"
)

// Screen paths.
const (
	PathLogin        = "/login"
	PathHome         = "/"
	PathProfile      = "/profile"
	PathStudents     = "/students"
	PathTeachers     = "/teachers"
	PathStaff        = "/staff"
	PathGroups       = "/groups"
	PathFinance      = "/finance"
	PathRooms        = "/settings/office/rooms"
	PathBranches     = "/settings/office/branches"
	PathPaymentTypes = "/settings/office/payment-types"
	PathMyGroups     = "/my-groups"
	PathMyStudents   = "/my-students"
)

// Route is one screen of the console.
type Route struct {
	Name    string
	Pattern string
	// AllowedRoles restricts the screen; empty means any signed-in user.
	AllowedRoles models.Roles
	// Public screens are reachable without a session.
	Public bool
}

// Match is a resolved path.
type Match struct {
	Route  Route
	Params map[string]string
}

func (m Match) Param(key string) string {
	return m.Params[key]
}

var (
	ceoAdmin = models.Roles{models.RoleCEO, models.RoleAdmin}
	ceoOnly  = models.Roles{models.RoleCEO}
	teacher  = models.Roles{models.RoleTeacher}
)

// DefaultRoutes is the console's route table.
func DefaultRoutes() []Route {
	return []Route{
		{Name: "login", Pattern: PathLogin, Public: true},
		{Name: "dashboard", Pattern: PathHome},
		{Name: "profile", Pattern: PathProfile},
		{Name: "students", Pattern: PathStudents, AllowedRoles: ceoAdmin},
		{Name: "student", Pattern: PathStudents + "/{id}", AllowedRoles: ceoAdmin},
		{Name: "teachers", Pattern: PathTeachers, AllowedRoles: ceoAdmin},
		{Name: "teacher", Pattern: PathTeachers + "/{id}", AllowedRoles: ceoAdmin},
		{Name: "staff", Pattern: PathStaff, AllowedRoles: ceoOnly},
		{Name: "groups", Pattern: PathGroups, AllowedRoles: ceoAdmin},
		{Name: "group", Pattern: PathGroups + "/{id}", AllowedRoles: ceoAdmin},
		{Name: "payments", Pattern: PathFinance, AllowedRoles: ceoAdmin},
		{Name: "rooms", Pattern: PathRooms, AllowedRoles: ceoAdmin},
		{Name: "branches", Pattern: PathBranches, AllowedRoles: ceoOnly},
		{Name: "payment-types", Pattern: PathPaymentTypes, AllowedRoles: ceoOnly},
		{Name: "my-groups", Pattern: PathMyGroups, AllowedRoles: teacher},
		{Name: "my-group", Pattern: PathMyGroups + "/{id}", AllowedRoles: teacher},
		{Name: "my-students", Pattern: PathMyStudents, AllowedRoles: teacher},
		{Name: "my-student", Pattern: PathMyStudents + "/{id}", AllowedRoles: teacher},
	}
}

// Router resolves console paths to routes using chi's pattern syntax.
type Router struct {
	mux    *chi.Mux
	routes map[string]Route
}

var noop = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

func NewRouter(routes ...Route) *Router {
	r := &Router{mux: chi.NewRouter(), routes: make(map[string]Route, len(routes))}
	for _, rt := range routes {
		r.mux.Get(rt.Pattern, noop)
		r.routes[rt.Pattern] = rt
	}
	return r
}

// Match resolves path. The query string and a trailing slash are ignored.
func (r *Router) Match(path string) (Match, bool) {
	path = CleanPath(path)

	rctx := chi.NewRouteContext()
	if !r.mux.Match(rctx, http.MethodGet, path) {
		return Match{}, false
	}
	rt, ok := r.routes[rctx.RoutePattern()]
	if !ok {
		return Match{}, false
	}

	m := Match{Route: rt}
	if n := len(rctx.URLParams.Keys); n > 0 {
		m.Params = make(map[string]string, n)
		for i, k := range rctx.URLParams.Keys {
			m.Params[k] = rctx.URLParams.Values[i]
		}
	}
	return m, true
}

// CleanPath drops the query and any trailing slash and makes the path
// absolute.
func CleanPath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
