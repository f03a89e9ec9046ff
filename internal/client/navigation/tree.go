// Package navigation holds the console's menu tree and renders it as a
// vertical sidebar or a horizontal top bar.
package navigation

import (
	"strings"

	"github.com/dmitrijs2005/eduadmin/internal/client/access"
	"github.com/dmitrijs2005/eduadmin/internal/client/models"
)

// MaxDepth bounds how deep Filter descends; deeper levels are dropped.
const MaxDepth = 8

// Entry is one menu item. An entry without a Path is a group.
type Entry struct {
	Name         string
	Icon         string
	Path         string
	AllowedRoles models.Roles
	Children     []Entry
}

func (e Entry) IsGroup() bool {
	return e.Path == ""
}

var (
	ceoAdmin = models.Roles{models.RoleCEO, models.RoleAdmin}
	ceoOnly  = models.Roles{models.RoleCEO}
	teacher  = models.Roles{models.RoleTeacher}
)

// Tree is the static menu.
func Tree() []Entry {
	return []Entry{
		{Name: "Dashboard", Icon: "home", Path: access.PathHome},
		{Name: "Students", Icon: "users", Path: access.PathStudents, AllowedRoles: ceoAdmin},
		{Name: "Teachers", Icon: "briefcase", Path: access.PathTeachers, AllowedRoles: ceoAdmin},
		{Name: "Staff", Icon: "shield", Path: access.PathStaff, AllowedRoles: ceoOnly},
		{Name: "Groups", Icon: "layers", Path: access.PathGroups, AllowedRoles: ceoAdmin},
		{Name: "Payments", Icon: "wallet", Path: access.PathFinance, AllowedRoles: ceoAdmin},
		{Name: "My groups", Icon: "layers", Path: access.PathMyGroups, AllowedRoles: teacher},
		{Name: "My students", Icon: "users", Path: access.PathMyStudents, AllowedRoles: teacher},
		{Name: "Settings", Icon: "settings", Children: []Entry{
			{Name: "Office", Icon: "building", Children: []Entry{
				{Name: "Rooms", Icon: "door", Path: access.PathRooms, AllowedRoles: ceoAdmin},
				{Name: "Branches", Icon: "map-pin", Path: access.PathBranches, AllowedRoles: ceoOnly},
				{Name: "Payment types", Icon: "credit-card", Path: access.PathPaymentTypes, AllowedRoles: ceoOnly},
			}},
		}},
		{Name: "Profile", Icon: "user", Path: access.PathProfile},
	}
}

// Filter keeps, depth first and in order, the entries roles may see. A group
// whose children were all dropped is dropped too.
func Filter(entries []Entry, roles models.Roles) []Entry {
	return filter(entries, roles, 1)
}

func filter(entries []Entry, roles models.Roles, depth int) []Entry {
	if depth > MaxDepth {
		return nil
	}
	var out []Entry
	for _, e := range entries {
		if !access.IsVisible(e.AllowedRoles, roles) {
			continue
		}
		kept := e
		kept.Children = filter(e.Children, roles, depth+1)
		if kept.IsGroup() && len(kept.Children) == 0 {
			continue
		}
		out = append(out, kept)
	}
	return out
}

// IsActive reports whether path is e's path or lies below it, or whether any
// descendant is active. The root path only matches itself.
func IsActive(e Entry, path string) bool {
	path = access.CleanPath(path)
	if e.Path != "" && pathHasPrefix(path, access.CleanPath(e.Path)) {
		return true
	}
	for _, c := range e.Children {
		if IsActive(c, path) {
			return true
		}
	}
	return false
}

func pathHasPrefix(path, prefix string) bool {
	if prefix == "/" {
		return path == "/"
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
