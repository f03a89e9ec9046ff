// Package access decides what a signed-in user may see: the visibility
// predicate shared by the route gate and the navigation menu, and the gate
// itself. Decisions here are advisory; the backend enforces permissions.
package access

import "github.com/dmitrijs2005/eduadmin/internal/client/models"

// IsVisible reports whether a user holding have may see something
// restricted to required. An empty required set means any signed-in user.
func IsVisible(required, have models.Roles) bool {
	if len(required) == 0 {
		return true
	}
	return required.Intersects(have)
}
