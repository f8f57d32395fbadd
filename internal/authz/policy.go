// Package authz holds the authorization policy: a pure decision
// function over (role, action, ownership) with no side effects.
package authz

import "github.com/hiredesk/hiredesk/internal/models"

type Action string

const (
	SubmitApplication   Action = "submitApplication"
	ListOwnApplications Action = "listOwnApplications"
	ListAllApplications Action = "listAllApplications"
	DecideApplication   Action = "decideApplication"
)

// CanPerform decides whether a caller may perform an action, possibly
// against a resource owned by someone else. Submitting and listing own
// applications are candidate-only actions; admins review, they do not
// apply. Listing everything and deciding are admin-only. Everything
// else denies.
func CanPerform(callerRole models.UserRole, action Action, resourceOwnerID, callerID string) bool {
	switch action {
	case SubmitApplication:
		return callerRole == models.RoleUser && resourceOwnerID == callerID
	case ListOwnApplications:
		return callerRole == models.RoleUser && resourceOwnerID == callerID
	case ListAllApplications:
		return callerRole == models.RoleAdmin
	case DecideApplication:
		return callerRole == models.RoleAdmin
	default:
		return false
	}
}
