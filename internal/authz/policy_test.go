package authz

import (
	"testing"

	"github.com/hiredesk/hiredesk/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCanPerform(t *testing.T) {
	const (
		alice = "user-alice"
		bob   = "user-bob"
	)

	tests := []struct {
		name    string
		role    models.UserRole
		action  Action
		ownerID string
		caller  string
		want    bool
	}{
		{"user submits own application", models.RoleUser, SubmitApplication, alice, alice, true},
		{"admin cannot submit", models.RoleAdmin, SubmitApplication, alice, alice, false},
		{"user cannot submit for someone else", models.RoleUser, SubmitApplication, bob, alice, false},

		{"user lists own applications", models.RoleUser, ListOwnApplications, alice, alice, true},
		{"user cannot list someone else's", models.RoleUser, ListOwnApplications, bob, alice, false},
		{"admin has no own listing", models.RoleAdmin, ListOwnApplications, alice, alice, false},

		{"admin lists all", models.RoleAdmin, ListAllApplications, "", alice, true},
		{"user cannot list all", models.RoleUser, ListAllApplications, "", alice, false},

		{"admin decides", models.RoleAdmin, DecideApplication, "", alice, true},
		{"user cannot decide", models.RoleUser, DecideApplication, "", alice, false},

		{"unknown action denies for user", models.RoleUser, Action("deleteEverything"), alice, alice, false},
		{"unknown action denies for admin", models.RoleAdmin, Action("deleteEverything"), alice, alice, false},
		{"unknown role denies", models.UserRole("superuser"), ListAllApplications, "", alice, false},
		{"empty role denies", models.UserRole(""), SubmitApplication, alice, alice, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanPerform(tt.role, tt.action, tt.ownerID, tt.caller)
			assert.Equal(t, tt.want, got)
		})
	}
}
