package constants

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleClient   Role = "client"
	RoleIntern   Role = "intern"
	RoleTeamLead Role = "team_lead"
	RoleAdmin    Role = "admin"
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess = "only admins may access %s"
	ErrOnlyRolesCanAccess  = "only %s may access %s"
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorRoles(feature string, roles ...Role) string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return fmt.Sprintf(ErrOnlyRolesCanAccess, strings.Join(names, ", "), feature)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []Role{
		RoleClient,
		RoleIntern,
		RoleTeamLead,
		RoleAdmin,
	}

	// roles a visitor may pick at registration; admins are bootstrapped
	SignUpRoles = []Role{
		RoleClient,
		RoleIntern,
		RoleTeamLead,
	}

	ProjectManagers = []Role{
		RoleClient,
		RoleTeamLead,
		RoleAdmin,
	}

	AdminOnly = []Role{
		RoleAdmin,
	}
)

func (r Role) Valid() bool {
	for _, x := range AllRoles {
		if r == x {
			return true
		}
	}
	return false
}

func (r Role) In(roles ...Role) bool {
	for _, x := range roles {
		if r == x {
			return true
		}
	}
	return false
}

// ParseRole normalises user input ("Team Lead", "team-lead") to a Role.
func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	r := Role(s)
	return r, r.Valid()
}
