package service

import "internhub_backend/internals/constants"

// transitions lists the legal project status edges and the non-admin role
// allowed to take each one. Admins may take any listed edge.
var transitions = map[string]map[string]constants.Role{
	constants.ProjectDraft: {
		constants.ProjectActive:    constants.RoleClient,
		constants.ProjectCancelled: constants.RoleClient,
	},
	constants.ProjectActive: {
		constants.ProjectInProgress: constants.RoleTeamLead,
		constants.ProjectCancelled:  constants.RoleTeamLead,
	},
	constants.ProjectInProgress: {
		constants.ProjectCompleted: constants.RoleTeamLead,
		constants.ProjectCancelled: constants.RoleTeamLead,
	},
}

// CanTransition reports whether from → to is an edge of the table.
func CanTransition(from, to string) bool {
	_, ok := transitions[from][to]
	return ok
}

// TransitionRole returns the non-admin role allowed to take from → to.
func TransitionRole(from, to string) (constants.Role, bool) {
	r, ok := transitions[from][to]
	return r, ok
}

// NextStatuses returns the statuses reachable from s, in canonical order.
func NextStatuses(s string) []string {
	var out []string
	for _, to := range constants.ProjectStatuses {
		if CanTransition(s, to) {
			out = append(out, to)
		}
	}
	return out
}
