package auth

import (
	"github.com/google/uuid"

	"internhub_backend/internals/constants"
	projectModel "internhub_backend/internals/features/projects/projects/model"
	taskModel "internhub_backend/internals/features/projects/tasks/model"
	profileModel "internhub_backend/internals/features/users/user_profiles/model"
	"internhub_backend/internals/helpers/apperror"
)

type Action string

const (
	ActProfileSelfEdit Action = "profile.self_edit"
	ActProfileApprove  Action = "profile.approve"
	ActProfileReject   Action = "profile.reject"
	ActProfileDelete   Action = "profile.delete"
	ActUserList        Action = "user.list"

	ActProjectCreate      Action = "project.create"
	ActProjectRead        Action = "project.read"
	ActProjectUpdate      Action = "project.update"
	ActProjectTransition  Action = "project.transition"
	ActProjectForceStatus Action = "project.force_status"
	ActProjectAssignLead  Action = "project.assign_lead"
	ActProjectDelete      Action = "project.delete"

	ActTaskCreate Action = "task.create"
	ActTaskRead   Action = "task.read"
	ActTaskUpdate Action = "task.update"
	ActTaskStart  Action = "task.start"

	ActApplicationCreate Action = "application.create"
	ActApplicationRead   Action = "application.read"
	ActApplicationDecide Action = "application.decide"
	ActSubmissionCreate  Action = "submission.create"
	ActReviewCreate      Action = "review.create"

	ActStatsRead          Action = "stats.read"
	ActNotificationCreate Action = "notification.create"
	ActNotificationRead   Action = "notification.mark_read"
	ActMessageSend        Action = "message.send"
	ActMessageRead        Action = "message.mark_read"
)

// Actions an unapproved account may still perform. Everything else that
// writes is refused until an admin approves the profile.
var unapprovedAllowed = map[Action]bool{
	ActProfileSelfEdit:  true,
	ActNotificationRead: true,
	ActMessageRead:      true,
}

var readOnly = map[Action]bool{
	ActProjectRead:     true,
	ActTaskRead:        true,
	ActApplicationRead: true,
	ActUserList:        true,
	ActStatsRead:       true,
}

func (a Action) Mutating() bool { return !readOnly[a] }

// Target is the entity an action applies to. Only the fields relevant to the
// action need to be set.
type Target struct {
	SubjectID   uuid.UUID // profile, notification owner or message recipient
	SubjectRole constants.Role
	Project     *projectModel.ProjectModel
	Task        *taskModel.TaskModel
}

func ForProfile(p *profileModel.ProfileModel) Target {
	return Target{SubjectID: p.ID, SubjectRole: p.Role}
}

func ForOwner(id uuid.UUID) Target { return Target{SubjectID: id} }

func ForProject(p *projectModel.ProjectModel) Target { return Target{Project: p} }

func ForTask(p *projectModel.ProjectModel, t *taskModel.TaskModel) Target {
	return Target{Project: p, Task: t}
}

// CanPerform is the authorization gate consulted by every workflow operation.
// It only answers who may act; workflow state checks (transitions, task
// openness, assignment) belong to the services.
func CanPerform(actor Actor, action Action, target Target) error {
	if actor.ID == uuid.Nil {
		return apperror.Forbidden("anonymous actor")
	}

	if actor.Role == constants.RoleAdmin {
		if action == ActProfileReject && target.SubjectRole == constants.RoleAdmin {
			return apperror.Forbidden("admin accounts cannot be rejected")
		}
		return nil
	}

	if action.Mutating() && !actor.IsApproved && !unapprovedAllowed[action] {
		return apperror.Forbidden("account is pending approval")
	}

	var ok bool
	switch actor.Role {
	case constants.RoleClient:
		ok = clientCan(actor, action, target)
	case constants.RoleTeamLead:
		ok = teamLeadCan(actor, action, target)
	case constants.RoleIntern:
		ok = internCan(actor, action, target)
	default:
		return apperror.Forbidden("unknown role %q", actor.Role)
	}
	if !ok {
		return apperror.Forbidden("%s may not perform %s", actor.Role, action)
	}
	return nil
}

func commonCan(actor Actor, action Action, t Target) (handled, ok bool) {
	switch action {
	case ActProfileSelfEdit, ActNotificationRead, ActMessageRead:
		return true, t.SubjectID == actor.ID
	case ActMessageSend:
		return true, true
	case ActProfileApprove, ActProfileReject, ActProfileDelete, ActUserList,
		ActProjectForceStatus, ActProjectDelete, ActStatsRead, ActNotificationCreate:
		return true, false
	}
	return false, false
}

func ownsProject(actor Actor, t Target) bool {
	return t.Project != nil && t.Project.ClientID == actor.ID
}

func leadsProject(actor Actor, t Target) bool {
	return t.Project != nil && t.Project.LedBy(actor.ID)
}

func clientCan(actor Actor, action Action, t Target) bool {
	if handled, ok := commonCan(actor, action, t); handled {
		return ok
	}
	switch action {
	case ActProjectCreate:
		return true
	case ActProjectRead, ActProjectUpdate, ActProjectTransition, ActProjectAssignLead,
		ActTaskRead, ActApplicationRead, ActReviewCreate:
		return ownsProject(actor, t)
	}
	return false
}

func teamLeadCan(actor Actor, action Action, t Target) bool {
	if handled, ok := commonCan(actor, action, t); handled {
		return ok
	}
	switch action {
	case ActProjectRead, ActProjectUpdate, ActProjectTransition,
		ActTaskCreate, ActTaskUpdate, ActTaskRead,
		ActApplicationRead, ActApplicationDecide, ActReviewCreate:
		return leadsProject(actor, t)
	}
	return false
}

func projectWorking(p *projectModel.ProjectModel) bool {
	return p != nil && (p.Status == constants.ProjectActive || p.Status == constants.ProjectInProgress)
}

func internCan(actor Actor, action Action, t Target) bool {
	if handled, ok := commonCan(actor, action, t); handled {
		return ok
	}
	switch action {
	case ActProjectRead:
		return projectWorking(t.Project)
	case ActTaskRead:
		if t.Task == nil {
			return false
		}
		return t.Task.AssignedTo(actor.ID) || (t.Task.Status == constants.TaskOpen && projectWorking(t.Project))
	case ActTaskStart:
		return t.Task != nil && t.Task.AssignedTo(actor.ID)
	case ActApplicationCreate, ActSubmissionCreate:
		return true
	}
	return false
}
