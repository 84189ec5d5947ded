package auth

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"internhub_backend/internals/constants"
	projectModel "internhub_backend/internals/features/projects/projects/model"
	taskModel "internhub_backend/internals/features/projects/tasks/model"
	"internhub_backend/internals/helpers/apperror"
)

var allActions = []Action{
	ActProfileSelfEdit, ActProfileApprove, ActProfileReject, ActProfileDelete, ActUserList,
	ActProjectCreate, ActProjectRead, ActProjectUpdate, ActProjectTransition, ActProjectForceStatus,
	ActProjectAssignLead, ActProjectDelete,
	ActTaskCreate, ActTaskRead, ActTaskUpdate, ActTaskStart,
	ActApplicationCreate, ActApplicationRead, ActApplicationDecide, ActSubmissionCreate, ActReviewCreate,
	ActStatsRead, ActNotificationCreate, ActNotificationRead, ActMessageSend, ActMessageRead,
}

func fixtures() (client, lead, intern, admin Actor, p *projectModel.ProjectModel, task *taskModel.TaskModel) {
	client = Actor{ID: uuid.New(), Role: constants.RoleClient, IsApproved: true}
	lead = Actor{ID: uuid.New(), Role: constants.RoleTeamLead, IsApproved: true}
	intern = Actor{ID: uuid.New(), Role: constants.RoleIntern, IsApproved: true}
	admin = Actor{ID: uuid.New(), Role: constants.RoleAdmin, IsApproved: true}
	p = &projectModel.ProjectModel{ID: uuid.New(), ClientID: client.ID, TeamLeadID: &lead.ID, Status: constants.ProjectActive}
	task = &taskModel.TaskModel{ID: uuid.New(), ProjectID: p.ID, Status: constants.TaskOpen}
	return
}

func TestUnapprovedActorsOnlySelfEdit(t *testing.T) {
	client, lead, intern, _, p, task := fixtures()
	for _, a := range []Actor{client, lead, intern} {
		a.IsApproved = false
		target := Target{SubjectID: a.ID, Project: p, Task: task}
		// make ownership checks pass so only approval can deny
		p.ClientID, p.TeamLeadID = a.ID, &a.ID
		task.AssignedInternID = &a.ID

		for _, act := range allActions {
			err := CanPerform(a, act, target)
			switch {
			case act == ActProfileSelfEdit:
				if err != nil {
					t.Errorf("%s: self edit must be allowed, got %v", a.Role, err)
				}
			case act.Mutating() && !unapprovedAllowed[act]:
				if !errors.Is(err, apperror.ErrAuthorization) {
					t.Errorf("%s/%s: want authorization error, got %v", a.Role, act, err)
				}
			}
		}
	}
}

func TestRoleRules(t *testing.T) {
	client, lead, intern, admin, p, task := fixtures()
	stranger := Actor{ID: uuid.New(), Role: constants.RoleClient, IsApproved: true}
	cancelled := &projectModel.ProjectModel{ID: uuid.New(), ClientID: client.ID, Status: constants.ProjectCancelled}
	leftOpen := &taskModel.TaskModel{ID: uuid.New(), ProjectID: cancelled.ID, Status: constants.TaskOpen}
	finished := &taskModel.TaskModel{ID: uuid.New(), ProjectID: cancelled.ID, Status: constants.TaskCompleted, AssignedInternID: &intern.ID}
	otherLead := Actor{ID: uuid.New(), Role: constants.RoleTeamLead, IsApproved: true}

	cases := []struct {
		name   string
		actor  Actor
		action Action
		target Target
		allow  bool
	}{
		{"client creates project", client, ActProjectCreate, Target{}, true},
		{"client updates own project", client, ActProjectUpdate, ForProject(p), true},
		{"client cannot update foreign project", stranger, ActProjectUpdate, ForProject(p), false},
		{"client assigns lead on own project", client, ActProjectAssignLead, ForProject(p), true},
		{"client cannot create tasks", client, ActTaskCreate, ForProject(p), false},
		{"client reviews own project work", client, ActReviewCreate, ForTask(p, task), true},
		{"client cannot force status", client, ActProjectForceStatus, ForProject(p), false},
		{"lead creates task in led project", lead, ActTaskCreate, ForProject(p), true},
		{"lead cannot create task elsewhere", otherLead, ActTaskCreate, ForProject(p), false},
		{"lead decides applications", lead, ActApplicationDecide, ForTask(p, task), true},
		{"lead cannot create project", lead, ActProjectCreate, Target{}, false},
		{"intern reads open task", intern, ActTaskRead, ForTask(p, task), true},
		{"intern cannot read open task of cancelled project", intern, ActTaskRead, ForTask(cancelled, leftOpen), false},
		{"assignee still reads own task of cancelled project", intern, ActTaskRead, ForTask(cancelled, finished), true},
		{"intern applies", intern, ActApplicationCreate, ForTask(p, task), true},
		{"intern cannot decide", intern, ActApplicationDecide, ForTask(p, task), false},
		{"intern cannot start unassigned task", intern, ActTaskStart, ForTask(p, task), false},
		{"intern cannot read draft project", intern, ActProjectRead, ForProject(&projectModel.ProjectModel{Status: constants.ProjectDraft}), false},
		{"stats are admin only", lead, ActStatsRead, Target{}, false},
		{"admin approves", admin, ActProfileApprove, Target{SubjectRole: constants.RoleIntern}, true},
		{"admin deletes project", admin, ActProjectDelete, ForProject(p), true},
		{"admin cannot reject admin", admin, ActProfileReject, Target{SubjectRole: constants.RoleAdmin}, false},
		{"only owner marks notification read", intern, ActNotificationRead, ForOwner(client.ID), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanPerform(tc.actor, tc.action, tc.target)
			if tc.allow && err != nil {
				t.Fatalf("want allow, got %v", err)
			}
			if !tc.allow && !errors.Is(err, apperror.ErrAuthorization) {
				t.Fatalf("want authorization error, got %v", err)
			}
		})
	}
}

func TestUnknownRoleDenied(t *testing.T) {
	err := CanPerform(Actor{ID: uuid.New(), Role: "guest", IsApproved: true}, ActProjectRead, Target{})
	if !errors.Is(err, apperror.ErrAuthorization) {
		t.Fatalf("want authorization error, got %v", err)
	}
}
