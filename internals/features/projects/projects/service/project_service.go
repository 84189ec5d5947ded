package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"internhub_backend/internals/constants"
	notifModel "internhub_backend/internals/features/home/notifications/model"
	notifService "internhub_backend/internals/features/home/notifications/service"
	"internhub_backend/internals/features/projects/projects/dto"
	"internhub_backend/internals/features/projects/projects/model"
	profileModel "internhub_backend/internals/features/users/user_profiles/model"
	helper "internhub_backend/internals/helpers"
	"internhub_backend/internals/helpers/apperror"
	helperAuth "internhub_backend/internals/helpers/auth"
	"internhub_backend/internals/repository"
)

const slugMaxLen = 160

type Service struct {
	store repository.Store
	now   func() time.Time
}

func New(store repository.Store) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

/* ===================== create / read ===================== */

// CreateProject stores a new draft project owned by the acting client.
func (s *Service) CreateProject(ctx context.Context, actor helperAuth.Actor, in dto.CreateProjectRequest) (*model.ProjectModel, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	if err := helperAuth.CanPerform(actor, helperAuth.ActProjectCreate, helperAuth.Target{}); err != nil {
		return nil, err
	}

	p := in.ToModel(actor.ID)
	now := s.now()
	p.ID = uuid.New()
	p.Status = constants.ProjectDraft
	p.CreatedAt = now
	p.UpdatedAt = now

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		slug, err := helper.UniqueSlug(ctx, helper.Slugify(p.Title, slugMaxLen), slugMaxLen, tx.ProjectSlugExists)
		if err != nil {
			return err
		}
		p.Slug = slug
		return tx.CreateProject(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] project %s created by %s", p.ID, actor.ID)
	return p, nil
}

// ListProjects is scoped by role: clients see their own projects, team leads
// the ones they lead, interns the open marketplace and admins everything.
func (s *Service) ListProjects(ctx context.Context, actor helperAuth.Actor, q dto.ProjectListQuery, limit, offset int) ([]repository.ProjectView, int64, error) {
	if err := helper.ValidateStruct(q); err != nil {
		return nil, 0, err
	}
	f := repository.ProjectFilter{Limit: limit, Offset: offset}
	if q.Status != "" {
		f.Statuses = []string{q.Status}
	}

	switch actor.Role {
	case constants.RoleAdmin:
	case constants.RoleClient:
		f.ClientID = &actor.ID
	case constants.RoleTeamLead:
		f.TeamLeadID = &actor.ID
	case constants.RoleIntern:
		visible := []string{constants.ProjectActive, constants.ProjectInProgress}
		if q.Status != "" {
			if !contains(visible, q.Status) {
				return []repository.ProjectView{}, 0, nil
			}
			visible = []string{q.Status}
		}
		f.Statuses = visible
	default:
		return nil, 0, apperror.Forbidden("unknown role %q", actor.Role)
	}

	rows, total, err := s.store.ListProjects(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	views, err := repository.ProjectViews(ctx, s.store, rows)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// GetProject returns the project with its people, tasks, applications,
// submissions and reviews.
func (s *Service) GetProject(ctx context.Context, actor helperAuth.Actor, id uuid.UUID) (*repository.ProjectDetail, error) {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := helperAuth.CanPerform(actor, helperAuth.ActProjectRead, helperAuth.ForProject(p)); err != nil {
		return nil, err
	}
	return repository.LoadProjectDetail(ctx, s.store, p)
}

// ListTeamLeads returns approved team leads a project can be handed to.
func (s *Service) ListTeamLeads(ctx context.Context, actor helperAuth.Actor) ([]profileModel.ProfileSummary, error) {
	if !actor.Role.In(constants.RoleClient, constants.RoleAdmin) {
		return nil, apperror.Forbidden("%s", constants.RoleErrorRoles("team lead directory", constants.RoleClient, constants.RoleAdmin))
	}
	role := constants.RoleTeamLead
	approved := true
	rows, _, err := s.store.ListProfiles(ctx, repository.ProfileFilter{Role: &role, Approved: &approved})
	if err != nil {
		return nil, err
	}
	out := make([]profileModel.ProfileSummary, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].Summary())
	}
	return out, nil
}

/* ===================== mutate ===================== */

func (s *Service) UpdateProject(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, in dto.UpdateProjectRequest) (*model.ProjectModel, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	if in.Empty() {
		return nil, apperror.Validation("nothing to update", nil)
	}

	var out *model.ProjectModel
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		p, err := tx.GetProject(ctx, id)
		if err != nil {
			return err
		}
		if err := helperAuth.CanPerform(actor, helperAuth.ActProjectUpdate, helperAuth.ForProject(p)); err != nil {
			return err
		}
		if constants.IsProjectTerminal(p.Status) {
			return apperror.New(apperror.KindInvalidTransition, "project is %s and can no longer be edited", p.Status)
		}
		in.ApplyTo(p)
		p.UpdatedAt = s.now()
		if err := tx.SaveProject(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves the project along one edge of the transition table.
func (s *Service) UpdateStatus(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, in dto.UpdateStatusRequest) (*model.ProjectModel, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}

	var out *model.ProjectModel
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		p, err := tx.GetProject(ctx, id)
		if err != nil {
			return err
		}
		if err := helperAuth.CanPerform(actor, helperAuth.ActProjectTransition, helperAuth.ForProject(p)); err != nil {
			return err
		}
		role, ok := TransitionRole(p.Status, in.Status)
		if !ok {
			return apperror.InvalidTransition("project", p.Status, in.Status)
		}
		if !actor.IsAdmin() && actor.Role != role {
			return apperror.Forbidden("%s may not move a project from %s to %s", actor.Role, p.Status, in.Status)
		}
		from := p.Status
		if err := s.setStatus(ctx, tx, actor, p, in.Status); err != nil {
			return err
		}
		log.Printf("[INFO] project %s: %s -> %s by %s", p.ID, from, p.Status, actor.ID)
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ForceStatus lets an admin set any status, bypassing the table.
func (s *Service) ForceStatus(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, in dto.UpdateStatusRequest) (*model.ProjectModel, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}

	var out *model.ProjectModel
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		p, err := tx.GetProject(ctx, id)
		if err != nil {
			return err
		}
		if err := helperAuth.CanPerform(actor, helperAuth.ActProjectForceStatus, helperAuth.ForProject(p)); err != nil {
			return err
		}
		if p.Status == in.Status {
			out = p
			return nil
		}
		log.Printf("[WARN] project %s forced %s -> %s by %s", p.ID, p.Status, in.Status, actor.ID)
		if err := s.setStatus(ctx, tx, actor, p, in.Status); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// setStatus saves the new status and tells the client and team lead,
// skipping whoever made the change.
func (s *Service) setStatus(ctx context.Context, tx repository.Store, actor helperAuth.Actor, p *model.ProjectModel, to string) error {
	now := s.now()
	p.Status = to
	p.UpdatedAt = now
	if err := tx.SaveProject(ctx, p); err != nil {
		return err
	}

	msg := fmt.Sprintf("Project %q is now %s.", p.Title, to)
	data := map[string]any{"project_id": p.ID.String(), "status": to}
	recipients := []uuid.UUID{p.ClientID}
	if p.TeamLeadID != nil {
		recipients = append(recipients, *p.TeamLeadID)
	}
	for _, uid := range recipients {
		if uid == actor.ID {
			continue
		}
		if err := notifService.Push(ctx, tx, now, uid, notifModel.TypeInfo, "Project status updated", msg, data); err != nil {
			return err
		}
	}
	return nil
}

// AssignTeamLead hands the project to an approved team lead. Only draft and
// active projects can change hands.
func (s *Service) AssignTeamLead(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, in dto.AssignTeamLeadRequest) (*model.ProjectModel, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}

	var out *model.ProjectModel
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		p, err := tx.GetProject(ctx, id)
		if err != nil {
			return err
		}
		if err := helperAuth.CanPerform(actor, helperAuth.ActProjectAssignLead, helperAuth.ForProject(p)); err != nil {
			return err
		}
		if p.Status != constants.ProjectDraft && p.Status != constants.ProjectActive {
			return apperror.New(apperror.KindInvalidTransition, "team lead can only be assigned while the project is draft or active (now %s)", p.Status)
		}

		lead, err := tx.GetProfile(ctx, in.TeamLeadID)
		if err != nil {
			return err
		}
		if lead.Role != constants.RoleTeamLead {
			return apperror.ValidationField("team_lead_id", "must reference a team lead")
		}
		if !lead.Approved() {
			return apperror.ValidationField("team_lead_id", "team lead is not approved yet")
		}
		if p.LedBy(lead.ID) {
			out = p
			return nil
		}

		now := s.now()
		p.TeamLeadID = &lead.ID
		p.UpdatedAt = now
		if err := tx.SaveProject(ctx, p); err != nil {
			return err
		}
		out = p
		return notifService.Push(ctx, tx, now, lead.ID, notifModel.TypeInfo,
			"New project assignment",
			fmt.Sprintf("You have been assigned as team lead for %q.", p.Title),
			map[string]any{"project_id": p.ID.String()})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteProject removes a project and everything under it. Projects with a
// task that is not completed are refused.
func (s *Service) DeleteProject(ctx context.Context, actor helperAuth.Actor, id uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		p, err := tx.GetProject(ctx, id)
		if err != nil {
			return err
		}
		if err := helperAuth.CanPerform(actor, helperAuth.ActProjectDelete, helperAuth.ForProject(p)); err != nil {
			return err
		}
		tasks, _, err := tx.ListTasks(ctx, repository.TaskFilter{ProjectID: &p.ID})
		if err != nil {
			return err
		}
		active := 0
		for _, t := range tasks {
			if t.Status != constants.TaskCompleted {
				active++
			}
		}
		if active > 0 {
			return apperror.New(apperror.KindHasActiveTasks, "project has %d task(s) that are not completed", active)
		}
		return tx.DeleteProject(ctx, p.ID)
	})
	if err != nil {
		return err
	}
	log.Printf("[INFO] project %s deleted by %s", id, actor.ID)
	return nil
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
