package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"internhub_backend/internals/constants"
	projectModel "internhub_backend/internals/features/projects/projects/model"
	"internhub_backend/internals/features/projects/tasks/dto"
	"internhub_backend/internals/features/projects/tasks/model"
	helper "internhub_backend/internals/helpers"
	"internhub_backend/internals/helpers/apperror"
	helperAuth "internhub_backend/internals/helpers/auth"
	"internhub_backend/internals/repository"
)

// Service runs the task workflow: tasks, applications, submissions and
// reviews.
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

func projectAcceptsWork(p *projectModel.ProjectModel) bool {
	return p.Status == constants.ProjectActive || p.Status == constants.ProjectInProgress
}

// loadTask returns the task and its project through st, so callers inside a
// transaction get row locks on both.
func loadTask(ctx context.Context, st repository.Store, id uuid.UUID) (*model.TaskModel, *projectModel.ProjectModel, error) {
	t, err := st.GetTask(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	p, err := st.GetProject(ctx, t.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return t, p, nil
}

/* ===================== tasks ===================== */

// CreateTask adds an open task to an active or in-progress project.
func (s *Service) CreateTask(ctx context.Context, actor helperAuth.Actor, in dto.CreateTaskRequest) (*model.TaskModel, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	p, err := s.store.GetProject(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := helperAuth.CanPerform(actor, helperAuth.ActTaskCreate, helperAuth.ForProject(p)); err != nil {
		return nil, err
	}
	if !projectAcceptsWork(p) {
		return nil, apperror.New(apperror.KindInvalidTransition, "tasks can only be added to active or in-progress projects (project is %s)", p.Status)
	}

	t := in.ToModel()
	now := s.now()
	t.ID = uuid.New()
	t.Status = constants.TaskOpen
	t.CreatedAt = now
	t.UpdatedAt = now
	if err := s.store.CreateTask(ctx, t); err != nil {
		return nil, err
	}
	log.Printf("[INFO] task %s created in project %s by %s", t.ID, p.ID, actor.ID)
	return t, nil
}

func (s *Service) UpdateTask(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, in dto.UpdateTaskRequest) (*model.TaskModel, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	if in.Empty() {
		return nil, apperror.Validation("nothing to update", nil)
	}

	var out *model.TaskModel
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		t, p, err := loadTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := helperAuth.CanPerform(actor, helperAuth.ActTaskUpdate, helperAuth.ForTask(p, t)); err != nil {
			return err
		}
		if t.Status == constants.TaskCompleted {
			return apperror.New(apperror.KindInvalidTransition, "completed tasks can no longer be edited")
		}
		in.ApplyTo(t)
		t.UpdatedAt = s.now()
		if err := tx.SaveTask(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListTasks applies the query filters inside the actor's scope: clients see
// tasks of their projects, team leads of the projects they lead, interns open
// tasks plus their own.
func (s *Service) ListTasks(ctx context.Context, actor helperAuth.Actor, q dto.TaskListQuery, limit, offset int) ([]repository.TaskView, int64, error) {
	if err := helper.ValidateStruct(q); err != nil {
		return nil, 0, err
	}
	f := repository.TaskFilter{
		ProjectID:        q.ProjectID,
		AssignedInternID: q.InternID,
		Limit:            limit,
		Offset:           offset,
	}
	if q.Status != "" {
		f.Statuses = []string{q.Status}
	}

	switch actor.Role {
	case constants.RoleAdmin:
	case constants.RoleClient, constants.RoleTeamLead:
		pf := repository.ProjectFilter{}
		if actor.Role == constants.RoleClient {
			pf.ClientID = &actor.ID
		} else {
			pf.TeamLeadID = &actor.ID
		}
		projects, _, err := s.store.ListProjects(ctx, pf)
		if err != nil {
			return nil, 0, err
		}
		f.ProjectIDs = make([]uuid.UUID, 0, len(projects))
		for i := range projects {
			f.ProjectIDs = append(f.ProjectIDs, projects[i].ID)
		}
	case constants.RoleIntern:
		working, _, err := s.store.ListProjects(ctx, repository.ProjectFilter{
			Statuses: []string{constants.ProjectActive, constants.ProjectInProgress},
		})
		if err != nil {
			return nil, 0, err
		}
		f.OpenOrAssignedTo = &actor.ID
		f.OpenInProjectIDs = make([]uuid.UUID, 0, len(working))
		for i := range working {
			f.OpenInProjectIDs = append(f.OpenInProjectIDs, working[i].ID)
		}
	default:
		return nil, 0, apperror.Forbidden("unknown role %q", actor.Role)
	}

	rows, total, err := s.store.ListTasks(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	views, err := repository.TaskViews(ctx, s.store, rows, false)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// GetTask returns the task with its project, assignee, applications,
// submissions and reviews. Interns only see their own applications and
// submissions.
func (s *Service) GetTask(ctx context.Context, actor helperAuth.Actor, id uuid.UUID) (*repository.TaskDetail, error) {
	t, p, err := loadTask(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if err := helperAuth.CanPerform(actor, helperAuth.ActTaskRead, helperAuth.ForTask(p, t)); err != nil {
		return nil, err
	}
	d, err := repository.LoadTaskDetail(ctx, s.store, t, p)
	if err != nil {
		return nil, err
	}
	if actor.Role == constants.RoleIntern {
		apps := d.Applications[:0]
		for _, a := range d.Applications {
			if a.InternID == actor.ID {
				apps = append(apps, a)
			}
		}
		d.Applications = apps
		subs := d.Submissions[:0]
		for _, sub := range d.Submissions {
			if sub.InternID == actor.ID {
				subs = append(subs, sub)
			}
		}
		d.Submissions = subs
	}
	return d, nil
}

// StartTask moves an assigned task to in_progress for its intern.
func (s *Service) StartTask(ctx context.Context, actor helperAuth.Actor, id uuid.UUID) (*model.TaskModel, error) {
	var out *model.TaskModel
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		t, p, err := loadTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := helperAuth.CanPerform(actor, helperAuth.ActTaskStart, helperAuth.ForTask(p, t)); err != nil {
			return err
		}
		if t.Status != constants.TaskAssigned {
			return apperror.InvalidTransition("task", t.Status, constants.TaskInProgress)
		}
		t.Status = constants.TaskInProgress
		t.UpdatedAt = s.now()
		if err := tx.SaveTask(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
