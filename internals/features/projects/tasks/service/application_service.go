package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"internhub_backend/internals/constants"
	notifModel "internhub_backend/internals/features/home/notifications/model"
	notifService "internhub_backend/internals/features/home/notifications/service"
	"internhub_backend/internals/features/projects/tasks/dto"
	"internhub_backend/internals/features/projects/tasks/model"
	helper "internhub_backend/internals/helpers"
	"internhub_backend/internals/helpers/apperror"
	helperAuth "internhub_backend/internals/helpers/auth"
	"internhub_backend/internals/repository"
)

// ApplyForTask files a pending application for an open task. An intern may
// hold one non-rejected application per task.
func (s *Service) ApplyForTask(ctx context.Context, actor helperAuth.Actor, taskID uuid.UUID, in dto.ApplyRequest) (*model.ApplicationModel, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	if err := helperAuth.CanPerform(actor, helperAuth.ActApplicationCreate, helperAuth.Target{}); err != nil {
		return nil, err
	}

	var out *model.ApplicationModel
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		t, p, err := loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if t.Status != constants.TaskOpen || !projectAcceptsWork(p) {
			return apperror.New(apperror.KindInvalidTransition, "task is %s and does not accept applications", t.Status)
		}

		mine, err := tx.ListApplications(ctx, repository.ApplicationFilter{TaskID: &t.ID, InternID: &actor.ID})
		if err != nil {
			return err
		}
		for _, a := range mine {
			if a.Status != constants.ApplicationRejected {
				return apperror.New(apperror.KindDuplicateApplication, "you already applied for this task (%s)", a.Status)
			}
		}

		now := s.now()
		app := &model.ApplicationModel{
			ID:          uuid.New(),
			TaskID:      t.ID,
			InternID:    actor.ID,
			CoverLetter: in.CoverLetter,
			Status:      constants.ApplicationPending,
			AppliedAt:   now,
		}
		if err := tx.CreateApplication(ctx, app); err != nil {
			return err
		}
		out = app

		if p.TeamLeadID == nil {
			return nil
		}
		return notifService.Push(ctx, tx, now, *p.TeamLeadID, notifModel.TypeInfo,
			"New application",
			fmt.Sprintf("%s applied for %q.", actor.FullName, t.Title),
			map[string]any{"task_id": t.ID.String(), "application_id": app.ID.String()})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AcceptApplication assigns the task to the applicant, rejects every other
// pending application and moves an active project to in_progress, all in one
// transaction.
func (s *Service) AcceptApplication(ctx context.Context, actor helperAuth.Actor, applicationID uuid.UUID) (*model.ApplicationModel, error) {
	var out *model.ApplicationModel
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		app, err := tx.GetApplication(ctx, applicationID)
		if err != nil {
			return err
		}
		t, p, err := loadTask(ctx, tx, app.TaskID)
		if err != nil {
			return err
		}
		if err := helperAuth.CanPerform(actor, helperAuth.ActApplicationDecide, helperAuth.ForTask(p, t)); err != nil {
			return err
		}
		if app.Status != constants.ApplicationPending {
			return apperror.InvalidTransition("application", app.Status, constants.ApplicationAccepted)
		}
		if t.Status != constants.TaskOpen {
			return apperror.InvalidTransition("task", t.Status, constants.TaskAssigned)
		}

		now := s.now()
		app.Status = constants.ApplicationAccepted
		app.ReviewedAt = &now
		if err := tx.SaveApplication(ctx, app); err != nil {
			return err
		}
		others, err := tx.RejectPendingApplications(ctx, t.ID, app.ID, now)
		if err != nil {
			return err
		}

		t.Status = constants.TaskAssigned
		t.AssignedInternID = &app.InternID
		t.UpdatedAt = now
		if err := tx.SaveTask(ctx, t); err != nil {
			return err
		}
		if p.Status == constants.ProjectActive {
			p.Status = constants.ProjectInProgress
			p.UpdatedAt = now
			if err := tx.SaveProject(ctx, p); err != nil {
				return err
			}
		}

		data := map[string]any{"task_id": t.ID.String()}
		if err := notifService.Push(ctx, tx, now, app.InternID, notifModel.TypeSuccess,
			"Application accepted",
			fmt.Sprintf("You have been assigned to %q.", t.Title), data); err != nil {
			return err
		}
		for _, o := range others {
			if err := notifService.Push(ctx, tx, now, o.InternID, notifModel.TypeInfo,
				"Application not selected",
				fmt.Sprintf("Another intern was selected for %q.", t.Title), data); err != nil {
				return err
			}
		}
		log.Printf("[INFO] task %s assigned to %s (%d other applications rejected)", t.ID, app.InternID, len(others))
		out = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) RejectApplication(ctx context.Context, actor helperAuth.Actor, applicationID uuid.UUID) (*model.ApplicationModel, error) {
	var out *model.ApplicationModel
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		app, err := tx.GetApplication(ctx, applicationID)
		if err != nil {
			return err
		}
		t, p, err := loadTask(ctx, tx, app.TaskID)
		if err != nil {
			return err
		}
		if err := helperAuth.CanPerform(actor, helperAuth.ActApplicationDecide, helperAuth.ForTask(p, t)); err != nil {
			return err
		}
		if app.Status != constants.ApplicationPending {
			return apperror.InvalidTransition("application", app.Status, constants.ApplicationRejected)
		}

		now := s.now()
		app.Status = constants.ApplicationRejected
		app.ReviewedAt = &now
		if err := tx.SaveApplication(ctx, app); err != nil {
			return err
		}
		out = app
		return notifService.Push(ctx, tx, now, app.InternID, notifModel.TypeWarning,
			"Application rejected",
			fmt.Sprintf("Your application for %q was not accepted.", t.Title),
			map[string]any{"task_id": t.ID.String()})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MyApplications lists the acting intern's applications, newest first.
func (s *Service) MyApplications(ctx context.Context, actor helperAuth.Actor) ([]dto.MyApplication, error) {
	if actor.Role != constants.RoleIntern {
		return nil, apperror.Forbidden("%s", constants.RoleErrorRoles("applications", constants.RoleIntern))
	}
	apps, err := s.store.ListApplications(ctx, repository.ApplicationFilter{InternID: &actor.ID})
	if err != nil {
		return nil, err
	}

	tasks := map[uuid.UUID]*model.TaskModel{}
	out := make([]dto.MyApplication, 0, len(apps))
	for _, a := range apps {
		t, ok := tasks[a.TaskID]
		if !ok {
			t, err = s.store.GetTask(ctx, a.TaskID)
			if err != nil && apperror.KindOf(err) != apperror.KindNotFound {
				return nil, err
			}
			tasks[a.TaskID] = t
		}
		out = append(out, dto.MyApplication{ApplicationModel: a, Task: dto.BriefOf(t)})
	}
	return out, nil
}

// ListTaskApplications returns every application of a task with applicant
// summaries.
func (s *Service) ListTaskApplications(ctx context.Context, actor helperAuth.Actor, taskID uuid.UUID) ([]repository.ApplicationView, error) {
	t, p, err := loadTask(ctx, s.store, taskID)
	if err != nil {
		return nil, err
	}
	if err := helperAuth.CanPerform(actor, helperAuth.ActApplicationRead, helperAuth.ForTask(p, t)); err != nil {
		return nil, err
	}
	apps, err := s.store.ListApplications(ctx, repository.ApplicationFilter{TaskID: &t.ID})
	if err != nil {
		return nil, err
	}
	return repository.ApplicationViews(ctx, s.store, apps)
}
