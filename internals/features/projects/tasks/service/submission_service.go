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

// SubmitWork records a submission from the assigned intern and puts the task
// in submitted, whatever its previous status. Older pending submissions of the
// task are moved to needs_revision so only the newest one can be reviewed.
func (s *Service) SubmitWork(ctx context.Context, actor helperAuth.Actor, taskID uuid.UUID, in dto.SubmitWorkRequest) (*model.SubmissionModel, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	if err := helperAuth.CanPerform(actor, helperAuth.ActSubmissionCreate, helperAuth.Target{}); err != nil {
		return nil, err
	}

	var out *model.SubmissionModel
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		t, p, err := loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if !t.AssignedTo(actor.ID) {
			return apperror.New(apperror.KindNotAssigned, "you are not assigned to this task")
		}

		now := s.now()
		if err := supersedePending(ctx, tx, t.ID); err != nil {
			return err
		}
		sub := in.ToModel(t.ID, actor.ID)
		sub.ID = uuid.New()
		sub.Status = constants.SubmissionPending
		sub.SubmittedAt = now
		if err := tx.CreateSubmission(ctx, sub); err != nil {
			return err
		}

		t.Status = constants.TaskSubmitted
		t.UpdatedAt = now
		if err := tx.SaveTask(ctx, t); err != nil {
			return err
		}
		out = sub

		data := map[string]any{"task_id": t.ID.String(), "submission_id": sub.ID.String()}
		msg := fmt.Sprintf("%s submitted work for %q.", actor.FullName, t.Title)
		recipients := []uuid.UUID{p.ClientID}
		if p.TeamLeadID != nil {
			recipients = []uuid.UUID{*p.TeamLeadID, p.ClientID}
		}
		for _, uid := range recipients {
			if err := notifService.Push(ctx, tx, now, uid, notifModel.TypeInfo, "New submission", msg, data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] submission %s on task %s by %s", out.ID, taskID, actor.ID)
	return out, nil
}

func supersedePending(ctx context.Context, tx repository.Store, taskID uuid.UUID) error {
	subs, err := tx.ListSubmissions(ctx, repository.SubmissionFilter{TaskID: &taskID})
	if err != nil {
		return err
	}
	for i := range subs {
		if subs[i].Status != constants.SubmissionPending {
			continue
		}
		subs[i].Status = constants.SubmissionNeedsRevision
		if err := tx.SaveSubmission(ctx, &subs[i]); err != nil {
			return err
		}
	}
	return nil
}

// ReviewOutcome is the result of reviewing a submission.
type ReviewOutcome struct {
	Review     *model.ReviewModel     `json:"review"`
	Submission *model.SubmissionModel `json:"submission"`
	Task       *model.TaskModel       `json:"task"`
}

// ReviewSubmission records a review. Approval completes the task; anything
// else asks for a revision and puts the task back in progress.
func (s *Service) ReviewSubmission(ctx context.Context, actor helperAuth.Actor, submissionID uuid.UUID, in dto.ReviewRequest) (*ReviewOutcome, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}

	var out *ReviewOutcome
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		sub, err := tx.GetSubmission(ctx, submissionID)
		if err != nil {
			return err
		}
		t, p, err := loadTask(ctx, tx, sub.TaskID)
		if err != nil {
			return err
		}
		if err := helperAuth.CanPerform(actor, helperAuth.ActReviewCreate, helperAuth.ForTask(p, t)); err != nil {
			return err
		}

		approved := *in.IsApproved
		subStatus, taskStatus := constants.SubmissionNeedsRevision, constants.TaskInProgress
		if approved {
			subStatus, taskStatus = constants.SubmissionApproved, constants.TaskCompleted
		}
		if sub.Status != constants.SubmissionPending {
			return apperror.InvalidTransition("submission", sub.Status, subStatus)
		}
		if t.Status != constants.TaskSubmitted {
			return apperror.InvalidTransition("task", t.Status, taskStatus)
		}

		now := s.now()
		review := &model.ReviewModel{
			ID:           uuid.New(),
			SubmissionID: sub.ID,
			ReviewerID:   actor.ID,
			Rating:       in.Rating,
			Feedback:     in.Feedback,
			IsApproved:   approved,
			CreatedAt:    now,
		}
		if err := tx.CreateReview(ctx, review); err != nil {
			return err
		}

		sub.Status = subStatus
		sub.ReviewedAt = &now
		if err := tx.SaveSubmission(ctx, sub); err != nil {
			return err
		}
		t.Status = taskStatus
		t.UpdatedAt = now
		if err := tx.SaveTask(ctx, t); err != nil {
			return err
		}
		out = &ReviewOutcome{Review: review, Submission: sub, Task: t}

		data := map[string]any{"task_id": t.ID.String(), "submission_id": sub.ID.String()}
		if approved {
			return notifService.Push(ctx, tx, now, sub.InternID, notifModel.TypeSuccess,
				"Submission approved", fmt.Sprintf("Your work on %q was approved.", t.Title), data)
		}
		return notifService.Push(ctx, tx, now, sub.InternID, notifModel.TypeWarning,
			"Revision requested", fmt.Sprintf("Your work on %q needs revision.", t.Title), data)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
