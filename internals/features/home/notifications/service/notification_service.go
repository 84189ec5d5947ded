package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"internhub_backend/internals/constants"
	"internhub_backend/internals/features/home/notifications/dto"
	"internhub_backend/internals/features/home/notifications/model"
	helper "internhub_backend/internals/helpers"
	"internhub_backend/internals/helpers/apperror"
	helperAuth "internhub_backend/internals/helpers/auth"
	"internhub_backend/internals/repository"
)

// Push inserts one notification through s, which may be a transaction.
func Push(ctx context.Context, s repository.Store, now time.Time, userID uuid.UUID, typ, title, message string, data map[string]any) error {
	if !model.IsType(typ) {
		typ = model.TypeInfo
	}
	n := &model.NotificationModel{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		CreatedAt: now,
	}
	if len(data) > 0 {
		n.Data = datatypes.JSONMap(data)
	}
	return s.CreateNotification(ctx, n)
}

// PushToAdmins fans a notification out to every admin profile.
func PushToAdmins(ctx context.Context, s repository.Store, now time.Time, typ, title, message string, data map[string]any) error {
	role := constants.RoleAdmin
	admins, _, err := s.ListProfiles(ctx, repository.ProfileFilter{Role: &role})
	if err != nil {
		return err
	}
	for _, a := range admins {
		if err := Push(ctx, s, now, a.ID, typ, title, message, data); err != nil {
			return err
		}
	}
	return nil
}

type Service struct {
	store repository.Store
	now   func() time.Time
}

func New(store repository.Store) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the time source; tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

/* ===================== notifications ===================== */

func (s *Service) Create(ctx context.Context, actor helperAuth.Actor, in dto.CreateNotificationRequest) (*model.NotificationModel, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	if err := helperAuth.CanPerform(actor, helperAuth.ActNotificationCreate, helperAuth.ForOwner(in.UserID)); err != nil {
		return nil, err
	}
	if _, err := s.store.GetProfile(ctx, in.UserID); err != nil {
		return nil, err
	}
	n := &model.NotificationModel{
		ID:        uuid.New(),
		UserID:    in.UserID,
		Title:     strings.TrimSpace(in.Title),
		Message:   strings.TrimSpace(in.Message),
		Type:      in.Type,
		CreatedAt: s.now(),
	}
	if n.Type == "" {
		n.Type = model.TypeInfo
	}
	if len(in.Data) > 0 {
		n.Data = datatypes.JSONMap(in.Data)
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) List(ctx context.Context, actor helperAuth.Actor, unreadOnly bool, limit, offset int) ([]model.NotificationModel, int64, error) {
	return s.store.ListNotifications(ctx, repository.NotificationFilter{
		UserID:     actor.ID,
		UnreadOnly: unreadOnly,
		Limit:      limit,
		Offset:     offset,
	})
}

func (s *Service) MarkRead(ctx context.Context, actor helperAuth.Actor, id uuid.UUID) (*model.NotificationModel, error) {
	n, err := s.store.GetNotification(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := helperAuth.CanPerform(actor, helperAuth.ActNotificationRead, helperAuth.ForOwner(n.UserID)); err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}
	n.IsRead = true
	if err := s.store.SaveNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) MarkAllRead(ctx context.Context, actor helperAuth.Actor) (int64, error) {
	if err := helperAuth.CanPerform(actor, helperAuth.ActNotificationRead, helperAuth.ForOwner(actor.ID)); err != nil {
		return 0, err
	}
	return s.store.MarkAllNotificationsRead(ctx, actor.ID)
}

func (s *Service) UnreadCount(ctx context.Context, actor helperAuth.Actor) (int64, error) {
	return s.store.CountUnreadNotifications(ctx, actor.ID)
}

/* ===================== messages ===================== */

func (s *Service) SendMessage(ctx context.Context, actor helperAuth.Actor, in dto.SendMessageRequest) (*repository.MessageView, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperror.ValidationField("content", "is required")
	}
	if in.RecipientID == actor.ID {
		return nil, apperror.ValidationField("recipient_id", "cannot message yourself")
	}
	if err := helperAuth.CanPerform(actor, helperAuth.ActMessageSend, helperAuth.ForOwner(in.RecipientID)); err != nil {
		return nil, err
	}
	if _, err := s.store.GetProfile(ctx, in.RecipientID); err != nil {
		return nil, err
	}
	if in.ProjectID != nil {
		if _, err := s.store.GetProject(ctx, *in.ProjectID); err != nil {
			return nil, err
		}
	}

	m := &model.MessageModel{
		ID:          uuid.New(),
		SenderID:    actor.ID,
		RecipientID: in.RecipientID,
		ProjectID:   in.ProjectID,
		Content:     content,
		CreatedAt:   s.now(),
	}
	if err := s.store.CreateMessage(ctx, m); err != nil {
		return nil, err
	}
	views, err := repository.MessageViews(ctx, s.store, []model.MessageModel{*m})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// GetMessages returns the actor's thread, oldest first. otherUserID narrows
// it to one conversation partner.
func (s *Service) GetMessages(ctx context.Context, actor helperAuth.Actor, otherUserID, projectID *uuid.UUID) ([]repository.MessageView, error) {
	msgs, err := s.store.ListMessages(ctx, repository.MessageFilter{
		UserID:      actor.ID,
		OtherUserID: otherUserID,
		ProjectID:   projectID,
	})
	if err != nil {
		return nil, err
	}
	return repository.MessageViews(ctx, s.store, msgs)
}

func (s *Service) MarkMessageRead(ctx context.Context, actor helperAuth.Actor, id uuid.UUID) (*model.MessageModel, error) {
	m, err := s.store.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := helperAuth.CanPerform(actor, helperAuth.ActMessageRead, helperAuth.ForOwner(m.RecipientID)); err != nil {
		return nil, err
	}
	if !m.IsRead {
		m.IsRead = true
		if err := s.store.SaveMessage(ctx, m); err != nil {
			return nil, err
		}
	}
	return m, nil
}
