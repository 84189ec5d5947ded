package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"internhub_backend/internals/constants"
	notifModel "internhub_backend/internals/features/home/notifications/model"
	notifService "internhub_backend/internals/features/home/notifications/service"
	"internhub_backend/internals/features/users/user_profiles/dto"
	"internhub_backend/internals/features/users/user_profiles/model"
	helper "internhub_backend/internals/helpers"
	"internhub_backend/internals/helpers/apperror"
	helperAuth "internhub_backend/internals/helpers/auth"
	helperOSS "internhub_backend/internals/helpers/oss"
	"internhub_backend/internals/repository"
)

type Service struct {
	store     repository.Store
	blobs     helperOSS.BlobService
	now       func() time.Time
	onUpdated func(*model.ProfileModel)
}

func New(store repository.Store, blobs helperOSS.BlobService) *Service {
	return &Service{
		store: store,
		blobs: blobs,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// OnUpdated registers a hook called after every successful profile write.
func (s *Service) OnUpdated(fn func(*model.ProfileModel)) *Service {
	s.onUpdated = fn
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) updated(p *model.ProfileModel) {
	if s.onUpdated != nil {
		s.onUpdated(p)
	}
}

// Get returns the full profile to its owner and admins, a summary otherwise.
func (s *Service) Get(ctx context.Context, actor helperAuth.Actor, id uuid.UUID) (any, error) {
	p, err := s.store.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID == p.ID || actor.IsAdmin() {
		return p, nil
	}
	return p.Summary(), nil
}

/* ===================== self edit ===================== */

func (s *Service) UpdateProfile(ctx context.Context, actor helperAuth.Actor, userID uuid.UUID, in dto.UpdateProfileRequest) (*model.ProfileModel, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	if in.FullName != nil && len(strings.TrimSpace(*in.FullName)) < 2 {
		return nil, apperror.ValidationField("full_name", "must be at least 2")
	}
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := helperAuth.CanPerform(actor, helperAuth.ActProfileSelfEdit, helperAuth.ForProfile(p)); err != nil {
		return nil, err
	}

	in.ApplyTo(p)
	p.UpdatedAt = s.now()
	if err := s.store.SaveProfile(ctx, p); err != nil {
		return nil, err
	}
	s.updated(p)
	return p, nil
}

// UploadAvatar stores a new avatar and removes the previous one.
func (s *Service) UploadAvatar(ctx context.Context, actor helperAuth.Actor, filename string, data []byte) (*model.ProfileModel, error) {
	if s.blobs == nil {
		return nil, apperror.Validation("avatar upload is not configured", nil)
	}
	p, err := s.store.GetProfile(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := helperAuth.CanPerform(actor, helperAuth.ActProfileSelfEdit, helperAuth.ForProfile(p)); err != nil {
		return nil, err
	}

	url, err := s.blobs.UploadAvatar(ctx, p.ID, filename, data)
	if err != nil {
		return nil, err
	}
	old := p.AvatarURL
	p.AvatarURL = &url
	p.UpdatedAt = s.now()
	if err := s.store.SaveProfile(ctx, p); err != nil {
		_ = s.blobs.DeleteByPublicURL(ctx, url)
		return nil, err
	}
	if old != nil && *old != "" {
		if err := s.blobs.DeleteByPublicURL(ctx, *old); err != nil {
			log.Printf("[WARN] delete old avatar %s: %v", *old, err)
		}
	}
	s.updated(p)
	return p, nil
}

/* ===================== admin ===================== */

func (s *Service) ListUsers(ctx context.Context, actor helperAuth.Actor, q dto.UserListQuery, limit, offset int) ([]model.ProfileModel, int64, error) {
	if err := helper.ValidateStruct(q); err != nil {
		return nil, 0, err
	}
	if err := helperAuth.CanPerform(actor, helperAuth.ActUserList, helperAuth.Target{}); err != nil {
		return nil, 0, err
	}
	f := repository.ProfileFilter{Query: strings.TrimSpace(q.Q), Limit: limit, Offset: offset}
	if q.Role != "" {
		role := constants.Role(q.Role)
		f.Role = &role
	}
	if q.Status != "" {
		approved := q.Status == "approved"
		f.Approved = &approved
	}
	return s.store.ListProfiles(ctx, f)
}

func (s *Service) setApproval(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, approve bool) (*model.ProfileModel, error) {
	action := helperAuth.ActProfileReject
	if approve {
		action = helperAuth.ActProfileApprove
	}
	var out *model.ProfileModel
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		p, err := tx.GetProfile(ctx, id)
		if err != nil {
			return err
		}
		if err := helperAuth.CanPerform(actor, action, helperAuth.ForProfile(p)); err != nil {
			return err
		}
		if p.IsApproved == approve {
			out = p
			return nil
		}
		now := s.now()
		p.IsApproved = approve
		p.UpdatedAt = now
		if err := tx.SaveProfile(ctx, p); err != nil {
			return err
		}
		out = p

		if approve {
			return notifService.Push(ctx, tx, now, p.ID, notifModel.TypeSuccess,
				"Account approved", "Your account has been approved. You now have full access.", nil)
		}
		return notifService.Push(ctx, tx, now, p.ID, notifModel.TypeWarning,
			"Account access revoked", "Your account is pending review by an administrator.", nil)
	})
	if err != nil {
		return nil, err
	}
	s.updated(out)
	return out, nil
}

func (s *Service) Approve(ctx context.Context, actor helperAuth.Actor, id uuid.UUID) (*model.ProfileModel, error) {
	return s.setApproval(ctx, actor, id, true)
}

// Reject clears approval; admin profiles are refused by the gate.
func (s *Service) Reject(ctx context.Context, actor helperAuth.Actor, id uuid.UUID) (*model.ProfileModel, error) {
	return s.setApproval(ctx, actor, id, false)
}

// Delete removes the profile and its identity together.
func (s *Service) Delete(ctx context.Context, actor helperAuth.Actor, id uuid.UUID) error {
	var avatar *string
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		p, err := tx.GetProfile(ctx, id)
		if err != nil {
			return err
		}
		if err := helperAuth.CanPerform(actor, helperAuth.ActProfileDelete, helperAuth.ForProfile(p)); err != nil {
			return err
		}
		if id == actor.ID {
			return apperror.ValidationField("id", "cannot delete your own account")
		}
		avatar = p.AvatarURL
		if err := tx.DeleteProfile(ctx, id); err != nil {
			return err
		}
		return tx.DeleteIdentity(ctx, id)
	})
	if err != nil {
		return err
	}
	if avatar != nil && s.blobs != nil {
		if err := s.blobs.DeleteByPublicURL(ctx, *avatar); err != nil {
			log.Printf("[WARN] delete avatar of %s: %v", id, err)
		}
	}
	log.Printf("[INFO] %s deleted user %s", actor.ID, id)
	return nil
}
