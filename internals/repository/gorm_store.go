package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"internhub_backend/internals/constants"
	notifModel "internhub_backend/internals/features/home/notifications/model"
	projectModel "internhub_backend/internals/features/projects/projects/model"
	taskModel "internhub_backend/internals/features/projects/tasks/model"
	authModel "internhub_backend/internals/features/users/auth/model"
	profileModel "internhub_backend/internals/features/users/user_profiles/model"
	"internhub_backend/internals/helpers/apperror"
)

var errDuplicateSlug = errors.New("project slug already exists")

// GormStore is the PostgreSQL Store. Inside Transaction, reads of tasks and
// applications take row locks so concurrent accepts serialise.
type GormStore struct {
	db   *gorm.DB
	inTx bool
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) q(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *GormStore) locked(ctx context.Context) *gorm.DB {
	q := s.q(ctx)
	if s.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	err := s.q(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, inTx: true})
	})
	return apperror.FromDB(err, "")
}

func first[T any](q *gorm.DB, entity string, conds ...any) (*T, error) {
	var m T
	if err := q.First(&m, conds...).Error; err != nil {
		return nil, apperror.FromDB(err, entity)
	}
	return &m, nil
}

// save updates every column of an existing row; zero rows affected is NotFound.
func save(q *gorm.DB, model any, id uuid.UUID, entity string) error {
	res := q.Model(model).Where("id = ?", id).Select("*").Updates(model)
	if res.Error != nil {
		return apperror.FromDB(res.Error, entity)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(entity)
	}
	return nil
}

func applyPage(q *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	return q
}

/* ===================== identities ===================== */

func (s *GormStore) CreateIdentity(ctx context.Context, m *authModel.IdentityModel) error {
	if err := s.q(ctx).Create(m).Error; err != nil {
		if apperror.IsUniqueViolation(err) {
			return apperror.New(apperror.KindDuplicateIdentity, "email is already registered")
		}
		return apperror.FromDB(err, "identity")
	}
	return nil
}

func (s *GormStore) GetIdentity(ctx context.Context, id uuid.UUID) (*authModel.IdentityModel, error) {
	return first[authModel.IdentityModel](s.q(ctx), "identity", "id = ?", id)
}

func (s *GormStore) GetIdentityByEmail(ctx context.Context, email string) (*authModel.IdentityModel, error) {
	return first[authModel.IdentityModel](s.q(ctx), "identity", "LOWER(email) = ?", strings.ToLower(email))
}

func (s *GormStore) TouchIdentitySignIn(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := s.q(ctx).Model(&authModel.IdentityModel{}).Where("id = ?", id).Update("last_sign_in_at", at)
	if res.Error != nil {
		return apperror.FromDB(res.Error, "identity")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("identity")
	}
	return nil
}

func (s *GormStore) DeleteIdentity(ctx context.Context, id uuid.UUID) error {
	return apperror.FromDB(s.q(ctx).Delete(&authModel.IdentityModel{}, "id = ?", id).Error, "identity")
}

/* ===================== profiles ===================== */

func (s *GormStore) CreateProfile(ctx context.Context, m *profileModel.ProfileModel) error {
	if err := s.q(ctx).Create(m).Error; err != nil {
		if apperror.IsUniqueViolation(err) {
			return apperror.New(apperror.KindDuplicateIdentity, "profile already exists")
		}
		return apperror.FromDB(err, "profile")
	}
	return nil
}

func (s *GormStore) GetProfile(ctx context.Context, id uuid.UUID) (*profileModel.ProfileModel, error) {
	return first[profileModel.ProfileModel](s.q(ctx), "profile", "id = ?", id)
}

func (s *GormStore) GetProfilesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]profileModel.ProfileModel, error) {
	out := make(map[uuid.UUID]profileModel.ProfileModel, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []profileModel.ProfileModel
	if err := s.q(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, apperror.FromDB(err, "profile")
	}
	for _, r := range rows {
		out[r.ID] = r
	}
	return out, nil
}

func (s *GormStore) ListProfiles(ctx context.Context, f ProfileFilter) ([]profileModel.ProfileModel, int64, error) {
	q := s.q(ctx).Model(&profileModel.ProfileModel{})
	if f.Role != nil {
		q = q.Where("role = ?", *f.Role)
	}
	if f.Approved != nil {
		q = q.Where("is_approved = ?", *f.Approved)
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("(LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?)", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "profile")
	}
	var rows []profileModel.ProfileModel
	if err := applyPage(q.Order("created_at DESC, id ASC"), f.Limit, f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "profile")
	}
	return rows, total, nil
}

func (s *GormStore) SaveProfile(ctx context.Context, m *profileModel.ProfileModel) error {
	return save(s.q(ctx), m, m.ID, "profile")
}

func (s *GormStore) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return s.Transaction(ctx, func(tx Store) error {
		g := tx.(*GormStore)
		if err := g.q(ctx).Where("user_id = ?", id).Delete(&notifModel.NotificationModel{}).Error; err != nil {
			return apperror.FromDB(err, "notification")
		}
		res := g.q(ctx).Delete(&profileModel.ProfileModel{}, "id = ?", id)
		if res.Error != nil {
			return apperror.FromDB(res.Error, "profile")
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("profile")
		}
		return nil
	})
}

/* ===================== projects ===================== */

func (s *GormStore) CreateProject(ctx context.Context, m *projectModel.ProjectModel) error {
	if err := s.q(ctx).Create(m).Error; err != nil {
		if apperror.IsUniqueViolation(err) {
			return apperror.Remote(errDuplicateSlug, false)
		}
		return apperror.FromDB(err, "project")
	}
	return nil
}

func (s *GormStore) GetProject(ctx context.Context, id uuid.UUID) (*projectModel.ProjectModel, error) {
	return first[projectModel.ProjectModel](s.locked(ctx), "project", "id = ?", id)
}

func (s *GormStore) ListProjects(ctx context.Context, f ProjectFilter) ([]projectModel.ProjectModel, int64, error) {
	q := s.q(ctx).Model(&projectModel.ProjectModel{})
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.TeamLeadID != nil {
		q = q.Where("team_lead_id = ?", *f.TeamLeadID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "project")
	}
	var rows []projectModel.ProjectModel
	if err := applyPage(q.Order("created_at DESC, id ASC"), f.Limit, f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "project")
	}
	return rows, total, nil
}

func (s *GormStore) SaveProject(ctx context.Context, m *projectModel.ProjectModel) error {
	return save(s.q(ctx), m, m.ID, "project")
}

func (s *GormStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return s.Transaction(ctx, func(tx Store) error {
		g := tx.(*GormStore)
		taskIDs := g.q(ctx).Model(&taskModel.TaskModel{}).Select("id").Where("project_id = ?", id)
		subIDs := g.q(ctx).Model(&taskModel.SubmissionModel{}).Select("id").Where("task_id IN (?)", taskIDs)

		steps := []struct {
			entity string
			run    func() error
		}{
			{"review", func() error {
				return g.q(ctx).Where("submission_id IN (?)", subIDs).Delete(&taskModel.ReviewModel{}).Error
			}},
			{"submission", func() error {
				return g.q(ctx).Where("task_id IN (?)", taskIDs).Delete(&taskModel.SubmissionModel{}).Error
			}},
			{"application", func() error {
				return g.q(ctx).Where("task_id IN (?)", taskIDs).Delete(&taskModel.ApplicationModel{}).Error
			}},
			{"task", func() error {
				return g.q(ctx).Where("project_id = ?", id).Delete(&taskModel.TaskModel{}).Error
			}},
		}
		for _, st := range steps {
			if err := st.run(); err != nil {
				return apperror.FromDB(err, st.entity)
			}
		}

		res := g.q(ctx).Delete(&projectModel.ProjectModel{}, "id = ?", id)
		if res.Error != nil {
			return apperror.FromDB(res.Error, "project")
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("project")
		}
		return nil
	})
}

func (s *GormStore) ProjectSlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := s.q(ctx).Model(&projectModel.ProjectModel{}).
		Where("LOWER(slug) = ?", strings.ToLower(slug)).
		Count(&count).Error
	if err != nil {
		return false, apperror.FromDB(err, "project")
	}
	return count > 0, nil
}

/* ===================== tasks ===================== */

func (s *GormStore) CreateTask(ctx context.Context, m *taskModel.TaskModel) error {
	return apperror.FromDB(s.q(ctx).Create(m).Error, "task")
}

func (s *GormStore) GetTask(ctx context.Context, id uuid.UUID) (*taskModel.TaskModel, error) {
	return first[taskModel.TaskModel](s.locked(ctx), "task", "id = ?", id)
}

func (s *GormStore) ListTasks(ctx context.Context, f TaskFilter) ([]taskModel.TaskModel, int64, error) {
	if f.ProjectIDs != nil && len(f.ProjectIDs) == 0 {
		return nil, 0, nil
	}
	q := s.q(ctx).Model(&taskModel.TaskModel{})
	if f.ProjectID != nil {
		q = q.Where("project_id = ?", *f.ProjectID)
	}
	if f.ProjectIDs != nil {
		q = q.Where("project_id IN ?", f.ProjectIDs)
	}
	if f.AssignedInternID != nil {
		q = q.Where("assigned_intern_id = ?", *f.AssignedInternID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.OpenOrAssignedTo != nil {
		if f.OpenInProjectIDs != nil {
			q = q.Where("((status = ? AND project_id IN ?) OR assigned_intern_id = ?)",
				constants.TaskOpen, f.OpenInProjectIDs, *f.OpenOrAssignedTo)
		} else {
			q = q.Where("(status = ? OR assigned_intern_id = ?)", constants.TaskOpen, *f.OpenOrAssignedTo)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "task")
	}
	var rows []taskModel.TaskModel
	if err := applyPage(q.Order("created_at DESC, id ASC"), f.Limit, f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "task")
	}
	return rows, total, nil
}

func (s *GormStore) SaveTask(ctx context.Context, m *taskModel.TaskModel) error {
	return save(s.q(ctx), m, m.ID, "task")
}

/* ===================== applications ===================== */

func (s *GormStore) CreateApplication(ctx context.Context, m *taskModel.ApplicationModel) error {
	return apperror.FromDB(s.q(ctx).Create(m).Error, "application")
}

func (s *GormStore) GetApplication(ctx context.Context, id uuid.UUID) (*taskModel.ApplicationModel, error) {
	return first[taskModel.ApplicationModel](s.locked(ctx), "application", "id = ?", id)
}

func (s *GormStore) ListApplications(ctx context.Context, f ApplicationFilter) ([]taskModel.ApplicationModel, error) {
	if f.TaskIDs != nil && len(f.TaskIDs) == 0 {
		return nil, nil
	}
	q := s.q(ctx).Model(&taskModel.ApplicationModel{})
	if f.TaskID != nil {
		q = q.Where("task_id = ?", *f.TaskID)
	}
	if f.TaskIDs != nil {
		q = q.Where("task_id IN ?", f.TaskIDs)
	}
	if f.InternID != nil {
		q = q.Where("intern_id = ?", *f.InternID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var rows []taskModel.ApplicationModel
	if err := q.Order("applied_at DESC, id ASC").Find(&rows).Error; err != nil {
		return nil, apperror.FromDB(err, "application")
	}
	return rows, nil
}

func (s *GormStore) SaveApplication(ctx context.Context, m *taskModel.ApplicationModel) error {
	return save(s.q(ctx), m, m.ID, "application")
}

func (s *GormStore) RejectPendingApplications(ctx context.Context, taskID, keepID uuid.UUID, at time.Time) ([]taskModel.ApplicationModel, error) {
	var changed []taskModel.ApplicationModel
	err := s.q(ctx).Model(&changed).
		Clauses(clause.Returning{}).
		Where("task_id = ? AND id <> ? AND status = ?", taskID, keepID, constants.ApplicationPending).
		Updates(map[string]any{
			"status":      constants.ApplicationRejected,
			"reviewed_at": at,
		}).Error
	if err != nil {
		return nil, apperror.FromDB(err, "application")
	}
	return changed, nil
}

/* ===================== submissions & reviews ===================== */

func (s *GormStore) CreateSubmission(ctx context.Context, m *taskModel.SubmissionModel) error {
	return apperror.FromDB(s.q(ctx).Create(m).Error, "submission")
}

func (s *GormStore) GetSubmission(ctx context.Context, id uuid.UUID) (*taskModel.SubmissionModel, error) {
	return first[taskModel.SubmissionModel](s.locked(ctx), "submission", "id = ?", id)
}

func (s *GormStore) ListSubmissions(ctx context.Context, f SubmissionFilter) ([]taskModel.SubmissionModel, error) {
	if f.TaskIDs != nil && len(f.TaskIDs) == 0 {
		return nil, nil
	}
	q := s.q(ctx).Model(&taskModel.SubmissionModel{})
	if f.TaskID != nil {
		q = q.Where("task_id = ?", *f.TaskID)
	}
	if f.TaskIDs != nil {
		q = q.Where("task_id IN ?", f.TaskIDs)
	}
	if f.InternID != nil {
		q = q.Where("intern_id = ?", *f.InternID)
	}
	var rows []taskModel.SubmissionModel
	if err := q.Order("submitted_at DESC, id ASC").Find(&rows).Error; err != nil {
		return nil, apperror.FromDB(err, "submission")
	}
	return rows, nil
}

func (s *GormStore) SaveSubmission(ctx context.Context, m *taskModel.SubmissionModel) error {
	return save(s.q(ctx), m, m.ID, "submission")
}

func (s *GormStore) CreateReview(ctx context.Context, m *taskModel.ReviewModel) error {
	return apperror.FromDB(s.q(ctx).Create(m).Error, "review")
}

func (s *GormStore) ListReviews(ctx context.Context, submissionIDs []uuid.UUID) ([]taskModel.ReviewModel, error) {
	if len(submissionIDs) == 0 {
		return nil, nil
	}
	var rows []taskModel.ReviewModel
	err := s.q(ctx).Where("submission_id IN ?", submissionIDs).Order("created_at DESC, id ASC").Find(&rows).Error
	if err != nil {
		return nil, apperror.FromDB(err, "review")
	}
	return rows, nil
}

/* ===================== notifications ===================== */

func (s *GormStore) CreateNotification(ctx context.Context, m *notifModel.NotificationModel) error {
	return apperror.FromDB(s.q(ctx).Create(m).Error, "notification")
}

func (s *GormStore) GetNotification(ctx context.Context, id uuid.UUID) (*notifModel.NotificationModel, error) {
	return first[notifModel.NotificationModel](s.q(ctx), "notification", "id = ?", id)
}

func (s *GormStore) ListNotifications(ctx context.Context, f NotificationFilter) ([]notifModel.NotificationModel, int64, error) {
	q := s.q(ctx).Model(&notifModel.NotificationModel{}).Where("user_id = ?", f.UserID)
	if f.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "notification")
	}
	var rows []notifModel.NotificationModel
	if err := applyPage(q.Order("created_at DESC, id ASC"), f.Limit, f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "notification")
	}
	return rows, total, nil
}

func (s *GormStore) SaveNotification(ctx context.Context, m *notifModel.NotificationModel) error {
	return save(s.q(ctx), m, m.ID, "notification")
}

func (s *GormStore) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := s.q(ctx).Model(&notifModel.NotificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, apperror.FromDB(res.Error, "notification")
	}
	return res.RowsAffected, nil
}

func (s *GormStore) CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := s.q(ctx).Model(&notifModel.NotificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, apperror.FromDB(err, "notification")
}

/* ===================== messages ===================== */

func (s *GormStore) CreateMessage(ctx context.Context, m *notifModel.MessageModel) error {
	return apperror.FromDB(s.q(ctx).Create(m).Error, "message")
}

func (s *GormStore) GetMessage(ctx context.Context, id uuid.UUID) (*notifModel.MessageModel, error) {
	return first[notifModel.MessageModel](s.q(ctx), "message", "id = ?", id)
}

func (s *GormStore) ListMessages(ctx context.Context, f MessageFilter) ([]notifModel.MessageModel, error) {
	q := s.q(ctx).Model(&notifModel.MessageModel{})
	if f.OtherUserID != nil {
		q = q.Where("((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?))",
			f.UserID, *f.OtherUserID, *f.OtherUserID, f.UserID)
	} else {
		q = q.Where("(sender_id = ? OR recipient_id = ?)", f.UserID, f.UserID)
	}
	if f.ProjectID != nil {
		q = q.Where("project_id = ?", *f.ProjectID)
	}
	var rows []notifModel.MessageModel
	if err := q.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, apperror.FromDB(err, "message")
	}
	return rows, nil
}

func (s *GormStore) SaveMessage(ctx context.Context, m *notifModel.MessageModel) error {
	return save(s.q(ctx), m, m.ID, "message")
}

/* ===================== token blacklist ===================== */

func (s *GormStore) BlacklistToken(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	row := authModel.TokenBlacklist{Token: tokenHash, ExpiredAt: expiresAt}
	err := s.q(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"expired_at"}),
	}).Create(&row).Error
	return apperror.FromDB(err, "token")
}

func (s *GormStore) IsTokenBlacklisted(ctx context.Context, tokenHash string, now time.Time) (bool, error) {
	var n int64
	err := s.q(ctx).Model(&authModel.TokenBlacklist{}).
		Where("token = ? AND expired_at > ?", tokenHash, now).
		Count(&n).Error
	if err != nil {
		return false, apperror.FromDB(err, "token")
	}
	return n > 0, nil
}

func (s *GormStore) PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res := s.q(ctx).Where("expired_at <= ?", now).Delete(&authModel.TokenBlacklist{})
	if res.Error != nil {
		return 0, apperror.FromDB(res.Error, "token")
	}
	return res.RowsAffected, nil
}
