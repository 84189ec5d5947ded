// Package repository is the relational store behind every workflow.
// GormStore talks to PostgreSQL; MemoryStore backs tests and STORE_DRIVER=memory.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"internhub_backend/internals/constants"
	notifModel "internhub_backend/internals/features/home/notifications/model"
	projectModel "internhub_backend/internals/features/projects/projects/model"
	taskModel "internhub_backend/internals/features/projects/tasks/model"
	authModel "internhub_backend/internals/features/users/auth/model"
	profileModel "internhub_backend/internals/features/users/user_profiles/model"
)

// Limit/Offset of zero mean "no limit". Listings are newest first unless
// stated otherwise.

type ProfileFilter struct {
	Role     *constants.Role
	Approved *bool
	Query    string // case-insensitive match on full_name or email
	Limit    int
	Offset   int
}

type ProjectFilter struct {
	ClientID   *uuid.UUID
	TeamLeadID *uuid.UUID
	Statuses   []string
	Limit      int
	Offset     int
}

type TaskFilter struct {
	ProjectID        *uuid.UUID
	ProjectIDs       []uuid.UUID
	AssignedInternID *uuid.UUID
	Statuses         []string
	// OpenOrAssignedTo widens Statuses: tasks that are open OR assigned to this intern.
	OpenOrAssignedTo *uuid.UUID
	// OpenInProjectIDs limits the open branch of OpenOrAssignedTo to these projects.
	OpenInProjectIDs []uuid.UUID
	Limit            int
	Offset           int
}

type ApplicationFilter struct {
	TaskID   *uuid.UUID
	TaskIDs  []uuid.UUID
	InternID *uuid.UUID
	Status   string
}

type SubmissionFilter struct {
	TaskID   *uuid.UUID
	TaskIDs  []uuid.UUID
	InternID *uuid.UUID
}

type NotificationFilter struct {
	UserID     uuid.UUID
	UnreadOnly bool
	Limit      int
	Offset     int
}

// MessageFilter returns messages sent or received by UserID, optionally
// restricted to the conversation with OtherUserID. Oldest first.
type MessageFilter struct {
	UserID      uuid.UUID
	OtherUserID *uuid.UUID
	ProjectID   *uuid.UUID
}

type Store interface {
	// Transaction runs fn atomically. Nested calls join the outer transaction.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	CreateIdentity(ctx context.Context, m *authModel.IdentityModel) error
	GetIdentity(ctx context.Context, id uuid.UUID) (*authModel.IdentityModel, error)
	GetIdentityByEmail(ctx context.Context, email string) (*authModel.IdentityModel, error)
	TouchIdentitySignIn(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteIdentity(ctx context.Context, id uuid.UUID) error

	CreateProfile(ctx context.Context, m *profileModel.ProfileModel) error
	GetProfile(ctx context.Context, id uuid.UUID) (*profileModel.ProfileModel, error)
	GetProfilesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]profileModel.ProfileModel, error)
	ListProfiles(ctx context.Context, f ProfileFilter) ([]profileModel.ProfileModel, int64, error)
	SaveProfile(ctx context.Context, m *profileModel.ProfileModel) error
	DeleteProfile(ctx context.Context, id uuid.UUID) error

	CreateProject(ctx context.Context, m *projectModel.ProjectModel) error
	GetProject(ctx context.Context, id uuid.UUID) (*projectModel.ProjectModel, error)
	ListProjects(ctx context.Context, f ProjectFilter) ([]projectModel.ProjectModel, int64, error)
	SaveProject(ctx context.Context, m *projectModel.ProjectModel) error
	// DeleteProject removes the project with its tasks, applications,
	// submissions and reviews.
	DeleteProject(ctx context.Context, id uuid.UUID) error
	ProjectSlugExists(ctx context.Context, slug string) (bool, error)

	CreateTask(ctx context.Context, m *taskModel.TaskModel) error
	GetTask(ctx context.Context, id uuid.UUID) (*taskModel.TaskModel, error)
	ListTasks(ctx context.Context, f TaskFilter) ([]taskModel.TaskModel, int64, error)
	SaveTask(ctx context.Context, m *taskModel.TaskModel) error

	CreateApplication(ctx context.Context, m *taskModel.ApplicationModel) error
	GetApplication(ctx context.Context, id uuid.UUID) (*taskModel.ApplicationModel, error)
	ListApplications(ctx context.Context, f ApplicationFilter) ([]taskModel.ApplicationModel, error)
	SaveApplication(ctx context.Context, m *taskModel.ApplicationModel) error
	// RejectPendingApplications rejects every pending application of the task
	// except keepID and returns the rows it changed.
	RejectPendingApplications(ctx context.Context, taskID, keepID uuid.UUID, at time.Time) ([]taskModel.ApplicationModel, error)

	CreateSubmission(ctx context.Context, m *taskModel.SubmissionModel) error
	GetSubmission(ctx context.Context, id uuid.UUID) (*taskModel.SubmissionModel, error)
	ListSubmissions(ctx context.Context, f SubmissionFilter) ([]taskModel.SubmissionModel, error)
	SaveSubmission(ctx context.Context, m *taskModel.SubmissionModel) error

	CreateReview(ctx context.Context, m *taskModel.ReviewModel) error
	ListReviews(ctx context.Context, submissionIDs []uuid.UUID) ([]taskModel.ReviewModel, error)

	CreateNotification(ctx context.Context, m *notifModel.NotificationModel) error
	GetNotification(ctx context.Context, id uuid.UUID) (*notifModel.NotificationModel, error)
	ListNotifications(ctx context.Context, f NotificationFilter) ([]notifModel.NotificationModel, int64, error)
	SaveNotification(ctx context.Context, m *notifModel.NotificationModel) error
	MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error)

	CreateMessage(ctx context.Context, m *notifModel.MessageModel) error
	GetMessage(ctx context.Context, id uuid.UUID) (*notifModel.MessageModel, error)
	ListMessages(ctx context.Context, f MessageFilter) ([]notifModel.MessageModel, error)
	SaveMessage(ctx context.Context, m *notifModel.MessageModel) error

	BlacklistToken(ctx context.Context, tokenHash string, expiresAt time.Time) error
	IsTokenBlacklisted(ctx context.Context, tokenHash string, now time.Time) (bool, error)
	PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}
