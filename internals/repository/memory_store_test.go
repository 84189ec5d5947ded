package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"internhub_backend/internals/constants"
	notifModel "internhub_backend/internals/features/home/notifications/model"
	projectModel "internhub_backend/internals/features/projects/projects/model"
	taskModel "internhub_backend/internals/features/projects/tasks/model"
	authModel "internhub_backend/internals/features/users/auth/model"
	profileModel "internhub_backend/internals/features/users/user_profiles/model"
	"internhub_backend/internals/helpers/apperror"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestMemoryTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	id := uuid.New()

	boom := errors.New("profile insert failed")
	err := s.Transaction(ctx, func(tx Store) error {
		if err := tx.CreateIdentity(ctx, &authModel.IdentityModel{ID: id, Email: "a@x.io", CreatedAt: t0}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error back, got %v", err)
	}
	if _, err := s.GetIdentity(ctx, id); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("identity should be rolled back, got %v", err)
	}
}

func TestMemoryDuplicateEmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.CreateIdentity(ctx, &authModel.IdentityModel{ID: uuid.New(), Email: "Dev@x.io"}); err != nil {
		t.Fatal(err)
	}
	err := s.CreateIdentity(ctx, &authModel.IdentityModel{ID: uuid.New(), Email: "dev@X.io"})
	if !errors.Is(err, apperror.ErrDuplicateIdentity) {
		t.Fatalf("want duplicate identity, got %v", err)
	}
}

func TestMemoryRejectPendingApplications(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	task := uuid.New()
	keep := taskModel.ApplicationModel{ID: uuid.New(), TaskID: task, InternID: uuid.New(), Status: constants.ApplicationPending, AppliedAt: t0}
	other := taskModel.ApplicationModel{ID: uuid.New(), TaskID: task, InternID: uuid.New(), Status: constants.ApplicationPending, AppliedAt: t0}
	old := taskModel.ApplicationModel{ID: uuid.New(), TaskID: task, InternID: uuid.New(), Status: constants.ApplicationRejected, AppliedAt: t0}
	foreign := taskModel.ApplicationModel{ID: uuid.New(), TaskID: uuid.New(), InternID: uuid.New(), Status: constants.ApplicationPending, AppliedAt: t0}
	for _, a := range []taskModel.ApplicationModel{keep, other, old, foreign} {
		a := a
		if err := s.CreateApplication(ctx, &a); err != nil {
			t.Fatal(err)
		}
	}

	changed, err := s.RejectPendingApplications(ctx, task, keep.ID, t0)
	if err != nil {
		t.Fatal(err)
	}
	if len(changed) != 1 || changed[0].ID != other.ID {
		t.Fatalf("only the other pending application should change, got %+v", changed)
	}
	got, _ := s.GetApplication(ctx, foreign.ID)
	if got.Status != constants.ApplicationPending {
		t.Fatalf("applications of other tasks must be untouched")
	}
}

func TestMemoryMessagesPairFilterOldestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	msgs := []notifModel.MessageModel{
		{ID: uuid.New(), SenderID: a, RecipientID: b, Content: "2", CreatedAt: t0.Add(2 * time.Minute)},
		{ID: uuid.New(), SenderID: b, RecipientID: a, Content: "1", CreatedAt: t0.Add(time.Minute)},
		{ID: uuid.New(), SenderID: a, RecipientID: c, Content: "x", CreatedAt: t0},
	}
	for i := range msgs {
		if err := s.CreateMessage(ctx, &msgs[i]); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ListMessages(ctx, MessageFilter{UserID: a, OtherUserID: &b})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Content != "1" || got[1].Content != "2" {
		t.Fatalf("unexpected thread: %+v", got)
	}

	all, _ := s.ListMessages(ctx, MessageFilter{UserID: a})
	if len(all) != 3 || all[0].Content != "x" {
		t.Fatalf("unfiltered list should hold all three oldest first, got %+v", all)
	}
}

func TestMemoryDeleteProjectCascades(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := projectModel.ProjectModel{ID: uuid.New(), Slug: "p", ClientID: uuid.New(), Status: constants.ProjectActive}
	task := taskModel.TaskModel{ID: uuid.New(), ProjectID: p.ID, Status: constants.TaskCompleted}
	sub := taskModel.SubmissionModel{ID: uuid.New(), TaskID: task.ID, InternID: uuid.New()}
	rev := taskModel.ReviewModel{ID: uuid.New(), SubmissionID: sub.ID}
	_ = s.CreateProject(ctx, &p)
	_ = s.CreateTask(ctx, &task)
	_ = s.CreateSubmission(ctx, &sub)
	_ = s.CreateReview(ctx, &rev)

	if err := s.DeleteProject(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetTask(ctx, task.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("task should be gone")
	}
	if revs, _ := s.ListReviews(ctx, []uuid.UUID{sub.ID}); len(revs) != 0 {
		t.Fatalf("reviews should be gone")
	}
}

func TestMemoryListProfilesFilters(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	intern := constants.RoleIntern
	no := false
	rows := []profileModel.ProfileModel{
		{ID: uuid.New(), FullName: "Ana Intern", Email: "ana@x.io", Role: constants.RoleIntern, CreatedAt: t0},
		{ID: uuid.New(), FullName: "Ben Intern", Email: "ben@x.io", Role: constants.RoleIntern, IsApproved: true, CreatedAt: t0.Add(time.Hour)},
		{ID: uuid.New(), FullName: "Cy Client", Email: "cy@x.io", Role: constants.RoleClient, CreatedAt: t0.Add(2 * time.Hour)},
	}
	for i := range rows {
		_ = s.CreateProfile(ctx, &rows[i])
	}

	got, total, err := s.ListProfiles(ctx, ProfileFilter{Role: &intern, Approved: &no})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || got[0].FullName != "Ana Intern" {
		t.Fatalf("unexpected filter result %v (%d)", got, total)
	}

	got, total, _ = s.ListProfiles(ctx, ProfileFilter{Query: "INTERN", Limit: 1})
	if total != 2 || len(got) != 1 || got[0].FullName != "Ben Intern" {
		t.Fatalf("search should be newest first and paged, got %v (%d)", got, total)
	}
}

func TestMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.BlacklistToken(ctx, "live", t0.Add(time.Hour))
	_ = s.BlacklistToken(ctx, "dead", t0.Add(-time.Hour))

	if ok, _ := s.IsTokenBlacklisted(ctx, "live", t0); !ok {
		t.Fatalf("live token should be blacklisted")
	}
	n, _ := s.PurgeExpiredTokens(ctx, t0)
	if n != 1 {
		t.Fatalf("expected one purge, got %d", n)
	}
}
