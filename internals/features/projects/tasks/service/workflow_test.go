package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"internhub_backend/internals/constants"
	projectModel "internhub_backend/internals/features/projects/projects/model"
	"internhub_backend/internals/features/projects/tasks/dto"
	"internhub_backend/internals/features/projects/tasks/model"
	profileModel "internhub_backend/internals/features/users/user_profiles/model"
	"internhub_backend/internals/helpers/apperror"
	helperAuth "internhub_backend/internals/helpers/auth"
	"internhub_backend/internals/repository"
)

var t0 = time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	store   repository.Store
	svc     *Service
	admin   helperAuth.Actor
	client  helperAuth.Actor
	lead    helperAuth.Actor
	interns []helperAuth.Actor
	project *projectModel.ProjectModel
}

func seedProfile(t *testing.T, s repository.Store, name string, role constants.Role, approved bool) helperAuth.Actor {
	t.Helper()
	p := &profileModel.ProfileModel{
		ID:         uuid.New(),
		Email:      name + "@hub.test",
		FullName:   name,
		Role:       role,
		IsApproved: approved,
		CreatedAt:  t0,
	}
	if err := s.CreateProfile(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	return helperAuth.ActorFromProfile(p)
}

// newFixture seeds an active project led by lead and n approved interns.
func newFixture(t *testing.T, n int) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	clock := t0
	f := &fixture{
		store:  store,
		svc:    New(store).WithClock(func() time.Time { clock = clock.Add(time.Second); return clock }),
		admin:  seedProfile(t, store, "root", constants.RoleAdmin, true),
		client: seedProfile(t, store, "cahya", constants.RoleClient, true),
		lead:   seedProfile(t, store, "lead", constants.RoleTeamLead, true),
	}
	for i := 0; i < n; i++ {
		f.interns = append(f.interns, seedProfile(t, store, "intern"+string(rune('a'+i)), constants.RoleIntern, true))
	}
	f.project = &projectModel.ProjectModel{
		ID:         uuid.New(),
		Slug:       "shop",
		ClientID:   f.client.ID,
		TeamLeadID: &f.lead.ID,
		Title:      "Shop",
		Status:     constants.ProjectActive,
		CreatedAt:  t0,
		UpdatedAt:  t0,
	}
	if err := store.CreateProject(context.Background(), f.project); err != nil {
		t.Fatal(err)
	}
	return f
}

func (f *fixture) task(t *testing.T) *model.TaskModel {
	t.Helper()
	task, err := f.svc.CreateTask(context.Background(), f.lead, dto.CreateTaskRequest{
		ProjectID:   f.project.ID,
		Title:       "Checkout page",
		Description: "Cart and payment form",
	})
	if err != nil {
		t.Fatal(err)
	}
	return task
}

func (f *fixture) apply(t *testing.T, intern helperAuth.Actor, taskID uuid.UUID) *model.ApplicationModel {
	t.Helper()
	app, err := f.svc.ApplyForTask(context.Background(), intern, taskID, dto.ApplyRequest{})
	if err != nil {
		t.Fatal(err)
	}
	return app
}

func submitReq() dto.SubmitWorkRequest {
	return dto.SubmitWorkRequest{Title: "First cut", GithubURL: strPtr("https://github.com/acme/shop")}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func taskStatus(t *testing.T, s repository.Store, id uuid.UUID) string {
	t.Helper()
	got, err := s.GetTask(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	return got.Status
}

func TestEndToEndApprovedReview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)
	winner, other := f.interns[0], f.interns[1]

	task := f.task(t)
	if task.Status != constants.TaskOpen {
		t.Fatalf("new task status = %s", task.Status)
	}
	app := f.apply(t, winner, task.ID)
	otherApp := f.apply(t, other, task.ID)

	if _, err := f.svc.AcceptApplication(ctx, f.lead, app.ID); err != nil {
		t.Fatal(err)
	}
	got, _ := f.store.GetTask(ctx, task.ID)
	if got.Status != constants.TaskAssigned || !got.AssignedTo(winner.ID) {
		t.Fatalf("task after accept: %+v", got)
	}
	rejected, _ := f.store.GetApplication(ctx, otherApp.ID)
	if rejected.Status != constants.ApplicationRejected {
		t.Fatalf("other application = %s", rejected.Status)
	}
	proj, _ := f.store.GetProject(ctx, f.project.ID)
	if proj.Status != constants.ProjectInProgress {
		t.Fatalf("project not promoted: %s", proj.Status)
	}

	sub, err := f.svc.SubmitWork(ctx, winner, task.ID, submitReq())
	if err != nil {
		t.Fatal(err)
	}
	if s := taskStatus(t, f.store, task.ID); s != constants.TaskSubmitted {
		t.Fatalf("task after submit = %s", s)
	}

	rating := 5
	out, err := f.svc.ReviewSubmission(ctx, f.lead, sub.ID, dto.ReviewRequest{Rating: &rating, Feedback: "great", IsApproved: boolPtr(true)})
	if err != nil {
		t.Fatal(err)
	}
	if out.Task.Status != constants.TaskCompleted || out.Submission.Status != constants.SubmissionApproved {
		t.Fatalf("review outcome: task %s, submission %s", out.Task.Status, out.Submission.Status)
	}
	if s := taskStatus(t, f.store, task.ID); s != constants.TaskCompleted {
		t.Fatalf("stored task = %s", s)
	}

	detail, err := f.svc.GetTask(ctx, f.client, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.Submissions) != 1 || len(detail.Submissions[0].Reviews) != 1 || detail.Project == nil {
		t.Fatalf("detail not fully loaded: %+v", detail)
	}
}

func TestEndToEndRevisionAllowsResubmission(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	intern := f.interns[0]

	task := f.task(t)
	app := f.apply(t, intern, task.ID)
	if _, err := f.svc.AcceptApplication(ctx, f.lead, app.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.StartTask(ctx, intern, task.ID); err != nil {
		t.Fatal(err)
	}
	sub, err := f.svc.SubmitWork(ctx, intern, task.ID, submitReq())
	if err != nil {
		t.Fatal(err)
	}

	// the client may review too
	out, err := f.svc.ReviewSubmission(ctx, f.client, sub.ID, dto.ReviewRequest{Feedback: "missing tests", IsApproved: boolPtr(false)})
	if err != nil {
		t.Fatal(err)
	}
	if out.Submission.Status != constants.SubmissionNeedsRevision || out.Task.Status != constants.TaskInProgress {
		t.Fatalf("review outcome: task %s, submission %s", out.Task.Status, out.Submission.Status)
	}
	if _, err := f.svc.ReviewSubmission(ctx, f.lead, sub.ID, dto.ReviewRequest{IsApproved: boolPtr(true)}); !errors.Is(err, apperror.ErrInvalidTransition) {
		t.Fatalf("reviewing twice: %v", err)
	}

	if _, err := f.svc.SubmitWork(ctx, intern, task.ID, submitReq()); err != nil {
		t.Fatalf("resubmission: %v", err)
	}
	if s := taskStatus(t, f.store, task.ID); s != constants.TaskSubmitted {
		t.Fatalf("task after resubmit = %s", s)
	}
}

func TestAcceptLeavesOneAcceptedApplication(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 4)
	task := f.task(t)

	var apps []*model.ApplicationModel
	for _, in := range f.interns {
		apps = append(apps, f.apply(t, in, task.ID))
	}
	if _, err := f.svc.RejectApplication(ctx, f.lead, apps[3].ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.AcceptApplication(ctx, f.lead, apps[1].ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.AcceptApplication(ctx, f.lead, apps[0].ID); !errors.Is(err, apperror.ErrInvalidTransition) {
		t.Fatalf("second accept: %v", err)
	}

	all, err := f.store.ListApplications(ctx, repository.ApplicationFilter{TaskID: &task.ID})
	if err != nil {
		t.Fatal(err)
	}
	accepted := 0
	for _, a := range all {
		switch a.Status {
		case constants.ApplicationAccepted:
			accepted++
			if a.ID != apps[1].ID {
				t.Fatalf("wrong application accepted")
			}
		case constants.ApplicationPending:
			t.Fatalf("application %s still pending", a.ID)
		}
	}
	if accepted != 1 {
		t.Fatalf("accepted = %d", accepted)
	}

	// each passed-over intern hears about it once
	for _, in := range []helperAuth.Actor{f.interns[0], f.interns[2]} {
		if n, _ := f.store.CountUnreadNotifications(ctx, in.ID); n != 1 {
			t.Fatalf("intern %s notifications = %d", in.FullName, n)
		}
	}
}

func TestApplyRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)
	task := f.task(t)
	intern := f.interns[0]

	app := f.apply(t, intern, task.ID)
	if _, err := f.svc.ApplyForTask(ctx, intern, task.ID, dto.ApplyRequest{}); !errors.Is(err, apperror.ErrDuplicateApplication) {
		t.Fatalf("duplicate: %v", err)
	}
	if _, err := f.svc.RejectApplication(ctx, f.lead, app.ID); err != nil {
		t.Fatal(err)
	}
	reapplied := f.apply(t, intern, task.ID)
	if _, err := f.svc.ApplyForTask(ctx, f.lead, task.ID, dto.ApplyRequest{}); !errors.Is(err, apperror.ErrAuthorization) {
		t.Fatalf("team lead applying: %v", err)
	}

	if _, err := f.svc.AcceptApplication(ctx, f.lead, reapplied.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.ApplyForTask(ctx, f.interns[1], task.ID, dto.ApplyRequest{}); !errors.Is(err, apperror.ErrInvalidTransition) {
		t.Fatalf("applying to an assigned task: %v", err)
	}

	mine, err := f.svc.MyApplications(ctx, intern)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 || mine[0].Task == nil || mine[0].Task.Title != "Checkout page" {
		t.Fatalf("my applications: %+v", mine)
	}
}

// SubmitWork leaves the task submitted from any prior status, and refuses
// anyone but the assignee.
func TestOnlyNewestSubmissionIsReviewable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	intern := f.interns[0]

	task := f.task(t)
	app := f.apply(t, intern, task.ID)
	if _, err := f.svc.AcceptApplication(ctx, f.lead, app.ID); err != nil {
		t.Fatal(err)
	}
	first, err := f.svc.SubmitWork(ctx, intern, task.ID, submitReq())
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.svc.SubmitWork(ctx, intern, task.ID, submitReq())
	if err != nil {
		t.Fatal(err)
	}

	old, _ := f.store.GetSubmission(ctx, first.ID)
	if old.Status != constants.SubmissionNeedsRevision {
		t.Fatalf("older submission = %s, want needs_revision", old.Status)
	}
	if _, err := f.svc.ReviewSubmission(ctx, f.lead, first.ID, dto.ReviewRequest{IsApproved: boolPtr(true)}); !errors.Is(err, apperror.ErrInvalidTransition) {
		t.Fatalf("reviewing superseded submission: %v", err)
	}
	if _, err := f.svc.ReviewSubmission(ctx, f.lead, second.ID, dto.ReviewRequest{IsApproved: boolPtr(true)}); err != nil {
		t.Fatal(err)
	}

	// a pending submission left on a completed task cannot reopen it
	stale := &model.SubmissionModel{
		ID:          uuid.New(),
		TaskID:      task.ID,
		InternID:    intern.ID,
		Title:       "Late",
		Status:      constants.SubmissionPending,
		SubmittedAt: t0,
	}
	if err := f.store.CreateSubmission(ctx, stale); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.ReviewSubmission(ctx, f.lead, stale.ID, dto.ReviewRequest{IsApproved: boolPtr(false)}); !errors.Is(err, apperror.ErrInvalidTransition) {
		t.Fatalf("review on completed task: %v", err)
	}
	if s := taskStatus(t, f.store, task.ID); s != constants.TaskCompleted {
		t.Fatalf("task = %s, want completed", s)
	}
}

func TestSubmitWorkAlwaysLeavesTaskSubmitted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)
	intern, stranger := f.interns[0], f.interns[1]

	for _, status := range constants.TaskStatuses {
		task := f.task(t)
		task.Status = status
		task.AssignedInternID = &intern.ID
		if err := f.store.SaveTask(ctx, task); err != nil {
			t.Fatal(err)
		}

		if _, err := f.svc.SubmitWork(ctx, stranger, task.ID, submitReq()); !errors.Is(err, apperror.ErrNotAssigned) {
			t.Fatalf("%s: stranger submit: %v", status, err)
		}
		if s := taskStatus(t, f.store, task.ID); s != status {
			t.Fatalf("%s: refused submit changed status to %s", status, s)
		}
		if _, err := f.svc.SubmitWork(ctx, intern, task.ID, submitReq()); err != nil {
			t.Fatalf("%s: %v", status, err)
		}
		if s := taskStatus(t, f.store, task.ID); s != constants.TaskSubmitted {
			t.Fatalf("from %s: task = %s", status, s)
		}
	}
}

// failingTasks fails every task save inside a transaction.
type failingTasks struct{ repository.Store }

func (f failingTasks) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return f.Store.Transaction(ctx, func(tx repository.Store) error { return fn(failingTasks{tx}) })
}

func (failingTasks) SaveTask(context.Context, *model.TaskModel) error {
	return apperror.Remote(errors.New("deadlock detected"), true)
}

func TestMultiStepWritesAreAtomic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)
	task := f.task(t)
	a := f.apply(t, f.interns[0], task.ID)
	b := f.apply(t, f.interns[1], task.ID)

	broken := New(failingTasks{f.store})
	if _, err := broken.AcceptApplication(ctx, f.lead, a.ID); !errors.Is(err, apperror.ErrRemoteStore) || !apperror.IsRetryable(err) {
		t.Fatalf("want retryable remote error, got %v", err)
	}
	for _, id := range []uuid.UUID{a.ID, b.ID} {
		got, _ := f.store.GetApplication(ctx, id)
		if got.Status != constants.ApplicationPending {
			t.Fatalf("application %s = %s after rollback", id, got.Status)
		}
	}
	if s := taskStatus(t, f.store, task.ID); s != constants.TaskOpen {
		t.Fatalf("task = %s after rollback", s)
	}

	if _, err := f.svc.AcceptApplication(ctx, f.lead, a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := broken.SubmitWork(ctx, f.interns[0], task.ID, submitReq()); !errors.Is(err, apperror.ErrRemoteStore) {
		t.Fatalf("want remote error, got %v", err)
	}
	subs, _ := f.store.ListSubmissions(ctx, repository.SubmissionFilter{TaskID: &task.ID})
	if len(subs) != 0 {
		t.Fatalf("submission survived rollback")
	}
}

// Unapproved non-admin actors are refused every mutating task action.
func TestUnapprovedActorsCannotMutate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	task := f.task(t)
	app := f.apply(t, f.interns[0], task.ID)

	pendingLead := f.lead
	pendingLead.IsApproved = false
	pendingIntern := seedProfile(t, f.store, "late", constants.RoleIntern, false)

	calls := map[string]func() error{
		"create task": func() error {
			_, err := f.svc.CreateTask(ctx, pendingLead, dto.CreateTaskRequest{ProjectID: f.project.ID, Title: "Another", Description: "x"})
			return err
		},
		"update task": func() error {
			_, err := f.svc.UpdateTask(ctx, pendingLead, task.ID, dto.UpdateTaskRequest{Title: strPtr("Renamed")})
			return err
		},
		"accept": func() error {
			_, err := f.svc.AcceptApplication(ctx, pendingLead, app.ID)
			return err
		},
		"reject": func() error {
			_, err := f.svc.RejectApplication(ctx, pendingLead, app.ID)
			return err
		},
		"apply": func() error {
			_, err := f.svc.ApplyForTask(ctx, pendingIntern, task.ID, dto.ApplyRequest{})
			return err
		},
		"submit": func() error {
			_, err := f.svc.SubmitWork(ctx, pendingIntern, task.ID, submitReq())
			return err
		},
	}
	for name, call := range calls {
		if err := call(); !errors.Is(err, apperror.ErrAuthorization) {
			t.Errorf("%s: want authorization error, got %v", name, err)
		}
	}
	if s := taskStatus(t, f.store, task.ID); s != constants.TaskOpen {
		t.Fatalf("task changed to %s", s)
	}
}

func TestCreateTaskNeedsWorkingProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)

	f.project.Status = constants.ProjectDraft
	if err := f.store.SaveProject(ctx, f.project); err != nil {
		t.Fatal(err)
	}
	_, err := f.svc.CreateTask(ctx, f.lead, dto.CreateTaskRequest{ProjectID: f.project.ID, Title: "Early", Description: "x"})
	if !errors.Is(err, apperror.ErrInvalidTransition) {
		t.Fatalf("draft project: %v", err)
	}
	_, err = f.svc.CreateTask(ctx, f.client, dto.CreateTaskRequest{ProjectID: f.project.ID, Title: "Early", Description: "x"})
	if !errors.Is(err, apperror.ErrAuthorization) {
		t.Fatalf("client creating task: %v", err)
	}
}

func TestListTasksScopedByRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)
	mineTask := f.task(t)
	f.task(t)
	app := f.apply(t, f.interns[0], mineTask.ID)
	if _, err := f.svc.AcceptApplication(ctx, f.lead, app.ID); err != nil {
		t.Fatal(err)
	}
	otherLead := seedProfile(t, f.store, "lead2", constants.RoleTeamLead, true)

	cases := []struct {
		name  string
		actor helperAuth.Actor
		q     dto.TaskListQuery
		want  int64
	}{
		{"admin", f.admin, dto.TaskListQuery{}, 2},
		{"client", f.client, dto.TaskListQuery{}, 2},
		{"lead", f.lead, dto.TaskListQuery{Status: constants.TaskOpen}, 1},
		{"other lead", otherLead, dto.TaskListQuery{}, 0},
		{"assignee", f.interns[0], dto.TaskListQuery{}, 2},
		{"other intern", f.interns[1], dto.TaskListQuery{}, 1},
		{"by intern", f.admin, dto.TaskListQuery{InternID: &f.interns[0].ID}, 1},
	}
	for _, tc := range cases {
		_, total, err := f.svc.ListTasks(ctx, tc.actor, tc.q, 0, 0)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if total != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, total, tc.want)
		}
	}

	if _, err := f.svc.GetTask(ctx, f.interns[1], mineTask.ID); !errors.Is(err, apperror.ErrAuthorization) {
		t.Fatalf("other intern reading assigned task: %v", err)
	}
}

func TestInternsDoNotSeeOpenTasksOfClosedProjects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)
	mineTask := f.task(t)
	openTask := f.task(t)
	app := f.apply(t, f.interns[0], mineTask.ID)
	if _, err := f.svc.AcceptApplication(ctx, f.lead, app.ID); err != nil {
		t.Fatal(err)
	}

	f.project.Status = constants.ProjectCancelled
	if err := f.store.SaveProject(ctx, f.project); err != nil {
		t.Fatal(err)
	}

	if _, total, err := f.svc.ListTasks(ctx, f.interns[1], dto.TaskListQuery{}, 0, 0); err != nil || total != 0 {
		t.Fatalf("other intern sees %d tasks, %v", total, err)
	}
	rows, total, err := f.svc.ListTasks(ctx, f.interns[0], dto.TaskListQuery{}, 0, 0)
	if err != nil || total != 1 || rows[0].ID != mineTask.ID {
		t.Fatalf("assignee list = %d, %v", total, err)
	}
	if _, err := f.svc.GetTask(ctx, f.interns[1], openTask.ID); !errors.Is(err, apperror.ErrAuthorization) {
		t.Fatalf("open task of cancelled project: %v", err)
	}
	if _, err := f.svc.GetTask(ctx, f.interns[0], mineTask.ID); err != nil {
		t.Fatalf("assignee reading own task: %v", err)
	}
}
