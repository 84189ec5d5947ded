package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"internhub_backend/internals/constants"
	"internhub_backend/internals/features/users/auth/dto"
	authModel "internhub_backend/internals/features/users/auth/model"
	profileModel "internhub_backend/internals/features/users/user_profiles/model"
	"internhub_backend/internals/helpers/apperror"
	"internhub_backend/internals/repository"
)

// countingStore counts every store call that reaches it.
type countingStore struct {
	repository.Store
	calls atomic.Int32
}

func (c *countingStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	c.calls.Add(1)
	return c.Store.Transaction(ctx, fn)
}

func (c *countingStore) CreateIdentity(ctx context.Context, m *authModel.IdentityModel) error {
	c.calls.Add(1)
	return c.Store.CreateIdentity(ctx, m)
}

func (c *countingStore) GetIdentityByEmail(ctx context.Context, email string) (*authModel.IdentityModel, error) {
	c.calls.Add(1)
	return c.Store.GetIdentityByEmail(ctx, email)
}

// brokenProfiles fails every profile insert.
type brokenProfiles struct{ repository.Store }

func (b brokenProfiles) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return b.Store.Transaction(ctx, func(tx repository.Store) error { return fn(brokenProfiles{tx}) })
}

func (brokenProfiles) CreateProfile(context.Context, *profileModel.ProfileModel) error {
	return apperror.Remote(errors.New("connection reset"), true)
}

var t0 = time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

func newService(store repository.Store, autoApprove ...constants.Role) *Service {
	return New(store, Config{Secret: "test-secret", TTL: time.Hour, AutoApproveRoles: autoApprove}).
		WithClock(func() time.Time { return t0 }).
		WithHashCost(bcrypt.MinCost)
}

func signUpReq(email, password string, role constants.Role) dto.SignUpRequest {
	return dto.SignUpRequest{
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
		FullName:        "Test User",
		Role:            string(role),
	}
}

func TestSignUpShortPasswordNeverReachesStore(t *testing.T) {
	store := &countingStore{Store: repository.NewMemoryStore()}
	svc := newService(store)

	_, err := svc.SignUp(context.Background(), signUpReq("a@hub.test", "12345", constants.RoleIntern))
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if n := store.calls.Load(); n != 0 {
		t.Fatalf("store called %d times", n)
	}
	if _, err := store.GetIdentityByEmail(context.Background(), "a@hub.test"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("identity must not exist, got %v", err)
	}
}

func TestSignUpValidation(t *testing.T) {
	svc := newService(repository.NewMemoryStore())
	ctx := context.Background()

	mismatch := signUpReq("a@hub.test", "secret1", constants.RoleClient)
	mismatch.ConfirmPassword = "secret2"
	cases := map[string]dto.SignUpRequest{
		"confirmation mismatch": mismatch,
		"bad email":             signUpReq("not-an-email", "secret1", constants.RoleClient),
		"admin is not public":   signUpReq("b@hub.test", "secret1", constants.RoleAdmin),
	}
	for name, req := range cases {
		if _, err := svc.SignUp(ctx, req); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("%s: want validation error, got %v", name, err)
		}
	}
}

func TestSignUpCreatesUnapprovedProfileAndNotifiesAdmins(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := newService(store)

	if _, err := svc.EnsureBootstrapAdmin(ctx, "root@hub.test", "rootpass", ""); err != nil {
		t.Fatal(err)
	}
	sess, err := svc.SignUp(ctx, signUpReq("Intern@Hub.test", "secret1", constants.RoleIntern))
	if err != nil {
		t.Fatal(err)
	}
	if sess.User.IsApproved || sess.User.Email != "intern@hub.test" || sess.AccessToken == "" {
		t.Fatalf("unexpected session %+v", sess.User)
	}

	admin, _ := store.GetIdentityByEmail(ctx, "root@hub.test")
	if n, _ := store.CountUnreadNotifications(ctx, admin.ID); n != 1 {
		t.Fatalf("admin notifications = %d, want 1", n)
	}

	_, err = svc.SignUp(ctx, signUpReq("intern@hub.test", "secret1", constants.RoleIntern))
	if !errors.Is(err, apperror.ErrDuplicateIdentity) {
		t.Fatalf("want duplicate identity, got %v", err)
	}
}

func TestSignUpAutoApproveRoles(t *testing.T) {
	svc := newService(repository.NewMemoryStore(), constants.RoleClient)
	sess, err := svc.SignUp(context.Background(), signUpReq("c@hub.test", "secret1", constants.RoleClient))
	if err != nil {
		t.Fatal(err)
	}
	if !sess.User.IsApproved {
		t.Fatalf("client should be auto-approved")
	}
}

func TestSignUpIsAtomic(t *testing.T) {
	ctx := context.Background()
	mem := repository.NewMemoryStore()
	svc := newService(brokenProfiles{mem})

	_, err := svc.SignUp(ctx, signUpReq("x@hub.test", "secret1", constants.RoleIntern))
	if !errors.Is(err, apperror.ErrRemoteStore) || !apperror.IsRetryable(err) {
		t.Fatalf("want retryable remote store error, got %v", err)
	}
	if _, err := mem.GetIdentityByEmail(ctx, "x@hub.test"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("identity must be rolled back, got %v", err)
	}
}

func TestSignInAndSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := newService(store)

	var events []AuthEvent
	unsubscribe := svc.OnAuthStateChange(func(e AuthEvent, _ *profileModel.ProfileModel) { events = append(events, e) })

	if _, err := svc.SignUp(ctx, signUpReq("lead@hub.test", "secret1", constants.RoleTeamLead)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SignIn(ctx, dto.SignInRequest{Email: "lead@hub.test", Password: "wrong!"}); !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, err := svc.SignIn(ctx, dto.SignInRequest{Email: "ghost@hub.test", Password: "secret1"}); !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("unknown email: %v", err)
	}

	sess, err := svc.SignIn(ctx, dto.SignInRequest{Email: "LEAD@hub.test", Password: "secret1"})
	if err != nil {
		t.Fatal(err)
	}
	cu, err := svc.GetCurrentUser(ctx, sess.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if cu.Profile.Role != constants.RoleTeamLead || cu.Identity.LastSignInAt == nil {
		t.Fatalf("unexpected current user %+v", cu)
	}

	if err := svc.SignOut(ctx, sess.AccessToken); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetCurrentUser(ctx, sess.AccessToken); !errors.Is(err, apperror.ErrNotAuthenticated) {
		t.Fatalf("revoked session: %v", err)
	}
	if _, err := svc.GetCurrentUser(ctx, ""); !errors.Is(err, apperror.ErrNotAuthenticated) {
		t.Fatalf("no session: %v", err)
	}

	unsubscribe()
	if _, err := svc.SignIn(ctx, dto.SignInRequest{Email: "lead@hub.test", Password: "secret1"}); err != nil {
		t.Fatal(err)
	}
	want := []AuthEvent{EventSignedIn, EventSignedIn, EventSignedOut}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestGetCurrentUserProfileMissing(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := newService(store)

	sess, err := svc.SignUp(ctx, signUpReq("orphan@hub.test", "secret1", constants.RoleIntern))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteProfile(ctx, sess.User.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetCurrentUser(ctx, sess.AccessToken); !errors.Is(err, apperror.ErrProfileMissing) {
		t.Fatalf("want profile missing, got %v", err)
	}
}

func TestAdminSignIn(t *testing.T) {
	ctx := context.Background()
	svc := newService(repository.NewMemoryStore())

	created, err := svc.EnsureBootstrapAdmin(ctx, "root@hub.test", "rootpass", "Root")
	if err != nil || !created {
		t.Fatalf("bootstrap: %v %v", created, err)
	}
	again, err := svc.EnsureBootstrapAdmin(ctx, "root@hub.test", "rootpass", "Root")
	if err != nil || again {
		t.Fatalf("bootstrap must be idempotent: %v %v", again, err)
	}

	if _, err := svc.SignUp(ctx, signUpReq("client@hub.test", "secret1", constants.RoleClient)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AdminSignIn(ctx, dto.SignInRequest{Email: "client@hub.test", Password: "secret1"}); !errors.Is(err, apperror.ErrAuthorization) {
		t.Fatalf("client on admin login: %v", err)
	}
	sess, err := svc.AdminSignIn(ctx, dto.SignInRequest{Email: "root@hub.test", Password: "rootpass"})
	if err != nil {
		t.Fatal(err)
	}
	if !sess.User.Approved() {
		t.Fatalf("admin must be approved")
	}
}

func TestAuditLogRecordsSessionEvents(t *testing.T) {
	ctx := context.Background()
	svc := newService(repository.NewMemoryStore())
	var buf bytes.Buffer
	svc.OnAuthStateChange(AuditLog(log.New(&buf, "", 0)))

	sess, err := svc.SignUp(ctx, signUpReq("audit@hub.test", "secret1", constants.RoleIntern))
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.SignOut(ctx, sess.AccessToken); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("audit lines = %q", lines)
	}
	if !strings.HasPrefix(lines[0], "[AUTH] SIGNED_IN") || !strings.Contains(lines[0], "email=audit@hub.test") {
		t.Fatalf("sign-in line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "[AUTH] SIGNED_OUT") {
		t.Fatalf("sign-out line = %q", lines[1])
	}
}
