package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/google/uuid"

	"internhub_backend/internals/constants"
	authModel "internhub_backend/internals/features/users/auth/model"
	"internhub_backend/internals/features/users/user_profiles/dto"
	"internhub_backend/internals/features/users/user_profiles/model"
	"internhub_backend/internals/helpers/apperror"
	helperAuth "internhub_backend/internals/helpers/auth"
	helperOSS "internhub_backend/internals/helpers/oss"
	"internhub_backend/internals/repository"
)

var t0 = time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, s repository.Store, name string, role constants.Role, approved bool) helperAuth.Actor {
	t.Helper()
	ctx := context.Background()
	id := uuid.New()
	if err := s.CreateIdentity(ctx, &authModel.IdentityModel{ID: id, Email: name + "@hub.test", PasswordHash: "x", CreatedAt: t0}); err != nil {
		t.Fatal(err)
	}
	p := &model.ProfileModel{ID: id, Email: name + "@hub.test", FullName: name, Role: role, IsApproved: approved, CreatedAt: t0}
	if err := s.CreateProfile(ctx, p); err != nil {
		t.Fatal(err)
	}
	return helperAuth.ActorFromProfile(p)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		img.Set(x, x, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func strPtr(s string) *string { return &s }

func TestUpdateProfileKeepsRoleAndApproval(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := New(store, nil).WithClock(func() time.Time { return t0 })

	ana := seedUser(t, store, "ana", constants.RoleIntern, false)
	other := seedUser(t, store, "budi", constants.RoleIntern, true)

	skills := []string{"go", "sql", "go"}
	p, err := svc.UpdateProfile(ctx, ana, ana.ID, dto.UpdateProfileRequest{
		FullName: strPtr("Ana Putri"),
		Bio:      strPtr("backend"),
		Skills:   &skills,
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.Role != constants.RoleIntern || p.IsApproved {
		t.Fatalf("role/approval changed: %+v", p)
	}
	if p.FullName != "Ana Putri" || len(p.Skills) != 2 {
		t.Fatalf("update not applied: %+v", p)
	}

	if _, err := svc.UpdateProfile(ctx, ana, other.ID, dto.UpdateProfileRequest{Bio: strPtr("x")}); !errors.Is(err, apperror.ErrAuthorization) {
		t.Fatalf("editing another profile: %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, ana, ana.ID, dto.UpdateProfileRequest{FullName: strPtr("A")}); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("short name: %v", err)
	}
}

func TestApproveAndRejectNotify(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	var hooks int
	svc := New(store, nil).WithClock(func() time.Time { return t0 }).OnUpdated(func(*model.ProfileModel) { hooks++ })

	admin := seedUser(t, store, "root", constants.RoleAdmin, true)
	admin2 := seedUser(t, store, "root2", constants.RoleAdmin, true)
	lead := seedUser(t, store, "lead", constants.RoleTeamLead, false)

	p, err := svc.Approve(ctx, admin, lead.ID)
	if err != nil || !p.IsApproved {
		t.Fatalf("approve: %v %+v", err, p)
	}
	if _, err := svc.Approve(ctx, helperAuth.ActorFromProfile(p), lead.ID); !errors.Is(err, apperror.ErrAuthorization) {
		t.Fatalf("team lead approving: %v", err)
	}
	p, err = svc.Reject(ctx, admin, lead.ID)
	if err != nil || p.IsApproved {
		t.Fatalf("reject: %v %+v", err, p)
	}
	if n, _ := store.CountUnreadNotifications(ctx, lead.ID); n != 2 {
		t.Fatalf("notifications = %d, want 2", n)
	}
	if hooks != 2 {
		t.Fatalf("update hook fired %d times", hooks)
	}

	if _, err := svc.Reject(ctx, admin, admin2.ID); !errors.Is(err, apperror.ErrAuthorization) {
		t.Fatalf("rejecting an admin: %v", err)
	}
	got, _ := store.GetProfile(ctx, admin2.ID)
	if !got.Approved() {
		t.Fatalf("admin must stay approved")
	}
}

func TestListUsersFilters(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := New(store, nil)

	admin := seedUser(t, store, "root", constants.RoleAdmin, true)
	seedUser(t, store, "ina", constants.RoleIntern, false)
	seedUser(t, store, "ika", constants.RoleIntern, true)
	client := seedUser(t, store, "cahya", constants.RoleClient, true)

	rows, total, err := svc.ListUsers(ctx, admin, dto.UserListQuery{Role: "intern", Status: "pending"}, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || rows[0].FullName != "ina" {
		t.Fatalf("pending interns = %+v", rows)
	}
	if _, _, err := svc.ListUsers(ctx, admin, dto.UserListQuery{Role: "wizard"}, 0, 0); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("bad role filter: %v", err)
	}
	if _, _, err := svc.ListUsers(ctx, client, dto.UserListQuery{}, 0, 0); !errors.Is(err, apperror.ErrAuthorization) {
		t.Fatalf("client listing users: %v", err)
	}
}

func TestDeleteRemovesIdentityAndAvatar(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	blobs := helperOSS.NewMemoryBlobService("")
	svc := New(store, blobs)

	admin := seedUser(t, store, "root", constants.RoleAdmin, true)
	intern := seedUser(t, store, "ina", constants.RoleIntern, true)

	p, err := svc.UploadAvatar(ctx, intern, "me.png", pngBytes(t))
	if err != nil {
		t.Fatal(err)
	}
	avatar := *p.AvatarURL

	if err := svc.Delete(ctx, admin, admin.ID); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("self delete: %v", err)
	}
	if err := svc.Delete(ctx, intern, admin.ID); !errors.Is(err, apperror.ErrAuthorization) {
		t.Fatalf("intern deleting: %v", err)
	}
	if err := svc.Delete(ctx, admin, intern.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetIdentity(ctx, intern.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("identity must be gone: %v", err)
	}
	if _, ok := blobs.Object(avatar); ok {
		t.Fatalf("avatar blob must be deleted")
	}
}

func TestUploadAvatarReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	blobs := helperOSS.NewMemoryBlobService("")
	svc := New(store, blobs)

	ina := seedUser(t, store, "ina", constants.RoleIntern, false)

	first, err := svc.UploadAvatar(ctx, ina, "a.png", pngBytes(t))
	if err != nil {
		t.Fatal(err)
	}
	oldURL := *first.AvatarURL
	second, err := svc.UploadAvatar(ctx, ina, "b.png", pngBytes(t))
	if err != nil {
		t.Fatal(err)
	}
	if *second.AvatarURL == oldURL {
		t.Fatalf("avatar url not replaced")
	}
	if _, ok := blobs.Object(oldURL); ok {
		t.Fatalf("previous avatar still stored")
	}
	if _, ok := blobs.Object(*second.AvatarURL); !ok {
		t.Fatalf("new avatar missing")
	}

	if _, err := New(store, nil).UploadAvatar(ctx, ina, "c.png", pngBytes(t)); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("unconfigured blobs: %v", err)
	}
}
