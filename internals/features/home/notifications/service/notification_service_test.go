package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"internhub_backend/internals/constants"
	"internhub_backend/internals/features/home/notifications/dto"
	profileModel "internhub_backend/internals/features/users/user_profiles/model"
	"internhub_backend/internals/helpers/apperror"
	helperAuth "internhub_backend/internals/helpers/auth"
	"internhub_backend/internals/repository"
)

func seedProfile(t *testing.T, s repository.Store, name string, role constants.Role, approved bool, at time.Time) helperAuth.Actor {
	t.Helper()
	p := &profileModel.ProfileModel{
		ID:         uuid.New(),
		Email:      name + "@hub.test",
		FullName:   name,
		Role:       role,
		IsApproved: approved,
		CreatedAt:  at,
	}
	if err := s.CreateProfile(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	return helperAuth.ActorFromProfile(p)
}

func TestMessagesThreadOldestFirstWithSummaries(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := base
	svc := New(store).WithClock(func() time.Time { clock = clock.Add(time.Minute); return clock })

	ana := seedProfile(t, store, "ana", constants.RoleIntern, true, base)
	budi := seedProfile(t, store, "budi", constants.RoleTeamLead, true, base)
	cici := seedProfile(t, store, "cici", constants.RoleClient, true, base)

	send := func(from helperAuth.Actor, to uuid.UUID, text string) {
		t.Helper()
		if _, err := svc.SendMessage(ctx, from, dto.SendMessageRequest{RecipientID: to, Content: text}); err != nil {
			t.Fatal(err)
		}
	}
	send(ana, budi.ID, "hi")
	send(cici, ana.ID, "welcome")
	send(budi, ana.ID, "hello")

	all, err := svc.GetMessages(ctx, ana, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d messages, want 3", len(all))
	}

	pair, err := svc.GetMessages(ctx, ana, &budi.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(pair) != 2 || pair[0].Content != "hi" || pair[1].Content != "hello" {
		t.Fatalf("unexpected thread %+v", pair)
	}
	if pair[0].Sender == nil || pair[0].Sender.FullName != "ana" || pair[0].Recipient.FullName != "budi" {
		t.Fatalf("summaries not joined: %+v", pair[0])
	}
	if !pair[0].CreatedAt.Before(pair[1].CreatedAt) {
		t.Fatalf("thread not oldest first")
	}
}

func TestSendMessageRules(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	now := time.Now().UTC()
	svc := New(store)

	pending := seedProfile(t, store, "pending", constants.RoleIntern, false, now)
	lead := seedProfile(t, store, "lead", constants.RoleTeamLead, true, now)

	_, err := svc.SendMessage(ctx, pending, dto.SendMessageRequest{RecipientID: lead.ID, Content: "x"})
	if !errors.Is(err, apperror.ErrAuthorization) {
		t.Fatalf("unapproved sender: want authorization error, got %v", err)
	}
	_, err = svc.SendMessage(ctx, lead, dto.SendMessageRequest{RecipientID: uuid.New(), Content: "x"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("unknown recipient: want not found, got %v", err)
	}
	_, err = svc.SendMessage(ctx, lead, dto.SendMessageRequest{RecipientID: pending.ID, Content: ""})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("empty content: want validation error, got %v", err)
	}
}

func TestMarkMessageReadRecipientOnly(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	now := time.Now().UTC()
	svc := New(store)

	a := seedProfile(t, store, "a", constants.RoleClient, true, now)
	b := seedProfile(t, store, "b", constants.RoleTeamLead, true, now)
	msg, err := svc.SendMessage(ctx, a, dto.SendMessageRequest{RecipientID: b.ID, Content: "ping"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.MarkMessageRead(ctx, a, msg.ID); !errors.Is(err, apperror.ErrAuthorization) {
		t.Fatalf("sender must not mark read, got %v", err)
	}
	got, err := svc.MarkMessageRead(ctx, b, msg.ID)
	if err != nil || !got.IsRead {
		t.Fatalf("recipient mark read: %v %+v", err, got)
	}
}

func TestNotificationsReadFlow(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := New(store).WithClock(func() time.Time { return now })

	admin := seedProfile(t, store, "root", constants.RoleAdmin, true, now)
	// pending users can still read their inbox
	user := seedProfile(t, store, "new", constants.RoleIntern, false, now)

	for i := 0; i < 3; i++ {
		if err := Push(ctx, store, now.Add(time.Duration(i)*time.Second), user.ID, "", "t", "m", nil); err != nil {
			t.Fatal(err)
		}
	}
	created, err := svc.Create(ctx, admin, dto.CreateNotificationRequest{UserID: user.ID, Title: "hello", Message: "from admin", Type: "success"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, user, dto.CreateNotificationRequest{UserID: admin.ID, Title: "x", Message: "y"}); !errors.Is(err, apperror.ErrAuthorization) {
		t.Fatalf("non-admin create: want authorization error, got %v", err)
	}

	if n, _ := svc.UnreadCount(ctx, user); n != 4 {
		t.Fatalf("unread = %d, want 4", n)
	}
	if _, err := svc.MarkRead(ctx, admin, created.ID); err != nil {
		t.Fatalf("admin may mark any notification: %v", err)
	}
	if _, err := svc.MarkRead(ctx, user, created.ID); err != nil {
		t.Fatal(err)
	}
	if n, _ := svc.UnreadCount(ctx, user); n != 3 {
		t.Fatalf("unread = %d, want 3", n)
	}
	if n, err := svc.MarkAllRead(ctx, user); err != nil || n != 3 {
		t.Fatalf("mark all = %d, %v", n, err)
	}
	rows, total, err := svc.List(ctx, user, true, 0, 0)
	if err != nil || total != 0 || len(rows) != 0 {
		t.Fatalf("unread list = %d/%d, %v", len(rows), total, err)
	}
}

func TestPushToAdmins(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	now := time.Now().UTC()
	a1 := seedProfile(t, store, "a1", constants.RoleAdmin, true, now)
	a2 := seedProfile(t, store, "a2", constants.RoleAdmin, true, now)
	other := seedProfile(t, store, "c", constants.RoleClient, true, now)

	if err := PushToAdmins(ctx, store, now, "warning", "New user", "pending", map[string]any{"user_id": other.ID.String()}); err != nil {
		t.Fatal(err)
	}
	for _, id := range []uuid.UUID{a1.ID, a2.ID} {
		if n, _ := store.CountUnreadNotifications(ctx, id); n != 1 {
			t.Fatalf("admin %s got %d notifications", id, n)
		}
	}
	if n, _ := store.CountUnreadNotifications(ctx, other.ID); n != 0 {
		t.Fatalf("client must not be notified")
	}
}
