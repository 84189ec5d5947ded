package users

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	authService "internhub_backend/internals/features/users/auth/service"
	"internhub_backend/internals/repository"
)

func TestSeedUsersFromJSONIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := authService.New(store, authService.Config{Secret: "seed", TTL: time.Hour}).WithHashCost(bcrypt.MinCost)

	n, err := SeedUsersFromJSON(ctx, svc, store, "data_users.json")
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Fatalf("created %d, want 4", n)
	}

	ident, err := store.GetIdentityByEmail(ctx, "client@internhub.dev")
	if err != nil {
		t.Fatal(err)
	}
	p, err := store.GetProfile(ctx, ident.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !p.IsApproved || p.Company == nil || *p.Company != "Acme Studio" {
		t.Fatalf("unexpected client profile %+v", p)
	}

	pending, _ := store.GetIdentityByEmail(ctx, "pending@internhub.dev")
	if pp, _ := store.GetProfile(ctx, pending.ID); pp.IsApproved {
		t.Fatalf("pending intern must stay unapproved")
	}

	again, err := SeedUsersFromJSON(ctx, svc, store, "data_users.json")
	if err != nil || again != 0 {
		t.Fatalf("second run created %d, %v", again, err)
	}
}
