package users

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/bytedance/sonic"

	"internhub_backend/internals/features/users/auth/dto"
	authService "internhub_backend/internals/features/users/auth/service"
	"internhub_backend/internals/helpers/apperror"
	"internhub_backend/internals/repository"
)

type UserSeed struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Approved bool   `json:"approved"`
	Company  string `json:"company"`
}

// SeedUsersFromJSON registers every user in the file that does not exist yet.
// Returns the number of users created.
func SeedUsersFromJSON(ctx context.Context, svc *authService.Service, store repository.Store, filePath string) (int, error) {
	log.Println("📥 Reading seed file:", filePath)

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return 0, err
	}
	var seeds []UserSeed
	if err := sonic.Unmarshal(raw, &seeds); err != nil {
		return 0, err
	}
	return SeedUsers(ctx, svc, store, seeds)
}

func SeedUsers(ctx context.Context, svc *authService.Service, store repository.Store, seeds []UserSeed) (int, error) {
	created := 0
	for _, s := range seeds {
		_, err := store.GetIdentityByEmail(ctx, s.Email)
		if err == nil {
			log.Printf("ℹ️ user %s already exists, skipped", s.Email)
			continue
		}
		if !errors.Is(err, apperror.ErrNotFound) {
			return created, err
		}

		sess, err := svc.SignUp(ctx, dto.SignUpRequest{
			Email:           s.Email,
			Password:        s.Password,
			ConfirmPassword: s.Password,
			FullName:        s.FullName,
			Role:            s.Role,
		})
		if err != nil {
			return created, err
		}

		if s.Approved || s.Company != "" {
			p, err := store.GetProfile(ctx, sess.User.ID)
			if err != nil {
				return created, err
			}
			p.IsApproved = p.IsApproved || s.Approved
			if s.Company != "" {
				company := s.Company
				p.Company = &company
			}
			if err := store.SaveProfile(ctx, p); err != nil {
				return created, err
			}
		}
		created++
	}
	log.Printf("✅ Seeded %d users", created)
	return created, nil
}
