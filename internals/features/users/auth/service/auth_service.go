package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"internhub_backend/internals/constants"
	notifModel "internhub_backend/internals/features/home/notifications/model"
	notifService "internhub_backend/internals/features/home/notifications/service"
	"internhub_backend/internals/features/users/auth/dto"
	authModel "internhub_backend/internals/features/users/auth/model"
	profileModel "internhub_backend/internals/features/users/user_profiles/model"
	helper "internhub_backend/internals/helpers"
	"internhub_backend/internals/helpers/apperror"
	helperAuth "internhub_backend/internals/helpers/auth"
	"internhub_backend/internals/repository"
)

/* ==========================
   Events
========================== */

type AuthEvent string

const (
	EventSignedIn    AuthEvent = "SIGNED_IN"
	EventSignedOut   AuthEvent = "SIGNED_OUT"
	EventUserUpdated AuthEvent = "USER_UPDATED"
)

// Listener receives auth state changes. The profile is nil only when it could
// not be loaded (sign-out of a deleted user).
type Listener func(event AuthEvent, profile *profileModel.ProfileModel)

/* ==========================
   Service
========================== */

type Config struct {
	Secret           string
	TTL              time.Duration
	AutoApproveRoles []constants.Role
}

type Service struct {
	store    repository.Store
	cfg      Config
	now      func() time.Time
	hashCost int

	mu        sync.RWMutex
	listeners map[int]Listener
	nextID    int
}

func New(store repository.Store, cfg Config) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &Service{
		store:     store,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
		hashCost:  bcrypt.DefaultCost,
		listeners: map[int]Listener{},
	}
}

// WithClock and WithHashCost exist for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) WithHashCost(cost int) *Service {
	s.hashCost = cost
	return s
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func (s *Service) autoApproved(role constants.Role) bool {
	return role == constants.RoleAdmin || role.In(s.cfg.AutoApproveRoles...)
}

// OnAuthStateChange registers l and returns a func that removes it.
func (s *Service) OnAuthStateChange(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Emit delivers an event to every listener synchronously.
func (s *Service) Emit(event AuthEvent, p *profileModel.ProfileModel) {
	s.mu.RLock()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.mu.RUnlock()
	for _, l := range ls {
		l(event, p)
	}
}

// AuditLog returns a listener that writes one [AUTH] line per event.
func AuditLog(logger *log.Logger) Listener {
	return func(event AuthEvent, p *profileModel.ProfileModel) {
		if p == nil {
			logger.Printf("[AUTH] %s user=<deleted>", event)
			return
		}
		logger.Printf("[AUTH] %s user=%s email=%s role=%s", event, p.ID, p.Email, p.Role)
	}
}

func (s *Service) issue(p *profileModel.ProfileModel) (*dto.Session, error) {
	token, exp, err := helperAuth.IssueAccessToken(s.cfg.Secret, p.ID, p.Email, p.Role, s.now(), s.cfg.TTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &dto.Session{AccessToken: token, TokenType: "Bearer", ExpiresAt: exp, User: p}, nil
}

/* ==========================
   SIGN UP
========================== */

// SignUp validates everything before touching the store, then creates the
// identity and its profile in one transaction.
func (s *Service) SignUp(ctx context.Context, in dto.SignUpRequest) (*dto.Session, error) {
	in.Email = normalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	role, ok := constants.ParseRole(in.Role)
	if !ok || !role.In(constants.SignUpRoles...) {
		return nil, apperror.ValidationField("role", "must be one of client intern team_lead")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	id := uuid.New()
	identity := &authModel.IdentityModel{ID: id, Email: in.Email, PasswordHash: string(hash), LastSignInAt: &now, CreatedAt: now}
	profile := &profileModel.ProfileModel{
		ID:         id,
		Email:      in.Email,
		FullName:   in.FullName,
		Phone:      in.Phone,
		Role:       role,
		Company:    in.Company,
		Skills:     []string{},
		IsApproved: s.autoApproved(role),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.CreateIdentity(ctx, identity); err != nil {
			return err
		}
		if err := tx.CreateProfile(ctx, profile); err != nil {
			return err
		}
		if profile.IsApproved {
			return nil
		}
		return notifService.PushToAdmins(ctx, tx, now, notifModel.TypeInfo,
			"New user pending approval",
			fmt.Sprintf("%s registered as %s", profile.FullName, profile.Role),
			map[string]any{"user_id": profile.ID.String(), "role": string(profile.Role)})
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] sign-up %s role=%s approved=%v", profile.Email, profile.Role, profile.IsApproved)

	session, err := s.issue(profile)
	if err != nil {
		return nil, err
	}
	s.Emit(EventSignedIn, profile)
	return session, nil
}

/* ==========================
   SIGN IN
========================== */

func (s *Service) authenticate(ctx context.Context, in dto.SignInRequest) (*profileModel.ProfileModel, error) {
	in.Email = normalizeEmail(in.Email)
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}
	identity, err := s.store.GetIdentityByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.New(apperror.KindInvalidCredentials, "invalid email or password")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(in.Password)) != nil {
		return nil, apperror.New(apperror.KindInvalidCredentials, "invalid email or password")
	}
	profile, err := s.store.GetProfile(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.New(apperror.KindProfileMissing, "no profile for this account")
		}
		return nil, err
	}
	return profile, nil
}

func (s *Service) SignIn(ctx context.Context, in dto.SignInRequest) (*dto.Session, error) {
	profile, err := s.authenticate(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, profile)
}

// AdminSignIn refuses any account that is not an admin.
func (s *Service) AdminSignIn(ctx context.Context, in dto.SignInRequest) (*dto.Session, error) {
	profile, err := s.authenticate(ctx, in)
	if err != nil {
		return nil, err
	}
	if profile.Role != constants.RoleAdmin {
		return nil, apperror.Forbidden("admin access required")
	}
	return s.startSession(ctx, profile)
}

func (s *Service) startSession(ctx context.Context, profile *profileModel.ProfileModel) (*dto.Session, error) {
	if err := s.store.TouchIdentitySignIn(ctx, profile.ID, s.now()); err != nil {
		return nil, err
	}
	session, err := s.issue(profile)
	if err != nil {
		return nil, err
	}
	s.Emit(EventSignedIn, profile)
	return session, nil
}

/* ==========================
   SESSION
========================== */

type CurrentUser struct {
	Identity *authModel.IdentityModel
	Profile  *profileModel.ProfileModel
}

func notAuthenticated(msg string) error {
	return apperror.New(apperror.KindNotAuthenticated, "%s", msg)
}

func (s *Service) claims(ctx context.Context, raw string) (*helperAuth.SessionClaims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, notAuthenticated("no active session")
	}
	claims, err := helperAuth.ParseAccessToken(s.cfg.Secret, raw, s.now())
	if err != nil {
		return nil, notAuthenticated("invalid or expired session")
	}
	revoked, err := s.store.IsTokenBlacklisted(ctx, helperAuth.HashToken(raw, s.cfg.Secret), s.now())
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, notAuthenticated("session has been signed out")
	}
	return claims, nil
}

// GetCurrentUser resolves a raw access token to its identity and profile.
func (s *Service) GetCurrentUser(ctx context.Context, raw string) (*CurrentUser, error) {
	claims, err := s.claims(ctx, raw)
	if err != nil {
		return nil, err
	}
	identity, err := s.store.GetIdentity(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, notAuthenticated("account no longer exists")
		}
		return nil, err
	}
	profile, err := s.store.GetProfile(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.New(apperror.KindProfileMissing, "no profile for this account")
		}
		return nil, err
	}
	return &CurrentUser{Identity: identity, Profile: profile}, nil
}

// ResolveSession is what the auth middleware calls on every request.
func (s *Service) ResolveSession(ctx context.Context, raw string) (helperAuth.Actor, error) {
	cu, err := s.GetCurrentUser(ctx, raw)
	if err != nil {
		return helperAuth.Actor{}, err
	}
	return helperAuth.ActorFromProfile(cu.Profile), nil
}

// SignOut revokes the token until its natural expiry.
func (s *Service) SignOut(ctx context.Context, raw string) error {
	claims, err := s.claims(ctx, raw)
	if err != nil {
		return err
	}
	if err := s.store.BlacklistToken(ctx, helperAuth.HashToken(strings.TrimSpace(raw), s.cfg.Secret), claims.ExpiresAt); err != nil {
		return err
	}
	profile, err := s.store.GetProfile(ctx, claims.UserID)
	if err != nil {
		profile = nil
	}
	s.Emit(EventSignedOut, profile)
	return nil
}

/* ==========================
   BOOTSTRAP ADMIN
========================== */

// EnsureBootstrapAdmin creates an approved admin when the email is unknown.
// It reports whether an account was created.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context, email, password, fullName string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}
	if len(password) < 6 {
		return false, apperror.ValidationField("password", "must be at least 6")
	}
	if _, err := s.store.GetIdentityByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return false, err
	}
	if strings.TrimSpace(fullName) == "" {
		fullName = "Administrator"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	now := s.now()
	id := uuid.New()
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.CreateIdentity(ctx, &authModel.IdentityModel{ID: id, Email: email, PasswordHash: string(hash), CreatedAt: now}); err != nil {
			return err
		}
		return tx.CreateProfile(ctx, &profileModel.ProfileModel{
			ID:         id,
			Email:      email,
			FullName:   strings.TrimSpace(fullName),
			Role:       constants.RoleAdmin,
			Skills:     []string{},
			IsApproved: true,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
