package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
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

type memState struct {
	identities    map[uuid.UUID]authModel.IdentityModel
	profiles      map[uuid.UUID]profileModel.ProfileModel
	projects      map[uuid.UUID]projectModel.ProjectModel
	tasks         map[uuid.UUID]taskModel.TaskModel
	applications  map[uuid.UUID]taskModel.ApplicationModel
	submissions   map[uuid.UUID]taskModel.SubmissionModel
	reviews       map[uuid.UUID]taskModel.ReviewModel
	notifications map[uuid.UUID]notifModel.NotificationModel
	messages      map[uuid.UUID]notifModel.MessageModel
	blacklist     map[string]time.Time
}

func newMemState() *memState {
	return &memState{
		identities:    map[uuid.UUID]authModel.IdentityModel{},
		profiles:      map[uuid.UUID]profileModel.ProfileModel{},
		projects:      map[uuid.UUID]projectModel.ProjectModel{},
		tasks:         map[uuid.UUID]taskModel.TaskModel{},
		applications:  map[uuid.UUID]taskModel.ApplicationModel{},
		submissions:   map[uuid.UUID]taskModel.SubmissionModel{},
		reviews:       map[uuid.UUID]taskModel.ReviewModel{},
		notifications: map[uuid.UUID]notifModel.NotificationModel{},
		messages:      map[uuid.UUID]notifModel.MessageModel{},
		blacklist:     map[string]time.Time{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copies the maps; row values are replaced wholesale on write, never
// mutated in place, so sharing slice fields between snapshots is safe.
func (s *memState) clone() memState {
	return memState{
		identities:    cloneMap(s.identities),
		profiles:      cloneMap(s.profiles),
		projects:      cloneMap(s.projects),
		tasks:         cloneMap(s.tasks),
		applications:  cloneMap(s.applications),
		submissions:   cloneMap(s.submissions),
		reviews:       cloneMap(s.reviews),
		notifications: cloneMap(s.notifications),
		messages:      cloneMap(s.messages),
		blacklist:     cloneMap(s.blacklist),
	}
}

// MemoryStore is a Store held in process memory. A single mutex serialises
// access; a transaction holds it for its whole duration and restores the
// snapshot taken at its start when fn fails.
type MemoryStore struct {
	mu    *sync.Mutex
	state *memState
	inTx  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mu: &sync.Mutex{}, state: newMemState()}
}

func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return apperror.FromDB(err, "")
	}
	return nil
}

func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	tx := &MemoryStore{mu: s.mu, state: s.state, inTx: true}
	if err := fn(tx); err != nil {
		*s.state = snapshot
		return err
	}
	return nil
}

/* ===================== identities ===================== */

func (s *MemoryStore) CreateIdentity(ctx context.Context, m *authModel.IdentityModel) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	for _, existing := range s.state.identities {
		if strings.EqualFold(existing.Email, m.Email) {
			return apperror.New(apperror.KindDuplicateIdentity, "email is already registered")
		}
	}
	s.state.identities[m.ID] = *m
	return nil
}

func (s *MemoryStore) GetIdentity(ctx context.Context, id uuid.UUID) (*authModel.IdentityModel, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	m, ok := s.state.identities[id]
	if !ok {
		return nil, apperror.NotFound("identity")
	}
	return &m, nil
}

func (s *MemoryStore) GetIdentityByEmail(ctx context.Context, email string) (*authModel.IdentityModel, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	for _, m := range s.state.identities {
		if strings.EqualFold(m.Email, email) {
			return &m, nil
		}
	}
	return nil, apperror.NotFound("identity")
}

func (s *MemoryStore) TouchIdentitySignIn(ctx context.Context, id uuid.UUID, at time.Time) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	m, ok := s.state.identities[id]
	if !ok {
		return apperror.NotFound("identity")
	}
	m.LastSignInAt = &at
	s.state.identities[id] = m
	return nil
}

func (s *MemoryStore) DeleteIdentity(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	delete(s.state.identities, id)
	return nil
}

/* ===================== profiles ===================== */

func (s *MemoryStore) CreateProfile(ctx context.Context, m *profileModel.ProfileModel) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if _, ok := s.state.profiles[m.ID]; ok {
		return apperror.New(apperror.KindDuplicateIdentity, "profile already exists")
	}
	s.state.profiles[m.ID] = *m
	return nil
}

func (s *MemoryStore) GetProfile(ctx context.Context, id uuid.UUID) (*profileModel.ProfileModel, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	m, ok := s.state.profiles[id]
	if !ok {
		return nil, apperror.NotFound("profile")
	}
	return &m, nil
}

func (s *MemoryStore) GetProfilesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]profileModel.ProfileModel, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]profileModel.ProfileModel, len(ids))
	for _, id := range ids {
		if m, ok := s.state.profiles[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func (s *MemoryStore) ListProfiles(ctx context.Context, f ProfileFilter) ([]profileModel.ProfileModel, int64, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return nil, 0, err
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	var out []profileModel.ProfileModel
	for _, m := range s.state.profiles {
		if f.Role != nil && m.Role != *f.Role {
			continue
		}
		if f.Approved != nil && m.IsApproved != *f.Approved {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(m.FullName), q) && !strings.Contains(strings.ToLower(m.Email), q) {
			continue
		}
		out = append(out, m)
	}
	sortNewest(out, func(m profileModel.ProfileModel) (time.Time, uuid.UUID) { return m.CreatedAt, m.ID })
	return paginate(out, f.Limit, f.Offset), int64(len(out)), nil
}

func (s *MemoryStore) SaveProfile(ctx context.Context, m *profileModel.ProfileModel) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if _, ok := s.state.profiles[m.ID]; !ok {
		return apperror.NotFound("profile")
	}
	s.state.profiles[m.ID] = *m
	return nil
}

func (s *MemoryStore) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if _, ok := s.state.profiles[id]; !ok {
		return apperror.NotFound("profile")
	}
	delete(s.state.profiles, id)
	for nid, n := range s.state.notifications {
		if n.UserID == id {
			delete(s.state.notifications, nid)
		}
	}
	return nil
}

/* ===================== projects ===================== */

func (s *MemoryStore) CreateProject(ctx context.Context, m *projectModel.ProjectModel) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	for _, p := range s.state.projects {
		if strings.EqualFold(p.Slug, m.Slug) {
			return apperror.Remote(errDuplicateSlug, false)
		}
	}
	s.state.projects[m.ID] = *m
	return nil
}

func (s *MemoryStore) GetProject(ctx context.Context, id uuid.UUID) (*projectModel.ProjectModel, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	m, ok := s.state.projects[id]
	if !ok {
		return nil, apperror.NotFound("project")
	}
	return &m, nil
}

func (s *MemoryStore) ListProjects(ctx context.Context, f ProjectFilter) ([]projectModel.ProjectModel, int64, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return nil, 0, err
	}
	var out []projectModel.ProjectModel
	for _, m := range s.state.projects {
		if f.ClientID != nil && m.ClientID != *f.ClientID {
			continue
		}
		if f.TeamLeadID != nil && !m.LedBy(*f.TeamLeadID) {
			continue
		}
		if len(f.Statuses) > 0 && !containsString(f.Statuses, m.Status) {
			continue
		}
		out = append(out, m)
	}
	sortNewest(out, func(m projectModel.ProjectModel) (time.Time, uuid.UUID) { return m.CreatedAt, m.ID })
	return paginate(out, f.Limit, f.Offset), int64(len(out)), nil
}

func (s *MemoryStore) SaveProject(ctx context.Context, m *projectModel.ProjectModel) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if _, ok := s.state.projects[m.ID]; !ok {
		return apperror.NotFound("project")
	}
	s.state.projects[m.ID] = *m
	return nil
}

func (s *MemoryStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if _, ok := s.state.projects[id]; !ok {
		return apperror.NotFound("project")
	}
	for tid, t := range s.state.tasks {
		if t.ProjectID != id {
			continue
		}
		for aid, a := range s.state.applications {
			if a.TaskID == tid {
				delete(s.state.applications, aid)
			}
		}
		for sid, sub := range s.state.submissions {
			if sub.TaskID != tid {
				continue
			}
			for rid, r := range s.state.reviews {
				if r.SubmissionID == sid {
					delete(s.state.reviews, rid)
				}
			}
			delete(s.state.submissions, sid)
		}
		delete(s.state.tasks, tid)
	}
	delete(s.state.projects, id)
	return nil
}

func (s *MemoryStore) ProjectSlugExists(ctx context.Context, slug string) (bool, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return false, err
	}
	for _, p := range s.state.projects {
		if strings.EqualFold(p.Slug, slug) {
			return true, nil
		}
	}
	return false, nil
}

/* ===================== tasks ===================== */

func (s *MemoryStore) CreateTask(ctx context.Context, m *taskModel.TaskModel) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.state.tasks[m.ID] = *m
	return nil
}

func (s *MemoryStore) GetTask(ctx context.Context, id uuid.UUID) (*taskModel.TaskModel, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	m, ok := s.state.tasks[id]
	if !ok {
		return nil, apperror.NotFound("task")
	}
	return &m, nil
}

func (s *MemoryStore) ListTasks(ctx context.Context, f TaskFilter) ([]taskModel.TaskModel, int64, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return nil, 0, err
	}
	var out []taskModel.TaskModel
	for _, m := range s.state.tasks {
		if f.ProjectID != nil && m.ProjectID != *f.ProjectID {
			continue
		}
		if f.ProjectIDs != nil && !containsUUID(f.ProjectIDs, m.ProjectID) {
			continue
		}
		if f.AssignedInternID != nil && !m.AssignedTo(*f.AssignedInternID) {
			continue
		}
		if len(f.Statuses) > 0 && !containsString(f.Statuses, m.Status) {
			continue
		}
		if f.OpenOrAssignedTo != nil && !m.AssignedTo(*f.OpenOrAssignedTo) {
			openHere := m.Status == constants.TaskOpen &&
				(f.OpenInProjectIDs == nil || containsUUID(f.OpenInProjectIDs, m.ProjectID))
			if !openHere {
				continue
			}
		}
		out = append(out, m)
	}
	sortNewest(out, func(m taskModel.TaskModel) (time.Time, uuid.UUID) { return m.CreatedAt, m.ID })
	return paginate(out, f.Limit, f.Offset), int64(len(out)), nil
}

func (s *MemoryStore) SaveTask(ctx context.Context, m *taskModel.TaskModel) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if _, ok := s.state.tasks[m.ID]; !ok {
		return apperror.NotFound("task")
	}
	s.state.tasks[m.ID] = *m
	return nil
}

/* ===================== applications ===================== */

func (s *MemoryStore) CreateApplication(ctx context.Context, m *taskModel.ApplicationModel) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.state.applications[m.ID] = *m
	return nil
}

func (s *MemoryStore) GetApplication(ctx context.Context, id uuid.UUID) (*taskModel.ApplicationModel, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	m, ok := s.state.applications[id]
	if !ok {
		return nil, apperror.NotFound("application")
	}
	return &m, nil
}

func (s *MemoryStore) ListApplications(ctx context.Context, f ApplicationFilter) ([]taskModel.ApplicationModel, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	var out []taskModel.ApplicationModel
	for _, m := range s.state.applications {
		if f.TaskID != nil && m.TaskID != *f.TaskID {
			continue
		}
		if f.TaskIDs != nil && !containsUUID(f.TaskIDs, m.TaskID) {
			continue
		}
		if f.InternID != nil && m.InternID != *f.InternID {
			continue
		}
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		out = append(out, m)
	}
	sortNewest(out, func(m taskModel.ApplicationModel) (time.Time, uuid.UUID) { return m.AppliedAt, m.ID })
	return out, nil
}

func (s *MemoryStore) SaveApplication(ctx context.Context, m *taskModel.ApplicationModel) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if _, ok := s.state.applications[m.ID]; !ok {
		return apperror.NotFound("application")
	}
	s.state.applications[m.ID] = *m
	return nil
}

func (s *MemoryStore) RejectPendingApplications(ctx context.Context, taskID, keepID uuid.UUID, at time.Time) ([]taskModel.ApplicationModel, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	var changed []taskModel.ApplicationModel
	for id, m := range s.state.applications {
		if m.TaskID != taskID || id == keepID || m.Status != constants.ApplicationPending {
			continue
		}
		m.Status = constants.ApplicationRejected
		m.ReviewedAt = &at
		s.state.applications[id] = m
		changed = append(changed, m)
	}
	return changed, nil
}

/* ===================== submissions & reviews ===================== */

func (s *MemoryStore) CreateSubmission(ctx context.Context, m *taskModel.SubmissionModel) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.state.submissions[m.ID] = *m
	return nil
}

func (s *MemoryStore) GetSubmission(ctx context.Context, id uuid.UUID) (*taskModel.SubmissionModel, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	m, ok := s.state.submissions[id]
	if !ok {
		return nil, apperror.NotFound("submission")
	}
	return &m, nil
}

func (s *MemoryStore) ListSubmissions(ctx context.Context, f SubmissionFilter) ([]taskModel.SubmissionModel, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	var out []taskModel.SubmissionModel
	for _, m := range s.state.submissions {
		if f.TaskID != nil && m.TaskID != *f.TaskID {
			continue
		}
		if f.TaskIDs != nil && !containsUUID(f.TaskIDs, m.TaskID) {
			continue
		}
		if f.InternID != nil && m.InternID != *f.InternID {
			continue
		}
		out = append(out, m)
	}
	sortNewest(out, func(m taskModel.SubmissionModel) (time.Time, uuid.UUID) { return m.SubmittedAt, m.ID })
	return out, nil
}

func (s *MemoryStore) SaveSubmission(ctx context.Context, m *taskModel.SubmissionModel) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if _, ok := s.state.submissions[m.ID]; !ok {
		return apperror.NotFound("submission")
	}
	s.state.submissions[m.ID] = *m
	return nil
}

func (s *MemoryStore) CreateReview(ctx context.Context, m *taskModel.ReviewModel) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.state.reviews[m.ID] = *m
	return nil
}

func (s *MemoryStore) ListReviews(ctx context.Context, submissionIDs []uuid.UUID) ([]taskModel.ReviewModel, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	var out []taskModel.ReviewModel
	for _, m := range s.state.reviews {
		if containsUUID(submissionIDs, m.SubmissionID) {
			out = append(out, m)
		}
	}
	sortNewest(out, func(m taskModel.ReviewModel) (time.Time, uuid.UUID) { return m.CreatedAt, m.ID })
	return out, nil
}

/* ===================== notifications ===================== */

func (s *MemoryStore) CreateNotification(ctx context.Context, m *notifModel.NotificationModel) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.state.notifications[m.ID] = *m
	return nil
}

func (s *MemoryStore) GetNotification(ctx context.Context, id uuid.UUID) (*notifModel.NotificationModel, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	m, ok := s.state.notifications[id]
	if !ok {
		return nil, apperror.NotFound("notification")
	}
	return &m, nil
}

func (s *MemoryStore) ListNotifications(ctx context.Context, f NotificationFilter) ([]notifModel.NotificationModel, int64, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return nil, 0, err
	}
	var out []notifModel.NotificationModel
	for _, m := range s.state.notifications {
		if m.UserID != f.UserID || (f.UnreadOnly && m.IsRead) {
			continue
		}
		out = append(out, m)
	}
	sortNewest(out, func(m notifModel.NotificationModel) (time.Time, uuid.UUID) { return m.CreatedAt, m.ID })
	return paginate(out, f.Limit, f.Offset), int64(len(out)), nil
}

func (s *MemoryStore) SaveNotification(ctx context.Context, m *notifModel.NotificationModel) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if _, ok := s.state.notifications[m.ID]; !ok {
		return apperror.NotFound("notification")
	}
	s.state.notifications[m.ID] = *m
	return nil
}

func (s *MemoryStore) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	var n int64
	for id, m := range s.state.notifications {
		if m.UserID == userID && !m.IsRead {
			m.IsRead = true
			s.state.notifications[id] = m
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	var n int64
	for _, m := range s.state.notifications {
		if m.UserID == userID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

/* ===================== messages ===================== */

func (s *MemoryStore) CreateMessage(ctx context.Context, m *notifModel.MessageModel) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.state.messages[m.ID] = *m
	return nil
}

func (s *MemoryStore) GetMessage(ctx context.Context, id uuid.UUID) (*notifModel.MessageModel, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	m, ok := s.state.messages[id]
	if !ok {
		return nil, apperror.NotFound("message")
	}
	return &m, nil
}

func (s *MemoryStore) ListMessages(ctx context.Context, f MessageFilter) ([]notifModel.MessageModel, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	var out []notifModel.MessageModel
	for _, m := range s.state.messages {
		if m.SenderID != f.UserID && m.RecipientID != f.UserID {
			continue
		}
		if f.OtherUserID != nil {
			other := *f.OtherUserID
			if !(m.SenderID == f.UserID && m.RecipientID == other) && !(m.SenderID == other && m.RecipientID == f.UserID) {
				continue
			}
		}
		if f.ProjectID != nil && (m.ProjectID == nil || *m.ProjectID != *f.ProjectID) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *MemoryStore) SaveMessage(ctx context.Context, m *notifModel.MessageModel) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if _, ok := s.state.messages[m.ID]; !ok {
		return apperror.NotFound("message")
	}
	s.state.messages[m.ID] = *m
	return nil
}

/* ===================== token blacklist ===================== */

func (s *MemoryStore) BlacklistToken(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.state.blacklist[tokenHash] = expiresAt
	return nil
}

func (s *MemoryStore) IsTokenBlacklisted(ctx context.Context, tokenHash string, now time.Time) (bool, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return false, err
	}
	exp, ok := s.state.blacklist[tokenHash]
	return ok && exp.After(now), nil
}

func (s *MemoryStore) PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	defer s.lock()()
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	var n int64
	for k, exp := range s.state.blacklist {
		if !exp.After(now) {
			delete(s.state.blacklist, k)
			n++
		}
	}
	return n, nil
}

/* ===================== helpers ===================== */

func sortNewest[T any](items []T, key func(T) (time.Time, uuid.UUID)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi.String() < idj.String()
	})
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func containsUUID(xs []uuid.UUID, id uuid.UUID) bool {
	for _, x := range xs {
		if x == id {
			return true
		}
	}
	return false
}
