package route

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"internhub_backend/internals/constants"
	projectModel "internhub_backend/internals/features/projects/projects/model"
	profileModel "internhub_backend/internals/features/users/user_profiles/model"
	helperAuth "internhub_backend/internals/helpers/auth"
	"internhub_backend/internals/repository"
)

type envelope struct {
	Success   bool   `json:"success"`
	ErrorCode string `json:"error_code"`
	Data      struct {
		ID     uuid.UUID `json:"id"`
		Status string    `json:"status"`
	} `json:"data"`
}

func seed(t *testing.T, s repository.Store, name string, role constants.Role) helperAuth.Actor {
	t.Helper()
	p := &profileModel.ProfileModel{ID: uuid.New(), Email: name + "@hub.test", FullName: name, Role: role, IsApproved: true, CreatedAt: time.Now().UTC()}
	if err := s.CreateProfile(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	return helperAuth.ActorFromProfile(p)
}

// newApp mounts the task routes behind a stub that picks the actor from
// the X-Actor header.
func newApp(store repository.Store, actors map[string]helperAuth.Actor) *fiber.App {
	app := fiber.New(fiber.Config{JSONEncoder: sonic.Marshal, JSONDecoder: sonic.Unmarshal})
	user := app.Group("/api/u", func(c *fiber.Ctx) error {
		if a, ok := actors[c.Get("X-Actor")]; ok {
			c.Locals(helperAuth.LocActor, a)
		}
		return c.Next()
	})
	TaskUserRoutes(user, store)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, actor, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor", actor)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return resp.StatusCode, env
}

func TestTaskRoutesRoundTrip(t *testing.T) {
	store := repository.NewMemoryStore()
	client := seed(t, store, "cahya", constants.RoleClient)
	lead := seed(t, store, "lead", constants.RoleTeamLead)
	intern := seed(t, store, "ina", constants.RoleIntern)

	project := &projectModel.ProjectModel{ID: uuid.New(), Slug: "site", ClientID: client.ID, TeamLeadID: &lead.ID, Title: "Site", Status: constants.ProjectActive}
	if err := store.CreateProject(context.Background(), project); err != nil {
		t.Fatal(err)
	}
	app := newApp(store, map[string]helperAuth.Actor{"lead": lead, "intern": intern})

	code, env := call(t, app, "POST", "/api/u/tasks", "lead",
		`{"project_id":"`+project.ID.String()+`","title":"Navbar","description":"responsive navbar"}`)
	if code != fiber.StatusCreated || env.Data.Status != constants.TaskOpen {
		t.Fatalf("create task: %d %+v", code, env)
	}
	taskID := env.Data.ID.String()

	code, env = call(t, app, "POST", "/api/u/tasks/"+taskID+"/applications", "intern", `{"cover_letter":"pick me"}`)
	if code != fiber.StatusCreated || env.Data.Status != constants.ApplicationPending {
		t.Fatalf("apply: %d %+v", code, env)
	}
	appID := env.Data.ID.String()

	code, env = call(t, app, "POST", "/api/u/tasks/"+taskID+"/applications", "intern", `{}`)
	if code != fiber.StatusConflict || env.ErrorCode != "DUPLICATE_APPLICATION" {
		t.Fatalf("duplicate apply: %d %+v", code, env)
	}
	code, env = call(t, app, "PATCH", "/api/u/applications/"+appID+"/accept", "intern", ``)
	if code != fiber.StatusForbidden || env.ErrorCode != "FORBIDDEN" {
		t.Fatalf("intern accepting: %d %+v", code, env)
	}
	code, _ = call(t, app, "PATCH", "/api/u/applications/"+appID+"/accept", "lead", ``)
	if code != fiber.StatusOK {
		t.Fatalf("accept: %d", code)
	}
	code, env = call(t, app, "POST", "/api/u/tasks/"+taskID+"/submissions", "intern", `{"title":"done","github_url":"not a url"}`)
	if code != fiber.StatusUnprocessableEntity || env.ErrorCode != "VALIDATION_ERROR" {
		t.Fatalf("bad submission: %d %+v", code, env)
	}
	code, env = call(t, app, "GET", "/api/u/tasks/"+taskID, "", ``)
	if code != fiber.StatusUnauthorized || env.ErrorCode != "NOT_AUTHENTICATED" {
		t.Fatalf("anonymous: %d %+v", code, env)
	}
}

func TestHandlersUseRequestDeadline(t *testing.T) {
	store := repository.NewMemoryStore()
	intern := seed(t, store, "ina", constants.RoleIntern)

	app := fiber.New(fiber.Config{JSONEncoder: sonic.Marshal, JSONDecoder: sonic.Unmarshal})
	user := app.Group("/api/u", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()
		c.SetUserContext(ctx)
		c.Locals(helperAuth.LocActor, intern)
		return c.Next()
	})
	TaskUserRoutes(user, store)

	status, env := call(t, app, "GET", "/api/u/tasks", "", "")
	if status != fiber.StatusServiceUnavailable || env.ErrorCode != "REMOTE_STORE_ERROR" {
		t.Fatalf("expired deadline: status %d, code %q", status, env.ErrorCode)
	}
}
