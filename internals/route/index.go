// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"internhub_backend/internals/constants"
	notificationRoutes "internhub_backend/internals/features/home/notifications/route"
	projectRoutes "internhub_backend/internals/features/projects/projects/route"
	taskRoutes "internhub_backend/internals/features/projects/tasks/route"
	dashboardRoutes "internhub_backend/internals/features/stats/dashboard/route"
	authRoutes "internhub_backend/internals/features/users/auth/route"
	authService "internhub_backend/internals/features/users/auth/service"
	profileRoutes "internhub_backend/internals/features/users/user_profiles/route"
	profileService "internhub_backend/internals/features/users/user_profiles/service"
	helperOSS "internhub_backend/internals/helpers/oss"
	authMiddleware "internhub_backend/internals/middlewares/auth"
	"internhub_backend/internals/repository"
)

var startTime time.Time

// Deps are the long-lived services the route tree is built from.
type Deps struct {
	Store    repository.Store
	Auth     *authService.Service
	Profiles *profileService.Service

	// Ping reports store health for /health; nil means always healthy.
	Ping func() error

	// MemoryBlobs is set when avatars live in process memory.
	MemoryBlobs *helperOSS.MemoryBlobService
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()

	BaseRoutes(app, d.Ping)
	if d.MemoryBlobs != nil {
		log.Println("[INFO] Serving in-memory blobs on " + BlobPath)
		BlobRoutes(app, d.MemoryBlobs)
	}

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	authRoutes.AuthRoutes(app, d.Auth)

	// ===================== PRIVATE (USER) =====================
	log.Println("[INFO] Setting up PRIVATE (user) group...")
	user := app.Group("/api/u", authMiddleware.AuthMiddleware(d.Auth))

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(d.Auth),
		authMiddleware.OnlyRoles(constants.AdminOnly...),
	)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting profile routes...")
	profileRoutes.ProfileUserRoutes(user, d.Profiles)
	profileRoutes.ProfileAdminRoutes(admin, d.Profiles)

	log.Println("[INFO] Mounting project routes...")
	projectRoutes.ProjectUserRoutes(user, d.Store)
	projectRoutes.ProjectAdminRoutes(admin, d.Store)

	log.Println("[INFO] Mounting task routes...")
	taskRoutes.TaskUserRoutes(user, d.Store)
	taskRoutes.TaskAdminRoutes(admin, d.Store)

	log.Println("[INFO] Mounting notification routes...")
	notificationRoutes.NotificationUserRoutes(user, d.Store)
	notificationRoutes.NotificationAdminRoutes(admin, d.Store)

	log.Println("[INFO] Mounting dashboard routes...")
	dashboardRoutes.DashboardAdminRoutes(admin, d.Store)
}
