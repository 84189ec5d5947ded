package routes

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	helperOSS "internhub_backend/internals/helpers/oss"
)

// BlobPath is where the in-memory avatar store is served.
const BlobPath = "/blobs"

func BaseRoutes(app *fiber.App, ping func() error) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("InternHub API is running 🚀")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if ping != nil {
			if err := ping(); err != nil {
				dbStatus = "Database connection error"
				serverStatus = "DOWN"
				httpStatus = fiber.StatusServiceUnavailable
			}
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    os.Getenv("RAILWAY_ENVIRONMENT"),
		})
	})
}

// BlobRoutes serves objects of the in-memory blob store (STORE_DRIVER=memory).
func BlobRoutes(app *fiber.App, blobs *helperOSS.MemoryBlobService) {
	app.Get(BlobPath+"/*", func(c *fiber.Ctx) error {
		data, ok := blobs.Object(blobs.BaseURL + "/" + c.Params("*"))
		if !ok {
			return fiber.ErrNotFound
		}
		c.Set(fiber.HeaderContentType, "image/webp")
		c.Set(fiber.HeaderCacheControl, "public, max-age=300")
		return c.Send(data)
	})
}
