package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"internhub_backend/internals/configs"
	"internhub_backend/internals/constants"
	database "internhub_backend/internals/databases"
	authService "internhub_backend/internals/features/users/auth/service"
	scheduler "internhub_backend/internals/features/users/auth/scheduler"
	profileModel "internhub_backend/internals/features/users/user_profiles/model"
	profileService "internhub_backend/internals/features/users/user_profiles/service"
	helper "internhub_backend/internals/helpers"
	helperOSS "internhub_backend/internals/helpers/oss"
	middlewares "internhub_backend/internals/middlewares"
	"internhub_backend/internals/repository"
	routes "internhub_backend/internals/route"
	userSeeds "internhub_backend/internals/seeds/users"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		BodyLimit:               8 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return helper.JsonError(c, fe.Code, fe.Message)
			}
			return helper.JsonFromError(c, err)
		},
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// Request-ID + per-request deadline
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("requestid", id)
		ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 store
	var (
		store repository.Store
		db    *gorm.DB
		ping  func() error
	)
	switch configs.StoreDriver {
	case "memory":
		log.Println("[WARN] STORE_DRIVER=memory, data is lost on restart")
		store = repository.NewMemoryStore()
	default:
		var err error
		db, err = database.ConnectDB()
		if err != nil {
			log.Fatalf("❌ database: %v", err)
		}
		database.TunePool(db)
		if configs.DBAutoMigrate {
			if err := database.AutoMigrate(db); err != nil {
				log.Fatalf("❌ migrate: %v", err)
			}
		}
		database.WarmUpQueries(db)
		store = repository.NewGormStore(db)
		ping = func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Ping()
		}
	}

	// 🚦 shared rate limiter
	rdb, err := database.InitRedis(configs.RedisURL)
	if err != nil {
		log.Printf("[WARN] redis unavailable, falling back to in-memory limiter: %v", err)
	}
	if rdb != nil {
		middlewares.UseRedisLimiter(middlewares.NewRedisLimiter(rdb))
	}

	// 🖼 avatar storage
	var (
		blobs    helperOSS.BlobService
		memBlobs *helperOSS.MemoryBlobService
	)
	if ossSvc, err := helperOSS.NewOSSServiceFromEnv(""); err != nil {
		log.Printf("[WARN] OSS init failed, avatar upload disabled: %v", err)
	} else if ossSvc != nil {
		blobs = ossSvc
	} else if configs.StoreDriver == "memory" {
		memBlobs = helperOSS.NewMemoryBlobService("http://localhost:" + configs.Port + routes.BlobPath)
		blobs = memBlobs
	}

	// 🔐 services
	var autoApprove []constants.Role
	for _, s := range configs.AutoApproveRoles {
		if r, ok := constants.ParseRole(s); ok {
			autoApprove = append(autoApprove, r)
		} else {
			log.Printf("[WARN] AUTO_APPROVE_ROLES: unknown role %q ignored", s)
		}
	}
	authSvc := authService.New(store, authService.Config{
		Secret:           configs.JWTSecret,
		TTL:              configs.AccessTokenTTL,
		AutoApproveRoles: autoApprove,
	})
	authSvc.OnAuthStateChange(authService.AuditLog(log.Default()))
	profileSvc := profileService.New(store, blobs).OnUpdated(func(p *profileModel.ProfileModel) {
		authSvc.Emit(authService.EventUserUpdated, p)
	})

	if configs.AdminEmail != "" && configs.AdminPassword != "" {
		created, err := authSvc.EnsureBootstrapAdmin(context.Background(), configs.AdminEmail, configs.AdminPassword, configs.AdminFullName)
		if err != nil {
			log.Fatalf("❌ bootstrap admin: %v", err)
		}
		if created {
			log.Printf("[INFO] bootstrap admin %s created", configs.AdminEmail)
		}
	}

	if configs.SeedUsersFile != "" {
		if _, err := userSeeds.SeedUsersFromJSON(context.Background(), authSvc, store, configs.SeedUsersFile); err != nil {
			log.Printf("[WARN] seeding users: %v", err)
		}
	}

	// ⏱ scheduler after the store is ready
	cron, err := scheduler.StartBlacklistCleanupScheduler(store, configs.TokenCleanupCron)
	if err != nil {
		log.Fatalf("❌ scheduler: %v", err)
	}

	routes.SetupRoutes(app, routes.Deps{
		Store:    store,
		Auth:     authSvc,
		Profiles: profileSvc,
		Ping:     ping,

		MemoryBlobs: memBlobs,
	})

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("✅ Listening on :%s", configs.Port)
		if err := app.Listen("0.0.0.0:" + configs.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	<-cron.Stop().Done()
	closeRedis(rdb)
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func closeRedis(rdb *redis.Client) {
	if rdb != nil {
		_ = rdb.Close()
	}
}
