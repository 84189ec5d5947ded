package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"internhub_backend/internals/configs"
	notifModel "internhub_backend/internals/features/home/notifications/model"
	projectModel "internhub_backend/internals/features/projects/projects/model"
	taskModel "internhub_backend/internals/features/projects/tasks/model"
	authModel "internhub_backend/internals/features/users/auth/model"
	profileModel "internhub_backend/internals/features/users/user_profiles/model"
)

var DB *gorm.DB

// DSN prefers DATABASE_URL, then the DB_* parts.
func DSN() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=internhub&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		getenv("DB_HOST", "localhost"),
		getenv("DB_PORT", "5432"),
		os.Getenv("DB_NAME"),
		getenv("DB_SSLMODE", "require"),
	)
}

func ConnectDB() (*gorm.DB, error) {
	log.Println("🔌 Connecting to PostgreSQL...")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  DSN(),
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	DB = db
	log.Println("✅ DB connected.")
	return db, nil
}

func TunePool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("[WARN] pool tune: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// WarmUpQueries fills the pool once the server is up.
func WarmUpQueries(db *gorm.DB) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			log.Printf("[WARN] warm-up ping: %v", err)
			return
		}
		var n int64
		db.Model(&profileModel.ProfileModel{}).Where("is_approved = ?", false).Count(&n)
	}()
}

// AutoMigrate creates or updates every table in dependency order.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&authModel.IdentityModel{},
		&authModel.TokenBlacklist{},
		&profileModel.ProfileModel{},
		&projectModel.ProjectModel{},
		&taskModel.TaskModel{},
		&taskModel.ApplicationModel{},
		&taskModel.SubmissionModel{},
		&taskModel.ReviewModel{},
		&notifModel.NotificationModel{},
		&notifModel.MessageModel{},
	)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
