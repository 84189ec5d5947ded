package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	Port             string
	JWTSecret        string
	AccessTokenTTL   time.Duration
	StoreDriver      string
	DBAutoMigrate    bool
	RedisURL         string
	AutoApproveRoles []string
	AdminEmail       string
	AdminPassword    string
	AdminFullName    string
	CorsAllowOrigins string
	TokenCleanupCron string
	SeedUsersFile    string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ .env not found, using system environment")
		} else {
			log.Println("✅ .env loaded")
		}
	} else {
		log.Println("🚀 Running in Railway, using system environment")
	}

	Port = GetEnv("PORT", "3000")
	JWTSecret = GetEnv("JWT_SECRET")
	AccessTokenTTL = GetEnvDuration("ACCESS_TOKEN_TTL", 24*time.Hour)
	StoreDriver = strings.ToLower(GetEnv("STORE_DRIVER", "postgres"))
	DBAutoMigrate = GetEnvBool("DB_AUTO_MIGRATE", false)
	RedisURL = GetEnv("REDIS_URL")
	AutoApproveRoles = GetEnvList("AUTO_APPROVE_ROLES")
	AdminEmail = GetEnv("ADMIN_EMAIL")
	AdminPassword = GetEnv("ADMIN_PASSWORD")
	AdminFullName = GetEnv("ADMIN_FULL_NAME", "Administrator")
	CorsAllowOrigins = GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173,http://localhost:3000")
	TokenCleanupCron = GetEnv("TOKEN_CLEANUP_CRON", "0 3 * * *")
	SeedUsersFile = GetEnv("SEED_USERS_FILE")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	} else {
		log.Println("✅ JWT_SECRET loaded.")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[WARN] %s=%q is not a bool, using %v", key, v, def)
		return def
	}
	return b
}

func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[WARN] %s=%q is not a duration, using %s", key, v, def)
		return def
	}
	return d
}

// GetEnvList splits a comma separated value, dropping blanks.
func GetEnvList(key string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if GetEnvBool("DB_LOG_QUERIES", false) {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error && err != gormLogger.ErrRecordNotFound:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
