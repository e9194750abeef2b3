package configs

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// =======================
// ENV LOADER
// =======================

// LoadEnv loads .env into the process environment. In production the
// platform injects the environment directly and .env is ignored.
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") != "" || strings.EqualFold(os.Getenv("APP_ENV"), "production") {
		log.Println("🚀 Running in production, using system ENV")
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, using system ENV")
	} else {
		log.Println("✅ .env file loaded")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// =======================
// TYPED CONFIG
// =======================

type DatabaseConfig struct {
	Driver   string // postgres | mysql | sqlite
	DSN      string // overrides the discrete fields when set
	User     string
	Password string
	Host     string
	Port     string
	Name     string
	SSLMode  string

	MaxOpenConns int
	MaxIdleConns int
	LogLevel     string // silent | error | warn | info
}

type Config struct {
	Port        string
	Environment string
	Timezone    string
	CORSOrigins []string

	DB DatabaseConfig

	JWTSecret string
	JWTTTL    time.Duration

	SessionIdleTimeout time.Duration
	SessionCookieName  string
	SessionSecure      bool

	LoanPeriodDays       int
	OverdueSweepInterval time.Duration
	BlacklistTTLDays     int
}

// Load reads configuration from the environment (already populated by
// LoadEnv) on top of the defaults below.
func Load() *Config {
	v := viper.New()

	v.SetDefault("port", "3000")
	v.SetDefault("app_env", "development")
	v.SetDefault("library_timezone", "UTC")
	v.SetDefault("cors_origins", "http://localhost:5173,http://127.0.0.1:5500")

	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_dsn", "")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_name", "library")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_max_open_conns", 20)
	v.SetDefault("db_max_idle_conns", 10)
	v.SetDefault("db_log_level", "warn")

	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_ttl", "24h")

	// browser sessions log out after 60 idle seconds
	v.SetDefault("session_idle_timeout", "60s")
	v.SetDefault("session_cookie_name", "library_session")
	v.SetDefault("session_secure", false)

	v.SetDefault("loan_period_days", 14)
	v.SetDefault("overdue_sweep_interval", "1h")
	v.SetDefault("token_blacklist_ttl_days", 7)

	v.AutomaticEnv()

	cfg := &Config{
		Port:        v.GetString("port"),
		Environment: v.GetString("app_env"),
		Timezone:    v.GetString("library_timezone"),
		CORSOrigins: splitCSV(v.GetString("cors_origins")),
		DB: DatabaseConfig{
			Driver:       strings.ToLower(strings.TrimSpace(v.GetString("db_driver"))),
			DSN:          v.GetString("db_dsn"),
			User:         v.GetString("db_user"),
			Password:     v.GetString("db_password"),
			Host:         v.GetString("db_host"),
			Port:         v.GetString("db_port"),
			Name:         v.GetString("db_name"),
			SSLMode:      v.GetString("db_sslmode"),
			MaxOpenConns: v.GetInt("db_max_open_conns"),
			MaxIdleConns: v.GetInt("db_max_idle_conns"),
			LogLevel:     v.GetString("db_log_level"),
		},
		JWTSecret:            v.GetString("jwt_secret"),
		JWTTTL:               v.GetDuration("jwt_ttl"),
		SessionIdleTimeout:   v.GetDuration("session_idle_timeout"),
		SessionCookieName:    v.GetString("session_cookie_name"),
		SessionSecure:        v.GetBool("session_secure"),
		LoanPeriodDays:       v.GetInt("loan_period_days"),
		OverdueSweepInterval: v.GetDuration("overdue_sweep_interval"),
		BlacklistTTLDays:     v.GetInt("token_blacklist_ttl_days"),
	}

	if cfg.JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set! API tokens are disabled")
	} else {
		log.Println("✅ JWT_SECRET loaded.")
	}
	return cfg
}

func splitCSV(s string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
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

func NewGormLogger(level string) gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      parseGormLevel(level),
	}
}

func parseGormLevel(level string) gormLogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return gormLogger.Silent
	case "error":
		return gormLogger.Error
	case "info":
		return gormLogger.Info
	default:
		return gormLogger.Warn
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
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error && !isRecordNotFound(err):
		sql, rows := fc()
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		sql, rows := fc()
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		sql, rows := fc()
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gormLogger.ErrRecordNotFound)
}
