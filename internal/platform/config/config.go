package config

import (
	"log"
	"strings"
	"time"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	MigrationsPath string
	IsProduction   bool
	EnableDBCheck  bool
	DBMaxConns     int32
	DBConnTimeout  time.Duration
	LogLevel       string

	// Redis is optional; an empty address keeps locking and events in-process.
	RedisAddr     string
	RedisUser     string
	RedisPassword string
	RedisDB       int
	TellerLockTTL time.Duration
	EventsChannel string

	PayrollPeriod        domain.PayPeriod
	PayrollSyncSchedule  string
	CapitalCloseSchedule string
	Location             *time.Location
	SalaryRates          domain.SalaryRates
}

// RedisEnabled reports whether a Redis address is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

var rateKeys = map[domain.Role]string{
	domain.RoleTeller:           "RATE_TELLER",
	domain.RoleSupervisor:       "RATE_SUPERVISOR",
	domain.RoleSupervisorTeller: "RATE_SUPERVISOR_TELLER",
	domain.RoleAdmin:            "RATE_ADMIN",
	domain.RoleSuperAdmin:       "RATE_SUPER_ADMIN",
	domain.RoleHeadWatcher:      "RATE_HEAD_WATCHER",
	domain.RoleSubWatcher:       "RATE_SUB_WATCHER",
	domain.RoleDeclarator:       "RATE_DECLARATOR",
}

const (
	defaultMigrationsPath       = "file://migrations"
	defaultTellerLockTTL        = 15 * time.Second
	defaultDBMaxConns           = 10
	defaultDBConnTimeout        = 5 * time.Second
	defaultEventsChannel        = "payroll-events"
	defaultPayrollSyncSchedule  = "0 1 * * *"
	defaultCapitalCloseSchedule = "30 0 * * *"
)

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("MIGRATIONS_PATH", defaultMigrationsPath)
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("DB_MAX_CONNS", defaultDBMaxConns)
	viper.SetDefault("DB_CONNECT_TIMEOUT", defaultDBConnTimeout.String())
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_USER", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("TELLER_LOCK_TTL", defaultTellerLockTTL.String())
	viper.SetDefault("EVENTS_CHANNEL", defaultEventsChannel)
	viper.SetDefault("PAYROLL_SHORT_POLICY", string(domain.PeriodMonthly))
	viper.SetDefault("PAYROLL_SYNC_SCHEDULE", defaultPayrollSyncSchedule)
	viper.SetDefault("CAPITAL_CLOSE_SCHEDULE", defaultCapitalCloseSchedule)
	viper.SetDefault("TIMEZONE", "UTC")
	defaults := domain.DefaultSalaryRates()
	for role, key := range rateKeys {
		viper.SetDefault(key, defaults.RateFor(role).String())
	}

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	maxConns := viper.GetInt("DB_MAX_CONNS")
	if maxConns <= 0 {
		log.Printf("Warning: Invalid value for DB_MAX_CONNS ('%d'). Defaulting to %d.\n", maxConns, defaultDBMaxConns)
		maxConns = defaultDBMaxConns
	}
	cfg.DBMaxConns = int32(maxConns)
	connTimeoutStr := viper.GetString("DB_CONNECT_TIMEOUT")
	connTimeout, err := time.ParseDuration(connTimeoutStr)
	if err != nil || connTimeout <= 0 {
		connTimeout = defaultDBConnTimeout
		log.Printf("Warning: Invalid value for DB_CONNECT_TIMEOUT ('%s'). Defaulting to %s.\n", connTimeoutStr, connTimeout)
	}
	cfg.DBConnTimeout = connTimeout
	cfg.LogLevel = viper.GetString("LOG_LEVEL")

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisUser = viper.GetString("REDIS_USER")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")
	if cfg.RedisAddr == "" {
		log.Println("Warning: REDIS_ADDR not set. Teller locks and events stay in-process.")
	}

	lockTTLStr := viper.GetString("TELLER_LOCK_TTL")
	lockTTL, err := time.ParseDuration(lockTTLStr)
	if err != nil || lockTTL <= 0 {
		lockTTL = defaultTellerLockTTL
		log.Printf("Warning: Invalid value for TELLER_LOCK_TTL ('%s'). Defaulting to %s.\n", lockTTLStr, lockTTL)
	}
	cfg.TellerLockTTL = lockTTL

	cfg.EventsChannel = viper.GetString("EVENTS_CHANNEL")
	if cfg.EventsChannel == "" {
		cfg.EventsChannel = defaultEventsChannel
	}

	periodStr := viper.GetString("PAYROLL_SHORT_POLICY")
	period, err := domain.ParsePayPeriod(periodStr)
	if err != nil {
		period = domain.PeriodMonthly
		log.Printf("Warning: Invalid value for PAYROLL_SHORT_POLICY ('%s'). Defaulting to %s.\n", periodStr, period)
	}
	cfg.PayrollPeriod = period

	cfg.PayrollSyncSchedule = scheduleOrDefault("PAYROLL_SYNC_SCHEDULE", defaultPayrollSyncSchedule)
	cfg.CapitalCloseSchedule = scheduleOrDefault("CAPITAL_CLOSE_SCHEDULE", defaultCapitalCloseSchedule)

	tz := viper.GetString("TIMEZONE")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
		log.Printf("Warning: Invalid value for TIMEZONE ('%s'). Defaulting to UTC.\n", tz)
	}
	cfg.Location = loc

	cfg.SalaryRates = domain.SalaryRates{}
	for role, key := range rateKeys {
		raw := viper.GetString(key)
		rate, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil || rate.IsNegative() {
			rate = defaults.RateFor(role)
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, rate)
		}
		cfg.SalaryRates[role] = rate
	}

	return cfg, nil
}

func scheduleOrDefault(key, fallback string) string {
	spec := viper.GetString(key)
	if _, err := cron.ParseStandard(spec); err != nil {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to '%s'.\n", key, spec, fallback)
		return fallback
	}
	return spec
}
