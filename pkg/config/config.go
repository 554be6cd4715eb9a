package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Tiers enumerates the grade tiers used to narrow class selection.
var Tiers = []string{"X", "XI", "XII"}

type Config struct {
	Env      string
	HTTPPort int

	Bot       BotConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Evidence  EvidenceConfig
	Duplicate DuplicateConfig
	Points    PointsConfig
	School    SchoolConfig
	Log       LogConfig

	Timezone        string
	SectionsPerTier int
}

type BotConfig struct {
	Token       string
	PollTimeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig selects the wizard-state backend. IdleTTL of zero keeps
// sessions alive until the flow finishes or the user cancels.
type SessionConfig struct {
	Backend string
	IdleTTL time.Duration
}

// EvidenceConfig controls where uploaded photo evidence lands and how its
// public links are built.
type EvidenceConfig struct {
	StorageDir    string
	PublicBaseURL string
	SigningSecret string
}

// DuplicateConfig bounds the inclusive hour-of-day window in which a repeat
// infraction for the same student and type is flagged for confirmation.
type DuplicateConfig struct {
	StartHour int
	EndHour   int
}

// PointsConfig holds the lower bounds of the Moderate, Severe and Very
// Severe bands. Totals below ModerateMin classify as Mild.
type PointsConfig struct {
	ModerateMin   int
	SevereMin     int
	VerySevereMin int
}

type SchoolConfig struct {
	Name    string
	Address string
}

type LogConfig struct {
	Level  string
	Format string
}

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.HTTPPort = v.GetInt("HTTP_PORT")

	cfg.Bot = BotConfig{
		Token:       v.GetString("BOT_TOKEN"),
		PollTimeout: parseDuration(v.GetString("BOT_POLL_TIMEOUT"), 30*time.Second),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Session = SessionConfig{
		Backend: v.GetString("SESSION_STORE"),
		IdleTTL: parseDuration(v.GetString("SESSION_IDLE_TTL"), 0),
	}

	cfg.Evidence = EvidenceConfig{
		StorageDir:    v.GetString("EVIDENCE_STORAGE_DIR"),
		PublicBaseURL: strings.TrimRight(v.GetString("EVIDENCE_PUBLIC_BASE_URL"), "/"),
		SigningSecret: v.GetString("EVIDENCE_SIGNING_SECRET"),
	}

	cfg.Duplicate = DuplicateConfig{
		StartHour: v.GetInt("DUPLICATE_WINDOW_START"),
		EndHour:   v.GetInt("DUPLICATE_WINDOW_END"),
	}

	cfg.Points = PointsConfig{
		ModerateMin:   v.GetInt("POINTS_MODERATE_MIN"),
		SevereMin:     v.GetInt("POINTS_SEVERE_MIN"),
		VerySevereMin: v.GetInt("POINTS_VERY_SEVERE_MIN"),
	}

	cfg.School = SchoolConfig{
		Name:    v.GetString("SCHOOL_NAME"),
		Address: v.GetString("SCHOOL_ADDRESS"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Timezone = v.GetString("TIMEZONE")
	cfg.SectionsPerTier = v.GetInt("CLASS_SECTIONS_PER_TIER")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Duplicate.StartHour < 0 || c.Duplicate.StartHour > 23 ||
		c.Duplicate.EndHour < 0 || c.Duplicate.EndHour > 23 {
		return fmt.Errorf("duplicate window hours must be within 0-23, got %d-%d", c.Duplicate.StartHour, c.Duplicate.EndHour)
	}
	if c.Duplicate.StartHour > c.Duplicate.EndHour {
		return fmt.Errorf("duplicate window start %d after end %d", c.Duplicate.StartHour, c.Duplicate.EndHour)
	}
	if c.Points.ModerateMin >= c.Points.SevereMin || c.Points.SevereMin >= c.Points.VerySevereMin {
		return fmt.Errorf("point thresholds must be strictly ascending, got %d/%d/%d",
			c.Points.ModerateMin, c.Points.SevereMin, c.Points.VerySevereMin)
	}
	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	if c.SectionsPerTier < 1 {
		return fmt.Errorf("CLASS_SECTIONS_PER_TIER must be positive, got %d", c.SectionsPerTier)
	}
	return nil
}

// ClassSections lists the class labels for one tier, e.g. XI-1 .. XI-12.
func (c *Config) ClassSections(tier string) []string {
	sections := make([]string, 0, c.SectionsPerTier)
	for i := 1; i <= c.SectionsPerTier; i++ {
		sections = append(sections, fmt.Sprintf("%s-%d", tier, i))
	}
	return sections
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("HTTP_PORT", 8080)

	v.SetDefault("BOT_TOKEN", "")
	v.SetDefault("BOT_POLL_TIMEOUT", "30s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "tatib_bot")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SESSION_STORE", SessionBackendMemory)
	v.SetDefault("SESSION_IDLE_TTL", "0")

	v.SetDefault("EVIDENCE_STORAGE_DIR", "./evidence")
	v.SetDefault("EVIDENCE_PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("EVIDENCE_SIGNING_SECRET", "dev_evidence_secret")

	v.SetDefault("TIMEZONE", "Asia/Jakarta")
	v.SetDefault("DUPLICATE_WINDOW_START", 5)
	v.SetDefault("DUPLICATE_WINDOW_END", 18)

	v.SetDefault("POINTS_MODERATE_MIN", 21)
	v.SetDefault("POINTS_SEVERE_MIN", 51)
	v.SetDefault("POINTS_VERY_SEVERE_MIN", 101)

	v.SetDefault("SCHOOL_NAME", "SMAN 1 Lamongan")
	v.SetDefault("SCHOOL_ADDRESS", "Jl. Veteran No. 7, Lamongan, Jawa Timur")
	v.SetDefault("CLASS_SECTIONS_PER_TIER", 12)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
