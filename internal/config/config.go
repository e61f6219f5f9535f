package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	JWTSecret      string   `mapstructure:"JWT_SECRET"`
	TokenTTL       string   `mapstructure:"TOKEN_TTL"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`

	// Clinic scheduling policy. Times are HH:MM, 24-hour.
	ClinicOpens           string `mapstructure:"CLINIC_OPENS"`
	ClinicCloses          string `mapstructure:"CLINIC_CLOSES"`
	MinAppointmentMinutes int    `mapstructure:"MIN_APPOINTMENT_MINUTES"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("CLINIC_OPENS", "08:00")
	v.SetDefault("CLINIC_CLOSES", "18:00")
	v.SetDefault("MIN_APPOINTMENT_MINUTES", 30)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("TOKEN_TTL")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("CLINIC_OPENS")
	v.BindEnv("CLINIC_CLOSES")
	v.BindEnv("MIN_APPOINTMENT_MINUTES")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() && cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is not set; using an insecure development secret.")
		log.Println("WARNING: Set JWT_SECRET before deploying anywhere that matters.")
		cfg.JWTSecret = "dev-secret-change-me"
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// TokenDuration parses TOKEN_TTL, falling back to 24 hours when it is
// malformed or empty.
func (c *Config) TokenDuration() time.Duration {
	d, err := time.ParseDuration(c.TokenTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// Validate checks that the configuration is safe to run. Outside development
// a real JWT_SECRET is mandatory, and the clinic hours must parse and leave
// room for at least one minimum-length appointment.
func (c *Config) Validate() error {
	if !c.IsDev() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ENV=%q", c.Env)
	}

	opens, err := parseClock(c.ClinicOpens)
	if err != nil {
		return fmt.Errorf("CLINIC_OPENS: %w", err)
	}
	closes, err := parseClock(c.ClinicCloses)
	if err != nil {
		return fmt.Errorf("CLINIC_CLOSES: %w", err)
	}
	if c.MinAppointmentMinutes <= 0 {
		return fmt.Errorf("MIN_APPOINTMENT_MINUTES must be positive, got %d", c.MinAppointmentMinutes)
	}
	if closes-opens < c.MinAppointmentMinutes {
		return fmt.Errorf("clinic hours %s-%s cannot fit a %d minute appointment",
			c.ClinicOpens, c.ClinicCloses, c.MinAppointmentMinutes)
	}

	return nil
}

// parseClock converts an HH:MM string to minutes from midnight.
func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	return h*60 + m, nil
}
