package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName        = "AuthGate"
	defaultAppEnv         = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultShutdownDelay  = 10 * time.Second
	defaultAccessTokenTTL = 15 * time.Minute
	defaultOTPTTL         = 5 * time.Minute
	defaultOTPAttempts    = 5
	defaultLockThreshold  = 5
	defaultLockPeriod     = 15 * time.Minute
	defaultLoginPerMinute = 5
	defaultCheckoutTTL    = 24 * time.Hour
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName  string
	AppEnv   string
	Port     string
	LogLevel string

	DatabaseURL string
	RedisURL    string

	JWTSecret      string
	AccessTokenTTL time.Duration

	OTPTTL         time.Duration
	OTPMaxAttempts int

	LockThreshold int
	LockPeriod    time.Duration

	LoginPerMinute int

	CaptchaSecret    string
	CaptchaVerifyURL string

	CheckoutIdemTTL time.Duration
	ShutdownPeriod  time.Duration
}

// Load reads configuration values from the environment and populates a Config
// instance. A .env file in the working directory is merged in first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppName:          getEnv("APP_NAME", defaultAppName),
		AppEnv:           getEnv("APP_ENV", defaultAppEnv),
		Port:             getEnv("PORT", defaultPort),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		AccessTokenTTL:   defaultAccessTokenTTL,
		OTPTTL:           defaultOTPTTL,
		OTPMaxAttempts:   defaultOTPAttempts,
		LockThreshold:    defaultLockThreshold,
		LockPeriod:       defaultLockPeriod,
		LoginPerMinute:   defaultLoginPerMinute,
		CaptchaSecret:    os.Getenv("CAPTCHA_SECRET"),
		CaptchaVerifyURL: os.Getenv("CAPTCHA_VERIFY_URL"),
		CheckoutIdemTTL:  defaultCheckoutTTL,
		ShutdownPeriod:   defaultShutdownDelay,
	}

	var err error
	if cfg.AccessTokenTTL, err = durationEnv("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.OTPTTL, err = durationEnv("OTP_TTL", cfg.OTPTTL); err != nil {
		return Config{}, err
	}
	if cfg.LockPeriod, err = durationEnv("LOCKOUT_PERIOD", cfg.LockPeriod); err != nil {
		return Config{}, err
	}
	if cfg.CheckoutIdemTTL, err = durationEnv("CHECKOUT_IDEMPOTENCY_TTL", cfg.CheckoutIdemTTL); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownPeriod, err = durationEnv("SHUTDOWN_TIMEOUT", cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.OTPMaxAttempts, err = intEnv("OTP_MAX_ATTEMPTS", cfg.OTPMaxAttempts); err != nil {
		return Config{}, err
	}
	if cfg.LockThreshold, err = intEnv("LOCKOUT_THRESHOLD", cfg.LockThreshold); err != nil {
		return Config{}, err
	}
	if cfg.LoginPerMinute, err = intEnv("LOGIN_RATE_PER_MINUTE", cfg.LoginPerMinute); err != nil {
		return Config{}, err
	}

	// Development runs without Postgres/Redis, falling back to the
	// in-memory backends. Everywhere else the stores are mandatory.
	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	return cfg, nil
}

// IsDev reports whether the environment is a development one.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if seconds, err := strconv.Atoi(v); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
