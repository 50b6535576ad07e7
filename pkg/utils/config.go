package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	JWT       JWTConfig
	Redis     RedisConfig
	AMQP      AMQPConfig
	Booking   BookingConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type StorageConfig struct {
	Driver   string // postgres | file
	FilePath string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type AMQPConfig struct {
	URL      string
	Exchange string
	Consume  bool
}

type BookingConfig struct {
	SeatRows           int
	SeatsPerRow        int
	PremiumRows        int
	MaxSeatsPerBooking int
	HoldTTL            time.Duration
	PaymentWindow      time.Duration
	SweepInterval      time.Duration
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type AdminConfig struct {
	Email    string
	Password string
}

const (
	StorageDriverPostgres = "postgres"
	StorageDriverFile     = "file"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "cookmyshow")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")

	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("STORAGE_FILE", "data/cookmyshow.json")

	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)

	v.SetDefault("JWT_EXPIRY_HOURS", 24)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AMQP_EXCHANGE", "cookmyshow.bookings")
	v.SetDefault("AMQP_CONSUME", false)

	v.SetDefault("SEAT_ROWS", 10)
	v.SetDefault("SEATS_PER_ROW", 16)
	v.SetDefault("PREMIUM_ROWS", 3)
	v.SetDefault("MAX_SEATS_PER_BOOKING", 10)
	v.SetDefault("HOLD_TTL", "5m")
	v.SetDefault("PAYMENT_WINDOW", "15m")
	v.SetDefault("SWEEP_INTERVAL", "1m")

	v.SetDefault("RATE_LIMIT_REQUESTS", 20)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")

	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:4173")
}

// LoadConfig reads the .env file at path (when present) and overlays the
// process environment on top of it.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	setDefaults(v)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	v.AutomaticEnv()

	return buildConfig(v), nil
}

func buildConfig(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(v.GetString("STORAGE_DRIVER")),
			FilePath: v.GetString("STORAGE_FILE"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		AMQP: AMQPConfig{
			URL:      v.GetString("AMQP_URL"),
			Exchange: v.GetString("AMQP_EXCHANGE"),
			Consume:  v.GetBool("AMQP_CONSUME"),
		},
		Booking: BookingConfig{
			SeatRows:           v.GetInt("SEAT_ROWS"),
			SeatsPerRow:        v.GetInt("SEATS_PER_ROW"),
			PremiumRows:        v.GetInt("PREMIUM_ROWS"),
			MaxSeatsPerBooking: v.GetInt("MAX_SEATS_PER_BOOKING"),
			HoldTTL:            v.GetDuration("HOLD_TTL"),
			PaymentWindow:      v.GetDuration("PAYMENT_WINDOW"),
			SweepInterval:      v.GetDuration("SWEEP_INTERVAL"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ORIGINS")),
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}
}

// Validate reports every setting the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWT.ExpiryHours < 1 {
		errs = append(errs, errors.New("JWT_EXPIRY_HOURS must be at least 1"))
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "" {
			errs = append(errs, errors.New("DB_HOST, DB_NAME and DB_USER are required for the postgres driver"))
		}
		if c.Database.MaxConns < 1 {
			errs = append(errs, errors.New("DB_MAX_CONNS must be at least 1"))
		}
	case StorageDriverFile:
		if c.Storage.FilePath == "" {
			errs = append(errs, errors.New("STORAGE_FILE is required for the file driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}

	b := c.Booking
	if b.SeatRows < 1 || b.SeatRows > 26 {
		errs = append(errs, fmt.Errorf("SEAT_ROWS must be within 1..26, got %d", b.SeatRows))
	}
	if b.SeatsPerRow < 1 {
		errs = append(errs, fmt.Errorf("SEATS_PER_ROW must be at least 1, got %d", b.SeatsPerRow))
	}
	if b.PremiumRows < 0 || b.PremiumRows > b.SeatRows {
		errs = append(errs, fmt.Errorf("PREMIUM_ROWS must be within 0..SEAT_ROWS, got %d", b.PremiumRows))
	}
	if b.MaxSeatsPerBooking < 1 {
		errs = append(errs, errors.New("MAX_SEATS_PER_BOOKING must be at least 1"))
	}
	if b.HoldTTL <= 0 {
		errs = append(errs, errors.New("HOLD_TTL must be positive"))
	}
	if b.PaymentWindow < 0 {
		errs = append(errs, errors.New("PAYMENT_WINDOW must not be negative"))
	}

	return errors.Join(errs...)
}

// WatchLogLevel re-reads the .env file on change and applies DEBUG to level.
// It is a no-op when the file does not exist.
func WatchLogLevel(path string, level zap.AtomicLevel, logger *zap.Logger) {
	if _, err := os.Stat(path); err != nil {
		return
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		logger.Warn("Config watch disabled", zap.Error(err))
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		next := zapcore.InfoLevel
		if v.GetBool("DEBUG") {
			next = zapcore.DebugLevel
		}
		if level.Level() != next {
			level.SetLevel(next)
			logger.Info("Log level changed",
				zap.String("file", e.Name),
				zap.String("level", next.String()),
			)
		}
	})
	v.WatchConfig()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
