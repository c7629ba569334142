// internal/config/config.go
package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	URL         string `mapstructure:"url"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	FrontendURL string `mapstructure:"frontend_url"`
	// Analytics windows
	EnrollmentTrendDays int `mapstructure:"enrollment_trend_days"`
	PopularCoursesLimit int `mapstructure:"popular_courses_limit"`
	RecentActivityLimit int `mapstructure:"recent_activity_limit"`
	RecentCoursesLimit  int `mapstructure:"recent_courses_limit"`
}

type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type JWTConfig struct {
	SecretKey      string        `mapstructure:"secret_key"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type MailConfig struct {
	Provider string `mapstructure:"provider"` // log | smtp | ses
}

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	From string `mapstructure:"from"`
}

type SESConfig struct {
	Region          string `mapstructure:"region"`
	From            string `mapstructure:"from"`
	AuthType        string `mapstructure:"auth_type"` // static_credentials | iam_role
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type StorageConfig struct {
	AvatarBucket    string `mapstructure:"avatar_bucket"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
	CredentialsFile string `mapstructure:"credentials_file"`
	EmulatorHost    string `mapstructure:"emulator_host"`
	MaxAvatarSize   int64  `mapstructure:"max_avatar_size"`
}

type RedisConfig struct {
	Addr    string `mapstructure:"addr"`
	Channel string `mapstructure:"channel"`
}

type ReconcileConfig struct {
	Schedule string `mapstructure:"schedule"`
}

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	App       AppConfig       `mapstructure:"app"`
	Auth      AuthConfig      `mapstructure:"auth"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Mail      MailConfig      `mapstructure:"mail"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	SES       SESConfig       `mapstructure:"ses"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Reconcile ReconcileConfig `mapstructure:"reconcile"`
}

// LoadConfig reads config.yaml from path (or the working directory), overlays
// environment variables and fills defaults. A missing config file is not an error.
func LoadConfig(path string) (*Config, error) {
	// .env is optional; it only seeds the process environment for local runs
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on the process environment")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("database.auto_migrate", "DB_AUTO_MIGRATE")
	v.BindEnv("auth.enabled", "AUTH_ENABLED")
	v.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("storage.emulator_host", "STORAGE_EMULATOR_HOST")
	v.BindEnv("storage.credentials_file", "GOOGLE_APPLICATION_CREDENTIALS")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Warning: Config file not found. Using defaults and environment variables.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return nil, err
	}

	if cfg.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}
	if cfg.Auth.Enabled && cfg.JWT.SecretKey == "" {
		return nil, errors.New("jwt.secret_key is required when auth is enabled")
	}

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", cfg.Server.Port)
	log.Printf("Auth Enabled: %t", cfg.Auth.Enabled)
	log.Printf("Mail Provider: %s", cfg.Mail.Provider)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("app.name", AppName)
	v.SetDefault("app.frontend_url", "http://localhost:3000")
	v.SetDefault("app.enrollment_trend_days", DefaultEnrollmentTrendDays)
	v.SetDefault("app.popular_courses_limit", DefaultPopularCoursesLimit)
	v.SetDefault("app.recent_activity_limit", DefaultRecentActivityLimit)
	v.SetDefault("app.recent_courses_limit", DefaultRecentCoursesLimit)
	v.SetDefault("auth.enabled", DefaultAuthEnabled)
	v.SetDefault("jwt.access_token_ttl", DefaultAccessTokenTTL)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Authorization", "Content-Type", "X-User-ID", "X-User-Role"})
	v.SetDefault("cors.max_age", 300)
	v.SetDefault("mail.provider", DefaultMailProvider)
	v.SetDefault("storage.public_base_url", "https://storage.googleapis.com")
	v.SetDefault("storage.max_avatar_size", DefaultMaxAvatarSize)
	v.SetDefault("redis.channel", DefaultRedisChannel)
	v.SetDefault("reconcile.schedule", DefaultReconcileSchedule)
}
