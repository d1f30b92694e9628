package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
	Issuer          string `mapstructure:"issuer"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// ConnString builds a libpq-style connection string for pgxpool.
func (d DatabaseConfig) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ReportsConfig points at the S3-compatible bucket daily reports are archived
// to. Archiving is disabled while Bucket is empty.
type ReportsConfig struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type Config struct {
	Server struct {
		Port               int           `mapstructure:"port"`
		CorsAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string      `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string      `mapstructure:"cors_allowed_headers"`
		ReadTimeout        time.Duration `mapstructure:"read_timeout"`
		WriteTimeout       time.Duration `mapstructure:"write_timeout"`
		ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`

	Storage struct {
		// Driver is "postgres" or "memory".
		Driver string `mapstructure:"driver"`
	} `mapstructure:"storage"`

	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`

	Service struct {
		Timezone string `mapstructure:"timezone"`
	} `mapstructure:"service"`

	Reports ReportsConfig `mapstructure:"reports"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "diet_db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "diet-backend")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("service.timezone", "UTC")
	v.SetDefault("reports.region", "auto")
	v.SetDefault("reports.prefix", "reports/daily")
}

// Load reads configs/config.yaml (optional), then applies environment
// overrides. A missing JWT secret is fatal.
func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	cfg, err := load("configs/config.yaml")
	if err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET not found in config or environment")
	}
	return cfg
}

func load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.AutomaticEnv()
	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	applyEnv(&cfg)
	return &cfg, nil
}

func envInt(name string, dst *int) {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			*dst = n
		}
	}
}

func envString(name string, dst *string) {
	if s := os.Getenv(name); s != "" {
		*dst = s
	}
}

func applyEnv(cfg *Config) {
	envInt("PORT", &cfg.Server.Port)
	envString("STORAGE_DRIVER", &cfg.Storage.Driver)

	envString("DB_HOST", &cfg.Database.Host)
	envInt("DB_PORT", &cfg.Database.Port)
	envString("DB_USER", &cfg.Database.User)
	envString("DB_PASSWORD", &cfg.Database.Password)
	envString("DB_NAME", &cfg.Database.Name)
	envString("DB_SSLMODE", &cfg.Database.SSLMode)

	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	}

	envString("REDIS_HOST", &cfg.Redis.Host)
	envInt("REDIS_PORT", &cfg.Redis.Port)
	envString("REDIS_PASSWORD", &cfg.Redis.Password)
	envInt("REDIS_DB", &cfg.Redis.DB)

	envString("SERVICE_TIMEZONE", &cfg.Service.Timezone)

	envString("REPORTS_BUCKET", &cfg.Reports.Bucket)
	envString("REPORTS_ENDPOINT", &cfg.Reports.Endpoint)
	envString("REPORTS_REGION", &cfg.Reports.Region)
	envString("REPORTS_ACCESS_KEY", &cfg.Reports.AccessKey)
	envString("REPORTS_SECRET_KEY", &cfg.Reports.SecretKey)
	envString("REPORTS_PREFIX", &cfg.Reports.Prefix)
}
