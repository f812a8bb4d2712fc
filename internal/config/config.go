package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store drivers
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

// Upload drivers
const (
	UploadLocal = "local"
	UploadMinio = "minio"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Document store selection and connection settings
	Store    StoreConfig
	Mongo    MongoConfig
	Database DatabaseConfig

	// Upload storage
	Upload UploadConfig

	// Google Places review sync
	Google GoogleConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings.
// ReadTimeout covers the request body as well, so it defaults to 0 and
// ReadHeaderTimeout guards against slow clients instead.
type ServerConfig struct {
	Port              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	AllowOrigin       string
}

// StoreConfig selects the document store backend
type StoreConfig struct {
	Driver string
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	MigrationsPath string
}

// UploadConfig holds blob storage and upload limits
type UploadConfig struct {
	Driver           string
	Dir              string
	MaxResourceSize  int64 // in bytes
	MaxImageSize     int64 // in bytes
	SweepGracePeriod time.Duration
	Minio            MinioConfig
}

// MinioConfig holds S3 compatible object storage settings
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// GoogleConfig holds Places API credentials
type GoogleConfig struct {
	APIKey  string
	PlaceID string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
	Env   string // "development" switches to console output
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:              getEnv("PORT", "8080"),
			ReadHeaderTimeout: getDurationEnv("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
			ReadTimeout:       getDurationEnv("SERVER_READ_TIMEOUT", 0),
			WriteTimeout:      getDurationEnv("SERVER_WRITE_TIMEOUT", 300*time.Second),
			IdleTimeout:       getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout:   getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			AllowOrigin:       getEnv("CORS_ALLOW_ORIGIN", "*"),
		},
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", StoreMongo),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "community_cms"),
			Timeout:  getDurationEnv("MONGO_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Name:           getEnv("DB_NAME", "community_cms"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Upload: UploadConfig{
			Driver:           getEnv("UPLOAD_DRIVER", UploadLocal),
			Dir:              getEnv("UPLOAD_DIR", "./uploads"),
			MaxResourceSize:  getInt64Env("MAX_RESOURCE_SIZE", 100*1024*1024), // 100MB
			MaxImageSize:     getInt64Env("MAX_IMAGE_SIZE", 20*1024*1024),
			SweepGracePeriod: getDurationEnv("SWEEP_GRACE_PERIOD", time.Hour),
			Minio: MinioConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", "uploads"),
				UseSSL:    getBoolEnv("MINIO_USE_SSL", false),
			},
		},
		Google: GoogleConfig{
			APIKey:  getEnv("GOOGLE_API_KEY", ""),
			PlaceID: getEnv("GOOGLE_PLACE_ID", ""),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Env:   getEnv("ENV", "production"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("MONGO_DB is required")
		}
	case StorePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of: %s, %s", StoreMongo, StorePostgres)
	}

	switch c.Upload.Driver {
	case UploadLocal:
		if c.Upload.Dir == "" {
			return fmt.Errorf("UPLOAD_DIR is required")
		}
	case UploadMinio:
		if c.Upload.Minio.Endpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT is required")
		}
		if c.Upload.Minio.Bucket == "" {
			return fmt.Errorf("MINIO_BUCKET is required")
		}
	default:
		return fmt.Errorf("UPLOAD_DRIVER must be one of: %s, %s", UploadLocal, UploadMinio)
	}

	if c.Upload.MaxResourceSize <= 0 {
		return fmt.Errorf("MAX_RESOURCE_SIZE must be positive")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
