package utils

import (
	"errors"
	"os"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server configuration
	AppPort          string `yaml:"APP_PORT"`
	LogFile          string `yaml:"LOG_FILE"`
	CORSAllowOrigins string `yaml:"CORS_ALLOW_ORIGINS"`

	// Database configuration
	DBDriver    string `yaml:"DB_DRIVER"`
	DatabaseURL string `yaml:"DATABASE_URL"`
	DBUser      string `yaml:"DB_USER"`
	DBName      string `yaml:"DB_NAME"`
	DBPassword  string `yaml:"DB_PASSWORD"`
	DBPort      string `yaml:"DB_PORT"`
	DBHost      string `yaml:"DB_HOST"`
	DBSSLMode   string `yaml:"DB_SSLMODE"`
	DBTimeZone  string `yaml:"DB_TIMEZONE"`
	SQLitePath  string `yaml:"SQLITE_PATH"`
	DBLogLevel  string `yaml:"DB_LOG_LEVEL"`

	// Image storage configuration
	StorageDriver   string `yaml:"STORAGE_DRIVER"`
	UploadDir       string `yaml:"UPLOAD_DIR"`
	UploadURLPrefix string `yaml:"UPLOAD_URL_PREFIX"`
	MaxUploadMB     string `yaml:"MAX_UPLOAD_MB"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
	S3Endpoint   string `yaml:"S3_ENDPOINT"`
	S3PublicURL  string `yaml:"S3_PUBLIC_URL"`
	S3Folder     string `yaml:"S3_FOLDER"`
}

var (
	config   Config
	loadOnce sync.Once
)

func defaultConfig() Config {
	return Config{
		AppPort:          "8000",
		LogFile:          "./logs/app.log",
		CORSAllowOrigins: "*",
		DBDriver:         "postgres",
		DBPort:           "5432",
		DBSSLMode:        "disable",
		DBTimeZone:       "UTC",
		SQLitePath:       "recipes.db",
		DBLogLevel:       "warn",
		StorageDriver:    "local",
		UploadDir:        "uploads",
		UploadURLPrefix:  "/uploads",
		MaxUploadMB:      "10",
		S3Folder:         "recipe-uploads",
	}
}

// LoadConfig reads config.yaml (or $CONFIG_PATH), then .env, then the process
// environment. Later sources win. Only the first call has any effect.
func LoadConfig() {
	loadOnce.Do(func() {
		config = defaultConfig()

		path := os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "config.yaml"
		}
		file, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Infof("no %s found, using defaults and environment", path)
		case err != nil:
			log.Warnf("Error reading YAML file: %s", err)
		default:
			if err := yaml.Unmarshal(file, &config); err != nil {
				log.Warnf("Error parsing YAML file: %s", err)
			}
		}

		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warnf("Error reading .env file: %s", err)
		}

		for key, field := range config.fields() {
			if value, ok := os.LookupEnv(key); ok {
				*field = value
			}
		}
	})
}

func (c *Config) fields() map[string]*string {
	return map[string]*string{
		"APP_PORT":           &c.AppPort,
		"LOG_FILE":           &c.LogFile,
		"CORS_ALLOW_ORIGINS": &c.CORSAllowOrigins,
		"DB_DRIVER":          &c.DBDriver,
		"DATABASE_URL":       &c.DatabaseURL,
		"DB_USER":            &c.DBUser,
		"DB_NAME":            &c.DBName,
		"DB_PASSWORD":        &c.DBPassword,
		"DB_PORT":            &c.DBPort,
		"DB_HOST":            &c.DBHost,
		"DB_SSLMODE":         &c.DBSSLMode,
		"DB_TIMEZONE":        &c.DBTimeZone,
		"SQLITE_PATH":        &c.SQLitePath,
		"DB_LOG_LEVEL":       &c.DBLogLevel,
		"STORAGE_DRIVER":     &c.StorageDriver,
		"UPLOAD_DIR":         &c.UploadDir,
		"UPLOAD_URL_PREFIX":  &c.UploadURLPrefix,
		"MAX_UPLOAD_MB":      &c.MaxUploadMB,
		"AWS_S3_BUCKET":      &c.AWSS3Bucket,
		"AWS_S3_REGION":      &c.AWSS3Region,
		"AWS_ACCESS_KEY":     &c.AWSAccessKey,
		"AWS_SECRET_KEY":     &c.AWSSecretKey,
		"S3_ENDPOINT":        &c.S3Endpoint,
		"S3_PUBLIC_URL":      &c.S3PublicURL,
		"S3_FOLDER":          &c.S3Folder,
	}
}

func GetConfig(key string) string {
	LoadConfig()
	if field, ok := config.fields()[key]; ok {
		return *field
	}
	return ""
}

func GetConfigInt(key string, fallback int) int {
	value, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		return fallback
	}
	return value
}
