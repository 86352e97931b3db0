package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppEnv      string `mapstructure:"APP_ENV"`
	AppVersion  string `mapstructure:"APP_VERSION"`
	ServerPort  string `mapstructure:"SERVER_PORT"`
	GinMode     string `mapstructure:"GIN_MODE"`
	DBDriver    string `mapstructure:"DB_DRIVER"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPassword  string `mapstructure:"DB_PASSWORD"`
	DBName      string `mapstructure:"DB_NAME"`
	DBSSLMode   string `mapstructure:"DB_SSLMODE"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogFile     string `mapstructure:"LOG_FILE"`
	CORSOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	BcryptCost  int    `mapstructure:"BCRYPT_COST"`
}

var defaults = map[string]any{
	"APP_ENV":              "local",
	"APP_VERSION":          "1.0.0",
	"SERVER_PORT":          "8080",
	"GIN_MODE":             "debug",
	"DB_DRIVER":            "mysql",
	"DB_HOST":              "localhost",
	"DB_PORT":              "3306",
	"DB_USER":              "taskuser",
	"DB_PASSWORD":          "taskpassword",
	"DB_NAME":              "task_management",
	"DB_SSLMODE":           "disable",
	"LOG_LEVEL":            "info",
	"LOG_FILE":             "",
	"CORS_ALLOWED_ORIGINS": "*",
	"BCRYPT_COST":          10,
}

// Load reads configuration from an optional .env file in path, with
// environment variables taking precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release" || c.AppEnv == "production"
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS into a list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
