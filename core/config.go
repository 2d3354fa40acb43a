package core

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ErrMissingSecretKey is returned when SECRET_KEY is unset outside DEV and TEST.
var ErrMissingSecretKey = errors.New("SECRET_KEY is required outside DEV and TEST")

type (
	Config struct {
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		AppName      string
		SecretKey    string
		RollbarToken string

		Server   ServerConfig
		Database DatabaseConfig
		LMS      LMSConfig
	}

	ServerConfig struct {
		Port            string
		DebugHost       string
		SessionTTL      time.Duration
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		URL string // empty: in-memory stores
	}

	LMSConfig struct {
		BaseURL string
		Timeout time.Duration // 0: no client timeout
	}
)

// Address returns the listen address for the API server.
func (sc ServerConfig) Address() string {
	return ":" + sc.Port
}

// InMemory reports whether no database is configured.
func (dc DatabaseConfig) InMemory() bool {
	return dc.URL == ""
}

// NewConfig loads the application configuration from the process environment,
// after loading the optional `.env` file of the working directory.
func NewConfig() *Config {
	conf, err := loadConfig(".env")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return conf
}

func loadConfig(dotEnvPath string) (*Config, error) {
	// load .env if it exists (ignore if it does not)
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "reading %s", dotEnvPath)
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	// sessions are signed with the secret key: only local environments may fall back to the built-in one
	if env != "DEV" && env != "TEST" && os.Getenv("SECRET_KEY") == "" {
		return nil, ErrMissingSecretKey
	}

	// defaults
	v.SetDefault("build", "develop")
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("appName", "StudyHub")
	v.SetDefault("secretKey", "k7#pz!w9q0e$v3@studyhub-dev-only-secret")
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.debugHost", "")
	v.SetDefault("server.sessionTTL", 24*time.Hour)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("database.url", "")
	v.SetDefault("lms.baseURL", "https://moodle.astanait.edu.kz")
	v.SetDefault("lms.timeout", time.Duration(0))
	v.SetDefault("rollbarToken", "")

	bindEnv(v, map[string]string{
		"build":                  "BUILD",
		"debug":                  "DEBUG",
		"secretKey":              "SECRET_KEY",
		"server.port":            "PORT",
		"server.debugHost":       "DEBUG_HOST",
		"server.sessionTTL":      "SESSION_TTL",
		"server.shutdownTimeout": "SHUTDOWN_TIMEOUT",
		"database.url":           "DATABASE_URL",
		"lms.baseURL":            "LMS_BASE_URL",
		"lms.timeout":            "LMS_TIMEOUT",
		"rollbarToken":           "ROLLBAR_TOKEN",
	})

	return &Config{
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     env == "TEST",
		AppName:      v.GetString("appName"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Port:            v.GetString("server.port"),
			DebugHost:       v.GetString("server.debugHost"),
			SessionTTL:      v.GetDuration("server.sessionTTL"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			URL: v.GetString("database.url"),
		},
		LMS: LMSConfig{
			BaseURL: strings.TrimRight(v.GetString("lms.baseURL"), "/"),
			Timeout: v.GetDuration("lms.timeout"),
		},
	}, nil
}

func bindEnv(v *viper.Viper, keys map[string]string) {
	for key, envVar := range keys {
		if err := v.BindEnv(key, envVar); err != nil {
			log.Fatalf("config.BindEnv(%s): %v", key, err)
		}
	}
}
