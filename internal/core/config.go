package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

type Session struct {
	RedisAddress string `yaml:"redisAddress"`
	TTLMinutes   int    `yaml:"ttlMinutes"`
}

type Uploads struct {
	Directory      string `yaml:"directory"`
	ThumbnailWidth int    `yaml:"thumbnailWidth"`
}

type Admin struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type Geolocation struct {
	BaseURL        string `yaml:"baseURL"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

type Signup struct {
	CaptchaQuestion string `yaml:"captchaQuestion"`
	CaptchaAnswer   string `yaml:"captchaAnswer"`
}

// Features switches the optional modules on and off, so one binary can serve
// all deployment variants of the site.
type Features struct {
	Gallery      bool `yaml:"gallery"`
	Captcha      bool `yaml:"captcha"`
	TrackLanding bool `yaml:"trackLanding"`
}

type ServiceConfig struct {
	Port        int         `yaml:"port"`
	Database    Database    `yaml:"database"`
	Session     Session     `yaml:"session"`
	Uploads     Uploads     `yaml:"uploads"`
	Admin       Admin       `yaml:"admin"`
	Geolocation Geolocation `yaml:"geolocation"`
	Signup      Signup      `yaml:"signup"`
	Features    Features    `yaml:"features"`
}

// DefaultConfig returns the configuration used when the yaml file omits a
// value. TrackLanding defaults to off: recording a visitor row for every
// plain page load silently grows the table for every crawler hit.
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Port: 8080,
		Database: Database{
			Type:             "sqlite",
			ConnectionString: "visitlog.db",
		},
		Session: Session{
			RedisAddress: "localhost:6379",
			TTLMinutes:   60,
		},
		Uploads: Uploads{
			Directory:      "uploads",
			ThumbnailWidth: 320,
		},
		Admin: Admin{
			Username: "admin",
			Password: "admin",
		},
		Geolocation: Geolocation{
			BaseURL:        "http://ip-api.com",
			TimeoutSeconds: 5,
		},
		Signup: Signup{
			CaptchaQuestion: "What is 3 + 4?",
			CaptchaAnswer:   "7",
		},
		Features: Features{
			Gallery:      true,
			Captcha:      true,
			TrackLanding: false,
		},
	}
}

// LoadConfig loads configuration from the specified YAML file, applies
// defaults for omitted values and environment overrides for secrets.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML over the defaults so omitted keys keep their default value
	config := DefaultConfig()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	applyEnvOverrides(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnvOverrides lets deployment environments inject secrets without
// writing them into the config file.
func applyEnvOverrides(config *ServiceConfig) {
	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		config.Admin.Password = password
	}
	if address := os.Getenv("REDIS_ADDRESS"); address != "" {
		config.Session.RedisAddress = address
	}
}

func validateConfig(config *ServiceConfig) error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("port must be in (0, 65535], got %d", config.Port)
	}
	if config.Database.Type == "" {
		return fmt.Errorf("database type must not be empty")
	}
	if config.Database.ConnectionString == "" {
		return fmt.Errorf("database connection string must not be empty")
	}
	if config.Session.RedisAddress == "" {
		return fmt.Errorf("session redis address must not be empty")
	}
	if config.Session.TTLMinutes <= 0 {
		return fmt.Errorf("session ttl must be positive, got %d", config.Session.TTLMinutes)
	}
	if config.Admin.Username == "" {
		return fmt.Errorf("admin username must not be empty")
	}
	if config.Admin.Password == "" {
		return fmt.Errorf("admin password must not be empty")
	}
	if config.Uploads.ThumbnailWidth <= 0 {
		return fmt.Errorf("thumbnail width must be positive, got %d", config.Uploads.ThumbnailWidth)
	}
	if config.Geolocation.TimeoutSeconds <= 0 {
		return fmt.Errorf("geolocation timeout must be positive, got %d", config.Geolocation.TimeoutSeconds)
	}
	if config.Features.Captcha && config.Signup.CaptchaAnswer == "" {
		return fmt.Errorf("captcha answer must not be empty while the captcha feature is enabled")
	}
	return nil
}
