package buildCFG

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
)

type ServerConfig struct {
	Port string
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Password string
}

type StorageConfig struct {
	ImageDir string
}

type RegistrationConfig struct {
	PendingReminder time.Duration
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) *ServerConfig {
	port := cfg.GetString("server.port")
	if port == "" {
		port = "8080"
		log.Warn().Msg("server.port not set, defaulting to 8080")
	}
	return &ServerConfig{Port: port}
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	masterDSN := cfg.GetString("database.master_dsn")
	if masterDSN == "" {
		return "", nil, nil, fmt.Errorf("database.master_dsn is required")
	}

	slaveDSNs := cfg.GetStringSlice("database.slave_dsns")

	maxOpen := cfg.GetInt("database.max_open_conns")
	if maxOpen <= 0 {
		maxOpen = 20
	}
	maxIdle := cfg.GetInt("database.max_idle_conns")
	if maxIdle <= 0 {
		maxIdle = 10
	}
	lifetime := cfg.GetInt("database.conn_max_lifetime_seconds")
	if lifetime <= 0 {
		lifetime = 300
	}

	opts := &dbpg.Options{
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: time.Duration(lifetime) * time.Second,
	}

	log.Debug().Int("max_open", maxOpen).Int("max_idle", maxIdle).Msg("database pool configured")
	return masterDSN, slaveDSNs, opts, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (*RabbitConfig, error) {
	url := cfg.GetString("rabbit.url")
	if url == "" {
		return nil, fmt.Errorf("rabbit.url is required")
	}

	exchange := cfg.GetString("rabbit.exchange")
	if exchange == "" {
		exchange = "eventdesk.notifications"
	}
	queue := cfg.GetString("rabbit.queue")
	if queue == "" {
		queue = "eventdesk.mail"
	}

	log.Debug().Str("exchange", exchange).Str("queue", queue).Msg("rabbit configured")
	return &RabbitConfig{Url: url, Exchange: exchange, Queue: queue}, nil
}

func BuildAuthConfig(cfg *config.Config, log *zerolog.Logger) (*AuthConfig, error) {
	secret := cfg.GetString("auth.jwt_secret")
	if secret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required")
	}

	ttlHours := cfg.GetInt("auth.token_ttl_hours")
	if ttlHours <= 0 {
		ttlHours = 24
	}

	return &AuthConfig{
		JWTSecret: secret,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
	}, nil
}

func BuildSMTPConfig(cfg *config.Config, log *zerolog.Logger) *SMTPConfig {
	smtp := &SMTPConfig{
		Host:     cfg.GetString("smtp.host"),
		Port:     cfg.GetString("smtp.port"),
		From:     cfg.GetString("smtp.from"),
		Password: cfg.GetString("smtp.password"),
	}
	if smtp.Host == "" {
		log.Warn().Msg("smtp.host not set, outgoing mail will fail")
	}
	return smtp
}

func BuildStorageConfig(cfg *config.Config, log *zerolog.Logger) *StorageConfig {
	dir := cfg.GetString("storage.image_dir")
	if dir == "" {
		dir = "./uploads/event-images"
	}
	return &StorageConfig{ImageDir: dir}
}

func BuildRegistrationConfig(cfg *config.Config, log *zerolog.Logger) *RegistrationConfig {
	minutes := cfg.GetInt("registration.pending_reminder_minutes")
	if minutes <= 0 {
		minutes = 60
	}
	return &RegistrationConfig{PendingReminder: time.Duration(minutes) * time.Minute}
}
