package config

import (
	"fmt"
	"time"

	"github.com/rezkam/shoplist/internal/env"
)

// ServerConfig holds all configuration for the server binary.
type ServerConfig struct {
	Local           LocalConfig
	Remote          RemoteConfig
	Mirror          MirrorConfig
	HTTP            HTTPConfig
	Observability   ObservabilityConfig
	ShutdownTimeout time.Duration `env:"SHOPLIST_SHUTDOWN_TIMEOUT"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host              string        `env:"SHOPLIST_HTTP_HOST"`
	Port              string        `env:"SHOPLIST_HTTP_PORT"`
	ReadTimeout       time.Duration `env:"SHOPLIST_HTTP_READ_TIMEOUT"`
	WriteTimeout      time.Duration `env:"SHOPLIST_HTTP_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `env:"SHOPLIST_HTTP_IDLE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `env:"SHOPLIST_HTTP_READ_HEADER_TIMEOUT"`
	MaxHeaderBytes    int           `env:"SHOPLIST_HTTP_MAX_HEADER_BYTES"`
	MaxBodyBytes      int64         `env:"SHOPLIST_HTTP_MAX_BODY_BYTES"`

	// TLS configuration for HTTPS
	TLSEnabled  bool   `env:"SHOPLIST_TLS_ENABLED"`
	TLSCertFile string `env:"SHOPLIST_TLS_CERT_FILE"`
	TLSKeyFile  string `env:"SHOPLIST_TLS_KEY_FILE"`
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	if c.TLSEnabled && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		return ErrTLSFilesRequired
	}
	return nil
}

// MirrorConfig holds remote mirror worker configuration.
type MirrorConfig struct {
	OperationTimeout time.Duration `env:"SHOPLIST_MIRROR_OPERATION_TIMEOUT"`
	QueueSize        int           `env:"SHOPLIST_MIRROR_QUEUE_SIZE"`
	// RefreshOnStart pulls the remote snapshot into the local cache at startup.
	RefreshOnStart bool `env:"SHOPLIST_MIRROR_REFRESH_ON_START"`
}

// ObservabilityConfig holds observability configuration.
type ObservabilityConfig struct {
	OTelEnabled bool   `env:"SHOPLIST_OTEL_ENABLED"`
	ServiceName string `env:"OTEL_SERVICE_NAME"`
	Insecure    bool   `env:"SHOPLIST_OTEL_INSECURE"`
}

// LoadServerConfig loads and validates server configuration from environment.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	return cfg, nil
}
