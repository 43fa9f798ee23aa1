// Package config loads a node's runtime configuration from the
// environment, the way the rest of this module's ambient stack expects
// configuration to arrive: struct tags parsed by caarlos0/env, then
// environment-specific defaults layered on top, then validated once.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env"

	"github.com/liftctl/liftctl/internal/constants"
	"github.com/liftctl/liftctl/internal/domain"
)

// Config is the full set of knobs a node process reads at startup.
type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"INFO"`

	// Identity and building shape (§3, §5).
	NodeID    int `env:"NODE_ID" envDefault:"0"`
	NumFloors int `env:"NUM_FLOORS" envDefault:"4"`

	// Cluster timing (§4.2, §4.3, §4.6, §5).
	StatusPeriod   time.Duration `env:"STATUS_PERIOD" envDefault:"1s"`
	AssignPeriod   time.Duration `env:"ASSIGN_PERIOD" envDefault:"500ms"`
	PeerTTL        time.Duration `env:"PEER_TTL" envDefault:"3s"`
	DoorOpenPeriod time.Duration `env:"DOOR_OPEN_PERIOD" envDefault:"3s"`

	// Network transport (§4.4, §4.5, §6).
	BroadcastPort int `env:"BROADCAST_PORT" envDefault:"20010"`

	// Hardware driver (§6).
	HardwareAddr      string        `env:"HARDWARE_ADDR" envDefault:"localhost:15657"`
	SocketBackoff     time.Duration `env:"SOCKET_BACKOFF" envDefault:"1s"`
	SocketReadTimeout time.Duration `env:"SOCKET_READ_TIMEOUT" envDefault:"5s"`
	PollPeriod        time.Duration `env:"POLL_PERIOD" envDefault:"25ms"`

	// Observer HTTP surface.
	HTTPPort          int           `env:"HTTP_PORT" envDefault:"8080"`
	HTTPReadTimeout   time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	HTTPWriteTimeout  time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"5s"`
	HTTPIdleTimeout   time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	HTTPShutdownGrace time.Duration `env:"HTTP_SHUTDOWN_GRACE" envDefault:"5s"`

	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	MetricsPath    string `env:"METRICS_PATH" envDefault:"/metrics"`
	HealthPath     string `env:"HEALTH_PATH" envDefault:"/health"`

	WebSocketEnabled      bool          `env:"WEBSOCKET_ENABLED" envDefault:"true"`
	WebSocketPath         string        `env:"WEBSOCKET_PATH" envDefault:"/ws/status"`
	WebSocketPingInterval time.Duration `env:"WEBSOCKET_PING_INTERVAL" envDefault:"15s"`

	StructuredLogging   bool   `env:"STRUCTURED_LOGGING" envDefault:"true"`
	CorrelationIDHeader string `env:"CORRELATION_ID_HEADER" envDefault:"X-Correlation-ID"`

	// Circuit breaker guarding the hardware driver socket (§7).
	CircuitBreakerEnabled          bool          `env:"CIRCUIT_BREAKER_ENABLED" envDefault:"true"`
	CircuitBreakerMaxFailures      int           `env:"CIRCUIT_BREAKER_MAX_FAILURES" envDefault:"5"`
	CircuitBreakerResetTimeout     time.Duration `env:"CIRCUIT_BREAKER_RESET_TIMEOUT" envDefault:"10s"`
	CircuitBreakerHalfOpenLimit    int           `env:"CIRCUIT_BREAKER_HALF_OPEN_LIMIT" envDefault:"3"`
	CircuitBreakerFailureThreshold float64       `env:"CIRCUIT_BREAKER_FAILURE_THRESHOLD" envDefault:"0.6"`
}

// Load parses the environment into a Config, applies environment-specific
// defaults, and validates the result.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	applyEnvironmentDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func applyEnvironmentDefaults(cfg *Config) {
	switch cfg.Environment {
	case "development", "dev":
		if cfg.LogLevel == "INFO" {
			cfg.LogLevel = "DEBUG"
		}
	case "testing", "test":
		cfg.LogLevel = "WARN"
		cfg.StatusPeriod = 50 * time.Millisecond
		cfg.AssignPeriod = 25 * time.Millisecond
		cfg.PeerTTL = 200 * time.Millisecond
		cfg.DoorOpenPeriod = 20 * time.Millisecond
		cfg.PollPeriod = 5 * time.Millisecond
		cfg.SocketReadTimeout = 500 * time.Millisecond
		cfg.WebSocketEnabled = false
		cfg.MetricsEnabled = false
	case "production", "prod":
		cfg.LogLevel = "WARN"
		cfg.CircuitBreakerMaxFailures = 3
		cfg.CircuitBreakerResetTimeout = 30 * time.Second
	default:
		// unknown environment: keep parsed defaults
	}
}

func validate(cfg *Config) error {
	if _, err := domain.NewNodeID(cfg.NodeID); err != nil {
		return err
	}

	if cfg.NumFloors < constants.MinAllowedFloors || cfg.NumFloors > constants.MaxAllowedFloors {
		return domain.NewValidationError("num floors outside allowed range", nil).
			WithContext("num_floors", cfg.NumFloors).
			WithContext("min", constants.MinAllowedFloors).
			WithContext("max", constants.MaxAllowedFloors)
	}

	if cfg.BroadcastPort <= 0 || cfg.BroadcastPort > 65535 {
		return domain.NewValidationError("broadcast port must be between 1 and 65535", nil).
			WithContext("broadcast_port", cfg.BroadcastPort)
	}

	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return domain.NewValidationError("http port must be between 1 and 65535", nil).
			WithContext("http_port", cfg.HTTPPort)
	}

	for name, d := range map[string]time.Duration{
		"status_period":       cfg.StatusPeriod,
		"assign_period":       cfg.AssignPeriod,
		"peer_ttl":            cfg.PeerTTL,
		"door_open_period":    cfg.DoorOpenPeriod,
		"socket_backoff":      cfg.SocketBackoff,
		"socket_read_timeout": cfg.SocketReadTimeout,
		"poll_period":         cfg.PollPeriod,
	} {
		if d <= 0 {
			return domain.NewValidationError("duration must be positive", nil).
				WithContext("field", name).
				WithContext("value", d)
		}
	}

	if cfg.PeerTTL <= cfg.StatusPeriod {
		return domain.NewValidationError("peer ttl must exceed the status broadcast period", nil).
			WithContext("peer_ttl", cfg.PeerTTL).
			WithContext("status_period", cfg.StatusPeriod)
	}

	if cfg.CircuitBreakerEnabled {
		if cfg.CircuitBreakerMaxFailures <= 0 {
			return domain.NewValidationError("circuit breaker max failures must be positive", nil).
				WithContext("max_failures", cfg.CircuitBreakerMaxFailures)
		}
		if cfg.CircuitBreakerFailureThreshold <= 0 || cfg.CircuitBreakerFailureThreshold > 1 {
			return domain.NewValidationError("circuit breaker failure threshold must be in (0, 1]", nil).
				WithContext("threshold", cfg.CircuitBreakerFailureThreshold)
		}
	}

	return nil
}

func (c *Config) IsProduction() bool  { return c.Environment == "production" || c.Environment == "prod" }
func (c *Config) IsDevelopment() bool { return c.Environment == "development" || c.Environment == "dev" }
func (c *Config) IsTesting() bool     { return c.Environment == "testing" || c.Environment == "test" }
