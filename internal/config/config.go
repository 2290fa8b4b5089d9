package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Insecure values the shared secret must not keep in production.
var insecureDefaults = map[string]bool{
	"change-me":     true,
	"shared-secret": true,
	"":              true,
}

type Config struct {
	Server  ServerConfig
	Panel   PanelConfig
	Gateway GatewayConfig
}

type ServerConfig struct {
	Port string
	Mode string
}

type PanelConfig struct {
	BaseURL    string
	Username   string
	Password   string
	Timeout    time.Duration
	SessionTTL time.Duration // 0 disables the session-cookie cache
}

type GatewayConfig struct {
	SharedSecret     string
	AllowedOrigins   []string
	DefaultInboundID int
	SubLinkPattern   string
	JWTAuthEnabled   bool
}

func Load() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Mode: getEnv("GIN_MODE", "release"),
		},
		Panel: PanelConfig{
			BaseURL:    strings.TrimRight(getEnv("PANEL_URL", ""), "/"),
			Username:   getEnv("PANEL_USER", ""),
			Password:   getEnv("PANEL_PASS", ""),
			Timeout:    getEnvDuration("PANEL_TIMEOUT", 30*time.Second),
			SessionTTL: getEnvDuration("PANEL_SESSION_TTL", 0),
		},
		Gateway: GatewayConfig{
			SharedSecret:     getEnv("SHARED_SECRET", ""),
			AllowedOrigins:   splitOrigins(getEnv("ALLOWED_ORIGINS", "")),
			DefaultInboundID: getEnvInt("DEFAULT_INBOUND_ID", 1),
			SubLinkPattern:   getEnv("SUB_LINK_PATTERN", ""),
			JWTAuthEnabled:   getEnvBool("JWT_AUTH_ENABLED", false),
		},
	}

	// Do not log credentials or the shared secret.
	log.Printf("[config] Provisioning Gateway loaded: port=%s panel=%s inbound=%d origins=%d session_cache=%v",
		cfg.Server.Port, cfg.Panel.BaseURL, cfg.Gateway.DefaultInboundID,
		len(cfg.Gateway.AllowedOrigins), cfg.Panel.SessionTTL > 0)

	return cfg
}

// Validate checks that the deployment carries everything the gateway needs
// before it can accept provisioning requests.
func (c *Config) Validate() error {
	if !c.Panel.Complete() {
		return fmt.Errorf("PANEL_URL, PANEL_USER and PANEL_PASS must all be set")
	}
	if insecureDefaults[c.Gateway.SharedSecret] {
		return fmt.Errorf("SHARED_SECRET must be set to a secure value (current value is insecure or empty)")
	}
	if c.Gateway.DefaultInboundID <= 0 {
		return fmt.Errorf("DEFAULT_INBOUND_ID must be a positive integer")
	}
	return nil
}

// Complete reports whether the panel connection settings are all present.
func (c *PanelConfig) Complete() bool {
	return c.BaseURL != "" && c.Username != "" && c.Password != ""
}

// splitOrigins parses a comma-separated origin allow-list, trimming
// whitespace and dropping empty entries. An empty result means any origin.
func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
