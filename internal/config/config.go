package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"prodmcp/internal/logger"
)

// Config represents the complete prodmcp configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	LLM       LLMConfig       `yaml:"llm"`
	Chat      ChatConfig      `yaml:"chat"`
	Hooks     HooksConfig     `yaml:"hooks"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig describes the tool server identity and HTTP listener
type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Addr    string `yaml:"addr"`
	// MCPEndpoint mounts the streamable MCP handler at /mcp
	MCPEndpoint bool `yaml:"mcp_endpoint"`
}

// StoreConfig selects the product store backend
type StoreConfig struct {
	Driver string `yaml:"driver"` // "memory" or "sqlite"
	DSN    string `yaml:"dsn"`    // sqlite file path or DSN
	Seed   bool   `yaml:"seed"`   // load the sample catalog into an empty store
}

// LLMConfig points at an OpenAI-compatible chat completion endpoint
type LLMConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// ChatConfig controls how the chat front-end reaches the tool server
type ChatConfig struct {
	Transport   string        `yaml:"transport"` // "http", "mcp", "stdio" or "local"
	ServerURL   string        `yaml:"server_url"`
	CallTimeout time.Duration `yaml:"call_timeout"`
	// MCPCommand is spawned for the mcp and stdio transports; empty means
	// this executable.
	MCPCommand string            `yaml:"mcp_command"`
	MCPArgs    []string          `yaml:"mcp_args"`
	MCPEnv     map[string]string `yaml:"mcp_env"` // Environment variables with ${VAR} support
	// MCPURL connects the mcp transport to a remote /mcp endpoint instead of
	// spawning a process.
	MCPURL string `yaml:"mcp_url"`
}

// HooksConfig contains hook-related settings
type HooksConfig struct {
	// DenyTools lists tools refused before execution
	DenyTools []string `yaml:"deny_tools"`
	// Audit logs every call and its outcome
	Audit bool `yaml:"audit"`
}

// TelemetryConfig controls tracing
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled"`
	Stdout  bool `yaml:"stdout"`
}

// LogConfig controls the logger
type LogConfig struct {
	Level string `yaml:"level"`
	Color bool   `yaml:"color"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:    "product-mcp",
			Version: "1.0.0",
			Addr:    ":8000",
		},
		Store: StoreConfig{
			Driver: "memory",
			Seed:   true,
		},
		LLM: LLMConfig{
			BaseURL: "https://api.proxyapi.ru/openai/v1",
			Model:   "o4-mini-2025-04-16",
			Timeout: 30 * time.Second,
		},
		Chat: ChatConfig{
			Transport:   "http",
			ServerURL:   "http://localhost:8000",
			CallTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
			Color: true,
		},
	}
}

// Load reads and parses the YAML config file. Keys absent from the file keep
// their default or environment value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	cfg.applyEnv()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	cfg.expand()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads config with fallback to default locations
// Checks: ./prodmcp.yaml, ./configs/prodmcp.yaml, ~/.config/prodmcp/prodmcp.yaml, /etc/prodmcp/prodmcp.yaml
func LoadWithDefaults() (*Config, error) {
	locations := []string{
		"./prodmcp.yaml",
		"./configs/prodmcp.yaml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".config", "prodmcp", "prodmcp.yaml"))
	}

	locations = append(locations, "/etc/prodmcp/prodmcp.yaml")

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return Load(loc)
		}
	}

	// No config found - defaults plus environment (not an error)
	cfg := Default()
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays the environment variables the chat front-end has always
// honoured.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("PROXYAPI_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("MCP_SERVER_URL"); v != "" {
		c.Chat.ServerURL = v
	}
}

func (c *Config) expand() {
	c.LLM.APIKey = ExpandEnv(c.LLM.APIKey)
	c.LLM.BaseURL = ExpandEnv(c.LLM.BaseURL)
	c.Chat.ServerURL = ExpandEnv(c.Chat.ServerURL)
	c.Chat.MCPURL = ExpandEnv(c.Chat.MCPURL)
	c.Chat.MCPEnv = ExpandEnvMap(c.Chat.MCPEnv)
	c.Store.DSN = ExpandEnv(c.Store.DSN)
}

// Validate checks config correctness
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Name) == "" {
		return fmt.Errorf("server name cannot be empty")
	}

	switch c.Store.Driver {
	case "memory":
	case "sqlite":
		if c.Store.DSN == "" {
			return fmt.Errorf("store: dsn is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("store: unsupported driver: %s (use 'memory' or 'sqlite')", c.Store.Driver)
	}

	switch c.Chat.Transport {
	case "http", "mcp", "stdio", "local":
	default:
		return fmt.Errorf("chat: unsupported transport: %s (use 'http', 'mcp', 'stdio' or 'local')", c.Chat.Transport)
	}

	if c.LLM.Timeout < 0 || c.Chat.CallTimeout < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}

	for i, name := range c.Hooks.DenyTools {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("hooks: deny_tools entry #%d cannot be empty", i+1)
		}
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	return nil
}
