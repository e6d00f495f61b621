package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prodmcp.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"OPENAI_API_KEY", "OPENAI_MODEL", "PROXYAPI_URL", "MCP_SERVER_URL"} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Name != "product-mcp" || cfg.Server.Version != "1.0.0" || cfg.Server.Addr != ":8000" {
		t.Errorf("Unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.LLM.Model != "o4-mini-2025-04-16" || cfg.LLM.Timeout != 30*time.Second {
		t.Errorf("Unexpected LLM defaults: %+v", cfg.LLM)
	}
	if cfg.Chat.ServerURL != "http://localhost:8000" || cfg.Chat.CallTimeout != 10*time.Second {
		t.Errorf("Unexpected chat defaults: %+v", cfg.Chat)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  addr: ":9000"
store:
  driver: sqlite
  dsn: /tmp/products.db
llm:
  timeout: 5s
hooks:
  deny_tools: [add_product]
  audit: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.Name != "product-mcp" {
		t.Errorf("Unexpected server: %+v", cfg.Server)
	}
	if cfg.Store.Driver != "sqlite" || !cfg.Store.Seed {
		t.Errorf("Unexpected store: %+v", cfg.Store)
	}
	if cfg.LLM.Timeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %s", cfg.LLM.Timeout)
	}
	if len(cfg.Hooks.DenyTools) != 1 || !cfg.Hooks.Audit {
		t.Errorf("Unexpected hooks: %+v", cfg.Hooks)
	}
}

func TestLoad_EnvironmentFallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("MCP_SERVER_URL", "http://tools:8000")
	t.Setenv("OPENAI_MODEL", "env-model")

	path := writeConfig(t, `
llm:
  model: file-model
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.APIKey != "sk-env" {
		t.Errorf("Expected API key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.Chat.ServerURL != "http://tools:8000" {
		t.Errorf("Expected server URL from env, got %q", cfg.Chat.ServerURL)
	}
	if cfg.LLM.Model != "file-model" {
		t.Errorf("File value should win over env, got %q", cfg.LLM.Model)
	}
}

func TestLoad_ExpandsVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRODMCP_TEST_KEY", "sk-expanded")
	t.Setenv("PRODMCP_TEST_TOKEN", "tok")

	path := writeConfig(t, `
llm:
  api_key: ${PRODMCP_TEST_KEY}
chat:
  transport: mcp
  mcp_env:
    TOKEN: "Bearer $PRODMCP_TEST_TOKEN"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.APIKey != "sk-expanded" {
		t.Errorf("Unexpected API key: %q", cfg.LLM.APIKey)
	}
	if cfg.Chat.MCPEnv["TOKEN"] != "Bearer tok" {
		t.Errorf("Unexpected env: %v", cfg.Chat.MCPEnv)
	}
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "server: [", "parse config"},
		{"unknown driver", "store:\n  driver: postgres\n", "unsupported driver"},
		{"sqlite without dsn", "store:\n  driver: sqlite\n", "dsn is required"},
		{"unknown transport", "chat:\n  transport: carrier-pigeon\n", "unsupported transport"},
		{"empty name", "server:\n  name: \"\"\n", "name cannot be empty"},
		{"bad level", "log:\n  level: loud\n", "unknown log level"},
		{"empty deny entry", "hooks:\n  deny_tools: [\"\"]\n", "deny_tools"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadWithDefaults_NoFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-fallback")
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}
	if cfg.LLM.APIKey != "sk-fallback" {
		t.Errorf("Expected env fallback, got %q", cfg.LLM.APIKey)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("PRODMCP_A", "alpha")
	if got := ExpandEnv("x-${PRODMCP_A}-$PRODMCP_A-$PRODMCP_UNSET"); got != "x-alpha-alpha-" {
		t.Errorf("Unexpected expansion: %q", got)
	}
	if ExpandEnvMap(nil) != nil {
		t.Error("Expected nil map to stay nil")
	}
}
