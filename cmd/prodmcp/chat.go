package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prodmcp/internal/chat"
	"prodmcp/internal/config"
	"prodmcp/internal/httpapi"
	"prodmcp/internal/llm/openai"
	"prodmcp/internal/mcp"
	"prodmcp/internal/mcp/transport"
)

type closingCaller interface {
	chat.Caller
	Close() error
}

type nopCloser struct{ chat.Caller }

func (nopCloser) Close() error { return nil }

func runChat(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	a, err := newApp(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	if chatVia != "" {
		cfg.Chat.Transport = chatVia
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("OpenAI API key required (set OPENAI_API_KEY or llm.api_key)")
	}

	caller, err := newCaller(ctx, a)
	if err != nil {
		return err
	}
	defer caller.Close()

	model := openai.NewClient(openai.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	})
	bot := chat.NewBot(model, caller, a.log, cfg.LLM.Timeout)

	descriptors, err := bot.Discover(ctx)
	if err != nil {
		a.log.Warn("tool discovery failed, arguments will not be checked: %v", err)
	} else {
		a.log.Info("connected via %s, %d tools available", cfg.Chat.Transport, len(descriptors))
	}
	a.log.Debug("model: %s at %s", model.Model(), cfg.LLM.BaseURL)

	return bot.Run(ctx, os.Stdin, os.Stdout)
}

func newCaller(ctx context.Context, a *app) (closingCaller, error) {
	cfg := a.cfg.Chat
	switch cfg.Transport {
	case "local":
		return nopCloser{chat.NewLocalCaller(a.dispatcher)}, nil
	case "mcp":
		if cfg.MCPURL != "" {
			return mcp.NewHTTPClient(ctx, cfg.MCPURL)
		}
		command, cmdArgs, err := childCommand(cfg, "stdio", "--sdk")
		if err != nil {
			return nil, err
		}
		return mcp.NewCommandClient(ctx, command, cmdArgs, cfg.MCPEnv)
	case "stdio":
		command, cmdArgs, err := childCommand(cfg, "stdio")
		if err != nil {
			return nil, err
		}
		t, err := transport.NewStdioTransport(ctx, command, cmdArgs, cfg.MCPEnv)
		if err != nil {
			return nil, err
		}
		return mcp.NewLineClient(ctx, t)
	default:
		return nopCloser{httpapi.NewClient(cfg.ServerURL, cfg.CallTimeout)}, nil
	}
}

// childCommand returns the configured server command, or this executable
// with defaultArgs plus the active config file.
func childCommand(cfg config.ChatConfig, defaultArgs ...string) (string, []string, error) {
	if cfg.MCPCommand != "" {
		return cfg.MCPCommand, cfg.MCPArgs, nil
	}
	self, err := os.Executable()
	if err != nil {
		return "", nil, fmt.Errorf("locate executable: %w", err)
	}
	args := append([]string{}, defaultArgs...)
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	return self, args, nil
}
