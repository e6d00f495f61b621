package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"prodmcp/internal/httpapi"
	"prodmcp/internal/mcp"
)

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		// Restore default handling so a second signal terminates.
		stop()
	}()
	return ctx, stop
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	a, err := newApp(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := httpapi.Options{
		Name:    a.cfg.Server.Name,
		Version: a.cfg.Server.Version,
		Logger:  a.log,
	}
	if a.cfg.Server.MCPEndpoint {
		opts.MCPHandler = mcp.SDKHandler(mcp.NewSDKServer(a.dispatcher, a.serverInfo()))
		a.log.Info("MCP endpoint mounted at /mcp")
	}

	addr := a.cfg.Server.Addr
	if listenAddr != "" {
		addr = listenAddr
	}
	a.log.Banner(a.cfg.Server.Name+" "+a.cfg.Server.Version, "HTTP tool server on "+addr)
	return httpapi.NewServer(a.dispatcher, opts).ListenAndServe(ctx, addr)
}

func runStdio(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	// stdout carries protocol frames only.
	a, err := newApp(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	if useSDK {
		a.log.Debug("serving MCP SDK stdio transport")
		return mcp.ServeSDKStdio(ctx, mcp.NewSDKServer(a.dispatcher, a.serverInfo()))
	}
	a.log.Debug("serving line protocol on stdin/stdout")
	return mcp.NewLineServer(a.dispatcher, a.serverInfo(), a.log).Serve(ctx, os.Stdin, os.Stdout)
}
