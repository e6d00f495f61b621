package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	noColor    bool

	useSDK     bool
	listenAddr string
	chatVia    string
	remoteURL  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "prodmcp",
		Short:         "Product catalog tool server",
		Long:          "Serves product and calculator tools over a line protocol, HTTP and MCP, with a terminal chat front-end.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: search standard locations)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output (debug mode)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	stdioCmd := &cobra.Command{
		Use:   "stdio",
		Short: "Serve tools over stdin/stdout, one JSON request per line",
		Args:  cobra.NoArgs,
		RunE:  runStdio,
	}
	stdioCmd.Flags().BoolVar(&useSDK, "sdk", false, "Serve with the MCP SDK framing instead of the line protocol")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tools over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (overrides server.addr)")

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the product assistant in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runChat,
	}
	chatCmd.Flags().StringVar(&chatVia, "transport", "", "Tool transport: http, mcp, stdio or local (overrides chat.transport)")

	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "List the registered tools",
		Args:  cobra.NoArgs,
		RunE:  runTools,
	}

	callCmd := &cobra.Command{
		Use:   "call <tool> [json-args]",
		Short: "Run one tool and print its result envelope",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runCall,
	}
	callCmd.Flags().StringVar(&remoteURL, "remote", "", "Call a running HTTP tool server instead of dispatching locally")

	rootCmd.AddCommand(stdioCmd, serveCmd, chatCmd, toolsCmd, callCmd)
	return rootCmd
}
