package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"prodmcp/internal/httpapi"
	"prodmcp/internal/tool"
)

func runTools(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARAMETERS\tDESCRIPTION")
	for _, t := range a.dispatcher.Registry().List() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name(), formatParams(t.Schema()), t.Description())
	}
	return w.Flush()
}

func formatParams(s tool.Schema) string {
	if len(s.Params) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		part := p.Name + ":" + p.Type
		if !p.Required {
			part += "?"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

func runCall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var raw json.RawMessage
	if len(args) == 2 {
		raw = json.RawMessage(args[1])
	}
	callArgs, err := tool.DecodeArgs(raw)
	if err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	call := tool.Call{Name: args[0], Arguments: callArgs}

	var result *tool.Result
	if remoteURL != "" {
		result, err = httpapi.NewClient(remoteURL, 0).CallTool(ctx, call)
		if err != nil {
			return err
		}
	} else {
		a, err := newApp(ctx, os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()
		result = a.dispatcher.Dispatch(ctx, call).Result
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("%s failed", call.Name)
	}
	return nil
}
