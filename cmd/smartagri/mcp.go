package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mark3labs/smartagri/internal/logger"
	"github.com/mark3labs/smartagri/internal/mcpserver"
)

var mcpFlags struct {
	addr string
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve crop recommendations to MCP clients",
	Long: `Serve the recommendation wizard and saved history as MCP tools over
streamable HTTP. The server runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpFlags.addr, "addr", "", "Listen address (default from config mcp_addr)")
}

func runMCP(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.flushMetrics()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []mcpserver.Option{
		mcpserver.WithTranslator(e.tr),
		mcpserver.WithVersion(version),
	}
	if e.cfg.History {
		store, closeHistory, err := e.openHistory(ctx)
		defer closeHistory()
		if err != nil {
			logger.Warn("History disabled: %v", err)
		} else {
			opts = append(opts, mcpserver.WithHistory(store))
		}
	}

	srv := mcpserver.New(e.client, opts...)
	addr := mcpFlags.addr
	if addr == "" {
		addr = e.cfg.MCPAddr
	}
	url, err := srv.Start(ctx, addr)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on %s\n", url)

	<-ctx.Done()
	fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
