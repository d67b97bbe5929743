// Command toolserve runs the tool server on one of its two transports.
//
//	toolserve serve   HTTP binding
//	toolserve stdio   line-oriented STDIO binding
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/modelbridge/toolserve/internal/config"
	"github.com/modelbridge/toolserve/internal/mcp"
	"github.com/modelbridge/toolserve/internal/server"
	"github.com/modelbridge/toolserve/internal/tools"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "toolserve: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "toolserve",
		Short:         "MCP tool server with HTTP and STDIO transports",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newStdioCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tools over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("request-timeout") {
				cfg.RequestTimeout = config.Duration(timeout)
			}

			reg, disp, err := buildEngine(cfg)
			if err != nil {
				return err
			}
			binding := server.NewHTTP(reg, disp, cfg.RequestTimeout.Std())

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           binding.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				log.Printf("toolserve %s listening on %s (%d tools)", version, cfg.Addr, reg.Len())
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				log.Print("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("shutdown: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&timeout, "request-timeout", 30*time.Second, "per-call deadline")
	return cmd
}

func newStdioCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Serve tools over stdin/stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Stdout carries responses only; all logging goes to stderr.
			log.SetOutput(os.Stderr)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			reg, disp, err := buildEngine(cfg)
			if err != nil {
				return err
			}

			log.Printf("toolserve %s ready on stdio (%d tools)", version, reg.Len())
			return server.NewStdio(reg, disp, version, os.Stdin, os.Stdout).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	return cmd
}

func buildEngine(cfg config.Config) (*mcp.Registry, *mcp.Dispatcher, error) {
	reg := mcp.NewRegistry()
	err := tools.RegisterAll(reg, tools.Config{
		WeatherAPIKey:   cfg.Weather.APIKey,
		WeatherBaseURL:  cfg.Weather.BaseURL,
		WeatherCacheTTL: cfg.Weather.CacheTTL.Std(),
	})
	if err != nil {
		return nil, nil, err
	}
	return reg, mcp.NewDispatcher(reg), nil
}
