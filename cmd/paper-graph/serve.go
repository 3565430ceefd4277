// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-graph/internal/metrics"
	"github.com/pdiddy/paper-graph/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes the paper collection, the graph and the chat assistant over
HTTP. Prometheus metrics are served at /metrics. The server stops gracefully
on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8000)")
	serveCmd.Flags().String("allowed-origins", "", "comma-separated CORS origins (default *)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("server.allowed_origins", serveCmd.Flags().Lookup("allowed-origins"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	assistant, err := newAssistant(st)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.EnablePrometheus(reg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(appConfig.Server, assistant, st, reg, logger).Run(ctx)
}
