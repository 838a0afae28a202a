package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/akihiro17/kafka-ec2/logger"
	"github.com/akihiro17/kafka-ec2/metrics"
	"github.com/akihiro17/kafka-ec2/transport/http"
	"github.com/akihiro17/kafka-ec2/weight"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve assignments and topic metadata over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if conf.HTTP.ListenerAddr == "" {
			return fmt.Errorf("http.listener_addr is required")
		}

		shutdownTracing, err := setupTracing(ctx, conf.Tracing)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				log.Warn(ctx, "failed to flush traces", logger.NewAttr("error", err.Error()))
			}
		}()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		collector, err := metrics.NewPrometheus(prometheus.DefaultRegisterer, conf.Metrics.Namespace)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}

		zones, err := loader.ZoneWeights()
		if err != nil {
			return err
		}
		zones.Watch(func(t weight.Table, err error) {
			if err != nil {
				log.Warn(context.Background(), "keeping previous zone weights", logger.NewAttr("error", err.Error()))
				return
			}
			log.Info(context.Background(), "zone weights reloaded", logger.NewAttr("zones", len(t)))
		})
		a, err := newAssignor(zones, collector)
		if err != nil {
			return err
		}

		transporter, err := http.NewTransport(ctx, conf.HTTP, a, store, prometheus.DefaultGatherer, log)
		if err != nil {
			return fmt.Errorf("failed to create HTTP transport: %w", err)
		}
		errs := make(chan error, 1)
		go func() {
			errs <- transporter.Start(ctx)
		}()

		select {
		case err := <-errs:
			return err
		case <-ctx.Done():
		}
		ctx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
		defer cancel()
		if err := transporter.Close(ctx); err != nil {
			log.Error(ctx, "failed to close transporter", logger.NewAttr("error", err.Error()))
		}
		return nil
	},
}
