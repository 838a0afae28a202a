package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/akihiro17/kafka-ec2/config"
	"github.com/akihiro17/kafka-ec2/logger"
	"github.com/akihiro17/kafka-ec2/logger/zerolog"
)

var (
	loader *config.Loader
	conf   *config.Config
	log    logger.Logger
)

var rootCmd = &cobra.Command{
	Use:           "kafka-ec2",
	Short:         "Capacity aware Kafka partition assignment for mixed EC2 fleets",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		loader, err = config.NewLoader(cmd.Flags())
		if err != nil {
			return err
		}
		conf, err = loader.Load()
		if err != nil {
			return err
		}
		level, err := logger.ParseLevel(conf.LogLevel)
		if err != nil {
			return err
		}
		log = zerolog.NewLogger(level)
		return nil
	},
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(planCmd, serveCmd, topicsCmd, whoamiCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
