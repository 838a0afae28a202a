package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Manage topic partitions in the local metadata database",
}

var topicsPutCount int

var topicsPutCmd = &cobra.Command{
	Use:   "put <topic>...",
	Short: "Store topics with partitions 0..count-1",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if topicsPutCount < 0 {
			return fmt.Errorf("count must not be negative")
		}
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		partitions := make([]int32, topicsPutCount)
		for i := range partitions {
			partitions[i] = int32(i)
		}
		tx, err := store.BeginTransaction(ctx, true)
		if err != nil {
			return err
		}
		for _, topic := range args {
			if err := store.PutTopicInTx(ctx, tx, topic, partitions); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
		return tx.Commit()
	},
}

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored topics and their partition counts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		topics, err := store.Topics(ctx)
		if err != nil {
			return err
		}
		for _, topic := range topics {
			partitions, err := store.PartitionsForTopic(ctx, topic)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", topic, len(partitions))
		}
		return nil
	},
}

var topicsDeleteCmd = &cobra.Command{
	Use:   "delete <topic>",
	Short: "Remove a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close(ctx)
		return store.DeleteTopic(ctx, args[0])
	},
}

func init() {
	topicsPutCmd.Flags().IntVar(&topicsPutCount, "count", 1, "Number of partitions")
	topicsCmd.AddCommand(topicsPutCmd, topicsListCmd, topicsDeleteCmd)
}
