package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akihiro17/kafka-ec2/assignor"
	"github.com/akihiro17/kafka-ec2/kafka"
	"github.com/akihiro17/kafka-ec2/metrics"
	"github.com/akihiro17/kafka-ec2/model"
)

var (
	planRoster string
	planTopics []string
	planSource string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the assignment a group would get",
	Long: `Compute the assignment for the members listed in a roster file.

Partitions come from the local metadata database (--source store) or from a
Kafka cluster (--source kafka, using kafka.brokers).

Example:
  kafka-ec2 plan --roster members.yaml --topics orders,payments`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		f, err := os.Open(planRoster)
		if err != nil {
			return fmt.Errorf("failed to open roster: %w", err)
		}
		defer f.Close()
		roster, err := model.DecodeRoster(f)
		if err != nil {
			return err
		}

		var lister assignor.PartitionLister
		switch planSource {
		case "store":
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)
			lister = store
		case "kafka":
			client, err := kafka.NewClient(conf.Kafka)
			if err != nil {
				return err
			}
			defer client.Close()
			lister = kafka.NewClientLister(client)
		default:
			return fmt.Errorf("unknown partition source %q", planSource)
		}

		zones, err := loader.ZoneWeights()
		if err != nil {
			return err
		}
		a, err := newAssignor(zones, metrics.NewNop())
		if err != nil {
			return err
		}
		assignment, err := a.Assign(ctx, roster, planTopics, lister)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(assignment)
	},
}

func init() {
	planCmd.Flags().StringVar(&planRoster, "roster", "members.yaml", "YAML file mapping member ids to host metadata")
	planCmd.Flags().StringSliceVar(&planTopics, "topics", nil, "Topics to assign")
	planCmd.Flags().StringVar(&planSource, "source", "store", "Where partitions come from (store, kafka)")
	_ = planCmd.MarkFlagRequired("topics")
}
