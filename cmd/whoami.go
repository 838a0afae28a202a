package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akihiro17/kafka-ec2/ec2"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print this instance's member metadata string",
	Long: `Print "instanceId,instanceType,availabilityZone" read from the EC2
instance metadata service. Consumers advertise this string as their group
member user data.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		metadata, err := ec2.MemberMetadata(cmd.Context(), ec2.NewClient())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), metadata)
		return err
	},
}
