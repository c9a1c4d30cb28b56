package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/alfredjeanlab/carbon/internal/client"
	"github.com/alfredjeanlab/carbon/internal/server"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check the health of the ledger server",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		grpcAddr, _ := cmd.Flags().GetString("grpc")
		service, _ := cmd.Flags().GetString("service")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		out := cmd.OutOrStdout()

		if grpcAddr != "" {
			resp, err := client.CheckGRPCHealth(ctx, grpcAddr, service)
			if err != nil {
				return fmt.Errorf("checking gRPC health: %w", err)
			}
			if jsonOutput {
				data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(resp)
				if err != nil {
					return fmt.Errorf("marshaling JSON: %w", err)
				}
				fmt.Fprintln(out, string(data))
			} else {
				fmt.Fprintf(out, "gRPC health (%s): %s\n", grpcAddr, resp.GetStatus())
			}
			if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
				return fmt.Errorf("unhealthy: %s", resp.GetStatus())
			}
			return nil
		}

		status, err := carbonClient.Health(ctx)
		if err != nil {
			return fmt.Errorf("checking health: %w", err)
		}

		if jsonOutput {
			printJSON(out, map[string]string{"status": status})
		} else {
			fmt.Fprintf(out, "Health: %s\n", status)
		}

		if status != "ok" {
			return fmt.Errorf("unhealthy: %s", status)
		}
		return nil
	},
}

func init() {
	healthCmd.Flags().String("grpc", "", "check the gRPC health service at this address instead of HTTP")
	healthCmd.Flags().String("service", server.EmissionsService, "service name for the gRPC check")
}
