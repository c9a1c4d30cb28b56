package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/carbon/internal/events"
	"github.com/alfredjeanlab/carbon/internal/model"
	"github.com/alfredjeanlab/carbon/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Stream new emissions as they are recorded",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		natsURL, _ := cmd.Flags().GetString("nats")
		withSync, _ := cmd.Flags().GetBool("sync")
		if natsURL == "" {
			natsURL = os.Getenv("CARBON_NATS_URL")
		}
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL == "" {
			return fmt.Errorf("no NATS URL: pass --nats, set CARBON_NATS_URL or configure a remote")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sub, err := events.NewNATSSubscriber(natsURL,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				log.Printf("nats: disconnected: %v", err)
			}),
			nats.ReconnectHandler(func(_ *nats.Conn) {
				log.Printf("nats: reconnected")
			}),
		)
		if err != nil {
			return fmt.Errorf("connecting to NATS: %w", err)
		}
		defer sub.Close()

		emissions, cancel, err := sub.Subscribe(events.TopicEmissionRecorded)
		if err != nil {
			return fmt.Errorf("subscribing to emissions: %w", err)
		}
		defer cancel()

		var syncs <-chan []byte
		if withSync {
			ch, cancelSync, err := sub.Subscribe(events.TopicSyncExported)
			if err != nil {
				return fmt.Errorf("subscribing to sync events: %w", err)
			}
			defer cancelSync()
			syncs = ch
		}

		return watchEvents(ctx, emissions, syncs, func(e *model.Emission) {
			if jsonOutput {
				printJSON(cmd.OutOrStdout(), e)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  #%d %s/%s  %.3f kg  %s\n",
				e.Timestamp.UTC().Format(timeLayout), e.ID, e.Owner, e.Repo, e.CO2, ui.RenderBadge(e.Badge))
		}, func(ev events.SyncExported) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d emissions to %s\n",
				ui.RenderMuted("synced"), ev.Emissions, ev.Destination)
		})
	},
}

// watchEvents dispatches decoded payloads until ctx is done or the emission
// channel closes. Undecodable payloads are logged and skipped.
func watchEvents(ctx context.Context, emissions, syncs <-chan []byte, onEmission func(*model.Emission), onSync func(events.SyncExported)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case data, ok := <-emissions:
			if !ok {
				return nil
			}
			ev, err := events.DecodeEmissionRecorded(data)
			if err != nil {
				log.Printf("watch: %v", err)
				continue
			}
			onEmission(ev.Emission)
		case data, ok := <-syncs:
			if !ok {
				syncs = nil
				continue
			}
			var ev events.SyncExported
			if err := json.Unmarshal(data, &ev); err != nil {
				log.Printf("watch: decoding sync event: %v", err)
				continue
			}
			onSync(ev)
		}
	}
}

func init() {
	watchCmd.Flags().String("nats", "", "NATS URL (default $CARBON_NATS_URL or the active remote)")
	watchCmd.Flags().Bool("sync", false, "also show backup sync events")
}
