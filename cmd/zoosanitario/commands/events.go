package commands

import (
	"errors"
	"fmt"

	kafka "github.com/esmeraldas/zoosanitario/internal/infrastructure/messaging/kafka/repositories/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func eventsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Domain event bus",
	}

	var count int
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print events as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.cfg.EventsEnabled() {
				return errors.New("events are disabled: set events.brokers or ZOO_KAFKA_BROKERS")
			}
			mq, err := kafka.InitializeKafkaMessageQueue(kafka.KafkaMessageQueueParams{
				Brokers: c.cfg.Events.Brokers,
				Topic:   c.cfg.Events.Topic,
				GroupID: c.cfg.Events.GroupID,
				Consume: true,
			})
			if err != nil {
				return err
			}
			q := mq.(*kafka.KafkaMessageQueue)
			defer q.Close()

			out := cmd.OutOrStdout()
			ctx := cmd.Context()
			for seen := 0; count <= 0 || seen < count; {
				select {
				case <-ctx.Done():
					return nil
				case err := <-q.Errors():
					c.wire.Logger.Warn("event bus", zap.Error(err))
				case e, ok := <-q.ToConsumeBuffered():
					if !ok {
						return nil
					}
					seen++
					fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", e.OccurredAt.Local().Format("2006-01-02 15:04:05"), e.Type, e.Subject, e.Payload)
				}
			}
			return nil
		},
	}
	tail.Flags().IntVarP(&count, "count", "n", 0, "stop after n events (0 follows forever)")

	cmd.AddCommand(tail)
	return cmd
}
