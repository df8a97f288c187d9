package app

import (
	"context"

	"go.uber.org/dig"

	"service-rider-notify/internal/config"
	"service-rider-notify/internal/logx"
	"service-rider-notify/internal/service/dispatch"
	"service-rider-notify/internal/transport/kafka"
)

// makeDispatchKafka turns a dispatch command into a send. Per-channel
// failures are already tracked and counted inside the orchestrator, so
// the handler only fails on errors that happened before any send was
// attempted.
func makeDispatchKafka(o *dispatch.Orchestrator, logger logx.Logger) kafka.HandleFunc {
	return func(ctx context.Context, cmd kafka.Command) error {
		results, err := o.SendOne(ctx, cmd.AssignmentID, cmd.Channel)
		if err != nil {
			return err
		}
		for _, res := range results {
			if !res.Success {
				logger.Warn("dispatch command partially failed",
					logx.String("assignment_id", res.AssignmentID),
					logx.String("channel", string(res.Channel)),
					logx.String("error", res.Error),
				)
			}
		}
		return nil
	}
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		makeDispatchKafka,
		func(cfg *config.Config, logger logx.Logger, h kafka.HandleFunc) (*kafka.Consumer, error) {
			return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, h)
		},
	)
}
