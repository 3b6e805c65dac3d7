package eventbus

import (
	"context"

	"github.com/annel0/voxel-engine/internal/logging"
)

// StartLoggingListener подписывается на события и пишет их в лог уровня TRACE.
// Тики исключаются, иначе лог забивается.
func StartLoggingListener(bus EventBus, logger *logging.Logger) (Subscription, error) {
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		if ev.EventType == "tick" {
			return
		}
		logger.Trace("[EventBus] %s %s src=%s tick=%d", ev.ID, ev.EventType, ev.Source, ev.Tick)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("🪵 LoggingListener: подписка на события активирована")
	return sub, nil
}
