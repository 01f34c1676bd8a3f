package cache

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Subscribe drops keys named in messages on subj. An empty payload or "ALL"
// flushes everything.
func Subscribe(nc *nats.Conn, subj string, c Cache, log *zap.Logger) (*nats.Subscription, error) {
	return nc.Subscribe(subj, invalidationHandler(c, log))
}

func invalidationHandler(c Cache, log *zap.Logger) nats.MsgHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(m *nats.Msg) {
		key := string(m.Data)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Invalidate(ctx, key); err != nil {
			log.Warn("cache invalidation failed", zap.String("key", key), zap.Error(err))
			return
		}
		log.Debug("cache invalidated", zap.String("key", key))
	}
}
