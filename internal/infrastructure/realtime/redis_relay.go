package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/logger"
	pkgredis "github.com/TRAPZZY/AGRO--007-sub000/pkg/redis"
	"go.uber.org/zap"
)

// RedisRelay shares change events between processes over a Redis channel.
// Published events go to Redis only; every process, including the publisher,
// receives them back and delivers them to its local hub.
type RedisRelay struct {
	hub     *Hub
	channel string

	ready    chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewRedisRelay creates a relay feeding hub from channel
func NewRedisRelay(hub *Hub, channel string) *RedisRelay {
	return &RedisRelay{
		hub:     hub,
		channel: channel,
		ready:   make(chan struct{}),
		stop:    make(chan struct{}),
	}
}

// Start subscribes to the channel and begins relaying. It returns once the
// subscription is confirmed.
func (r *RedisRelay) Start(ctx context.Context) error {
	sub := pkgredis.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	close(r.ready)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-r.stop:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev entities.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					logger.Warn(context.Background(), "Discarding malformed change event", zap.Error(err))
					continue
				}
				r.hub.Deliver(context.Background(), ev)
			}
		}
	}()

	logger.Info(ctx, "Realtime relay started", zap.String("channel", r.channel))
	return nil
}

// Ready is closed once the relay's subscription is live
func (r *RedisRelay) Ready() <-chan struct{} { return r.ready }

// Publish sends event to every process through Redis
func (r *RedisRelay) Publish(ctx context.Context, event entities.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}
	return pkgredis.Publish(ctx, r.channel, payload)
}

// Subscribe opens a subscription on the local hub
func (r *RedisRelay) Subscribe(table string, filter *entities.Filter) repositories.Subscription {
	return r.hub.Subscribe(table, filter)
}

// Stop ends relaying
func (r *RedisRelay) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	r.wg.Wait()
}
