package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

const DefaultChannel = "minimart:changes"

// RedisRelay publishes events through a Redis channel and feeds everything it
// hears back into a local broker, so every instance sees every write.
type RedisRelay struct {
	client  *redis.Client
	channel string
	local   Publisher

	readyOnce sync.Once
	ready     chan struct{}
}

func NewRedisRelay(client *redis.Client, channel string, local Publisher) *RedisRelay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisRelay{
		client:  client,
		channel: channel,
		local:   local,
		ready:   make(chan struct{}),
	}
}

func (r *RedisRelay) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return r.client.Publish(ctx, r.channel, payload).Err()
}

// Ready is closed once the relay's subscription is confirmed by Redis.
func (r *RedisRelay) Ready() <-chan struct{} {
	return r.ready
}

// Run relays messages until ctx is done.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	r.readyOnce.Do(func() { close(r.ready) })
	log.Printf("[EVENTS] [INFO] relaying channel %s", r.channel)

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				log.Printf("[EVENTS] [ERROR] bad payload on %s: %v", r.channel, err)
				continue
			}
			if err := r.local.Publish(ctx, e); err != nil {
				log.Printf("[EVENTS] [ERROR] local publish failed: %v", err)
			}
		}
	}
}
