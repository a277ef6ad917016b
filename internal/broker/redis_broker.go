package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisChatBroker implements ChatBroker on Redis pub/sub with one channel
// per room.
type RedisChatBroker struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisChatBroker(redisURL string) (*RedisChatBroker, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisChatBroker{
		client: client,
		ctx:    ctx,
	}, nil
}

func roomChannel(roomID uint) string {
	return fmt.Sprintf("chat:room:%d", roomID)
}

func (b *RedisChatBroker) Publish(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return b.client.Publish(b.ctx, roomChannel(event.RoomID), data).Err()
}

func (b *RedisChatBroker) Subscribe(roomID uint) (Subscription, error) {
	pubsub := b.client.Subscribe(b.ctx, roomChannel(roomID))

	// Wait for the subscription to be confirmed before handing it out
	if _, err := pubsub.Receive(b.ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	events := make(chan Event, 100)

	go func() {
		defer close(events)

		for redisMsg := range pubsub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(redisMsg.Payload), &event); err != nil {
				continue
			}
			events <- event
		}
	}()

	return &redisSubscription{pubsub: pubsub, events: events}, nil
}

func (b *RedisChatBroker) Close() error {
	return b.client.Close()
}

type redisSubscription struct {
	pubsub *redis.PubSub
	events chan Event
}

func (s *redisSubscription) Events() <-chan Event {
	return s.events
}

func (s *redisSubscription) Close() error {
	return s.pubsub.Close()
}
