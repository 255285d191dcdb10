package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

const Channel = "picshare:events"

// Publisher fans out entity change events over redis pub/sub so other
// services can react to writes. It holds no state and performs no reads;
// when redis is not configured every publish is a no-op.
type Publisher struct {
	redis *redis.Client
}

type Event struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     string `json:"id"`
}

func NewPublisher(redisClient *redis.Client) *Publisher {
	return &Publisher{redis: redisClient}
}

// Publish sends the event on the shared channel. Failures are logged and
// swallowed: change events never fail the request that produced them.
func (p *Publisher) Publish(ctx context.Context, entity, action, id string) {
	if p == nil || p.redis == nil {
		return
	}

	payload, err := json.Marshal(Event{Entity: entity, Action: action, ID: id})
	if err != nil {
		return
	}
	if err := p.redis.Publish(ctx, Channel, payload).Err(); err != nil {
		log.Printf("publish %s %s event: %v", entity, action, err)
	}
}
