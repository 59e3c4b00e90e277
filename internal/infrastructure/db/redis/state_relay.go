package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/photogram/internal/core/domain"
)

// StateChannel is the pub/sub channel carrying auth-state changes.
const StateChannel = keyPrefix + "auth:state"

// ChangeSink receives state changes published by other nodes.
type ChangeSink interface {
	Enqueue(ctx context.Context, change domain.StateChange) error
}

type envelope struct {
	Node   string             `json:"node"`
	Change domain.StateChange `json:"change"`
}

// StateRelay publishes auth-state changes to every node and feeds changes
// from other nodes into a ChangeSink. Each relay has its own node id so it
// can drop its own messages.
type StateRelay struct {
	client *redis.Client
	node   string
	log    zerolog.Logger
}

func NewStateRelay(client *redis.Client, log zerolog.Logger) *StateRelay {
	return &StateRelay{client: client, node: uuid.NewString(), log: log}
}

// Publish sends change to the other nodes.
func (r *StateRelay) Publish(ctx context.Context, change domain.StateChange) error {
	payload, err := encodeEnvelope(r.node, change)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, StateChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish state change: %w", err)
	}
	return nil
}

// Run subscribes to StateChannel and forwards foreign changes to sink until
// ctx is cancelled.
func (r *StateRelay) Run(ctx context.Context, sink ChangeSink) error {
	sub := r.client.Subscribe(ctx, StateChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", StateChannel, err)
	}
	r.log.Info().Str("channel", StateChannel).Str("node", r.node).Msg("state relay subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			change, own, err := decodeEnvelope(r.node, msg.Payload)
			if err != nil {
				r.log.Warn().Err(err).Msg("dropping malformed state change")
				continue
			}
			if own {
				continue
			}
			if err := sink.Enqueue(ctx, change); err != nil {
				r.log.Warn().Err(err).Str("client_id", change.ClientID).Msg("dropping state change on shutdown")
				return nil
			}
		}
	}
}

func encodeEnvelope(node string, change domain.StateChange) (string, error) {
	b, err := json.Marshal(envelope{Node: node, Change: change})
	if err != nil {
		return "", fmt.Errorf("encode state change: %w", err)
	}
	return string(b), nil
}

// decodeEnvelope parses payload and reports whether it came from node.
func decodeEnvelope(node, payload string) (domain.StateChange, bool, error) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return domain.StateChange{}, false, fmt.Errorf("decode state change: %w", err)
	}
	if env.Change.ClientID == "" {
		return domain.StateChange{}, false, fmt.Errorf("decode state change: missing client id")
	}
	return env.Change, env.Node == node, nil
}
