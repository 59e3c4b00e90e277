package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore binds client ids to identity uids.
//
// Keys:
//
//	photogram:client:<client_id>    -> uid, expires after the session max age
//	photogram:uid:<uid>:clients     -> set of client ids bound to uid
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore whose bindings expire after ttl.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Bind points clientID at uid, replacing any previous binding.
func (s *SessionStore) Bind(ctx context.Context, clientID, uid string) error {
	prev, err := s.Lookup(ctx, clientID)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if prev != "" && prev != uid {
			pipe.SRem(ctx, clientsKey(prev), clientID)
		}
		pipe.Set(ctx, clientKey(clientID), uid, s.ttl)
		pipe.SAdd(ctx, clientsKey(uid), clientID)
		pipe.Expire(ctx, clientsKey(uid), s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("bind session: %w", err)
	}
	return nil
}

// Lookup returns the uid bound to clientID, or "" when there is none.
func (s *SessionStore) Lookup(ctx context.Context, clientID string) (string, error) {
	uid, err := s.client.Get(ctx, clientKey(clientID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup session: %w", err)
	}
	return uid, nil
}

func (s *SessionStore) Unbind(ctx context.Context, clientID string) error {
	uid, err := s.Lookup(ctx, clientID)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, clientKey(clientID))
		if uid != "" {
			pipe.SRem(ctx, clientsKey(uid), clientID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("unbind session: %w", err)
	}
	return nil
}

// ClientsOf lists the client ids bound to uid. Members whose binding has
// expired or moved to another uid are skipped.
func (s *SessionStore) ClientsOf(ctx context.Context, uid string) ([]string, error) {
	members, err := s.client.SMembers(ctx, clientsKey(uid)).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = clientKey(m)
	}
	bound, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	out := make([]string, 0, len(members))
	for i, v := range bound {
		if got, ok := v.(string); ok && got == uid {
			out = append(out, members[i])
		}
	}
	return out, nil
}

func clientKey(clientID string) string {
	return keyPrefix + "client:" + clientID
}

func clientsKey(uid string) string {
	return keyPrefix + "uid:" + uid + ":clients"
}
