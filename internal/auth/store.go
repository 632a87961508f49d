package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// ErrFlowNotFound means the flow id is unknown or the flow expired.
var ErrFlowNotFound = errors.New("auth: login flow not found")

// FlowStore persists in-progress login flows in Redis so the request and
// verify steps can span separate HTTP requests. Flows expire after the
// configured TTL; an abandoned login cleans itself up.
type FlowStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

func NewFlowStore(client *redis.Client, ttl time.Duration) *FlowStore {
	if client == nil {
		panic("auth: FlowStore requires a redis client")
	}
	return &FlowStore{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("auth.flowstore"),
	}
}

func flowKey(id string) string {
	return fmt.Sprintf("login:flow:%s", id)
}

// Save writes the flow under the given id, refreshing its TTL.
func (s *FlowStore) Save(ctx context.Context, id string, f *Flow) error {
	ctx, span := s.tracer.Start(ctx, "auth.flow.save")
	defer span.End()

	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("auth: marshal flow: %w", err)
	}
	if err := s.redis.Set(ctx, flowKey(id), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("auth: save flow: %w", err)
	}
	return nil
}

// Get loads a flow by id.
func (s *FlowStore) Get(ctx context.Context, id string) (*Flow, error) {
	ctx, span := s.tracer.Start(ctx, "auth.flow.get")
	defer span.End()

	raw, err := s.redis.Get(ctx, flowKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrFlowNotFound
		}
		return nil, fmt.Errorf("auth: get flow: %w", err)
	}
	var f Flow
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("auth: decode flow: %w", err)
	}
	return &f, nil
}

// Delete removes a flow. Deleting an unknown id is not an error.
func (s *FlowStore) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "auth.flow.delete")
	defer span.End()

	if err := s.redis.Del(ctx, flowKey(id)).Err(); err != nil {
		return fmt.Errorf("auth: delete flow: %w", err)
	}
	return nil
}
