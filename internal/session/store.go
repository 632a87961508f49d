package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotFound is returned when no session exists for a token.
var ErrNotFound = errors.New("session: not found")

// Store persists sessions in Redis keyed by opaque tokens. A zero TTL keeps
// records until explicit logout.
type Store struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

func NewStore(redisClient *redis.Client, ttl time.Duration) *Store {
	if redisClient == nil {
		panic("session: redis client cannot be nil")
	}
	return &Store{
		redis:  redisClient,
		ttl:    ttl,
		tracer: otel.Tracer("portal.internal.session"),
	}
}

func (s *Store) key(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Create persists sess and returns the opaque token identifying it.
func (s *Store) Create(ctx context.Context, sess Session) (string, error) {
	ctx, span := s.tracer.Start(ctx, "session.create")
	defer span.End()

	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(sess)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("session: marshal: %w", err)
	}
	token := uuid.NewString()
	if err := s.redis.Set(ctx, s.key(token), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("session: persist: %w", err)
	}
	return token, nil
}

// Get resolves a token to its session, or ErrNotFound.
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "session.get")
	defer span.End()

	data, err := s.redis.Get(ctx, s.key(token)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: load: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	return &sess, nil
}

// Delete destroys a session. Deleting an unknown token is not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "session.delete")
	defer span.End()

	if err := s.redis.Del(ctx, s.key(token)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}
