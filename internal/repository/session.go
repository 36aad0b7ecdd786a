package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietanh2810/greenspark-api/internal/domain"
	"github.com/vietanh2810/greenspark-api/internal/repository/dao"
)

var (
	ErrSessionNotFound = dao.ErrSessionNotFound
)

type SessionDAO interface {
	Insert(ctx context.Context, session dao.Session) (dao.Session, error)
	FindByID(ctx context.Context, id string) (dao.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SessionRepository keeps sessions in the sessions table.
type SessionRepository struct {
	dao SessionDAO
}

func NewSessionRepository(dao SessionDAO) *SessionRepository {
	return &SessionRepository{
		dao: dao,
	}
}

func (r *SessionRepository) Create(ctx context.Context, session domain.Session) error {
	_, err := r.dao.Insert(ctx, dao.Session{
		ID:          session.ID,
		Kind:        string(session.Kind),
		PrincipalID: session.PrincipalID,
		ExpiresAt:   session.ExpiresAt,
		CreatedAt:   session.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return nil
}

func (r *SessionRepository) Find(ctx context.Context, id string) (domain.Session, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Session{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return domain.Session{
		ID:          found.ID,
		Kind:        domain.PrincipalKind(found.Kind),
		PrincipalID: found.PrincipalID,
		ExpiresAt:   found.ExpiresAt,
		CreatedAt:   found.CreatedAt,
	}, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *SessionRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	purged, err := r.dao.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DeleteExpired -> %w", err)
	}

	return purged, nil
}

const redisSessionPrefix = "greenspark:session:"

// RedisSessionRepository keeps sessions in redis with a TTL matching their
// expiry, so redis drops them on its own.
type RedisSessionRepository struct {
	client redis.Cmdable
}

func NewRedisSessionRepository(client redis.Cmdable) *RedisSessionRepository {
	return &RedisSessionRepository{
		client: client,
	}
}

func (r *RedisSessionRepository) Create(ctx context.Context, session domain.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.ID)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	if err := r.client.Set(ctx, redisSessionPrefix+session.ID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("r.client.Set -> %w", err)
	}

	return nil
}

func (r *RedisSessionRepository) Find(ctx context.Context, id string) (domain.Session, error) {
	payload, err := r.client.Get(ctx, redisSessionPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Session{}, ErrSessionNotFound
		}

		return domain.Session{}, fmt.Errorf("r.client.Get -> %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return domain.Session{}, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return session, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisSessionPrefix+id).Err(); err != nil {
		return fmt.Errorf("r.client.Del -> %w", err)
	}

	return nil
}

// PurgeExpired is a no-op: keys expire through their TTL.
func (r *RedisSessionRepository) PurgeExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}
