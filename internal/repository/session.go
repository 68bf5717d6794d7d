package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/illancapan/uno-test-full-stack/internal/apperror"
	"github.com/illancapan/uno-test-full-stack/internal/entity"
)

// maxUpdateRetries bounds optimistic transaction retries when two updates race on one session.
const maxUpdateRetries = 5

// UpdateFunc mutates a session in place. Returning an error aborts the update.
type UpdateFunc func(session *entity.Session) error

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	Update(ctx context.Context, id string, fn UpdateFunc) (*entity.Session, error)
}

type dbSession struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionRepository stores sessions in redis. Keys expire ttl after the last write; zero ttl disables expiry.
func NewSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &dbSession{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

func (that *dbSession) Create(ctx context.Context, session *entity.Session) error {
	session.Reset()
	session.UpdatedAt = that.now()

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	err = that.client.Set(ctx, sessionKey(session.ID), sessionJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *dbSession) Get(ctx context.Context, id string) (*entity.Session, error) {
	response, err := that.client.Get(ctx, sessionKey(id)).Bytes()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	return decodeSession(response)
}

// Update applies fn inside a WATCH transaction so concurrent flips on one session never interleave.
func (that *dbSession) Update(ctx context.Context, id string, fn UpdateFunc) (*entity.Session, error) {
	key := sessionKey(id)

	var updated *entity.Session
	txf := func(tx *redis.Tx) error {
		response, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return apperror.ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get session by id: %w", err)
		}

		session, err := decodeSession(response)
		if err != nil {
			return err
		}

		if err = fn(session); err != nil {
			return err
		}
		session.UpdatedAt = that.now()

		sessionJSON, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("could not marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, sessionJSON, that.ttl)
			return nil
		})
		if err != nil {
			return err //nolint: wrapcheck // TxFailedErr is checked by the caller
		}

		updated = session
		return nil
	}

	for range maxUpdateRetries {
		err := that.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return nil, apperror.ErrSessionBusy
}

func decodeSession(data []byte) (*entity.Session, error) {
	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if session.FlippedCards == nil {
		session.FlippedCards = []string{}
	}

	return &session, nil
}
