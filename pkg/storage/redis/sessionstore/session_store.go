/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	redisapi "github.com/redis/go-redis/v9"

	"github.com/credentio/verifier-gateway/pkg/restapi/resterr"
	"github.com/credentio/verifier-gateway/pkg/storage/redis"
)

const (
	keyPrefix = "vpsession"
)

// Store keeps per-session transaction fields in a redis hash, one hash per
// session id. Field access goes through the session field names declared by
// the orchestration service; per-key isolation comes from redis itself.
type Store struct {
	redisClient *redis.Client
	defaultTTL  time.Duration
}

// New creates a Store. ttlSec bounds how long an unanswered transaction's
// secrets stay around; expiry is the only cleanup path for sessions that
// never receive a wallet response.
func New(redisClient *redis.Client, ttlSec int32) *Store {
	return &Store{
		redisClient: redisClient,
		defaultTTL:  time.Duration(ttlSec) * time.Second,
	}
}

// Get returns the value of one named field. A missing session or field
// yields resterr.ErrDataNotFound.
func (s *Store) Get(_ context.Context, sessionID, field string) (string, error) {
	ctxWithTimeout, cancel := s.redisClient.ContextWithTimeout()
	defer cancel()

	value, err := s.redisClient.API().HGet(ctxWithTimeout, resolveRedisKey(sessionID), field).Result()
	if err != nil {
		if errors.Is(err, redisapi.Nil) {
			return "", resterr.ErrDataNotFound
		}

		return "", fmt.Errorf("session field get failed: %w", err)
	}

	return value, nil
}

// Put writes the value of one named field and refreshes the session TTL.
func (s *Store) Put(_ context.Context, sessionID, field, value string) error {
	ctxWithTimeout, cancel := s.redisClient.ContextWithTimeout()
	defer cancel()

	key := resolveRedisKey(sessionID)
	clientAPI := s.redisClient.API()

	if err := clientAPI.HSet(ctxWithTimeout, key, field, value).Err(); err != nil {
		return fmt.Errorf("session field set failed: %w", err)
	}

	if err := clientAPI.Expire(ctxWithTimeout, key, s.defaultTTL).Err(); err != nil {
		return fmt.Errorf("session expire failed: %w", err)
	}

	return nil
}

// Delete removes the whole session document.
func (s *Store) Delete(_ context.Context, sessionID string) error {
	ctxWithTimeout, cancel := s.redisClient.ContextWithTimeout()
	defer cancel()

	if err := s.redisClient.API().Del(ctxWithTimeout, resolveRedisKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("session delete failed: %w", err)
	}

	return nil
}

func resolveRedisKey(id string) string {
	return fmt.Sprintf("%s-%s", keyPrefix, id)
}
