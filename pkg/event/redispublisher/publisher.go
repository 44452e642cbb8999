/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package redispublisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/credentio/verifier-gateway/internal/logfields"
	"github.com/credentio/verifier-gateway/pkg/event/spi"
	"github.com/credentio/verifier-gateway/pkg/storage/redis"
)

var logger = log.New("event-publisher")

// Publisher emits lifecycle events on a redis channel. Consumers outside the
// gateway (audit, webhooks) subscribe to the topic; the gateway itself never
// reads the channel back.
type Publisher struct {
	redisClient *redis.Client
}

func New(redisClient *redis.Client) *Publisher {
	return &Publisher{redisClient: redisClient}
}

func (p *Publisher) Publish(_ context.Context, topic string, messages ...*spi.Event) error {
	ctxWithTimeout, cancel := p.redisClient.ContextWithTimeout()
	defer cancel()

	for _, event := range messages {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}

		if err = p.redisClient.API().Publish(ctxWithTimeout, topic, payload).Err(); err != nil {
			return fmt.Errorf("publish event to %s: %w", topic, err)
		}

		logger.Debug("event published", logfields.WithEvent(event))
	}

	return nil
}
