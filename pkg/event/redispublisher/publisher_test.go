/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package redispublisher_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisapi "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/credentio/verifier-gateway/pkg/event/redispublisher"
	"github.com/credentio/verifier-gateway/pkg/event/spi"
	"github.com/credentio/verifier-gateway/pkg/storage/redis"
)

func TestPublisher_Publish(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := redis.New([]string{srv.Addr()})
	require.NoError(t, err)

	subscriber := redisapi.NewClient(&redisapi.Options{Addr: srv.Addr()})
	t.Cleanup(func() { require.NoError(t, subscriber.Close()) })

	sub := subscriber.Subscribe(context.Background(), spi.VerifierEventTopic)
	t.Cleanup(func() { require.NoError(t, sub.Close()) })

	_, err = sub.Receive(context.Background()) // wait for subscription confirmation
	require.NoError(t, err)

	publisher := redispublisher.New(client)

	event := spi.NewEvent("event-1", "source://gateway/verifier", spi.VerifierOIDCInteractionInitiated)
	event.TransactionID = "p1"

	require.NoError(t, publisher.Publish(context.Background(), spi.VerifierEventTopic, event))

	select {
	case msg := <-sub.Channel():
		var received spi.Event

		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &received))
		require.Equal(t, "event-1", received.ID)
		require.Equal(t, spi.VerifierOIDCInteractionInitiated, received.Type)
		require.Equal(t, "p1", received.TransactionID)
	case <-time.After(time.Second):
		t.Fatal("expected an event on the channel")
	}
}
