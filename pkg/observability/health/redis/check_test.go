/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	redischeck "github.com/credentio/verifier-gateway/pkg/observability/health/redis"
)

func TestSuccess(t *testing.T) {
	redisSrv := miniredis.RunT(t)

	err := redischeck.New([]string{redisSrv.Addr()},
		redischeck.WithMasterName(""),
		redischeck.WithPassword(""),
		redischeck.WithTLSConfig(nil),
	)(context.Background())

	require.NoError(t, err)
}

func TestFailToPingRedis(t *testing.T) {
	errCh := make(chan error)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		errCh <- redischeck.New([]string{"localhost:1"})(ctx)
	}()

	cancel()

	require.ErrorContains(t, <-errCh, "failed to ping redis")
}
