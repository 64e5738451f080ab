package xetcd_test

import (
	"context"
	"testing"

	"coinsreg/pkg/xetcd"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "nats_coins_main", xetcd.KeyNatsService("MAIN"))
	assert.Equal(t, "coins_service_main", xetcd.KeyCoinsService("Main"))
}

func TestResolveWithoutEtcd(t *testing.T) {
	xetcd.Shared = nil
	assert.Equal(t, "nats://127.0.0.1:4222", xetcd.Resolve(context.Background(), xetcd.KeyNatsService("main"), "nats://127.0.0.1:4222"))

	_, err := xetcd.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, xetcd.Put(context.Background(), "k", "v"))
}
