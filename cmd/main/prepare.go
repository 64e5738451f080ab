package main

import (
	"context"

	"coinsreg/pkg/config"
	"coinsreg/pkg/model"
	"coinsreg/pkg/xetcd"
	"coinsreg/pkg/xnats"
)

// startPrepare prepares mysql, nats and etcd for a registry instance, e.g. with docker compose
func startPrepare(ctx context.Context) (err error) {
	// 1. Prepare database

	if model.GetMySQL() != nil {
		store := model.NewStore(model.GetMySQL(), nil, fInstance)
		if err = store.Migrate(); err != nil {
			return
		}
		logger.Infof("mysql tables migrated for %s", fInstance)
	}

	// 2. Prepare etcd

	if xetcd.Shared != nil {
		if err = xetcd.Put(ctx, xetcd.KeyNatsService(fInstance), config.Shared.Nats.Url); err != nil {
			return
		}
		if err = xetcd.Put(ctx, xetcd.KeyCoinsService(fInstance), config.Shared.Grpc.Addr); err != nil {
			return
		}
	}

	// 3. Prepare nats

	if config.Shared.Nats.Enabled {
		nc, js, err := xnats.Connect(natsURL(ctx))
		if err != nil {
			return err
		}
		defer nc.Close()
		if err = xnats.EnsureStream(js); err != nil {
			return err
		}
	}

	logger.Infof("prepared %s", fInstance)
	return
}
