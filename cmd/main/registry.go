package main

import (
	"context"
	"path/filepath"
	"strings"

	"coinsreg/pkg/activation"
	"coinsreg/pkg/coins"
	"coinsreg/pkg/config"
	"coinsreg/pkg/filedb"
	"coinsreg/pkg/model"
	"coinsreg/pkg/notify"
	"coinsreg/pkg/registry"
	"coinsreg/pkg/xetcd"
	"coinsreg/pkg/xgrpc"

	"github.com/prometheus/client_golang/prometheus"
)

// journalPath e.g. <data_dir>/filedb/registry_main.log
func journalPath(instance string) string {
	return filepath.Join(config.Shared.DataDir, "filedb", "registry_"+strings.ToLower(instance)+".log")
}

// startRegistry starts the registry app
//
//	a. load the coins file, replay the journal and mirror the state to mysql/redis
//	b. serve grpc health and /metrics, register the grpc address in etcd
//	c. subscribe to status/check requests on NATS
//	d. run the worker main loop until a stop signal
func startRegistry(ctx context.Context) (err error) {
	records, err := coins.Load(config.Shared.CoinsPath())
	if err != nil {
		return
	}

	bus := notify.NewBus(prometheus.DefaultRegisterer)
	reg := registry.New(registry.WithBus(bus))
	bus.Subscribe(notify.EventCheckedCountChanged, func(e notify.Event) {
		logger.Debugf("checked count changed to %d", e.Data.(notify.CheckedCountChanged).Count)
	})

	fdb, err := filedb.New(journalPath(fInstance))
	if err != nil {
		return
	}
	defer fdb.Close()

	opts := []activation.Option{
		activation.WithJournal(fdb),
		activation.WithRegisterer(prometheus.DefaultRegisterer),
	}
	if model.GetMySQL() != nil || model.GetRedis() != nil {
		store := model.NewStore(model.GetMySQL(), model.GetRedis(), fInstance)
		if err = store.Migrate(); err != nil {
			return
		}
		opts = append(opts, activation.WithSink(store))
	}

	w, err := activation.New(fInstance, reg, opts...)
	if err != nil {
		return
	}
	if err = w.Load(ctx, records); err != nil {
		return
	}

	health := xgrpc.NewHealth()
	go func() {
		if err := health.Serve(ctx, config.Shared.Grpc.Addr); err != nil {
			logger.Errorf("grpc health server failed with err:%s", err)
		}
	}()
	go serveMetrics(ctx, config.Shared.Metrics.Addr)

	if xetcd.Shared != nil {
		if err2 := xetcd.Put(ctx, xetcd.KeyCoinsService(fInstance), config.Shared.Grpc.Addr); err2 != nil {
			logger.Warningf("register %s in etcd failed with err:%s", w.Name, err2)
		}
	}

	if config.Shared.Nats.Enabled {
		go w.StartSubNats(ctx, natsURL)
	}

	health.SetServing(true)
	defer health.SetServing(false)

	return w.Run(ctx)
}
