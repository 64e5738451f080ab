package xetcd

import (
	"context"
	"errors"
	"strings"
	"time"

	"coinsreg/pkg/xlog"

	clientv3 "go.etcd.io/etcd/client/v3"
)

type Worker struct {
	Cli *clientv3.Client
}

var Shared *Worker
var logger = xlog.GetLogger()

var ErrNotFound = errors.New("not found")

func New(urls []string) (w *Worker, err error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   urls,
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return
	}

	w = &Worker{
		Cli: cli,
	}

	return
}

// InitShared connects to the comma separated urls and checks the first endpoint answers
func InitShared(urls string) (err error) {
	Shared, err = New(strings.Split(urls, ","))
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = Shared.Cli.Status(ctx, Shared.Cli.Endpoints()[0])
	if err != nil {
		Shared.Cli.Close()
		Shared = nil
	}

	return
}

func (w *Worker) Get(ctx context.Context, k string) (v string, err error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)

	defer func() {
		if err != nil {
			logger.Errorf("xetcd Get k:%s failed with err:%s", k, err)
		} else {
			logger.Debugf("xetcd Get k:%s, v:%s", k, v)
		}
		cancel()
	}()

	r, err := w.Cli.Get(ctx, k)
	if err != nil {
		return
	}
	if r.Kvs == nil || r.Count == 0 {
		err = ErrNotFound
		return
	}

	v = string(r.Kvs[0].Value)
	return
}

func (w *Worker) Put(ctx context.Context, k string, v string) (err error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)

	defer func() {
		if err != nil {
			logger.Errorf("xetcd Put k:%s, v:%s failed with err:%s", k, v, err)
		} else {
			logger.Debugf("xetcd Put k:%s, v:%s", k, v)
		}
		cancel()
	}()

	_, err = w.Cli.Put(ctx, k, v)
	return
}

// Get reads k through the Shared client
func Get(ctx context.Context, k string) (string, error) {
	if Shared == nil {
		return "", errors.New("xetcd not initialized")
	}
	return Shared.Get(ctx, k)
}

// Put writes k through the Shared client
func Put(ctx context.Context, k string, v string) error {
	if Shared == nil {
		return errors.New("xetcd not initialized")
	}
	return Shared.Put(ctx, k, v)
}

// Resolve returns the value of k, or fallback when etcd is off or has no entry
func Resolve(ctx context.Context, k, fallback string) string {
	if Shared == nil {
		return fallback
	}
	v, err := Shared.Get(ctx, k)
	if err != nil || v == "" {
		return fallback
	}
	return v
}

// KeyCoinsService grpc address of a registry instance
func KeyCoinsService(instance string) string {
	return "coins_service_" + strings.ToLower(instance)
}

// KeyNatsService nats url serving a registry instance
func KeyNatsService(instance string) string {
	return "nats_coins_" + strings.ToLower(instance)
}
