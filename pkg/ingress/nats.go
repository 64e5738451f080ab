// Package ingress sends status and check requests to registry instances over NATS.
package ingress

import (
	"context"
	"strings"
	"sync"

	"coinsreg/pkg/xlog"
	"coinsreg/pkg/xnats"

	"github.com/nats-io/nats.go"
)

var logger = xlog.GetLogger()

// Worker keeps one connection per registry instance
type Worker struct {
	// URL resolves the nats url of an instance
	URL func(ctx context.Context, instance string) string

	mu   sync.Mutex
	conn map[string]*nats.Conn
	pubs map[string]*xnats.Publisher
}

func New(url func(ctx context.Context, instance string) string) *Worker {
	return &Worker{
		URL:  url,
		conn: map[string]*nats.Conn{},
		pubs: map[string]*xnats.Publisher{},
	}
}

// GetPublisher connects to the nats of instance on first use
func (w *Worker) GetPublisher(ctx context.Context, instance string) (pub *xnats.Publisher, err error) {
	instance = strings.ToUpper(instance)

	w.mu.Lock()
	defer w.mu.Unlock()

	if pub = w.pubs[instance]; pub != nil {
		return
	}

	url := w.URL(ctx, instance)
	nc, js, err := xnats.Connect(url)
	if err != nil {
		return
	}
	if err = xnats.EnsureStream(js); err != nil {
		nc.Close()
		return
	}
	logger.Infof("ingress connected %s for %s", url, instance)

	pub = xnats.NewPublisher(js, instance)
	w.conn[instance] = nc
	w.pubs[instance] = pub
	return
}

func (w *Worker) SendStatusReq(ctx context.Context, instance string, req xnats.StatusReq) (seq uint64, err error) {
	pub, err := w.GetPublisher(ctx, instance)
	if err != nil {
		return
	}
	return pub.PublishStatus(req)
}

func (w *Worker) SendCheckReq(ctx context.Context, instance string, req xnats.CheckReq) (seq uint64, err error) {
	pub, err := w.GetPublisher(ctx, instance)
	if err != nil {
		return
	}
	return pub.PublishCheck(req)
}

// Close drops every connection
func (w *Worker) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for k, nc := range w.conn {
		nc.Close()
		delete(w.conn, k)
		delete(w.pubs, k)
	}
}
