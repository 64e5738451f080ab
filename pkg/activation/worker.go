// Package activation runs the goroutine that owns a coin registry.
//
// Every mutation of the registry goes through the Worker main loop: NATS requests, local
// requests sent with Submit, and arbitrary reads or writes sent with Do. Requests are written
// to the journal before they are applied, and the journal is replayed on start so enabled
// coins survive restarts.
package activation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"coinsreg/pkg/coins"
	"coinsreg/pkg/filedb"
	"coinsreg/pkg/registry"
	"coinsreg/pkg/xlog"
	"coinsreg/pkg/xnats"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var logger = xlog.GetLogger()

var ErrStopped = errors.New("worker stopped")

type metrics struct {
	msgs *prometheus.CounterVec
}

// Worker owns a Registry
type Worker struct {
	Name     string // e.g. Registry_MAIN
	Instance string // e.g. MAIN

	LogID        int64 // ID of the latest journal line
	LatestMsgSeq atomic.Uint64

	reg   *registry.Registry
	ch    chan Msg
	state atomic.Value
	done  chan struct{}

	fdb     *filedb.Filedb
	sink    Sink
	metrics metrics
}

type Option func(*Worker)

// WithJournal writes every request to fdb before applying it
func WithJournal(fdb *filedb.Filedb) Option {
	return func(w *Worker) {
		w.fdb = fdb
	}
}

func WithSink(s Sink) Option {
	return func(w *Worker) {
		w.sink = s
	}
}

// WithRegisterer registers the worker counters, they stay unregistered by default
func WithRegisterer(r prometheus.Registerer) Option {
	return func(w *Worker) {
		w.metrics.msgs = promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "coinsreg_worker_msgs_total",
			Help: "Requests handled by the registry worker, by type and result",
		}, []string{"type", "result"})
	}
}

// New returns a Worker instance, the last journal line gives the starting LogID and LatestMsgSeq
//
//	every line carries the high-water seq, so a trailing local request keeps the NATS position
func New(instance string, reg *registry.Registry, opts ...Option) (w *Worker, err error) {
	instance = strings.ToUpper(instance)
	w = &Worker{
		Name:     "Registry_" + instance,
		Instance: instance,
		reg:      reg,
		ch:       make(chan Msg, 1024),
		done:     make(chan struct{}),
	}
	w.state.Store(StateInit)
	for _, opt := range opts {
		opt(w)
	}
	if w.metrics.msgs == nil {
		WithRegisterer(nil)(w)
	}

	if w.fdb != nil {
		var txt string
		txt, err = w.fdb.ReadLastLine()
		if err != nil {
			return nil, err
		}
		if txt != "" {
			var jl JournalLog
			if err = json.Unmarshal([]byte(txt), &jl); err != nil {
				return nil, fmt.Errorf("last journal line: %w", err)
			}
			w.LogID = jl.LogID
			w.LatestMsgSeq.Store(jl.MsgSeq)
		}
	}

	logger.Infof("%s worker created with logID:%d, latestMsgSeq:%d", w.Name, w.LogID, w.LatestMsgSeq.Load())
	return
}

func (w *Worker) State() string {
	return w.state.Load().(string)
}

// Load initializes the registry with records and replays the journal, call it before Run
func (w *Worker) Load(ctx context.Context, records []coins.Config) (err error) {
	w.state.Store(StateRestoring)
	defer func() {
		if err != nil {
			logger.Errorf("%s Load failed with err:%s", w.Name, err)
		} else {
			logger.Infof("%s Load done with %d coins, logID:%d", w.Name, len(records), w.LogID)
		}
	}()

	w.reg.Initialize(records)
	if err = w.Restore(); err != nil {
		return
	}

	if w.sink != nil {
		if err2 := w.sink.Mirror(ctx, w.LatestMsgSeq.Load(), w.reg.Records(), w.reg.CheckedTickers()); err2 != nil {
			logger.Warningf("%s initial mirror failed with err:%s", w.Name, err2)
		}
	}
	return
}

// Restore replays the status requests of the journal
//
//	checked requests are skipped, Initialize always starts with nothing checked
func (w *Worker) Restore() (err error) {
	if w.fdb == nil {
		return
	}

	n := 0
	err = w.fdb.ReadLines(func(line string) error {
		var jl JournalLog
		if err := json.Unmarshal([]byte(line), &jl); err != nil {
			return fmt.Errorf("journal line %q: %w", line, err)
		}
		if jl.Type == xnats.CoinsMsgTypeStatusReq {
			w.reg.UpdateStatus(jl.Tickers, jl.Value)
			n++
		}
		return nil
	})
	logger.Infof("%s Restore replayed %d status requests", w.Name, n)
	return
}

// Run handles requests sequentially until ctx is done
func (w *Worker) Run(ctx context.Context) (err error) {
	w.state.Store(StateWorking)
	defer func() {
		w.state.Store(StateStopped)
		close(w.done)
		if err != nil {
			logger.Errorf("%s Run stopped with err:%s", w.Name, err)
		} else {
			logger.Infof("%s Run stopped", w.Name)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-w.ch:
			if err = w.handle(ctx, m); err != nil {
				return
			}
		}
	}
}

// Submit queues a coins request
func (w *Worker) Submit(ctx context.Context, cm xnats.CoinsMsg) error {
	return w.send(ctx, Msg{Coins: &cm})
}

// Do runs fn on the worker goroutine and waits for it
func (w *Worker) Do(ctx context.Context, fn func(reg *registry.Registry)) error {
	m := Msg{Fn: fn, done: make(chan struct{})}
	if err := w.send(ctx, m); err != nil {
		return err
	}
	select {
	case <-m.done:
		return nil
	case <-w.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CheckedTickers reads the checked tickers through the main loop
func (w *Worker) CheckedTickers(ctx context.Context) (tickers []string, err error) {
	err = w.Do(ctx, func(reg *registry.Registry) {
		tickers = reg.CheckedTickers()
	})
	return
}

func (w *Worker) send(ctx context.Context, m Msg) error {
	select {
	case w.ch <- m:
		return nil
	case <-w.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) handle(ctx context.Context, m Msg) (err error) {
	if m.Fn != nil {
		w.runFn(m)
		return
	}
	if m.Coins == nil {
		return
	}

	skipped, err := w.applyCoinsMsg(ctx, *m.Coins)
	if err != nil {
		w.metrics.msgs.WithLabelValues(m.Coins.Type, "error").Inc()
		return
	}
	if skipped {
		w.metrics.msgs.WithLabelValues(m.Coins.Type, "skipped").Inc()
	} else {
		w.metrics.msgs.WithLabelValues(m.Coins.Type, "applied").Inc()
	}

	if m.ack != nil {
		if err2 := m.ack(); err2 != nil {
			logger.Errorf("msg(%d) ack failed with err:%s", m.Coins.Seq, err2)
		}
	}
	return nil
}

// runFn calls m.Fn, a panic is logged and the caller is released as usual
func (w *Worker) runFn(m Msg) {
	defer close(m.done)
	defer func() {
		if r := recover(); r != nil {
			w.metrics.msgs.WithLabelValues("Fn", "panic").Inc()
			logger.Errorf("%s Do callback panicked: %v", w.Name, r)
		}
	}()
	m.Fn(w.reg)
}

// applyCoinsMsg journals then applies one request, redelivered NATS messages are skipped
func (w *Worker) applyCoinsMsg(ctx context.Context, cm xnats.CoinsMsg) (skipped bool, err error) {
	if cm.Seq != 0 && cm.Seq <= w.LatestMsgSeq.Load() {
		logger.Warningf("msg seq(%d) <= latestMsgSeq(%d), skip", cm.Seq, w.LatestMsgSeq.Load())
		return true, nil
	}

	jl := JournalLog{
		Ts:     time.Now().UnixNano(),
		MsgSeq: max(cm.Seq, w.LatestMsgSeq.Load()),
		ReqSeq: cm.Seq,
		Type:   cm.Type,
	}
	switch {
	case cm.Type == xnats.CoinsMsgTypeStatusReq && cm.StatusReq != nil:
		jl.Tickers, jl.Value = cm.StatusReq.Tickers, cm.StatusReq.Status
	case cm.Type == xnats.CoinsMsgTypeCheckReq && cm.CheckReq != nil:
		jl.Tickers, jl.Value = cm.CheckReq.Tickers, cm.CheckReq.Checked
	default:
		logger.Warningf("msg seq(%d) with type %q has no payload, skip", cm.Seq, cm.Type)
		return true, nil
	}

	rows := make([]int, 0, len(jl.Tickers))
	seen := make(map[int]bool, len(jl.Tickers))
	for _, t := range jl.Tickers {
		if row, ok := w.reg.IndexOf(t); ok && !seen[row] {
			seen[row] = true
			rows = append(rows, row)
		}
	}
	jl.Rows = len(rows)

	if w.fdb != nil {
		jl.LogID = w.LogID + 1
		var b []byte
		if b, err = json.Marshal(jl); err != nil {
			return
		}
		if err = w.fdb.WriteLine(string(b)); err != nil {
			return
		}
		w.LogID = jl.LogID
	}

	if jl.Type == xnats.CoinsMsgTypeStatusReq {
		w.reg.UpdateStatus(jl.Tickers, jl.Value)
	} else {
		w.reg.SetChecked(jl.Tickers, jl.Value)
	}
	if cm.Seq > 0 {
		w.LatestMsgSeq.Store(cm.Seq)
	}

	if w.sink != nil && len(rows) > 0 {
		changed := make([]coins.Config, len(rows))
		for i, row := range rows {
			changed[i], _ = w.reg.At(row)
		}
		if err2 := w.sink.Mirror(ctx, cm.Seq, changed, w.reg.CheckedTickers()); err2 != nil {
			logger.Errorf("%s mirror seq:%d failed with err:%s", w.Name, cm.Seq, err2)
		}
	}
	return false, nil
}
