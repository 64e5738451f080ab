package activation

import (
	"context"
	"time"

	"coinsreg/pkg/xnats"

	"github.com/nats-io/nats.go"
)

// StartSubNats keeps a NATS subscription alive until ctx is done, urlFn is asked for the url on every round
func (w *Worker) StartSubNats(ctx context.Context, urlFn func(ctx context.Context) string) {
	round := 0
	for ctx.Err() == nil {
		round++
		logger.Infof("StartSubNats round:%d started", round)
		err := w.subNatsURL(ctx, urlFn(ctx))
		if err != nil {
			logger.Errorf("StartSubNats round:%d failed with err:%s", round, err)
		} else {
			logger.Infof("StartSubNats round:%d done", round)
		}

		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
		}
	}
}

func (w *Worker) subNatsURL(ctx context.Context, url string) (err error) {
	nc, js, err := xnats.Connect(url)
	if err != nil {
		return
	}
	defer nc.Close()

	if err = xnats.EnsureStream(js); err != nil {
		return
	}
	return w.SubNats(ctx, js)
}

// SubNats forwards the requests of this instance to the main loop, starting after LatestMsgSeq
func (w *Worker) SubNats(ctx context.Context, js nats.JetStreamContext) (err error) {
	ch := make(chan *nats.Msg, 256)
	sub, err := js.ChanSubscribe(xnats.SubjectAll(w.Instance), ch,
		nats.StartSequence(w.LatestMsgSeq.Load()+1), nats.AckAll())
	if err != nil {
		return
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.done:
			return ErrStopped
		case m := <-ch:
			cm, err := xnats.Decode(m)
			if err != nil {
				// a bad payload never becomes valid, drop it
				logger.Errorf("decode %s failed with err:%s", m.Subject, err)
				if err := m.Term(); err != nil {
					logger.Errorf("term %s failed with err:%s", m.Subject, err)
				}
				continue
			}
			if err := w.send(ctx, Msg{Coins: &cm, ack: func() error { return m.Ack() }}); err != nil {
				return err
			}
		}
	}
}
