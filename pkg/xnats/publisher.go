package xnats

import (
	"encoding/json"
	"time"

	"coinsreg/pkg/xlog"

	"github.com/nats-io/nats.go"
)

var logger = xlog.GetLogger()

// Connect opens a JetStream context on url
func Connect(url string) (nc *nats.Conn, js nats.JetStreamContext, err error) {
	nc, err = nats.Connect(url, nats.Name("coinsreg"), nats.Timeout(5*time.Second))
	if err != nil {
		return
	}

	js, err = nc.JetStream(nats.PublishAsyncMaxPending(256))
	if err != nil {
		nc.Close()
		nc = nil
	}
	return
}

// EnsureStream creates the COINS stream when it does not exist yet
func EnsureStream(js nats.JetStreamContext) (err error) {
	_, err = js.StreamInfo(StreamName)
	if err == nil {
		return
	}
	if err != nats.ErrStreamNotFound {
		return
	}

	logger.Infof("creating nats stream %s(%s)", StreamName, StreamSubject)
	_, err = js.AddStream(&nats.StreamConfig{
		Name:     StreamName,
		Subjects: []string{StreamSubject},
	})
	return
}

// Publisher sends status and check requests to one registry instance
type Publisher struct {
	js       nats.JetStreamContext
	instance string
}

func NewPublisher(js nats.JetStreamContext, instance string) *Publisher {
	return &Publisher{js: js, instance: instance}
}

func (p *Publisher) PublishStatus(req StatusReq) (seq uint64, err error) {
	if req.Time == 0 {
		req.Time = time.Now().UnixNano()
	}
	return p.publish(CoinsMsgTypeStatusReq, req)
}

func (p *Publisher) PublishCheck(req CheckReq) (seq uint64, err error) {
	if req.Time == 0 {
		req.Time = time.Now().UnixNano()
	}
	return p.publish(CoinsMsgTypeCheckReq, req)
}

func (p *Publisher) publish(msgType string, v any) (seq uint64, err error) {
	subject := Subject(p.instance, msgType)
	defer func() {
		if err != nil {
			logger.Errorf("publish %s failed with err:%s", subject, err)
		} else {
			logger.Debugf("publish %s done with seq:%d", subject, seq)
		}
	}()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	ack, err := p.js.Publish(subject, data)
	if err != nil {
		return
	}
	seq = ack.Sequence
	return
}
