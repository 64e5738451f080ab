package xnats_test

import (
	"testing"
	"time"

	"coinsreg/pkg/xnats"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "COINS.MAIN.StatusReq", xnats.Subject("main", xnats.CoinsMsgTypeStatusReq))
	assert.Equal(t, "COINS.MAIN.*", xnats.SubjectAll("Main"))
}

func TestDecode(t *testing.T) {
	msg, err := xnats.Decode(&nats.Msg{
		Subject: "COINS.MAIN.StatusReq",
		Data:    []byte(`{"tickers":["KMD","BTC"],"status":true,"reason":"enable_coins"}`),
	})
	require.Nil(t, err)
	assert.Equal(t, xnats.CoinsMsgTypeStatusReq, msg.Type)
	require.NotNil(t, msg.StatusReq)
	assert.Equal(t, []string{"KMD", "BTC"}, msg.StatusReq.Tickers)
	assert.True(t, msg.StatusReq.Status)
	assert.Nil(t, msg.CheckReq)
	assert.Zero(t, msg.Seq)

	msg, err = xnats.Decode(&nats.Msg{
		Subject: "COINS.MAIN.CheckReq",
		Data:    []byte(`{"tickers":["ETH"],"checked":true}`),
	})
	require.Nil(t, err)
	require.NotNil(t, msg.CheckReq)
	assert.True(t, msg.CheckReq.Checked)

	_, err = xnats.Decode(&nats.Msg{Subject: "COINS.MAIN.OrderReq", Data: []byte(`{}`)})
	assert.ErrorIs(t, err, xnats.ErrUnknownSubject)

	_, err = xnats.Decode(&nats.Msg{Subject: "COINS.MAIN.CheckReq", Data: []byte(`{`)})
	assert.Error(t, err)
}

// needs a local nats-server with JetStream enabled
func TestCreateStream(t *testing.T) {
	nc, err := nats.Connect(nats.DefaultURL, nats.Timeout(time.Second))
	if err != nil {
		t.Skipf("nats not available: %s", err)
	}
	defer nc.Close()

	js, err := nc.JetStream()
	require.Nil(t, err)
	require.Nil(t, xnats.EnsureStream(js))
	require.Nil(t, xnats.EnsureStream(js))

	seq, err := xnats.NewPublisher(js, "test").PublishCheck(xnats.CheckReq{Tickers: []string{"KMD"}, Checked: true})
	require.Nil(t, err)
	assert.NotZero(t, seq)
}
