package xnats

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
)

// StatusReq asks the registry to set active and enabled of tickers to Status
type StatusReq struct {
	Tickers []string `json:"tickers"`
	Status  bool     `json:"status"`
	Time    int64    `json:"time"`   // request creation time, in nanoseconds
	Reason  string   `json:"reason"` // e.g. enable_coins, disable_coins
}

// CheckReq asks the registry to set checked of tickers
type CheckReq struct {
	Tickers []string `json:"tickers"`
	Checked bool     `json:"checked"`
	Time    int64    `json:"time"`
}

type CoinsMsg struct {
	Type string `json:"type"`
	Seq  uint64 `json:"seq"` // stream sequence, 0 when not delivered by JetStream

	StatusReq *StatusReq `json:"statusReq,omitempty"`
	CheckReq  *CheckReq  `json:"checkReq,omitempty"`
}

const (
	CoinsMsgTypeStatusReq = "StatusReq"
	CoinsMsgTypeCheckReq  = "CheckReq"
)

const (
	StreamName    = "COINS"
	StreamSubject = "COINS.*.*"
)

var ErrUnknownSubject = errors.New("unknown coins subject")

// Subject e.g. COINS.MAIN.StatusReq
func Subject(instance, msgType string) string {
	return fmt.Sprintf("%s.%s.%s", StreamName, strings.ToUpper(instance), msgType)
}

// SubjectAll every message type of instance
func SubjectAll(instance string) string {
	return Subject(instance, "*")
}

// Decode reads a CoinsMsg from a nats message, the type comes from the last subject token
func Decode(m *nats.Msg) (msg CoinsMsg, err error) {
	i := strings.LastIndexByte(m.Subject, '.')
	msg.Type = m.Subject[i+1:]

	switch msg.Type {
	case CoinsMsgTypeStatusReq:
		msg.StatusReq = new(StatusReq)
		err = json.Unmarshal(m.Data, msg.StatusReq)
	case CoinsMsgTypeCheckReq:
		msg.CheckReq = new(CheckReq)
		err = json.Unmarshal(m.Data, msg.CheckReq)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownSubject, m.Subject)
	}
	if err != nil {
		return
	}

	// plain core nats messages carry no metadata
	if md, mdErr := m.Metadata(); mdErr == nil {
		msg.Seq = md.Sequence.Stream
	}
	return
}
