package activation

import (
	"context"

	"coinsreg/pkg/coins"
	"coinsreg/pkg/registry"
	"coinsreg/pkg/xnats"
)

// Msg one unit of work for the main loop, either a coins request or a function run against the registry
type Msg struct {
	Coins *xnats.CoinsMsg
	Fn    func(reg *registry.Registry)

	ack  func() error
	done chan struct{}
}

// Sink receives the rows touched by every applied request, and the full list after a restore
type Sink interface {
	Mirror(ctx context.Context, seq uint64, changed []coins.Config, checked []string) error
}

// JournalLog one journal line
type JournalLog struct {
	LogID  int64  `json:"logID"`
	Ts     int64  `json:"ts"`
	MsgSeq uint64 `json:"msgSeq"` // highest NATS stream sequence applied so far, this line included
	ReqSeq uint64 `json:"reqSeq"` // stream sequence of this request, 0 for local requests

	Type    string   `json:"type"` // xnats.CoinsMsgTypeStatusReq or xnats.CoinsMsgTypeCheckReq
	Tickers []string `json:"tickers"`
	Value   bool     `json:"value"`
	Rows    int      `json:"rows"` // distinct known rows at the time of writing
}

const (
	StateInit      = "Init"
	StateRestoring = "Restoring"
	StateWorking   = "Working"
	StateStopped   = "Stopped"
)
