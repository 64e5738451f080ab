package main

import (
	"context"
	"errors"
	"fmt"

	"coinsreg/pkg/config"
	"coinsreg/pkg/info"
	"coinsreg/pkg/ingress"
	"coinsreg/pkg/xetcd"
	"coinsreg/pkg/xnats"
)

// startIngress publishes one status or check request to the registry instance
//
//	coinsreg -app ingress -tickers KMD,BTC -status=true
//	coinsreg -app ingress -type check -tickers ETH -status=false
func startIngress(ctx context.Context) (err error) {
	tickers := splitTickers(fTickers)
	if len(tickers) == 0 {
		return errors.New("empty tickers")
	}

	ing := ingress.New(func(ctx context.Context, instance string) string {
		return xetcd.Resolve(ctx, xetcd.KeyNatsService(instance), config.Shared.Nats.Url)
	})
	defer ing.Close()

	var seq uint64
	switch fType {
	case "status":
		reason := "disable_coins"
		if fStatus {
			reason = "enable_coins"
		}
		seq, err = ing.SendStatusReq(ctx, fInstance, xnats.StatusReq{Tickers: tickers, Status: fStatus, Reason: reason + "@" + info.ShortID()})
	case "check":
		seq, err = ing.SendCheckReq(ctx, fInstance, xnats.CheckReq{Tickers: tickers, Checked: fStatus})
	default:
		return fmt.Errorf("invalid type %q, only (status, check) avaliable", fType)
	}
	if err != nil {
		return
	}

	logger.Infof("ingress sent %s %v=%t with seq:%d", fType, tickers, fStatus, seq)
	return
}
