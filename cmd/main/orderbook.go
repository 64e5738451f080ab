package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"coinsreg/pkg/activation"
	"coinsreg/pkg/coins"
	"coinsreg/pkg/config"
	"coinsreg/pkg/filedb"
	"coinsreg/pkg/orderbook"
	"coinsreg/pkg/registry"
)

// startOrderbook prints the orders of an orderbook file whose coin is enabled in the registry
//
//	the registry is rebuilt from the coins file and the journal of the instance
func startOrderbook(ctx context.Context) (err error) {
	if fFile == "" {
		return errors.New("empty file")
	}
	b, err := os.ReadFile(fFile)
	if err != nil {
		return
	}
	ob, err := orderbook.ParseOrderbook(b)
	if err != nil {
		return
	}

	records, err := coins.Load(config.Shared.CoinsPath())
	if err != nil {
		return
	}
	fdb, err := filedb.New(journalPath(fInstance))
	if err != nil {
		return
	}
	defer fdb.Close()

	reg := registry.New()
	w, err := activation.New(fInstance, reg, activation.WithJournal(fdb))
	if err != nil {
		return
	}
	if err = w.Load(ctx, records); err != nil {
		return
	}
	enabled := registry.NewView(reg, "enabled", registry.Enabled, registry.ByTicker)
	isEnabled := map[string]bool{}
	for _, t := range enabled.Tickers() {
		isEnabled[t] = true
	}

	fmt.Printf("%s/%s asks:%d bids:%d, enabled coins:%d\n", ob.Base, ob.Rel, len(ob.Asks), len(ob.Bids), enabled.Count())
	for _, side := range []struct {
		name   string
		orders []orderbook.OrderContents
	}{{"ask", ob.Asks}, {"bid", ob.Bids}} {
		for _, o := range side.orders {
			if !isEnabled[o.Coin] {
				continue
			}
			fmt.Printf("%s %-8s price:%s maxvolume:%s minvolume:%s total:%s depth:%s%% uuid:%s mine:%t\n",
				side.name, o.Coin, o.Price, o.MaxVolume, o.MinVolume, o.Total, o.DepthPercent, o.UUID, o.IsMine)
		}
	}
	return
}
