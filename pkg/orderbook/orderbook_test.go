package orderbook_test

import (
	"encoding/json"
	"testing"

	"coinsreg/pkg/orderbook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const book = `{
  "base": "KMD", "rel": "BTC", "numasks": 2, "numbids": 1,
  "asks": [
    {"coin": "KMD", "address": "RAddr1", "price": "0.5",
     "price_fraction": {"numer": "1", "denom": "2"},
     "maxvolume": "30", "max_volume_fraction": {"numer": "30", "denom": "1"},
     "pubkey": "02aa", "age": 12, "zcredits": 0,
     "uuid": "4b0d3bd2-3c4e-4f7e-9a47-3f7a0c1c2c11", "is_mine": false, "min_volume": "0.0001"},
    {"coin": "KMD", "address": "RAddr2", "price": "0.25",
     "price_fraction": {"numer": "1", "denom": "4"},
     "maxvolume": "10", "max_volume_fraction": {"numer": "10", "denom": "1"},
     "pubkey": "02bb", "age": 3, "zcredits": 1,
     "uuid": "9d1e1c2a-8e57-4c4d-b5a3-6b2ab0e6a7d0", "is_mine": true}
  ],
  "bids": [
    {"coin": "BTC", "address": "1Addr", "price": "2",
     "price_fraction": {"numer": "2", "denom": "1"},
     "maxvolume": "1.5", "max_volume_fraction": {"numer": "3", "denom": "2"},
     "pubkey": "03cc", "age": 1, "zcredits": 0,
     "uuid": "0f6cbb79-6e2e-4a55-8fa6-5d1e3fa1b8a4", "is_mine": false}
  ]
}`

func TestParseOrderbook(t *testing.T) {
	ob, err := orderbook.ParseOrderbook([]byte(book))
	require.NoError(t, err)
	require.Len(t, ob.Asks, 2)
	require.Len(t, ob.Bids, 1)
	assert.Equal(t, "KMD", ob.Base)
	assert.Equal(t, 2, ob.NumAsks)

	a := ob.Asks[0]
	assert.Equal(t, "RAddr1", a.Address)
	assert.Equal(t, "1", a.PriceFractionNumer)
	assert.Equal(t, "2", a.PriceFractionDenom)
	assert.Equal(t, "30", a.MaxVolumeFractionNumer)
	assert.Equal(t, "15", a.Total)
	assert.Equal(t, "0.0001", a.MinVolume)
	assert.Equal(t, "75", a.DepthPercent)
	assert.Equal(t, uint64(12), a.Age)

	b := ob.Asks[1]
	assert.True(t, b.IsMine)
	assert.Equal(t, "0", b.MinVolume)
	assert.Equal(t, "2.5", b.Total)
	assert.Equal(t, "25", b.DepthPercent)

	bid := ob.Bids[0]
	assert.Equal(t, "3", bid.Total)
	assert.Equal(t, "100", bid.DepthPercent)
	vol, err := bid.MaxVolumeRat()
	require.NoError(t, err)
	assert.Equal(t, "1.5", vol.String())

	assert.Equal(t, []string{"KMD", "BTC"}, ob.Coins())
}

func TestOrderContentsDefaults(t *testing.T) {
	var o orderbook.OrderContents
	err := json.Unmarshal([]byte(`{"coin":"KMD","price":"1","maxvolume":"2",
		"uuid":"4b0d3bd2-3c4e-4f7e-9a47-3f7a0c1c2c11","min_volume":null}`), &o)
	require.NoError(t, err)
	assert.Equal(t, "0", o.MinVolume)
	assert.Equal(t, "0", o.DepthPercent)
	assert.Equal(t, "2", o.Total)

	// no fraction sent, fall back to the decimal strings
	p, err := o.PriceRat()
	require.NoError(t, err)
	assert.Equal(t, "1", p.String())
}

func TestOrderContentsErrors(t *testing.T) {
	var o orderbook.OrderContents
	err := json.Unmarshal([]byte(`{"coin":"KMD","price":"1","maxvolume":"2","uuid":"nope"}`), &o)
	assert.ErrorIs(t, err, orderbook.ErrInvalidUUID)

	err = json.Unmarshal([]byte(`{"coin":"KMD","price":"x","maxvolume":"2",
		"uuid":"4b0d3bd2-3c4e-4f7e-9a47-3f7a0c1c2c11"}`), &o)
	assert.Error(t, err)

	_, err = orderbook.Fraction{Numer: "1", Denom: "0"}.Decimal()
	assert.ErrorIs(t, err, orderbook.ErrInvalidFraction)

	d, err := orderbook.Fraction{Numer: "1", Denom: "3"}.Decimal()
	require.NoError(t, err)
	assert.Equal(t, "0.333333333333333333", d.String())
}
