package registry

import (
	"testing"

	"coinsreg/pkg/coins"

	"github.com/stretchr/testify/assert"
)

func TestPredicates(t *testing.T) {
	eth := coins.Config{Ticker: "ETH", Name: "Ethereum", CoinType: coins.ERC20, CurrentlyEnabled: true}
	btc := coins.Config{Ticker: "BTC", Name: "Bitcoin", CoinType: coins.UTXO, Checked: true}

	assert.True(t, ByCoinType(coins.ERC20)(eth))
	assert.False(t, ByCoinType(coins.ERC20)(btc))
	assert.True(t, ByCoinType(coins.All)(btc))

	assert.True(t, And()(btc))
	assert.True(t, And(nil, Checked)(btc))
	assert.False(t, And(Checked, Enabled)(btc))
	assert.False(t, Or()(btc))
	assert.True(t, Or(nil, Enabled, Checked)(btc))
	assert.True(t, Not(Enabled)(btc))
	assert.True(t, NotEnabled(btc))

	assert.True(t, Search("")(btc))
	assert.True(t, Search("tcbit")(btc))
	assert.False(t, Search("eth")(btc))
}

func TestOrders(t *testing.T) {
	a := coins.Config{Ticker: "b", Name: "alpha"}
	b := coins.Config{Ticker: "a", Name: "Beta"}
	assert.True(t, ByNameFold(a, b))
	assert.False(t, ByNameFold(b, a))
	assert.True(t, ByTicker(b, a))
}

func TestToBool(t *testing.T) {
	for _, v := range []any{true, "1", "true", "T", 1, int64(-3), uint8(1), 0.5} {
		b, err := toBool(v)
		assert.NoError(t, err, "%v", v)
		assert.True(t, b, "%v", v)
	}
	for _, v := range []any{false, "0", "false", 0, uint64(0), 0.0} {
		b, err := toBool(v)
		assert.NoError(t, err, "%v", v)
		assert.False(t, b, "%v", v)
	}
	for _, v := range []any{nil, "yes", []bool{true}} {
		_, err := toBool(v)
		assert.ErrorIs(t, err, ErrInvalidValue, "%v", v)
	}
}

func TestOutOfRangeError(t *testing.T) {
	err := checkIndex("all", 3, 3)
	assert.EqualError(t, err, "all: index 3 out of range [0, 3)")
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.NoError(t, checkIndex("all", 0, 1))
}
