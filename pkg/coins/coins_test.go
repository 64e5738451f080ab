package coins_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"coinsreg/pkg/coins"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	cases := map[string]coins.Type{
		"UTXO":        coins.UTXO,
		"ERC-20":      coins.ERC20,
		"erc20":       coins.ERC20,
		"QRC-20":      coins.QRC20,
		"Smart Chain": coins.SmartChain,
		"smart_chain": coins.SmartChain,
		"all":         coins.All,
	}
	for in, want := range cases {
		got, err := coins.ParseType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := coins.ParseType("BEP-20")
	assert.ErrorIs(t, err, coins.ErrUnknownType)
	assert.Equal(t, "Unknown", coins.Type(42).String())
	assert.Len(t, coins.Types(), coins.TypeSize)
}

func TestTypeJSON(t *testing.T) {
	b, err := json.Marshal(coins.Config{Ticker: "ETH", CoinType: coins.ERC20})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"coin_type":"ERC-20"`)

	var c coins.Config
	require.NoError(t, json.Unmarshal(b, &c))
	assert.Equal(t, coins.ERC20, c.CoinType)

	assert.Error(t, json.Unmarshal([]byte(`{"coin_type":"nope"}`), &c))
}

func TestValueAndSet(t *testing.T) {
	c := coins.Config{
		Ticker:      "ETH",
		GuiTicker:   "ETH",
		Name:        "ethereum",
		IsClaimable: true,
		Type:        "ERC-20",
		CoinType:    coins.ERC20,
	}

	assert.Equal(t, "ETH", c.Value(coins.TickerRole))
	assert.Equal(t, "ethereum", c.Value(coins.NameRole))
	assert.Equal(t, "ETHethereum", c.Value(coins.TickerAndNameRole))
	assert.Equal(t, coins.ERC20, c.Value(coins.CoinTypeRole))
	assert.Equal(t, true, c.Value(coins.IsClaimableRole))
	assert.Nil(t, c.Value(coins.Role(999)))

	assert.True(t, c.Set(coins.ActiveRole, true))
	assert.True(t, c.Set(coins.CurrentlyEnabledRole, true))
	assert.True(t, c.Set(coins.CheckedRole, true))
	assert.True(t, c.Active && c.CurrentlyEnabled && c.Checked)

	assert.False(t, c.Set(coins.TickerRole, true))
	assert.False(t, c.Set(coins.IsClaimableRole, false))
	assert.True(t, c.IsClaimable)
}

func TestRoles(t *testing.T) {
	names := coins.RoleNames()
	assert.Equal(t, "enabled", names[coins.CurrentlyEnabledRole])
	assert.Equal(t, "ticker_and_name", names[coins.TickerAndNameRole])
	assert.Len(t, coins.Roles(), len(names))
	assert.Equal(t, coins.TickerRole, coins.Roles()[0])

	for r, n := range names {
		got, err := coins.ParseRole(n)
		require.NoError(t, err)
		assert.Equal(t, r, got)
		assert.Equal(t, n, r.String())
	}

	_, err := coins.ParseRole("price")
	assert.ErrorIs(t, err, coins.ErrUnknownRole)

	var mutable []coins.Role
	for _, r := range coins.Roles() {
		if r.Mutable() {
			mutable = append(mutable, r)
		}
	}
	assert.Equal(t, []coins.Role{coins.CurrentlyEnabledRole, coins.ActiveRole, coins.CheckedRole}, mutable)
}

func write(t *testing.T, name, body string) string {
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestLoadJSONList(t *testing.T) {
	p := write(t, "coins.json", `[
		{"ticker":"BTC","name":"Bitcoin","type":"UTXO"},
		{"ticker":"USDT-ERC20","gui_ticker":"USDT","name":"Tether","type":"ERC-20","active":true},
		{"ticker":"BNB","name":"Binance","type":"BEP-20","coin_type":"Smart Chain"}
	]`)

	cfgs, err := coins.Load(p)
	require.NoError(t, err)
	require.Len(t, cfgs, 3)

	assert.Equal(t, coins.UTXO, cfgs[0].CoinType)
	assert.Equal(t, "BTC", cfgs[0].GuiTicker)
	assert.Equal(t, coins.ERC20, cfgs[1].CoinType)
	assert.Equal(t, "USDT", cfgs[1].GuiTicker)
	assert.True(t, cfgs[1].Active)
	// unknown label keeps the explicit coin_type
	assert.Equal(t, coins.SmartChain, cfgs[2].CoinType)
}

func TestLoadJSONObject(t *testing.T) {
	p := write(t, "coins.json", `{
		"KMD": {"name":"Komodo","type":"Smart Chain"},
		"BTC": {"name":"Bitcoin","type":"UTXO"}
	}`)

	cfgs, err := coins.Load(p)
	require.NoError(t, err)
	require.Len(t, cfgs, 2)
	assert.Equal(t, "BTC", cfgs[0].Ticker)
	assert.Equal(t, "KMD", cfgs[1].Ticker)
	assert.Equal(t, coins.SmartChain, cfgs[1].CoinType)
}

func TestLoadYAML(t *testing.T) {
	p := write(t, "coins.yml", `
- ticker: QTUM
  name: Qtum
  type: UTXO
- ticker: QC
  name: Qcash
  type: QRC-20
  is_custom_coin: true
`)

	cfgs, err := coins.Load(p)
	require.NoError(t, err)
	require.Len(t, cfgs, 2)
	assert.Equal(t, coins.QRC20, cfgs[1].CoinType)
	assert.True(t, cfgs[1].IsCustomCoin)
}

func TestLoadErrors(t *testing.T) {
	_, err := coins.Load(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)

	_, err = coins.Load(write(t, "coins.txt", "BTC"))
	assert.Error(t, err)

	_, err = coins.Load(write(t, "coins.json", "[{"))
	assert.Error(t, err)
}

func TestNormalizeKeepsDuplicates(t *testing.T) {
	cfgs := []coins.Config{{Ticker: "BTC"}, {Ticker: "BTC", Name: "again"}}
	assert.Empty(t, coins.Normalize(cfgs))
	assert.Len(t, cfgs, 2)
	assert.Equal(t, "again", cfgs[1].Name)
}

func TestNormalizeReportsUnknownTypes(t *testing.T) {
	cfgs := []coins.Config{
		{Ticker: "BNB", Type: "BEP-20"},
		{Ticker: "MATIC", Type: "PLG-20", CoinType: coins.ERC20},
		{Ticker: "KMD", Type: "smart_chain"},
		{Ticker: "RAW"},
	}

	unknown := coins.Normalize(cfgs)
	assert.Equal(t, []string{"BNB", "MATIC"}, unknown)
	assert.Equal(t, coins.UTXO, cfgs[0].CoinType)
	assert.Equal(t, coins.ERC20, cfgs[1].CoinType)
	assert.Equal(t, coins.SmartChain, cfgs[2].CoinType)
	assert.Equal(t, coins.UTXO, cfgs[3].CoinType)
}
