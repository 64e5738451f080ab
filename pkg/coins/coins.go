// Package coins defines the coin configuration record shown by the registry and its roles.
package coins

import (
	"errors"
	"strings"
)

// Type coin category
type Type int8

const (
	UTXO Type = iota
	ERC20
	QRC20
	SmartChain
	All

	// TypeSize number of Type values, All included
	TypeSize = int(All) + 1
)

var typeNames = [TypeSize]string{"UTXO", "ERC-20", "QRC-20", "Smart Chain", "All"}

var ErrUnknownType = errors.New("unknown coin type")

func (t Type) String() string {
	if t < 0 || int(t) >= TypeSize {
		return "Unknown"
	}
	return typeNames[t]
}

// Types returns every category, All last
func Types() []Type {
	return []Type{UTXO, ERC20, QRC20, SmartChain, All}
}

// ParseType maps a category label to a Type, "ERC-20", "erc20" and "ERC 20" are the same
func ParseType(label string) (Type, error) {
	norm := strings.ToUpper(strings.NewReplacer("-", "", "_", "", " ", "").Replace(label))
	switch norm {
	case "UTXO":
		return UTXO, nil
	case "ERC20":
		return ERC20, nil
	case "QRC20":
		return QRC20, nil
	case "SMARTCHAIN":
		return SmartChain, nil
	case "ALL":
		return All, nil
	}
	return UTXO, ErrUnknownType
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) (err error) {
	*t, err = ParseType(string(b))
	return
}

// Config one coin's configuration and its UI state
//
//	Ticker, GuiTicker, Name, IsClaimable, IsCustomCoin, Type, CoinType never change after load,
//	CurrentlyEnabled, Active, Checked are toggled through the registry
type Config struct {
	Ticker       string `json:"ticker" yaml:"ticker"`
	GuiTicker    string `json:"gui_ticker" yaml:"gui_ticker"`
	Name         string `json:"name" yaml:"name"`
	IsClaimable  bool   `json:"is_claimable" yaml:"is_claimable"`
	IsCustomCoin bool   `json:"is_custom_coin" yaml:"is_custom_coin"`
	Type         string `json:"type" yaml:"type"`
	CoinType     Type   `json:"coin_type" yaml:"coin_type"`

	CurrentlyEnabled bool `json:"currently_enabled" yaml:"currently_enabled"`
	Active           bool `json:"active" yaml:"active"`
	Checked          bool `json:"checked" yaml:"checked"`
}

// TickerAndName search key, e.g. "ETHethereum"
func (c Config) TickerAndName() string {
	return c.Ticker + c.Name
}

// Value projects one role of the record, nil for unknown roles
func (c Config) Value(role Role) any {
	switch role {
	case TickerRole:
		return c.Ticker
	case GuiTickerRole:
		return c.GuiTicker
	case NameRole:
		return c.Name
	case IsClaimableRole:
		return c.IsClaimable
	case CurrentlyEnabledRole:
		return c.CurrentlyEnabled
	case ActiveRole:
		return c.Active
	case IsCustomCoinRole:
		return c.IsCustomCoin
	case TypeRole:
		return c.Type
	case CoinTypeRole:
		return c.CoinType
	case TickerAndNameRole:
		return c.TickerAndName()
	case CheckedRole:
		return c.Checked
	}
	return nil
}

// Set writes a mutable role, false for every other role
func (c *Config) Set(role Role, v bool) bool {
	switch role {
	case CurrentlyEnabledRole:
		c.CurrentlyEnabled = v
	case ActiveRole:
		c.Active = v
	case CheckedRole:
		c.Checked = v
	default:
		return false
	}
	return true
}
