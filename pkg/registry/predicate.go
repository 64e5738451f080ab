package registry

import (
	"strings"

	"coinsreg/pkg/coins"
)

// Predicate decides view membership
type Predicate func(c coins.Config) bool

// LessFunc orders a view, ties are broken by registry row
type LessFunc func(a, b coins.Config) bool

// And matches when every predicate matches, nil predicates are skipped
func And(ps ...Predicate) Predicate {
	return func(c coins.Config) bool {
		for _, p := range ps {
			if p != nil && !p(c) {
				return false
			}
		}
		return true
	}
}

// Or matches when any non-nil predicate matches
func Or(ps ...Predicate) Predicate {
	return func(c coins.Config) bool {
		for _, p := range ps {
			if p != nil && p(c) {
				return true
			}
		}
		return false
	}
}

func Not(p Predicate) Predicate {
	return func(c coins.Config) bool {
		return !p(c)
	}
}

// ByCoinType matches one category, coins.All matches everything
func ByCoinType(t coins.Type) Predicate {
	return func(c coins.Config) bool {
		return t == coins.All || c.CoinType == t
	}
}

func Enabled(c coins.Config) bool {
	return c.CurrentlyEnabled
}

// NotEnabled is the default "enableable" rule: coins that are not enabled yet
func NotEnabled(c coins.Config) bool {
	return !c.CurrentlyEnabled
}

func Checked(c coins.Config) bool {
	return c.Checked
}

// Search case-insensitive substring match on ticker+name, "" matches everything
func Search(pattern string) Predicate {
	pattern = strings.ToLower(pattern)
	return func(c coins.Config) bool {
		return pattern == "" || strings.Contains(strings.ToLower(c.TickerAndName()), pattern)
	}
}

// ByNameFold case-insensitive name ascending, the default view order
func ByNameFold(a, b coins.Config) bool {
	return strings.ToLower(a.Name) < strings.ToLower(b.Name)
}

// ByTicker ticker ascending, case-sensitive
func ByTicker(a, b coins.Config) bool {
	return a.Ticker < b.Ticker
}
