package coins

import (
	"errors"
	"sort"
)

// Role a named field of Config, the names are what rendering code binds against
type Role int

const (
	TickerRole Role = iota + 1
	GuiTickerRole
	NameRole
	IsClaimableRole
	CurrentlyEnabledRole
	ActiveRole
	IsCustomCoinRole
	TypeRole
	CoinTypeRole
	TickerAndNameRole
	CheckedRole
)

var ErrUnknownRole = errors.New("unknown role")

var roleNames = map[Role]string{
	TickerRole:           "ticker",
	GuiTickerRole:        "gui_ticker",
	NameRole:             "name",
	IsClaimableRole:      "is_claimable",
	CurrentlyEnabledRole: "enabled",
	ActiveRole:           "active",
	IsCustomCoinRole:     "is_custom_coin",
	TypeRole:             "type",
	CoinTypeRole:         "coin_type",
	TickerAndNameRole:    "ticker_and_name",
	CheckedRole:          "checked",
}

var rolesByName = func() map[string]Role {
	m := make(map[string]Role, len(roleNames))
	for r, n := range roleNames {
		m[n] = r
	}
	return m
}()

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return "unknown"
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// Mutable reports whether the registry accepts writes for r
func (r Role) Mutable() bool {
	return r == CurrentlyEnabledRole || r == ActiveRole || r == CheckedRole
}

// RoleNames returns a copy of the role -> name table
func RoleNames() map[Role]string {
	m := make(map[Role]string, len(roleNames))
	for r, n := range roleNames {
		m[r] = n
	}
	return m
}

// Roles returns every role in declaration order
func Roles() []Role {
	rs := make([]Role, 0, len(roleNames))
	for r := range roleNames {
		rs = append(rs, r)
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i] < rs[j] })
	return rs
}

func ParseRole(name string) (Role, error) {
	if r, ok := rolesByName[name]; ok {
		return r, nil
	}
	return 0, ErrUnknownRole
}
