package registry

import (
	"strings"

	"coinsreg/pkg/coins"
)

const EnableableView = "enableable"

// ViewSet the fixed views created with every Registry: one per category, "all" and "enableable"
type ViewSet struct {
	byType     map[coins.Type]*View
	enableable *View
}

func newViewSet(reg *Registry, enableable Predicate) *ViewSet {
	s := &ViewSet{byType: make(map[coins.Type]*View, coins.TypeSize)}
	for _, t := range coins.Types() {
		s.byType[t] = NewView(reg, viewName(t), ByCoinType(t), ByNameFold)
	}
	s.enableable = NewView(reg, EnableableView, enableable, ByNameFold)
	return s
}

// viewName "utxo", "erc20", "qrc20", "smartchain", "all"
func viewName(t coins.Type) string {
	return strings.ToLower(strings.NewReplacer("-", "", " ", "").Replace(t.String()))
}

// Get returns the category view of t, coins.All gives the unfiltered view
func (s *ViewSet) Get(t coins.Type) (*View, bool) {
	v, ok := s.byType[t]
	return v, ok
}

// ByName looks a view up by its name
func (s *ViewSet) ByName(name string) (*View, bool) {
	if name == EnableableView {
		return s.enableable, true
	}
	for _, v := range s.byType {
		if v.name == name {
			return v, true
		}
	}
	return nil, false
}

func (s *ViewSet) QRC20() *View       { return s.byType[coins.QRC20] }
func (s *ViewSet) ERC20() *View       { return s.byType[coins.ERC20] }
func (s *ViewSet) SmartChains() *View { return s.byType[coins.SmartChain] }
func (s *ViewSet) UTXO() *View        { return s.byType[coins.UTXO] }
func (s *ViewSet) All() *View         { return s.byType[coins.All] }
func (s *ViewSet) Enableable() *View  { return s.enableable }

// Each visits the category views in coins.Types order, then the enableable view
func (s *ViewSet) Each(fn func(v *View)) {
	for _, t := range coins.Types() {
		fn(s.byType[t])
	}
	fn(s.enableable)
}
