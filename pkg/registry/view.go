package registry

import (
	"strings"

	"coinsreg/pkg/coins"
	"coinsreg/pkg/notify"

	"github.com/google/btree"
)

// entry a member row and the record it had when it was inserted,
// the tree must be searched with the key it was inserted with
type entry struct {
	row int
	cfg coins.Config
}

// View a filtered, sorted projection of a Registry
//
//	members live in a btree ordered by (less, row) and are re-evaluated row by row on every
//	mutation; the index -> row slice is rebuilt lazily on the first read after a change.
type View struct {
	reg    *Registry
	name   string
	filter Predicate
	search string
	less   LessFunc

	tree    *btree.BTreeG[entry]
	members map[int]entry
	rows    []int // nil when stale
}

// NewView attaches a view to reg, a nil filter accepts every row, a nil less sorts by name
func NewView(reg *Registry, name string, filter Predicate, less LessFunc) *View {
	if less == nil {
		less = ByNameFold
	}
	v := &View{
		reg:    reg,
		name:   name,
		filter: filter,
		less:   less,
	}
	v.rebuild()
	reg.attach(v)
	return v
}

func (v *View) Name() string {
	return v.name
}

// Count number of rows currently passing the filter
func (v *View) Count() int {
	return v.tree.Len()
}

// At returns the record at view index i
func (v *View) At(i int) (coins.Config, error) {
	row, err := v.SourceRow(i)
	if err != nil {
		return coins.Config{}, err
	}
	return v.reg.data[row], nil
}

// SourceRow maps view index i to its registry row
func (v *View) SourceRow(i int) (int, error) {
	if err := checkIndex(v.name, i, v.tree.Len()); err != nil {
		return 0, err
	}
	return v.visibleRows()[i], nil
}

// Data reads a role of the record at view index i
func (v *View) Data(i int, role coins.Role) (any, error) {
	row, err := v.SourceRow(i)
	if err != nil {
		return nil, err
	}
	return v.reg.Data(row, role)
}

// SetData writes through to the registry, the row may leave the view or move afterwards
func (v *View) SetData(i int, role coins.Role, value any) (bool, error) {
	row, err := v.SourceRow(i)
	if err != nil {
		return false, err
	}
	return v.reg.SetData(row, role, value)
}

// Tickers visible tickers in view order
func (v *View) Tickers() []string {
	rows := v.visibleRows()
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = v.reg.data[row].Ticker
	}
	return out
}

// Records visible records in view order
func (v *View) Records() []coins.Config {
	rows := v.visibleRows()
	out := make([]coins.Config, len(rows))
	for i, row := range rows {
		out[i] = v.reg.data[row]
	}
	return out
}

// SetFilter replaces the filter, compose with And/Or to combine rules
func (v *View) SetFilter(p Predicate) {
	v.filter = p
	v.refresh()
}

// SetLess replaces the sort order, nil restores ByNameFold
func (v *View) SetLess(less LessFunc) {
	if less == nil {
		less = ByNameFold
	}
	v.less = less
	v.refresh()
}

// SetSearch narrows the view to rows whose ticker+name contains pattern, case-insensitive
func (v *View) SetSearch(pattern string) {
	v.search = strings.ToLower(pattern)
	v.refresh()
}

func (v *View) Search() string {
	return v.search
}

// Detach stops the view from following the registry
func (v *View) Detach() {
	v.reg.detach(v)
}

func (v *View) accept(c coins.Config) bool {
	if v.filter != nil && !v.filter(c) {
		return false
	}
	if v.search != "" && !strings.Contains(strings.ToLower(c.TickerAndName()), v.search) {
		return false
	}
	return true
}

func (v *View) treeLess(a, b entry) bool {
	if v.less(a.cfg, b.cfg) {
		return true
	}
	if v.less(b.cfg, a.cfg) {
		return false
	}
	return a.row < b.row
}

// rebuild re-filters and re-sorts every row
func (v *View) rebuild() {
	v.tree = btree.NewG[entry](2, v.treeLess)
	v.members = make(map[int]entry)
	for row, c := range v.reg.data {
		if v.accept(c) {
			e := entry{row: row, cfg: c}
			v.tree.ReplaceOrInsert(e)
			v.members[row] = e
		}
	}
	v.rows = nil
}

// rowChanged re-evaluates membership and position of one row
func (v *View) rowChanged(row int) {
	if old, ok := v.members[row]; ok {
		v.tree.Delete(old)
		delete(v.members, row)
	}
	c := v.reg.data[row]
	if v.accept(c) {
		e := entry{row: row, cfg: c}
		v.tree.ReplaceOrInsert(e)
		v.members[row] = e
	}
	v.rows = nil
}

func (v *View) refresh() {
	before := v.tree.Len()
	v.rebuild()
	if after := v.tree.Len(); after != before {
		v.reg.bus.Publish(notify.Event{Type: notify.EventLengthChanged, Data: notify.LengthChanged{View: v.name, Len: after}})
	}
}

func (v *View) visibleRows() []int {
	if v.rows == nil {
		rows := make([]int, 0, v.tree.Len())
		v.tree.Ascend(func(e entry) bool {
			rows = append(rows, e.row)
			return true
		})
		v.rows = rows
	}
	return v.rows
}
