// Package registry keeps the coin configuration list and the filtered, sorted views over it
//
//  1. Initialize replaces the whole list, every view rebuilds and the checked counter restarts at 0
//  2. SetData, UpdateStatus and SetChecked mutate rows in place, views re-evaluate the touched row
//     before any notification is published
//
// A Registry and its views are not safe for concurrent use, they belong to a single owner
// goroutine (see pkg/activation).
package registry

import (
	"coinsreg/pkg/coins"
	"coinsreg/pkg/notify"
	"coinsreg/pkg/xlog"
)

// Registry the ordered coin list, row order is load order
type Registry struct {
	data      []coins.Config
	index     map[string]int // ticker -> first row
	checkedNb int

	views      []*View
	set        *ViewSet
	bus        *notify.Bus
	enableable Predicate
}

type Option func(*Registry)

// WithBus publishes notifications on bus instead of a private one
func WithBus(bus *notify.Bus) Option {
	return func(r *Registry) {
		r.bus = bus
	}
}

// WithEnableable sets the rule of the "enableable" view, NotEnabled by default
func WithEnableable(p Predicate) Option {
	return func(r *Registry) {
		r.enableable = p
	}
}

var logger = xlog.GetLogger()

// New returns an empty registry with its view set already attached
func New(opts ...Option) *Registry {
	r := &Registry{
		index:      map[string]int{},
		enableable: NotEnabled,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.bus == nil {
		r.bus = notify.NewBus(nil)
	}
	r.set = newViewSet(r, r.enableable)
	return r
}

// Initialize replaces all rows
//
//	the checked counter goes back to 0 and incoming Checked flags are cleared so the counter
//	stays equal to the number of checked rows. Rows are swapped and views rebuilt before anything
//	is published: reset, checked_count_changed (when the counter was non-zero), then the length
//	notifications.
func (r *Registry) Initialize(records []coins.Config) {
	logger.Infof("Initializing global coin cfg model with size %d", len(records))

	wasChecked := r.checkedNb
	r.checkedNb = 0

	data := make([]coins.Config, len(records))
	copy(data, records)
	index := make(map[string]int, len(data))
	for i := range data {
		data[i].Checked = false
		if _, ok := index[data[i].Ticker]; !ok {
			index[data[i].Ticker] = i
		}
	}
	r.data = data
	r.index = index

	for _, v := range r.views {
		v.rebuild()
	}

	r.bus.Publish(notify.Event{Type: notify.EventReset})
	if wasChecked != 0 {
		r.bus.Publish(notify.Event{Type: notify.EventCheckedCountChanged, Data: notify.CheckedCountChanged{Count: 0}})
	}
	r.bus.Publish(notify.Event{Type: notify.EventLengthChanged, Data: notify.LengthChanged{Len: len(r.data)}})
	r.publishAllLength()
}

func (r *Registry) Len() int {
	return len(r.data)
}

// At returns a copy of row
func (r *Registry) At(row int) (coins.Config, error) {
	if err := checkIndex("registry", row, len(r.data)); err != nil {
		return coins.Config{}, err
	}
	return r.data[row], nil
}

// Records returns a copy of every row
func (r *Registry) Records() []coins.Config {
	out := make([]coins.Config, len(r.data))
	copy(out, r.data)
	return out
}

// Data reads one role of row
func (r *Registry) Data(row int, role coins.Role) (any, error) {
	if err := checkIndex("registry", row, len(r.data)); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, coins.ErrUnknownRole
	}
	return r.data[row].Value(role), nil
}

// SetData writes one role of row
//
//	only enabled, active and checked are writable, any other role returns false and changes
//	nothing. value is coerced to bool (bool, numbers, strconv.ParseBool strings).
func (r *Registry) SetData(row int, role coins.Role, value any) (bool, error) {
	if err := checkIndex("registry", row, len(r.data)); err != nil {
		return false, err
	}
	if !role.Mutable() {
		return false, nil
	}
	v, err := toBool(value)
	if err != nil {
		return false, err
	}
	r.apply(row, []change{{role, v}})
	return true, nil
}

// UpdateStatus sets active and enabled to status for every known ticker
//
//	tickers are matched case-sensitively against the first row carrying them, unknown
//	tickers are skipped. Both roles change together and produce one row notification.
//	Returns the number of rows touched.
func (r *Registry) UpdateStatus(tickers []string, status bool) (n int) {
	for _, ticker := range tickers {
		row, ok := r.index[ticker]
		if !ok {
			continue
		}
		logger.Infof("Changing Active/CurrentlyEnabled status to %t for ticker %s", status, ticker)
		r.apply(row, []change{{coins.ActiveRole, status}, {coins.CurrentlyEnabledRole, status}})
		n++
	}
	return
}

// SetChecked sets checked for every known ticker, same lookup rules as UpdateStatus
func (r *Registry) SetChecked(tickers []string, checked bool) (n int) {
	for _, ticker := range tickers {
		row, ok := r.index[ticker]
		if !ok {
			continue
		}
		r.apply(row, []change{{coins.CheckedRole, checked}})
		n++
	}
	return
}

// IndexOf returns the first row with ticker
func (r *Registry) IndexOf(ticker string) (int, bool) {
	row, ok := r.index[ticker]
	return row, ok
}

func (r *Registry) CheckedCount() int {
	return r.checkedNb
}

// CheckedTickers tickers with checked set, in row order
func (r *Registry) CheckedTickers() []string {
	result := []string{}
	for _, c := range r.data {
		if c.Checked {
			result = append(result, c.Ticker)
		}
	}
	return result
}

func (r *Registry) Views() *ViewSet {
	return r.set
}

func (r *Registry) Bus() *notify.Bus {
	return r.bus
}

type change struct {
	role  coins.Role
	value bool
}

// apply writes changes to row, then views, then notifications:
// checked_count_changed (if the counter moved), row_changed, length_changed of the all view
func (r *Registry) apply(row int, changes []change) {
	item := &r.data[row]
	countChanged := false
	roles := make([]string, 0, len(changes))

	for _, c := range changes {
		roles = append(roles, c.role.String())
		if c.role == coins.CheckedRole {
			if item.Checked == c.value {
				continue
			}
			if c.value {
				r.checkedNb++
			} else {
				r.checkedNb--
			}
			countChanged = true
		}
		item.Set(c.role, c.value)
	}

	for _, v := range r.views {
		v.rowChanged(row)
	}

	if countChanged {
		r.bus.Publish(notify.Event{Type: notify.EventCheckedCountChanged, Data: notify.CheckedCountChanged{Count: r.checkedNb}})
	}
	r.bus.Publish(notify.Event{Type: notify.EventRowChanged, Data: notify.RowChanged{Row: row, Roles: roles}})
	r.publishAllLength()
}

func (r *Registry) publishAllLength() {
	all := r.set.All()
	r.bus.Publish(notify.Event{Type: notify.EventLengthChanged, Data: notify.LengthChanged{View: all.Name(), Len: all.Count()}})
}

func (r *Registry) attach(v *View) {
	r.views = append(r.views, v)
}

func (r *Registry) detach(v *View) {
	for i, x := range r.views {
		if x == v {
			r.views = append(r.views[:i:i], r.views[i+1:]...)
			return
		}
	}
}
