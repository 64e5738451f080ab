// Package orderbook decodes the order entries of an mm2 orderbook answer.
package orderbook

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidUUID     = errors.New("invalid order uuid")
	ErrInvalidFraction = errors.New("invalid fraction")
)

// Fraction rational number as sent by mm2, numerator and denominator are decimal strings
type Fraction struct {
	Numer string `json:"numer"`
	Denom string `json:"denom"`
}

// Decimal numer/denom rounded to 18 places
func (f Fraction) Decimal() (decimal.Decimal, error) {
	n, err := decimal.NewFromString(f.Numer)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: numer %q", ErrInvalidFraction, f.Numer)
	}
	d, err := decimal.NewFromString(f.Denom)
	if err != nil || d.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: denom %q", ErrInvalidFraction, f.Denom)
	}
	return n.DivRound(d, 18), nil
}

// OrderContents one ask or bid
type OrderContents struct {
	Coin                   string `json:"coin"`
	Address                string `json:"address"`
	Price                  string `json:"price"`
	PriceFractionNumer     string `json:"price_fraction_numer"`
	PriceFractionDenom     string `json:"price_fraction_denom"`
	MaxVolumeFractionNumer string `json:"max_volume_fraction_numer"`
	MaxVolumeFractionDenom string `json:"max_volume_fraction_denom"`
	MaxVolume              string `json:"maxvolume"`
	Pubkey                 string `json:"pubkey"`
	Age                    uint64 `json:"age"`
	Zcredits               uint64 `json:"zcredits"`
	Total                  string `json:"total"`
	UUID                   string `json:"uuid"`
	DepthPercent           string `json:"depth_percent"`
	IsMine                 bool   `json:"is_mine"`
	MinVolume              string `json:"min_volume"`
}

// wire shape of an entry, fractions are nested objects there
type orderJSON struct {
	Coin              string   `json:"coin"`
	Address           string   `json:"address"`
	Price             string   `json:"price"`
	PriceFraction     Fraction `json:"price_fraction"`
	MaxVolume         string   `json:"maxvolume"`
	MaxVolumeFraction Fraction `json:"max_volume_fraction"`
	MinVolume         *string  `json:"min_volume"`
	Pubkey            string   `json:"pubkey"`
	Age               uint64   `json:"age"`
	Zcredits          uint64   `json:"zcredits"`
	UUID              string   `json:"uuid"`
	IsMine            bool     `json:"is_mine"`
}

// UnmarshalJSON reads an mm2 entry, fills Total = price * maxvolume and defaults
// MinVolume and DepthPercent to "0"
func (o *OrderContents) UnmarshalJSON(b []byte) (err error) {
	var j orderJSON
	if err = json.Unmarshal(b, &j); err != nil {
		return
	}
	if _, err = uuid.Parse(j.UUID); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidUUID, j.UUID)
	}

	*o = OrderContents{
		Coin:                   j.Coin,
		Address:                j.Address,
		Price:                  j.Price,
		PriceFractionNumer:     j.PriceFraction.Numer,
		PriceFractionDenom:     j.PriceFraction.Denom,
		MaxVolumeFractionNumer: j.MaxVolumeFraction.Numer,
		MaxVolumeFractionDenom: j.MaxVolumeFraction.Denom,
		MaxVolume:              j.MaxVolume,
		Pubkey:                 j.Pubkey,
		Age:                    j.Age,
		Zcredits:               j.Zcredits,
		UUID:                   j.UUID,
		DepthPercent:           "0",
		IsMine:                 j.IsMine,
		MinVolume:              "0",
	}
	if j.MinVolume != nil && *j.MinVolume != "" {
		o.MinVolume = *j.MinVolume
	}

	price, err := decimal.NewFromString(j.Price)
	if err != nil {
		return fmt.Errorf("price %q: %w", j.Price, err)
	}
	vol, err := decimal.NewFromString(j.MaxVolume)
	if err != nil {
		return fmt.Errorf("maxvolume %q: %w", j.MaxVolume, err)
	}
	o.Total = price.Mul(vol).String()
	return nil
}

// PriceRat exact price from the fraction, falls back to Price when no fraction was sent
func (o OrderContents) PriceRat() (decimal.Decimal, error) {
	if o.PriceFractionNumer == "" && o.PriceFractionDenom == "" {
		return decimal.NewFromString(o.Price)
	}
	return Fraction{o.PriceFractionNumer, o.PriceFractionDenom}.Decimal()
}

// MaxVolumeRat exact max volume from the fraction, falls back to MaxVolume
func (o OrderContents) MaxVolumeRat() (decimal.Decimal, error) {
	if o.MaxVolumeFractionNumer == "" && o.MaxVolumeFractionDenom == "" {
		return decimal.NewFromString(o.MaxVolume)
	}
	return Fraction{o.MaxVolumeFractionNumer, o.MaxVolumeFractionDenom}.Decimal()
}

// Orderbook both sides of a pair
type Orderbook struct {
	Base    string          `json:"base"`
	Rel     string          `json:"rel"`
	Asks    []OrderContents `json:"asks"`
	Bids    []OrderContents `json:"bids"`
	NumAsks int             `json:"numasks"`
	NumBids int             `json:"numbids"`
}

// ParseOrderbook decodes an orderbook answer and sets DepthPercent of every entry to its share
// of the side's total max volume
func ParseOrderbook(b []byte) (ob Orderbook, err error) {
	if err = json.Unmarshal(b, &ob); err != nil {
		return
	}
	if err = fillDepth(ob.Asks); err != nil {
		return
	}
	err = fillDepth(ob.Bids)
	return
}

func fillDepth(side []OrderContents) error {
	vols := make([]decimal.Decimal, len(side))
	sum := decimal.Zero
	for i := range side {
		v, err := side[i].MaxVolumeRat()
		if err != nil {
			return err
		}
		vols[i] = v
		sum = sum.Add(v)
	}
	if sum.IsZero() {
		return nil
	}
	hundred := decimal.NewFromInt(100)
	for i := range side {
		side[i].DepthPercent = vols[i].Mul(hundred).DivRound(sum, 2).String()
	}
	return nil
}

// Coins every coin that appears in the book, asks first, without duplicates
func (ob Orderbook) Coins() []string {
	seen := map[string]bool{}
	var out []string
	for _, side := range [][]OrderContents{ob.Asks, ob.Bids} {
		for _, o := range side {
			if o.Coin != "" && !seen[o.Coin] {
				seen[o.Coin] = true
				out = append(out, o.Coin)
			}
		}
	}
	return out
}
