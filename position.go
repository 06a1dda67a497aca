package fundfolio

import (
	"github.com/etnz/fundfolio/date"
)

// Status is the lot state of a position.
type Status int

const (
	// NoLots: the position holds no open lot.
	NoLots Status = iota
	// HasOpenLots: the position holds at least one open lot.
	HasOpenLots
)

func (s Status) String() string {
	if s == HasOpenLots {
		return "open"
	}
	return "empty"
}

// Disposal records how a sell was matched against open lots.
type Disposal struct {
	Date     date.Date
	Quantity Quantity // units asked for, positive
	Price    Money    // unit sale price
	Matches  []Match  // oldest lot first
	Unfilled Quantity // units that matched no lot
}

// Filled returns the number of units matched against lots.
func (d Disposal) Filled() Quantity { return d.Quantity.Sub(d.Unfilled) }

// Cost returns the FIFO cost of the matched units.
func (d Disposal) Cost() Money { return costOf(d.Matches) }

// Proceeds returns the sale value of the matched units.
func (d Disposal) Proceeds() Money { return d.Price.Mul(d.Filled()) }

// Position is the FIFO state of one fund in one account.
type Position struct {
	key       Key
	name      string
	lots      lots
	buyCost   Money
	disposals []Disposal
}

func newPosition(tx Transaction) *Position {
	return &Position{key: tx.Key(), name: tx.Name, buyCost: M(0, tx.Price.Currency())}
}

// Key returns the account and instrument of the position.
func (p *Position) Key() Key { return p.key }

// Name returns the fund name as first seen.
func (p *Position) Name() string { return p.name }

// Lots returns the open lots, oldest first.
func (p *Position) Lots() []Lot { return p.lots.open() }

// Units returns the number of units held.
func (p *Position) Units() Quantity { return p.lots.units() }

// BuyCost returns the cumulated cost of every buy ever applied.
//
// Sells never reduce it: gains are measured against all-time buy cost.
func (p *Position) BuyCost() Money { return p.buyCost }

// Disposals returns the matching record of every sell, in application order.
func (p *Position) Disposals() []Disposal { return append([]Disposal(nil), p.disposals...) }

// Status returns whether the position has open lots.
func (p *Position) Status() Status {
	if p.lots.len() > 0 {
		return HasOpenLots
	}
	return NoLots
}

// apply applies a valid transaction for this position. 'seq' is the
// position of tx in the folded stream. It returns an Oversell diagnostic
// when the sell could not be fully matched.
func (p *Position) apply(seq int, tx Transaction) *Diagnostic {
	if tx.IsBuy() {
		p.lots.push(Lot{Date: tx.Date, Quantity: tx.Quantity, Cost: tx.Price})
		p.buyCost = p.buyCost.Add(tx.Price.Mul(tx.Quantity))
		return nil
	}

	quantity := tx.Quantity.Abs()
	matches, unfilled := p.lots.sell(quantity)
	p.disposals = append(p.disposals, Disposal{
		Date:     tx.Date,
		Quantity: quantity,
		Price:    tx.Price,
		Matches:  matches,
		Unfilled: unfilled,
	})
	if unfilled.IsZero() {
		return nil
	}
	return &Diagnostic{
		Kind:     Oversell,
		Key:      p.key,
		Name:     p.name,
		Date:     tx.Date,
		Unfilled: unfilled,
		Seq:      seq,
	}
}
