package fundfolio

import (
	"github.com/etnz/fundfolio/date"
)

// Lot is an open purchase of fund units.
type Lot struct {
	Date     date.Date
	Quantity Quantity // remaining units, always positive
	Cost     Money    // unit cost, the buy price
}

// Match is the part of a lot consumed by a sell.
type Match struct {
	Acquired date.Date
	Quantity Quantity
	Cost     Money // unit cost of the matched lot
}

// lots is a FIFO queue of open lots, oldest first.
//
// Sells consume from items[head]; consumed slots are reclaimed lazily.
type lots struct {
	items []Lot
	head  int
}

// push appends a new lot at the tail. Lots never merge.
func (l *lots) push(lot Lot) { l.items = append(l.items, lot) }

// len returns the number of open lots.
func (l *lots) len() int { return len(l.items) - l.head }

// open returns a copy of the open lots, oldest first.
func (l *lots) open() []Lot {
	out := make([]Lot, l.len())
	copy(out, l.items[l.head:])
	return out
}

// units returns the total number of open units.
func (l *lots) units() Quantity {
	var total Quantity
	for _, lot := range l.items[l.head:] {
		total = total.Add(lot.Quantity)
	}
	return total
}

// sell removes quantityToSell units from the oldest lots first.
// It returns the matched parts and the quantity that could not be matched
// because the queue ran empty.
func (l *lots) sell(quantityToSell Quantity) (matches []Match, unfilled Quantity) {
	for !quantityToSell.IsZero() && l.len() > 0 {
		currentLot := &l.items[l.head]
		if currentLot.Quantity.GreaterThan(quantityToSell) {
			// Partial sale from this lot, it stays at the head.
			matches = append(matches, Match{Acquired: currentLot.Date, Quantity: quantityToSell, Cost: currentLot.Cost})
			currentLot.Quantity = currentLot.Quantity.Sub(quantityToSell)
			quantityToSell = Quantity{}
			break
		}
		// Full sale of this lot
		matches = append(matches, Match{Acquired: currentLot.Date, Quantity: currentLot.Quantity, Cost: currentLot.Cost})
		quantityToSell = quantityToSell.Sub(currentLot.Quantity)
		l.items[l.head] = Lot{}
		l.head++
	}
	l.compact()
	return matches, quantityToSell
}

// compact reclaims the consumed head of the queue once it dominates the backing array.
func (l *lots) compact() {
	if l.head == len(l.items) {
		l.items, l.head = l.items[:0], 0
		return
	}
	if l.head >= 32 && l.head*2 >= len(l.items) {
		n := copy(l.items, l.items[l.head:])
		clear(l.items[n:])
		l.items, l.head = l.items[:n], 0
	}
}

// costOf returns the cost of the matched units.
func costOf(matches []Match) Money {
	var cost Money
	for _, m := range matches {
		cost = cost.Add(m.Cost.Mul(m.Quantity))
	}
	return cost
}
