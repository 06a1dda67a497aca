package renderer

import (
	"github.com/etnz/fundfolio"
)

// unitsPlaces is the number of decimals units are displayed with.
const unitsPlaces = 4

// notAvailable marks a value that could not be computed.
const notAvailable = "n/a"

// ReportView is the rendering view of a fundfolio.Valuation.
type ReportView struct {
	AsOf        string
	Currency    string
	TotalValue  string
	TotalGain   string
	Positions   []ReportPosition
	Diagnostics []Diagnostic
}

// ReportPosition is one line of a ReportView.
type ReportPosition struct {
	Index     int // 1-based
	Folio     string
	ISIN      string
	Name      string
	Units     string
	Available bool
	PriceDate string
	Price     string
	Value     string
	BuyCost   string
	Gain      string
}

// Diagnostic is the rendering view of a fundfolio.Diagnostic.
type Diagnostic struct {
	Kind    string
	Key     string
	Date    string
	Message string
}

// Holdings is the rendering view of a fundfolio.Ledger.
type Holdings struct {
	Positions   []HoldingPosition
	Diagnostics []Diagnostic
}

// HoldingPosition lists the open lots of a position.
type HoldingPosition struct {
	Folio   string
	ISIN    string
	Name    string
	Status  string
	Units   string
	BuyCost string
	Lots    []HoldingLot
	Sales   []HoldingSale
}

// HoldingLot is one open lot.
type HoldingLot struct {
	Date     string
	Units    string
	UnitCost string
	Cost     string
}

// HoldingSale is a sell matched against the lots, oldest first.
type HoldingSale struct {
	Date     string
	Units    string
	Unfilled string
	Proceeds string
	Cost     string // FIFO cost of the matched units
}

func newReport(v *fundfolio.Valuation) *ReportView {
	r := &ReportView{
		AsOf:        v.AsOf.String(),
		Currency:    v.Currency,
		TotalValue:  v.TotalValue.Figure(),
		TotalGain:   v.TotalGain.Figure(),
		Diagnostics: newDiagnostics(v.Diagnostics),
	}
	for i, res := range v.Results {
		p := ReportPosition{
			Index:     i + 1,
			Folio:     cell(res.Key.Account),
			ISIN:      cell(res.Key.Instrument),
			Name:      cell(res.Name),
			Units:     res.Units.StringFixed(unitsPlaces),
			Available: res.Available,
			PriceDate: notAvailable,
			Price:     notAvailable,
			Value:     notAvailable,
			BuyCost:   res.BuyCost.Figure(),
			Gain:      notAvailable,
		}
		if res.Available {
			p.PriceDate = res.PriceDate.String()
			p.Price = res.Price.Figure()
			p.Value = res.Value.Figure()
			p.Gain = res.Gain.Figure()
		}
		r.Positions = append(r.Positions, p)
	}
	return r
}

func newHoldings(l *fundfolio.Ledger) *Holdings {
	h := &Holdings{Diagnostics: newDiagnostics(l.Diagnostics())}
	for p := range l.Positions() {
		hp := HoldingPosition{
			Folio:   cell(p.Key().Account),
			ISIN:    cell(p.Key().Instrument),
			Name:    cell(p.Name()),
			Status:  p.Status().String(),
			Units:   p.Units().StringFixed(unitsPlaces),
			BuyCost: p.BuyCost().Figure(),
		}
		for _, lot := range p.Lots() {
			hp.Lots = append(hp.Lots, HoldingLot{
				Date:     lot.Date.String(),
				Units:    lot.Quantity.StringFixed(unitsPlaces),
				UnitCost: lot.Cost.Figure(),
				Cost:     lot.Cost.Mul(lot.Quantity).Figure(),
			})
		}
		for _, d := range p.Disposals() {
			hp.Sales = append(hp.Sales, HoldingSale{
				Date:     d.Date.String(),
				Units:    d.Quantity.StringFixed(unitsPlaces),
				Unfilled: d.Unfilled.StringFixed(unitsPlaces),
				Proceeds: d.Proceeds().Figure(),
				Cost:     d.Cost().Figure(),
			})
		}
		h.Positions = append(h.Positions, hp)
	}
	return h
}

func newDiagnostics(ds []fundfolio.Diagnostic) []Diagnostic {
	var views []Diagnostic
	for _, d := range ds {
		views = append(views, Diagnostic{
			Kind:    d.Kind.String(),
			Key:     d.Key.String(),
			Date:    d.Date.String(),
			Message: d.String(),
		})
	}
	return views
}
