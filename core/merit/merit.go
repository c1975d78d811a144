// Package merit models a merit-order supply curve: generation tranches
// stacked by marginal cost, answering which technology clears a given demand.
package merit

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrNoTranches is returned when a supply curve is built without tranches.
	ErrNoTranches = errors.New("supply curve needs at least one tranche")
	// ErrBadTranche is returned when a tranche has a non-positive capacity or
	// a negative or non-finite cost.
	ErrBadTranche = errors.New("tranche needs a positive capacity and a non-negative cost")
)

// Tranche is one supply block of the merit order.
type Tranche struct {
	Technology   string  `json:"technology"`
	MarginalCost float64 `json:"marginal_cost"`
	CapacityMW   float64 `json:"capacity_mw"`
}

// Boundary selects which tranche prices a demand that lands exactly on a
// tranche edge.
type Boundary string

const (
	// BoundaryLeft assigns an edge demand to the cheaper tranche.
	BoundaryLeft Boundary = "left"
	// BoundaryRight assigns an edge demand to the dearer tranche.
	BoundaryRight Boundary = "right"
)

// Query tunes a price lookup.
type Query struct {
	// BinMW, when positive, floors the demand to a multiple of the bin size
	// before the lookup, exaggerating discrete jumps.
	BinMW float64
	// Boundary defaults to BoundaryRight.
	Boundary Boundary
}

// SupplyCurve answers marginal-price queries against stacked tranches.
type SupplyCurve struct {
	tranches []Tranche
	// edges[0] is zero; edges[i] is the cumulative capacity through tranche i-1.
	edges []float64
}

// New builds a supply curve. Tranches are stacked in merit order, cheapest
// first, regardless of input order.
func New(tranches []Tranche) (*SupplyCurve, error) {
	if len(tranches) == 0 {
		return nil, ErrNoTranches
	}
	sorted := make([]Tranche, len(tranches))
	copy(sorted, tranches)
	for i, tr := range sorted {
		if tr.CapacityMW <= 0 || math.IsNaN(tr.CapacityMW) || math.IsInf(tr.CapacityMW, 0) ||
			tr.MarginalCost < 0 || math.IsNaN(tr.MarginalCost) || math.IsInf(tr.MarginalCost, 0) {
			return nil, fmt.Errorf("%w: %q at index %d", ErrBadTranche, tr.Technology, i)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MarginalCost < sorted[j].MarginalCost })

	edges := make([]float64, len(sorted)+1)
	for i, tr := range sorted {
		edges[i+1] = edges[i] + tr.CapacityMW
	}
	return &SupplyCurve{tranches: sorted, edges: edges}, nil
}

// Tranches returns the stacked tranches in merit order.
func (s *SupplyCurve) Tranches() []Tranche {
	out := make([]Tranche, len(s.tranches))
	copy(out, s.tranches)
	return out
}

// TotalCapacityMW returns the capacity of the whole stack.
func (s *SupplyCurve) TotalCapacityMW() float64 { return s.edges[len(s.edges)-1] }

// TrancheAt returns the tranche serving the last megawatt of demand. Demand
// at or below zero clears on the cheapest tranche; demand beyond the stack
// clears on the dearest.
func (s *SupplyCurve) TrancheAt(demandMW float64, q Query) Tranche {
	demand := demandMW
	if q.BinMW > 0 {
		demand = math.Floor(demand/q.BinMW) * q.BinMW
	}
	var idx int
	if q.Boundary == BoundaryLeft {
		idx = sort.SearchFloat64s(s.edges, demand) - 1
	} else {
		idx = sort.Search(len(s.edges), func(i int) bool { return s.edges[i] > demand }) - 1
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(s.tranches)-1 {
		idx = len(s.tranches) - 1
	}
	return s.tranches[idx]
}

// PriceAt returns the marginal cost of the tranche serving the demand.
func (s *SupplyCurve) PriceAt(demandMW float64, q Query) float64 {
	return s.TrancheAt(demandMW, q).MarginalCost
}

// DefaultFleet returns the reference toy fleet: 21000 MW stacked from free
// renewables to 300 $/MWh oil.
func DefaultFleet() []Tranche {
	return []Tranche{
		{Technology: "Solar/Wind", MarginalCost: 0, CapacityMW: 5000},
		{Technology: "Nuclear", MarginalCost: 10, CapacityMW: 3000},
		{Technology: "Coal", MarginalCost: 35, CapacityMW: 4000},
		{Technology: "Gas (CC)", MarginalCost: 45, CapacityMW: 6000},
		{Technology: "Gas (Peaker)", MarginalCost: 90, CapacityMW: 2500},
		{Technology: "Oil", MarginalCost: 300, CapacityMW: 500},
	}
}
