// Package jurisdiction resolves the state and city a crime gun event belongs
// to. Source rows rarely carry an explicit jurisdiction, so resolution walks
// an ordered chain of strategies from the most direct signal (a parsed
// recovery location) down to the weakest fallback (the dealer's own state).
package jurisdiction

import (
	"strings"

	"github.com/Ramsey-B/yarrow/pkg/models"
	"github.com/Ramsey-B/yarrow/pkg/normalizers"
)

// Source column names used by the chain.
const (
	recoveryColumn    = "Location(s) of recovery(ies)"
	caseColumn        = "Case"
	caseSubjectColumn = "Case subject"
	dealerStateColumn = "State"
)

// Strategy attempts one resolution method against a row. A nil result means
// the strategy has nothing to say and the chain moves on.
type Strategy func(row *models.RawRow) *models.JurisdictionResult

// SheetDefault binds a sheet name fragment to a fixed jurisdiction. Trace
// sheets are scoped to a single city, so the sheet itself is a usable signal.
type SheetDefault struct {
	SheetContains string
	State         string
	City          string
}

// DefaultSheetDefaults covers the trace sheets in the known workbooks.
func DefaultSheetDefaults() []SheetDefault {
	return []SheetDefault{
		{SheetContains: "Philadelphia", State: "PA", City: "Philadelphia"},
		{SheetContains: "Rochester", State: "NY", City: "Rochester"},
	}
}

// Resolver runs the priority chain. The strategy order is fixed at
// construction and never reordered per row.
type Resolver struct {
	strategies []Strategy
}

// NewResolver builds the standard five-step chain:
// recovery location, court reference, trafficking destination,
// sheet default, dealer state.
func NewResolver(sheetDefaults []SheetDefault) *Resolver {
	return &Resolver{
		strategies: []Strategy{
			ResolveByRecovery,
			ResolveByCourt,
			ResolveByTrafficking,
			ResolveBySheetDefault(sheetDefaults),
			ResolveByDealerState,
		},
	}
}

// Resolve walks the chain and returns the first hit. When every strategy
// passes, the result carries MethodUnknown and no state.
func (r *Resolver) Resolve(row *models.RawRow) models.JurisdictionResult {
	for _, strategy := range r.strategies {
		if result := strategy(row); result != nil {
			return *result
		}
	}
	return models.JurisdictionResult{Method: models.MethodUnknown}
}

// ResolveByRecovery uses the first parsed "City, ST" fragment from the
// recovery location column.
func ResolveByRecovery(row *models.RawRow) *models.JurisdictionResult {
	loc := normalizers.FirstRecoveryLocation(row.Get(recoveryColumn))
	if loc == nil {
		return nil
	}
	return &models.JurisdictionResult{
		State:  loc.State,
		City:   loc.City,
		Method: models.MethodRecovery,
	}
}

// ResolveByCourt maps a federal reporter abbreviation in the case citation
// to its state. Court references never carry a city.
func ResolveByCourt(row *models.RawRow) *models.JurisdictionResult {
	state := normalizers.ParseCourtState(row.Get(caseColumn))
	if state == "" {
		return nil
	}
	return &models.JurisdictionResult{
		State:  state,
		Method: models.MethodCourt,
	}
}

// ResolveByTrafficking uses the destination of a parsed trafficking flow.
// Southwest border destinations are not US jurisdictions and never resolve
// here; the chain continues past them.
func ResolveByTrafficking(row *models.RawRow) *models.JurisdictionResult {
	flow := normalizers.ParseTraffickingFlow(row.GetMatching(caseSubjectColumn))
	if flow == nil || flow.IsSouthwestBorder() {
		return nil
	}
	return &models.JurisdictionResult{
		State:  flow.Destination,
		Method: models.MethodTrafficking,
	}
}

// ResolveBySheetDefault returns a strategy that applies the first sheet
// default whose fragment appears in the row's sheet name.
func ResolveBySheetDefault(defaults []SheetDefault) Strategy {
	return func(row *models.RawRow) *models.JurisdictionResult {
		for _, d := range defaults {
			if strings.Contains(row.SourceSheet, d.SheetContains) {
				return &models.JurisdictionResult{
					State:  d.State,
					City:   d.City,
					Method: models.MethodSheetDefault,
				}
			}
		}
		return nil
	}
}

// ResolveByDealerState falls back to the dealer's own state. Weakest signal
// in the chain; guns usually recover near where they were sold, but not
// always.
func ResolveByDealerState(row *models.RawRow) *models.JurisdictionResult {
	state := row.Get(dealerStateColumn)
	if state == "" {
		return nil
	}
	return &models.JurisdictionResult{
		State:  strings.ToUpper(state),
		Method: models.MethodDealerState,
	}
}
