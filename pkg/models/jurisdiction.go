package models

// Method identifies which strategy in the priority chain produced a
// jurisdiction result.
type Method string

const (
	MethodRecovery     Method = "RECOVERY"
	MethodCourt        Method = "COURT"
	MethodTrafficking  Method = "TRAFFICKING"
	MethodSheetDefault Method = "SHEET_DEFAULT"
	MethodDealerState  Method = "DEALER_STATE"
	// MethodImplicit marks datasets whose jurisdiction is fixed by the
	// dataset itself rather than resolved per row (all Gunstat crimes are
	// Delaware crimes).
	MethodImplicit Method = "IMPLICIT"
	MethodUnknown  Method = "UNKNOWN"
)

// JurisdictionResult is the outcome of resolving where a crime occurred.
// Method is always set; State is empty if and only if Method is UNKNOWN.
type JurisdictionResult struct {
	State  string `json:"state,omitempty"`
	City   string `json:"city,omitempty"`
	Method Method `json:"method"`
}

// Resolved reports whether the chain produced a usable state.
func (j JurisdictionResult) Resolved() bool {
	return j.Method != MethodUnknown && j.State != ""
}

// ParsedLocation is one "City, ST" fragment extracted from recovery text.
type ParsedLocation struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// SWBDestination is the reserved trafficking destination for flows that
// terminate across the southwest border. It is syntactically valid flow
// notation but never a US jurisdiction.
const SWBDestination = "SWB"

// TraffickingFlow is a parsed "XX-->YY" flow. Destination is either a
// 2-letter state code or SWBDestination.
type TraffickingFlow struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// IsSouthwestBorder reports whether the flow terminates outside the US.
func (f TraffickingFlow) IsSouthwestBorder() bool {
	return f.Destination == SWBDestination
}
