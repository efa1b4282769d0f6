package models

import "time"

// UnifiedEvent is the canonical record in crime_gun_events. One event per
// source spreadsheet row; the (SourceDataset, SourceSheet, SourceRow) tuple
// is stable across re-runs and scopes idempotent replacement.
// Field order matches the table schema.
type UnifiedEvent struct {
	ID int64 `json:"id" db:"id"`

	// Source traceability
	SourceDataset string `json:"source_dataset" db:"source_dataset"`
	SourceSheet   string `json:"source_sheet" db:"source_sheet"`
	SourceRow     int    `json:"source_row" db:"source_row"`

	// Jurisdiction (resolved by the priority chain at transform time)
	JurisdictionState  *string `json:"jurisdiction_state,omitempty" db:"jurisdiction_state"`
	JurisdictionCity   *string `json:"jurisdiction_city,omitempty" db:"jurisdiction_city"`
	JurisdictionMethod string  `json:"jurisdiction_method" db:"jurisdiction_method"`

	// Crime location (populated later by classifier processes, never by the ETL)
	CrimeLocationState     *string `json:"crime_location_state,omitempty" db:"crime_location_state"`
	CrimeLocationCity      *string `json:"crime_location_city,omitempty" db:"crime_location_city"`
	CrimeLocationZip       *string `json:"crime_location_zip,omitempty" db:"crime_location_zip"`
	CrimeLocationCourt     *string `json:"crime_location_court,omitempty" db:"crime_location_court"`
	CrimeLocationPD        *string `json:"crime_location_pd,omitempty" db:"crime_location_pd"`
	CrimeLocationReasoning *string `json:"crime_location_reasoning,omitempty" db:"crime_location_reasoning"`

	// Dealer
	DealerName  *string `json:"dealer_name,omitempty" db:"dealer_name"`
	DealerCity  *string `json:"dealer_city,omitempty" db:"dealer_city"`
	DealerState *string `json:"dealer_state,omitempty" db:"dealer_state"`
	DealerFFL   *string `json:"dealer_ffl,omitempty" db:"dealer_ffl"`

	// Case
	CaseName       *string `json:"case_name,omitempty" db:"case_name"`
	DefendantName  *string `json:"defendant_name,omitempty" db:"defendant_name"`
	CaseNumber     *string `json:"case_number,omitempty" db:"case_number"`
	Court          *string `json:"court,omitempty" db:"court"`
	FactsNarrative *string `json:"facts_narrative,omitempty" db:"facts_narrative"`

	// Trafficking
	TraffickingOrigin      *string `json:"trafficking_origin,omitempty" db:"trafficking_origin"`
	TraffickingDestination *string `json:"trafficking_destination,omitempty" db:"trafficking_destination"`
	IsSouthwestBorder      bool    `json:"is_southwest_border" db:"is_southwest_border"`

	// Risk indicators. Tri-state: nil means the source said nothing usable,
	// which must stay distinct from an explicit "no" for scoring.
	InDL2Program    *bool `json:"in_dl2_program,omitempty" db:"in_dl2_program"`
	IsTopTraceFFL   *bool `json:"is_top_trace_ffl,omitempty" db:"is_top_trace_ffl"`
	IsRevoked       *bool `json:"is_revoked,omitempty" db:"is_revoked"`
	IsChargedOrSued *bool `json:"is_charged_or_sued,omitempty" db:"is_charged_or_sued"`

	// Firearm details, present on Gunstat sourced events only
	ManufacturerName *string `json:"manufacturer_name,omitempty" db:"manufacturer_name"`
	FirearmSerial    *string `json:"firearm_serial,omitempty" db:"firearm_serial"`
	FirearmCaliber   *string `json:"firearm_caliber,omitempty" db:"firearm_caliber"`
	PurchaserName    *string `json:"purchaser_name,omitempty" db:"purchaser_name"`
	CaseStatus       *string `json:"case_status,omitempty" db:"case_status"`

	HasNIBIN              bool `json:"has_nibin" db:"has_nibin"`
	HasTraffickingIndicia bool `json:"has_trafficking_indicia" db:"has_trafficking_indicia"`
	IsInterstate          bool `json:"is_interstate" db:"is_interstate"`

	// Timing
	TimeToCrimeDays *int    `json:"time_to_crime_days,omitempty" db:"time_to_crime_days"`
	SaleDate        *string `json:"sale_date,omitempty" db:"sale_date"`
	CrimeDate       *string `json:"crime_date,omitempty" db:"crime_date"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Dealer returns the dealer name, or "" when unknown.
func (e *UnifiedEvent) Dealer() string {
	if e.DealerName == nil {
		return ""
	}
	return *e.DealerName
}

// CrimeLocationUpdate is the classifier write payload: the five crime
// location fields plus the reasoning trail, applied to exactly one event.
type CrimeLocationUpdate struct {
	State     string `json:"state" validate:"required,len=2"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	Court     string `json:"court"`
	PD        string `json:"pd"`
	Reasoning string `json:"reasoning" validate:"required"`
}

// DealerRiskRecord is the on-demand aggregation of a dealer's events. It is
// derived, never persisted.
type DealerRiskRecord struct {
	DealerName      string  `json:"dealer_name"`
	DealerState     string  `json:"dealer_state"`
	CrimeGunCount   int     `json:"crime_gun_count"`
	InterstateCount int     `json:"interstate_count"`
	ShortTTCCount   int     `json:"short_ttc_count"`
	InDL2Program    bool    `json:"in_dl2_program"`
	IsRevoked       bool    `json:"is_revoked"`
	IsChargedOrSued bool    `json:"is_charged_or_sued"`
	Score           float64 `json:"score"`
}
