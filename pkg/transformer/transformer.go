// Package transformer converts raw spreadsheet rows into unified events.
// One transformer handles the crime gun dealer database sheets; a separate
// entry point handles the Gunstat workbook, whose cells pack several fields
// into multi-line blocks.
package transformer

import (
	"context"
	"strings"

	"github.com/Ramsey-B/yarrow/pkg/jurisdiction"
	"github.com/Ramsey-B/yarrow/pkg/logging"
	"github.com/Ramsey-B/yarrow/pkg/models"
	"github.com/Ramsey-B/yarrow/pkg/normalizers"
)

// Column names in the dealer database sheets. The dealer name column doubles
// as the garbage-row marker.
const (
	dealerNameColumn  = "FFL"
	dealerCityColumn  = "City"
	dealerStateColumn = "State"
	dealerFFLColumn   = "license number"
	caseColumn        = "Case"
	factsColumn       = "Facts"
	dl2Column         = "2022/23/24 DL2 FFL?"
	topTraceColumn    = "Top trace FFL?"
	revokedColumn     = "Revoked FFL?"
	chargedColumn     = "FFL charged/sued?"
	caseSubjectTerm   = "Case subject"
)

// timeToCrimeTerms are tried in order against column headers; the sheets are
// inconsistent about which label they use.
var timeToCrimeTerms = []string{"Time-to-recovery", "time-to-crime"}

type Transformer struct {
	resolver *jurisdiction.Resolver
	logger   logging.Logger
}

func New(resolver *jurisdiction.Resolver, logger logging.Logger) *Transformer {
	return &Transformer{resolver: resolver, logger: logger}
}

// Transform maps one dealer database row to a unified event. Returns
// ok=false for garbage rows: a blank or "?" dealer name means the row is a
// spreadsheet artifact, not a record.
func (t *Transformer) Transform(ctx context.Context, row *models.RawRow) (*models.UnifiedEvent, bool) {
	dealerName := row.Get(dealerNameColumn)
	if dealerName == "" || dealerName == "?" {
		return nil, false
	}

	result := t.resolver.Resolve(row)
	t.warnInvalidState(ctx, row, "jurisdiction_state", result.State)

	event := &models.UnifiedEvent{
		SourceDataset:      row.SourceDataset,
		SourceSheet:        row.SourceSheet,
		SourceRow:          row.SourceRow,
		JurisdictionState:  optional(result.State),
		JurisdictionCity:   optional(result.City),
		JurisdictionMethod: string(result.Method),
		DealerName:         &dealerName,
		DealerCity:         optional(row.Get(dealerCityColumn)),
		DealerFFL:          optional(row.Get(dealerFFLColumn)),
		CaseName:           optional(row.Get(caseColumn)),
		FactsNarrative:     optional(row.Get(factsColumn)),
		InDL2Program:       normalizers.ConvertBoolean(row.Get(dl2Column)),
		IsTopTraceFFL:      normalizers.ConvertBoolean(row.Get(topTraceColumn)),
		IsRevoked:          normalizers.ConvertBoolean(row.Get(revokedColumn)),
		IsChargedOrSued:    normalizers.ConvertBoolean(row.Get(chargedColumn)),
	}

	if state := normalizers.NormalizeState(row.Get(dealerStateColumn)); state != "" {
		t.warnInvalidState(ctx, row, "dealer_state", state)
		event.DealerState = &state
	}

	if flow := normalizers.ParseTraffickingFlow(row.GetMatching(caseSubjectTerm)); flow != nil {
		event.TraffickingOrigin = &flow.Origin
		event.TraffickingDestination = &flow.Destination
		event.IsSouthwestBorder = flow.IsSouthwestBorder()
	}

	for _, term := range timeToCrimeTerms {
		if raw := row.GetMatching(term); raw != "" {
			event.TimeToCrimeDays = normalizers.ParseTimeToCrime(raw)
			break
		}
	}

	return event, true
}

// warnInvalidState logs state codes that fail validation. The value is still
// stored; bad source data must remain visible downstream.
func (t *Transformer) warnInvalidState(ctx context.Context, row *models.RawRow, field, state string) {
	if state == "" || normalizers.IsValidState(state) {
		return
	}
	t.logger.WithContext(ctx).WithFields(map[string]any{
		"field":        field,
		"value":        state,
		"source_sheet": row.SourceSheet,
		"source_row":   row.SourceRow,
	}).Warn("Invalid state code, storing as-is")
}

// optional returns nil for empty strings so blank cells persist as NULL.
func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
