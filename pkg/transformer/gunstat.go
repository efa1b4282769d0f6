package transformer

import (
	"context"

	"github.com/Ramsey-B/yarrow/pkg/models"
	"github.com/Ramsey-B/yarrow/pkg/normalizers"
)

// Gunstat workbook column terms. The dealer column has a blank header in the
// source file, so it is found by trying the literal blanks first and falling
// back to substring discovery.
const (
	gunstatHomeState = "DE"
	gunstatHomeCity  = "Wilmington"
)

var (
	gunstatDealerColumns = []string{"", " ", "FFL"}
	gunstatFirearmTerm   = "Firearm, purchase, NIBIN information"
	gunstatStatusTerm    = "Pending or resolved"
	gunstatTTRTerm       = "TTR"
	gunstatNIBINTerm     = "NIBIN?"
	gunstatIndiciaTerm   = "trafficking indicia"
	gunstatSummaryTerm   = "Gunstat case summary"
)

// TransformGunstat maps one Gunstat row to a unified event. Every Gunstat
// record is a Delaware crime, so the jurisdiction is implicit rather than
// resolved through the chain.
func (t *Transformer) TransformGunstat(ctx context.Context, row *models.RawRow) (*models.UnifiedEvent, bool) {
	var dealerCell string
	for _, col := range gunstatDealerColumns {
		if dealerCell = row.Get(col); dealerCell != "" {
			break
		}
	}
	dealer := normalizers.ParseDealerBlock(dealerCell)
	if dealer.Name == "" || dealer.Name == "?" {
		return nil, false
	}

	caseBlock := normalizers.ParseCaseBlock(row.Get(caseColumn))
	firearm := normalizers.ParseFirearmBlock(row.GetMatching(gunstatFirearmTerm))

	state := gunstatHomeState
	city := gunstatHomeCity
	event := &models.UnifiedEvent{
		SourceDataset:      row.SourceDataset,
		SourceSheet:        row.SourceSheet,
		SourceRow:          row.SourceRow,
		JurisdictionState:  &state,
		JurisdictionCity:   &city,
		JurisdictionMethod: string(models.MethodImplicit),
		DealerName:         &dealer.Name,
		DealerCity:         optional(dealer.City),
		DealerState:        optional(dealer.State),
		DealerFFL:          optional(dealer.FFL),
		DefendantName:      optional(caseBlock.DefendantName),
		CaseStatus:         optional(row.GetMatching(gunstatStatusTerm)),
		ManufacturerName:   optional(firearm.Manufacturer),
		FirearmSerial:      optional(firearm.Serial),
		FirearmCaliber:     optional(firearm.Caliber),
		PurchaserName:      optional(firearm.Purchaser),
		FactsNarrative:     optional(row.GetMatching(gunstatSummaryTerm)),
	}

	if nibin := row.GetMatching(gunstatNIBINTerm); nibin != "" {
		if b := normalizers.ConvertBoolean(nibin); b != nil {
			event.HasNIBIN = *b
		}
	}
	event.HasTraffickingIndicia = row.GetMatching(gunstatIndiciaTerm) != ""
	event.IsInterstate = dealer.State != "" && dealer.State != gunstatHomeState

	if caseBlock.CaseNumber != "" {
		event.CaseNumber = optional(normalizers.NormalizeCaseNumber(caseBlock.CaseNumber))
		event.Court = optional(normalizers.LookupCourt(caseBlock.CaseNumber))
	}

	// Exact lookup: the category column ("TTR: over/under 3 years") would
	// also match a substring search.
	ttr := normalizers.ParseTimeToRecovery(row.Get(gunstatTTRTerm))
	event.TimeToCrimeDays = ttr

	if saleDate := normalizers.ParsePurchaseDate(firearm.PurchaseDate); saleDate != nil {
		sale := normalizers.FormatDate(*saleDate)
		event.SaleDate = &sale
		if ttr != nil {
			crime := normalizers.FormatDate(normalizers.CalculateCrimeDate(*saleDate, *ttr))
			event.CrimeDate = &crime
		}
	}

	return event, true
}
