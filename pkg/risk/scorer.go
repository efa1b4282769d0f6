// Package risk ranks dealers by a composite heuristic over their crime gun
// events. The score orders dealers for review; it is not a probability.
package risk

import (
	"sort"

	"github.com/Ramsey-B/yarrow/pkg/models"
)

// ShortTTCDays is the time-to-crime threshold, in days, below which an event
// counts as a short recovery interval (3 years).
const ShortTTCDays = 1095

// Weights holds the score contribution of each signal.
type Weights struct {
	PerCrimeGun   float64
	PerInterstate float64
	PerShortTTC   float64
	DL2Program    float64
	Revoked       float64
	ChargedOrSued float64
}

// DefaultWeights are the standard contributions.
func DefaultWeights() Weights {
	return Weights{
		PerCrimeGun:   10,
		PerInterstate: 2,
		PerShortTTC:   3,
		DL2Program:    10,
		Revoked:       20,
		ChargedOrSued: 15,
	}
}

type Scorer struct {
	weights Weights
}

func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Score aggregates events by dealer name and returns ranked risk records,
// highest score first. Events without a dealer name are ignored. Ties break
// by crime gun count descending, then dealer name ascending, so the output
// order is deterministic.
func (s *Scorer) Score(events []*models.UnifiedEvent) []models.DealerRiskRecord {
	groups := make(map[string]*models.DealerRiskRecord)
	var order []string

	for _, event := range events {
		name := event.Dealer()
		if name == "" {
			continue
		}

		record, ok := groups[name]
		if !ok {
			record = &models.DealerRiskRecord{DealerName: name}
			groups[name] = record
			order = append(order, name)
		}

		record.CrimeGunCount++
		if record.DealerState == "" && event.DealerState != nil {
			record.DealerState = *event.DealerState
		}
		if isInterstate(event) {
			record.InterstateCount++
		}
		if event.TimeToCrimeDays != nil && *event.TimeToCrimeDays < ShortTTCDays {
			record.ShortTTCCount++
		}

		// Dealer-level flags: true for any event means true for the dealer.
		record.InDL2Program = record.InDL2Program || isTrue(event.InDL2Program)
		record.IsRevoked = record.IsRevoked || isTrue(event.IsRevoked)
		record.IsChargedOrSued = record.IsChargedOrSued || isTrue(event.IsChargedOrSued)
	}

	records := make([]models.DealerRiskRecord, 0, len(groups))
	for _, name := range order {
		record := groups[name]
		record.Score = s.score(record)
		records = append(records, *record)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		if records[i].CrimeGunCount != records[j].CrimeGunCount {
			return records[i].CrimeGunCount > records[j].CrimeGunCount
		}
		return records[i].DealerName < records[j].DealerName
	})
	return records
}

func (s *Scorer) score(r *models.DealerRiskRecord) float64 {
	score := float64(r.CrimeGunCount)*s.weights.PerCrimeGun +
		float64(r.InterstateCount)*s.weights.PerInterstate +
		float64(r.ShortTTCCount)*s.weights.PerShortTTC
	if r.InDL2Program {
		score += s.weights.DL2Program
	}
	if r.IsRevoked {
		score += s.weights.Revoked
	}
	if r.IsChargedOrSued {
		score += s.weights.ChargedOrSued
	}
	return score
}

// isInterstate reports whether the dealer's state differs from the resolved
// jurisdiction state. Both must be known; missing data never counts.
func isInterstate(event *models.UnifiedEvent) bool {
	if event.DealerState == nil || event.JurisdictionState == nil {
		return false
	}
	return *event.DealerState != "" && *event.JurisdictionState != "" &&
		*event.DealerState != *event.JurisdictionState
}

func isTrue(b *bool) bool {
	return b != nil && *b
}
