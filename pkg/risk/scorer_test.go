package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/yarrow/pkg/models"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(n int) *int       { return &n }

func event(dealer, dealerState, jurisdictionState string, mutate ...func(*models.UnifiedEvent)) *models.UnifiedEvent {
	e := &models.UnifiedEvent{DealerName: strPtr(dealer)}
	if dealerState != "" {
		e.DealerState = strPtr(dealerState)
	}
	if jurisdictionState != "" {
		e.JurisdictionState = strPtr(jurisdictionState)
	}
	for _, m := range mutate {
		m(e)
	}
	return e
}

func TestScoreCompositeScenario(t *testing.T) {
	// 10 crime guns, 6 interstate, 0 short TTC, DL2 member:
	// 10*10 + 6*2 + 0*3 + 10 = 122.
	var events []*models.UnifiedEvent
	for i := 0; i < 6; i++ {
		events = append(events, event("Shooters Supply", "DE", "PA"))
	}
	for i := 0; i < 4; i++ {
		events = append(events, event("Shooters Supply", "DE", "DE"))
	}
	events[0].InDL2Program = boolPtr(true)

	records := NewScorer(DefaultWeights()).Score(events)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "Shooters Supply", r.DealerName)
	assert.Equal(t, "DE", r.DealerState)
	assert.Equal(t, 10, r.CrimeGunCount)
	assert.Equal(t, 6, r.InterstateCount)
	assert.Equal(t, 0, r.ShortTTCCount)
	assert.True(t, r.InDL2Program)
	assert.False(t, r.IsRevoked)
	assert.False(t, r.IsChargedOrSued)
	assert.Equal(t, 122.0, r.Score)
}

func TestScoreShortTTCAndFlags(t *testing.T) {
	events := []*models.UnifiedEvent{
		event("Border Pawn", "TX", "AZ", func(e *models.UnifiedEvent) {
			e.TimeToCrimeDays = intPtr(90)
			e.IsRevoked = boolPtr(true)
		}),
		event("Border Pawn", "TX", "TX", func(e *models.UnifiedEvent) {
			e.TimeToCrimeDays = intPtr(2000)
			e.IsChargedOrSued = boolPtr(true)
		}),
		event("Border Pawn", "TX", "TX", func(e *models.UnifiedEvent) {
			e.TimeToCrimeDays = intPtr(ShortTTCDays - 1)
		}),
	}

	records := NewScorer(DefaultWeights()).Score(events)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, 3, r.CrimeGunCount)
	assert.Equal(t, 1, r.InterstateCount)
	assert.Equal(t, 2, r.ShortTTCCount)
	assert.True(t, r.IsRevoked)
	assert.True(t, r.IsChargedOrSued)
	// 3*10 + 1*2 + 2*3 + 20 + 15 = 73
	assert.Equal(t, 73.0, r.Score)
}

func TestScoreUnknownFlagsDoNotPenalize(t *testing.T) {
	// Tri-state nil must contribute nothing, same as explicit false.
	events := []*models.UnifiedEvent{
		event("Quiet Dealer", "OH", "OH"),
		event("Quiet Dealer", "OH", "OH", func(e *models.UnifiedEvent) {
			e.IsRevoked = boolPtr(false)
		}),
	}

	records := NewScorer(DefaultWeights()).Score(events)
	require.Len(t, records, 1)
	assert.Equal(t, 20.0, records[0].Score)
	assert.False(t, records[0].IsRevoked)
}

func TestScoreMissingStatesNeverInterstate(t *testing.T) {
	events := []*models.UnifiedEvent{
		event("No State Dealer", "", "PA"),
		event("No State Dealer", "OH", ""),
	}

	records := NewScorer(DefaultWeights()).Score(events)
	require.Len(t, records, 1)
	assert.Equal(t, 0, records[0].InterstateCount)
}

func TestScoreDeterministicOrdering(t *testing.T) {
	events := []*models.UnifiedEvent{
		// Two dealers with identical scores: tie breaks by name.
		event("Zebra Arms", "OH", "OH"),
		event("Alpha Arms", "OH", "OH"),
		// A bigger dealer sorts first.
		event("Big Dealer", "OH", "OH"),
		event("Big Dealer", "OH", "OH"),
	}

	records := NewScorer(DefaultWeights()).Score(events)
	require.Len(t, records, 3)
	assert.Equal(t, "Big Dealer", records[0].DealerName)
	assert.Equal(t, "Alpha Arms", records[1].DealerName)
	assert.Equal(t, "Zebra Arms", records[2].DealerName)
}

func TestScoreSkipsEventsWithoutDealer(t *testing.T) {
	events := []*models.UnifiedEvent{
		{},
		event("Named Dealer", "OH", "OH"),
	}
	records := NewScorer(DefaultWeights()).Score(events)
	require.Len(t, records, 1)
	assert.Equal(t, "Named Dealer", records[0].DealerName)
}
