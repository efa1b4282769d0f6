package normalizers

import (
	"regexp"
	"strings"

	"github.com/Ramsey-B/yarrow/pkg/models"
)

// Flow notation: origin state, an arrow in any of the observed spellings
// (->, -->, =>, ==>), then either a destination state or the SWB marker.
// Matching happens on the upper-cased input so "tx --> swb" parses.
var flowPattern = regexp.MustCompile(`([A-Z]{2})\s*(?:--?>|==?>)\s*(SWB|[A-Z]{2})`)

// ParseTraffickingFlow extracts the first origin/destination pair from
// trafficking flow text. Returns nil when no flow notation is present.
func ParseTraffickingFlow(text string) *models.TraffickingFlow {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	m := flowPattern.FindStringSubmatch(strings.ToUpper(text))
	if m == nil {
		return nil
	}
	return &models.TraffickingFlow{Origin: m[1], Destination: m[2]}
}

// ParseTraffickingFlows extracts every flow in the text, in order. Corridor
// aggregation wants all hops, not just the first.
func ParseTraffickingFlows(text string) []models.TraffickingFlow {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	matches := flowPattern.FindAllStringSubmatch(strings.ToUpper(text), -1)
	if len(matches) == 0 {
		return nil
	}
	flows := make([]models.TraffickingFlow, 0, len(matches))
	for _, m := range matches {
		flows = append(flows, models.TraffickingFlow{Origin: m[1], Destination: m[2]})
	}
	return flows
}
