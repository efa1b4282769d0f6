// Package normalizers provides pure field normalization functions for the
// ingest pipeline. Every function degrades on unparsable input (empty result
// or nil), never errors. Lookup tables are package-level immutable data so
// the functions stay independently testable.
package normalizers

import (
	"regexp"
	"strings"

	"github.com/Ramsey-B/yarrow/pkg/models"
)

// Recovery location fragments: optional "<n>. " list prefix, a city token
// admitting spaces, hyphens, apostrophes and internal periods ("St. Louis",
// "Winston-Salem", "O'Fallon"), a comma, then a 2-letter state code
// terminated by whitespace, end of text, or a closing paren so that
// "(Sacramento burb)" suffixes don't swallow the code.
var recoveryPattern = regexp.MustCompile(`(?:\d+\.\s*)?([A-Za-z][A-Za-z\s.\-']+?),\s*([A-Z]{2})(?:\s|$|\))`)

// ParseRecoveryLocations extracts every "City, ST" fragment from recovery
// text, in order of appearance. Returns nil for blank or unparsable input.
func ParseRecoveryLocations(text string) []models.ParsedLocation {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	matches := recoveryPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	locations := make([]models.ParsedLocation, 0, len(matches))
	for _, m := range matches {
		locations = append(locations, models.ParsedLocation{
			City:  strings.TrimSpace(m[1]),
			State: m[2],
		})
	}
	return locations
}

// FirstRecoveryLocation returns the first parsed location, or nil. Multi
// location records keep only the first match downstream; see the transformer.
func FirstRecoveryLocation(text string) *models.ParsedLocation {
	locations := ParseRecoveryLocations(text)
	if len(locations) == 0 {
		return nil
	}
	return &locations[0]
}

// stateNames maps full state names to 2-letter codes.
var stateNames = map[string]string{
	"ALABAMA": "AL", "ALASKA": "AK", "ARIZONA": "AZ", "ARKANSAS": "AR",
	"CALIFORNIA": "CA", "COLORADO": "CO", "CONNECTICUT": "CT", "DELAWARE": "DE",
	"FLORIDA": "FL", "GEORGIA": "GA", "HAWAII": "HI", "IDAHO": "ID",
	"ILLINOIS": "IL", "INDIANA": "IN", "IOWA": "IA", "KANSAS": "KS",
	"KENTUCKY": "KY", "LOUISIANA": "LA", "MAINE": "ME", "MARYLAND": "MD",
	"MASSACHUSETTS": "MA", "MICHIGAN": "MI", "MINNESOTA": "MN", "MISSISSIPPI": "MS",
	"MISSOURI": "MO", "MONTANA": "MT", "NEBRASKA": "NE", "NEVADA": "NV",
	"NEW HAMPSHIRE": "NH", "NEW JERSEY": "NJ", "NEW MEXICO": "NM", "NEW YORK": "NY",
	"NORTH CAROLINA": "NC", "NORTH DAKOTA": "ND", "OHIO": "OH", "OKLAHOMA": "OK",
	"OREGON": "OR", "PENNSYLVANIA": "PA", "RHODE ISLAND": "RI", "SOUTH CAROLINA": "SC",
	"SOUTH DAKOTA": "SD", "TENNESSEE": "TN", "TEXAS": "TX", "UTAH": "UT",
	"VERMONT": "VT", "VIRGINIA": "VA", "WASHINGTON": "WA", "WEST VIRGINIA": "WV",
	"WISCONSIN": "WI", "WYOMING": "WY", "DISTRICT OF COLUMBIA": "DC",
	"PUERTO RICO": "PR", "GUAM": "GU", "VIRGIN ISLANDS": "VI",
}

// validStates is the set of accepted 2-letter codes, for warning callers.
var validStates = func() map[string]struct{} {
	set := make(map[string]struct{}, len(stateNames))
	for _, code := range stateNames {
		set[code] = struct{}{}
	}
	return set
}()

// NormalizeState trims and upper-cases a state value and maps full state
// names to their 2-letter code. Unrecognized values longer than two
// characters are truncated to two, matching the source data convention;
// callers that care should check IsValidState and log.
func NormalizeState(state string) string {
	state = strings.ToUpper(strings.TrimSpace(state))
	if state == "" {
		return ""
	}
	if len(state) == 2 {
		return state
	}
	if code, ok := stateNames[state]; ok {
		return code
	}
	return state[:2]
}

// IsValidState reports whether code is a recognized 2-letter state or
// territory code.
func IsValidState(code string) bool {
	_, ok := validStates[code]
	return ok
}
