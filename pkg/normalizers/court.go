package normalizers

import (
	"regexp"
	"sort"
	"strings"
)

type courtAbbrev struct {
	abbrev string
	state  string
}

// Federal reporter district abbreviations as they appear inside case
// citations ("United States v. Smith (E.D. Pa.)"). Matched by containment,
// longest abbreviation first so "W.Va." wins over "Va.".
var courtAbbrevs = func() []courtAbbrev {
	m := map[string]string{
		"Alaska": "AK", "Ariz.": "AZ", "Cal.": "CA", "Colo.": "CO",
		"Conn.": "CT", "Del.": "DE", "Fla.": "FL", "Ga.": "GA",
		"Ill.": "IL", "Ind.": "IN", "Kan.": "KS", "Ky.": "KY",
		"La.": "LA", "Mass.": "MA", "Md.": "MD", "Mich.": "MI",
		"Minn.": "MN", "Mo.": "MO", "N.J.": "NJ", "N.Y.": "NY",
		"N.C.": "NC", "Ohio": "OH", "Okla.": "OK", "Or.": "OR",
		"Pa.": "PA", "Tenn.": "TN", "Tex.": "TX", "Va.": "VA",
		"Wash.": "WA", "W.Va.": "WV", "Wis.": "WI",
	}
	out := make([]courtAbbrev, 0, len(m))
	for abbrev, state := range m {
		out = append(out, courtAbbrev{abbrev, state})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].abbrev) != len(out[j].abbrev) {
			return len(out[i].abbrev) > len(out[j].abbrev)
		}
		return out[i].abbrev < out[j].abbrev
	})
	return out
}()

// ParseCourtState extracts the state code from a federal court reference by
// reporter abbreviation containment. Returns "" when no abbreviation matches.
func ParseCourtState(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	for _, ca := range courtAbbrevs {
		if strings.Contains(text, ca.abbrev) {
			return ca.state
		}
	}
	return ""
}

// Delaware state court names by case number prefix. Case numbers follow the
// XX-YY-NNNNNN convention where XX selects the court and YY is the 2-digit
// filing year.
var delawareCourts = map[string]string{
	"10": "Delaware Supreme Court",
	"19": "Delaware Family Court",
	"30": "Delaware Superior Court",
	"31": "Court of Common Pleas",
}

var (
	casePrefixPattern = regexp.MustCompile(`^(\d{2})-`)
	caseNumberPattern = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d+)$`)
	caseYearPattern   = regexp.MustCompile(`^\d{2}-(\d{2})-\d+$`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// LookupCourt resolves a Delaware case number prefix to a court name.
// Returns "" for unknown prefixes or malformed numbers.
func LookupCourt(caseNumber string) string {
	caseNumber = strings.TrimSpace(caseNumber)
	m := casePrefixPattern.FindStringSubmatch(caseNumber)
	if m == nil {
		return ""
	}
	return delawareCourts[m[1]]
}

// NormalizeCaseNumber canonicalizes a Delaware case number to XX-YY-NNNNNN,
// stripping internal whitespace and zero-padding the sequence to 6 digits.
// Returns "" when the value does not fit the convention.
func NormalizeCaseNumber(caseNumber string) string {
	caseNumber = strings.TrimSpace(caseNumber)
	if caseNumber == "" {
		return ""
	}

	m := caseNumberPattern.FindStringSubmatch(caseNumber)
	if m == nil {
		caseNumber = whitespacePattern.ReplaceAllString(caseNumber, "")
		m = caseNumberPattern.FindStringSubmatch(caseNumber)
		if m == nil {
			return ""
		}
	}

	sequence := m[3]
	for len(sequence) < 6 {
		sequence = "0" + sequence
	}
	return m[1] + "-" + m[2] + "-" + sequence
}

// CaseYear extracts the full filing year from a Delaware case number.
// Two-digit years at or below 26 are read as 2000s, the rest as 1900s.
// Returns 0 when the number is malformed.
func CaseYear(caseNumber string) int {
	m := caseYearPattern.FindStringSubmatch(strings.TrimSpace(caseNumber))
	if m == nil {
		return 0
	}
	year := int(m[1][0]-'0')*10 + int(m[1][1]-'0')
	if year <= 26 {
		return 2000 + year
	}
	return 1900 + year
}
