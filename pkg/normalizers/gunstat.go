package normalizers

import (
	"regexp"
	"strings"
)

// DealerBlock is the parsed form of a Gunstat dealer cell, which packs the
// dealer name, "City, ST", and FFL number into one multi-line cell.
type DealerBlock struct {
	Name  string
	City  string
	State string
	FFL   string
}

// CaseBlock is the parsed form of a Gunstat case cell:
// defendant name on the first line, "Case #:XX-YY-NNNNNN" on a later one.
type CaseBlock struct {
	DefendantName string
	CaseNumber    string
}

// FirearmBlock is the parsed form of a Gunstat firearm cell, e.g.
// "Taurus G2C #ABE573528\npurchased 7/2/20 by Bobby Cooks Jr".
type FirearmBlock struct {
	Manufacturer string
	Serial       string
	Caliber      string
	PurchaseDate string
	Purchaser    string
}

var (
	fflPattern       = regexp.MustCompile(`(?i)FFL\s*(\d+-\d+-\d+)`)
	cityStatePattern = regexp.MustCompile(`^([^,]+),\s*([A-Z]{2})$`)
	caseRefPattern   = regexp.MustCompile(`(?i)Case\s*[#:]?\s*:?\s*(\d+-\d+-\d+)`)
	serialPattern    = regexp.MustCompile(`(?i)#\s*([A-Z0-9]+)`)
	purchasePattern  = regexp.MustCompile(`(?i)purchased?\s+(\d{1,2}/\d{1,2}/\d{2,4})`)
	purchaserPattern = regexp.MustCompile(`by\s+([A-Za-z\s]+?)(?:\s+\d|$)`)
)

// Known manufacturer spellings as they appear in the source cells, with a few
// aliases folded to a canonical name.
var manufacturers = []string{
	"GLOCK", "SMITH & WESSON", "S&W", "RUGER", "TAURUS", "FN", "FNFIVESEVEN",
	"SIG SAUER", "SIG", "SPRINGFIELD", "BERETTA", "COLT", "REMINGTON",
	"MOSSBERG", "BROWNING", "KIMBER", "WALTHER", "HI-POINT", "HIPOINT",
	"KEL-TEC", "KELTEC", "SCCY", "CANIK", "HERITAGE", "ROSSI", "POLYMER80",
	"CENTURY", "ANDERSON", "PALMETTO", "AERO", "BUSHMASTER", "DPMS",
	"ROCK RIVER", "SEARS", "CHARTER", "NORTH AMERICAN", "NAA", "BRYCO",
	"JENNINGS", "JIMENEZ", "LORCIN", "RAVEN", "DAVIS", "PHOENIX", "COBRA",
}

var manufacturerAliases = map[string]string{
	"S&W":     "SMITH & WESSON",
	"SIG":     "SIG SAUER",
	"HIPOINT": "HI-POINT",
	"KELTEC":  "KEL-TEC",
}

var caliberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(9\s*mm)`),
	regexp.MustCompile(`(\.22)`),
	regexp.MustCompile(`(\.380)`),
	regexp.MustCompile(`(\.40)`),
	regexp.MustCompile(`(\.45)`),
	regexp.MustCompile(`(\.38)`),
	regexp.MustCompile(`(\.357)`),
	regexp.MustCompile(`(?i)(10\s*mm)`),
	regexp.MustCompile(`(5\.7)`),
	regexp.MustCompile(`(\.223)`),
	regexp.MustCompile(`(5\.56)`),
	regexp.MustCompile(`(7\.62)`),
	regexp.MustCompile(`(\.308)`),
	regexp.MustCompile(`(?i)(12\s*gauge)`),
	regexp.MustCompile(`(?i)(20\s*gauge)`),
	regexp.MustCompile(`(\.25)`),
	regexp.MustCompile(`(\.32)`),
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ParseDealerBlock parses a dealer cell. The first non-empty line is the
// dealer name; later lines contribute the FFL number and city/state when
// they match their respective shapes.
func ParseDealerBlock(text string) DealerBlock {
	var block DealerBlock
	lines := splitLines(text)
	if len(lines) == 0 {
		return block
	}

	block.Name = lines[0]
	for _, line := range lines[1:] {
		if m := fflPattern.FindStringSubmatch(line); m != nil {
			block.FFL = m[1]
			continue
		}
		if m := cityStatePattern.FindStringSubmatch(line); m != nil {
			block.City = m[1]
			block.State = m[2]
		}
	}
	return block
}

// ParseCaseBlock parses a case cell. The first non-empty line is the
// defendant; the first line containing a case reference supplies the number.
func ParseCaseBlock(text string) CaseBlock {
	var block CaseBlock
	lines := splitLines(text)
	if len(lines) == 0 {
		return block
	}

	block.DefendantName = lines[0]
	for _, line := range lines {
		if m := caseRefPattern.FindStringSubmatch(line); m != nil {
			block.CaseNumber = m[1]
			break
		}
	}
	return block
}

// ParseFirearmBlock parses a firearm cell: manufacturer by containment
// against the known list, serial after "#", caliber by the first matching
// pattern, purchase date after "purchased", purchaser after "by".
func ParseFirearmBlock(text string) FirearmBlock {
	var block FirearmBlock
	if strings.TrimSpace(text) == "" {
		return block
	}

	upper := strings.ToUpper(text)
	for _, mfr := range manufacturers {
		if strings.Contains(upper, mfr) {
			block.Manufacturer = mfr
			if canonical, ok := manufacturerAliases[mfr]; ok {
				block.Manufacturer = canonical
			}
			break
		}
	}

	if m := serialPattern.FindStringSubmatch(text); m != nil {
		block.Serial = m[1]
	}
	for _, p := range caliberPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			block.Caliber = strings.TrimSpace(m[1])
			break
		}
	}
	if m := purchasePattern.FindStringSubmatch(text); m != nil {
		block.PurchaseDate = m[1]
	}
	if m := purchaserPattern.FindStringSubmatch(text); m != nil {
		block.Purchaser = strings.TrimSpace(m[1])
	}
	return block
}
