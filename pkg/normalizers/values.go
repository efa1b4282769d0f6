package normalizers

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ConvertBoolean maps yes/no style cells to a tri-state boolean. Affirmative
// values (yes, true, 1) return true, negative values (no, false, 0) return
// false, and everything else, including "Unclear" and blank cells, returns
// nil. The nil case must survive to storage; it is not equivalent to false.
func ConvertBoolean(value string) *bool {
	val := strings.ToLower(strings.TrimSpace(value))
	switch val {
	case "yes", "true", "1":
		b := true
		return &b
	case "no", "false", "0":
		b := false
		return &b
	}
	return nil
}

var (
	monthsPattern = regexp.MustCompile(`(\d+)\s*months?`)
	daysPattern   = regexp.MustCompile(`(\d+)\s*(?:days?)?`)
)

// ParseTimeToCrime parses a time-to-crime cell into whole days. Month
// quantities convert at 30 days per month and are checked before the bare
// number rule so "5 months" yields 150, not 5. Returns nil when no number
// is present.
func ParseTimeToCrime(text string) *int {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}
	if m := monthsPattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		days := n * 30
		return &days
	}
	if m := daysPattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		return &n
	}
	return nil
}

var ttrSuffixPattern = regexp.MustCompile(`(?i)\s*(days?|d)\s*$`)

// ParseTimeToRecovery parses a numeric time-to-recovery cell into days.
// Accepts plain integers, decimals (truncated), and values with a trailing
// "days" unit. Sentinel non-values and negatives return nil.
func ParseTimeToRecovery(text string) *int {
	text = strings.ToLower(strings.TrimSpace(text))
	switch text {
	case "", "unknown", "n/a", "na", "-":
		return nil
	}

	text = strings.TrimSpace(ttrSuffixPattern.ReplaceAllString(text, ""))
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f < 0 {
		return nil
	}
	days := int(f)
	return &days
}

var purchaseDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)

// ParsePurchaseDate parses M/D/YY or M/D/YYYY into a UTC date. Two-digit
// years at or below 26 land in the 2000s, the rest in the 1900s. Impossible
// calendar dates and years outside 1900..2100 return nil.
func ParsePurchaseDate(dateStr string) *time.Time {
	dateStr = strings.TrimSpace(dateStr)
	m := purchaseDatePattern.FindStringSubmatch(dateStr)
	if m == nil {
		return nil
	}

	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	if year < 100 {
		if year <= 26 {
			year += 2000
		} else {
			year += 1900
		}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 || year > 2100 {
		return nil
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (2/30 becomes 3/2); reject those rows.
	if t.Day() != day || t.Month() != time.Month(month) {
		return nil
	}
	return &t
}

// CalculateCrimeDate derives the crime date from a sale date plus the
// recovery interval in days.
func CalculateCrimeDate(saleDate time.Time, days int) time.Time {
	return saleDate.AddDate(0, 0, days)
}

// FormatDate renders a date as ISO yyyy-mm-dd for storage.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
