package normalizers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

func TestConvertBoolean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{name: "Yes", input: "Yes", expected: boolPtr(true)},
		{name: "lowercase yes", input: "yes", expected: boolPtr(true)},
		{name: "True", input: "True", expected: boolPtr(true)},
		{name: "one", input: "1", expected: boolPtr(true)},
		{name: "No", input: "No", expected: boolPtr(false)},
		{name: "false", input: "false", expected: boolPtr(false)},
		{name: "zero", input: "0", expected: boolPtr(false)},
		{name: "padded yes", input: "  yes  ", expected: boolPtr(true)},
		{name: "Unclear stays unknown", input: "Unclear", expected: nil},
		{name: "empty stays unknown", input: "", expected: nil},
		{name: "arbitrary text stays unknown", input: "probably", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConvertBoolean(tt.input))
		})
	}
}

func TestParseTimeToCrime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *int
	}{
		{name: "bare number is days", input: "47", expected: intPtr(47)},
		{name: "days unit", input: "365 days", expected: intPtr(365)},
		{name: "single day", input: "1 day", expected: intPtr(1)},
		{name: "months convert at 30", input: "5 months", expected: intPtr(150)},
		{name: "single month", input: "1 month", expected: intPtr(30)},
		{name: "months checked before bare number", input: "2 months", expected: intPtr(60)},
		{name: "unclear", input: "Unclear", expected: nil},
		{name: "empty", input: "", expected: nil},
		{name: "no number", input: "same day-ish", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTimeToCrime(tt.input))
		})
	}
}

func TestParseTimeToRecovery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *int
	}{
		{name: "plain integer", input: "1230", expected: intPtr(1230)},
		{name: "decimal truncates", input: "1500.5", expected: intPtr(1500)},
		{name: "days suffix", input: "365 days", expected: intPtr(365)},
		{name: "d suffix", input: "90d", expected: intPtr(90)},
		{name: "unknown sentinel", input: "unknown", expected: nil},
		{name: "na sentinel", input: "N/A", expected: nil},
		{name: "dash sentinel", input: "-", expected: nil},
		{name: "negative rejected", input: "-5", expected: nil},
		{name: "empty", input: "", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTimeToRecovery(tt.input))
		})
	}
}

func TestParsePurchaseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "two digit current era", input: "7/2/20", expected: "2020-07-02"},
		{name: "two digit historical", input: "10/21/82", expected: "1982-10-21"},
		{name: "four digit year", input: "03/13/2020", expected: "2020-03-13"},
		{name: "century start", input: "1/1/00", expected: "2000-01-01"},
		{name: "century end", input: "12/31/99", expected: "1999-12-31"},
		{name: "pivot low side", input: "5/15/26", expected: "2026-05-15"},
		{name: "pivot high side", input: "5/15/27", expected: "1927-05-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePurchaseDate(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, FormatDate(*got))
		})
	}

	t.Run("rejects impossible dates and junk", func(t *testing.T) {
		assert.Nil(t, ParsePurchaseDate("2/30/20"))
		assert.Nil(t, ParsePurchaseDate("13/1/20"))
		assert.Nil(t, ParsePurchaseDate("invalid"))
		assert.Nil(t, ParsePurchaseDate(""))
	})
}

func TestCalculateCrimeDate(t *testing.T) {
	sale := time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC)
	crime := CalculateCrimeDate(sale, 365)
	assert.Equal(t, "2021-01-14", FormatDate(crime))
}
