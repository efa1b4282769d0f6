package models

import "strings"

// Known source dataset identifiers. The dataset is the idempotency scope for
// loads: replacing a dataset never touches rows from other datasets.
const (
	DatasetCrimeGunDB  = "CRIME_GUN_DB"
	DatasetCGCourtDoc  = "CG_COURT_DOC"
	DatasetPATrace     = "PA_TRACE"
	DatasetDEGunstat   = "DE_GUNSTAT"
	DatasetUnknownCGDB = "UNKNOWN_CRIME_GUN_DB"
)

// RawRow is one spreadsheet row as delivered by the reader: an opaque mapping
// of column header -> cell text plus positional metadata. Cell values are kept
// as raw strings; all typing happens in the normalizers.
type RawRow struct {
	SourceDataset string
	SourceSheet   string
	SourceRow     int // 1-indexed position in the original sheet
	Values        map[string]string
}

// Get returns the trimmed cell value for an exact column header, or "" when
// the column is absent.
func (r *RawRow) Get(column string) string {
	if r.Values == nil {
		return ""
	}
	return strings.TrimSpace(r.Values[column])
}

// GetMatching returns the value of the first column whose header contains the
// given term (case-insensitive). Source sheets rename columns freely, so most
// lookups go through this rather than Get.
func (r *RawRow) GetMatching(term string) string {
	if r.Values == nil {
		return ""
	}
	term = strings.ToLower(term)
	for col, val := range r.Values {
		if strings.Contains(strings.ToLower(col), term) {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// DatasetForSheet maps a sheet name to its dataset identifier. Unrecognized
// sheets fall back to UNKNOWN_CRIME_GUN_DB rather than being dropped.
func DatasetForSheet(sheetName string) string {
	switch {
	case strings.Contains(sheetName, "Philadelphia"), strings.Contains(sheetName, "Rochester"):
		return DatasetPATrace
	case strings.Contains(sheetName, "CG court doc"):
		return DatasetCGCourtDoc
	case strings.Contains(sheetName, "Gunstat"), strings.Contains(sheetName, "identified dealers"):
		return DatasetDEGunstat
	default:
		return DatasetUnknownCGDB
	}
}
