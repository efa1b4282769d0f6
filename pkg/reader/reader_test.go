package reader

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Ramsey-B/yarrow/pkg/logging"
	"github.com/Ramsey-B/yarrow/pkg/models"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	// Default sheet becomes the trace sheet.
	require.NoError(t, f.SetSheetName("Sheet1", "Philadelphia Trace"))
	require.NoError(t, f.SetSheetRow("Philadelphia Trace", "A1", &[]string{"FFL ", "City", "State"}))
	require.NoError(t, f.SetSheetRow("Philadelphia Trace", "A2", &[]string{"Dealer A", "Philadelphia", "PA"}))
	require.NoError(t, f.SetSheetRow("Philadelphia Trace", "A3", &[]string{"", "", ""}))
	require.NoError(t, f.SetSheetRow("Philadelphia Trace", "A4", &[]string{"Dealer B", "Chester", "PA"}))

	_, err := f.NewSheet("Sheet7")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Sheet7", "A1", &[]string{"junk"}))

	_, err = f.NewSheet("Empty Sheet")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "trace.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestXLSXReaderSheets(t *testing.T) {
	path := writeWorkbook(t)
	r := NewXLSXReader(path, nil, logging.NewNop())

	sheets, err := r.Sheets(context.Background())
	require.NoError(t, err)

	// Sheet7 skipped; the empty sheet survives with zero rows.
	require.Len(t, sheets, 2)
	assert.Equal(t, "Philadelphia Trace", sheets[0].Name)
	assert.Equal(t, "Empty Sheet", sheets[1].Name)
	assert.Empty(t, sheets[1].Rows)

	rows := sheets[0].Rows
	require.Len(t, rows, 2)

	// Headers are trimmed; blank row 3 is dropped but positions are stable.
	assert.Equal(t, "Dealer A", rows[0].Get("FFL"))
	assert.Equal(t, 2, rows[0].SourceRow)
	assert.Equal(t, "Dealer B", rows[1].Get("FFL"))
	assert.Equal(t, 4, rows[1].SourceRow)

	assert.Equal(t, models.DatasetPATrace, rows[0].SourceDataset)
	assert.Equal(t, "Philadelphia Trace", rows[0].SourceSheet)
}

func TestXLSXReaderMissingFile(t *testing.T) {
	r := NewXLSXReader("/nonexistent/file.xlsx", nil, logging.NewNop())
	_, err := r.Sheets(context.Background())
	require.Error(t, err)
}
