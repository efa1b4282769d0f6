package transformer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/yarrow/pkg/models"
)

func gunstatRow(values map[string]string) *models.RawRow {
	return &models.RawRow{
		SourceDataset: models.DatasetDEGunstat,
		SourceSheet:   "all identified dealers",
		SourceRow:     2,
		Values:        values,
	}
}

func TestTransformGunstatFullRow(t *testing.T) {
	tr := newTransformer()

	row := gunstatRow(map[string]string{
		"":     "Cabela's\nNewark, DE\nFFL 8-51-01809",
		"Case": "Jason Miles\nCase #:30-23-63056",
		"Firearm, purchase, NIBIN information": "Taurus G2C #ABE573528\npurchased 7/2/20 by Bobby Cooks Jr",
		"Pending or resolved?":                 "Pending",
		"TTR":                                  "1230",
		"NIBIN?":                               "Yes",
		"Suspicious purchase circumstances/trafficking indicia?": "straw indicators",
		"Gunstat case summary":                                   "Recovered during arrest.",
	})

	event, ok := tr.TransformGunstat(context.Background(), row)
	require.True(t, ok)
	require.NotNil(t, event)

	assert.Equal(t, "DE", *event.JurisdictionState)
	assert.Equal(t, "Wilmington", *event.JurisdictionCity)
	assert.Equal(t, string(models.MethodImplicit), event.JurisdictionMethod)

	assert.Equal(t, "Cabela's", *event.DealerName)
	assert.Equal(t, "Newark", *event.DealerCity)
	assert.Equal(t, "DE", *event.DealerState)
	assert.Equal(t, "8-51-01809", *event.DealerFFL)
	assert.False(t, event.IsInterstate)

	assert.Equal(t, "Jason Miles", *event.DefendantName)
	assert.Equal(t, "30-23-063056", *event.CaseNumber)
	assert.Equal(t, "Delaware Superior Court", *event.Court)
	assert.Equal(t, "Pending", *event.CaseStatus)

	assert.Equal(t, "TAURUS", *event.ManufacturerName)
	assert.Equal(t, "ABE573528", *event.FirearmSerial)
	assert.Equal(t, "Bobby Cooks Jr", *event.PurchaserName)

	assert.True(t, event.HasNIBIN)
	assert.True(t, event.HasTraffickingIndicia)

	require.NotNil(t, event.TimeToCrimeDays)
	assert.Equal(t, 1230, *event.TimeToCrimeDays)
	require.NotNil(t, event.SaleDate)
	assert.Equal(t, "2020-07-02", *event.SaleDate)
	require.NotNil(t, event.CrimeDate)
	assert.Equal(t, "2023-11-14", *event.CrimeDate)

	assert.Equal(t, "Recovered during arrest.", *event.FactsNarrative)
}

func TestTransformGunstatInterstateDealer(t *testing.T) {
	tr := newTransformer()

	event, ok := tr.TransformGunstat(context.Background(), gunstatRow(map[string]string{
		"": "Keystone Arms\nPhiladelphia, PA\nFFL 8-23-00412",
	}))
	require.True(t, ok)
	assert.True(t, event.IsInterstate)
	assert.Equal(t, "PA", *event.DealerState)
	// Jurisdiction stays Delaware regardless of dealer state.
	assert.Equal(t, "DE", *event.JurisdictionState)
}

func TestTransformGunstatSkipsGarbage(t *testing.T) {
	tr := newTransformer()

	for _, cell := range []string{"", "?", "\n\n"} {
		event, ok := tr.TransformGunstat(context.Background(), gunstatRow(map[string]string{"": cell}))
		assert.False(t, ok)
		assert.Nil(t, event)
	}
}

func TestTransformGunstatNoSaleDateNoCrimeDate(t *testing.T) {
	tr := newTransformer()

	event, ok := tr.TransformGunstat(context.Background(), gunstatRow(map[string]string{
		"":    "Dover Pawn\nDover, DE",
		"TTR": "500",
	}))
	require.True(t, ok)
	require.NotNil(t, event.TimeToCrimeDays)
	assert.Equal(t, 500, *event.TimeToCrimeDays)
	assert.Nil(t, event.SaleDate)
	assert.Nil(t, event.CrimeDate)
}
