package pipeline

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/yarrow/pkg/events"
	"github.com/Ramsey-B/yarrow/pkg/jurisdiction"
	"github.com/Ramsey-B/yarrow/pkg/kafka"
	"github.com/Ramsey-B/yarrow/pkg/logging"
	"github.com/Ramsey-B/yarrow/pkg/models"
	"github.com/Ramsey-B/yarrow/pkg/reader"
	"github.com/Ramsey-B/yarrow/pkg/transformer"
)

type fakeReader struct {
	sheets []reader.Sheet
	err    error
}

func (f *fakeReader) Sheets(ctx context.Context) ([]reader.Sheet, error) {
	return f.sheets, f.err
}

type fakeStore struct {
	replaced map[string][]*models.UnifiedEvent
	order    []string
	err      error
}

func (f *fakeStore) ReplaceDataset(ctx context.Context, dataset string, events []*models.UnifiedEvent) error {
	if f.err != nil {
		return f.err
	}
	if f.replaced == nil {
		f.replaced = make(map[string][]*models.UnifiedEvent)
	}
	f.replaced[dataset] = events
	f.order = append(f.order, dataset)
	return nil
}

type fakePublisher struct {
	events []*kafka.DatasetEvent
}

func (f *fakePublisher) PublishDatasetEvent(ctx context.Context, event *kafka.DatasetEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fakeFlowSyncer struct {
	flows []models.TraffickingFlow
	err   error
}

func (f *fakeFlowSyncer) SyncFlows(ctx context.Context, flows []models.TraffickingFlow) error {
	f.flows = flows
	return f.err
}

func traceRow(sheet string, rowNum int, values map[string]string) models.RawRow {
	return models.RawRow{
		SourceDataset: models.DatasetForSheet(sheet),
		SourceSheet:   sheet,
		SourceRow:     rowNum,
		Values:        values,
	}
}

func newPipeline(r reader.Reader, store EventStore, emitter *events.Emitter, flows FlowSyncer) *Pipeline {
	resolver := jurisdiction.NewResolver(jurisdiction.DefaultSheetDefaults())
	t := transformer.New(resolver, logging.NewNop())
	return New(r, t, store, emitter, flows, logging.NewNop())
}

func TestRunGroupsByDatasetAndCounts(t *testing.T) {
	r := &fakeReader{sheets: []reader.Sheet{
		{Name: "Philadelphia Trace", Rows: []models.RawRow{
			traceRow("Philadelphia Trace", 2, map[string]string{"FFL": "Dealer A", "State": "PA"}),
			traceRow("Philadelphia Trace", 3, map[string]string{"FFL": "?", "State": "PA"}),
		}},
		{Name: "Sheet1", Rows: []models.RawRow{
			traceRow("Sheet1", 2, map[string]string{
				"FFL":          "Dealer B",
				"State":        "GA",
				"Case subject": "GA --> NY trafficking ring",
			}),
		}},
	}}

	store := &fakeStore{}
	publisher := &fakePublisher{}
	emitter := events.NewEmitter(publisher, logging.NewNop())
	flows := &fakeFlowSyncer{}

	summary, err := newPipeline(r, store, emitter, flows).Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Loaded)
	assert.Equal(t, 1, summary.Skipped)
	assert.NotEmpty(t, summary.RunID)

	require.Len(t, store.replaced, 2)
	assert.Len(t, store.replaced[models.DatasetPATrace], 1)
	assert.Len(t, store.replaced[models.DatasetUnknownCGDB], 1)

	// One emitted event per replaced dataset, keyed by the same run.
	require.Len(t, publisher.events, 2)
	for _, e := range publisher.events {
		assert.Equal(t, "dataset.replaced", e.EventType)
		assert.Equal(t, summary.RunID, e.RunID)
	}

	// The GA --> NY flow reaches the graph syncer.
	require.Len(t, flows.flows, 1)
	assert.Equal(t, "GA", flows.flows[0].Origin)
	assert.Equal(t, "NY", flows.flows[0].Destination)
}

func TestRunDatasetFilter(t *testing.T) {
	r := &fakeReader{sheets: []reader.Sheet{
		{Name: "Philadelphia Trace", Rows: []models.RawRow{
			traceRow("Philadelphia Trace", 2, map[string]string{"FFL": "Dealer A", "State": "PA"}),
		}},
		{Name: "Sheet1", Rows: []models.RawRow{
			traceRow("Sheet1", 2, map[string]string{"FFL": "Dealer B", "State": "GA"}),
		}},
	}}

	store := &fakeStore{}
	summary, err := newPipeline(r, store, nil, nil).Run(context.Background(), Options{Dataset: models.DatasetPATrace})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, []string{models.DatasetPATrace}, store.order)
}

func TestRunMaxRows(t *testing.T) {
	r := &fakeReader{sheets: []reader.Sheet{
		{Name: "Philadelphia Trace", Rows: []models.RawRow{
			traceRow("Philadelphia Trace", 2, map[string]string{"FFL": "Dealer A", "State": "PA"}),
			traceRow("Philadelphia Trace", 3, map[string]string{"FFL": "Dealer B", "State": "PA"}),
			traceRow("Philadelphia Trace", 4, map[string]string{"FFL": "Dealer C", "State": "PA"}),
		}},
	}}

	store := &fakeStore{}
	summary, err := newPipeline(r, store, nil, nil).Run(context.Background(), Options{MaxRows: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Len(t, store.replaced[models.DatasetPATrace], 2)
}

func TestRunReplaceFailureAborts(t *testing.T) {
	r := &fakeReader{sheets: []reader.Sheet{
		{Name: "Philadelphia Trace", Rows: []models.RawRow{
			traceRow("Philadelphia Trace", 2, map[string]string{"FFL": "Dealer A", "State": "PA"}),
		}},
	}}

	store := &fakeStore{err: errors.New("database gone")}
	_, err := newPipeline(r, store, nil, nil).Run(context.Background(), Options{})
	require.Error(t, err)
}

func TestRunGraphSyncFailureDegrades(t *testing.T) {
	r := &fakeReader{sheets: []reader.Sheet{
		{Name: "Sheet1", Rows: []models.RawRow{
			traceRow("Sheet1", 2, map[string]string{
				"FFL":          "Dealer A",
				"State":        "GA",
				"Case subject": "GA --> SC pipeline case",
			}),
		}},
	}}

	store := &fakeStore{}
	flows := &fakeFlowSyncer{err: errors.New("bolt unreachable")}

	summary, err := newPipeline(r, store, nil, flows).Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Loaded)
}

func TestRunRoutesGunstatRows(t *testing.T) {
	r := &fakeReader{sheets: []reader.Sheet{
		{Name: "Gunstat 2024", Rows: []models.RawRow{
			{
				SourceDataset: models.DatasetDEGunstat,
				SourceSheet:   "Gunstat 2024",
				SourceRow:     2,
				Values: map[string]string{
					"FFL": "Cabela's\nDover, DE",
				},
			},
		}},
	}}

	store := &fakeStore{}
	summary, err := newPipeline(r, store, nil, nil).Run(context.Background(), Options{})
	require.NoError(t, err)

	require.Equal(t, 1, summary.Loaded)
	batch := store.replaced[models.DatasetDEGunstat]
	require.Len(t, batch, 1)
	assert.Equal(t, string(models.MethodImplicit), batch[0].JurisdictionMethod)
	require.NotNil(t, batch[0].JurisdictionState)
	assert.Equal(t, "DE", *batch[0].JurisdictionState)
}
