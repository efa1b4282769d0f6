// Package pipeline orchestrates the workbook-to-database load: read sheets,
// transform rows, replace datasets, then publish what happened.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	ycontext "github.com/Ramsey-B/yarrow/pkg/context"
	"github.com/Ramsey-B/yarrow/pkg/events"
	"github.com/Ramsey-B/yarrow/pkg/logging"
	"github.com/Ramsey-B/yarrow/pkg/models"
	"github.com/Ramsey-B/yarrow/pkg/reader"
	"github.com/Ramsey-B/yarrow/pkg/transformer"
)

// EventStore is the persistence surface the pipeline needs.
type EventStore interface {
	ReplaceDataset(ctx context.Context, dataset string, events []*models.UnifiedEvent) error
}

// FlowSyncer mirrors trafficking corridors into the graph. Optional; a nil
// syncer disables the mirror.
type FlowSyncer interface {
	SyncFlows(ctx context.Context, flows []models.TraffickingFlow) error
}

// Options narrow a run. Zero value means every dataset, every row.
type Options struct {
	// Dataset restricts the run to one dataset name.
	Dataset string
	// MaxRows caps rows read per sheet. Zero means no cap.
	MaxRows int
}

// Summary reports what one run did.
type Summary struct {
	RunID            string         `json:"run_id"`
	Total            int            `json:"total"`
	Loaded           int            `json:"loaded"`
	Skipped          int            `json:"skipped"`
	Datasets         []string       `json:"datasets"`
	MethodCounts     map[string]int `json:"method_counts"`
	ResolvedFraction float64        `json:"resolved_fraction"`
	Duration         time.Duration  `json:"duration"`
}

type Pipeline struct {
	reader      reader.Reader
	transformer *transformer.Transformer
	store       EventStore
	emitter     *events.Emitter
	flows       FlowSyncer
	logger      logging.Logger
}

func New(r reader.Reader, t *transformer.Transformer, store EventStore, emitter *events.Emitter, flows FlowSyncer, logger logging.Logger) *Pipeline {
	return &Pipeline{
		reader:      r,
		transformer: t,
		store:       store,
		emitter:     emitter,
		flows:       flows,
		logger:      logger,
	}
}

// Run loads the workbook. Rows are grouped by dataset and each dataset is
// replaced atomically, so a rerun of the same workbook converges to the same
// state. Per-row problems degrade to skips; only a failed replace aborts.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Summary, error) {
	runID := uuid.New().String()
	ctx = ycontext.SetRunID(ctx, runID)
	start := time.Now()

	log := p.logger.WithContext(ctx)
	log.WithField("run_id", runID).Info("Starting pipeline run")

	sheets, err := p.reader.Sheets(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:        runID,
		MethodCounts: make(map[string]int),
	}

	grouped := make(map[string][]*models.UnifiedEvent)
	var datasetOrder []string
	var flows []models.TraffickingFlow

	for _, sheet := range sheets {
		rows := sheet.Rows
		if opts.MaxRows > 0 && len(rows) > opts.MaxRows {
			rows = rows[:opts.MaxRows]
		}
		for i := range rows {
			row := &rows[i]
			if opts.Dataset != "" && row.SourceDataset != opts.Dataset {
				continue
			}
			summary.Total++

			event, ok := p.transformRow(ctx, row)
			if !ok {
				summary.Skipped++
				continue
			}

			if _, seen := grouped[row.SourceDataset]; !seen {
				datasetOrder = append(datasetOrder, row.SourceDataset)
			}
			grouped[row.SourceDataset] = append(grouped[row.SourceDataset], event)
			summary.MethodCounts[event.JurisdictionMethod]++
			if event.TraffickingOrigin != nil && event.TraffickingDestination != nil {
				flows = append(flows, models.TraffickingFlow{
					Origin:      *event.TraffickingOrigin,
					Destination: *event.TraffickingDestination,
				})
			}
		}
	}

	for _, dataset := range datasetOrder {
		batch := grouped[dataset]
		dsCtx := ycontext.SetDataset(ctx, dataset)
		if err := p.store.ReplaceDataset(dsCtx, dataset, batch); err != nil {
			return nil, err
		}
		summary.Loaded += len(batch)
		summary.Datasets = append(summary.Datasets, dataset)

		if p.emitter != nil {
			p.emitter.EmitDatasetReplaced(dsCtx, dataset, runID, len(batch), summary.MethodCounts, resolvedFraction(batch))
		}
	}

	if p.flows != nil && len(flows) > 0 {
		// The graph mirror is best effort; the load already committed.
		if err := p.flows.SyncFlows(ctx, flows); err != nil {
			log.WithError(err).Warn("Trafficking flow graph sync failed")
		}
	}

	summary.ResolvedFraction = summaryResolvedFraction(summary)
	summary.Duration = time.Since(start)

	log.WithFields(map[string]any{
		"run_id":   runID,
		"total":    summary.Total,
		"loaded":   summary.Loaded,
		"skipped":  summary.Skipped,
		"datasets": strings.Join(summary.Datasets, ","),
		"duration": summary.Duration,
	}).Info("Pipeline run complete")

	return summary, nil
}

// transformRow routes a row to the parser its dataset needs.
func (p *Pipeline) transformRow(ctx context.Context, row *models.RawRow) (*models.UnifiedEvent, bool) {
	if row.SourceDataset == models.DatasetDEGunstat {
		return p.transformer.TransformGunstat(ctx, row)
	}
	return p.transformer.Transform(ctx, row)
}

func resolvedFraction(batch []*models.UnifiedEvent) float64 {
	if len(batch) == 0 {
		return 0
	}
	resolved := 0
	for _, e := range batch {
		if e.JurisdictionState != nil && e.JurisdictionMethod != string(models.MethodUnknown) {
			resolved++
		}
	}
	return float64(resolved) / float64(len(batch))
}

func summaryResolvedFraction(s *Summary) float64 {
	if s.Loaded == 0 {
		return 0
	}
	resolved := 0
	for method, count := range s.MethodCounts {
		if method != string(models.MethodUnknown) {
			resolved += count
		}
	}
	return float64(resolved) / float64(s.Loaded)
}
