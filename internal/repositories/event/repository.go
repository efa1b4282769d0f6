// Package event persists unified crime gun events. All writes go through
// transactions; dataset replacement is the idempotency primitive for loads.
package event

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/yarrow/pkg/database"
	"github.com/Ramsey-B/yarrow/pkg/logging"
	"github.com/Ramsey-B/yarrow/pkg/models"
	"github.com/Ramsey-B/yarrow/pkg/tracing"
)

const table = "crime_gun_events"

// insertBatchSize keeps each INSERT under SQLite's bind variable limit
// (999 params / 41 columns).
const insertBatchSize = 20

var insertColumns = []string{
	"source_dataset", "source_sheet", "source_row",
	"jurisdiction_state", "jurisdiction_city", "jurisdiction_method",
	"crime_location_state", "crime_location_city", "crime_location_zip",
	"crime_location_court", "crime_location_pd", "crime_location_reasoning",
	"dealer_name", "dealer_city", "dealer_state", "dealer_ffl",
	"case_name", "defendant_name", "case_number", "court", "facts_narrative",
	"trafficking_origin", "trafficking_destination", "is_southwest_border",
	"in_dl2_program", "is_top_trace_ffl", "is_revoked", "is_charged_or_sued",
	"manufacturer_name", "firearm_serial", "firearm_caliber",
	"purchaser_name", "case_status",
	"has_nibin", "has_trafficking_indicia", "is_interstate",
	"time_to_crime_days", "sale_date", "crime_date",
	"created_at", "updated_at",
}

var selectColumns = append([]string{"id"}, insertColumns...)

// Repository handles crime gun event persistence.
type Repository struct {
	db     database.DB
	flavor sqlbuilder.Flavor
	logger logging.Logger
}

func NewRepository(db database.DB, logger logging.Logger) *Repository {
	return &Repository{
		db:     db,
		flavor: database.Flavor(db.DriverName()),
		logger: logger,
	}
}

// DB exposes the underlying handle for callers that coordinate transactions.
func (r *Repository) DB() database.DB {
	return r.db
}

// ReplaceDataset atomically swaps every event of one dataset for the given
// batch. Delete and insert share a transaction, so a failed load leaves the
// previous contents untouched and re-running a load never duplicates rows.
// Events from other datasets are never affected.
func (r *Repository) ReplaceDataset(ctx context.Context, dataset string, events []*models.UnifiedEvent) error {
	txCtx, span := tracing.StartSpan(ctx, "event.Repository.ReplaceDataset")
	defer span.End()

	txCtx, tx, err := r.db.GetTx(txCtx, nil)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	db := sqlbuilder.NewDeleteBuilder()
	db.SetFlavor(r.flavor)
	db.DeleteFrom(table)
	db.Where(db.Equal("source_dataset", dataset))

	query, args := db.Build()
	if _, err := tx.ExecContext(txCtx, query, args...); err != nil {
		r.logger.WithContext(txCtx).WithError(err).WithFields(map[string]any{"dataset": dataset}).Error("Failed to delete dataset events")
		return httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to delete events for dataset %s: %v", dataset, err)
	}

	now := time.Now().UTC()
	for start := 0; start < len(events); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(events) {
			end = len(events)
		}
		if err := r.insertBatch(txCtx, tx, events[start:end], now); err != nil {
			r.logger.WithContext(txCtx).WithError(err).WithFields(map[string]any{
				"dataset": dataset,
				"batch":   start / insertBatchSize,
			}).Error("Failed to insert dataset events")
			return httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to insert events for dataset %s: %v", dataset, err)
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit dataset replacement")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"dataset": dataset,
		"count":   len(events),
	}).Info("Replaced dataset events")
	return nil
}

func (r *Repository) insertBatch(ctx context.Context, tx database.Tx, events []*models.UnifiedEvent, now time.Time) error {
	if len(events) == 0 {
		return nil
	}

	ib := sqlbuilder.NewInsertBuilder()
	ib.SetFlavor(r.flavor)
	ib.InsertInto(table)
	ib.Cols(insertColumns...)
	for _, e := range events {
		ib.Values(
			e.SourceDataset, e.SourceSheet, e.SourceRow,
			e.JurisdictionState, e.JurisdictionCity, e.JurisdictionMethod,
			e.CrimeLocationState, e.CrimeLocationCity, e.CrimeLocationZip,
			e.CrimeLocationCourt, e.CrimeLocationPD, e.CrimeLocationReasoning,
			e.DealerName, e.DealerCity, e.DealerState, e.DealerFFL,
			e.CaseName, e.DefendantName, e.CaseNumber, e.Court, e.FactsNarrative,
			e.TraffickingOrigin, e.TraffickingDestination, e.IsSouthwestBorder,
			e.InDL2Program, e.IsTopTraceFFL, e.IsRevoked, e.IsChargedOrSued,
			e.ManufacturerName, e.FirearmSerial, e.FirearmCaliber,
			e.PurchaserName, e.CaseStatus,
			e.HasNIBIN, e.HasTraffickingIndicia, e.IsInterstate,
			e.TimeToCrimeDays, e.SaleDate, e.CrimeDate,
			now, now,
		)
	}

	query, args := ib.Build()
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// UpdateCrimeLocation applies a classifier result to one event. Single
// statement, last write wins; concurrent classifiers are expected to
// partition work by ID range.
func (r *Repository) UpdateCrimeLocation(ctx context.Context, id int64, update models.CrimeLocationUpdate) error {
	ctx, span := tracing.StartSpan(ctx, "event.Repository.UpdateCrimeLocation")
	defer span.End()

	ub := sqlbuilder.NewUpdateBuilder()
	ub.SetFlavor(r.flavor)
	ub.Update(table)
	ub.Set(
		ub.Assign("crime_location_state", update.State),
		ub.Assign("crime_location_city", nullable(update.City)),
		ub.Assign("crime_location_zip", nullable(update.Zip)),
		ub.Assign("crime_location_court", nullable(update.Court)),
		ub.Assign("crime_location_pd", nullable(update.PD)),
		ub.Assign("crime_location_reasoning", update.Reasoning),
		ub.Assign("updated_at", time.Now().UTC()),
	)
	ub.Where(ub.Equal("id", id))

	query, args := ub.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"event_id": id}).Error("Failed to update crime location")
		return httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to update crime location: %v", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to read update result: %v", err)
	}
	if affected == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "event %d not found", id)
	}
	return nil
}

// ListMissingCrimeLocation returns the classifier work queue: events whose
// crime location has not been populated yet, oldest first.
func (r *Repository) ListMissingCrimeLocation(ctx context.Context, limit int) ([]models.UnifiedEvent, error) {
	ctx, span := tracing.StartSpan(ctx, "event.Repository.ListMissingCrimeLocation")
	defer span.End()

	sb := r.selectEvents()
	sb.Where(sb.IsNull("crime_location_state"))
	sb.OrderBy("id ASC")
	if limit > 0 {
		sb.Limit(limit)
	}

	return r.selectMany(ctx, sb, "Failed to list unclassified events")
}

// Filter narrows a List call. Empty fields are ignored.
type Filter struct {
	State   string
	Dataset string
	Limit   int
}

// List returns events matching the filter, in id order.
func (r *Repository) List(ctx context.Context, filter Filter) ([]models.UnifiedEvent, error) {
	ctx, span := tracing.StartSpan(ctx, "event.Repository.List")
	defer span.End()

	sb := r.selectEvents()
	if filter.State != "" {
		sb.Where(sb.Equal("jurisdiction_state", filter.State))
	}
	if filter.Dataset != "" {
		sb.Where(sb.Equal("source_dataset", filter.Dataset))
	}
	sb.OrderBy("id ASC")
	if filter.Limit > 0 {
		sb.Limit(filter.Limit)
	}

	return r.selectMany(ctx, sb, "Failed to list events")
}

// GetByDataset returns events for one dataset in source order.
func (r *Repository) GetByDataset(ctx context.Context, dataset string, limit int) ([]models.UnifiedEvent, error) {
	ctx, span := tracing.StartSpan(ctx, "event.Repository.GetByDataset")
	defer span.End()

	sb := r.selectEvents()
	sb.Where(sb.Equal("source_dataset", dataset))
	sb.OrderBy("source_sheet ASC", "source_row ASC")
	if limit > 0 {
		sb.Limit(limit)
	}

	return r.selectMany(ctx, sb, "Failed to get events by dataset")
}

// GetByState returns events resolved to one jurisdiction state.
func (r *Repository) GetByState(ctx context.Context, state string, limit int) ([]models.UnifiedEvent, error) {
	ctx, span := tracing.StartSpan(ctx, "event.Repository.GetByState")
	defer span.End()

	sb := r.selectEvents()
	sb.Where(sb.Equal("jurisdiction_state", state))
	sb.OrderBy("id ASC")
	if limit > 0 {
		sb.Limit(limit)
	}

	return r.selectMany(ctx, sb, "Failed to get events by state")
}

// ListDealerEvents returns every event with a dealer name, grouped together
// by dealer for scoring.
func (r *Repository) ListDealerEvents(ctx context.Context) ([]models.UnifiedEvent, error) {
	ctx, span := tracing.StartSpan(ctx, "event.Repository.ListDealerEvents")
	defer span.End()

	sb := r.selectEvents()
	sb.Where(sb.IsNotNull("dealer_name"))
	sb.OrderBy("dealer_name ASC", "id ASC")

	return r.selectMany(ctx, sb, "Failed to list dealer events")
}

type datasetCount struct {
	SourceDataset string `db:"source_dataset"`
	Count         int    `db:"count"`
}

// CountByDataset returns the number of stored events per dataset.
func (r *Repository) CountByDataset(ctx context.Context) (map[string]int, error) {
	ctx, span := tracing.StartSpan(ctx, "event.Repository.CountByDataset")
	defer span.End()

	sb := sqlbuilder.NewSelectBuilder()
	sb.SetFlavor(r.flavor)
	sb.Select("source_dataset", "COUNT(*) AS count")
	sb.From(table)
	sb.GroupBy("source_dataset")

	query, args := sb.Build()
	var rows []datasetCount
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count events by dataset")
		return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to count events: %v", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.SourceDataset] = row.Count
	}
	return counts, nil
}

type methodCount struct {
	JurisdictionMethod string `db:"jurisdiction_method"`
	Count              int    `db:"count"`
}

// MethodDistribution returns how many events each resolution method
// produced.
func (r *Repository) MethodDistribution(ctx context.Context) (map[string]int, error) {
	ctx, span := tracing.StartSpan(ctx, "event.Repository.MethodDistribution")
	defer span.End()

	sb := sqlbuilder.NewSelectBuilder()
	sb.SetFlavor(r.flavor)
	sb.Select("jurisdiction_method", "COUNT(*) AS count")
	sb.From(table)
	sb.GroupBy("jurisdiction_method")

	query, args := sb.Build()
	var rows []methodCount
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get method distribution")
		return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to get method distribution: %v", err)
	}

	dist := make(map[string]int, len(rows))
	for _, row := range rows {
		dist[row.JurisdictionMethod] = row.Count
	}
	return dist, nil
}

func (r *Repository) selectEvents() *sqlbuilder.SelectBuilder {
	sb := sqlbuilder.NewSelectBuilder()
	sb.SetFlavor(r.flavor)
	sb.Select(selectColumns...)
	sb.From(table)
	return sb
}

func (r *Repository) selectMany(ctx context.Context, sb *sqlbuilder.SelectBuilder, logMsg string) ([]models.UnifiedEvent, error) {
	query, args := sb.Build()
	var events []models.UnifiedEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error(logMsg)
		return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to query events: %v", err)
	}
	return events, nil
}

// nullable converts "" to NULL so optional classifier fields don't overwrite
// with empty strings.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
