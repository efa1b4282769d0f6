package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/yarrow/pkg/logging"
	"github.com/Ramsey-B/yarrow/pkg/models"
	"github.com/Ramsey-B/yarrow/pkg/risk"
)

type fakeDealerRepo struct {
	events []models.UnifiedEvent
}

func (f *fakeDealerRepo) ListDealerEvents(ctx context.Context) ([]models.UnifiedEvent, error) {
	return f.events, nil
}

func dealerEvent(name string) models.UnifiedEvent {
	return models.UnifiedEvent{DealerName: &name}
}

func TestDealerRiskRanking(t *testing.T) {
	repo := &fakeDealerRepo{events: []models.UnifiedEvent{
		dealerEvent("Busy Dealer"),
		dealerEvent("Busy Dealer"),
		dealerEvent("Busy Dealer"),
		dealerEvent("Quiet Dealer"),
	}}
	h := NewDealerHandler(repo, risk.NewScorer(risk.DefaultWeights()), logging.NewNop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dealers/risk", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Risk(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Dealers []models.DealerRiskRecord `json:"dealers"`
		Count   int                       `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "Busy Dealer", body.Dealers[0].DealerName)
	assert.Greater(t, body.Dealers[0].Score, body.Dealers[1].Score)
}

func TestDealerRiskLimit(t *testing.T) {
	repo := &fakeDealerRepo{events: []models.UnifiedEvent{
		dealerEvent("A"),
		dealerEvent("B"),
		dealerEvent("C"),
	}}
	h := NewDealerHandler(repo, risk.NewScorer(risk.DefaultWeights()), logging.NewNop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dealers/risk?limit=2", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Risk(e.NewContext(req, rec)))

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
}
