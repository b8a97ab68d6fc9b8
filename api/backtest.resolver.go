package api

import (
	"fmt"
	"net/http"

	"cryptofactor/internal/config"
	"cryptofactor/internal/domain"
	"cryptofactor/internal/logger"
	"cryptofactor/internal/repository"
	l3_service "cryptofactor/internal/service/l3"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BacktestRequest overlays the configured strategy defaults: fields left
// out of the body keep their configured value.
type BacktestRequest struct {
	config.StrategyConfig
	IncludeWeights bool `json:"includeWeights"`
	Save           bool `json:"save"`
}

type BacktestResponse struct {
	RunID        uuid.UUID                 `json:"runId"`
	Params       map[string]interface{}    `json:"params"`
	Summary      domain.PerformanceSummary `json:"summary"`
	Diagnostics  domain.Diagnostics        `json:"diagnostics"`
	Rebalances   []domain.RebalanceRecord  `json:"rebalances"`
	Daily        []repository.DailyRow     `json:"daily"`
	Weights      []repository.WeightRow    `json:"weights,omitempty"`
	ArtifactsDir *string                   `json:"artifactsDir,omitempty"`
}

func (h ApiHandler) backtest(c *gin.Context) {
	ctx := c.Request.Context()
	if h.Index == nil {
		returnErrorJsonCode(fmt.Errorf("no panel loaded"), c, http.StatusServiceUnavailable)
		return
	}

	requestBody := BacktestRequest{StrategyConfig: h.Defaults}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to parse request: %w", err), c, http.StatusBadRequest)
		return
	}

	params, err := requestBody.ToParams()
	if err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}

	result, err := h.BacktestService.Run(ctx, l3_service.BacktestInput{
		Index:  h.Index,
		Params: params,
	})
	observeRun("backtest", err)
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to run backtest: %w", err), c)
		return
	}

	runID := uuid.New()
	if requestID, ok := c.Get("requestID"); ok {
		if id, err := uuid.Parse(fmt.Sprint(requestID)); err == nil {
			runID = id
		}
	}

	out := BacktestResponse{
		RunID:       runID,
		Params:      repository.ParamsMap(result.Params),
		Summary:     result.Summary,
		Diagnostics: result.Diagnostics,
		Rebalances:  result.Rebalances,
		Daily:       repository.DailyRows(result),
	}
	if requestBody.IncludeWeights {
		out.Weights = repository.WeightRows(result)
	}
	if requestBody.Save {
		if h.ResultsRepository == nil {
			returnErrorJsonCode(fmt.Errorf("saving results is not enabled"), c, http.StatusBadRequest)
			return
		}
		dir, err := h.ResultsRepository.SaveBacktest(runID, result)
		if err != nil {
			returnErrorJson(fmt.Errorf("failed to save backtest: %w", err), c)
			return
		}
		out.ArtifactsDir = &dir
		logger.FromContext(ctx).Infow("saved backtest", "runID", runID, "dir", dir)
	}

	c.JSON(200, out)
}
