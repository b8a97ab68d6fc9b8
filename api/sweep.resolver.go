package api

import (
	"fmt"
	"net/http"

	"cryptofactor/internal/config"
	"cryptofactor/internal/domain"
	"cryptofactor/internal/repository"
	l3_service "cryptofactor/internal/service/l3"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SweepRequest struct {
	Strategy  config.StrategyConfig `json:"strategy"`
	Windows   []int                 `json:"windows"`
	Intervals []int                 `json:"intervals"`
	Rules     []string              `json:"rules"`
	Parallel  int                   `json:"parallel"`
	Save      bool                  `json:"save"`
}

type sweepEntryResponse struct {
	Label       string                     `json:"label"`
	Params      map[string]interface{}     `json:"params"`
	Summary     *domain.PerformanceSummary `json:"summary,omitempty"`
	Diagnostics *domain.Diagnostics        `json:"diagnostics,omitempty"`
	Error       string                     `json:"error,omitempty"`
}

type SweepResponse struct {
	RunID        uuid.UUID            `json:"runId"`
	Entries      []sweepEntryResponse `json:"entries"`
	ArtifactsDir *string              `json:"artifactsDir,omitempty"`
}

func (h ApiHandler) sweepParallel(requested int) int {
	if requested <= 0 || (h.SweepParallel > 0 && requested > h.SweepParallel) {
		return h.SweepParallel
	}
	return requested
}

func (h ApiHandler) sweep(c *gin.Context) {
	if h.Index == nil {
		returnErrorJsonCode(fmt.Errorf("no panel loaded"), c, http.StatusServiceUnavailable)
		return
	}

	requestBody := SweepRequest{Strategy: h.Defaults}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to parse request: %w", err), c, http.StatusBadRequest)
		return
	}

	base, err := requestBody.Strategy.ToParams()
	if err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}
	rules := []domain.BucketRule{}
	for _, r := range requestBody.Rules {
		rule, err := domain.NewBucketRule(r)
		if err != nil {
			returnErrorJsonCode(err, c, http.StatusBadRequest)
			return
		}
		rules = append(rules, rule)
	}

	entries := l3_service.SweepGrid(l3_service.SweepGridInput{
		Base:      base,
		Windows:   requestBody.Windows,
		Intervals: requestBody.Intervals,
		Rules:     rules,
	})
	if h.MaxSweepEntries > 0 && len(entries) > h.MaxSweepEntries {
		returnErrorJsonCode(
			fmt.Errorf("sweep has %d combinations, limit is %d", len(entries), h.MaxSweepEntries),
			c,
			http.StatusBadRequest,
		)
		return
	}
	sweepEntries.Observe(float64(len(entries)))

	result, err := h.SweepService.Sweep(c.Request.Context(), l3_service.SweepInput{
		Index:       h.Index,
		Entries:     entries,
		Concurrency: h.sweepParallel(requestBody.Parallel),
	})
	observeRun("sweep", err)
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to run sweep: %w", err), c)
		return
	}

	out := SweepResponse{
		RunID:   result.RunID,
		Entries: []sweepEntryResponse{},
	}
	for _, e := range result.Entries {
		out.Entries = append(out.Entries, sweepEntryResponse{
			Label:       e.Label,
			Params:      repository.ParamsMap(e.Params),
			Summary:     e.Summary,
			Diagnostics: e.Diagnostics,
			Error:       e.Err,
		})
	}
	if requestBody.Save {
		if h.ResultsRepository == nil {
			returnErrorJsonCode(fmt.Errorf("saving results is not enabled"), c, http.StatusBadRequest)
			return
		}
		dir, err := h.ResultsRepository.SaveSweep(*result)
		if err != nil {
			returnErrorJson(fmt.Errorf("failed to save sweep: %w", err), c)
			return
		}
		out.ArtifactsDir = &dir
	}

	c.JSON(200, out)
}
