package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"cryptofactor/internal/domain"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
)

// ResultsRepository persists run artifacts. Each run gets its own
// directory so concurrent runs never share a file.
type ResultsRepository interface {
	SaveBacktest(runID uuid.UUID, result *domain.BacktestResult) (string, error)
	SaveSweep(result domain.SweepResult) (string, error)
}

type FileResultsRepositoryHandler struct {
	BaseDir string
}

func NewFileResultsRepository(baseDir string) ResultsRepository {
	return FileResultsRepositoryHandler{BaseDir: baseDir}
}

type DailyRow struct {
	Date           string  `csv:"date" json:"date"`
	Return         float64 `csv:"return" json:"return"`
	Value          string  `csv:"value" json:"value"`
	Cash           string  `csv:"cash" json:"cash"`
	GrossExposure  float64 `csv:"gross_exposure" json:"grossExposure"`
	NetExposure    float64 `csv:"net_exposure" json:"netExposure"`
	NumPositions   int     `csv:"num_positions" json:"numPositions"`
	Rebalanced     bool    `csv:"rebalanced" json:"rebalanced"`
	MissingReturns int     `csv:"missing_returns" json:"missingReturns"`
}

type WeightRow struct {
	Date   string  `csv:"date" json:"date"`
	Symbol string  `csv:"symbol" json:"symbol"`
	Weight float64 `csv:"weight" json:"weight"`
}

type RebalanceRow struct {
	Date                 string  `csv:"date"`
	NumLong              int     `csv:"num_long"`
	NumShort             int     `csv:"num_short"`
	Turnover             float64 `csv:"turnover"`
	Cost                 float64 `csv:"cost"`
	InsufficientUniverse bool    `csv:"insufficient_universe"`
}

type SweepRow struct {
	Label            string `csv:"label"`
	TotalReturn      string `csv:"total_return"`
	AnnualizedReturn string `csv:"annualized_return"`
	Volatility       string `csv:"annualized_volatility"`
	Sharpe           string `csv:"sharpe"`
	Sortino          string `csv:"sortino"`
	MaxDrawdown      string `csv:"max_drawdown"`
	WinRate          string `csv:"win_rate"`
	AvgTurnover      string `csv:"avg_turnover"`
	NumRebalances    int    `csv:"num_rebalances"`
	Error            string `csv:"error"`
}

type summaryFile struct {
	RunID       uuid.UUID                 `json:"runId"`
	Params      map[string]interface{}    `json:"params"`
	Summary     domain.PerformanceSummary `json:"summary"`
	Diagnostics domain.Diagnostics        `json:"diagnostics"`
}

func formatOptional(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'g', -1, 64)
}

// ParamsMap renders params with the external option names.
func ParamsMap(p domain.Params) map[string]interface{} {
	return map[string]interface{}{
		"factor_type":                  p.Factor.Type,
		"window_length":                p.Factor.Window,
		"min_history":                  p.Factor.MinObservations(),
		"return_kind":                  p.Factor.ReturnKind,
		"benchmark":                    p.Factor.Benchmark,
		"funding_source":               p.Factor.FundingSource,
		"max_snapshot_staleness_days":  p.Factor.MaxSnapshotStalenessDays,
		"expression":                   p.Factor.Expression,
		"strategy_direction":           p.Direction,
		"rebalance_interval_days":      p.RebalanceIntervalDays,
		"bucket_rule":                  p.BucketRule.String(),
		"weighting_method":             p.Weighting,
		"vol_window":                   p.VolWindow,
		"long_allocation":              p.LongAllocation,
		"short_allocation":             p.ShortAllocation,
		"start_date":                   p.StartDate.Format(dateLayout),
		"end_date":                     p.EndDate.Format(dateLayout),
		"min_universe_size_per_side":   p.MinPerSide,
		"transaction_cost_bps":         p.TransactionCostBps,
		"initial_capital":              p.InitialCapital,
		"risk_free_rate":               p.RiskFreeRate,
		"insufficient_universe_policy": p.UniversePolicy,
	}
}

func DailyRows(result *domain.BacktestResult) []DailyRow {
	rows := make([]DailyRow, 0, len(result.Days))
	for _, d := range result.Days {
		rows = append(rows, DailyRow{
			Date:           d.Date.Format(dateLayout),
			Return:         d.Return,
			Value:          d.Value.StringFixed(6),
			Cash:           d.Cash.StringFixed(6),
			GrossExposure:  d.Positions.Gross(),
			NetExposure:    d.Positions.Net(),
			NumPositions:   len(d.Positions),
			Rebalanced:     d.Rebalanced,
			MissingReturns: d.MissingReturns,
		})
	}
	return rows
}

// WeightRows lists the held book on every day in long format.
func WeightRows(result *domain.BacktestResult) []WeightRow {
	rows := []WeightRow{}
	for _, d := range result.Days {
		for _, wp := range d.Positions.Points(d.Date) {
			rows = append(rows, WeightRow{
				Date:   wp.Date.Format(dateLayout),
				Symbol: wp.Symbol,
				Weight: wp.Weight,
			})
		}
	}
	return rows
}

func writeCsv(path string, rows interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(rows, f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeJson(path string, v interface{}) error {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, bytes, 0o644)
}

func (h FileResultsRepositoryHandler) runDir(runID uuid.UUID) (string, error) {
	dir := filepath.Join(h.BaseDir, runID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create results dir: %w", err)
	}
	return dir, nil
}

func (h FileResultsRepositoryHandler) SaveBacktest(runID uuid.UUID, result *domain.BacktestResult) (string, error) {
	dir, err := h.runDir(runID)
	if err != nil {
		return "", err
	}

	dailyRows := DailyRows(result)
	if err := writeCsv(filepath.Join(dir, "daily.csv"), &dailyRows); err != nil {
		return "", err
	}

	weightRows := WeightRows(result)
	if err := writeCsv(filepath.Join(dir, "weights.csv"), &weightRows); err != nil {
		return "", err
	}

	rebalanceRows := make([]RebalanceRow, 0, len(result.Rebalances))
	for _, r := range result.Rebalances {
		rebalanceRows = append(rebalanceRows, RebalanceRow{
			Date:                 r.Date.Format(dateLayout),
			NumLong:              r.NumLong,
			NumShort:             r.NumShort,
			Turnover:             r.Turnover,
			Cost:                 r.Cost,
			InsufficientUniverse: r.InsufficientUniverse,
		})
	}
	if err := writeCsv(filepath.Join(dir, "rebalances.csv"), &rebalanceRows); err != nil {
		return "", err
	}

	err = writeJson(filepath.Join(dir, "summary.json"), summaryFile{
		RunID:       runID,
		Params:      ParamsMap(result.Params),
		Summary:     result.Summary,
		Diagnostics: result.Diagnostics,
	})
	if err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}

	return dir, nil
}

func (h FileResultsRepositoryHandler) SaveSweep(result domain.SweepResult) (string, error) {
	dir, err := h.runDir(result.RunID)
	if err != nil {
		return "", err
	}

	rows := make([]SweepRow, 0, len(result.Entries))
	for _, e := range result.Entries {
		row := SweepRow{Label: e.Label, Error: e.Err}
		if e.Summary != nil {
			row.TotalReturn = formatOptional(e.Summary.TotalReturn)
			row.AnnualizedReturn = formatOptional(e.Summary.AnnualizedReturn)
			row.Volatility = formatOptional(e.Summary.AnnualizedVolatility)
			row.Sharpe = formatOptional(e.Summary.Sharpe)
			row.Sortino = formatOptional(e.Summary.Sortino)
			row.MaxDrawdown = formatOptional(e.Summary.MaxDrawdown)
			row.WinRate = formatOptional(e.Summary.WinRate)
			row.AvgTurnover = formatOptional(e.Summary.AvgTurnover)
			row.NumRebalances = e.Summary.NumRebalances
		}
		rows = append(rows, row)
	}
	if err := writeCsv(filepath.Join(dir, "sweep.csv"), &rows); err != nil {
		return "", err
	}
	if err := writeJson(filepath.Join(dir, "sweep.json"), result); err != nil {
		return "", fmt.Errorf("failed to write sweep json: %w", err)
	}
	return dir, nil
}
