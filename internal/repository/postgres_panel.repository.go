package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cryptofactor/internal/domain"

	"github.com/jmoiron/sqlx"
)

type postgresPanelRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewPostgresPanelRepository reads panels from the crypto_price,
// crypto_funding_rate and crypto_supply_snapshot tables.
func NewPostgresPanelRepository(db *sqlx.DB, timeout time.Duration) PanelRepository {
	return &postgresPanelRepository{
		db:      db,
		timeout: timeout,
	}
}

type priceRecord struct {
	Date      time.Time       `db:"date"`
	Symbol    string          `db:"symbol"`
	Close     float64         `db:"close"`
	Volume    sql.NullFloat64 `db:"volume"`
	MarketCap sql.NullFloat64 `db:"market_cap"`
}

type fundingRecord struct {
	Date         time.Time       `db:"date"`
	Symbol       string          `db:"symbol"`
	RatePct      float64         `db:"funding_rate_pct"`
	IntradayLow  sql.NullFloat64 `db:"intraday_low"`
	IntradayHigh sql.NullFloat64 `db:"intraday_high"`
}

type supplyRecord struct {
	Date              time.Time       `db:"date"`
	Symbol            string          `db:"symbol"`
	CirculatingSupply sql.NullFloat64 `db:"circulating_supply"`
	TotalSupply       sql.NullFloat64 `db:"total_supply"`
	MarketCap         sql.NullFloat64 `db:"market_cap"`
}

func nullable(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func (r *postgresPanelRepository) ListPrices(ctx context.Context) ([]domain.PricePoint, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT date, symbol, close, volume, market_cap
		FROM crypto_price
		ORDER BY symbol, date`

	records := []priceRecord{}
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}

	out := make([]domain.PricePoint, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.PricePoint{
			Date:      rec.Date.UTC(),
			Symbol:    normalizeSymbol(rec.Symbol),
			Close:     rec.Close,
			Volume:    nullable(rec.Volume),
			MarketCap: nullable(rec.MarketCap),
		})
	}
	return out, nil
}

func (r *postgresPanelRepository) ListFunding(ctx context.Context) ([]domain.FundingPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT date, symbol, funding_rate_pct, intraday_low, intraday_high
		FROM crypto_funding_rate
		ORDER BY symbol, date`

	records := []fundingRecord{}
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to list funding rates: %w", err)
	}

	out := make([]domain.FundingPoint, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.FundingPoint{
			Date:         rec.Date.UTC(),
			Symbol:       normalizeSymbol(rec.Symbol),
			RatePct:      rec.RatePct,
			IntradayLow:  nullable(rec.IntradayLow),
			IntradayHigh: nullable(rec.IntradayHigh),
		})
	}
	return out, nil
}

func (r *postgresPanelRepository) ListSupply(ctx context.Context) ([]domain.SupplySnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT date, symbol, circulating_supply, total_supply, market_cap
		FROM crypto_supply_snapshot
		ORDER BY symbol, date`

	records := []supplyRecord{}
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to list supply snapshots: %w", err)
	}

	out := make([]domain.SupplySnapshot, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.SupplySnapshot{
			Date:              rec.Date.UTC(),
			Symbol:            normalizeSymbol(rec.Symbol),
			CirculatingSupply: nullable(rec.CirculatingSupply),
			TotalSupply:       nullable(rec.TotalSupply),
			MarketCap:         nullable(rec.MarketCap),
		})
	}
	return out, nil
}
