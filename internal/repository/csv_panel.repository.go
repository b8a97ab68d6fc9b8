package repository

import (
	"context"
	"fmt"
	"os"

	"cryptofactor/internal/domain"

	"github.com/gocarina/gocsv"
)

type priceRow struct {
	Date      string  `csv:"date"`
	Symbol    string  `csv:"symbol"`
	Close     float64 `csv:"close"`
	Volume    string  `csv:"volume"`
	MarketCap string  `csv:"market_cap"`
}

type fundingRow struct {
	Date         string  `csv:"date"`
	Symbol       string  `csv:"symbol"`
	RatePct      float64 `csv:"funding_rate_pct"`
	IntradayLow  string  `csv:"intraday_low"`
	IntradayHigh string  `csv:"intraday_high"`
}

type supplyRow struct {
	Date              string `csv:"date"`
	Symbol            string `csv:"symbol"`
	CirculatingSupply string `csv:"circulating_supply"`
	TotalSupply       string `csv:"total_supply"`
	MarketCap         string `csv:"market_cap"`
}

// CsvPanelRepositoryHandler reads panels from CSV files. An empty funding
// or supply path yields an empty panel.
type CsvPanelRepositoryHandler struct {
	PricesPath  string
	FundingPath string
	SupplyPath  string
}

func NewCsvPanelRepository(pricesPath, fundingPath, supplyPath string) PanelRepository {
	return CsvPanelRepositoryHandler{
		PricesPath:  pricesPath,
		FundingPath: fundingPath,
		SupplyPath:  supplyPath,
	}
}

func unmarshalFile(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.UnmarshalFile(f, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (h CsvPanelRepositoryHandler) ListPrices(ctx context.Context) ([]domain.PricePoint, error) {
	rows := []priceRow{}
	if err := unmarshalFile(h.PricesPath, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.PricePoint, 0, len(rows))
	for i, r := range rows {
		date, err := parseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("prices row %d: %w", i+2, err)
		}
		volume, err := parseOptionalFloat(r.Volume)
		if err != nil {
			return nil, fmt.Errorf("prices row %d: invalid volume: %w", i+2, err)
		}
		marketCap, err := parseOptionalFloat(r.MarketCap)
		if err != nil {
			return nil, fmt.Errorf("prices row %d: invalid market_cap: %w", i+2, err)
		}
		out = append(out, domain.PricePoint{
			Date:      date,
			Symbol:    normalizeSymbol(r.Symbol),
			Close:     r.Close,
			Volume:    volume,
			MarketCap: marketCap,
		})
	}
	return out, nil
}

func (h CsvPanelRepositoryHandler) ListFunding(ctx context.Context) ([]domain.FundingPoint, error) {
	if h.FundingPath == "" {
		return []domain.FundingPoint{}, nil
	}
	rows := []fundingRow{}
	if err := unmarshalFile(h.FundingPath, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.FundingPoint, 0, len(rows))
	for i, r := range rows {
		date, err := parseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("funding row %d: %w", i+2, err)
		}
		low, err := parseOptionalFloat(r.IntradayLow)
		if err != nil {
			return nil, fmt.Errorf("funding row %d: invalid intraday_low: %w", i+2, err)
		}
		high, err := parseOptionalFloat(r.IntradayHigh)
		if err != nil {
			return nil, fmt.Errorf("funding row %d: invalid intraday_high: %w", i+2, err)
		}
		out = append(out, domain.FundingPoint{
			Date:         date,
			Symbol:       normalizeSymbol(r.Symbol),
			RatePct:      r.RatePct,
			IntradayLow:  low,
			IntradayHigh: high,
		})
	}
	return out, nil
}

func (h CsvPanelRepositoryHandler) ListSupply(ctx context.Context) ([]domain.SupplySnapshot, error) {
	if h.SupplyPath == "" {
		return []domain.SupplySnapshot{}, nil
	}
	rows := []supplyRow{}
	if err := unmarshalFile(h.SupplyPath, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.SupplySnapshot, 0, len(rows))
	for i, r := range rows {
		date, err := parseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("supply row %d: %w", i+2, err)
		}
		circulating, err := parseOptionalFloat(r.CirculatingSupply)
		if err != nil {
			return nil, fmt.Errorf("supply row %d: invalid circulating_supply: %w", i+2, err)
		}
		total, err := parseOptionalFloat(r.TotalSupply)
		if err != nil {
			return nil, fmt.Errorf("supply row %d: invalid total_supply: %w", i+2, err)
		}
		marketCap, err := parseOptionalFloat(r.MarketCap)
		if err != nil {
			return nil, fmt.Errorf("supply row %d: invalid market_cap: %w", i+2, err)
		}
		out = append(out, domain.SupplySnapshot{
			Date:              date,
			Symbol:            normalizeSymbol(r.Symbol),
			CirculatingSupply: circulating,
			TotalSupply:       total,
			MarketCap:         marketCap,
		})
	}
	return out, nil
}
