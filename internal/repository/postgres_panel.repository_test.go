package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"cryptofactor/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (PanelRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresPanelRepository(sqlx.NewDb(db, "postgres"), 5*time.Second), mock
}

func TestPostgresPanelRepository_ListPrices(t *testing.T) {
	repo, mock := newMockRepository(t)
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"date", "symbol", "close", "volume", "market_cap"}).
		AddRow(d1, "btc", 42000.0, 1500.0, nil).
		AddRow(d1, "ETH", 2300.0, nil, 2.8e11)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT date, symbol, close, volume, market_cap")).
		WillReturnRows(rows)

	got, err := repo.ListPrices(context.Background())
	require.NoError(t, err)
	require.Equal(t, "", cmp.Diff([]domain.PricePoint{
		{Date: d1, Symbol: "BTC", Close: 42000, Volume: floatPtr(1500)},
		{Date: d1, Symbol: "ETH", Close: 2300, MarketCap: floatPtr(2.8e11)},
	}, got))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPanelRepository_ListFunding(t *testing.T) {
	repo, mock := newMockRepository(t)
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"date", "symbol", "funding_rate_pct", "intraday_low", "intraday_high"}).
		AddRow(d1, "SOL", 0.01, -0.03, 0.04)
	mock.ExpectQuery(regexp.QuoteMeta("FROM crypto_funding_rate")).WillReturnRows(rows)

	got, err := repo.ListFunding(context.Background())
	require.NoError(t, err)
	require.Equal(t, "", cmp.Diff([]domain.FundingPoint{
		{Date: d1, Symbol: "SOL", RatePct: 0.01, IntradayLow: floatPtr(-0.03), IntradayHigh: floatPtr(0.04)},
	}, got))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPanelRepository_ListSupply(t *testing.T) {
	t.Run("maps nulls", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		d1 := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"date", "symbol", "circulating_supply", "total_supply", "market_cap"}).
			AddRow(d1, "ETH", 1.2e8, nil, nil)
		mock.ExpectQuery(regexp.QuoteMeta("FROM crypto_supply_snapshot")).WillReturnRows(rows)

		got, err := repo.ListSupply(context.Background())
		require.NoError(t, err)
		require.Equal(t, "", cmp.Diff([]domain.SupplySnapshot{
			{Date: d1, Symbol: "ETH", CirculatingSupply: floatPtr(1.2e8)},
		}, got))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps query errors", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM crypto_supply_snapshot")).WillReturnError(errors.New("connection reset"))

		_, err := repo.ListSupply(context.Background())
		require.ErrorContains(t, err, "failed to list supply snapshots: connection reset")
	})
}
