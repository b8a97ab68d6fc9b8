package l1_service

import (
	"time"

	"cryptofactor/internal/domain"
	"cryptofactor/internal/util"
)

// SupplyAsOf forward-fills the latest supply snapshot on or before date
// (clamped to Date), at most maxStaleDays old. A snapshot older than that
// is ErrStaleSnapshot; no snapshot at all is ErrInsufficientHistory.
func (h History) SupplyAsOf(date time.Time, maxStaleDays int) (domain.SupplySnapshot, error) {
	date = h.clamp(date)
	i, ok := position(h.series.supplyDates, date)
	if !ok {
		i--
	}
	if i < 0 {
		return domain.SupplySnapshot{}, domain.ErrInsufficientHistory
	}
	snapshot := h.series.supply[i]
	if util.DaysBetween(snapshot.Date, date) > maxStaleDays {
		return domain.SupplySnapshot{}, domain.ErrStaleSnapshot
	}
	return snapshot, nil
}

// MarketCap resolves market cap on Date: close times a fresh circulating
// supply, else the price row's market cap, else a fresh snapshot market
// cap. A stale snapshot is only reported when no source is available.
func (h History) MarketCap(maxStaleDays int) (float64, error) {
	px, hasClose := h.Close()
	if !hasClose {
		return 0, domain.ErrNoPrice
	}

	snapshot, snapErr := h.SupplyAsOf(h.Date, maxStaleDays)
	if snapErr == nil && snapshot.CirculatingSupply != nil && *snapshot.CirculatingSupply > 0 {
		return px * *snapshot.CirculatingSupply, nil
	}
	if mc := h.MarketCapRow(); mc != nil && *mc > 0 {
		return *mc, nil
	}
	if snapErr == nil && snapshot.MarketCap != nil && *snapshot.MarketCap > 0 {
		return *snapshot.MarketCap, nil
	}
	if snapErr != nil {
		return 0, snapErr
	}
	return 0, domain.ErrInsufficientHistory
}
