package models

import "time"

// EODBar is one end-of-day OHLCV bar as fetched from the market data source.
type EODBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close"`
	Volume   int64     `json:"volume"`
}

// MarketData is the cached EOD series for one symbol.
// Bars are stored descending by date (newest first).
type MarketData struct {
	Symbol      string    `json:"symbol" badgerhold:"key"`
	EOD         []EODBar  `json:"eod"`
	LastUpdated time.Time `json:"last_updated"`
}

// EarliestBarDate returns the oldest bar date, or the zero time when empty.
func (m *MarketData) EarliestBarDate() time.Time {
	if len(m.EOD) == 0 {
		return time.Time{}
	}
	return m.EOD[len(m.EOD)-1].Date
}

// LatestBarDate returns the newest bar date, or the zero time when empty.
func (m *MarketData) LatestBarDate() time.Time {
	if len(m.EOD) == 0 {
		return time.Time{}
	}
	return m.EOD[0].Date
}
