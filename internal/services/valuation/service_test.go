package valuation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/bobmcallan/yardstick/internal/common"
	"github.com/bobmcallan/yardstick/internal/interfaces"
	"github.com/bobmcallan/yardstick/internal/models"
)

func approxEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// memStorage is an in-memory StorageManager for service tests.
type memStorage struct {
	portfolios map[string]*models.Portfolio
}

func newMemStorage() *memStorage {
	return &memStorage{portfolios: make(map[string]*models.Portfolio)}
}

func (m *memStorage) PortfolioStorage() interfaces.PortfolioStorage   { return m }
func (m *memStorage) MarketDataStorage() interfaces.MarketDataStorage { return nil }
func (m *memStorage) Close() error                                    { return nil }

func (m *memStorage) SavePortfolio(ctx context.Context, p *models.Portfolio) error {
	m.portfolios[p.Name] = p
	return nil
}

func (m *memStorage) GetPortfolio(ctx context.Context, name string) (*models.Portfolio, error) {
	p, ok := m.portfolios[name]
	if !ok {
		return nil, fmt.Errorf("portfolio '%s' not found", name)
	}
	return p, nil
}

func (m *memStorage) ListPortfolios(ctx context.Context) ([]string, error) { return nil, nil }
func (m *memStorage) DeletePortfolio(ctx context.Context, name string) error {
	delete(m.portfolios, name)
	return nil
}

// fakeHistory serves canned per-symbol series.
type fakeHistory struct {
	series map[string][]models.PricePoint
	errs   map[string]error
}

func (f *fakeHistory) GetHistory(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error) {
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	s, ok := f.series[symbol]
	if !ok {
		return nil, &models.DataUnavailableError{Symbol: symbol, Reason: "no price data in requested range"}
	}
	return s, nil
}

func (f *fakeHistory) RefreshSymbol(ctx context.Context, symbol string) error { return nil }

// fakeFX returns fixed rates by pair.
type fakeFX struct {
	rates map[string]float64
	err   error
}

func (f *fakeFX) GetRate(ctx context.Context, from, to string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if rate, ok := f.rates[from+"/"+to]; ok {
		return rate, nil
	}
	return 1.0, nil
}

func seedPortfolio(storage *memStorage, positions ...models.Position) {
	storage.SavePortfolio(context.Background(), &models.Portfolio{
		Name:         "growth",
		BaseCurrency: "USD",
		Positions:    positions,
	})
}

func series(points ...[2]interface{}) []models.PricePoint {
	s := make([]models.PricePoint, len(points))
	for i, p := range points {
		s[i] = models.PricePoint{Date: p[0].(string), Close: p[1].(float64)}
	}
	return s
}

func day(t *testing.T, date string) time.Time {
	t.Helper()
	parsed, err := time.Parse(models.DateLayout, date)
	if err != nil {
		t.Fatalf("parse %s: %v", date, err)
	}
	return parsed
}

func TestGetPortfolioHistory_SinglePosition(t *testing.T) {
	storage := newMemStorage()
	seedPortfolio(storage, models.Position{Symbol: "AAPL.US", Units: 10})

	history := &fakeHistory{series: map[string][]models.PricePoint{
		"AAPL.US": series(
			[2]interface{}{"2024-01-01", 100.0},
			[2]interface{}{"2024-01-02", 110.0},
			[2]interface{}{"2024-01-03", 105.0},
		),
	}}

	svc := NewService(storage, history, &fakeFX{}, common.NewSilentLogger())
	points, err := svc.GetPortfolioHistory(context.Background(), "growth", day(t, "2024-01-01"), day(t, "2024-01-03"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("points = %d, want 3", len(points))
	}
	if !approxEqual(points[0].PortfolioValue, 1000.0, 1e-9) {
		t.Errorf("day 1 value = %v, want 1000", points[0].PortfolioValue)
	}
	if !approxEqual(points[1].PortfolioValue, 1100.0, 1e-9) {
		t.Errorf("day 2 value = %v, want 1100", points[1].PortfolioValue)
	}

	// Returns: first point zero, then step and cumulative.
	if points[0].PortfolioReturn != 0 || points[0].CumulativePortfolioReturn != 0 {
		t.Errorf("first point returns = %v/%v, want 0/0", points[0].PortfolioReturn, points[0].CumulativePortfolioReturn)
	}
	if !approxEqual(points[1].PortfolioReturn, 0.10, 1e-9) {
		t.Errorf("day 2 return = %v, want 0.10", points[1].PortfolioReturn)
	}
	if !approxEqual(points[2].CumulativePortfolioReturn, 0.05, 1e-9) {
		t.Errorf("day 3 cumulative = %v, want 0.05", points[2].CumulativePortfolioReturn)
	}
}

func TestGetPortfolioHistory_CarriesForwardOverNonTradingDays(t *testing.T) {
	storage := newMemStorage()
	seedPortfolio(storage, models.Position{Symbol: "AAPL.US", Units: 1})

	// No close on Jan 2 (weekend): the Jan 1 close carries forward.
	history := &fakeHistory{series: map[string][]models.PricePoint{
		"AAPL.US": series(
			[2]interface{}{"2024-01-01", 100.0},
			[2]interface{}{"2024-01-03", 104.0},
		),
	}}

	svc := NewService(storage, history, &fakeFX{}, common.NewSilentLogger())
	points, err := svc.GetPortfolioHistory(context.Background(), "growth", day(t, "2024-01-01"), day(t, "2024-01-03"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("points = %d, want 3 calendar dates", len(points))
	}
	if !approxEqual(points[1].PortfolioValue, 100.0, 1e-9) {
		t.Errorf("carried value = %v, want 100", points[1].PortfolioValue)
	}
	if points[1].PortfolioReturn != 0 {
		t.Errorf("carried step return = %v, want 0", points[1].PortfolioReturn)
	}
}

func TestGetPortfolioHistory_AppliesFXConversion(t *testing.T) {
	storage := newMemStorage()
	seedPortfolio(storage,
		models.Position{Symbol: "AAPL.US", Units: 1},
		models.Position{Symbol: "BHP.AU", Units: 10, Currency: "AUD"},
	)

	history := &fakeHistory{series: map[string][]models.PricePoint{
		"AAPL.US": series([2]interface{}{"2024-01-01", 100.0}),
		"BHP.AU":  series([2]interface{}{"2024-01-01", 40.0}),
	}}
	fx := &fakeFX{rates: map[string]float64{"AUD/USD": 0.65}}

	svc := NewService(storage, history, fx, common.NewSilentLogger())
	points, err := svc.GetPortfolioHistory(context.Background(), "growth", day(t, "2024-01-01"), day(t, "2024-01-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 1*100 + 10*40*0.65 = 360
	if !approxEqual(points[0].PortfolioValue, 360.0, 1e-9) {
		t.Errorf("value = %v, want 360", points[0].PortfolioValue)
	}
}

func TestGetPortfolioHistory_SkipsPositionsWithoutPrices(t *testing.T) {
	storage := newMemStorage()
	seedPortfolio(storage,
		models.Position{Symbol: "AAPL.US", Units: 1},
		models.Position{Symbol: "GHOST.US", Units: 5},
	)

	history := &fakeHistory{
		series: map[string][]models.PricePoint{
			"AAPL.US": series([2]interface{}{"2024-01-01", 100.0}),
		},
	}

	svc := NewService(storage, history, &fakeFX{}, common.NewSilentLogger())
	points, err := svc.GetPortfolioHistory(context.Background(), "growth", day(t, "2024-01-01"), day(t, "2024-01-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(points[0].PortfolioValue, 100.0, 1e-9) {
		t.Errorf("value = %v, want 100 (priced position only)", points[0].PortfolioValue)
	}
}

func TestGetPortfolioHistory_AllPositionsUnpriced(t *testing.T) {
	storage := newMemStorage()
	seedPortfolio(storage, models.Position{Symbol: "GHOST.US", Units: 5})

	history := &fakeHistory{series: map[string][]models.PricePoint{}}

	svc := NewService(storage, history, &fakeFX{}, common.NewSilentLogger())
	_, err := svc.GetPortfolioHistory(context.Background(), "growth", day(t, "2024-01-01"), day(t, "2024-01-02"))
	var unavailableErr *models.DataUnavailableError
	if !errors.As(err, &unavailableErr) {
		t.Fatalf("error = %v, want DataUnavailableError", err)
	}
}

func TestGetPortfolioHistory_FXFailureSurfaces(t *testing.T) {
	storage := newMemStorage()
	seedPortfolio(storage, models.Position{Symbol: "BHP.AU", Units: 10, Currency: "AUD"})

	history := &fakeHistory{series: map[string][]models.PricePoint{
		"BHP.AU": series([2]interface{}{"2024-01-01", 40.0}),
	}}
	fx := &fakeFX{err: errors.New("rate source down")}

	svc := NewService(storage, history, fx, common.NewSilentLogger())
	if _, err := svc.GetPortfolioHistory(context.Background(), "growth", day(t, "2024-01-01"), day(t, "2024-01-01")); err == nil {
		t.Fatal("expected FX failure to surface")
	}
}

func TestGetPortfolioHistory_UnknownPortfolio(t *testing.T) {
	svc := NewService(newMemStorage(), &fakeHistory{}, &fakeFX{}, common.NewSilentLogger())
	if _, err := svc.GetPortfolioHistory(context.Background(), "missing", day(t, "2024-01-01"), day(t, "2024-01-02")); err == nil {
		t.Fatal("expected error for unknown portfolio")
	}
}

func TestCloseAsOf(t *testing.T) {
	s := series(
		[2]interface{}{"2024-01-01", 100.0},
		[2]interface{}{"2024-01-05", 105.0},
	)

	if close, ok := closeAsOf(s, "2024-01-03"); !ok || close != 100.0 {
		t.Errorf("as-of Jan 3 = %v/%v, want 100/true", close, ok)
	}
	if close, ok := closeAsOf(s, "2024-01-05"); !ok || close != 105.0 {
		t.Errorf("as-of Jan 5 = %v/%v, want 105/true", close, ok)
	}
	if _, ok := closeAsOf(s, "2023-12-31"); ok {
		t.Error("expected no close before series start")
	}
}
