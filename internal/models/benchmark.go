package models

// Benchmark is a static reference instrument against which portfolio
// performance is compared. Registry entries are read-only.
type Benchmark struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	DataSource string `json:"dataSource"`
	Type       string `json:"type"`
}

// Benchmark instrument types
const (
	BenchmarkTypeIndex     = "index"
	BenchmarkTypeBond      = "bond"
	BenchmarkTypeCommodity = "commodity"
)

// benchmarkRegistry is the fixed set of supported benchmarks, never mutated
// at runtime. Ordering is stable for list responses.
var benchmarkRegistry = []Benchmark{
	{ID: "sp500", Name: "S&P 500 (SPY)", Symbol: "SPY.US", DataSource: "eodhd", Type: BenchmarkTypeIndex},
	{ID: "nasdaq100", Name: "Nasdaq 100 (QQQ)", Symbol: "QQQ.US", DataSource: "eodhd", Type: BenchmarkTypeIndex},
	{ID: "total-market", Name: "Total US Market (VTI)", Symbol: "VTI.US", DataSource: "eodhd", Type: BenchmarkTypeIndex},
	{ID: "world", Name: "MSCI World (URTH)", Symbol: "URTH.US", DataSource: "eodhd", Type: BenchmarkTypeIndex},
	{ID: "asx200", Name: "ASX 200 (STW)", Symbol: "STW.AU", DataSource: "eodhd", Type: BenchmarkTypeIndex},
	{ID: "us-bonds", Name: "US Aggregate Bonds (AGG)", Symbol: "AGG.US", DataSource: "eodhd", Type: BenchmarkTypeBond},
	{ID: "gold", Name: "Gold (GLD)", Symbol: "GLD.US", DataSource: "eodhd", Type: BenchmarkTypeCommodity},
}

// Benchmarks returns a copy of the registry in stable order.
func Benchmarks() []Benchmark {
	out := make([]Benchmark, len(benchmarkRegistry))
	copy(out, benchmarkRegistry)
	return out
}

// BenchmarkByID looks up a registry entry by its identifier.
func BenchmarkByID(id string) (Benchmark, bool) {
	for _, b := range benchmarkRegistry {
		if b.ID == id {
			return b, true
		}
	}
	return Benchmark{}, false
}
