package analysis

import "github.com/spigell/hr-assist/internal/scoring"

// Analyzer runs the manual (rule-based) analyses. It holds no mutable state
// and is safe for concurrent use.
type Analyzer struct {
	catalog    *scoring.Catalog
	indicators *scoring.IndicatorTable
	opts       Options
}

// NewAnalyzer builds an analyzer; nil tables fall back to the built-in ones.
func NewAnalyzer(catalog *scoring.Catalog, indicators *scoring.IndicatorTable, opts Options) *Analyzer {
	if catalog == nil {
		catalog = scoring.DefaultCatalog()
	}
	if indicators == nil {
		indicators = scoring.DefaultIndicators()
	}
	return &Analyzer{catalog: catalog, indicators: indicators, opts: opts}
}

// NewDefaultAnalyzer uses the built-in tables and DefaultOptions.
func NewDefaultAnalyzer() *Analyzer {
	return NewAnalyzer(nil, nil, DefaultOptions())
}

// Options returns the analyzer configuration.
func (a *Analyzer) Options() Options {
	return a.opts
}
