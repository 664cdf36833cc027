package models

import (
	"strings"
	"time"
)

// Position is a holding within a portfolio: a quantity of one instrument.
// Currency is the instrument's trading currency; empty means the portfolio's
// base currency.
type Position struct {
	Symbol   string  `json:"symbol"`
	Units    float64 `json:"units"`
	Currency string  `json:"currency,omitempty"`
}

// Portfolio is a named set of positions valued in a base currency.
type Portfolio struct {
	Name         string     `json:"name" badgerhold:"key"`
	BaseCurrency string     `json:"baseCurrency"`
	Positions    []Position `json:"positions"`
	LastUpdated  time.Time  `json:"lastUpdated"`
}

// Validate checks that a portfolio definition is storable.
func (p *Portfolio) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return NewInputError("portfolio name is required")
	}
	if len(p.Positions) == 0 {
		return NewInputError("portfolio %q has no positions", p.Name)
	}
	for _, pos := range p.Positions {
		if strings.TrimSpace(pos.Symbol) == "" {
			return NewInputError("portfolio %q has a position without a symbol", p.Name)
		}
		if pos.Units <= 0 {
			return NewInputError("position %s has non-positive units", pos.Symbol)
		}
	}
	return nil
}

// Normalize applies defaults: uppercase currencies, USD base fallback.
func (p *Portfolio) Normalize() {
	p.BaseCurrency = strings.ToUpper(strings.TrimSpace(p.BaseCurrency))
	if p.BaseCurrency == "" {
		p.BaseCurrency = "USD"
	}
	for i := range p.Positions {
		p.Positions[i].Symbol = strings.TrimSpace(p.Positions[i].Symbol)
		p.Positions[i].Currency = strings.ToUpper(strings.TrimSpace(p.Positions[i].Currency))
	}
}
