// Package match pairs extracted line items with reference line items
// using weighted field similarity and greedy best-score-first assignment.
package match

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// Weights holds the per-field scoring weights. They must be non-negative
// and sum to 1.
type Weights struct {
	ItemCode     float64 `yaml:"item_code" mapstructure:"item_code"`
	Description  float64 `yaml:"description" mapstructure:"description"`
	Quantity     float64 `yaml:"quantity" mapstructure:"quantity"`
	UnitPrice    float64 `yaml:"unit_price" mapstructure:"unit_price"`
	DeliveryDate float64 `yaml:"delivery_date" mapstructure:"delivery_date"`
}

// DefaultWeights returns the standard weighting: item code dominates,
// description second, numeric fields confirm.
func DefaultWeights() Weights {
	return Weights{
		ItemCode:     0.35,
		Description:  0.25,
		Quantity:     0.15,
		UnitPrice:    0.15,
		DeliveryDate: 0.10,
	}
}

// Sum returns the sum of all component weights.
func (w Weights) Sum() float64 {
	return w.ItemCode + w.Description + w.Quantity + w.UnitPrice + w.DeliveryDate
}

// Validate checks that a Weights is internally consistent.
func (w Weights) Validate() error {
	var errs []string

	components := map[string]float64{
		"item_code":     w.ItemCode,
		"description":   w.Description,
		"quantity":      w.Quantity,
		"unit_price":    w.UnitPrice,
		"delivery_date": w.DeliveryDate,
	}
	for name, v := range components {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	if math.Abs(w.Sum()-1) > 0.001 {
		errs = append(errs, fmt.Sprintf("weights must sum to 1, got %.3f", w.Sum()))
	}

	if len(errs) > 0 {
		return eris.Errorf("match: weight validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Tolerances used for numeric and date equality, shared by scoring and
// difference detection.
const (
	// quantityEpsilon is the absolute tolerance for quantity equality.
	quantityEpsilon = 0.001
	// priceTolerance is the proportional tolerance for unit price equality.
	priceTolerance = 0.005
)
