package domain

import (
	"fmt"
	"math"
	"strings"
)

// ============================================================================
// Value Objects
// ============================================================================

// Chart is a view rendered from a report.
type Chart string

const (
	ChartTable Chart = "table"
	ChartBar   Chart = "bar"
	ChartLine  Chart = "line"
	ChartRadar Chart = "radar"
)

// IsValid checks if the chart kind is known
func (c Chart) IsValid() bool {
	return c == ChartTable || c == ChartBar || c == ChartLine || c == ChartRadar
}

// RangePolicy decides what happens to predictions outside their bounds.
type RangePolicy string

const (
	// RangePolicyNone passes model output through untouched.
	RangePolicyNone RangePolicy = "none"
	// RangePolicyFlag keeps values but records a warning per offending column.
	RangePolicyFlag RangePolicy = "flag"
	// RangePolicyClamp pulls values into bounds and records a warning.
	RangePolicyClamp RangePolicy = "clamp"
)

// IsValid checks if the policy is known
func (p RangePolicy) IsValid() bool {
	return p == RangePolicyNone || p == RangePolicyFlag || p == RangePolicyClamp
}

// Bounds is an inclusive value range.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Clamp pulls v into [Min, Max].
func (b Bounds) Clamp(v float64) float64 {
	return math.Min(math.Max(v, b.Min), b.Max)
}

var (
	PercentBounds = Bounds{Min: 0, Max: 100}
	PHBounds      = Bounds{Min: 0, Max: 14}
)

// BoundsFor returns the plausible range of a column: pH on its own scale,
// everything else as a percentage.
func BoundsFor(column string) Bounds {
	if strings.HasPrefix(strings.ToLower(column), "ph") {
		return PHBounds
	}
	return PercentBounds
}

// ============================================================================
// Entities
// ============================================================================

// Variant is one deployed dashboard: a model artifact paired with the schema
// it predicts and the charts shown for it.
type Variant struct {
	Name         string      `json:"name"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	ArtifactPath string      `json:"artifact_path"`
	Schema       Schema      `json:"schema"`
	Charts       []Chart     `json:"charts"`
	RangePolicy  RangePolicy `json:"range_policy"`
}

// Validate checks the variant configuration
func (v *Variant) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return ErrInvalidVariantName
	}
	if err := v.Schema.Validate(); err != nil {
		return fmt.Errorf("variant %s: %w", v.Name, err)
	}
	for _, c := range v.Charts {
		if !c.IsValid() {
			return fmt.Errorf("variant %s: %w: %q", v.Name, ErrInvalidChart, c)
		}
	}
	if v.RangePolicy == "" {
		v.RangePolicy = RangePolicyNone
	}
	if !v.RangePolicy.IsValid() {
		return fmt.Errorf("variant %s: %w: %q", v.Name, ErrInvalidRangePolicy, v.RangePolicy)
	}
	return nil
}

// HasChart reports whether the variant renders the given chart.
func (v *Variant) HasChart(c Chart) bool {
	for _, vc := range v.Charts {
		if vc == c {
			return true
		}
	}
	return false
}

// DefaultCharts are shown when a variant does not list any.
func DefaultCharts() []Chart {
	return []Chart{ChartTable, ChartBar, ChartLine}
}
