// Package sensitivity perturbs analysis parameters to show how the
// rent-vs-buy outcome responds: one metric at a time for tornado
// rankings, or two metrics crossed into a grid.
package sensitivity

import (
	"fmt"
	"sort"

	"github.com/proptools/buyrent-analyzer/internal/analysis"
	"github.com/proptools/buyrent-analyzer/internal/params"
	"go.uber.org/zap"
)

// GridResult holds a two-dimensional sweep of the NPV difference.
// Values[i][j] corresponds to YOffsets[i] and XOffsets[j], matching the
// row-major layout a heatmap renderer expects.
type GridResult struct {
	XMetric         string      `json:"x_metric"`
	YMetric         string      `json:"y_metric"`
	XLabel          string      `json:"x_label"`
	YLabel          string      `json:"y_label"`
	XValues         []float64   `json:"x_values"`
	YValues         []float64   `json:"y_values"`
	Values          [][]float64 `json:"values"`
	Recommendations [][]string  `json:"recommendations"`
	BaseDifference  float64     `json:"base_difference"`
}

// TornadoEntry reports the NPV difference swing caused by moving one
// metric down and up by the given offset while everything else stays at
// base.
type TornadoEntry struct {
	Metric         string  `json:"metric"`
	Label          string  `json:"label"`
	BaseValue      float64 `json:"base_value"`
	LowValue       float64 `json:"low_value"`
	HighValue      float64 `json:"high_value"`
	LowDifference  float64 `json:"low_difference"`
	HighDifference float64 `json:"high_difference"`
	Swing          float64 `json:"swing"`
}

// Analyzer runs sensitivity sweeps on top of the analysis engine.
type Analyzer struct {
	engine *analysis.Engine
	logger *zap.Logger
}

// NewAnalyzer creates a sensitivity analyzer backed by the given engine.
func NewAnalyzer(engine *analysis.Engine, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{engine: engine, logger: logger}
}

// AvailableMetrics lists the perturbable metric keys and their display
// labels.
func AvailableMetrics() map[string]string {
	return params.MetricLabels()
}

// Grid2D sweeps two distinct metrics across the supplied percentage-point
// offsets and records the NPV difference and recommendation at each
// combination. Every cell computes from a fresh copy of the base
// parameters, so a cell with both offsets at zero reproduces the base
// analysis exactly.
func (a *Analyzer) Grid2D(base params.ParameterSet, xMetric, yMetric string, xOffsets, yOffsets []float64) (*GridResult, error) {
	if xMetric == yMetric {
		return nil, fmt.Errorf("sensitivity axes must differ, both are %q", xMetric)
	}
	if len(xOffsets) == 0 || len(yOffsets) == 0 {
		return nil, fmt.Errorf("sensitivity offsets must not be empty")
	}

	labels := params.MetricLabels()
	xLabel, ok := labels[xMetric]
	if !ok {
		return nil, fmt.Errorf("unknown sensitivity metric %q", xMetric)
	}
	yLabel, ok := labels[yMetric]
	if !ok {
		return nil, fmt.Errorf("unknown sensitivity metric %q", yMetric)
	}

	baseResult, err := a.engine.Compare(base)
	if err != nil {
		return nil, fmt.Errorf("base analysis: %w", err)
	}

	grid := &GridResult{
		XMetric:        xMetric,
		YMetric:        yMetric,
		XLabel:         xLabel,
		YLabel:         yLabel,
		XValues:        make([]float64, len(xOffsets)),
		YValues:        make([]float64, len(yOffsets)),
		BaseDifference: baseResult.NPVDifference,
	}

	xBase, err := base.MetricValue(xMetric)
	if err != nil {
		return nil, err
	}
	yBase, err := base.MetricValue(yMetric)
	if err != nil {
		return nil, err
	}
	for j, offset := range xOffsets {
		grid.XValues[j] = xBase + offset
	}
	for i, offset := range yOffsets {
		grid.YValues[i] = yBase + offset
	}

	grid.Values = make([][]float64, len(yOffsets))
	grid.Recommendations = make([][]string, len(yOffsets))
	for i, yOffset := range yOffsets {
		grid.Values[i] = make([]float64, len(xOffsets))
		grid.Recommendations[i] = make([]string, len(xOffsets))
		for j, xOffset := range xOffsets {
			perturbed, err := base.WithMetricOffset(yMetric, yOffset)
			if err != nil {
				return nil, err
			}
			perturbed, err = perturbed.WithMetricOffset(xMetric, xOffset)
			if err != nil {
				return nil, err
			}

			cell, err := a.engine.Compare(perturbed)
			if err != nil {
				return nil, fmt.Errorf("cell %s%+.2f/%s%+.2f: %w", xMetric, xOffset, yMetric, yOffset, err)
			}
			grid.Values[i][j] = cell.NPVDifference
			grid.Recommendations[i][j] = cell.Recommendation
		}
	}

	a.logger.Debug("sensitivity grid computed",
		zap.String("x_metric", xMetric),
		zap.String("y_metric", yMetric),
		zap.Int("cells", len(xOffsets)*len(yOffsets)),
	)

	return grid, nil
}

// Tornado perturbs each perturbable metric by ±offset percentage points
// and ranks them by the resulting NPV difference swing, largest first.
func (a *Analyzer) Tornado(base params.ParameterSet, offset float64) ([]TornadoEntry, error) {
	if offset <= 0 {
		return nil, fmt.Errorf("tornado offset must be positive, got %v", offset)
	}

	labels := params.MetricLabels()
	entries := make([]TornadoEntry, 0, len(labels))
	for _, key := range params.MetricKeys() {
		baseValue, err := base.MetricValue(key)
		if err != nil {
			return nil, err
		}

		low, err := base.WithMetricOffset(key, -offset)
		if err != nil {
			return nil, err
		}
		lowResult, err := a.engine.Compare(low)
		if err != nil {
			return nil, fmt.Errorf("metric %s low: %w", key, err)
		}

		high, err := base.WithMetricOffset(key, offset)
		if err != nil {
			return nil, err
		}
		highResult, err := a.engine.Compare(high)
		if err != nil {
			return nil, fmt.Errorf("metric %s high: %w", key, err)
		}

		entry := TornadoEntry{
			Metric:         key,
			Label:          labels[key],
			BaseValue:      baseValue,
			LowValue:       baseValue - offset,
			HighValue:      baseValue + offset,
			LowDifference:  lowResult.NPVDifference,
			HighDifference: highResult.NPVDifference,
		}
		entry.Swing = entry.HighDifference - entry.LowDifference
		if entry.Swing < 0 {
			entry.Swing = -entry.Swing
		}
		entries = append(entries, entry)
	}

	// Largest swing first; stable within ties by key order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Swing > entries[j].Swing
	})

	return entries, nil
}
