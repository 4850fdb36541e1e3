package visibility

import (
	"fmt"
	"sort"

	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
)

// visibleChildThreshold is the child percentage at or above which a breakdown
// row or category counts as visible
const visibleChildThreshold = 50.0

// dimensionShapes is the fixed dimension to shape table. Documents are never
// sniffed; the table alone decides which adapter reads them.
var dimensionShapes = map[domain.Dimension]domain.Shape{
	domain.DimensionGlobal:               domain.ShapeFlat,
	domain.DimensionCompliance:           domain.ShapeFlat,
	domain.DimensionInfrastructure:       domain.ShapeBreakdown,
	domain.DimensionRegional:             domain.ShapeBreakdown,
	domain.DimensionBusinessUnit:         domain.ShapeBreakdown,
	domain.DimensionSystemClassification: domain.ShapeBreakdown,
	domain.DimensionDomain:               domain.ShapeBreakdown,
	domain.DimensionSecurityControls:     domain.ShapeCategories,
}

type shapeAdapter func(doc interface{}) (domain.VisibilityMetric, error)

var shapeAdapters = map[domain.Shape]shapeAdapter{
	domain.ShapeFlat:       adaptFlat,
	domain.ShapeBreakdown:  adaptBreakdown,
	domain.ShapeCategories: adaptCategories,
}

// ShapeOf returns the shape registered for a dimension
func ShapeOf(dim domain.Dimension) (domain.Shape, bool) {
	shape, ok := dimensionShapes[dim]
	return shape, ok
}

// Normalizer converts raw dimension documents into VisibilityMetrics
type Normalizer struct {
	classifier *Classifier
}

func NewNormalizer(classifier *Classifier) *Normalizer {
	return &Normalizer{classifier: classifier}
}

// Normalize reads doc with the adapter of the dimension's shape and classifies
// the result. ErrShapeMismatch and ErrEmptyDimension mean the dimension is absent.
func (n *Normalizer) Normalize(dim domain.Dimension, doc interface{}) (domain.VisibilityMetric, error) {
	shape, ok := ShapeOf(dim)
	if !ok {
		return domain.VisibilityMetric{}, fmt.Errorf("%w: %s", domain.ErrUnknownDimension, dim)
	}

	metric, err := shapeAdapters[shape](doc)
	if err != nil {
		return domain.VisibilityMetric{}, fmt.Errorf("%s: %w", dim, err)
	}

	reported := ""
	if r, ok := doc.(domain.StatusReporter); ok {
		reported = r.ReportedStatus()
	}
	metric.Status = n.classifier.Resolve(dim, metric.Percentage, reported)
	return metric, nil
}

func adaptFlat(doc interface{}) (domain.VisibilityMetric, error) {
	flat, ok := doc.(domain.FlatDocument)
	if !ok {
		return domain.VisibilityMetric{}, fmt.Errorf("%w: expected %s document, got %T", domain.ErrShapeMismatch, domain.ShapeFlat, doc)
	}

	c := flat.FlatCoverage()
	if c.Total <= 0 {
		return domain.VisibilityMetric{}, domain.ErrEmptyDimension
	}
	return domain.VisibilityMetric{
		Percentage: domain.Round2(c.Percentage),
		Total:      c.Total,
		Visible:    c.Covered,
		Invisible:  c.Total - c.Covered,
	}, nil
}

func adaptBreakdown(doc interface{}) (domain.VisibilityMetric, error) {
	breakdown, ok := doc.(domain.BreakdownDocument)
	if !ok {
		return domain.VisibilityMetric{}, fmt.Errorf("%w: expected %s document, got %T", domain.ErrShapeMismatch, domain.ShapeBreakdown, doc)
	}
	return meanOfChildren(breakdown.ChildPercentages())
}

func adaptCategories(doc interface{}) (domain.VisibilityMetric, error) {
	categories, ok := doc.(domain.CategoryDocument)
	if !ok {
		return domain.VisibilityMetric{}, fmt.Errorf("%w: expected %s document, got %T", domain.ErrShapeMismatch, domain.ShapeCategories, doc)
	}

	byName := categories.CategoryPercentages()
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	// fixed summation order keeps the mean reproducible
	sort.Strings(names)

	percentages := make([]float64, len(names))
	for i, name := range names {
		percentages[i] = byName[name]
	}
	return meanOfChildren(percentages)
}

func meanOfChildren(percentages []float64) (domain.VisibilityMetric, error) {
	if len(percentages) == 0 {
		return domain.VisibilityMetric{}, domain.ErrEmptyDimension
	}

	var sum float64
	visible := 0
	for _, p := range percentages {
		sum += p
		if p >= visibleChildThreshold {
			visible++
		}
	}
	return domain.VisibilityMetric{
		Percentage: domain.Round2(sum / float64(len(percentages))),
		Total:      len(percentages),
		Visible:    visible,
		Invisible:  len(percentages) - visible,
	}, nil
}
