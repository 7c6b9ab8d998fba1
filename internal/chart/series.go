package chart

import (
	"math"

	"github.com/seenimoa/pronviz/pkg/models"
)

// Series is an ordered list of labelled percentages.
type Series struct {
	Labels []string
	Values []float64
}

// FromScores converts factor scores into a Series, using short labels when
// requested.
func FromScores(scores []models.FactorScore, short bool) Series {
	s := Series{
		Labels: make([]string, len(scores)),
		Values: make([]float64, len(scores)),
	}
	for i, f := range scores {
		s.Labels[i] = f.Label(short)
		s.Values[i] = float64(f.Percentage)
	}
	return s
}

// Len returns the number of categories.
func (s Series) Len() int { return len(s.Values) }

// Max returns the largest value, or 0 for an empty series.
func (s Series) Max() float64 {
	m := 0.0
	for _, v := range s.Values {
		if v > m {
			m = v
		}
	}
	return m
}

// Validate checks the series before any geometry is computed. Label and
// value counts are compared first so a shape mismatch is always reported as
// a ConfigurationError.
func (s Series) Validate(kind Kind) error {
	if len(s.Labels) != len(s.Values) {
		return misconfigured("labels", "%d labels for %d values", len(s.Labels), len(s.Values))
	}
	if len(s.Values) == 0 {
		return invalidInput(kind, "at least one category is required")
	}
	for i, v := range s.Values {
		if math.IsNaN(v) || v < 0 || v > 100 {
			return invalidInput(kind, "%q has percentage %v outside [0,100]", s.Labels[i], v)
		}
	}
	return nil
}
