package domain

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

// Positive returns v when it is present and strictly positive, nil otherwise
func Positive(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}

// PositiveValues collects the present, strictly positive values
func PositiveValues(values ...*float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v != nil && *v > 0 {
			out = append(out, *v)
		}
	}
	return out
}
