package ratios

// SafeDivide divides n by d, returning nil when either operand is nil
// or the denominator is zero.
func SafeDivide(n, d *float64) *float64 {
	if n == nil || d == nil || *d == 0 {
		return nil
	}
	value := *n / *d
	return &value
}

// Percent computes (n / d) * 100 with SafeDivide's nil propagation.
func Percent(n, d *float64) *float64 {
	quotient := SafeDivide(n, d)
	if quotient == nil {
		return nil
	}
	value := *quotient * 100
	return &value
}

// GrowthRate computes (current - previous) / previous * 100. Nil when
// either operand is nil or the base period is zero.
func GrowthRate(current, previous *float64) *float64 {
	if current == nil || previous == nil || *previous == 0 {
		return nil
	}
	value := (*current - *previous) / *previous * 100
	return &value
}

// orZero treats a missing figure as zero. Only used where the ratio
// definition explicitly defaults an absent component, never for the
// figure that gates the whole ratio.
func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func ptr(v float64) *float64 { return &v }
