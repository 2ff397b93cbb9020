package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// twoProportionPValue runs a pooled two-proportion z-test between two groups'
// positive counts. Degenerate pools (identical rates, empty groups, pooled
// rate of 0 or 1) return 1.0 so callers never see NaN.
func twoProportionPValue(x1, n1, x2, n2 int) float64 {
	if n1 == 0 || n2 == 0 {
		return 1.0
	}

	p1 := float64(x1) / float64(n1)
	p2 := float64(x2) / float64(n2)
	pooled := float64(x1+x2) / float64(n1+n2)

	se := math.Sqrt(pooled * (1 - pooled) * (1/float64(n1) + 1/float64(n2)))
	if se == 0 {
		return 1.0
	}

	z := math.Abs(p1-p2) / se
	normal := distuv.Normal{Mu: 0, Sigma: 1}

	return 2 * (1 - normal.CDF(z))
}
