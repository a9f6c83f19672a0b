package aggregate

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/nao1215/storeeda/internal/dataset"
	"github.com/nao1215/storeeda/internal/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultKDEPoints is the number of samples taken of each density curve.
const DefaultKDEPoints = 64

// kdeCut is how many bandwidths the density grid extends past the data.
const kdeCut = 2.0

type distributionConfig struct {
	points int
}

// DistributionOption configures RatingsByProductType.
type DistributionOption func(*distributionConfig)

// WithKDEPoints sets how many points each density curve has. Values below
// two disable the density estimate.
func WithKDEPoints(n int) DistributionOption {
	return func(c *distributionConfig) {
		c.points = n
	}
}

// RatingsByProductType collects the ratings of every product type, with a
// five-number summary and a Gaussian kernel density estimate per type.
// Distributions are ordered by product type.
func RatingsByProductType(rs *dataset.RecordSet, opts ...DistributionOption) ([]model.Distribution, error) {
	cfg := &distributionConfig{points: DefaultKDEPoints}
	for _, opt := range opts {
		opt(cfg)
	}

	if rs.Len() == 0 {
		return []model.Distribution{}, nil
	}

	df, err := frameOf(rs)
	if err != nil {
		return nil, err
	}
	if df, err = withoutEmpty(df, dataset.ColumnProductType); err != nil {
		return nil, err
	}
	if df.Nrow() == 0 {
		return []model.Distribution{}, nil
	}

	groups := df.GroupBy(dataset.ColumnProductType)
	if groups.Err != nil {
		return nil, fmt.Errorf("failed to group by %s: %w", dataset.ColumnProductType, groups.Err)
	}

	out := make([]model.Distribution, 0, len(groups.GetGroups()))
	for _, g := range groups.GetGroups() {
		key := g.Col(dataset.ColumnProductType).Elem(0).String()
		values := g.Col(dataset.ColumnRating).Float()
		out = append(out, NewDistribution(key, values, cfg.points))
	}
	slices.SortFunc(out, func(a, b model.Distribution) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return out, nil
}

// NewDistribution summarizes values. The input slice is not modified.
func NewDistribution(key string, values []float64, kdePoints int) model.Distribution {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	d := model.Distribution{Key: key, Values: sorted}
	if len(sorted) == 0 {
		return d
	}

	d.Summary = model.Summary{
		Count:  len(sorted),
		Min:    sorted[0],
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
		Mean:   stat.Mean(sorted, nil),
	}
	d.Density = density(sorted, kdePoints)
	return d
}

// density evaluates a Gaussian KDE with Scott's bandwidth on an even grid.
// It returns nil when the values have no spread.
func density(sorted []float64, points int) []model.DensityPoint {
	if points < 2 || len(sorted) < 2 {
		return nil
	}
	_, std := stat.MeanStdDev(sorted, nil)
	if std == 0 || math.IsNaN(std) {
		return nil
	}
	bw := std * math.Pow(float64(len(sorted)), -1.0/5.0)

	lo := sorted[0] - kdeCut*bw
	hi := sorted[len(sorted)-1] + kdeCut*bw
	grid := floats.Span(make([]float64, points), lo, hi)

	kernels := make([]distuv.Normal, len(sorted))
	for i, v := range sorted {
		kernels[i] = distuv.Normal{Mu: v, Sigma: bw}
	}

	out := make([]model.DensityPoint, len(grid))
	for i, x := range grid {
		var sum float64
		for _, k := range kernels {
			sum += k.Prob(x)
		}
		out[i] = model.DensityPoint{X: x, Y: sum / float64(len(kernels))}
	}
	return out
}
