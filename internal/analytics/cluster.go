package analytics

import (
	"math"
	"slices"
	"sort"
)

const (
	// DefaultMaxIterations bounds a KMeans run when the caller does not.
	DefaultMaxIterations = 100
	// DefaultClusterSamples is the number of recipe names kept per cluster.
	DefaultClusterSamples = 5

	clusterDietTypes = 3
)

// KMeansOptions configures a clustering run.
type KMeansOptions struct {
	K             int
	MaxIterations int
	// Standardize z-scores each dimension before distances are measured.
	// Centroids are still reported in grams.
	Standardize bool
	// SampleSize caps SampleNames per cluster; zero means DefaultClusterSamples.
	SampleSize int
}

type point [3]float64

func dist2(a, b point) float64 {
	var d float64
	for i := range a {
		x := a[i] - b[i]
		d += x * x
	}
	return d
}

// DefaultK picks a cluster count for n records: one cluster per ten records,
// between two and five, never more than n.
func DefaultK(n int) int {
	k := n / 10
	if k > 5 {
		k = 5
	}
	if k < 2 {
		k = 2
	}
	if k > n {
		k = n
	}
	return k
}

// KMeans partitions records into K clusters over (protein, carbs, fat).
//
// Initial centroids are taken at fixed spacing from the records sorted by
// (protein, carbs, fat, index): centroid i starts at sorted position
// (2i+1)n/(2K). Each record joins its nearest centroid, ties going to the
// lowest id, and centroids move to the mean of their members until no
// assignment changes or MaxIterations is reached. A cluster left empty is
// reseeded with the record farthest from its own centroid, taken from a
// cluster that has more than one member, so every output cluster is
// non-empty and the clusters partition the input.
func KMeans(records []Recipe, opts KMeansOptions) (ClusterResult, error) {
	n := len(records)
	k := opts.K
	if k <= 0 {
		return ClusterResult{}, &InvalidParameterError{Name: "k", Value: k, Reason: "must be positive"}
	}
	if k > n {
		return ClusterResult{}, &InvalidParameterError{Name: "k", Value: k, Reason: "exceeds the number of records"}
	}
	if opts.MaxIterations < 1 {
		return ClusterResult{}, &InvalidParameterError{Name: "max_iterations", Value: opts.MaxIterations, Reason: "must be at least 1"}
	}
	if opts.SampleSize < 0 {
		return ClusterResult{}, &InvalidParameterError{Name: "sample_size", Value: opts.SampleSize, Reason: "must not be negative"}
	}
	samples := opts.SampleSize
	if samples == 0 {
		samples = DefaultClusterSamples
	}

	points := make([]point, n)
	for i, r := range records {
		points[i] = point{r.Protein, r.Carbs, r.Fat}
	}
	if opts.Standardize {
		standardize(points)
	}

	centroids := initialCentroids(points, k)
	assign := make([]int, n)
	prev := make([]int, n)
	for i := range prev {
		prev[i] = -1
	}

	result := ClusterResult{}
	for iter := 1; iter <= opts.MaxIterations; iter++ {
		for i, p := range points {
			assign[i] = nearest(centroids, p)
		}
		reseedEmpty(points, centroids, assign)
		centroids = means(points, assign, k)
		result.Iterations = iter
		if slices.Equal(prev, assign) {
			result.Converged = true
			break
		}
		copy(prev, assign)
	}

	result.Clusters = summarizeClusters(records, assign, k, samples)
	return result, nil
}

func standardize(points []point) {
	n := float64(len(points))
	for d := 0; d < 3; d++ {
		var mean float64
		for _, p := range points {
			mean += p[d]
		}
		mean /= n
		var variance float64
		for _, p := range points {
			x := p[d] - mean
			variance += x * x
		}
		std := math.Sqrt(variance / n)
		for i := range points {
			if std == 0 {
				points[i][d] = 0
				continue
			}
			points[i][d] = (points[i][d] - mean) / std
		}
	}
}

func initialCentroids(points []point, k int) []point {
	n := len(points)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		pa, pb := points[order[a]], points[order[b]]
		for d := 0; d < 3; d++ {
			if pa[d] != pb[d] {
				return pa[d] < pb[d]
			}
		}
		return order[a] < order[b]
	})

	centroids := make([]point, k)
	for i := range centroids {
		centroids[i] = points[order[(2*i+1)*n/(2*k)]]
	}
	return centroids
}

func nearest(centroids []point, p point) int {
	best, bestDist := 0, dist2(centroids[0], p)
	for c := 1; c < len(centroids); c++ {
		if d := dist2(centroids[c], p); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// reseedEmpty gives every empty cluster one record.
func reseedEmpty(points []point, centroids []point, assign []int) {
	sizes := make([]int, len(centroids))
	for _, c := range assign {
		sizes[c]++
	}

	for c := range centroids {
		if sizes[c] > 0 {
			continue
		}
		far, farDist := -1, -1.0
		for i, p := range points {
			from := assign[i]
			if sizes[from] < 2 {
				continue
			}
			if d := dist2(centroids[from], p); d > farDist {
				far, farDist = i, d
			}
		}
		if far < 0 {
			// unreachable while k <= n
			continue
		}
		sizes[assign[far]]--
		assign[far] = c
		sizes[c] = 1
		centroids[c] = points[far]
	}
}

func means(points []point, assign []int, k int) []point {
	sums := make([]point, k)
	counts := make([]int, k)
	for i, p := range points {
		c := assign[i]
		counts[c]++
		for d := range p {
			sums[c][d] += p[d]
		}
	}
	for c := range sums {
		if counts[c] == 0 {
			continue
		}
		for d := range sums[c] {
			sums[c][d] /= float64(counts[c])
		}
	}
	return sums
}

func summarizeClusters(records []Recipe, assign []int, k, samples int) []Cluster {
	members := make([][]int, k)
	for i, c := range assign {
		members[c] = append(members[c], i)
	}

	clusters := make([]Cluster, k)
	for c := range clusters {
		group := make([]Recipe, len(members[c]))
		var centroid Centroid
		for j, idx := range members[c] {
			r := records[idx]
			group[j] = r
			centroid.Protein += r.Protein
			centroid.Carbs += r.Carbs
			centroid.Fat += r.Fat
		}
		size := len(group)
		if size > 0 {
			centroid.Protein /= float64(size)
			centroid.Carbs /= float64(size)
			centroid.Fat /= float64(size)
		}

		names := make([]string, 0, samples)
		for _, r := range group {
			if len(names) == samples {
				break
			}
			names = append(names, r.Name)
		}

		diets := countValues(group, FieldDietType)
		if len(diets) > clusterDietTypes {
			diets = diets[:clusterDietTypes]
		}

		clusters[c] = Cluster{
			ID:          c,
			Members:     members[c],
			Centroid:    centroid,
			Size:        size,
			SampleNames: names,
			DietTypes:   diets,
		}
	}
	return clusters
}

// Neighbor is a record index with its distance to a target point.
type Neighbor struct {
	Index    int
	Distance float64
}

// Nearest returns up to n records closest to target by Euclidean distance in
// grams, nearest first with ties in dataset order. The record at exclude is
// skipped; pass -1 to keep all.
func Nearest(records []Recipe, target Centroid, n, exclude int) ([]Neighbor, error) {
	if n < 1 {
		return nil, &InvalidParameterError{Name: "n", Value: n, Reason: "must be at least 1"}
	}
	t := point{target.Protein, target.Carbs, target.Fat}
	out := make([]Neighbor, 0, len(records))
	for i, r := range records {
		if i == exclude {
			continue
		}
		d := dist2(t, point{r.Protein, r.Carbs, r.Fat})
		out = append(out, Neighbor{Index: i, Distance: math.Sqrt(d)})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Distance < out[b].Distance
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}
