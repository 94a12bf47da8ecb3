package service

import (
	"context"
	"strconv"

	"github.com/pageza/diet-insights/backend/internal/analytics"
)

// Clusters groups the filtered recipes by macronutrient profile with k-means.
// K of zero uses the configured default, or one cluster per ten recipes
// between two and five when none is configured.
func (s *InsightsService) Clusters(ctx context.Context, q ClusterQuery) (ClusterResponse, error) {
	cc := s.cfg.Clustering
	if q.K < 0 || q.K > cc.MaxK {
		return ClusterResponse{}, &analytics.InvalidParameterError{Name: "k", Value: q.K, Reason: "must be between 1 and " + itoa(cc.MaxK)}
	}
	standardize := cc.StandardizeEnabled()

	params := append(q.params(), "k="+itoa(q.K), "members="+strconv.FormatBool(q.IncludeMembers))
	return cached(ctx, s, "clusters", params, func(records []analytics.Recipe) (ClusterResponse, error) {
		filtered := analytics.Filter(records, q.query())
		if len(filtered) == 0 {
			return ClusterResponse{}, &analytics.InsufficientDataError{Operation: "clustering", Need: 1, Have: 0}
		}

		k := q.K
		if k == 0 {
			k = cc.DefaultK
			if k == 0 {
				k = analytics.DefaultK(len(filtered))
			}
			k = min(k, len(filtered))
		}

		result, err := analytics.KMeans(filtered, analytics.KMeansOptions{
			K:             k,
			MaxIterations: cc.MaxIterations,
			Standardize:   standardize,
		})
		if err != nil {
			return ClusterResponse{}, err
		}

		clusters := make(map[string]ClusterInfo, len(result.Clusters))
		for _, c := range result.Clusters {
			info := ClusterInfo{
				ClusterID:       c.ID,
				Size:            c.Size,
				AvgProtein:      round2(c.Centroid.Protein),
				AvgCarbs:        round2(c.Centroid.Carbs),
				AvgFat:          round2(c.Centroid.Fat),
				CommonDietTypes: countMap(c.DietTypes),
				SampleRecipes:   c.SampleNames,
			}
			if q.IncludeMembers {
				info.MemberIndices = c.Members
			}
			clusters["cluster_"+itoa(c.ID)] = info
		}

		features := make([]string, len(analytics.NutrientFields))
		for i, f := range analytics.NutrientFields {
			features[i] = f.Column()
		}

		return ClusterResponse{
			Clusters:         clusters,
			TotalClusters:    len(result.Clusters),
			FeaturesUsed:     features,
			ClusteringMethod: "K-Means",
			Standardized:     standardize,
			Iterations:       result.Iterations,
			Converged:        result.Converged,
			TotalRecipes:     len(filtered),
		}, nil
	})
}
