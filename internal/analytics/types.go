// Package analytics computes nutritional statistics, correlations, clusters
// and filtered pages over an immutable snapshot of recipe records.
//
// Every function in this package is pure: it reads the records it is given,
// never mutates them, and holds no state between calls.
package analytics

// Recipe is one row of the diet dataset. Numeric fields are grams and are
// validated as non-negative when the dataset is loaded.
type Recipe struct {
	Name        string  `json:"Recipe_name"`
	DietType    string  `json:"Diet_type"`
	CuisineType string  `json:"Cuisine_type"`
	Protein     float64 `json:"Protein(g)"`
	Carbs       float64 `json:"Carbs(g)"`
	Fat         float64 `json:"Fat(g)"`
}

// NutrientSummary holds the descriptive statistics of one numeric field.
type NutrientSummary struct {
	Field   Field   `json:"field"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
}

// GroupMean is the mean of each requested field within one group.
type GroupMean struct {
	Group string            `json:"group"`
	Count int               `json:"count"`
	Means map[Field]float64 `json:"means"`
}

// GroupSummary lists groups in the order they first appear in the records.
type GroupSummary struct {
	GroupField Field       `json:"group_field"`
	Fields     []Field     `json:"fields"`
	Groups     []GroupMean `json:"groups"`
}

// Lookup returns the means of a single group.
func (g GroupSummary) Lookup(group string) (GroupMean, bool) {
	for _, m := range g.Groups {
		if m.Group == group {
			return m, true
		}
	}
	return GroupMean{}, false
}

// Labels returns the group names in order.
func (g GroupSummary) Labels() []string {
	labels := make([]string, len(g.Groups))
	for i, m := range g.Groups {
		labels[i] = m.Group
	}
	return labels
}

// CategoryCount is the number of records carrying one categorical value.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CrossCount breaks one outer category down by an inner one.
type CrossCount struct {
	Group  string          `json:"group"`
	Counts []CategoryCount `json:"counts"`
}

// Centroid is a point in (protein, carbs, fat) space, in grams.
type Centroid struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// Cluster is one partition produced by KMeans. Members are record indices
// into the input slice, in ascending order.
type Cluster struct {
	ID          int             `json:"id"`
	Members     []int           `json:"member_indices"`
	Centroid    Centroid        `json:"centroid"`
	Size        int             `json:"size"`
	SampleNames []string        `json:"sample_names"`
	DietTypes   []CategoryCount `json:"diet_types"`
}

// ClusterResult is the output of a KMeans run.
type ClusterResult struct {
	Clusters   []Cluster `json:"clusters"`
	Iterations int       `json:"iterations"`
	Converged  bool      `json:"converged"`
}

// Page is one slice of a filtered record set plus its pagination metadata.
type Page struct {
	Items       []Recipe `json:"items"`
	PageNumber  int      `json:"page_number"`
	PageSize    int      `json:"page_size"`
	TotalItems  int      `json:"total_items"`
	TotalPages  int      `json:"total_pages"`
	HasNext     bool     `json:"has_next"`
	HasPrevious bool     `json:"has_previous"`
}
