package service

import (
	"time"

	"github.com/pageza/diet-insights/backend/internal/dataset"
)

// RecipeView is the JSON shape of one recipe in list responses.
type RecipeView struct {
	RecipeName  string  `json:"recipe_name"`
	DietType    string  `json:"diet_type"`
	CuisineType string  `json:"cuisine_type"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
}

// Pagination describes the position of a page in the filtered set.
type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	TotalPages   int  `json:"total_pages"`
	TotalRecipes int  `json:"total_recipes"`
	PageSize     int  `json:"page_size"`
	HasNext      bool `json:"has_next"`
	HasPrevious  bool `json:"has_previous"`
}

// RecipeFilters echoes the filters a page was built with.
type RecipeFilters struct {
	DietType   string `json:"diet_type"`
	SearchTerm string `json:"search_term"`
}

// RecipePage is the /recipes response.
type RecipePage struct {
	Recipes    []RecipeView  `json:"recipes"`
	Pagination Pagination    `json:"pagination"`
	Filters    RecipeFilters `json:"filters"`
}

// DietSummary is the /summary response.
type DietSummary struct {
	TotalRecipes      int      `json:"total_recipes"`
	TotalDietTypes    int      `json:"total_diet_types"`
	TotalCuisineTypes int      `json:"total_cuisine_types"`
	DietTypes         []string `json:"diet_types"`
	MostCommonDiet    string   `json:"most_common_diet"`
	MostCommonCuisine string   `json:"most_common_cuisine"`
}

// MacroAverages holds mean grams per macronutrient.
type MacroAverages struct {
	Protein float64 `json:"Protein"`
	Carbs   float64 `json:"Carbs"`
	Fat     float64 `json:"Fat"`
}

// DietComparison is one entry of the /comparison response.
type DietComparison struct {
	DietType     string  `json:"diet_type"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fat          float64 `json:"fat"`
	TotalRecipes int     `json:"total_recipes"`
}

// TopRecipe is one entry of the /top-recipes response.
type TopRecipe struct {
	RecipeName    string  `json:"recipe_name"`
	DietType      string  `json:"diet_type"`
	CuisineType   string  `json:"cuisine_type"`
	NutrientValue float64 `json:"nutrient_value"`
	NutrientType  string  `json:"nutrient_type"`
}

// NutrientRange is one entry of the /nutrient-ranges response.
type NutrientRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
}

// BarDataset is one series of a bar chart.
type BarDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor"`
	BorderWidth     int       `json:"borderWidth"`
}

// BarChart is the /bar-chart response.
type BarChart struct {
	ChartType string       `json:"chart_type"`
	Title     string       `json:"title"`
	Labels    []string     `json:"labels"`
	Datasets  []BarDataset `json:"datasets"`
}

// ScatterPoint is one sampled recipe.
type ScatterPoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	DietType   string  `json:"diet_type"`
	RecipeName string  `json:"recipe_name"`
	Color      string  `json:"color"`
}

// ScatterPlot is the /scatter-plot response.
type ScatterPlot struct {
	ChartType    string            `json:"chart_type"`
	Title        string            `json:"title"`
	XAxis        string            `json:"x_axis"`
	YAxis        string            `json:"y_axis"`
	Data         []ScatterPoint    `json:"data"`
	DietTypes    []string          `json:"diet_types"`
	Colors       map[string]string `json:"colors"`
	SampleSize   int               `json:"sample_size"`
	TotalRecipes int               `json:"total_recipes"`
	Seed         uint64            `json:"seed"`
}

// HeatmapCell is one coefficient of the correlation matrix.
type HeatmapCell struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Value    float64 `json:"value"`
	RowLabel string  `json:"row_label"`
	ColLabel string  `json:"col_label"`
}

// Heatmap is the /heatmap response.
type Heatmap struct {
	ChartType string        `json:"chart_type"`
	Title     string        `json:"title"`
	Labels    []string      `json:"labels"`
	Data      []HeatmapCell `json:"data"`
	MinValue  float64       `json:"min_value"`
	MaxValue  float64       `json:"max_value"`
}

// PieDataset is the single series of a pie chart.
type PieDataset struct {
	Data            []int    `json:"data"`
	BackgroundColor []string `json:"backgroundColor"`
	BorderWidth     int      `json:"borderWidth"`
}

// PieChart is the /pie-chart response.
type PieChart struct {
	ChartType    string       `json:"chart_type"`
	Title        string       `json:"title"`
	Labels       []string     `json:"labels"`
	Datasets     []PieDataset `json:"datasets"`
	TotalRecipes int          `json:"total_recipes"`
}

// DietTypes is the /diet-types response.
type DietTypes struct {
	DietTypes  []string       `json:"diet_types"`
	DietCounts map[string]int `json:"diet_counts"`
	TotalTypes int            `json:"total_types"`
}

// CorrelationEntry describes one pair of nutrients.
type CorrelationEntry struct {
	Correlation float64  `json:"correlation"`
	Strength    string   `json:"strength"`
	Nutrients   []string `json:"nutrients"`
}

// CorrelationReport is the /correlations response, keyed "Protein_vs_Carbs".
type CorrelationReport struct {
	Correlations   map[string]CorrelationEntry `json:"correlations"`
	Interpretation string                      `json:"interpretation"`
}

// ClusterInfo summarizes one cluster.
type ClusterInfo struct {
	ClusterID       int            `json:"cluster_id"`
	Size            int            `json:"size"`
	AvgProtein      float64        `json:"avg_protein"`
	AvgCarbs        float64        `json:"avg_carbs"`
	AvgFat          float64        `json:"avg_fat"`
	CommonDietTypes map[string]int `json:"common_diet_types"`
	SampleRecipes   []string       `json:"sample_recipes"`
	// MemberIndices index the filtered record set.
	MemberIndices []int `json:"member_indices,omitempty"`
}

// ClusterResponse is the /clusters response. Clusters are keyed "cluster_<id>".
type ClusterResponse struct {
	Clusters         map[string]ClusterInfo `json:"clusters"`
	TotalClusters    int                    `json:"total_clusters"`
	FeaturesUsed     []string               `json:"features_used"`
	ClusteringMethod string                 `json:"clustering_method"`
	Standardized     bool                   `json:"standardized"`
	Iterations       int                    `json:"iterations"`
	Converged        bool                   `json:"converged"`
	TotalRecipes     int                    `json:"total_recipes"`
}

// NutritionalInsights is the dashboard response.
type NutritionalInsights struct {
	Summary           DietSummary              `json:"summary"`
	Macronutrients    map[string]MacroAverages `json:"macronutrients"`
	NutrientRanges    map[string]NutrientRange `json:"nutrient_ranges"`
	DietDistribution  PieChart                 `json:"diet_distribution"`
	TopProteinRecipes []TopRecipe              `json:"top_protein_recipes"`
	Correlations      CorrelationReport        `json:"correlations"`
	Timestamp         string                   `json:"timestamp"`
}

// SimilarRecipe is a neighbour in macronutrient space.
type SimilarRecipe struct {
	RecipeView
	Distance float64 `json:"distance"`
}

// SimilarRecipes is the /similar-recipes response.
type SimilarRecipes struct {
	Recipe  RecipeView      `json:"recipe"`
	Similar []SimilarRecipe `json:"similar"`
}

// DatasetStatus describes the snapshot currently served.
type DatasetStatus struct {
	Source   string              `json:"source"`
	Version  string              `json:"version"`
	LoadedAt time.Time           `json:"loaded_at"`
	Recipes  int                 `json:"recipes"`
	Report   dataset.ParseReport `json:"report"`
}
