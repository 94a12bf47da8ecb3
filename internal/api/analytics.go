package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/diet-insights/backend/internal/analytics"
	"github.com/pageza/diet-insights/backend/internal/service"
)

// AnalyticsHandler serves the dashboard analytics endpoints.
type AnalyticsHandler struct {
	svc    service.IInsightsService
	logger *zap.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(svc service.IInsightsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers the analytics routes on the group.
func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/nutritional-insights", h.NutritionalInsights)
	router.GET("/recipes", h.Recipes)
	router.GET("/recipes/diet/:diet_type", h.RecipesByDiet)
	router.GET("/clusters", h.Clusters)

	router.GET("/bar-chart", h.BarChart)
	router.GET("/scatter-plot", h.ScatterPlot)
	router.GET("/heatmap", h.Heatmap)
	router.GET("/pie-chart", h.PieChart)
	router.GET("/chart-data", h.ChartData)

	router.GET("/diet-types", h.DietTypes)
	router.GET("/summary", h.Summary)
	router.GET("/macronutrients", h.Macronutrients)
	router.GET("/comparison", h.Comparison)
	router.GET("/top-recipes", h.TopRecipes)
	router.GET("/cuisine-distribution", h.CuisineDistribution)
	router.GET("/nutrient-ranges", h.NutrientRanges)
	router.GET("/correlations", h.Correlations)
	router.GET("/search", h.Search)
	router.GET("/similar-recipes", h.SimilarRecipes)
	router.GET("/dataset", h.Dataset)
}

// respond writes v as JSON, or the mapped error.
func respond[T any](h *AnalyticsHandler, c *gin.Context, v T, err error) {
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *AnalyticsHandler) NutritionalInsights(c *gin.Context) {
	out, err := h.svc.NutritionalInsights(c.Request.Context())
	respond(h, c, out, err)
}

func (h *AnalyticsHandler) Recipes(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	pageSize, err := queryInt(c, "page_size", h.svc.Config().DefaultPageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	out, err := h.svc.Recipes(c.Request.Context(), service.RecipeQuery{
		RecordFilter: recordFilter(c),
		Page:         page,
		PageSize:     pageSize,
	})
	respond(h, c, out, err)
}

func (h *AnalyticsHandler) RecipesByDiet(c *gin.Context) {
	dietType := c.Param("diet_type")
	out, err := h.svc.RecipesByDiet(c.Request.Context(), dietType)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"diet_type": dietType,
		"recipes":   out,
		"count":     len(out),
	})
}

func (h *AnalyticsHandler) Clusters(c *gin.Context) {
	k, err := queryInt(c, "k", 0)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	members, err := queryBool(c, "include_members")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	out, err := h.svc.Clusters(c.Request.Context(), service.ClusterQuery{
		RecordFilter:   recordFilter(c),
		K:              k,
		IncludeMembers: members,
	})
	respond(h, c, out, err)
}

func (h *AnalyticsHandler) BarChart(c *gin.Context) {
	out, err := h.svc.BarChart(c.Request.Context())
	respond(h, c, out, err)
}

func (h *AnalyticsHandler) ScatterPlot(c *gin.Context) {
	q := service.ScatterQuery{
		RecordFilter: recordFilter(c),
		X:            c.Query("x"),
		Y:            c.Query("y"),
	}
	if raw := strings.TrimSpace(c.Query("seed")); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, h.logger, &analytics.InvalidParameterError{Name: "seed", Value: raw, Reason: "must be a non-negative integer"})
			return
		}
		q.Seed = &seed
	}
	out, err := h.svc.ScatterPlot(c.Request.Context(), q)
	respond(h, c, out, err)
}

func (h *AnalyticsHandler) Heatmap(c *gin.Context) {
	out, err := h.svc.Heatmap(c.Request.Context(), recordFilter(c))
	respond(h, c, out, err)
}

func (h *AnalyticsHandler) PieChart(c *gin.Context) {
	out, err := h.svc.PieChart(c.Request.Context())
	respond(h, c, out, err)
}

func (h *AnalyticsHandler) ChartData(c *gin.Context) {
	out, err := h.svc.ChartData(c.Request.Context(), c.Query("type"))
	respond(h, c, out, err)
}

func (h *AnalyticsHandler) DietTypes(c *gin.Context) {
	out, err := h.svc.DietTypes(c.Request.Context())
	respond(h, c, out, err)
}

func (h *AnalyticsHandler) Summary(c *gin.Context) {
	out, err := h.svc.Summary(c.Request.Context())
	respond(h, c, out, err)
}

func (h *AnalyticsHandler) Macronutrients(c *gin.Context) {
	out, err := h.svc.Macronutrients(c.Request.Context())
	respond(h, c, out, err)
}

func (h *AnalyticsHandler) Comparison(c *gin.Context) {
	out, err := h.svc.Comparison(c.Request.Context())
	respond(h, c, out, err)
}

// TopRecipes clamps n to at least one; an unparsable n uses the default.
func (h *AnalyticsHandler) TopRecipes(c *gin.Context) {
	n := 0
	if raw, ok := c.GetQuery("n"); ok {
		if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			n = max(v, 1)
		}
	}
	out, err := h.svc.TopRecipes(c.Request.Context(), c.Query("nutrient"), n)
	respond(h, c, out, err)
}

func (h *AnalyticsHandler) CuisineDistribution(c *gin.Context) {
	out, err := h.svc.CuisineDistribution(c.Request.Context())
	respond(h, c, out, err)
}

func (h *AnalyticsHandler) NutrientRanges(c *gin.Context) {
	out, err := h.svc.NutrientRanges(c.Request.Context())
	respond(h, c, out, err)
}

func (h *AnalyticsHandler) Correlations(c *gin.Context) {
	out, err := h.svc.Correlations(c.Request.Context())
	respond(h, c, out, err)
}

func (h *AnalyticsHandler) Search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("term"))
	if term == "" {
		badRequest(c, "Search term is required")
		return
	}
	field := c.Query("field")
	out, err := h.svc.SearchRecipes(c.Request.Context(), term, field)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if field == "" {
		field = analytics.FieldName.Column()
	}
	c.JSON(http.StatusOK, gin.H{
		"search_term":  term,
		"search_field": field,
		"results":      out,
		"count":        len(out),
	})
}

func (h *AnalyticsHandler) SimilarRecipes(c *gin.Context) {
	n, err := queryInt(c, "n", 0)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	out, err := h.svc.SimilarRecipes(c.Request.Context(), c.Query("name"), n)
	respond(h, c, out, err)
}

func (h *AnalyticsHandler) Dataset(c *gin.Context) {
	out, err := h.svc.DatasetStatus(c.Request.Context())
	respond(h, c, out, err)
}

func recordFilter(c *gin.Context) service.RecordFilter {
	return service.RecordFilter{
		DietType: strings.TrimSpace(c.Query("diet_type")),
		Search:   strings.TrimSpace(c.Query("search")),
	}
}

// queryInt reads an integer query parameter, def when absent or blank.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &analytics.InvalidParameterError{Name: name, Value: raw, Reason: "must be an integer"}
	}
	return v, nil
}

func queryBool(c *gin.Context, name string) (bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &analytics.InvalidParameterError{Name: name, Value: raw, Reason: "must be a boolean"}
	}
	return v, nil
}
