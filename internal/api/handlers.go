package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/diet-insights/backend/internal/service"
)

// Route prefixes the analytics endpoints are mounted under, besides the root.
var RoutePrefixes = []string{"/api/v1", "/diet-processor"}

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Function is running",
	})
}

// Index describes the available operations.
func Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":     "Welcome to Enhanced Diet Data Processor API",
		"status":      "running",
		"version":     "2.0",
		"description": "APIs designed for nutritional insights dashboard",
		"available_operations": gin.H{
			"health": "/health",
			"main_apis": gin.H{
				"nutritional_insights": "/api/v1/nutritional-insights",
				"recipes":              "/api/v1/recipes?page=1&page_size=20&diet_type=&search=",
				"clusters":             "/api/v1/clusters?k=&diet_type=&search=",
			},
			"chart_apis": gin.H{
				"bar_chart":    "/api/v1/bar-chart",
				"scatter_plot": "/api/v1/scatter-plot?x=Protein&y=Carbs",
				"heatmap":      "/api/v1/heatmap",
				"pie_chart":    "/api/v1/pie-chart",
				"chart_data":   "/api/v1/chart-data?type=bar",
			},
			"utility_apis": gin.H{
				"diet_types":      "/api/v1/diet-types",
				"similar_recipes": "/api/v1/similar-recipes?name=&n=5",
				"correlations":    "/api/v1/correlations",
				"dataset":         "/api/v1/dataset",
			},
			"legacy_apis": gin.H{
				"summary":              "/diet-processor/summary",
				"macronutrients":       "/diet-processor/macronutrients",
				"comparison":           "/diet-processor/comparison",
				"top_recipes":          "/diet-processor/top-recipes?nutrient=Protein&n=10",
				"cuisine_distribution": "/diet-processor/cuisine-distribution",
				"nutrient_ranges":      "/diet-processor/nutrient-ranges",
				"recipes_by_diet":      "/diet-processor/recipes/diet/:diet_type",
				"search":               "/diet-processor/search?term=&field=Recipe_name",
			},
		},
	})
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, svc service.IInsightsService, logger *zap.Logger, middleware ...gin.HandlerFunc) {
	// Health check endpoint (no rate limit)
	router.GET("/health", HealthCheck)
	router.GET("/api/health", HealthCheck)
	router.GET("/", Index)

	handler := NewAnalyticsHandler(svc, logger)
	handler.RegisterRoutes(router.Group("", middleware...))
	for _, prefix := range RoutePrefixes {
		handler.RegisterRoutes(router.Group(prefix, middleware...))
	}
}
