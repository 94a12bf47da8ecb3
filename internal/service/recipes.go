package service

import (
	"context"
	"strings"

	"github.com/pageza/diet-insights/backend/internal/analytics"
	"github.com/pageza/diet-insights/backend/internal/dataset"
)

// Recipes returns one page of the filtered recipes.
func (s *InsightsService) Recipes(ctx context.Context, q RecipeQuery) (RecipePage, error) {
	if q.PageSize > s.cfg.MaxPageSize {
		return RecipePage{}, &analytics.InvalidParameterError{Name: "page_size", Value: q.PageSize, Reason: "exceeds the maximum of " + itoa(s.cfg.MaxPageSize)}
	}
	params := append(q.params(), "page="+itoa(q.Page), "size="+itoa(q.PageSize))
	return cached(ctx, s, "recipes", params, func(records []analytics.Recipe) (RecipePage, error) {
		page, err := analytics.FilterAndPaginate(records, analytics.Query{
			Search:   q.Search,
			DietType: q.DietType,
			Page:     q.Page,
			PageSize: q.PageSize,
		})
		if err != nil {
			return RecipePage{}, err
		}
		return RecipePage{
			Recipes: views(page.Items),
			Pagination: Pagination{
				CurrentPage:  page.PageNumber,
				TotalPages:   page.TotalPages,
				TotalRecipes: page.TotalItems,
				PageSize:     page.PageSize,
				HasNext:      page.HasNext,
				HasPrevious:  page.HasPrevious,
			},
			Filters: RecipeFilters{DietType: q.DietType, SearchTerm: q.Search},
		}, nil
	})
}

// RecipesByDiet lists every recipe of one diet type, matched
// case-insensitively.
func (s *InsightsService) RecipesByDiet(ctx context.Context, dietType string) ([]RecipeView, error) {
	if strings.TrimSpace(dietType) == "" {
		return nil, &analytics.InvalidParameterError{Name: "diet_type", Value: `""`, Reason: "diet type is required"}
	}
	return cached(ctx, s, "recipes-by-diet", []string{strings.ToLower(dietType)}, func(records []analytics.Recipe) ([]RecipeView, error) {
		return views(analytics.Filter(records, analytics.Query{DietType: dietType})), nil
	})
}

// SearchRecipes finds recipes whose field contains term. An empty field
// searches recipe names.
func (s *InsightsService) SearchRecipes(ctx context.Context, term, field string) ([]RecipeView, error) {
	f := analytics.FieldName
	if field != "" {
		var err error
		if f, err = analytics.ParseField(field); err != nil {
			return nil, err
		}
	}
	return cached(ctx, s, "search", []string{string(f), strings.ToLower(term)}, func(records []analytics.Recipe) ([]RecipeView, error) {
		found, err := analytics.Search(records, term, f)
		if err != nil {
			return nil, err
		}
		return views(found), nil
	})
}

// TopRecipes returns the n recipes richest in a nutrient. n is clamped to
// [1, MaxTopRecipes]; zero uses the configured default.
func (s *InsightsService) TopRecipes(ctx context.Context, nutrient string, n int) ([]TopRecipe, error) {
	if nutrient == "" {
		nutrient = analytics.FieldProtein.Label()
	}
	f, err := analytics.ParseNutrientField(nutrient)
	if err != nil {
		return nil, err
	}
	switch {
	case n == 0:
		n = s.cfg.TopRecipes
	case n < 1:
		n = 1
	case n > s.cfg.MaxTopRecipes:
		n = s.cfg.MaxTopRecipes
	}
	return cached(ctx, s, "top-recipes", []string{string(f), itoa(n)}, func(records []analytics.Recipe) ([]TopRecipe, error) {
		return topRecipes(records, f, n)
	})
}

// SimilarRecipes finds the recipes closest to the named one in
// macronutrient space. Sources backed by pgvector answer the query natively.
func (s *InsightsService) SimilarRecipes(ctx context.Context, name string, n int) (SimilarRecipes, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SimilarRecipes{}, &analytics.InvalidParameterError{Name: "name", Value: `""`, Reason: "recipe name is required"}
	}
	if n == 0 {
		n = s.cfg.SimilarRecipes
	}
	if n < 1 || n > s.cfg.MaxTopRecipes {
		return SimilarRecipes{}, &analytics.InvalidParameterError{Name: "n", Value: n, Reason: "must be between 1 and " + itoa(s.cfg.MaxTopRecipes)}
	}

	params := []string{strings.ToLower(name), itoa(n)}
	return cached(ctx, s, "similar", params, func(records []analytics.Recipe) (SimilarRecipes, error) {
		idx := -1
		for i, r := range records {
			if strings.EqualFold(r.Name, name) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return SimilarRecipes{}, ErrRecipeNotFound
		}

		target := records[idx].Macros()
		var neighbors []analytics.Neighbor
		var err error
		if finder, ok := s.source.(dataset.NearestFinder); ok {
			neighbors, err = finder.Nearest(ctx, target, n, idx)
		} else {
			neighbors, err = analytics.Nearest(records, target, n, idx)
		}
		if err != nil {
			return SimilarRecipes{}, err
		}

		out := SimilarRecipes{Recipe: view(records[idx]), Similar: make([]SimilarRecipe, 0, len(neighbors))}
		for _, nb := range neighbors {
			if nb.Index < 0 || nb.Index >= len(records) {
				continue
			}
			out.Similar = append(out.Similar, SimilarRecipe{
				RecipeView: view(records[nb.Index]),
				Distance:   round2(nb.Distance),
			})
		}
		return out, nil
	})
}

func topRecipes(records []analytics.Recipe, f analytics.Field, n int) ([]TopRecipe, error) {
	top, err := analytics.TopN(records, f, n)
	if err != nil {
		return nil, err
	}
	out := make([]TopRecipe, len(top))
	for i, r := range top {
		out[i] = TopRecipe{
			RecipeName:    r.Name,
			DietType:      r.DietType,
			CuisineType:   r.CuisineType,
			NutrientValue: round2(r.Value(f)),
			NutrientType:  f.Label(),
		}
	}
	return out, nil
}
