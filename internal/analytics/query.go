package analytics

import "strings"

// Query selects and paginates records. Empty Search and DietType match
// everything.
type Query struct {
	Search   string
	DietType string
	Page     int
	PageSize int
}

// Filter keeps records whose name contains Search and whose diet type equals
// DietType, both case-insensitively. Dataset order is preserved.
func Filter(records []Recipe, q Query) []Recipe {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	diet := strings.TrimSpace(q.DietType)
	if search == "" && diet == "" {
		return records
	}

	out := make([]Recipe, 0, len(records))
	for _, r := range records {
		if diet != "" && !strings.EqualFold(r.DietType, diet) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(r.Name), search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterAndPaginate filters records and returns the requested page. A page
// past the end yields no items but still carries the totals.
func FilterAndPaginate(records []Recipe, q Query) (Page, error) {
	if q.Page < 1 {
		return Page{}, &InvalidParameterError{Name: "page", Value: q.Page, Reason: "must be at least 1"}
	}
	if q.PageSize < 1 {
		return Page{}, &InvalidParameterError{Name: "page_size", Value: q.PageSize, Reason: "must be at least 1"}
	}

	filtered := Filter(records, q)
	total := len(filtered)
	pages := total / q.PageSize
	if total%q.PageSize != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}

	items := []Recipe{}
	// compare against the page count first so start cannot overflow
	if q.Page <= pages {
		start := (q.Page - 1) * q.PageSize
		if start < total {
			end := start + q.PageSize
			if end > total {
				end = total
			}
			items = append(items, filtered[start:end]...)
		}
	}

	return Page{
		Items:       items,
		PageNumber:  q.Page,
		PageSize:    q.PageSize,
		TotalItems:  total,
		TotalPages:  pages,
		HasNext:     q.Page < pages,
		HasPrevious: q.Page > 1,
	}, nil
}

// Search returns records whose categorical field contains term,
// case-insensitively.
func Search(records []Recipe, term string, field Field) ([]Recipe, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, &InvalidParameterError{Name: "term", Value: `""`, Reason: "search term is required"}
	}
	if err := requireCategorical(field); err != nil {
		return nil, err
	}

	out := []Recipe{}
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Category(field)), term) {
			out = append(out, r)
		}
	}
	return out, nil
}
