package model

type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNext      bool `json:"hasNext"`
	HasPrev      bool `json:"hasPrev"`
}

// Paginate computes the pagination envelope for a page of results.
// Page and limit are clamped to sane minimums.
func Paginate(page, limit, totalItems int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	totalPages := (totalItems + limit - 1) / limit

	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: limit,
		HasNext:      page < totalPages,
		HasPrev:      page > 1,
	}
}

// Offset is the number of items to skip to reach the given page.
func (p Pagination) Offset() int {
	return (p.CurrentPage - 1) * p.ItemsPerPage
}
