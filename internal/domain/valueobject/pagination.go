package valueobject

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// PageRequest - запрошенная страница до того, как стало известно общее количество.
type PageRequest struct {
	Page    int
	PerPage int
}

// NewPageRequest нормализует параметры: page >= 1, 1 <= per_page <= maxPerPage.
func NewPageRequest(page, perPage, defaultPerPage, maxPerPage int) PageRequest {
	if defaultPerPage <= 0 {
		defaultPerPage = DefaultPerPage
	}
	if maxPerPage <= 0 {
		maxPerPage = MaxPerPage
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return PageRequest{Page: page, PerPage: perPage}
}

// Resolve строит конверт пагинации для известного total.
// Страница за пределами last_page прижимается к последней.
func (r PageRequest) Resolve(total int) Page {
	perPage := r.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if total < 0 {
		total = 0
	}
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	page := r.Page
	if page < 1 {
		page = 1
	}
	if page > lastPage {
		page = lastPage
	}
	return Page{Page: page, PerPage: perPage, Total: total, LastPage: lastPage}
}

// Page - конверт {page, per_page, total, last_page}, общий для всех списков.
type Page struct {
	Page     int `json:"page"`
	PerPage  int `json:"per_page"`
	Total    int `json:"total"`
	LastPage int `json:"last_page"`
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func (p Page) Limit() int {
	return p.PerPage
}

func (p Page) HasMore() bool {
	return p.Page < p.LastPage
}
