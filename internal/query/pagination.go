package query

const MaxLimit = 100

type Pagination struct {
	Page  int
	Limit int
	Skip  int
}

// ParsePagination floors page and limit at 1 and caps limit at MaxLimit
// regardless of what the request asked for.
func ParsePagination(page, limit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Pagination{
		Page:  page,
		Limit: limit,
		Skip:  (page - 1) * limit,
	}
}

type Meta struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	NextPage    *int  `json:"nextPage"`
	PrevPage    *int  `json:"prevPage"`
}

func BuildMeta(p Pagination, total int64) Meta {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))

	meta := Meta{
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       p.Limit,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1,
	}
	if meta.HasNextPage {
		next := p.Page + 1
		meta.NextPage = &next
	}
	if meta.HasPrevPage {
		prev := p.Page - 1
		meta.PrevPage = &prev
	}
	return meta
}
