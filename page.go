package docstore

// PageRequest selects one page of a query. Page is 1-based; values below 1
// are treated as the first page. A PageSize below 1 disables the limit.
type PageRequest struct {
	Page      int
	PageSize  int
	WithTotal bool
}

// NewPageRequest returns a request for page of pageSize rows, counting the
// total matches when withTotal is set.
func NewPageRequest(page, pageSize int, withTotal bool) PageRequest {
	return PageRequest{Page: page, PageSize: pageSize, WithTotal: withTotal}
}

// GetPage returns the 1-based page index.
func (p PageRequest) GetPage() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

// GetLimit returns the row limit, 0 meaning unlimited.
func (p PageRequest) GetLimit() int64 {
	if p.PageSize < 1 {
		return 0
	}
	return int64(p.PageSize)
}

func (p PageRequest) GetOffset() int64 {
	return int64(p.GetPage()-1) * p.GetLimit()
}
