package common

// PageResponse is the paginated list envelope: {count, next, previous, results}.
type PageResponse struct {
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// NewPageResponse pages items in memory. page starts at 1; a non-positive size means one page.
func NewPageResponse[T any](items []T, page, size int, pageURL func(page int) string) *PageResponse {
	total := len(items)
	if size <= 0 {
		size = max(total, 1)
	}
	if page <= 0 {
		page = 1
	}
	start := min((page-1)*size, total)
	end := min(start+size, total)

	resp := &PageResponse{Count: total, Results: items[start:end]}
	if end < total {
		next := pageURL(page + 1)
		resp.Next = &next
	}
	if page > 1 {
		prev := pageURL(page - 1)
		resp.Previous = &prev
	}
	return resp
}
