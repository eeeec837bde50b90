package listing

// Page carries one page of results together with the filtered total and
// the neighbouring page numbers. Count always reflects the filtered set,
// not the full collection.
type Page struct {
	Count    int64       `json:"count"`
	Next     *int        `json:"next"`
	Previous *int        `json:"previous"`
	Results  interface{} `json:"results"`
}

// NewPage assembles the page envelope for a 1-indexed page number.
func NewPage(results interface{}, total int64, page int) Page {
	if page < 1 {
		page = 1
	}
	p := Page{Count: total, Results: results}
	totalPages := int((total + PageSize - 1) / PageSize)
	if page < totalPages {
		next := page + 1
		p.Next = &next
	}
	if page > 1 {
		prev := page - 1
		p.Previous = &prev
	}
	return p
}

// TotalPages returns how many pages the filtered total spans.
func TotalPages(total int64) int {
	return int((total + PageSize - 1) / PageSize)
}
