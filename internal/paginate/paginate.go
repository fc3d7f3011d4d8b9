// Package paginate slices ordered row sets into pages with clamped
// navigation, and tracks dataset identity so the page index resets
// when the underlying rows change.
package paginate

// Page is one deterministic view into an ordered row set.
type Page[T any] struct {
	Rows       []T `json:"rows"`
	Current    int `json:"current_page"`
	TotalPages int `json:"total_pages"`
	RangeStart int `json:"range_start"`
	RangeEnd   int `json:"range_end"` // exclusive

	HasPrev bool `json:"has_prev"`
	HasNext bool `json:"has_next"`
}

// Paginate computes the page at requested (0-based), clamping requests
// beyond range instead of erroring. pageSize below 1 is treated as 1.
// Rows is sliced, not copied; callers must not mutate the result.
func Paginate[T any](rows []T, pageSize, requested int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	n := len(rows)

	totalPages := (n + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	current := requested
	if current < 0 {
		current = 0
	}
	if current > totalPages-1 {
		current = totalPages - 1
	}

	start := current * pageSize
	end := start + pageSize
	if end > n {
		end = n
	}
	if start > n {
		start = n
	}

	return Page[T]{
		Rows:       rows[start:end],
		Current:    current,
		TotalPages: totalPages,
		RangeStart: start,
		RangeEnd:   end,
		HasPrev:    current > 0,
		HasNext:    current < totalPages-1,
	}
}

// Pager remembers the requested page across recomputations and resets
// it to the first page whenever the identity of the underlying data
// set changes (new month key, or a different row count after refetch).
// The reset is a hard invariant: a stale index on a shorter data set
// must not silently clamp to a misleading last page.
type Pager struct {
	key   string
	count int
	page  int
}

// Observe records the current dataset identity, resetting the page
// when it differs from the last observed one. It returns the page to
// request next.
func (p *Pager) Observe(key string, count int) int {
	if key != p.key || count != p.count {
		p.key = key
		p.count = count
		p.page = 0
	}
	return p.page
}

// Request sets the desired page for the current dataset.
func (p *Pager) Request(page int) {
	if page < 0 {
		page = 0
	}
	p.page = page
}

// Page returns the currently requested page index.
func (p *Pager) Page() int { return p.page }
