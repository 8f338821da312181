package pagination

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Pagination is offset-based paging as exposed to clients. Zero values are
// normalized by Clamp.
type Pagination struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"limit,default=50"`
}

// Clamp normalizes the page to >= 1 and the page size into [1, MaxPageSize].
func (p Pagination) Clamp() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the clamped page.
func (p Pagination) Offset() int {
	clamped := p.Clamp()
	return (clamped.Page - 1) * clamped.PageSize
}

// Limit returns the clamped page size.
func (p Pagination) Limit() int {
	return p.Clamp().PageSize
}
