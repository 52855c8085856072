package search

// Plan is the store query derived from a search request.
type Plan struct {
	AreaID *uint
	// Exclude is empty when no house should be filtered out; it must not be
	// rendered as an empty NOT IN.
	Exclude  []uint
	Order    OrderRule
	Page     int
	PageSize int
}

// BuildPlan combines a validated query with the houses to exclude.
func BuildPlan(q Query, exclude []uint, pageSize int) Plan {
	if pageSize < 1 {
		pageSize = 1
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	return Plan{
		AreaID:   q.AreaID,
		Exclude:  exclude,
		Order:    q.Sort.Rule(),
		Page:     page,
		PageSize: pageSize,
	}
}

// Offset is the number of rows skipped before the requested page.
func (p Plan) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages is the number of pages needed for total rows.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize < 1 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
