package shared

// Filter holds list query options. Page is 1-based; Filters holds exact
// column matches understood by the repository.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}
