package domain

// TaskPage is one page of a filtered task listing, with the pagination
// arithmetic already computed. It is what list reads return and what the
// list cache stores, so a cached page deserializes into exactly the shape
// a fresh query produces.
type TaskPage struct {
	Items    []*Task `json:"items"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
	Pages    int     `json:"pages"`
}
