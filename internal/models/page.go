package models

// PageInfo carries cursor-pagination metadata in list responses. An empty
// NextCursor means the final page has been reached.
type PageInfo struct {
	PageSize   int    `json:"page_size"`
	NextCursor string `json:"next_cursor,omitempty"`
}
