package models

// ScoredResult is a single ranked search hit, the final output to callers.
type ScoredResult struct {
	Filename string   `json:"filename"`
	FileType FileType `json:"filetype"`
	Content  string   `json:"content"`
	Location string   `json:"location"`
	Title    string   `json:"title"`
	Score    float64  `json:"score"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Results   []ScoredResult `json:"results"`
	Total     int            `json:"total"`
	QueryTime int64          `json:"query_time_ms"`
	Query     string         `json:"query"`
	FileType  FileType       `json:"filetype"`
}
