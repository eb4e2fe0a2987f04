package gateway

const (
	watchURLPrefix    = "https://www.youtube.com/watch?v="
	defaultMaxResults = 5
)

type SearchRequest struct {
	Query      string
	MaxResults int
}

type VideoResult struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"` // default-size thumbnail
	URL         string `json:"url"`       // watch URL derived from VideoID
}

type SearchResponse struct {
	Results []VideoResult `json:"results"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details []any  `json:"details,omitempty"`
}
