package domain

// Domain contains core models shared by the headlines pipeline.

// Article is a normalized headline. Optional upstream fields are empty when absent.
type Article struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
	SourceName  string `json:"source_name"`
}
