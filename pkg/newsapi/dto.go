package newsapi

// Source identifies the publisher of an upstream article.
type Source struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

// Article is a headline record as returned by the upstream API.
type Article struct {
	Source      Source  `json:"source"`
	Author      *string `json:"author"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	URLToImage  *string `json:"urlToImage"`
	PublishedAt string  `json:"publishedAt"`
	Content     *string `json:"content"`
}

// Envelope is the top-level top-headlines response.
type Envelope struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`

	// Populated by the upstream on status "error".
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// StatusOK is the envelope status of a successful response.
const StatusOK = "ok"
