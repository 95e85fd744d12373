package headlines

const (
	msgNoNews   = "No news available"
	msgFallback = "An error occurred"
)

// EmptyResultError reports a successful fetch that returned no headlines.
type EmptyResultError struct{}

func (*EmptyResultError) Error() string { return msgNoNews }
