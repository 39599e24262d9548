package dto

// FetchResult is a completed HTTP exchange with a feed origin
type FetchResult struct {
	StatusCode int
	// Status is the status line without the protocol, e.g. "404 Not Found"
	Status string
	Body   []byte
}

// IsSuccess reports a 2xx response
func (r *FetchResult) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// PollOutcome classifies the result of polling one feed
type PollOutcome string

const (
	PollOutcomeUpdated    PollOutcome = "updated"
	PollOutcomeHTTPError  PollOutcome = "http_error"
	PollOutcomeFetchError PollOutcome = "fetch_error"
	PollOutcomeParseError PollOutcome = "parse_error"
	PollOutcomeStoreError PollOutcome = "store_error"
	PollOutcomeCancelled  PollOutcome = "cancelled"
)

// FeedPollResult is the outcome of polling one feed
type FeedPollResult struct {
	FeedID   uint
	URL      string
	Outcome  PollOutcome
	Inserted int
	Err      error
}

// PollReport summarises one polling cycle
type PollReport struct {
	Feeds         int
	Failed        int
	ItemsInserted int
	Results       []FeedPollResult
}

// ItemsIngestedEvent is published after new items of a feed are stored
type ItemsIngestedEvent struct {
	FeedID    uint   `json:"feed_id"`
	FeedURL   string `json:"feed_url"`
	FeedTitle string `json:"feed_title"`
	Inserted  int    `json:"inserted"`
	Timestamp int64  `json:"timestamp"`
}
