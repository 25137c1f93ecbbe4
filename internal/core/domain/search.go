package domain

// SearchMode selects the retrieval method for a query.
type SearchMode string

const (
	// SearchModeVector embeds the query and searches the nearest-neighbor index.
	SearchModeVector SearchMode = "vector"

	// SearchModeKeyword runs a full-text match over the chunk contents.
	SearchModeKeyword SearchMode = "keyword"
)

// IsValid returns true if the search mode is recognised.
func (m SearchMode) IsValid() bool {
	return m == SearchModeVector || m == SearchModeKeyword
}

// String returns the string representation.
func (m SearchMode) String() string {
	return string(m)
}

// DefaultSearchLimit is the number of results returned when no limit is given.
const DefaultSearchLimit = 5

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results (k).
	Limit int

	// Mode selects vector or keyword retrieval. Empty means vector.
	Mode SearchMode
}

// SearchResult is a single search hit.
type SearchResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Distance is the squared L2 distance for vector hits (lower is closer).
	Distance float64

	// Score is the relevance score for keyword hits (higher is better).
	Score float64
}
