package entities

import "go.mongodb.org/mongo-driver/bson/primitive"

type SortBy string

const (
	SortByNewest  SortBy = "newest"
	SortByPopular SortBy = "popular"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PaginationOpts selects a page of a larger ordered result set. An
// empty cursor starts from the beginning of the scan.
type PaginationOpts struct {
	Cursor   string `json:"cursor"`
	NumItems int    `json:"num_items"`
}

// Limit clamps the requested page size to [1, maxPageSize], defaulting
// when unset.
func (p PaginationOpts) Limit() int64 {
	n := p.NumItems
	if n <= 0 {
		n = defaultPageSize
	}
	if n > maxPageSize {
		n = maxPageSize
	}
	return int64(n)
}

// AgentFilter narrows a catalog listing. Category takes precedence over
// AuthorID when both are set.
type AgentFilter struct {
	Category string
	AuthorID *primitive.ObjectID
	SortBy   SortBy
}

// AgentPage is one bounded slice of a listing. A page may hold fewer
// agents than requested even when IsDone is false: visibility filtering
// runs after the page is fetched from the store.
type AgentPage struct {
	Agents         []*Agent `json:"agents"`
	ContinueCursor string   `json:"continue_cursor"`
	IsDone         bool     `json:"is_done"`
}

// EmptyAgentPage is a completed page with no results.
func EmptyAgentPage() *AgentPage {
	return &AgentPage{Agents: []*Agent{}, IsDone: true}
}
