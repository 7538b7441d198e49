package models

// UserCount is a message or word count attributed to one user
type UserCount struct {
	UserID int64 `json:"user_id"`
	Count  int   `json:"count"`
}

// RankedUser is a UserCount with the user's display name resolved
type RankedUser struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
}

// ChatSummary represents overall activity statistics of a chat
type ChatSummary struct {
	DistinctUsers int `json:"distinct_users"`
	TotalMessages int `json:"total_messages"`
}

// ChatRef identifies a chat by id and last-known title
type ChatRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// ArchivedText is one lower-cased message text kept for word searches
type ArchivedText struct {
	UserID int64
	Text   string
}

// WordFilter selects which tokens a word frequency query counts
type WordFilter struct {
	Kind  WordFilterKind
	Value string // normalized word or tag; ignored for FilterNone
}

// WordFilterKind enumerates word frequency filters
type WordFilterKind int

const (
	FilterNone WordFilterKind = iota
	FilterExactWord
	FilterExactTag
)

// String returns string representation of WordFilterKind
func (k WordFilterKind) String() string {
	switch k {
	case FilterExactWord:
		return "exact_word"
	case FilterExactTag:
		return "exact_tag"
	default:
		return "none"
	}
}

// WordFrequency represents the result of a word or tag search
type WordFrequency struct {
	Users []UserCount
	Total int
}
