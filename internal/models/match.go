package models

import "strings"

// SearchQuery is a free-text (title, artist) pair submitted for matching.
type SearchQuery struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// MatchCandidate is one catalog search result for a query, with its raw
// per-field similarity components.
type MatchCandidate struct {
	Track       Track   `json:"track"`
	TitleScore  float64 `json:"title_score"`
	ArtistScore float64 `json:"artist_score"`
	SourceIndex int     `json:"-"` // order as returned by the catalog, final tie-break
}

// Tier classifies the reliability of a scored match.
type Tier string

const (
	TierHigh   Tier = "HIGH"
	TierMedium Tier = "MEDIUM"
	TierLow    Tier = "LOW"
)

// Tier boundaries. Closed on the upper bound, open below it: a score of
// exactly 0.90 is HIGH, exactly 0.70 is MEDIUM.
const (
	HighThreshold   = 0.90
	MediumThreshold = 0.70
)

// TierFor classifies a confidence score.
func TierFor(score float64) Tier {
	switch {
	case score >= HighThreshold:
		return TierHigh
	case score >= MediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// ScoredMatch is a candidate plus its combined confidence and tier.
type ScoredMatch struct {
	Query      SearchQuery    `json:"query"`
	Candidate  MatchCandidate `json:"candidate"`
	Confidence float64        `json:"confidence"`
	Tier       Tier           `json:"tier"`
}

// SearchOutcome holds the full result of matching one query. A zero-result
// search is an expected outcome (NoMatch), never an error; Err is set only
// when the catalog call itself failed.
type SearchOutcome struct {
	Query   SearchQuery   `json:"query"`
	Matches []ScoredMatch `json:"matches,omitempty"` // best first
	NoMatch bool          `json:"no_match,omitempty"`
	Err     error         `json:"-"`
}

// Best returns the top-ranked match, or nil when there is none.
func (o SearchOutcome) Best() *ScoredMatch {
	if len(o.Matches) == 0 {
		return nil
	}
	return &o.Matches[0]
}

// Review decisions recognized by the import side of the review workflow.
const (
	DecisionAccept        = "accept"
	DecisionReject        = "reject"
	DecisionReplacePrefix = "replace:"
)

// ReviewRow is one uncertain match exported for human correction.
type ReviewRow struct {
	Title         string  `json:"title"`  // original query title
	Artist        string  `json:"artist"` // original query artist
	MatchedID     string  `json:"matched_id"`
	MatchedTitle  string  `json:"matched_title"`
	MatchedArtist string  `json:"matched_artist"`
	Confidence    float64 `json:"confidence"`
	Tier          Tier    `json:"tier"`
	Decision      string  `json:"decision"` // empty until reviewed
}

// ReplacementID returns the catalog ID carried by a replace decision,
// or "" when the decision is not a replacement.
func (r ReviewRow) ReplacementID() string {
	if strings.HasPrefix(r.Decision, DecisionReplacePrefix) {
		return strings.TrimPrefix(r.Decision, DecisionReplacePrefix)
	}
	return ""
}

// ReviewBatch is the collection of rows sent out for review and read
// back with decisions populated.
type ReviewBatch struct {
	Rows []ReviewRow `json:"rows"`
}
