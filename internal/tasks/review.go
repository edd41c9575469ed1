package tasks

import (
	"strings"

	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/shared"
)

// Review is a pure export/import pair over explicit data: the
// interactive editing step happens entirely outside the engine, in
// whatever surface the caller puts in front of a human.

// ExportForReview selects the best match of every outcome that did not
// land in the HIGH tier and serializes it as a reviewable row with an
// empty decision. Queries with no match at all are included so the
// reviewer can supply a replacement ID by hand.
func ExportForReview(outcomes []models.SearchOutcome) models.ReviewBatch {
	batch := models.ReviewBatch{Rows: []models.ReviewRow{}}

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			continue
		}

		best := outcome.Best()
		if best != nil && best.Tier == models.TierHigh {
			continue
		}

		row := models.ReviewRow{
			Title:  outcome.Query.Title,
			Artist: outcome.Query.Artist,
		}
		if best != nil {
			row.MatchedID = best.Candidate.Track.ID
			row.MatchedTitle = best.Candidate.Track.Title
			row.MatchedArtist = best.Candidate.Track.Artist
			row.Confidence = best.Confidence
			row.Tier = best.Tier
		}

		batch.Rows = append(batch.Rows, row)
	}

	return batch
}

// ImportDecisions validates every row of a reviewed batch and resolves
// the accepted track IDs in row order. A single malformed decision
// fails the whole import with a [shared.ValidationError] naming the
// offending row; nothing is applied from a batch that does not
// validate, so a guess is never silently committed.
func ImportDecisions(batch models.ReviewBatch) ([]string, error) {
	for i, row := range batch.Rows {
		if err := validateDecision(i, row); err != nil {
			return nil, err
		}
	}

	var resolved []string
	for _, row := range batch.Rows {
		switch {
		case row.Decision == models.DecisionAccept:
			resolved = append(resolved, row.MatchedID)
		case strings.HasPrefix(row.Decision, models.DecisionReplacePrefix):
			resolved = append(resolved, row.ReplacementID())
		case row.Decision == models.DecisionReject:
			// dropped
		}
	}

	return resolved, nil
}

func validateDecision(row int, r models.ReviewRow) error {
	invalid := func(value string) error {
		return &shared.ValidationError{
			Row:      row,
			Field:    "decision",
			Value:    value,
			Expected: "accept, reject, or replace:<id>",
		}
	}

	switch {
	case r.Decision == models.DecisionAccept:
		if r.MatchedID == "" {
			return &shared.ValidationError{
				Row:      row,
				Field:    "matched_id",
				Value:    "",
				Expected: "a candidate to accept",
			}
		}
		return nil
	case r.Decision == models.DecisionReject:
		return nil
	case strings.HasPrefix(r.Decision, models.DecisionReplacePrefix):
		if r.ReplacementID() == "" {
			return invalid(r.Decision)
		}
		return nil
	default:
		return invalid(r.Decision)
	}
}
