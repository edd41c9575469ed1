// package formatter serializes review batches and snapshots for the
// round-trip with external editors: CSV out, CSV back in, JSON for
// everything machine-facing.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/shared"
)

// reviewHeaders is the column order of the review CSV. ParseReviewCSV
// requires the same header row back, so edits in a spreadsheet survive
// the round-trip unchanged.
var reviewHeaders = []string{
	"title", "artist", "matched_id", "matched_title", "matched_artist",
	"confidence", "tier", "decision",
}

// WriteReviewCSV serializes a review batch to CSV. The decision column
// is written as-is, normally empty on export.
func WriteReviewCSV(batch models.ReviewBatch) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(reviewHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range batch.Rows {
		record := []string{
			row.Title,
			row.Artist,
			row.MatchedID,
			row.MatchedTitle,
			row.MatchedArtist,
			strconv.FormatFloat(row.Confidence, 'f', 4, 64),
			string(row.Tier),
			row.Decision,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ParseReviewCSV reads a reviewed batch back. It validates the header
// row and field shapes only; decision semantics are checked by the
// import step so that a malformed batch fails in exactly one place.
func ParseReviewCSV(r io.Reader) (models.ReviewBatch, error) {
	batch := models.ReviewBatch{Rows: []models.ReviewRow{}}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(reviewHeaders)

	header, err := reader.Read()
	if err == io.EOF {
		return batch, fmt.Errorf("%w: empty review file", shared.ErrInvalidInput)
	}
	if err != nil {
		return batch, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, name := range reviewHeaders {
		if !strings.EqualFold(strings.TrimSpace(header[i]), name) {
			return batch, &shared.ValidationError{
				Row:      0,
				Field:    "header",
				Value:    header[i],
				Expected: name,
			}
		}
	}

	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return batch, fmt.Errorf("failed to read CSV record: %w", err)
		}

		confidence := 0.0
		if record[5] != "" {
			confidence, err = strconv.ParseFloat(record[5], 64)
			if err != nil {
				return batch, &shared.ValidationError{
					Row:      line,
					Field:    "confidence",
					Value:    record[5],
					Expected: "a decimal in [0,1]",
				}
			}
		}

		batch.Rows = append(batch.Rows, models.ReviewRow{
			Title:         record[0],
			Artist:        record[1],
			MatchedID:     record[2],
			MatchedTitle:  record[3],
			MatchedArtist: record[4],
			Confidence:    confidence,
			Tier:          models.Tier(record[6]),
			Decision:      strings.TrimSpace(record[7]),
		})
	}

	return batch, nil
}

// WriteReviewFile writes the batch to path, defaulting to review.csv.
func WriteReviewFile(batch models.ReviewBatch, path string) (string, error) {
	if path == "" {
		path = "review.csv"
	}

	data, err := WriteReviewCSV(batch)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write review file: %w", err)
	}
	return path, nil
}

// ReadReviewFile parses a reviewed CSV from disk.
func ReadReviewFile(path string) (models.ReviewBatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.ReviewBatch{}, fmt.Errorf("failed to open review file: %w", err)
	}
	defer f.Close()
	return ParseReviewCSV(f)
}

// SnapshotJSON renders a library snapshot as indented JSON.
func SnapshotJSON(snapshot *models.LibrarySnapshot) ([]byte, error) {
	return shared.MarshalJSON(snapshot, true)
}

// SnapshotSummary renders a one-line human summary of a snapshot.
func SnapshotSummary(snapshot *models.LibrarySnapshot) string {
	state := "complete"
	if snapshot.Truncated {
		state = "truncated"
	}
	return fmt.Sprintf("%d %s (%s, fetched %s)",
		len(snapshot.Entities), snapshot.Kind, state,
		snapshot.FetchedAt.Format("2006-01-02 15:04:05"))
}
