package tasks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/agext/levenshtein"
	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/shared"
)

// Confidence weights. Title carries more signal than artist: covers and
// compilations reuse titles less often than artists reuse names.
const (
	titleWeight  = 0.6
	artistWeight = 0.4
)

// Search issues a catalog search for the query and scores every
// candidate, best first. When the structured query returns nothing the
// search broadens once to title-only before reporting a NoMatch
// outcome; zero results are an expected outcome for noisy input, never
// an error.
func (e *LibraryEngine) Search(ctx context.Context, query models.SearchQuery) (*models.SearchOutcome, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrInvalidInput)
	}

	outcome := &models.SearchOutcome{Query: query}

	candidates, err := e.catalog.SearchTracks(ctx, structuredQuery(query), e.resultLimit)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 && query.Artist != "" {
		e.logger.Debug("no candidates, broadening to title-only", "title", query.Title)
		candidates, err = e.catalog.SearchTracks(ctx, titleOnlyQuery(query), e.resultLimit)
		if err != nil {
			return nil, err
		}
	}

	if len(candidates) == 0 {
		outcome.NoMatch = true
		return outcome, nil
	}

	outcome.Matches = scoreCandidates(query, candidates)
	return outcome, nil
}

// BatchSearch applies Search across many queries on a bounded worker
// pool. Each query's outcome is independent: a catalog failure on one
// query is recorded in its outcome and does not abort the rest.
// Identical queries within one run are resolved once and shared.
func (e *LibraryEngine) BatchSearch(ctx context.Context, queries []models.SearchQuery, progress chan<- ProgressUpdate) ([]models.SearchOutcome, error) {
	outcomes := make([]models.SearchOutcome, len(queries))
	if len(queries) == 0 {
		return outcomes, nil
	}

	// Memo shared across workers so repeated identical queries inside a
	// single run cost one catalog round-trip, even when workers race on
	// the same key.
	memo := make(map[string]*memoEntry)
	var memoMu sync.Mutex

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = e.searchMemoized(ctx, queries[i], memo, &memoMu)
				e.sendProgress(progress, searchQueryUpdate(i+1, len(queries), queries[i]))
			}
		}()
	}

	for i := range queries {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return outcomes, ctx.Err()
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return outcomes, nil
}

// memoEntry resolves one normalized query exactly once across workers.
type memoEntry struct {
	once    sync.Once
	outcome *models.SearchOutcome
	err     error
}

func (e *LibraryEngine) searchMemoized(ctx context.Context, query models.SearchQuery, memo map[string]*memoEntry, mu *sync.Mutex) models.SearchOutcome {
	key := normalizeText(query.Title) + "\x00" + normalizeText(query.Artist)

	mu.Lock()
	entry, ok := memo[key]
	if !ok {
		entry = &memoEntry{}
		memo[key] = entry
	}
	mu.Unlock()

	entry.once.Do(func() {
		entry.outcome, entry.err = e.Search(ctx, query)
	})

	if entry.err != nil {
		return models.SearchOutcome{Query: query, Err: entry.err}
	}

	out := *entry.outcome
	out.Query = query
	return out
}

// scoreCandidates computes confidence for every candidate and orders
// them best first: score descending, then catalog popularity, then the
// order the service returned them.
func scoreCandidates(query models.SearchQuery, candidates []models.Track) []models.ScoredMatch {
	matches := make([]models.ScoredMatch, 0, len(candidates))

	for i, track := range candidates {
		titleScore := similarity(query.Title, track.Title)
		artistScore := bestArtistSimilarity(query.Artist, track)
		confidence := titleWeight*titleScore + artistWeight*artistScore

		matches = append(matches, models.ScoredMatch{
			Query: query,
			Candidate: models.MatchCandidate{
				Track:       track,
				TitleScore:  titleScore,
				ArtistScore: artistScore,
				SourceIndex: i,
			},
			Confidence: confidence,
			Tier:       models.TierFor(confidence),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		if matches[i].Candidate.Track.Popularity != matches[j].Candidate.Track.Popularity {
			return matches[i].Candidate.Track.Popularity > matches[j].Candidate.Track.Popularity
		}
		return matches[i].Candidate.SourceIndex < matches[j].Candidate.SourceIndex
	})

	return matches
}

// bestArtistSimilarity compares the requested artist against every
// credited artist and keeps the best score; a query without an artist
// neither rewards nor penalizes candidates.
func bestArtistSimilarity(artist string, track models.Track) float64 {
	if artist == "" {
		return 1
	}

	best := similarity(artist, track.Artist)
	for _, credited := range track.Artists {
		if s := similarity(artist, credited.Name); s > best {
			best = s
		}
	}
	return best
}

// similarity blends character-level Levenshtein similarity with exact
// token overlap, both over normalized text. The token component keeps a
// single-character miss inside a word ("dont" vs "don't") from scoring
// as near-identical.
func similarity(a, b string) float64 {
	na, nb := normalizeText(a), normalizeText(b)
	if na == "" && nb == "" {
		return 1
	}
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	lev := levenshtein.Similarity(na, nb, nil)
	return (lev + tokenOverlap(na, nb)) / 2
}

// tokenOverlap is the Jaccard index over whitespace-separated tokens.
func tokenOverlap(a, b string) float64 {
	ta := strings.Fields(a)
	tb := strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		set[t] = struct{}{}
	}

	common := 0
	union := len(set)
	seen := make(map[string]struct{}, len(tb))
	for _, t := range tb {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			common++
		} else {
			union++
		}
	}

	return float64(common) / float64(union)
}

// normalizeText lowercases, folds curly quotes to apostrophes, strips
// punctuation other than intraword apostrophes, and collapses runs of
// whitespace. Apostrophes are kept so "dont" and "don't" remain
// distinguishable for scoring.
func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := true
	for _, r := range strings.ToLower(s) {
		if r == '‘' || r == '’' {
			r = '\''
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '\'', r > 127:
			// keep
		default:
			r = ' '
		}

		if r == ' ' {
			if !lastSpace {
				b.WriteRune(' ')
			}
			lastSpace = true
			continue
		}
		lastSpace = false
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}

// structuredQuery builds the field-scoped search string the catalog
// understands, e.g. track:"Time" artist:"Pink Floyd".
func structuredQuery(q models.SearchQuery) string {
	if q.Artist == "" {
		return titleOnlyQuery(q)
	}
	return fmt.Sprintf("track:%q artist:%q", q.Title, q.Artist)
}

func titleOnlyQuery(q models.SearchQuery) string {
	return fmt.Sprintf("track:%q", q.Title)
}
