package filtersort

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// shardThreshold is the item count below which sharding overhead would
// outweigh the benefit; smaller requests just run inline on FilterAndSort.
const shardThreshold = 2000

// ParallelFilterAndSort is the SPEC_FULL §3.5 worker-pool enrichment: for
// large candidate sets it shards the scoring pass across GOMAXPROCS
// goroutines with errgroup, then merges the per-shard ranked results with a
// single deterministic sort so the observable result is identical to
// FilterAndSort - only the scoring work is parallelised, not the ranking.
func ParallelFilterAndSort[T any](ctx context.Context, query string, items []T, maxCandidates int, shards int, sortProperty func(T) (string, error)) ([]T, error) {
	if shards <= 1 || len(items) < shardThreshold {
		return FilterAndSort(query, items, maxCandidates, sortProperty)
	}

	word := NewWord(query)
	if word.IsEmpty() {
		return FilterAndSort(query, items, maxCandidates, sortProperty)
	}

	shardSize := (len(items) + shards - 1) / shards
	perShard := make([][]ranked[T], shards)

	g, _ := errgroup.WithContext(ctx)
	for s := 0; s < shards; s++ {
		s := s
		start := s * shardSize
		end := start + shardSize
		if start >= len(items) {
			continue
		}
		if end > len(items) {
			end = len(items)
		}

		g.Go(func() error {
			perShard[s] = scoreShard(word, items, start, end, sortProperty)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []ranked[T]
	for _, shard := range perShard {
		merged = append(merged, shard...)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].s.less(merged[j].s)
	})

	if maxCandidates > 0 && maxCandidates < len(merged) {
		merged = merged[:maxCandidates]
	}

	out := make([]T, len(merged))
	for i, r := range merged {
		out[i] = r.item
	}
	return out, nil
}

func scoreShard[T any](word *Word, items []T, start, end int, sortProperty func(T) (string, error)) []ranked[T] {
	var out []ranked[T]
	for i := start; i < end; i++ {
		text, err := sortProperty(items[i])
		if err != nil {
			continue
		}

		c := Repo.Get(text)
		if c.IsEmpty() || !c.ContainsAll(word.Counts) {
			continue
		}

		mr := matchWord(word, c)
		if !mr.matched {
			continue
		}

		out = append(out, ranked[T]{
			item: items[i],
			s: scoreTuple{
				isWordPrefix:      mr.isWordPrefix,
				isCandidatePrefix: mr.isCandidatePrefix,
				wordBoundaryCount: mr.wordBoundaryCount,
				caseMatches:       mr.caseMatches,
				ratio:             float64(mr.matchedLen) / float64(c.Len()),
				index:             i,
			},
		})
	}
	return out
}
