package grouping

import (
	"fmt"
	"log"
	"sort"

	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/domain"
	"github.com/google/uuid"
)

const (
	defaultFuzzyMinLength      = 50
	defaultFuzzyMaxLength      = 1000
	defaultMaxFuzzyComparisons = 20

	// smallGroupMax is the candidate count up to which all pairs are
	// compared; larger sets are sampled at a stride.
	smallGroupMax = 10
)

// PairScorer computes the similarity of two text blobs.
type PairScorer interface {
	Calculate(a, b string) domain.SimilarityResult
}

// Grouper clusters patterns into duplicate groups: first by exact content
// hash, then by bounded fuzzy comparison within same-type candidates.
// Stateless per call; the input slice is never mutated.
type Grouper struct {
	scorer              PairScorer
	threshold           float64
	fuzzyMinLength      int
	fuzzyMaxLength      int
	maxFuzzyComparisons int
}

// Option configures a Grouper.
type Option func(*Grouper)

// WithFuzzyLengthBounds restricts fuzzy candidates to signatures within
// [min, max] chars.
func WithFuzzyLengthBounds(min, max int) Option {
	return func(g *Grouper) {
		if min > 0 {
			g.fuzzyMinLength = min
		}
		if max > 0 {
			g.fuzzyMaxLength = max
		}
	}
}

// WithMaxFuzzyComparisons caps pairwise comparisons per candidate set.
func WithMaxFuzzyComparisons(n int) Option {
	return func(g *Grouper) {
		if n > 0 {
			g.maxFuzzyComparisons = n
		}
	}
}

func New(scorer PairScorer, threshold float64, opts ...Option) *Grouper {
	g := &Grouper{
		scorer:              scorer,
		threshold:           threshold,
		fuzzyMinLength:      defaultFuzzyMinLength,
		fuzzyMaxLength:      defaultFuzzyMaxLength,
		maxFuzzyComparisons: defaultMaxFuzzyComparisons,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FindDuplicates returns exact and fuzzy duplicate groups. Every group has at
// least two members sharing a pattern type.
func (g *Grouper) FindDuplicates(patterns []domain.Pattern) []domain.DuplicateGroup {
	var groups []domain.DuplicateGroup

	buckets := make(map[string][]domain.Pattern)
	var order []string
	for _, p := range patterns {
		// Normalized-empty content hashes to "" and is not groupable.
		if p.ContentHash == "" {
			continue
		}
		if _, seen := buckets[p.ContentHash]; !seen {
			order = append(order, p.ContentHash)
		}
		buckets[p.ContentHash] = append(buckets[p.ContentHash], p)
	}

	for _, hash := range order {
		members := buckets[hash]
		if len(members) < 2 {
			continue
		}
		groups = append(groups, domain.DuplicateGroup{
			ID:              uuid.New().String(),
			PatternType:     members[0].Type,
			Patterns:        members,
			SimilarityScore: 1.0,
			Description: fmt.Sprintf("Exact duplicate %s found in %d locations",
				members[0].Type, len(members)),
		})
	}

	groups = append(groups, g.fuzzyGroups(buckets, order)...)
	return groups
}

// fuzzyGroups compares one representative per hash bucket so exact matches
// are not re-reported. Only function patterns with mid-sized signatures are
// worth the cost.
func (g *Grouper) fuzzyGroups(buckets map[string][]domain.Pattern, order []string) []domain.DuplicateGroup {
	var candidates []domain.Pattern
	for _, hash := range order {
		p := buckets[hash][0]
		if p.Type != domain.PatternFunction {
			continue
		}
		if len(p.Signature) < g.fuzzyMinLength || len(p.Signature) > g.fuzzyMaxLength {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) < 2 {
		return nil
	}

	var groups []domain.DuplicateGroup
	for _, pair := range samplePairs(len(candidates), smallGroupMax, g.maxFuzzyComparisons) {
		a, b := candidates[pair[0]], candidates[pair[1]]

		result := g.score(a.Signature, b.Signature)
		if result.Score < g.threshold || result.Score >= 1.0 {
			continue
		}

		groups = append(groups, domain.DuplicateGroup{
			ID:              uuid.New().String(),
			PatternType:     a.Type,
			Patterns:        []domain.Pattern{a, b},
			SimilarityScore: result.Score,
			Description: fmt.Sprintf("%.0f%% similar %s patterns (%s signal)",
				result.Score*100, a.Type, result.SignalType),
		})
	}
	return groups
}

// score treats a failed comparison as similarity zero so one bad pair never
// aborts grouping.
func (g *Grouper) score(a, b string) (result domain.SimilarityResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[warn] operation=fuzzy_score recovered=%v", r)
			result = domain.SimilarityResult{Score: 0, SignalType: domain.SignalStructural}
		}
	}()
	return g.scorer.Calculate(a, b)
}

// samplePairs enumerates index pairs for n candidates. Small sets get all
// pairs; larger sets are strided so at most maxComparisons run while
// coverage still spans the whole set.
func samplePairs(n, allPairsMax, maxComparisons int) [][2]int {
	var pairs [][2]int

	if n <= allPairsMax {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				pairs = append(pairs, [2]int{i, j})
			}
		}
		return pairs
	}

	total := n * (n - 1) / 2
	stride := total / maxComparisons
	if stride < 1 {
		stride = 1
	}

	idx := 0
	for i := 0; i < n && len(pairs) < maxComparisons; i++ {
		for j := i + 1; j < n && len(pairs) < maxComparisons; j++ {
			if idx%stride == 0 {
				pairs = append(pairs, [2]int{i, j})
			}
			idx++
		}
	}
	return pairs
}

// SortGroups orders groups by score descending, then by member count, so
// output is stable for callers and tests.
func SortGroups(groups []domain.DuplicateGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].SimilarityScore != groups[j].SimilarityScore {
			return groups[i].SimilarityScore > groups[j].SimilarityScore
		}
		return len(groups[i].Patterns) > len(groups[j].Patterns)
	})
}
