package similarity

import (
	"math"
	"strings"

	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/domain"
	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/extractor"
)

const (
	// minLengthRatio guards against comparing wildly different-sized blobs.
	minLengthRatio = 0.3

	// semanticWindow bounds the text fed to the line diff.
	semanticWindow = 5000

	// semanticEarlyExit skips the syntactic signal when the diff already
	// rules the pair out.
	semanticEarlyExit = 0.3

	// dominantSignal is the level at which a single signal names the result.
	dominantSignal = 0.8

	maxTokens    = 1000
	minTokenLen  = 3
	maxTokenLen  = 49
	weightStruct = 0.5
	weightSem    = 0.3
	weightSyn    = 0.2
)

// Scorer computes a composite similarity score from three independent
// signals: structural hash equality, line-level diff and token-set overlap.
// Pure and deterministic; safe to run in parallel across pairs.
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate compares two text blobs. Signals run in cost order so cheap,
// discriminating checks can short-circuit the expensive ones.
func (s *Scorer) Calculate(a, b string) domain.SimilarityResult {
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return domain.SimilarityResult{Score: 0, SignalType: domain.SignalStructural}
	}

	shorter, longer := la, lb
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	if float64(shorter)/float64(longer) < minLengthRatio {
		return domain.SimilarityResult{Score: 0, SignalType: domain.SignalStructural}
	}

	if extractor.HashContent(a) == extractor.HashContent(b) {
		return domain.SimilarityResult{Score: 1.0, SignalType: domain.SignalStructural}
	}

	semantic := lineDiffRatio(truncate(a, semanticWindow), truncate(b, semanticWindow))
	if semantic < semanticEarlyExit {
		return domain.SimilarityResult{
			Score:      round3(weightSem * semantic),
			SignalType: domain.SignalSemantic,
		}
	}

	syntactic := jaccard(tokenize(a), tokenize(b))

	score := round3(weightSem*semantic + weightSyn*syntactic)
	return domain.SimilarityResult{
		Score:      score,
		SignalType: dominant(semantic, syntactic),
	}
}

func dominant(semantic, syntactic float64) domain.SignalType {
	if semantic > dominantSignal {
		return domain.SignalSemantic
	}
	if syntactic > dominantSignal {
		return domain.SignalSyntactic
	}
	if syntactic > semantic {
		return domain.SignalSyntactic
	}
	return domain.SignalSemantic
}

// lineDiffRatio returns 1 - changedLines/totalLines over an LCS line diff.
func lineDiffRatio(a, b string) float64 {
	linesA := strings.Split(a, "\n")
	linesB := strings.Split(b, "\n")

	common := lcsLines(linesA, linesB)
	total := len(linesA) + len(linesB)
	if total == 0 {
		return 0
	}

	changed := total - 2*common
	ratio := 1 - float64(changed)/float64(total)
	if ratio < 0 {
		return 0
	}
	return ratio
}

// lcsLines is a straightforward dynamic-programming longest common
// subsequence over lines. Inputs are already length-bounded by the caller.
func lcsLines(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// tokenize lowercases, strips punctuation and returns the token set, dropping
// very short and very long tokens and capping total count.
func tokenize(text string) map[string]struct{} {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte(' ')
		}
	}

	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(sb.String()) {
		if len(tok) < minTokenLen || len(tok) > maxTokenLen {
			continue
		}
		tokens[tok] = struct{}{}
		if len(tokens) >= maxTokens {
			break
		}
	}
	return tokens
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
