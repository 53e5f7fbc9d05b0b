package extractor

import (
	"fmt"
	"log"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/domain"
)

const (
	defaultMaxFileBytes = 500 * 1024
	defaultMaxMatches   = 1000
	maxComplexity       = 50
)

var complexityRe = regexp.MustCompile(`\b(?:if|else|for|while|case|catch)\b|&&|\|\||\?`)

// Extractor turns one file's text into typed patterns. The lexical
// implementation below is regex-based; a parser-based extractor can be
// substituted behind the same contract.
type Extractor interface {
	ExtractPatterns(content, filePath string) []domain.Pattern
}

// Lexical extracts patterns with precompiled lexical signatures, one pass
// per pattern family.
type Lexical struct {
	signatures   []Signature
	maxFileBytes int
	maxMatches   int
}

// Option configures a Lexical extractor.
type Option func(*Lexical)

// WithMaxFileBytes sets the hard size ceiling above which files are skipped.
func WithMaxFileBytes(n int) Option {
	return func(l *Lexical) {
		if n > 0 {
			l.maxFileBytes = n
		}
	}
}

// WithMaxMatches caps how many matches a single signature may produce per file.
func WithMaxMatches(n int) Option {
	return func(l *Lexical) {
		if n > 0 {
			l.maxMatches = n
		}
	}
}

// WithSignatures replaces the registered signature set.
func WithSignatures(sigs []Signature) Option {
	return func(l *Lexical) {
		l.signatures = sigs
	}
}

func NewLexical(opts ...Option) *Lexical {
	l := &Lexical{
		signatures:   All(),
		maxFileBytes: defaultMaxFileBytes,
		maxMatches:   defaultMaxMatches,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ExtractPatterns returns the patterns found in content. Oversized files and
// extraction failures yield an empty list; neither aborts the caller's batch.
func (l *Lexical) ExtractPatterns(content, filePath string) (patterns []domain.Pattern) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[warn] operation=extract_patterns file=%s recovered=%v", filePath, r)
			patterns = nil
		}
	}()

	if len(content) > l.maxFileBytes {
		log.Printf("[info] operation=extract_patterns file=%s skipped=oversize bytes=%d", filePath, len(content))
		return nil
	}

	offsets := lineOffsets(content)

	for _, sig := range l.signatures {
		matches := sig.Expr.FindAllStringSubmatchIndex(content, l.maxMatches)
		for _, m := range matches {
			snippet := content[m[0]:m[1]]
			hash := HashContent(snippet)
			if hash == "" {
				continue
			}

			name := snippet
			if sig.NameGroup > 0 && 2*sig.NameGroup+1 < len(m) && m[2*sig.NameGroup] >= 0 {
				name = content[m[2*sig.NameGroup]:m[2*sig.NameGroup+1]]
			}

			signature := snippet
			if len(signature) > maxHashInput {
				signature = signature[:maxHashInput]
			}

			patterns = append(patterns, domain.Pattern{
				Type:        sig.Type,
				Name:        name,
				Signature:   signature,
				ContentHash: hash,
				Complexity:  complexity(snippet),
				LineCount:   strings.Count(snippet, "\n") + 1,
				FilePath:    filePath,
				StartLine:   lineAt(offsets, m[0]),
			})
		}
	}

	patterns = append(patterns, l.structurePattern(content, filePath))
	return patterns
}

// structurePattern summarizes the whole file so structural similarity is
// detectable even when no named signature matches.
func (l *Lexical) structurePattern(content, filePath string) domain.Pattern {
	ext := strings.ToLower(filepath.Ext(filePath))
	lines := strings.Count(content, "\n") + 1
	signature := fmt.Sprintf("ext:%s lines:%d chars:%d", ext, lines, len(content))

	return domain.Pattern{
		Type:        domain.PatternStructure,
		Name:        filepath.Base(filePath),
		Signature:   signature,
		ContentHash: HashContent(signature),
		Complexity:  1,
		LineCount:   lines,
		FilePath:    filePath,
		StartLine:   1,
	}
}

// complexity is a crude cyclomatic proxy: one plus the count of branching and
// logical-operator tokens, capped.
func complexity(snippet string) int {
	c := 1 + len(complexityRe.FindAllString(snippet, maxComplexity))
	if c > maxComplexity {
		c = maxComplexity
	}
	return c
}

func lineOffsets(content string) []int {
	offsets := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

func lineAt(offsets []int, pos int) int {
	return sort.SearchInts(offsets, pos+1)
}
