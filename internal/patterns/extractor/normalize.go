package extractor

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// maxHashInput bounds the normalized signature length fed into the digest so
// pathological matches cannot dominate hashing cost.
const maxHashInput = 500

var (
	lineCommentRe    = regexp.MustCompile(`//[^\n]*`)
	blockCommentRe   = regexp.MustCompile(`(?s)/\*.*?\*/`)
	whitespaceRe     = regexp.MustCompile(`\s+`)
	spaceBeforeSymRe = regexp.MustCompile(`\s+(\W)`)
	spaceAfterSymRe  = regexp.MustCompile(`(\W)\s+`)
)

// Normalize strips comments, collapses whitespace runs and drops spacing
// around punctuation, so two snippets differing only in comments or
// formatting compare equal downstream. Spacing between identifiers is kept.
func Normalize(content string) string {
	content = blockCommentRe.ReplaceAllString(content, "")
	content = lineCommentRe.ReplaceAllString(content, "")
	content = whitespaceRe.ReplaceAllString(content, " ")
	content = spaceBeforeSymRe.ReplaceAllString(content, "$1")
	content = spaceAfterSymRe.ReplaceAllString(content, "$1")
	return strings.TrimSpace(content)
}

// HashContent returns the SHA-256 hex digest of the normalized content.
// Normalized-empty input hashes to the empty string, which downstream
// grouping treats as "not groupable".
func HashContent(content string) string {
	normalized := Normalize(content)
	if normalized == "" {
		return ""
	}
	if len(normalized) > maxHashInput {
		normalized = normalized[:maxHashInput]
	}
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
