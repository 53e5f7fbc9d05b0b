package service

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// artifactPatterns matches generated or vendored paths that never carry
// meaningful duplication signal.
var artifactPatterns = []string{
	"**/node_modules/**",
	"**/dist/**",
	"**/build/**",
	"**/out/**",
	"**/vendor/**",
	"**/.git/**",
	"**/coverage/**",
	"**/*.min.js",
	"**/*.min.css",
	"**/*.map",
	"**/*.lock",
}

const (
	binaryProbeBytes     = 1000
	maxNonPrintableRatio = 0.3
)

// SkipReason explains why a file was excluded before extraction.
type SkipReason string

const (
	SkipNone     SkipReason = ""
	SkipEmpty    SkipReason = "empty"
	SkipOversize SkipReason = "oversize"
	SkipBinary   SkipReason = "binary"
	SkipArtifact SkipReason = "artifact_path"
)

// shouldSkip applies the pre-extraction heuristics: empty files, the hard
// size ceiling, binary content and build-artifact paths.
func shouldSkip(path, content string, maxBytes int) SkipReason {
	if strings.TrimSpace(content) == "" {
		return SkipEmpty
	}
	if len(content) > maxBytes {
		return SkipOversize
	}
	if isArtifactPath(path) {
		return SkipArtifact
	}
	if isBinary(content) {
		return SkipBinary
	}
	return SkipNone
}

func isArtifactPath(path string) bool {
	normalized := filepath.ToSlash(path)
	for _, pattern := range artifactPatterns {
		if ok, err := doublestar.Match(pattern, normalized); err == nil && ok {
			return true
		}
	}
	return false
}

// isBinary probes the head of the content for null bytes or a high
// non-printable ratio.
func isBinary(content string) bool {
	probe := content
	if len(probe) > binaryProbeBytes {
		probe = probe[:binaryProbeBytes]
	}

	nonPrintable := 0
	for i := 0; i < len(probe); i++ {
		b := probe[i]
		if b == 0 {
			return true
		}
		if b < 32 && b != '\n' && b != '\r' && b != '\t' {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(probe)) > maxNonPrintableRatio
}

// languageForPath maps a file extension to a reporting language name.
func languageForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	case ".go":
		return "go"
	case ".py":
		return "python"
	case ".java":
		return "java"
	case ".rb":
		return "ruby"
	case ".php":
		return "php"
	case ".cs":
		return "csharp"
	case ".c", ".h":
		return "c"
	case ".cpp", ".cc", ".hpp":
		return "cpp"
	case ".rs":
		return "rust"
	case ".css", ".scss":
		return "css"
	case ".html":
		return "html"
	default:
		return "other"
	}
}
