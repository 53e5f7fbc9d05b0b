package domain

import "time"

// PatternType identifies the structural family a pattern belongs to.
type PatternType string

const (
	PatternFunction  PatternType = "function"
	PatternClass     PatternType = "class"
	PatternImport    PatternType = "import"
	PatternComponent PatternType = "component"
	PatternHook      PatternType = "hook"
	PatternStructure PatternType = "structure"
)

// Pattern is a typed, hashed structural unit extracted from source text.
// Identity is ContentHash (a digest of the normalized signature), not file
// location: identical signatures in different files hash identically.
type Pattern struct {
	Type        PatternType `json:"type"`
	Name        string      `json:"name"`
	Signature   string      `json:"signature"`
	ContentHash string      `json:"content_hash"`
	Complexity  int         `json:"complexity"`
	LineCount   int         `json:"line_count"`
	FilePath    string      `json:"file_path"`
	StartLine   int         `json:"start_line"`
}

// SignalType names the similarity signal that dominated a comparison.
type SignalType string

const (
	SignalStructural SignalType = "structural"
	SignalSemantic   SignalType = "semantic"
	SignalSyntactic  SignalType = "syntactic"
)

// SimilarityResult is the outcome of comparing two text blobs.
type SimilarityResult struct {
	Score                float64    `json:"score"`
	SignalType           SignalType `json:"signal_type"`
	ContributingPatterns []string   `json:"contributing_patterns,omitempty"`
}

// DuplicateGroup is a cluster of two or more patterns of the same type
// considered duplicates. SimilarityScore is 1.0 for exact-hash groups and the
// computed fuzzy score otherwise.
type DuplicateGroup struct {
	ID              string      `json:"id"`
	PatternType     PatternType `json:"pattern_type"`
	Patterns        []Pattern   `json:"patterns"`
	SimilarityScore float64     `json:"similarity_score"`
	Description     string      `json:"description"`
}

// AnalysisResult is the terminal artifact of one analysis run. Immutable
// after return; persistence is delegated to the storage collaborator.
type AnalysisResult struct {
	ID                 string           `json:"id"`
	OwnerID            string           `json:"owner_id"`
	DuplicateGroups    []DuplicateGroup `json:"duplicate_groups"`
	FilesAnalyzed      int              `json:"files_analyzed"`
	PatternsFound      int              `json:"patterns_found"`
	DuplicatesDetected int              `json:"duplicates_detected"`
	Languages          map[string]int   `json:"languages"`
	ProcessingTimeMs   int64            `json:"processing_time_ms"`
	CreatedAt          time.Time        `json:"created_at"`
}
