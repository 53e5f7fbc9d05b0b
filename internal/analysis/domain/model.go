package domain

import "time"

// SourceFile is one file supplied by the input collaborator. The engine
// treats it as read-only.
type SourceFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// ProjectInput is the unit of work handed to the analyzer. LastUpdated feeds
// the cache key, so any project mutation forces recomputation.
type ProjectInput struct {
	ProjectID   string       `json:"project_id"`
	LastUpdated time.Time    `json:"last_updated"`
	Files       []SourceFile `json:"files"`
}
