package domain

import "errors"

var (
	// ErrNoProjects is returned when an analysis is requested for an empty
	// project set.
	ErrNoProjects = errors.New("no projects to analyze")

	// ErrAggregation is returned when merging batch results fails; no
	// partial result is returned in that case.
	ErrAggregation = errors.New("failed to aggregate analysis results")
)
