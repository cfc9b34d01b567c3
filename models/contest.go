package models

import "time"

// ContestPhase mirrors the Codeforces phase vocabulary for the subset the
// aggregator cares about.
type ContestPhase string

const (
	PhaseBefore   ContestPhase = "BEFORE"
	PhaseFinished ContestPhase = "FINISHED"
)

// ContestEntry is one upcoming or synthesized contest. Entries are ephemeral
// view data and are never persisted.
type ContestEntry struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Platform string       `json:"platform"`
	Start    time.Time    `json:"start"`
	Duration float64      `json:"duration"` // hours
	URL      string       `json:"url"`
	Phase    ContestPhase `json:"phase"`
	// IsFallback marks entries synthesized locally when the live calendar
	// source was unreachable, so consumers can tell them apart.
	IsFallback bool `json:"isFallback"`
}
