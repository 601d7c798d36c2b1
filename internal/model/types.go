// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/recite/internal/textcmp"
)

// Text is a stored reference passage.
type Text struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LastModified returns UpdatedAt, falling back to CreatedAt.
func (t Text) LastModified() time.Time {
	if !t.UpdatedAt.IsZero() {
		return t.UpdatedAt
	}
	return t.CreatedAt
}

// Config defines practice settings.
type Config struct {
	Mode              textcmp.Mode
	IgnorePunctuation bool
	Compose           bool
}

// Options converts practice settings into comparison options.
func (c Config) Options() textcmp.Options {
	return textcmp.Options{
		IgnorePunctuation: c.IgnorePunctuation,
		Compose:           c.Compose,
	}
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	TextID      string
	Since       *time.Time
	Last        int
	CurveWindow int
	WeakTop     int
}

// Attempt captures a finished practice attempt.
type Attempt struct {
	TextID            string
	Mode              textcmp.Mode
	IgnorePunctuation bool
	StartedAt         time.Time
	EndedAt           time.Time
	Summary           textcmp.Summary
	Perfect           bool
}

// CharStats stores per-reference-character outcomes for an attempt.
type CharStats struct {
	Char       string
	Matches    int
	Mismatches int
	Missing    int
}

// CharAggregate aggregates character stats across attempts.
type CharAggregate struct {
	Char       string
	Matches    int
	Mismatches int
	Missing    int
}

// Errors returns the number of times the character was not reproduced.
func (c CharAggregate) Errors() int {
	return c.Mismatches + c.Missing
}

// AttemptAggregate summarizes an attempt for reporting.
type AttemptAggregate struct {
	AttemptID  int64
	TextID     string
	Mode       textcmp.Mode
	EndedAt    time.Time
	Summary    textcmp.Summary
	Perfect    bool
	DurationMs int64
}
