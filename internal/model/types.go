// Package model defines shared data structures.
package model

import "time"

// Config defines clipboard processing settings.
type Config struct {
	Threshold   float64
	Preview     int
	Interactive bool
	DryRun      bool
	Verbose     bool
	LogFormat   string
}

// UndoEntry is the clipboard value saved before the last conversion.
type UndoEntry struct {
	Text    string
	SavedAt time.Time
}
