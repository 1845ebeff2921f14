// internal/models/exchange.go
package models

import (
	"time"
)

// Exchange is one question/answer pair from the chat, as stored in history.
type Exchange struct {
	ID        string      `json:"id"`
	Question  string      `json:"question"`
	Response  string      `json:"response"`
	Source    ReplySource `json:"source"`
	CreatedAt time.Time   `json:"created_at"`
}

type ReplySource string

const (
	SourceModel    ReplySource = "model"    // upstream generator answered
	SourceDemo     ReplySource = "demo"     // no generator configured
	SourceFallback ReplySource = "fallback" // generator failed, canned answer appended
)

type ConfidenceLevel string

const (
	HighConfidence   ConfidenceLevel = "high"
	MediumConfidence ConfidenceLevel = "medium"
	LowConfidence    ConfidenceLevel = "low"
)

// LevelFor buckets a 0-1 confidence score.
func LevelFor(score float64) ConfidenceLevel {
	switch {
	case score >= 0.7:
		return HighConfidence
	case score >= 0.4:
		return MediumConfidence
	default:
		return LowConfidence
	}
}
