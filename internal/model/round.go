package model

import "time"

// RoundEndReason records how a round finished
type RoundEndReason string

const (
	RoundEndTimeout     RoundEndReason = "timeout"      // Client reported the timer ran out
	RoundEndTurnExpired RoundEndReason = "turn_expired" // Server rejected a late submission
)

// RoundRecord is the history entry written when a round ends
type RoundRecord struct {
	ID               string
	GameID           GameID
	Words            []string
	LosingPlayerID   PlayerID
	LosingPlayerName string
	Reason           RoundEndReason
	StartedAt        time.Time
	EndedAt          time.Time
}
