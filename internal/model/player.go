package model

// PlayerID uniquely identifies a player within a room
type PlayerID string

// Player represents a participant in a room
type Player struct {
	ID   PlayerID
	Name string
}
