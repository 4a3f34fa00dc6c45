package entity

// Player identifies a connected human session and the mark it plays.
type Player struct {
	ID   string `json:"id"`
	Mark Mark   `json:"mark,omitempty"`
}
