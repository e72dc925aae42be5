package models

// LobbySnapshot is the full view of a lobby handed to a client when it
// creates or joins one: current members, who the owner is, the last known
// playback state and the retained chat history.
type LobbySnapshot struct {
	ID      string        `json:"id"`
	OwnerID int64         `json:"ownerId"`
	Clients []Client      `json:"clients"`
	State   PlaybackState `json:"state"`
	Chat    []ChatMessage `json:"chat"`
}
