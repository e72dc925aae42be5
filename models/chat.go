package models

// ChatMessage is one entry in a lobby's chat history. Name is a snapshot
// of the sender's display name at send time; it does not follow renames.
type ChatMessage struct {
	ClientID  int64  `json:"clientId"`
	Name      string `json:"name"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}
