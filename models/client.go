package models

import "fmt"

// Client is the public view of one connected user, shared with every
// member of the lobby it joins.
type Client struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DefaultName returns the display name a client starts with before any
// changeName request.
func DefaultName(id int64) string {
	return fmt.Sprintf("user-%d", id)
}
