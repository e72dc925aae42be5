package utils

import "math/rand"

const (
	lobbyIDLength   = 10
	lobbyIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// NewLobbyID draws a 10-character alphanumeric lobby identifier from rng.
// Collision checking against existing lobbies is the caller's job.
func NewLobbyID(rng *rand.Rand) string {
	b := make([]byte, lobbyIDLength)
	for i := range b {
		b[i] = lobbyIDAlphabet[rng.Intn(len(lobbyIDAlphabet))]
	}
	return string(b)
}
