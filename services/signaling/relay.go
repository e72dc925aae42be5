// Package signaling routes peer-connection negotiation messages between
// two members of the same lobby. The relay owns no state and never looks
// inside an SDP or ICE payload; it only re-tags each message with the
// sender's identity and hands it to the router.
package signaling

import (
	"encoding/json"
	"log"

	"watchsync/models"
	"watchsync/protocol"
)

// Router is the membership-aware delivery surface the relay runs on,
// implemented by the lobby store. SendTo drops silently unless sender and
// target share a lobby.
type Router interface {
	SendTo(senderID, targetID int64, data []byte) bool
	SendToOthers(senderID int64, data []byte) bool
	ClientInfo(clientID int64) (models.Client, bool)
}

type Relay struct {
	router Router
}

func New(router Router) *Relay {
	return &Relay{router: router}
}

// Offer forwards an SDP offer from sender to target.
func (r *Relay) Offer(senderID, targetID int64, sdp json.RawMessage) {
	data := protocol.MustEncode(protocol.TypeReceiveOffer,
		protocol.ReceiveOfferPayload{ClientID: senderID, SDP: sdp})
	if !r.router.SendTo(senderID, targetID, data) {
		log.Printf("[SIGNAL] offer from %d to %d dropped, not in same lobby", senderID, targetID)
	}
}

// Answer forwards an SDP answer from sender to target.
func (r *Relay) Answer(senderID, targetID int64, sdp json.RawMessage) {
	data := protocol.MustEncode(protocol.TypeReceiveAnswer,
		protocol.ReceiveAnswerPayload{ClientID: senderID, SDP: sdp})
	if !r.router.SendTo(senderID, targetID, data) {
		log.Printf("[SIGNAL] answer from %d to %d dropped, not in same lobby", senderID, targetID)
	}
}

// Candidate forwards one ICE candidate from sender to target.
func (r *Relay) Candidate(senderID, targetID int64, candidate json.RawMessage) {
	data := protocol.MustEncode(protocol.TypeReceiveCandidate,
		protocol.ReceiveCandidatePayload{ClientID: senderID, Candidate: candidate})
	if !r.router.SendTo(senderID, targetID, data) {
		log.Printf("[SIGNAL] candidate from %d to %d dropped, not in same lobby", senderID, targetID)
	}
}

// Renegotiate asks target to restart negotiation with the sender. The full
// sender client rides along so the target can correlate per-peer state.
func (r *Relay) Renegotiate(senderID, targetID int64, init bool) {
	sender, ok := r.router.ClientInfo(senderID)
	if !ok {
		return
	}
	data := protocol.MustEncode(protocol.TypeRenegotiate,
		protocol.RenegotiatePayload{Init: init, SenderClient: sender})
	if !r.router.SendTo(senderID, targetID, data) {
		log.Printf("[SIGNAL] renegotiate from %d to %d dropped, not in same lobby", senderID, targetID)
	}
}

// Mute announces a change of the sender's audio or video mute flag to all
// other lobby members. The flags are peer-local state; the relay only
// passes them along.
func (r *Relay) Mute(senderID int64, muteType string, value bool) {
	data := protocol.MustEncode(protocol.TypeMuteMessage,
		protocol.MutePayload{MuteType: muteType, Value: value, ClientID: senderID})
	r.router.SendToOthers(senderID, data)
}
