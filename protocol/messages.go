// Package protocol defines the wire format spoken over the websocket: a
// JSON envelope discriminated by a "type" field, with the message payload
// nested under "data".
package protocol

import (
	"encoding/json"
	"fmt"

	"watchsync/models"
)

// Client -> server message types.
const (
	TypeCreateLobby     = "createLobby"
	TypeJoinLobby       = "joinLobby"
	TypeLeaveLobby      = "leaveLobby"
	TypeChangeName      = "changeName"
	TypeChangeVideo     = "changeVideo"
	TypeUpdate          = "update"
	TypeSendOffer       = "sendOffer"
	TypeSendAnswer      = "sendAnswer"
	TypeSendCandidate   = "sendCandidate"
	TypeRenegotiate     = "renegotiate"
	TypeMuteMessage     = "muteMessage"
	TypeSendChatMessage = "sendChatMessage"
)

// Server -> client message types. TypeUpdate, TypeRenegotiate and
// TypeMuteMessage are reused in both directions.
const (
	TypeConnected          = "connected"
	TypeCreatedLobby       = "createdLobby"
	TypeJoinedLobby        = "joinedLobby"
	TypeClientJoinedLobby  = "clientJoinedLobby"
	TypeLeftLobby          = "leftLobby"
	TypeClientLeftLobby    = "clientLeftLobby"
	TypeChangedName        = "changedName"
	TypeClientChangedName  = "clientChangedName"
	TypeVideoChanged       = "videoChanged"
	TypeReceiveOffer       = "receiveOffer"
	TypeReceiveAnswer      = "receiveAnswer"
	TypeReceiveCandidate   = "receiveCandidate"
	TypeReceiveChatMessage = "receiveChatMessage"
)

// Envelope is the frame every message travels in.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Decode parses a raw text frame into an envelope. A frame with no type is
// rejected; the payload stays raw until Bind.
func Decode(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("malformed message: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("malformed message: missing type")
	}
	return env, nil
}

// Bind unmarshals the envelope payload into v.
func (e Envelope) Bind(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("message %q: missing data", e.Type)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("message %q: %w", e.Type, err)
	}
	return nil
}

// Encode builds an outbound frame. A nil payload produces an envelope with
// no data field.
func Encode(msgType string, payload any) ([]byte, error) {
	env := Envelope{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", msgType, err)
		}
		env.Data = data
	}
	return json.Marshal(env)
}

// MustEncode is Encode for payloads built by the server itself, where a
// marshal failure is a programming error.
func MustEncode(msgType string, payload any) []byte {
	data, err := Encode(msgType, payload)
	if err != nil {
		panic(err)
	}
	return data
}

// Client -> server payloads.

type CreateLobbyRequest struct {
	State models.PlaybackState `json:"state"`
}

type JoinLobbyRequest struct {
	LobbyID string `json:"lobbyId"`
}

type ChangeNameRequest struct {
	Name string `json:"name"`
}

type ChangeVideoRequest struct {
	VideoID string `json:"videoId,omitempty"`
}

type UpdateRequest struct {
	State models.PlaybackState `json:"state"`
}

// SDP and ICE payloads are opaque to the server, so they stay raw JSON.

type SendOfferRequest struct {
	ClientID int64           `json:"clientId"`
	SDP      json.RawMessage `json:"sdp"`
}

type SendAnswerRequest struct {
	ClientID int64           `json:"clientId"`
	SDP      json.RawMessage `json:"sdp"`
}

type SendCandidateRequest struct {
	ClientID  int64           `json:"clientId"`
	Candidate json.RawMessage `json:"candidate"`
}

type RenegotiateRequest struct {
	Init     bool  `json:"init"`
	ToClient int64 `json:"toClient"`
}

type MuteRequest struct {
	MuteType string `json:"muteType"`
	Value    bool   `json:"value"`
}

type ChatRequest struct {
	Text string `json:"text"`
}

// Server -> client payloads.

type ConnectedPayload struct {
	Client models.Client `json:"client"`
}

type CreatedLobbyPayload struct {
	Lobby models.LobbySnapshot `json:"lobby"`
}

type JoinedLobbyPayload struct {
	IsSuccess bool                  `json:"isSuccess"`
	ErrorMsg  string                `json:"errorMsg,omitempty"`
	Lobby     *models.LobbySnapshot `json:"lobby,omitempty"`
}

type ClientJoinedPayload struct {
	Client models.Client `json:"client"`
}

type ClientLeftPayload struct {
	ClientID   int64  `json:"clientId"`
	NewOwnerID *int64 `json:"newOwnerId,omitempty"`
}

type ChangedNamePayload struct {
	IsSuccess bool   `json:"isSuccess"`
	Name      string `json:"name,omitempty"`
	ErrorMsg  string `json:"errorMsg,omitempty"`
}

type ClientChangedNamePayload struct {
	ClientID int64  `json:"clientId"`
	Name     string `json:"name"`
}

type VideoChangedPayload struct {
	VideoID string `json:"videoId,omitempty"`
}

type UpdatePayload struct {
	State models.PlaybackState `json:"state"`
}

type ReceiveOfferPayload struct {
	ClientID int64           `json:"clientId"`
	SDP      json.RawMessage `json:"sdp"`
}

type ReceiveAnswerPayload struct {
	ClientID int64           `json:"clientId"`
	SDP      json.RawMessage `json:"sdp"`
}

type ReceiveCandidatePayload struct {
	ClientID  int64           `json:"clientId"`
	Candidate json.RawMessage `json:"candidate"`
}

type RenegotiatePayload struct {
	Init         bool          `json:"init"`
	SenderClient models.Client `json:"senderClient"`
}

type MutePayload struct {
	MuteType string `json:"muteType"`
	Value    bool   `json:"value"`
	ClientID int64  `json:"clientId"`
}

type ReceiveChatPayload struct {
	Msg models.ChatMessage `json:"msg"`
}
