// Package ws is the transport adapter: it accepts websocket connections,
// decodes the message envelope and dispatches each kind to the registry,
// the lobby store, the signaling relay or the chat path.
package ws

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"watchsync/metrics"
	"watchsync/protocol"
	"watchsync/services/lobby"
	"watchsync/services/registry"
	"watchsync/services/signaling"
)

// Server ties one websocket endpoint to the lobby core.
type Server struct {
	registry *registry.Registry
	store    *lobby.Store
	relay    *signaling.Relay
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader
}

func NewServer(reg *registry.Registry, store *lobby.Store, relay *signaling.Relay, m *metrics.Metrics) *Server {
	return &Server{
		registry: reg,
		store:    store,
		relay:    relay,
		metrics:  m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handle upgrades the request and runs the session. Each connection gets
// its identity on the spot and is told about it before anything else.
func (s *Server) Handle(c *gin.Context) {
	wsConn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
		return
	}

	client := s.registry.Register()
	conn := newConn(wsConn)
	log.Printf("[WS] client %d connected", client.ID)

	conn.Send(protocol.MustEncode(protocol.TypeConnected, protocol.ConnectedPayload{Client: client}))

	go conn.writePump()
	go conn.readPump(
		func(raw []byte) error {
			return s.dispatch(client.ID, conn, raw)
		},
		func() {
			s.store.Disconnect(client.ID)
			s.registry.Unregister(client.ID)
			s.metrics.IncClosed()
			log.Printf("[WS] client %d disconnected", client.ID)
		},
	)
}

// dispatch routes one inbound frame. Returning an error terminates the
// connection; that is reserved for unparseable messages and unknown
// types, since the protocol has no partial-message recovery. Requests
// that are merely invalid in the current state are dropped or answered
// with a failure payload, never fatal.
func (s *Server) dispatch(clientID int64, conn *Conn, raw []byte) error {
	s.metrics.IncMessages()

	env, err := protocol.Decode(raw)
	if err != nil {
		return err
	}

	switch env.Type {
	case protocol.TypeCreateLobby:
		var req protocol.CreateLobbyRequest
		if err := env.Bind(&req); err != nil {
			return err
		}
		client, ok := s.registry.Get(clientID)
		if !ok {
			return nil
		}
		if snap, ok := s.store.Create(client, conn, req.State); ok {
			conn.Send(protocol.MustEncode(protocol.TypeCreatedLobby, protocol.CreatedLobbyPayload{Lobby: snap}))
		}

	case protocol.TypeJoinLobby:
		var req protocol.JoinLobbyRequest
		if err := env.Bind(&req); err != nil {
			return err
		}
		client, ok := s.registry.Get(clientID)
		if !ok {
			return nil
		}
		snap, err := s.store.Join(client, conn, req.LobbyID)
		if err != nil {
			conn.Send(protocol.MustEncode(protocol.TypeJoinedLobby,
				protocol.JoinedLobbyPayload{IsSuccess: false, ErrorMsg: err.Error()}))
			return nil
		}
		conn.Send(protocol.MustEncode(protocol.TypeJoinedLobby,
			protocol.JoinedLobbyPayload{IsSuccess: true, Lobby: &snap}))

	case protocol.TypeLeaveLobby:
		if s.store.Leave(clientID) {
			conn.Send(protocol.MustEncode(protocol.TypeLeftLobby, nil))
		}

	case protocol.TypeChangeName:
		var req protocol.ChangeNameRequest
		if err := env.Bind(&req); err != nil {
			return err
		}
		client, err := s.registry.Rename(clientID, req.Name)
		if err != nil {
			conn.Send(protocol.MustEncode(protocol.TypeChangedName,
				protocol.ChangedNamePayload{IsSuccess: false, ErrorMsg: err.Error()}))
			return nil
		}
		conn.Send(protocol.MustEncode(protocol.TypeChangedName,
			protocol.ChangedNamePayload{IsSuccess: true, Name: client.Name}))
		s.store.Rename(client)

	case protocol.TypeChangeVideo:
		var req protocol.ChangeVideoRequest
		if err := env.Bind(&req); err != nil {
			return err
		}
		s.store.ChangeVideo(clientID, req.VideoID)

	case protocol.TypeUpdate:
		var req protocol.UpdateRequest
		if err := env.Bind(&req); err != nil {
			return err
		}
		s.store.UpdateState(clientID, req.State)

	case protocol.TypeSendOffer:
		var req protocol.SendOfferRequest
		if err := env.Bind(&req); err != nil {
			return err
		}
		s.relay.Offer(clientID, req.ClientID, req.SDP)

	case protocol.TypeSendAnswer:
		var req protocol.SendAnswerRequest
		if err := env.Bind(&req); err != nil {
			return err
		}
		s.relay.Answer(clientID, req.ClientID, req.SDP)

	case protocol.TypeSendCandidate:
		var req protocol.SendCandidateRequest
		if err := env.Bind(&req); err != nil {
			return err
		}
		s.relay.Candidate(clientID, req.ClientID, req.Candidate)

	case protocol.TypeRenegotiate:
		var req protocol.RenegotiateRequest
		if err := env.Bind(&req); err != nil {
			return err
		}
		s.relay.Renegotiate(clientID, req.ToClient, req.Init)

	case protocol.TypeMuteMessage:
		var req protocol.MuteRequest
		if err := env.Bind(&req); err != nil {
			return err
		}
		s.relay.Mute(clientID, req.MuteType, req.Value)

	case protocol.TypeSendChatMessage:
		var req protocol.ChatRequest
		if err := env.Bind(&req); err != nil {
			return err
		}
		if s.store.PostChat(clientID, req.Text) {
			s.metrics.IncChat()
		}

	default:
		return fmt.Errorf("unknown message type %q", env.Type)
	}

	return nil
}
