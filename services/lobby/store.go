// Package lobby holds the in-memory table of active lobbies: membership,
// ownership, the last known playback state and chat history. The store is
// the single shared mutable resource of the server; every mutation and
// every broadcast happens under one mutex, which is what gives each lobby
// its per-lobby delivery order.
package lobby

import (
	"errors"
	"log"
	"math/rand"
	"sort"
	"sync"
	"unicode/utf8"

	"watchsync/models"
	"watchsync/protocol"
	"watchsync/utils"
)

const maxChatTextLength = 200

// ErrLobbyNotFound is returned by Join when the lobby does not exist or
// the requester is already in one.
var ErrLobbyNotFound = errors.New("lobby not found")

// Sender delivers one encoded frame to a connection. Implementations must
// not block; a send that cannot complete is dropped or tears the
// connection down on the transport side.
type Sender interface {
	Send(data []byte) error
}

type member struct {
	client models.Client
	sender Sender
}

type lobby struct {
	id      string
	ownerID int64
	state   models.PlaybackState
	members map[int64]*member
	chat    []models.ChatMessage
}

// Store is the lobby table. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	clock    utils.Clock
	rng      *rand.Rand
	maxChat  int
	lobbies  map[string]*lobby
	byClient map[int64]*lobby
}

// New creates an empty store. maxChat bounds the chat history retained per
// lobby; older entries are discarded.
func New(clock utils.Clock, rng *rand.Rand, maxChat int) *Store {
	return &Store{
		clock:    clock,
		rng:      rng,
		maxChat:  maxChat,
		lobbies:  make(map[string]*lobby),
		byClient: make(map[int64]*lobby),
	}
}

// Create allocates a new lobby with client as sole member and owner.
// Returns false if the client already occupies a lobby; that is a benign
// race, not an error, so nothing is sent back.
func (s *Store) Create(client models.Client, sender Sender, state models.PlaybackState) (models.LobbySnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byClient[client.ID]; ok {
		log.Printf("[LOBBY] create dropped, client %d already in a lobby", client.ID)
		return models.LobbySnapshot{}, false
	}

	id := s.freshID()
	l := &lobby{
		id:      id,
		ownerID: client.ID,
		state:   state,
		members: map[int64]*member{client.ID: {client: client, sender: sender}},
	}
	s.lobbies[id] = l
	s.byClient[client.ID] = l

	log.Printf("[LOBBY] created %s, owner %d", id, client.ID)
	return l.snapshot(), true
}

// Join adds client to an existing lobby, notifies the other members and
// returns the full snapshot for the joiner.
func (s *Store) Join(client models.Client, sender Sender, lobbyID string) (models.LobbySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lobbies[lobbyID]
	if !ok {
		return models.LobbySnapshot{}, ErrLobbyNotFound
	}
	if _, ok := s.byClient[client.ID]; ok {
		return models.LobbySnapshot{}, ErrLobbyNotFound
	}

	l.broadcast(protocol.TypeClientJoinedLobby, protocol.ClientJoinedPayload{Client: client}, 0)

	l.members[client.ID] = &member{client: client, sender: sender}
	s.byClient[client.ID] = l

	log.Printf("[LOBBY] client %d joined %s (%d members)", client.ID, lobbyID, len(l.members))
	return l.snapshot(), nil
}

// Leave removes the client from its lobby, if any. An empty lobby is
// destroyed on the spot; otherwise, if the owner left, ownership moves to
// the remaining member with the lowest identity and everyone left is told
// about both. Returns false when the client was not in a lobby.
func (s *Store) Leave(clientID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.byClient[clientID]
	if !ok {
		return false
	}

	delete(l.members, clientID)
	delete(s.byClient, clientID)

	if len(l.members) == 0 {
		delete(s.lobbies, l.id)
		log.Printf("[LOBBY] destroyed %s, last member %d left", l.id, clientID)
		return true
	}

	payload := protocol.ClientLeftPayload{ClientID: clientID}
	if l.ownerID == clientID {
		newOwner := l.lowestMemberID()
		l.ownerID = newOwner
		payload.NewOwnerID = &newOwner
		log.Printf("[LOBBY] client %d left %s, owner is now %d", clientID, l.id, newOwner)
	} else {
		log.Printf("[LOBBY] client %d left %s", clientID, l.id)
	}
	l.broadcast(protocol.TypeClientLeftLobby, payload, 0)
	return true
}

// Disconnect is the teardown path for a dropped connection. Same effect as
// Leave, and just as idempotent.
func (s *Store) Disconnect(clientID int64) {
	s.Leave(clientID)
}

// UpdateState replaces the lobby's playback state and relays it to every
// other member. Non-owner updates are dropped without comment; during an
// ownership handoff the old owner may race one last update in, and
// punishing that race helps no one.
func (s *Store) UpdateState(clientID int64, state models.PlaybackState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.byClient[clientID]
	if !ok || l.ownerID != clientID {
		return false
	}

	l.state = state
	l.broadcast(protocol.TypeUpdate, protocol.UpdatePayload{State: state}, clientID)
	return true
}

// ChangeVideo writes a new video id into the stored state and announces it
// to every other member. Owner only; everyone else is silently ignored.
func (s *Store) ChangeVideo(clientID int64, videoID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.byClient[clientID]
	if !ok || l.ownerID != clientID {
		return false
	}

	l.state.VideoID = videoID
	l.broadcast(protocol.TypeVideoChanged, protocol.VideoChangedPayload{VideoID: videoID}, clientID)
	log.Printf("[LOBBY] video changed in %s to %q", l.id, videoID)
	return true
}

// PostChat appends a chat message, snapshotting the sender's current
// display name, and broadcasts it to every member including the sender.
// Empty or over-long text is dropped.
func (s *Store) PostChat(clientID int64, text string) bool {
	if text == "" || utf8.RuneCountInString(text) > maxChatTextLength {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.byClient[clientID]
	if !ok {
		return false
	}

	msg := models.ChatMessage{
		ClientID:  clientID,
		Name:      l.members[clientID].client.Name,
		Text:      text,
		Timestamp: utils.NowMillis(s.clock),
	}
	l.chat = append(l.chat, msg)
	if len(l.chat) > s.maxChat {
		l.chat = l.chat[len(l.chat)-s.maxChat:]
	}

	l.broadcast(protocol.TypeReceiveChatMessage, protocol.ReceiveChatPayload{Msg: msg}, 0)
	return true
}

// Rename updates the member record to the renamed client view and tells
// the other members. Returns false when the client is not in a lobby, in
// which case there is nobody to tell.
func (s *Store) Rename(client models.Client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.byClient[client.ID]
	if !ok {
		return false
	}

	l.members[client.ID].client = client
	l.broadcast(protocol.TypeClientChangedName,
		protocol.ClientChangedNamePayload{ClientID: client.ID, Name: client.Name}, client.ID)
	return true
}

// IsAuthority reports whether clientID currently owns lobbyID.
func (s *Store) IsAuthority(lobbyID string, clientID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lobbies[lobbyID]
	return ok && l.ownerID == clientID
}

// SendTo delivers an encoded frame to target if and only if sender and
// target share a lobby. Anything else is dropped silently.
func (s *Store) SendTo(senderID, targetID int64, data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.byClient[senderID]
	if !ok {
		return false
	}
	m, ok := l.members[targetID]
	if !ok {
		return false
	}
	m.sender.Send(data)
	return true
}

// SendToOthers delivers an encoded frame to every member of the sender's
// lobby except the sender.
func (s *Store) SendToOthers(senderID int64, data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.byClient[senderID]
	if !ok {
		return false
	}
	for id, m := range l.members {
		if id == senderID {
			continue
		}
		m.sender.Send(data)
	}
	return true
}

// ClientInfo returns the member view of a client that is currently in a
// lobby.
func (s *Store) ClientInfo(clientID int64) (models.Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.byClient[clientID]
	if !ok {
		return models.Client{}, false
	}
	return l.members[clientID].client, true
}

// Counts returns the number of lobbies and lobby members, for the stats
// endpoint and metric gauges.
func (s *Store) Counts() (lobbies, members int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lobbies = len(s.lobbies)
	members = len(s.byClient)
	return
}

// freshID draws lobby ids until one is unused. Caller holds s.mu.
func (s *Store) freshID() string {
	for {
		id := utils.NewLobbyID(s.rng)
		if _, taken := s.lobbies[id]; !taken {
			return id
		}
	}
}

func (l *lobby) lowestMemberID() int64 {
	var lowest int64 = -1
	for id := range l.members {
		if lowest == -1 || id < lowest {
			lowest = id
		}
	}
	return lowest
}

// broadcast encodes once and enqueues to every member, skipping exceptID
// when non-zero. Send errors are ignored here; a dead socket is detected
// and cleaned up by the transport layer.
func (l *lobby) broadcast(msgType string, payload any, exceptID int64) {
	data := protocol.MustEncode(msgType, payload)
	for id, m := range l.members {
		if exceptID != 0 && id == exceptID {
			continue
		}
		m.sender.Send(data)
	}
}

func (l *lobby) snapshot() models.LobbySnapshot {
	snap := models.LobbySnapshot{
		ID:      l.id,
		OwnerID: l.ownerID,
		Clients: make([]models.Client, 0, len(l.members)),
		State:   l.state,
		Chat:    append([]models.ChatMessage(nil), l.chat...),
	}
	for _, m := range l.members {
		snap.Clients = append(snap.Clients, m.client)
	}
	sort.Slice(snap.Clients, func(i, j int) bool { return snap.Clients[i].ID < snap.Clients[j].ID })
	return snap
}
