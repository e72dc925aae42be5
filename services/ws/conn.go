package ws

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// SDP offers routinely run a few kilobytes; chat and state are tiny.
	maxMessageSize = 64 * 1024
	sendBufferSize = 256
)

// Conn wraps one websocket session. Outbound frames go through a buffered
// channel drained by writePump, so broadcasters never block on a slow
// peer; a peer that cannot drain its buffer is treated as dead.
type Conn struct {
	ws        *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func newConn(ws *websocket.Conn) *Conn {
	return &Conn{
		ws:   ws,
		send: make(chan []byte, sendBufferSize),
	}
}

// Send enqueues one frame, best effort. A full buffer means the peer has
// stopped draining; the connection is closed and the teardown runs
// through the normal disconnect path.
func (c *Conn) Send(data []byte) error {
	select {
	case c.send <- data:
		return nil
	default:
		c.Close()
		return websocket.ErrCloseSent
	}
}

// Close shuts the underlying socket, which unblocks readPump and triggers
// its cleanup. Safe to call more than once.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.ws.Close()
	})
}

// readPump reads frames in order and hands them to handle. A handle error
// is a protocol violation and terminates the connection; cleanup always
// runs exactly once on the way out.
func (c *Conn) readPump(handle func(raw []byte) error, cleanup func()) {
	defer func() {
		cleanup()
		c.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] read error: %v", err)
			}
			return
		}
		if err := handle(raw); err != nil {
			log.Printf("[WS] closing connection: %v", err)
			return
		}
	}
}

// writePump drains the send channel and keeps the peer alive with pings.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
