package main

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 60
	messageBurst      = 120
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	playerID   string // "" until registered
	account    string // ranked account held by this connection
	remoteAddr string
	limiter    *rate.Limiter
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
		limiter:    rate.NewLimiter(rate.Limit(maxMessagesPerSec), messageBurst),
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}
		if !c.limiter.Allow() {
			debugf("rate limit: dropping message from %s", c.remoteAddr)
			continue
		}
		if msgType != websocket.TextMessage {
			c.sendError("text frames only")
			continue
		}
		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message
// Prefixes with 0xFF marker byte so WritePump can distinguish from text
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF // binary marker
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

// handleMessage decodes one frame. Only register is accepted before the
// connection has an identity; everything else goes to the engine inbox.
func (c *Client) handleMessage(raw []byte) {
	in, err := DecodeIntent(raw)
	if err != nil {
		debugf("decode from %s: %v", c.remoteAddr, err)
		c.sendError(err.Error())
		return
	}
	if reg, ok := in.(RegisterIntent); ok {
		c.handleRegister(reg)
		return
	}
	if c.playerID == "" {
		c.sendError("register first")
		return
	}
	c.hub.engine.Submit(c.playerID, in)
}

// handleRegister resolves credentials, then admits the connection into the
// world. Password checks run here so the engine never waits on bcrypt.
func (c *Client) handleRegister(reg RegisterIntent) {
	if c.playerID != "" {
		c.sendError("already registered")
		return
	}
	name, rank, token := reg.Username, "", ""
	switch {
	case reg.Password != "":
		if c.hub.auth == nil {
			c.sendError("accounts disabled")
			return
		}
		r, tok, err := c.hub.auth.Login(reg.Username, reg.Password, c.remoteAddr)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		rank, token = r, tok
	case reg.Token != "":
		if c.hub.auth == nil {
			c.sendError("accounts disabled")
			return
		}
		u, r, err := c.hub.auth.ValidateToken(reg.Token)
		if err != nil {
			c.sendError("invalid token")
			return
		}
		name, rank, token = u, r, reg.Token
	}
	if name == "" {
		name = GenerateGuestName()
	}

	if rank != "" {
		if !c.hub.ClaimAccount(name, c) {
			c.sendError("account already online")
			return
		}
		c.account = name
	}

	id, err := c.hub.engine.Join(JoinRequest{
		Name:   name,
		Rank:   rank,
		Token:  token,
		Binary: reg.Binary,
		Sender: c,
	})
	if err != nil {
		if c.account != "" {
			c.hub.ReleaseAccount(c.account, c)
			c.account = ""
		}
		if errors.Is(err, ErrIllegalInState) {
			c.sendError("world full")
		} else {
			c.sendError(err.Error())
		}
		return
	}
	c.playerID = id
}
