package main

import "sync"

const (
	maxConnsPerIP = 5
	maxTotalConns = 1000
)

// Hub tracks connections and hands registered ones to the engine
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	engine     *Engine
	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int
	// Auth & DB, nil when accounts are disabled
	db   *DB
	auth *Auth
	// Ranked accounts currently online: username -> *Client
	onlineMu    sync.Mutex
	onlineUsers map[string]*Client
}

// NewHub creates a new Hub. db may be nil.
func NewHub(engine *Engine, db *DB) *Hub {
	h := &Hub{
		clients:     make(map[*Client]bool),
		register:    make(chan *Client, 64),
		unregister:  make(chan *Client, 64),
		engine:      engine,
		ipConns:     make(map[string]int),
		db:          db,
		onlineUsers: make(map[string]*Client),
	}
	if db != nil {
		h.auth = NewAuth(db)
	}
	return h
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes register/unregister events until stop closes
func (h *Hub) Run(stop <-chan struct{}) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			if client.playerID != "" {
				h.engine.Leave(client.playerID)
			}
			if client.account != "" {
				h.ReleaseAccount(client.account, client)
			}

		case <-stop:
			return
		}
	}
}

// ClaimAccount marks a ranked account online; false if another connection holds it
func (h *Hub) ClaimAccount(username string, c *Client) bool {
	h.onlineMu.Lock()
	defer h.onlineMu.Unlock()
	if holder, ok := h.onlineUsers[username]; ok && holder != c {
		return false
	}
	h.onlineUsers[username] = c
	return true
}

// ReleaseAccount frees a ranked account held by c
func (h *Hub) ReleaseAccount(username string, c *Client) {
	h.onlineMu.Lock()
	defer h.onlineMu.Unlock()
	if h.onlineUsers[username] == c {
		delete(h.onlineUsers, username)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
