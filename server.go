package main

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/websocket"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	defaultRoundsLimit = 20
	maxRoundsLimit     = 200
	qrSize             = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json: %v", err)
	}
}

// joinURL is the websocket address clients on the same network should dial
func joinURL(r *http.Request) string {
	scheme := "ws"
	if r.TLS != nil {
		scheme = "wss"
	}
	return scheme + "://" + r.Host + "/ws"
}

// SetupRoutes configures HTTP routes. rec may be nil.
func SetupRoutes(hub *Hub, rec *Recorder) *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket endpoint
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]interface{}{
			"ok":       true,
			"conns":    hub.TotalConns(),
			"clients":  hub.ClientCount(),
			"accounts": hub.auth != nil,
		}
		if rec != nil {
			written, dropped := rec.Stats()
			status["roundsWritten"] = written
			status["roundsDropped"] = dropped
		}
		writeJSON(w, status)
	})

	mux.HandleFunc("/rounds", func(w http.ResponseWriter, r *http.Request) {
		if hub.db == nil {
			http.Error(w, "history disabled", http.StatusNotFound)
			return
		}
		limit := defaultRoundsLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "bad limit", http.StatusBadRequest)
				return
			}
			limit = clampInt(n, 1, maxRoundsLimit)
		}
		rounds, err := hub.db.RecentRounds(limit)
		if err != nil {
			log.Printf("rounds query: %v", err)
			http.Error(w, "database error", http.StatusInternalServerError)
			return
		}
		if rounds == nil {
			rounds = []RoundRow{}
		}
		writeJSON(w, rounds)
	})

	// QR code of the join address, for phones on the LAN
	mux.HandleFunc("/qr", func(w http.ResponseWriter, r *http.Request) {
		png, err := qrcode.Encode(joinURL(r), qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(png)
	})

	return mux
}
