package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lassemoldrup/Kingly/engine"
)

// analyticsClient is one websocket subscriber to the search-info feed.
type analyticsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// analyticsHub fans completed-iteration SearchInfo out to every connected
// websocket client as JSON. The feed is strictly read-only; clients cannot
// influence the search.
type analyticsHub struct {
	mu        sync.Mutex
	clients   map[*analyticsClient]struct{}
	broadcast chan engine.SearchInfo
}

func newAnalyticsHub() *analyticsHub {
	return &analyticsHub{
		clients:   make(map[*analyticsClient]struct{}),
		broadcast: make(chan engine.SearchInfo, 64),
	}
}

// Broadcast queues one info record. Drops when the queue is full; the feed
// is best effort and must never stall the search.
func (h *analyticsHub) Broadcast(info engine.SearchInfo) {
	select {
	case h.broadcast <- info:
	default:
	}
}

func (h *analyticsHub) run() {
	for info := range h.broadcast {
		data, err := json.Marshal(info)
		if err != nil {
			continue
		}
		h.mu.Lock()
		for client := range h.clients {
			select {
			case client.send <- data:
			default:
			}
		}
		h.mu.Unlock()
	}
}

func (h *analyticsHub) register(c *analyticsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *analyticsHub) unregister(c *analyticsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *analyticsHub) serveWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &analyticsClient{conn: conn, send: make(chan []byte, 16)}
	h.register(client)

	go func() {
		defer conn.Close()
		for data := range client.send {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}()

	// Inbound messages are ignored; the read loop only detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.unregister(client)
			return
		}
	}
}

// startAnalytics spins the hub and its HTTP listener up in the background.
func startAnalytics(addr string) *analyticsHub {
	hub := newAnalyticsHub()
	go hub.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.serveWS)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Println("analytics listener:", err)
		}
	}()
	return hub
}
