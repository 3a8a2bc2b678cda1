package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub fans dataset events out to websocket clients. Clients either follow
// one dataset or every dataset (global).
type Hub struct {
	clients map[string]map[*websocket.Conn]*Client // by dataset name
	global  map[*websocket.Conn]*Client
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*websocket.Conn]*Client),
		global:  make(map[*websocket.Conn]*Client),
	}
}

var H = NewHub()

// DatasetReloaded is sent after a dataset has been swapped in.
type DatasetReloaded struct {
	Type    string `json:"type"`
	Dataset string `json:"dataset"`
	Count   int    `json:"count"`
}

type Stats struct {
	Global   int            `json:"global"`
	Datasets map[string]int `json:"datasets"`
}

// Register adds conn for dataset, or as a global client when dataset is "",
// and starts its write pump.
func (h *Hub) Register(dataset string, conn *websocket.Conn) *Client {
	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.mu.Lock()
	if dataset == "" {
		h.global[conn] = client
	} else {
		if _, ok := h.clients[dataset]; !ok {
			h.clients[dataset] = make(map[*websocket.Conn]*Client)
		}
		h.clients[dataset][conn] = client
	}
	h.mu.Unlock()

	go writePump(client)
	return client
}

func (h *Hub) Unregister(dataset string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if dataset == "" {
		if client, ok := h.global[conn]; ok {
			close(client.Send)
			delete(h.global, conn)
		}
		return
	}
	if clients, ok := h.clients[dataset]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.clients, dataset)
		}
	}
}

// Broadcast sends data to the dataset's clients and to every global client.
// Slow clients whose buffer is full miss the message.
func (h *Hub) Broadcast(dataset string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[dataset] {
		select {
		case client.Send <- data:
		default:
		}
	}
	for _, client := range h.global {
		select {
		case client.Send <- data:
		default:
		}
	}
}

func (h *Hub) GetStats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s := Stats{Global: len(h.global), Datasets: make(map[string]int, len(h.clients))}
	for name, clients := range h.clients {
		s.Datasets[name] = len(clients)
	}
	return s
}

// BroadcastDatasetReloaded tells subscribers that dataset now has count records.
func (h *Hub) BroadcastDatasetReloaded(dataset string, count int) {
	data, err := json.Marshal(DatasetReloaded{Type: "dataset_reloaded", Dataset: dataset, Count: count})
	if err != nil {
		zap.L().Error("JSON marshal error", zap.Error(err))
		return
	}
	h.Broadcast(dataset, data)
}

func writePump(client *Client) {
	defer func() {
		client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
		client.Conn.Close()
	}()
	for msg := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}
