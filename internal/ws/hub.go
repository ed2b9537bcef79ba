package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/event"
	"github.com/ignatzorin/classifieds-moderation/internal/goroutine"
	"github.com/ignatzorin/classifieds-moderation/internal/logger"
)

// Hub раздаёт события модерации подключённым клиентам.
// Администраторы получают всё, владелец - только события по своим объявлениям.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
}

type message struct {
	ownerID uuid.UUID
	payload []byte
}

type envelope struct {
	Type event.Type  `json:"type"`
	Data event.Event `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 64),
		done:       make(chan struct{}),
	}
}

// Run обслуживает хаб до отмены контекста, затем закрывает все подключения.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg)
		}
	}
}

// Register не блокируется после остановки хаба.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish реализует event.Publisher. Если буфер заполнен, событие отбрасывается.
func (h *Hub) Publish(_ context.Context, evt event.Event) {
	raw, err := json.Marshal(envelope{Type: evt.Type, Data: evt})
	if err != nil {
		logger.L().WithError(err).Error("ws: не удалось сериализовать событие")
		return
	}

	select {
	case h.broadcast <- message{ownerID: evt.OwnerID, payload: raw}:
	case <-h.done:
	default:
		logger.WithFields(logrus.Fields{
			"event":      evt.Type,
			"listing_id": evt.ListingID,
		}).Warn("ws: очередь рассылки переполнена, событие пропущено")
	}
}

// ClientCount - число активных подключений.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]struct{})
	}
	h.clients[client.userID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)
		}
		if len(clients) == 0 {
			delete(h.clients, client.userID)
		}
	}
}

func (h *Hub) send(msg message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for userID, set := range h.clients {
		for client := range set {
			if !client.admin && userID != msg.ownerID {
				continue
			}
			select {
			case client.send <- msg.payload:
			default:
				// медленный клиент
				goroutine.SafeGo(client.Close)
			}
		}
	}
}

func (h *Hub) shutdown() {
	close(h.done)

	h.mu.Lock()
	clients := make([]*Client, 0)
	for userID, set := range h.clients {
		for client := range set {
			close(client.send)
			clients = append(clients, client)
		}
		delete(h.clients, userID)
	}
	h.mu.Unlock()

	for _, client := range clients {
		client.closeConn()
	}
}
