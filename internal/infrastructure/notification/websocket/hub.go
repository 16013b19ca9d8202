package websocket

import (
	"context"
	"sync"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

// Типы сообщений канала реального времени
const (
	MessageMeasurements = "measurements"
	MessageConditions   = "conditions"
	MessageAlert        = "alert"
)

// Message - сообщение клиенту в формате {type, data}
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub управляет WebSocket клиентами и рассылает сообщения.
// Реализует интерфейс port.NotificationService
type Hub struct {
	clients map[*Client]struct{}
	mu      sync.RWMutex

	broadcast  chan Message
	register   chan *Client
	unregister chan *Client

	// Последнее состояние океана отправляется новым клиентам сразу после подключения
	lastConditions *dto.OceanConditionsDTO
	lastMu         sync.RWMutex

	logger *logger.Logger
}

// NewHub создает новый WebSocket hub
func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run запускает цикл hub до отмены контекста
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("WebSocket hub started")

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.logger.Info("WebSocket hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("Client registered", "total_clients", total)

			if conditions := h.latestConditions(); conditions != nil {
				h.deliver(client, Message{Type: MessageConditions, Data: conditions})
			}

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			h.mu.RLock()
			targets := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				targets = append(targets, client)
			}
			h.mu.RUnlock()

			for _, client := range targets {
				h.deliver(client, msg)
			}
		}
	}
}

// deliver кладет сообщение в очередь клиента; переполненный клиент отключается
func (h *Hub) deliver(client *Client, msg Message) {
	select {
	case client.send <- msg:
	default:
		h.logger.Warn("Client channel full, disconnecting", "type", msg.Type)
		h.remove(client)
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.logger.Debug("Client unregistered", "total_clients", len(h.clients))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *Hub) latestConditions() *dto.OceanConditionsDTO {
	h.lastMu.RLock()
	defer h.lastMu.RUnlock()
	return h.lastConditions
}

// Register регистрирует нового клиента
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет клиента
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) enqueue(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("Broadcast channel full, dropping message", "type", msg.Type)
	}
}

// BroadcastMeasurements отправляет новые измерения всем клиентам
func (h *Hub) BroadcastMeasurements(points []*dto.MeasurementDTO) {
	if len(points) == 0 {
		return
	}
	h.enqueue(Message{Type: MessageMeasurements, Data: points})
}

// BroadcastConditions отправляет пересчитанное состояние океана и запоминает его
func (h *Hub) BroadcastConditions(conditions *dto.OceanConditionsDTO) {
	if conditions == nil {
		return
	}
	h.lastMu.Lock()
	h.lastConditions = conditions
	h.lastMu.Unlock()

	h.enqueue(Message{Type: MessageConditions, Data: conditions})
}

// BroadcastAlert отправляет алерт всем клиентам
func (h *Hub) BroadcastAlert(alert *dto.AlertDTO) {
	if alert == nil {
		return
	}
	h.enqueue(Message{Type: MessageAlert, Data: alert})
	h.logger.Debug("Alert queued for broadcast", "severity", alert.Severity)
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
