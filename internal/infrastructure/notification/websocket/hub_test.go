package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
	"github.com/dreschagin/marine-dashboard/internal/application/port"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

var _ port.NotificationService = (*Hub)(nil)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	log := logger.New("error")
	hub := NewHub(log)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(hub, conn, log).Serve()
	}))

	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return hub, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", n, hub.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

type rawMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func readMessage(t *testing.T, conn *websocket.Conn) rawMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg rawMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read error: %v", err)
	}
	return msg
}

func TestHub_BroadcastsToAllClients(t *testing.T) {
	hub, server := startHub(t)
	a := dial(t, server)
	b := dial(t, server)
	waitForClients(t, hub, 2)

	hub.BroadcastAlert(&dto.AlertDTO{ID: "a1", Severity: "high"})

	for _, conn := range []*websocket.Conn{a, b} {
		msg := readMessage(t, conn)
		if msg.Type != MessageAlert {
			t.Fatalf("expected alert message, got %s", msg.Type)
		}
		var alert dto.AlertDTO
		if err := json.Unmarshal(msg.Data, &alert); err != nil || alert.ID != "a1" {
			t.Fatalf("unexpected alert payload: %s", string(msg.Data))
		}
	}
}

func TestHub_NewClientReceivesLatestConditions(t *testing.T) {
	hub, server := startHub(t)

	score := 75
	hub.BroadcastConditions(&dto.OceanConditionsDTO{HealthScore: &score, HealthStatus: dto.HealthStatusWarning})

	conn := dial(t, server)
	msg := readMessage(t, conn)
	if msg.Type != MessageConditions {
		t.Fatalf("expected conditions message, got %s", msg.Type)
	}

	var conditions dto.OceanConditionsDTO
	if err := json.Unmarshal(msg.Data, &conditions); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if conditions.HealthScore == nil || *conditions.HealthScore != 75 {
		t.Fatalf("unexpected conditions: %+v", conditions)
	}
}

func TestHub_EmptyMeasurementsAreNotBroadcast(t *testing.T) {
	hub := NewHub(logger.New("error"))
	hub.BroadcastMeasurements(nil)
	if len(hub.broadcast) != 0 {
		t.Fatalf("expected nothing queued")
	}

	hub.BroadcastMeasurements([]*dto.MeasurementDTO{{ID: "m1"}})
	if len(hub.broadcast) != 1 {
		t.Fatalf("expected one queued message")
	}
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	hub, server := startHub(t)
	conn := dial(t, server)
	waitForClients(t, hub, 1)

	_ = conn.Close()
	waitForClients(t, hub, 0)
}
