package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/application/dto"
	"github.com/dreschagin/marine-dashboard/internal/application/port"
)

type recordingNotifier struct {
	mu           sync.Mutex
	measurements [][]*dto.MeasurementDTO
	conditions   []*dto.OceanConditionsDTO
	alerts       []*dto.AlertDTO
}

func (n *recordingNotifier) BroadcastMeasurements(points []*dto.MeasurementDTO) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.measurements = append(n.measurements, points)
}

func (n *recordingNotifier) BroadcastConditions(conditions *dto.OceanConditionsDTO) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.conditions = append(n.conditions, conditions)
}

func (n *recordingNotifier) BroadcastAlert(alert *dto.AlertDTO) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
}

func (n *recordingNotifier) ClientCount() int { return 0 }

type publishedEvent struct {
	subject string
	event   interface{}
}

type recordingEvents struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingEvents) PublishEvent(_ context.Context, subject string, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{subject: subject, event: event})
	return p.err
}

func (p *recordingEvents) Close() error { return nil }

func (p *recordingEvents) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.subject
	}
	return out
}

type memoryCache struct {
	mu      sync.Mutex
	values  map[string][]byte
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	raw, ok := c.values[key]
	c.mu.Unlock()
	if !ok {
		return port.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}) error {
	return c.SetWithTTL(ctx, key, value, time.Minute)
}

func (c *memoryCache) SetWithTTL(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = raw
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

func (c *memoryCache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.values {
		if strings.HasPrefix(key, prefix) {
			delete(c.values, key)
		}
	}
	return nil
}

func (c *memoryCache) Close() error { return nil }

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}

type putCall struct {
	key         string
	contentType string
	body        []byte
}

type mockImageStorage struct {
	calls []putCall
	err   error
}

func (m *mockImageStorage) PutObject(_ context.Context, key, contentType string, body []byte) (string, error) {
	m.calls = append(m.calls, putCall{key: key, contentType: contentType, body: body})
	if m.err != nil {
		return "", m.err
	}
	return "https://example.com/" + key, nil
}

func (m *mockImageStorage) GetObjectURL(_ context.Context, key string) (string, error) {
	return "https://signed.example.com/" + key, nil
}

type stubIdentifier struct {
	result *port.IdentificationResult
	err    error
	last   port.IdentificationRequest
}

func (s *stubIdentifier) Identify(_ context.Context, req port.IdentificationRequest) (*port.IdentificationResult, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// Минимальные валидные сигнатуры форматов для http.DetectContentType
var (
	pngImage  = []byte("\x89PNG\x0D\x0A\x1A\x0A\x00\x00\x00\x0DIHDR")
	jpegImage = []byte("\xFF\xD8\xFF\xE0\x00\x10JFIF\x00")
)
