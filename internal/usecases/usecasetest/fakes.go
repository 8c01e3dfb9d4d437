package usecasetest

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/ports/cache"
)

// ProofStorage объектное хранилище в памяти
type ProofStorage struct {
	mu        sync.Mutex
	Objects   map[string][]byte
	Types     map[string]string
	UploadErr error
}

func NewProofStorage() *ProofStorage {
	return &ProofStorage{
		Objects: make(map[string][]byte),
		Types:   make(map[string]string),
	}
}

func (p *ProofStorage) Upload(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	if p.UploadErr != nil {
		return p.UploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Objects[key] = data
	p.Types[key] = contentType
	return nil
}

func (p *ProofStorage) GetPresignedURL(_ context.Context, key string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://proofs.test/%s?expires=%d", key, int(expires.Seconds())), nil
}

func (p *ProofStorage) Delete(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.Objects, key)
	delete(p.Types, key)
	return nil
}

func (p *ProofStorage) Has(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.Objects[key]
	return ok
}

// Publisher запоминает опубликованные события
type Publisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *Publisher) Publish(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *Publisher) Events() []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Event(nil), p.events...)
}

// Types типы событий в порядке публикации
func (p *Publisher) Types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// Alerter запоминает отправленные алерты
type Alerter struct {
	mu       sync.Mutex
	messages []string
	Err      error
}

func (a *Alerter) SendAlert(_ context.Context, message string) error {
	if a.Err != nil {
		return a.Err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, message)
	return nil
}

func (a *Alerter) Messages() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.messages...)
}

// Cache кэш в памяти без TTL
type Cache struct {
	mu     sync.Mutex
	values map[string]string
}

func NewCache() *Cache {
	return &Cache{values: make(map[string]string)}
}

var _ cache.Cache = (*Cache)(nil)

func (c *Cache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", cache.ErrMiss, key)
	}
	return v, nil
}

func (c *Cache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

func (c *Cache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok, nil
}

func (c *Cache) Close() error { return nil }
