// Package usecasetest in-memory реализации портов для тестов use case'ов и джоб
package usecasetest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/ports/persistence"
	"github.com/google/uuid"
)

var errUnsupported = errors.New("raw queries are not supported by the in-memory store")

// Store таблицы в памяти с теми же ограничениями, что и схема БД
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	profiles    map[uuid.UUID]domain.Profile
	credentials map[uuid.UUID]domain.Credentials
	astrologers map[uuid.UUID]domain.Astrologer
	chats       map[uuid.UUID]domain.Chat
	messages    []domain.Message
	payments    map[uuid.UUID]domain.Payment

	failures map[string]error
}

func NewStore() *Store {
	return &Store{
		profiles:    make(map[uuid.UUID]domain.Profile),
		credentials: make(map[uuid.UUID]domain.Credentials),
		astrologers: make(map[uuid.UUID]domain.Astrologer),
		chats:       make(map[uuid.UUID]domain.Chat),
		payments:    make(map[uuid.UUID]domain.Payment),
		failures:    make(map[string]error),
	}
}

// FailNext следующий вызов операции op ("payments.Create", "chats.ActivateTx", ...) вернёт err
func (s *Store) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *Store) failure(op string) error {
	if err, ok := s.failures[op]; ok {
		delete(s.failures, op)
		return err
	}
	return nil
}

// AddProfile регистрирует профиль напрямую, минуя auth
func (s *Store) AddProfile(role domain.Role, fullName string) domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	id := uuid.New()
	p := domain.Profile{
		ID:        id,
		Email:     strings.ToLower(strings.ReplaceAll(fullName, " ", ".")) + "@" + id.String()[:8] + ".test",
		FullName:  fullName,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.profiles[id] = p
	return p
}

// AddAstrologer профиль астролога вместе с карточкой
func (s *Store) AddAstrologer(fullName string, online bool, rating float64) domain.Profile {
	p := s.AddProfile(domain.RoleAstrologer, fullName)

	s.mu.Lock()
	defer s.mu.Unlock()
	a := domain.NewDefaultAstrologer(p.ID, p.CreatedAt)
	a.IsOnline = online
	a.Rating = decimalFromFloat(rating)
	s.astrologers[p.ID] = *a
	return p
}

// PutChat кладёт строку чата как есть, для подготовки несогласованных состояний
func (s *Store) PutChat(chat domain.Chat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[chat.ID] = chat
}

// PutPayment кладёт строку платежа как есть
func (s *Store) PutPayment(payment domain.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[payment.ID] = payment
}

func (s *Store) Chat(id uuid.UUID) (domain.Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[id]
	return c, ok
}

func (s *Store) Payment(id uuid.UUID) (domain.Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	return p, ok
}

// PaymentsOf платежи чата
func (s *Store) PaymentsOf(chatID uuid.UUID) []domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paymentsOfLocked(chatID)
}

func (s *Store) paymentsOfLocked(chatID uuid.UUID) []domain.Payment {
	out := make([]domain.Payment, 0)
	for _, p := range s.payments {
		if p.ChatID != nil && *p.ChatID == chatID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// CountMessages число сообщений в чате
func (s *Store) CountMessages(chatID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.messages {
		if m.ChatID == chatID {
			n++
		}
	}
	return n
}

type snapshot struct {
	profiles    map[uuid.UUID]domain.Profile
	credentials map[uuid.UUID]domain.Credentials
	astrologers map[uuid.UUID]domain.Astrologer
	chats       map[uuid.UUID]domain.Chat
	messages    []domain.Message
	payments    map[uuid.UUID]domain.Payment
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		profiles:    copyMap(s.profiles),
		credentials: copyMap(s.credentials),
		astrologers: copyMap(s.astrologers),
		chats:       copyMap(s.chats),
		messages:    append([]domain.Message(nil), s.messages...),
		payments:    copyMap(s.payments),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = snap.profiles
	s.credentials = snap.credentials
	s.astrologers = snap.astrologers
	s.chats = snap.chats
	s.messages = snap.messages
	s.payments = snap.payments
}

// DB persistence.Persistence поверх Store: транзакции сериализуются, Rollback восстанавливает снимок
type DB struct {
	store *Store
}

func (s *Store) DB() *DB {
	return &DB{store: s}
}

var _ persistence.Persistence = (*DB)(nil)

func (d *DB) Get(context.Context, interface{}, string, ...interface{}) error { return errUnsupported }
func (d *DB) Select(context.Context, interface{}, string, ...interface{}) error {
	return errUnsupported
}
func (d *DB) Exec(context.Context, string, ...interface{}) error { return errUnsupported }
func (d *DB) ExecWithResult(context.Context, string, ...interface{}) (int64, error) {
	return 0, errUnsupported
}
func (d *DB) NamedExec(context.Context, string, interface{}) error { return errUnsupported }

func (d *DB) BeginTx(context.Context) (persistence.Transaction, error) {
	d.store.txMu.Lock()
	return &Tx{store: d.store, snap: d.store.snapshot()}, nil
}

func (d *DB) WithTransaction(ctx context.Context, fn func(context.Context, persistence.Transaction) error) error {
	tx, err := d.BeginTx(ctx)
	if err != nil {
		return err
	}
	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type Tx struct {
	store *Store
	snap  snapshot
	done  bool
}

func (t *Tx) Get(context.Context, interface{}, string, ...interface{}) error { return errUnsupported }
func (t *Tx) Select(context.Context, interface{}, string, ...interface{}) error {
	return errUnsupported
}
func (t *Tx) Exec(context.Context, string, ...interface{}) error { return errUnsupported }
func (t *Tx) ExecWithResult(context.Context, string, ...interface{}) (int64, error) {
	return 0, errUnsupported
}
func (t *Tx) NamedExec(context.Context, string, interface{}) error { return errUnsupported }

func (t *Tx) Commit() error {
	return t.finish()
}

func (t *Tx) Rollback() error {
	if !t.done {
		t.store.restore(t.snap)
	}
	return t.finish()
}

func (t *Tx) finish() error {
	if t.done {
		return fmt.Errorf("transaction already finished")
	}
	t.done = true
	t.store.txMu.Unlock()
	return nil
}
