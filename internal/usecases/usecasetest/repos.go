package usecasetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/ports/persistence"
	"github.com/admin/cosmic-connect/internal/ports/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func decimalFromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// Repos все репозитории поверх одного Store
type Repos struct {
	Profiles    repository.IProfileRepo
	Astrologers repository.IAstrologerRepo
	Chats       repository.IChatRepo
	Messages    repository.IMessageRepo
	Payments    repository.IPaymentRepo
}

func (s *Store) Repos() Repos {
	return Repos{
		Profiles:    &profileRepo{s},
		Astrologers: &astrologerRepo{s},
		Chats:       &chatRepo{s},
		Messages:    &messageRepo{s},
		Payments:    &paymentRepo{s},
	}
}

type profileRepo struct{ s *Store }

func (r *profileRepo) CreateTx(_ context.Context, _ persistence.Transaction, profile *domain.Profile, creds *domain.Credentials) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("profiles.CreateTx"); err != nil {
		return err
	}
	for _, p := range r.s.profiles {
		if strings.EqualFold(p.Email, profile.Email) {
			return fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
	}
	r.s.profiles[profile.ID] = *profile
	r.s.credentials[creds.ProfileID] = *creds
	return nil
}

func (r *profileRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile: %w", domain.ErrNotFound)
	}
	return &p, nil
}

func (r *profileRepo) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.profiles {
		if strings.EqualFold(p.Email, email) {
			p := p
			return &p, nil
		}
	}
	return nil, fmt.Errorf("profile: %w", domain.ErrNotFound)
}

func (r *profileRepo) GetCredentials(_ context.Context, profileID uuid.UUID) (*domain.Credentials, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.credentials[profileID]
	if !ok {
		return nil, fmt.Errorf("credentials: %w", domain.ErrNotFound)
	}
	return &c, nil
}

type astrologerRepo struct{ s *Store }

func (r *astrologerRepo) ListCards(context.Context) ([]domain.AstrologerCard, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cards := make([]domain.AstrologerCard, 0, len(r.s.astrologers))
	for id, a := range r.s.astrologers {
		p, ok := r.s.profiles[id]
		if !ok || p.Role != domain.RoleAstrologer {
			continue
		}
		cards = append(cards, domain.AstrologerCard{Astrologer: a, FullName: p.FullName, AvatarURL: p.AvatarURL})
	}
	sort.SliceStable(cards, func(i, j int) bool {
		a, b := cards[i], cards[j]
		if a.IsOnline != b.IsOnline {
			return a.IsOnline
		}
		if !a.Rating.Equal(b.Rating) {
			return a.Rating.GreaterThan(b.Rating)
		}
		return a.FullName < b.FullName
	})
	return cards, nil
}

func (r *astrologerRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Astrologer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.astrologers[id]
	if !ok {
		return nil, fmt.Errorf("astrologer: %w", domain.ErrNotFound)
	}
	return &a, nil
}

func (r *astrologerRepo) Create(_ context.Context, astrologer *domain.Astrologer) (*domain.Astrologer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.astrologers[astrologer.ID]; ok {
		return &existing, nil
	}
	r.s.astrologers[astrologer.ID] = *astrologer
	a := *astrologer
	return &a, nil
}

func (r *astrologerRepo) Update(_ context.Context, astrologer *domain.Astrologer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.astrologers[astrologer.ID]
	if !ok {
		return fmt.Errorf("astrologer: %w", domain.ErrNotFound)
	}
	existing.Bio = astrologer.Bio
	existing.Expertise = astrologer.Expertise
	existing.Specialties = astrologer.Specialties
	existing.ExperienceYears = astrologer.ExperienceYears
	existing.RatePerMinute = astrologer.RatePerMinute
	existing.Languages = astrologer.Languages
	existing.UpdatedAt = astrologer.UpdatedAt
	r.s.astrologers[astrologer.ID] = existing
	return nil
}

func (r *astrologerRepo) SetOnline(_ context.Context, id uuid.UUID, online bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.astrologers[id]
	if !ok {
		return fmt.Errorf("astrologer: %w", domain.ErrNotFound)
	}
	a.IsOnline = online
	r.s.astrologers[id] = a
	return nil
}

type chatRepo struct{ s *Store }

func (r *chatRepo) Create(_ context.Context, chat *domain.Chat) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("chats.Create"); err != nil {
		return err
	}
	r.s.chats[chat.ID] = *chat
	return nil
}

func (r *chatRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Chat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.chats[id]
	if !ok {
		return nil, fmt.Errorf("chat: %w", domain.ErrNotFound)
	}
	return &c, nil
}

func (r *chatRepo) list(filter func(domain.Chat) bool, counterpart func(domain.Chat) uuid.UUID) []domain.ChatSummary {
	out := make([]domain.ChatSummary, 0)
	for _, c := range r.s.chats {
		if !filter(c) {
			continue
		}
		out = append(out, domain.ChatSummary{Chat: c, CounterpartName: r.s.profiles[counterpart(c)].FullName})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *chatRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.ChatSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(
		func(c domain.Chat) bool { return c.UserID == userID },
		func(c domain.Chat) uuid.UUID { return c.AstrologerID },
	), nil
}

func (r *chatRepo) ListActiveByAstrologer(_ context.Context, astrologerID uuid.UUID) ([]domain.ChatSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(
		func(c domain.Chat) bool { return c.AstrologerID == astrologerID && c.IsActive },
		func(c domain.Chat) uuid.UUID { return c.UserID },
	), nil
}

func (r *chatRepo) ActivateTx(_ context.Context, _ persistence.Transaction, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("chats.ActivateTx"); err != nil {
		return false, err
	}
	c, ok := r.s.chats[id]
	if !ok || c.IsActive {
		return false, nil
	}
	now := time.Now().UTC()
	c.IsActive = true
	if c.StartedAt == nil {
		c.StartedAt = &now
	}
	c.UpdatedAt = now
	r.s.chats[id] = c
	return true, nil
}

type messageRepo struct{ s *Store }

func (r *messageRepo) Create(_ context.Context, message *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("messages.Create"); err != nil {
		return err
	}
	if _, ok := r.s.chats[message.ChatID]; !ok {
		return fmt.Errorf("chat: %w", domain.ErrNotFound)
	}
	// счётчик внутри чата, как chats.last_message_seq
	var last int64
	for _, m := range r.s.messages {
		if m.ChatID == message.ChatID && m.Seq > last {
			last = m.Seq
		}
	}
	message.Seq = last + 1
	message.CreatedAt = time.Now().UTC()
	message.IsRead = false
	r.s.messages = append(r.s.messages, *message)
	return nil
}

func (r *messageRepo) ListByChat(ctx context.Context, chatID uuid.UUID) ([]domain.Message, error) {
	return r.ListAfter(ctx, chatID, 0)
}

func (r *messageRepo) ListAfter(_ context.Context, chatID uuid.UUID, afterSeq int64) ([]domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("messages.ListAfter"); err != nil {
		return nil, err
	}
	out := make([]domain.Message, 0)
	for _, m := range r.s.messages {
		if m.ChatID == chatID && m.Seq > afterSeq {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *messageRepo) MarkRead(_ context.Context, chatID, readerID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for i, m := range r.s.messages {
		if m.ChatID == chatID && m.SenderID != readerID && !m.IsRead {
			r.s.messages[i].IsRead = true
			n++
		}
	}
	return n, nil
}

type paymentRepo struct{ s *Store }

func (r *paymentRepo) Create(_ context.Context, payment *domain.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("payments.Create"); err != nil {
		return err
	}
	if payment.ChatID != nil {
		for _, p := range r.s.paymentsOfLocked(*payment.ChatID) {
			if p.Status == domain.PaymentStatusPending || p.Status == domain.PaymentStatusVerified {
				return domain.ErrPaymentExists
			}
		}
	}
	r.s.payments[payment.ID] = *payment
	return nil
}

func (r *paymentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment: %w", domain.ErrNotFound)
	}
	return &p, nil
}

func (r *paymentRepo) GetForUpdateTx(ctx context.Context, _ persistence.Transaction, id uuid.UUID) (*domain.Payment, error) {
	return r.GetByID(ctx, id)
}

func (r *paymentRepo) ListByChat(_ context.Context, chatID uuid.UUID) ([]domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.paymentsOfLocked(chatID), nil
}

func (r *paymentRepo) pending(filter func(domain.Payment) bool) []domain.PendingPayment {
	out := make([]domain.PendingPayment, 0)
	for _, p := range r.s.payments {
		if p.Status != domain.PaymentStatusPending || !filter(p) {
			continue
		}
		out = append(out, domain.PendingPayment{Payment: p, PayerName: r.s.profiles[p.UserID].FullName})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *paymentRepo) ListPending(context.Context) ([]domain.PendingPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.pending(func(domain.Payment) bool { return true }), nil
}

func (r *paymentRepo) ListPendingOlderThan(_ context.Context, before time.Time) ([]domain.PendingPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.pending(func(p domain.Payment) bool { return p.CreatedAt.Before(before) }), nil
}

func (r *paymentRepo) ListVerifiedWithInactiveChat(context.Context) ([]domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Payment, 0)
	for _, p := range r.s.payments {
		if p.Status != domain.PaymentStatusVerified || p.ChatID == nil {
			continue
		}
		if c, ok := r.s.chats[*p.ChatID]; ok && !c.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *paymentRepo) ResolveTx(_ context.Context, _ persistence.Transaction, id uuid.UUID, status domain.PaymentStatus, adminID uuid.UUID, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("payments.ResolveTx"); err != nil {
		return false, err
	}
	p, ok := r.s.payments[id]
	if !ok || p.Status != domain.PaymentStatusPending {
		return false, nil
	}
	p.Status = status
	p.UpdatedAt = at
	if status == domain.PaymentStatusVerified {
		p.VerifiedBy = &adminID
		p.VerifiedAt = &at
	}
	r.s.payments[id] = p
	return true, nil
}
