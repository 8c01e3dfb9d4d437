package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	DefaultRatePerMinute = decimal.NewFromInt(10)
	DefaultLanguages     = StringList{"English"}
)

// Astrologer карточка астролога, id совпадает с id профиля (one-to-one)
type Astrologer struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	Bio                string          `json:"bio" db:"bio"`
	Expertise          StringList      `json:"expertise" db:"expertise"`
	Specialties        string          `json:"specialties" db:"specialties"`
	ExperienceYears    int             `json:"experience_years" db:"experience_years"`
	RatePerMinute      decimal.Decimal `json:"rate_per_minute" db:"rate_per_minute"`
	IsOnline           bool            `json:"is_online" db:"is_online"`
	Rating             decimal.Decimal `json:"rating" db:"rating"`
	TotalConsultations int             `json:"total_consultations" db:"total_consultations"`
	Languages          StringList      `json:"languages" db:"languages"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// AstrologerCard строка каталога: карточка + имя и аватар из профиля
type AstrologerCard struct {
	Astrologer
	FullName  string  `json:"full_name" db:"full_name"`
	AvatarURL *string `json:"avatar_url,omitempty" db:"avatar_url"`
}

// NewDefaultAstrologer дефолтная карточка, создаётся лениво при первом заходе на дашборд
func NewDefaultAstrologer(id uuid.UUID, now time.Time) *Astrologer {
	return &Astrologer{
		ID:                 id,
		Expertise:          StringList{},
		RatePerMinute:      DefaultRatePerMinute,
		IsOnline:           false,
		Rating:             decimal.Zero,
		TotalConsultations: 0,
		Languages:          append(StringList{}, DefaultLanguages...),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// AstrologerPatch изменяемые владельцем поля, nil - не трогать
type AstrologerPatch struct {
	Bio             *string
	Expertise       StringList
	Specialties     *string
	ExperienceYears *int
	RatePerMinute   *decimal.Decimal
	Languages       StringList
}

// Apply применяет патч к карточке
func (p AstrologerPatch) Apply(a *Astrologer) error {
	if p.RatePerMinute != nil {
		if p.RatePerMinute.IsNegative() {
			return fmt.Errorf("%w: rate per minute must not be negative", ErrValidation)
		}
		a.RatePerMinute = *p.RatePerMinute
	}
	if p.ExperienceYears != nil {
		if *p.ExperienceYears < 0 {
			return fmt.Errorf("%w: experience years must not be negative", ErrValidation)
		}
		a.ExperienceYears = *p.ExperienceYears
	}
	if p.Bio != nil {
		a.Bio = *p.Bio
	}
	if p.Specialties != nil {
		a.Specialties = *p.Specialties
	}
	if p.Expertise != nil {
		a.Expertise = p.Expertise
	}
	if p.Languages != nil {
		a.Languages = p.Languages
	}
	return nil
}
