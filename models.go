package main

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is a scheduled workshop date with a fixed number of seats.
// Date, Time and Location are free-text display strings, shown to
// participants exactly as the admin typed them.
type Session struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Date      string    `json:"date" gorm:"not null"`
	Time      string    `json:"time" gorm:"not null"`
	Location  string    `json:"location" gorm:"not null"`
	MaxSeats  int       `json:"max_seats" gorm:"not null"`
	SeatsLeft int       `json:"seats_left" gorm:"not null"`
	Status    string    `json:"status" gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

const (
	SessionActive   = "active"
	SessionInactive = "inactive"
)

// Registration is a person's sign-up, optionally tied to a session.
// SessionID is nil when someone leaves details without picking a date.
type Registration struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID *string   `json:"session_id" gorm:"type:uuid;index"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null"`
	Message   string    `json:"message"`
	Status    string    `json:"status" gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `json:"created_at"`

	Session *Session `json:"session,omitempty" gorm:"foreignKey:SessionID"`
}

func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

const RegistrationPending = "pending"

// AdminUser is the operator account used to access the admin API.
// There is no self-service signup; the account is bootstrapped from env.
type AdminUser struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a *AdminUser) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
