// Package models defines the persisted schema and the request/response
// bodies of the public API.
package models

import (
	"time"
)

// Account represents a registered user's identity and credential record.
// The password hash is never serialized; topics are attached through the
// account_topics join table and cascade-deleted with either side.
type Account struct {
	ID           uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	FullName     string    `json:"full_name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"size:320;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;type:text;not null"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at"`
	Topics       []Topic   `json:"topics" gorm:"many2many:account_topics;constraint:OnDelete:CASCADE"`
}

// TableName overrides the gorm default
func (Account) TableName() string { return "accounts" }

// Topic is a normalized label representing a declared interest. Rows are
// inserted on first reference by a registration and never deleted by the
// registration flow.
type Topic struct {
	ID   uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:100;uniqueIndex;not null"`
}

// TableName overrides the gorm default
func (Topic) TableName() string { return "topics" }

// TopicNames returns the topic labels in stored order.
func (a *Account) TopicNames() []string {
	names := make([]string, 0, len(a.Topics))
	for _, t := range a.Topics {
		names = append(names, t.Name)
	}
	return names
}

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	FullName  string   `json:"full_name" binding:"required,min=2,max=255"`
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,min=8,max=72"`
	Interests []string `json:"interests" binding:"required,min=1,dive,max=100"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=1"`
}

// TokenResponse is the successful login response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MessageResponse is a generic acknowledgement response
type MessageResponse struct {
	Message string `json:"message"`
}

// AccountResponse is the safe public representation of an account
type AccountResponse struct {
	ID        uint64    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Interests []string  `json:"interests"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAccountResponse maps an account (with topics loaded) to its public form.
func NewAccountResponse(a *Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		FullName:  a.FullName,
		Email:     a.Email,
		Interests: a.TopicNames(),
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
	}
}

// SummarizeRequest is the body of POST /api/summarize
type SummarizeRequest struct {
	Text      string `json:"text" binding:"required"`
	MinLength int    `json:"min_length" binding:"omitempty,gte=1"`
	MaxLength int    `json:"max_length" binding:"omitempty,gte=1"`
}

// SummarizeResponse carries the generated summary
type SummarizeResponse struct {
	Summary string `json:"summary"`
}
